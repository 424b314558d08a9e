package db

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRequestNotFound    = errors.New("withdrawal request not found")
	ErrDuplicateRequestID = errors.New("duplicate request id")
	ErrAdminNotFound      = errors.New("admin not found")
)

// AlreadyDecidedError возвращается при попытке повторного решения по заявке:
// проигравший гонку получает уже зафиксированный исход.
type AlreadyDecidedError struct {
	Status    Status
	DecidedBy int64
	DecidedAt time.Time
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("request already %s by admin %d", e.Status, e.DecidedBy)
}
