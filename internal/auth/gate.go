package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/alshamelpay/withdrawal_bot/internal/db"
)

var ErrForbidden = errors.New("forbidden")

// Decision — явный результат проверки доступа: роутер обязан ветвиться по нему,
// а не полагаться на молчаливый fallthrough.
type Decision int

const (
	Denied Decision = iota
	Authorized
)

type AdminStore interface {
	GetByUserID(ctx context.Context, userID int64) (*db.Admin, error)
	Upsert(ctx context.Context, userID int64, username string, role db.AdminRole) error
}

type Gate struct {
	admins AdminStore
}

func NewGate(admins AdminStore) *Gate {
	return &Gate{
		admins: admins,
	}
}

func (g *Gate) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	_, err := g.admins.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrAdminNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("Gate.IsAdmin: %w", err)
	}

	return true, nil
}

func (g *Gate) IsMasterAdmin(ctx context.Context, userID int64) (bool, error) {
	admin, err := g.admins.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrAdminNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("Gate.IsMasterAdmin: %w", err)
	}

	return admin.Role == db.RoleMaster, nil
}

// Authorize закрывает доступ и при ошибке хранилища: лучше отказать админу,
// чем пропустить постороннего.
func (g *Gate) Authorize(ctx context.Context, userID int64) Decision {
	ok, err := g.IsAdmin(ctx, userID)
	if err != nil || !ok {
		return Denied
	}

	return Authorized
}

func (g *Gate) AddAdmin(ctx context.Context, actorID int64, newAdminID int64, username string) error {
	isMaster, err := g.IsMasterAdmin(ctx, actorID)
	if err != nil {
		return fmt.Errorf("Gate.AddAdmin: %w", err)
	}

	if !isMaster {
		return ErrForbidden
	}

	if err := g.admins.Upsert(ctx, newAdminID, username, db.RoleAssistant); err != nil {
		return fmt.Errorf("Gate.AddAdmin: %w", err)
	}

	return nil
}
