package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var uniqueViolation pq.ErrorCode = "23505"

type WithdrawalRequest struct {
	ID                  int64           `db:"id"`
	RequestID           string          `db:"request_id"`
	UserID              int64           `db:"user_id"`
	Username            string          `db:"username"`
	AppName             string          `db:"app_name"`
	Currency            string          `db:"currency"`
	Amount              decimal.Decimal `db:"amount"`
	AccountNumber       string          `db:"account_number"`
	TotalBalance        decimal.Decimal `db:"total_balance"`
	PreviousWithdrawals string          `db:"previous_withdrawals"`
	AccountCreationDate string          `db:"account_creation_date"`
	SuccessCount        int             `db:"success_count"`
	FailedCount         int             `db:"failed_count"`
	Status              Status          `db:"status"`
	ApprovedBy          *int64          `db:"approved_by"`
	ApprovedAt          *time.Time      `db:"approved_at"`
	MessageRef          *int64          `db:"message_ref"`
	CreatedAt           time.Time       `db:"created_at"`
}

type WithdrawalRequestRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRequestRepository(db *sqlx.DB) *WithdrawalRequestRepository {
	return &WithdrawalRequestRepository{
		db: db,
	}
}

func (r *WithdrawalRequestRepository) Create(ctx context.Context, req *WithdrawalRequest) error {
	_, err := r.db.ExecContext(ctx, `
	    INSERT INTO withdrawal_requests
		(request_id, user_id, username, app_name, currency, amount, account_number,
		total_balance, previous_withdrawals, account_creation_date, success_count, failed_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'pending')
	`,
		req.RequestID,
		req.UserID,
		req.Username,
		req.AppName,
		req.Currency,
		req.Amount,
		req.AccountNumber,
		req.TotalBalance,
		req.PreviousWithdrawals,
		req.AccountCreationDate,
		req.SuccessCount,
		req.FailedCount,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateRequestID
		}

		return fmt.Errorf("WithdrawalRequestRepository.Create: %w", err)
	}

	return nil
}

func (r *WithdrawalRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*WithdrawalRequest, error) {
	var req WithdrawalRequest

	err := r.db.GetContext(ctx, &req, `
	    SELECT * FROM withdrawal_requests
		WHERE request_id = $1
	`, requestID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}

		return nil, fmt.Errorf("WithdrawalRequestRepository.GetByRequestID: %w", err)
	}

	return &req, nil
}

func (r *WithdrawalRequestRepository) GetLatest(ctx context.Context, limit int) ([]WithdrawalRequest, error) {
	var reqs []WithdrawalRequest

	err := r.db.SelectContext(ctx, &reqs, `
	    SELECT * FROM withdrawal_requests
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("WithdrawalRequestRepository.GetLatest: %w", err)
	}

	return reqs, nil
}

// TransitionStatus переводит заявку из pending в терминальный статус одним
// условным UPDATE: решение, автор и время фиксируются атомарно, выигрывает
// ровно один из конкурирующих операторов.
func (r *WithdrawalRequestRepository) TransitionStatus(
	ctx context.Context,
	requestID string,
	newStatus Status,
	decidedBy int64,
	decidedAt time.Time,
	messageRef *int64,
) error {
	result, err := r.db.ExecContext(ctx, `
	    UPDATE withdrawal_requests
		SET status = $2, approved_by = $3, approved_at = $4, message_ref = $5
		WHERE request_id = $1 AND status = 'pending'
	`, requestID, newStatus, decidedBy, decidedAt, messageRef)

	if err != nil {
		return fmt.Errorf("WithdrawalRequestRepository.TransitionStatus: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("WithdrawalRequestRepository.TransitionStatus: %w", err)
	}

	if rows > 0 {
		return nil
	}

	// Условие не сработало: либо заявки нет, либо статус уже терминальный.
	req, err := r.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}

	if req.Status == StatusPending || req.ApprovedBy == nil || req.ApprovedAt == nil {
		return fmt.Errorf("WithdrawalRequestRepository.TransitionStatus: no rows updated for pending request %s", requestID)
	}

	return &AlreadyDecidedError{
		Status:    req.Status,
		DecidedBy: *req.ApprovedBy,
		DecidedAt: *req.ApprovedAt,
	}
}
