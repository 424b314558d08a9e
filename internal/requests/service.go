package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alshamelpay/withdrawal_bot/internal/db"
)

// Store — персистентное хранилище заявок. Единственная операция, требующая
// взаимного исключения, — TransitionStatus; атомарность обеспечивает слой
// хранения, а не блокировки приложения.
type Store interface {
	Create(ctx context.Context, req *db.WithdrawalRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*db.WithdrawalRequest, error)
	GetLatest(ctx context.Context, limit int) ([]db.WithdrawalRequest, error)
	TransitionStatus(ctx context.Context, requestID string, newStatus db.Status, decidedBy int64, decidedAt time.Time, messageRef *int64) error
}

// AdminDirectory нужен движку только для отображаемого имени решившего админа.
type AdminDirectory interface {
	GetByUserID(ctx context.Context, userID int64) (*db.Admin, error)
}

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

func (o Outcome) status() db.Status {
	if o == OutcomeRejected {
		return db.StatusRejected
	}

	return db.StatusApproved
}

type Submission struct {
	UserID              int64
	Username            string
	AppName             string
	Currency            string
	Amount              decimal.Decimal
	AccountNumber       string
	TotalBalance        decimal.Decimal
	PreviousWithdrawals string
	AccountCreationDate string
	SuccessCount        int
	FailedCount         int
}

// Decision — результат попытки решения. Mine=false означает, что исход уже
// был зафиксирован другим оператором; Summary в обоих случаях описывает
// зафиксированное состояние.
type Decision struct {
	RequestID     string
	Status        db.Status
	DecidedBy     int64
	DecidedByName string
	DecidedAt     time.Time
	Mine          bool
	Summary       RenderDirective
}

const (
	maxCreateAttempts = 3
	createRetryDelay  = 100 * time.Millisecond
)

type Service struct {
	store  Store
	admins AdminDirectory
	now    func() time.Time
}

func NewService(store Store, admins AdminDirectory) *Service {
	return &Service{
		store:  store,
		admins: admins,
		now:    time.Now,
	}
}

// Submit валидирует поля, генерирует request_id и сохраняет заявку
// в статусе pending. При невалидных полях ничего не пишется.
func (s *Service) Submit(ctx context.Context, sub Submission) (string, error) {
	var fields []string

	if sub.Currency == "" {
		fields = append(fields, "currency")
	}
	if !sub.Amount.IsPositive() {
		fields = append(fields, "amount")
	}
	if sub.AccountNumber == "" {
		fields = append(fields, "account_number")
	}
	if sub.SuccessCount < 0 {
		fields = append(fields, "success_count")
	}
	if sub.FailedCount < 0 {
		fields = append(fields, "failed_count")
	}

	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}

	previous := sub.PreviousWithdrawals
	if previous == "" {
		previous = "0"
	}

	req := &db.WithdrawalRequest{
		RequestID:           newRequestID(s.now(), sub.UserID),
		UserID:              sub.UserID,
		Username:            sub.Username,
		AppName:             sub.AppName,
		Currency:            sub.Currency,
		Amount:              sub.Amount,
		AccountNumber:       sub.AccountNumber,
		TotalBalance:        sub.TotalBalance,
		PreviousWithdrawals: previous,
		AccountCreationDate: sub.AccountCreationDate,
		SuccessCount:        sub.SuccessCount,
		FailedCount:         sub.FailedCount,
		Status:              db.StatusPending,
	}

	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		err = s.store.Create(ctx, req)
		if err == nil {
			return req.RequestID, nil
		}

		if errors.Is(err, db.ErrDuplicateRequestID) {
			// Коллизия по временной метке: дополняем идентификатор случайным
			// суффиксом и повторяем сразу, это не сбой хранилища.
			req.RequestID = fmt.Sprintf("%s-%s", newRequestID(s.now(), sub.UserID), uuid.New().String()[:8])
			continue
		}

		if attempt < maxCreateAttempts-1 {
			time.Sleep(time.Duration(attempt+1) * createRetryDelay)
		}
	}

	return "", fmt.Errorf("requests.Submit: %w", err)
}

// Decide выполняет терминальный переход. Проигрыш гонки не ошибка:
// возвращается решение победителя, чтобы транспорт перерисовал сообщение
// в фактический исход.
func (s *Service) Decide(ctx context.Context, requestID string, outcome Outcome, actorID int64, actorName string, messageRef *int64) (*Decision, error) {
	decidedAt := s.now()

	err := s.store.TransitionStatus(ctx, requestID, outcome.status(), actorID, decidedAt, messageRef)
	if err == nil {
		req, getErr := s.store.GetByRequestID(ctx, requestID)
		if getErr != nil {
			return nil, fmt.Errorf("requests.Decide: %w", getErr)
		}

		name := actorName
		if name == "" {
			name = s.adminName(ctx, actorID)
		}

		return &Decision{
			RequestID:     requestID,
			Status:        req.Status,
			DecidedBy:     actorID,
			DecidedByName: name,
			DecidedAt:     decidedAt,
			Mine:          true,
			Summary:       finalSummary(req, decidedAt, name),
		}, nil
	}

	var decided *db.AlreadyDecidedError
	if errors.As(err, &decided) {
		req, getErr := s.store.GetByRequestID(ctx, requestID)
		if getErr != nil {
			return nil, fmt.Errorf("requests.Decide: %w", getErr)
		}

		winnerName := s.adminName(ctx, decided.DecidedBy)

		return &Decision{
			RequestID:     requestID,
			Status:        decided.Status,
			DecidedBy:     decided.DecidedBy,
			DecidedByName: winnerName,
			DecidedAt:     decided.DecidedAt,
			Mine:          false,
			Summary:       finalSummary(req, decided.DecidedAt, winnerName),
		}, nil
	}

	return nil, fmt.Errorf("requests.Decide: %w", err)
}

// Inspect возвращает карточку заявки: pending получает кнопки первой стадии,
// терминальная — баннер с исходом.
func (s *Service) Inspect(ctx context.Context, requestID string) (*RenderDirective, error) {
	req, err := s.store.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("requests.Inspect: %w", err)
	}

	if req.Status == db.StatusPending {
		directive := pendingDetail(req)
		return &directive, nil
	}

	var decidedBy int64
	var decidedAt time.Time
	if req.ApprovedBy != nil {
		decidedBy = *req.ApprovedBy
	}
	if req.ApprovedAt != nil {
		decidedAt = *req.ApprovedAt
	}

	directive := finalSummary(req, decidedAt, s.adminName(ctx, decidedBy))
	return &directive, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) (*RenderDirective, error) {
	reqs, err := s.store.GetLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("requests.ListRecent: %w", err)
	}

	directive := listDirective(reqs, limit)
	return &directive, nil
}

// Contact возвращает контактный адрес подателя заявки.
func (s *Service) Contact(ctx context.Context, requestID string) (string, error) {
	req, err := s.store.GetByRequestID(ctx, requestID)
	if err != nil {
		return "", fmt.Errorf("requests.Contact: %w", err)
	}

	return fmt.Sprintf("📧 Client email:\n%s@example.com", req.Username), nil
}

func (s *Service) adminName(ctx context.Context, adminID int64) string {
	admin, err := s.admins.GetByUserID(ctx, adminID)
	if err != nil || admin.Username == "" {
		return fmt.Sprintf("admin %d", adminID)
	}

	return admin.Username
}

func newRequestID(ts time.Time, userID int64) string {
	return fmt.Sprintf("WR-%s-%d", ts.Format("20060102150405"), userID)
}
