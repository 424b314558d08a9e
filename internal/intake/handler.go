package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

// Submitter — приемная поверхность движка заявок.
type Submitter interface {
	Submit(ctx context.Context, sub requests.Submission) (string, error)
}

type Handler struct {
	service  Submitter
	validate *validator.Validate
	token    string
	logger   *logrus.Logger
}

func NewHandler(service Submitter, token string, logger *logrus.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		token:    token,
		logger:   logger,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/withdrawals", h.createWithdrawal)

	return r
}

type withdrawalPayload struct {
	UserID              int64           `json:"user_id" validate:"required"`
	Username            string          `json:"username" validate:"required"`
	AppName             string          `json:"app_name"`
	Currency            string          `json:"currency" validate:"required"`
	Amount              decimal.Decimal `json:"amount"`
	AccountNumber       string          `json:"account_number" validate:"required"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	PreviousWithdrawals string          `json:"previous_withdrawals"`
	AccountCreationDate string          `json:"account_creation_date"`
	SuccessCount        int             `json:"success_count" validate:"gte=0"`
	FailedCount         int             `json:"failed_count" validate:"gte=0"`
}

func (h *Handler) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Auth-Token") != h.token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}

	var payload withdrawalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed json"})
		return
	}

	if err := h.validate.Struct(&payload); err != nil {
		var fields []string
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				fields = append(fields, fieldErr.Field())
			}
		}

		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid submission", "fields": fields})
		return
	}

	requestID, err := h.service.Submit(r.Context(), requests.Submission{
		UserID:              payload.UserID,
		Username:            payload.Username,
		AppName:             payload.AppName,
		Currency:            payload.Currency,
		Amount:              payload.Amount,
		AccountNumber:       payload.AccountNumber,
		TotalBalance:        payload.TotalBalance,
		PreviousWithdrawals: payload.PreviousWithdrawals,
		AccountCreationDate: payload.AccountCreationDate,
		SuccessCount:        payload.SuccessCount,
		FailedCount:         payload.FailedCount,
	})

	if err != nil {
		var validationErr *requests.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid submission", "fields": validationErr.Fields})
			return
		}

		h.logger.WithError(err).Error("intake: submit failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "temporarily unavailable, retry later"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"request_id": requestID})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
