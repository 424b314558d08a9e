package intake

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

type stubSubmitter struct {
	requestID string
	err       error
	got       *requests.Submission
}

func (s *stubSubmitter) Submit(ctx context.Context, sub requests.Submission) (string, error) {
	s.got = &sub
	return s.requestID, s.err
}

func newTestHandler(submitter *stubSubmitter) *Handler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewHandler(submitter, "secret", logger)
}

func postWithdrawal(t *testing.T, handler *Handler, token string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/withdrawals", strings.NewReader(body))
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	return rec
}

const validBody = `{
	"user_id": 42,
	"username": "client42",
	"app_name": "wallet",
	"currency": "USD",
	"amount": 100,
	"account_number": "ACC1",
	"total_balance": 500,
	"success_count": 3,
	"failed_count": 1
}`

func TestCreateWithdrawal_Success(t *testing.T) {
	submitter := &stubSubmitter{requestID: "WR-20260831120000-42"}
	handler := newTestHandler(submitter)

	rec := postWithdrawal(t, handler, "secret", validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "WR-20260831120000-42", resp["request_id"])

	require.NotNil(t, submitter.got)
	assert.Equal(t, int64(42), submitter.got.UserID)
	assert.Equal(t, "USD", submitter.got.Currency)
	assert.Equal(t, "100", submitter.got.Amount.String())
}

func TestCreateWithdrawal_BadToken(t *testing.T) {
	submitter := &stubSubmitter{requestID: "WR-x"}
	handler := newTestHandler(submitter)

	rec := postWithdrawal(t, handler, "wrong", validBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, submitter.got)
}

func TestCreateWithdrawal_MalformedJSON(t *testing.T) {
	submitter := &stubSubmitter{}
	handler := newTestHandler(submitter)

	rec := postWithdrawal(t, handler, "secret", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, submitter.got)
}

func TestCreateWithdrawal_MissingRequiredFields(t *testing.T) {
	submitter := &stubSubmitter{}
	handler := newTestHandler(submitter)

	rec := postWithdrawal(t, handler, "secret", `{"amount": 100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, submitter.got)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid submission", resp["error"])
	assert.NotEmpty(t, resp["fields"])
}

func TestCreateWithdrawal_ServiceValidationError(t *testing.T) {
	submitter := &stubSubmitter{err: &requests.ValidationError{Fields: []string{"amount"}}}
	handler := newTestHandler(submitter)

	body := strings.Replace(validBody, `"amount": 100`, `"amount": -1`, 1)
	rec := postWithdrawal(t, handler, "secret", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []any{"amount"}, resp["fields"])
}

func TestCreateWithdrawal_StorageUnavailable(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("connection refused")}
	handler := newTestHandler(submitter)

	rec := postWithdrawal(t, handler, "secret", validBody)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
