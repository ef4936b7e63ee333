package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/domain/wallet"
	"github.com/riskibarqy/club-odds/internal/usecase"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2.0", body["apiVersion"])
	assert.Contains(t, body, "data")
	assert.NotContains(t, body, "error")
}

func TestWriteError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		status string
		reason string
	}{
		{"invalid input", fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"not found", fmt.Errorf("%w: match m-1", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "notFound"},
		{"invalid odds", fmt.Errorf("save: %w", odds.ErrInvalidOdds), http.StatusUnprocessableEntity, "FAILED_PRECONDITION", "invalidOdds"},
		{"insufficient funds", fmt.Errorf("%w: %w", usecase.ErrInvalidInput, wallet.ErrInsufficientFunds), http.StatusConflict, "FAILED_PRECONDITION", "insufficientFunds"},
		{"dependency", fmt.Errorf("%w: db", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL", "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			require.Equal(t, tc.code, rec.Code)

			var body googleResponseEnvelope
			require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.status, body.Error.Status)
			require.Len(t, body.Error.Errors, 1)
			assert.Equal(t, tc.reason, body.Error.Errors[0].Reason)
			assert.Equal(t, errorDomain, body.Error.Errors[0].Domain)
		})
	}
}

func TestWriteInternalError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestWriteError_ListsOddsViolations(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("save odds: %w", &odds.ValidationError{
		MatchID:    "m-1",
		Violations: []string{"MATCH_RESULT HOME odds 0.90 must be > 1", "DOUBLE_CHANCE missing"},
	})
	writeError(context.Background(), rec, err)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body googleResponseEnvelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Error.Errors, 3)
	assert.Equal(t, "invalidOdds", body.Error.Errors[0].Reason)
	assert.Equal(t, "oddsViolation", body.Error.Errors[1].Reason)
	assert.Equal(t, "DOUBLE_CHANCE missing", body.Error.Errors[2].Message)
}
