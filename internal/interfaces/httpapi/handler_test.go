package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-odds/internal/platform/id"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
	"github.com/riskibarqy/club-odds/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	matchRepo := memory.NewMatchRepository(memory.SeedMatches(time.Now()))
	stats := usecase.NewStatsService(matchRepo, usecase.StatsCaches{}, usecase.StatsServiceConfig{}, logger)
	oddsService := usecase.NewOddsService(matchRepo, memory.NewOddsRepository(), stats, nil, nil, nil, usecase.OddsServiceConfig{}, logger)
	walletService := usecase.NewWalletService(memory.NewWalletRepository(), id.NewUUIDGenerator(), logger)

	return NewRouter(NewHandler(oddsService, walletService, logger), logger, false)
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_OddsLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/v1/matches/m-013/odds", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Status)

	rec, body = do(t, router, http.MethodPost, "/v1/matches/m-013/odds/regenerate", `{"margin":0.07}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "m-013", body.Data["match_id"])
	assert.Equal(t, 0.07, body.Data["margin"])

	rec, body = do(t, router, http.MethodGet, "/v1/matches/m-013/odds?format=american", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "american", body.Data["format"])
	markets, ok := body.Data["markets"].([]any)
	require.True(t, ok)
	assert.Len(t, markets, 4)

	rec, body = do(t, router, http.MethodPost, "/v1/matches/m-013/odds/lock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(10), body.Data["expired_rows"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/m-013/odds/history?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Data, 2)
	assert.Equal(t, "LOCKED", history.Data[0]["action"])
	assert.Equal(t, "GENERATED", history.Data[1]["action"])
}

func TestRouter_OddsBadRequests(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/v1/matches/m-013/odds?format=hongkong", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_ARGUMENT", body.Error.Status)

	rec, _ = do(t, router, http.MethodPost, "/v1/matches/m-013/odds/regenerate", `{"margin":0.9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/v1/matches/m-013/odds/regenerate", `{"unknown":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/v1/matches/nope/odds/regenerate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/m-013/odds/history?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Wallet(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/v1/wallets/u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.00", body.Data["balance"])

	rec, body = do(t, router, http.MethodPost, "/v1/wallets/u-1/deposits", `{"amount":"25.50","reference":"top-up"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "25.50", body.Data["balance"])

	rec, _ = do(t, router, http.MethodPost, "/v1/wallets/u-1/deposits", `{"amount":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, router, http.MethodGet, "/v1/wallets/u-1/reconcile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body.Data["consistent"])
	assert.Equal(t, "25.50", body.Data["ledger_sum"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/wallets/u-1/transactions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"DEPOSIT"`)
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/m-1/odds", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internalError")
}
