package httpapi

import (
	"net/http"
	"net/http/pprof"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, pprofEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !pprofEnabled {
		return
	}

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

func registerOddsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/odds", handler.GetActiveOdds)
	mux.HandleFunc("GET /v1/matches/{matchID}/odds/history", handler.ListOddsHistory)
	mux.HandleFunc("POST /v1/matches/{matchID}/odds/regenerate", handler.RegenerateOdds)
	mux.HandleFunc("POST /v1/matches/{matchID}/odds/lock", handler.LockOdds)
}

func registerWalletRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/wallets/{userID}", handler.GetWallet)
	mux.HandleFunc("GET /v1/wallets/{userID}/transactions", handler.ListWalletTransactions)
	mux.HandleFunc("GET /v1/wallets/{userID}/reconcile", handler.ReconcileWallet)
	mux.HandleFunc("POST /v1/wallets/{userID}/deposits", handler.Deposit)
}
