package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/club-odds/internal/usecase"
)

type depositRequest struct {
	Amount    string `json:"amount" validate:"required,numeric"`
	Reference string `json:"reference" validate:"omitempty,max=200"`
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWallet")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	item, err := h.walletService.Balance(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get wallet failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, walletToDTO(item))
}

func (h *Handler) ListWalletTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWalletTransactions")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.walletService.Transactions(ctx, userID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list wallet transactions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]walletTransactionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, walletTransactionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ReconcileWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReconcileWallet")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	result, err := h.walletService.Reconcile(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "reconcile wallet failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reconcileDTO{
		UserID:     result.UserID,
		Balance:    result.Balance.StringFixed(2),
		LedgerSum:  result.LedgerSum.StringFixed(2),
		Consistent: result.Consistent,
	})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Deposit")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))

	var req depositRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: amount: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.walletService.Deposit(ctx, userID, amount, req.Reference)
	if err != nil {
		h.logger.WarnContext(ctx, "deposit failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, walletToDTO(item))
}
