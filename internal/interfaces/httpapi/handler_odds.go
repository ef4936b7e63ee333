package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/usecase"
)

type regenerateOddsRequest struct {
	Margin *float64 `json:"margin" validate:"omitempty,gte=0,lte=0.5"`
}

func (h *Handler) GetActiveOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveOdds")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	format, err := odds.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	current, exists, err := h.oddsService.GetActive(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get active odds failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: no active odds for match=%s", usecase.ErrNotFound, matchID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchOddsToDTO(current, format))
}

func (h *Handler) ListOddsHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOddsHistory")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.oddsService.History(ctx, matchID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list odds history failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]oddsHistoryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, oddsHistoryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RegenerateOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegenerateOdds")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req regenerateOddsRequest
	if r.ContentLength != 0 {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	generated, err := h.oddsService.Regenerate(ctx, usecase.RegenerateInput{MatchID: matchID, Margin: req.Margin})
	if err != nil {
		h.logger.WarnContext(ctx, "regenerate odds failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchOddsToDTO(generated, odds.FormatDecimal))
}

func (h *Handler) LockOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockOdds")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	expired, err := h.oddsService.Lock(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "lock odds failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockOddsDTO{MatchID: matchID, ExpiredRows: expired})
}
