package httpapi

import (
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/domain/wallet"
)

type matchOddsDTO struct {
	MatchID     string          `json:"match_id"`
	Format      string          `json:"format"`
	Margin      float64         `json:"margin"`
	LastUpdated string          `json:"last_updated"`
	Markets     []oddsMarketDTO `json:"markets"`
}

type oddsMarketDTO struct {
	Market        string             `json:"market"`
	Line          *float64           `json:"line,omitempty"`
	MarginPercent float64            `json:"margin_percent"`
	Selections    []oddsSelectionDTO `json:"selections"`
}

type oddsSelectionDTO struct {
	Selection          string  `json:"selection"`
	Decimal            float64 `json:"decimal"`
	Price              string  `json:"price"`
	ImpliedProbability float64 `json:"implied_probability"`
}

type oddsHistoryDTO struct {
	Action    string             `json:"action"`
	Source    string             `json:"source,omitempty"`
	Margin    float64            `json:"margin,omitempty"`
	Odds      map[string]float64 `json:"odds,omitempty"`
	CreatedAt string             `json:"created_at"`
}

type lockOddsDTO struct {
	MatchID     string `json:"match_id"`
	ExpiredRows int    `json:"expired_rows"`
}

type walletDTO struct {
	UserID    string `json:"user_id"`
	Balance   string `json:"balance"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type walletTransactionDTO struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
	Reference    string `json:"reference,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type reconcileDTO struct {
	UserID     string `json:"user_id"`
	Balance    string `json:"balance"`
	LedgerSum  string `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

func matchOddsToDTO(o odds.MatchOdds, format odds.Format) matchOddsDTO {
	quotes := o.Quote(format)
	markets := make([]oddsMarketDTO, 0, len(quotes))
	for _, q := range quotes {
		sels := make([]oddsSelectionDTO, 0, len(q.Selections))
		for _, s := range q.Selections {
			sels = append(sels, oddsSelectionDTO{
				Selection:          string(s.Key),
				Decimal:            s.Decimal,
				Price:              s.Price,
				ImpliedProbability: s.ImpliedProbability,
			})
		}
		markets = append(markets, oddsMarketDTO{
			Market:        string(q.Market),
			Line:          q.Line,
			MarginPercent: q.MarginPercent,
			Selections:    sels,
		})
	}

	return matchOddsDTO{
		MatchID:     o.MatchID,
		Format:      string(format),
		Margin:      o.Margin,
		LastUpdated: formatTime(o.LastUpdated),
		Markets:     markets,
	}
}

func oddsHistoryToDTO(entry odds.HistoryEntry) oddsHistoryDTO {
	return oddsHistoryDTO{
		Action:    string(entry.Action),
		Source:    string(entry.Source),
		Margin:    entry.Margin,
		Odds:      entry.Odds,
		CreatedAt: formatTime(entry.CreatedAt),
	}
}

func walletToDTO(w wallet.Wallet) walletDTO {
	return walletDTO{
		UserID:    w.UserID,
		Balance:   w.Balance.StringFixed(2),
		UpdatedAt: formatTime(w.UpdatedAt),
	}
}

func walletTransactionToDTO(tx wallet.Transaction) walletTransactionDTO {
	return walletTransactionDTO{
		ID:           tx.ID,
		Kind:         string(tx.Kind),
		Amount:       tx.Amount.StringFixed(2),
		BalanceAfter: tx.BalanceAfter.StringFixed(2),
		Reference:    tx.Reference,
		CreatedAt:    formatTime(tx.CreatedAt),
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
