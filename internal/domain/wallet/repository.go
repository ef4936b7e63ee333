package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Apply appends tx to the ledger and moves the balance in one atomic step,
	// creating the wallet on first use. It returns ErrInsufficientFunds and
	// writes nothing when the balance would go negative.
	Apply(ctx context.Context, tx Transaction) (Wallet, error)
	Get(ctx context.Context, userID string) (Wallet, bool, error)
	// ListTransactions returns the newest limit transactions first.
	ListTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error)
	SumTransactions(ctx context.Context, userID string) (decimal.Decimal, error)
}
