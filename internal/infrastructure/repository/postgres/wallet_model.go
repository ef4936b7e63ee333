package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/club-odds/internal/domain/wallet"
)

var walletColumns = []string{"user_id", "balance", "updated_at"}

type walletTableModel struct {
	UserID    string          `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (m walletTableModel) toDomain() wallet.Wallet {
	return wallet.Wallet{
		UserID:    m.UserID,
		Balance:   m.Balance.Round(2),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

var walletTransactionColumns = []string{"id", "user_id", "kind", "amount", "balance_after", "reference", "created_at"}

type walletTransactionTableModel struct {
	ID           string          `db:"id"`
	UserID       string          `db:"user_id"`
	Kind         string          `db:"kind"`
	Amount       decimal.Decimal `db:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	Reference    string          `db:"reference"`
	CreatedAt    time.Time       `db:"created_at"`
}

func newWalletTransactionTableModel(tx wallet.Transaction) walletTransactionTableModel {
	return walletTransactionTableModel{
		ID:           tx.ID,
		UserID:       tx.UserID,
		Kind:         string(tx.Kind),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Reference:    tx.Reference,
		CreatedAt:    tx.CreatedAt,
	}
}

func (m walletTransactionTableModel) toDomain() wallet.Transaction {
	return wallet.Transaction{
		ID:           m.ID,
		UserID:       m.UserID,
		Kind:         wallet.Kind(m.Kind),
		Amount:       m.Amount.Round(2),
		BalanceAfter: m.BalanceAfter.Round(2),
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
