package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDeposit     Kind = "DEPOSIT"
	KindWithdrawal  Kind = "WITHDRAWAL"
	KindBetPlaced   Kind = "BET_PLACED"
	KindBetWon      Kind = "BET_WON"
	KindBetRefunded Kind = "BET_REFUNDED"
)

// Sign is +1 for credits, -1 for debits and 0 for unknown kinds.
func (k Kind) Sign() int {
	switch k {
	case KindDeposit, KindBetWon, KindBetRefunded:
		return 1
	case KindWithdrawal, KindBetPlaced:
		return -1
	default:
		return 0
	}
}

type Wallet struct {
	UserID    string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// Transaction is one append-only ledger line. Amount carries the sign.
type Transaction struct {
	ID           string
	UserID       string
	Kind         Kind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Reference    string
	CreatedAt    time.Time
}

// SignedAmount applies the kind's sign to a positive amount, rounded to cents.
func SignedAmount(kind Kind, amount decimal.Decimal) (decimal.Decimal, error) {
	sign := kind.Sign()
	if sign == 0 {
		return decimal.Zero, ErrUnknownKind
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	amount = amount.Round(2)
	if amount.IsZero() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	if sign < 0 {
		return amount.Neg(), nil
	}
	return amount, nil
}
