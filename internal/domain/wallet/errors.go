package wallet

import crerr "github.com/cockroachdb/errors"

var (
	ErrInsufficientFunds = crerr.New("insufficient funds")
	ErrUnknownKind       = crerr.New("unknown transaction kind")
	ErrNonPositiveAmount = crerr.New("amount must be positive")
)
