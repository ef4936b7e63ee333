package wallet

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		kind    Kind
		amount  string
		want    string
		wantErr error
	}{
		{KindDeposit, "10", "10", nil},
		{KindWithdrawal, "10", "-10", nil},
		{KindBetPlaced, "2.505", "-2.51", nil},
		{KindBetWon, "7.25", "7.25", nil},
		{KindBetRefunded, "1", "1", nil},
		{KindDeposit, "0", "0", ErrNonPositiveAmount},
		{KindDeposit, "-5", "0", ErrNonPositiveAmount},
		{KindDeposit, "0.001", "0", ErrNonPositiveAmount},
		{Kind("BONUS"), "5", "0", ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"_"+tt.amount, func(t *testing.T) {
			got, err := SignedAmount(tt.kind, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("SignedAmount = %s, want %s", got, tt.want)
			}
		})
	}
}
