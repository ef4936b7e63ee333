package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/club-odds/internal/domain/wallet"
)

type WalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]wallet.Wallet
	ledger  map[string][]wallet.Transaction
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{
		wallets: make(map[string]wallet.Wallet),
		ledger:  make(map[string][]wallet.Transaction),
	}
}

func (r *WalletRepository) Apply(_ context.Context, tx wallet.Transaction) (wallet.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[tx.UserID]
	if !ok {
		w = wallet.Wallet{UserID: tx.UserID, Balance: decimal.Zero}
	}

	next := w.Balance.Add(tx.Amount)
	if next.IsNegative() {
		return wallet.Wallet{}, wallet.ErrInsufficientFunds
	}

	w.Balance = next
	w.UpdatedAt = tx.CreatedAt
	tx.BalanceAfter = next
	r.wallets[tx.UserID] = w
	r.ledger[tx.UserID] = append(r.ledger[tx.UserID], tx)
	return w, nil
}

func (r *WalletRepository) Get(_ context.Context, userID string) (wallet.Wallet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wallets[userID]
	return w, ok, nil
}

func (r *WalletRepository) ListTransactions(_ context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.ledger[userID]
	out := make([]wallet.Transaction, 0, len(items))
	for i := len(items) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, items[i])
	}
	return out, nil
}

func (r *WalletRepository) SumTransactions(_ context.Context, userID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	for _, tx := range r.ledger[userID] {
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}
