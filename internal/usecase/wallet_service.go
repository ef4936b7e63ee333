package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/club-odds/internal/domain/wallet"
	idgen "github.com/riskibarqy/club-odds/internal/platform/id"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

const defaultTransactionLimit = 50

type ReconcileResult struct {
	UserID     string
	Balance    decimal.Decimal
	LedgerSum  decimal.Decimal
	Consistent bool
}

type WalletService struct {
	repo   wallet.Repository
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewWalletService(repo wallet.Repository, ids idgen.Generator, logger *logging.Logger) *WalletService {
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WalletService{
		repo:   repo,
		ids:    ids,
		logger: logger.Named("wallet_service"),
		now:    time.Now,
	}
}

func (s *WalletService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, reference string) (wallet.Wallet, error) {
	return s.apply(ctx, userID, wallet.KindDeposit, amount, reference)
}

func (s *WalletService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, reference string) (wallet.Wallet, error) {
	return s.apply(ctx, userID, wallet.KindWithdrawal, amount, reference)
}

// PlaceBet debits the stake; reference identifies the bet.
func (s *WalletService) PlaceBet(ctx context.Context, userID string, stake decimal.Decimal, reference string) (wallet.Wallet, error) {
	return s.apply(ctx, userID, wallet.KindBetPlaced, stake, reference)
}

// SettleWin credits stake * decimal odds.
func (s *WalletService) SettleWin(ctx context.Context, userID string, stake decimal.Decimal, decimalOdds float64, reference string) (wallet.Wallet, error) {
	if !(decimalOdds > 1) {
		return wallet.Wallet{}, fmt.Errorf("%w: odds %v must be greater than 1", ErrInvalidInput, decimalOdds)
	}
	payout := stake.Mul(decimal.NewFromFloat(decimalOdds))
	return s.apply(ctx, userID, wallet.KindBetWon, payout, reference)
}

func (s *WalletService) Refund(ctx context.Context, userID string, stake decimal.Decimal, reference string) (wallet.Wallet, error) {
	return s.apply(ctx, userID, wallet.KindBetRefunded, stake, reference)
}

// Balance returns a zero wallet for users that never transacted.
func (s *WalletService) Balance(ctx context.Context, userID string) (wallet.Wallet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.Balance")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return wallet.Wallet{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	w, exists, err := s.repo.Get(ctx, userID)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("get wallet user=%s: %w", userID, err)
	}
	if !exists {
		return wallet.Wallet{UserID: userID, Balance: decimal.Zero}, nil
	}
	return w, nil
}

func (s *WalletService) Transactions(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.Transactions")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultTransactionLimit
	}

	items, err := s.repo.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions user=%s: %w", userID, err)
	}
	return items, nil
}

// Reconcile compares the stored balance with the ledger sum.
func (s *WalletService) Reconcile(ctx context.Context, userID string) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.Reconcile")
	defer span.End()

	w, err := s.Balance(ctx, userID)
	if err != nil {
		return ReconcileResult{}, err
	}
	sum, err := s.repo.SumTransactions(ctx, w.UserID)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("sum transactions user=%s: %w", w.UserID, err)
	}

	res := ReconcileResult{
		UserID:     w.UserID,
		Balance:    w.Balance,
		LedgerSum:  sum,
		Consistent: w.Balance.Equal(sum),
	}
	if !res.Consistent {
		s.logger.ErrorContext(ctx, "wallet balance drifted from ledger",
			"user_id", w.UserID,
			"balance", w.Balance.String(),
			"ledger_sum", sum.String(),
		)
	}
	return res, nil
}

func (s *WalletService) apply(ctx context.Context, userID string, kind wallet.Kind, amount decimal.Decimal, reference string) (wallet.Wallet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.Apply")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return wallet.Wallet{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	signed, err := wallet.SignedAmount(kind, amount)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	txID, err := s.ids.NewID()
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("generate transaction id: %w", err)
	}

	w, err := s.repo.Apply(ctx, wallet.Transaction{
		ID:        txID,
		UserID:    userID,
		Kind:      kind,
		Amount:    signed,
		Reference: strings.TrimSpace(reference),
		CreatedAt: s.now().UTC(),
	})
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return wallet.Wallet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case err != nil:
		s.logger.ErrorContext(ctx, "apply wallet transaction failed", "user_id", userID, "kind", kind, "error", err)
		return wallet.Wallet{}, fmt.Errorf("%w: apply transaction user=%s: %w", ErrDependencyUnavailable, userID, err)
	}

	s.logger.InfoContext(ctx, "wallet transaction applied",
		"user_id", userID,
		"kind", kind,
		"amount", signed.String(),
		"balance", w.Balance.String(),
	)
	return w, nil
}
