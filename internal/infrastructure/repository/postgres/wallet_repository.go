package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/club-odds/internal/domain/wallet"
	qb "github.com/riskibarqy/club-odds/internal/platform/querybuilder"
)

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Apply(ctx context.Context, txn wallet.Transaction) (wallet.Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wallet.Wallet{}, crerr.Wrap(err, "begin tx apply wallet transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ensure, args, err := qb.InsertInto("wallets").
		Columns("user_id", "balance", "updated_at").
		Values(txn.UserID, decimal.Zero, txn.CreatedAt).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return wallet.Wallet{}, crerr.Wrap(err, "build ensure wallet query")
	}
	if _, err := tx.ExecContext(ctx, ensure, args...); err != nil {
		return wallet.Wallet{}, crerr.Wrapf(err, "ensure wallet user=%s", txn.UserID)
	}

	lock, args, err := qb.Select(walletColumns...).
		From("wallets").
		Where(qb.Eq("user_id", txn.UserID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return wallet.Wallet{}, crerr.Wrap(err, "build lock wallet query")
	}
	var current walletTableModel
	if err := tx.GetContext(ctx, &current, lock, args...); err != nil {
		return wallet.Wallet{}, crerr.Wrapf(err, "lock wallet user=%s", txn.UserID)
	}

	next := current.Balance.Add(txn.Amount)
	if next.IsNegative() {
		return wallet.Wallet{}, wallet.ErrInsufficientFunds
	}
	txn.BalanceAfter = next

	update, args, err := qb.Update("wallets").
		Set("balance", next).
		Set("updated_at", txn.CreatedAt).
		Where(qb.Eq("user_id", txn.UserID)).
		ToSQL()
	if err != nil {
		return wallet.Wallet{}, crerr.Wrap(err, "build update wallet query")
	}
	if _, err := tx.ExecContext(ctx, update, args...); err != nil {
		return wallet.Wallet{}, crerr.Wrapf(err, "update wallet user=%s", txn.UserID)
	}

	insert, args, err := qb.InsertModel("wallet_transactions", newWalletTransactionTableModel(txn), "")
	if err != nil {
		return wallet.Wallet{}, crerr.Wrap(err, "build insert wallet transaction query")
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return wallet.Wallet{}, crerr.Wrapf(err, "insert wallet transaction id=%s", txn.ID)
	}

	if err := tx.Commit(); err != nil {
		return wallet.Wallet{}, crerr.Wrap(err, "commit tx apply wallet transaction")
	}

	return walletTableModel{UserID: txn.UserID, Balance: next, UpdatedAt: txn.CreatedAt}.toDomain(), nil
}

func (r *WalletRepository) Get(ctx context.Context, userID string) (wallet.Wallet, bool, error) {
	query, args, err := qb.Select(walletColumns...).
		From("wallets").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return wallet.Wallet{}, false, crerr.Wrap(err, "build get wallet query")
	}

	var row walletTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return wallet.Wallet{}, false, nil
		}
		return wallet.Wallet{}, false, crerr.Wrapf(err, "get wallet user=%s", userID)
	}
	return row.toDomain(), true, nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	query, args, err := qb.Select(walletTransactionColumns...).
		From("wallet_transactions").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list wallet transactions query")
	}

	var rows []walletTransactionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list wallet transactions user=%s", userID)
	}

	out := make([]wallet.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WalletRepository) SumTransactions(ctx context.Context, userID string) (decimal.Decimal, error) {
	query, args, err := qb.Select("COALESCE(SUM(amount), 0)").
		From("wallet_transactions").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return decimal.Zero, crerr.Wrap(err, "build sum wallet transactions query")
	}

	var sum decimal.Decimal
	if err := r.db.GetContext(ctx, &sum, query, args...); err != nil {
		return decimal.Zero, crerr.Wrapf(err, "sum wallet transactions user=%s", userID)
	}
	return sum.Round(2), nil
}
