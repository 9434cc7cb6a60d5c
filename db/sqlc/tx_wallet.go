package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqlc-dev/pqtype"
)

type WalletTxParams struct {
	WalletID    int64
	UserID      int64
	Amount      string
	Reference   string
	Description string
	Metadata    pqtype.NullRawMessage
}

type WalletTxResult struct {
	Transaction WalletTransaction
	Wallet      Wallet
}

// DepositTx credits a wallet and records the audit transaction atomically.
func (s *Store) DepositTx(ctx context.Context, arg WalletTxParams) (WalletTxResult, error) {
	var result WalletTxResult

	err := s.ExecTx(ctx, func(q *Queries) error {
		wallet, err := q.CreditWallet(ctx, CreditWalletParams{
			Amount:   arg.Amount,
			WalletID: arg.WalletID,
		})
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		txn, err := q.CreateWalletTransaction(ctx, CreateWalletTransactionParams{
			WalletID:      wallet.ID,
			UserID:        arg.UserID,
			Reference:     arg.Reference,
			Type:          TransactionTypeCredit,
			Amount:        arg.Amount,
			BalanceBefore: subBalance(wallet.Balance, arg.Amount),
			BalanceAfter:  wallet.Balance,
			Description:   arg.Description,
			Source:        SourceDeposit,
			Metadata:      arg.Metadata,
		})
		if err != nil {
			return fmt.Errorf("create wallet transaction: %w", err)
		}

		result = WalletTxResult{Transaction: txn, Wallet: wallet}
		return nil
	})

	return result, err
}

// WithdrawTx debits a wallet, re-checking sufficiency in the same statement that
// mutates the balance, and records the audit transaction atomically.
func (s *Store) WithdrawTx(ctx context.Context, arg WalletTxParams) (WalletTxResult, error) {
	var result WalletTxResult

	err := s.ExecTx(ctx, func(q *Queries) error {
		wallet, err := q.DebitWallet(ctx, DebitWalletParams{
			Amount:   arg.Amount,
			WalletID: arg.WalletID,
		})
		if err == sql.ErrNoRows {
			return ErrInsufficientFunds
		} else if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}

		txn, err := q.CreateWalletTransaction(ctx, CreateWalletTransactionParams{
			WalletID:      wallet.ID,
			UserID:        arg.UserID,
			Reference:     arg.Reference,
			Type:          TransactionTypeDebit,
			Amount:        arg.Amount,
			BalanceBefore: addBalance(wallet.Balance, arg.Amount),
			BalanceAfter:  wallet.Balance,
			Description:   arg.Description,
			Source:        SourceWithdrawal,
			Metadata:      arg.Metadata,
		})
		if err != nil {
			return fmt.Errorf("create wallet transaction: %w", err)
		}

		result = WalletTxResult{Transaction: txn, Wallet: wallet}
		return nil
	})

	return result, err
}
