package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

var (
	ErrInsufficientFunds        = errors.New("insufficient wallet balance")
	ErrInsufficientAssetBalance = errors.New("insufficient crypto balance")
)

const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"

	TradeStatusPending   = "pending"
	TradeStatusCompleted = "completed"
	TradeStatusFailed    = "failed"

	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"

	SourceDeposit    = "deposit"
	SourceWithdrawal = "withdrawal"
	SourceTradeBuy   = "trade_buy"
	SourceTradeSell  = "trade_sell"
)

type TradeTxParams struct {
	Trade       CreateTradeParams
	WalletID    int64
	CryptoName  string
	TxReference string
	Description string
	Metadata    pqtype.NullRawMessage
}

type TradeTxResult struct {
	Trade       Trade
	Transaction WalletTransaction
	Wallet      Wallet
	Holding     CryptoHolding
}

// BuyTradeTx settles a buy in one database transaction: pending trade row, wallet
// debit (sufficiency re-checked atomically), holding credit, audit transaction,
// trade marked completed. If any step fails the whole unit rolls back and a
// terminal failed trade row is written instead, so no trade is ever left pending
// and no balance mutation survives a failure.
func (s *Store) BuyTradeTx(ctx context.Context, arg TradeTxParams) (TradeTxResult, error) {
	var result TradeTxResult

	err := s.ExecTx(ctx, func(q *Queries) error {
		trade, err := q.CreateTrade(ctx, arg.Trade)
		if err != nil {
			return fmt.Errorf("create trade: %w", err)
		}

		wallet, err := q.DebitWallet(ctx, DebitWalletParams{
			Amount:   arg.Trade.TotalAmount,
			WalletID: arg.WalletID,
		})
		if err == sql.ErrNoRows {
			return ErrInsufficientFunds
		} else if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}

		holding, err := q.CreditHolding(ctx, CreditHoldingParams{
			UserID:       arg.Trade.UserID,
			CryptoSymbol: arg.Trade.CryptoSymbol,
			CryptoName:   arg.CryptoName,
			Amount:       arg.Trade.CryptoAmount,
		})
		if err != nil {
			return fmt.Errorf("credit holding: %w", err)
		}

		txn, err := q.CreateWalletTransaction(ctx, CreateWalletTransactionParams{
			WalletID:      wallet.ID,
			UserID:        arg.Trade.UserID,
			Reference:     arg.TxReference,
			Type:          TransactionTypeDebit,
			Amount:        arg.Trade.TotalAmount,
			BalanceBefore: addBalance(wallet.Balance, arg.Trade.TotalAmount),
			BalanceAfter:  wallet.Balance,
			Description:   arg.Description,
			Source:        SourceTradeBuy,
			TradeID:       sql.NullInt64{Int64: trade.ID, Valid: true},
			Metadata:      arg.Metadata,
		})
		if err != nil {
			return fmt.Errorf("create wallet transaction: %w", err)
		}

		completed, err := q.MarkTradeCompleted(ctx, trade.ID)
		if err != nil {
			return fmt.Errorf("mark trade completed: %w", err)
		}

		result = TradeTxResult{
			Trade:       completed,
			Transaction: txn,
			Wallet:      wallet,
			Holding:     holding,
		}
		return nil
	})
	if err != nil {
		failed, recordErr := s.recordFailedTrade(ctx, arg.Trade, err)
		if recordErr != nil {
			return result, fmt.Errorf("%w (failed trade not recorded: %v)", err, recordErr)
		}
		result.Trade = failed
		return result, err
	}

	return result, nil
}

// SellTradeTx mirrors BuyTradeTx: holding debit, wallet credit of the net fiat.
func (s *Store) SellTradeTx(ctx context.Context, arg TradeTxParams) (TradeTxResult, error) {
	var result TradeTxResult

	err := s.ExecTx(ctx, func(q *Queries) error {
		trade, err := q.CreateTrade(ctx, arg.Trade)
		if err != nil {
			return fmt.Errorf("create trade: %w", err)
		}

		holding, err := q.DebitHolding(ctx, DebitHoldingParams{
			Amount:       arg.Trade.CryptoAmount,
			UserID:       arg.Trade.UserID,
			CryptoSymbol: arg.Trade.CryptoSymbol,
		})
		if err == sql.ErrNoRows {
			return ErrInsufficientAssetBalance
		} else if err != nil {
			return fmt.Errorf("debit holding: %w", err)
		}

		wallet, err := q.CreditWallet(ctx, CreditWalletParams{
			Amount:   arg.Trade.TotalAmount,
			WalletID: arg.WalletID,
		})
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		txn, err := q.CreateWalletTransaction(ctx, CreateWalletTransactionParams{
			WalletID:      wallet.ID,
			UserID:        arg.Trade.UserID,
			Reference:     arg.TxReference,
			Type:          TransactionTypeCredit,
			Amount:        arg.Trade.TotalAmount,
			BalanceBefore: subBalance(wallet.Balance, arg.Trade.TotalAmount),
			BalanceAfter:  wallet.Balance,
			Description:   arg.Description,
			Source:        SourceTradeSell,
			TradeID:       sql.NullInt64{Int64: trade.ID, Valid: true},
			Metadata:      arg.Metadata,
		})
		if err != nil {
			return fmt.Errorf("create wallet transaction: %w", err)
		}

		completed, err := q.MarkTradeCompleted(ctx, trade.ID)
		if err != nil {
			return fmt.Errorf("mark trade completed: %w", err)
		}

		result = TradeTxResult{
			Trade:       completed,
			Transaction: txn,
			Wallet:      wallet,
			Holding:     holding,
		}
		return nil
	})
	if err != nil {
		failed, recordErr := s.recordFailedTrade(ctx, arg.Trade, err)
		if recordErr != nil {
			return result, fmt.Errorf("%w (failed trade not recorded: %v)", err, recordErr)
		}
		result.Trade = failed
		return result, err
	}

	return result, nil
}

// recordFailedTrade writes the terminal failed trade row in its own transaction,
// after the settlement unit has rolled back.
func (s *Store) recordFailedTrade(ctx context.Context, trade CreateTradeParams, cause error) (Trade, error) {
	trade.Status = TradeStatusFailed
	trade.FailureReason = sql.NullString{String: cause.Error(), Valid: true}
	return s.CreateTrade(ctx, trade)
}

func addBalance(balance, amount string) string {
	return decimal.RequireFromString(balance).Add(decimal.RequireFromString(amount)).StringFixed(2)
}

func subBalance(balance, amount string) string {
	return decimal.RequireFromString(balance).Sub(decimal.RequireFromString(amount)).StringFixed(2)
}
