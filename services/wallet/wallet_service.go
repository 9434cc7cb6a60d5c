package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/services/monitoring/logging"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

// DefaultCurrency is the only fiat currency the product settles in.
const DefaultCurrency = "NGN"

// WalletStore is the slice of the store surface the wallet service needs;
// *db.Store satisfies it, tests supply fakes.
type WalletStore interface {
	GetWalletByUserAndCurrency(ctx context.Context, arg db.GetWalletByUserAndCurrencyParams) (db.Wallet, error)
	CreateWallet(ctx context.Context, arg db.CreateWalletParams) (db.Wallet, error)
	DepositTx(ctx context.Context, arg db.WalletTxParams) (db.WalletTxResult, error)
	WithdrawTx(ctx context.Context, arg db.WalletTxParams) (db.WalletTxResult, error)
	ListWalletTransactions(ctx context.Context, arg db.ListWalletTransactionsParams) ([]db.WalletTransaction, error)
	CountWalletTransactions(ctx context.Context, arg db.CountWalletTransactionsParams) (int64, error)
}

type WalletService struct {
	store  WalletStore
	logger *logging.Logger
}

func NewWalletService(store WalletStore, logger *logging.Logger) *WalletService {
	return &WalletService{
		store:  store,
		logger: logger,
	}
}

// GetOrCreateWallet returns the user's NGN wallet, creating it lazily on first
// access. A concurrent create racing on the (user, currency) unique key falls
// back to fetching the winner's row.
func (w *WalletService) GetOrCreateWallet(ctx context.Context, userID int64) (db.Wallet, error) {
	wallet, err := w.store.GetWalletByUserAndCurrency(ctx, db.GetWalletByUserAndCurrencyParams{
		UserID:   userID,
		Currency: DefaultCurrency,
	})
	if err == nil {
		return wallet, nil
	}
	if err != sql.ErrNoRows {
		return db.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}

	wallet, err = w.store.CreateWallet(ctx, db.CreateWalletParams{
		UserID:   userID,
		Currency: DefaultCurrency,
	})
	if err != nil {
		if db.IsDuplicate(err) {
			return w.store.GetWalletByUserAndCurrency(ctx, db.GetWalletByUserAndCurrencyParams{
				UserID:   userID,
				Currency: DefaultCurrency,
			})
		}
		return db.Wallet{}, fmt.Errorf("create wallet: %w", err)
	}

	return wallet, nil
}

// Deposit credits the wallet and records one audit transaction atomically.
func (w *WalletService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string, metadata map[string]interface{}) (db.WalletTxResult, error) {
	if !amount.IsPositive() {
		return db.WalletTxResult{}, ErrInvalidAmount
	}

	wallet, err := w.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return db.WalletTxResult{}, err
	}
	if !wallet.IsActive {
		return db.WalletTxResult{}, ErrWalletInactive
	}

	if description == "" {
		description = "Deposit"
	}

	result, err := w.store.DepositTx(ctx, db.WalletTxParams{
		WalletID:    wallet.ID,
		UserID:      userID,
		Amount:      amount.StringFixed(2),
		Reference:   utils.GenerateReference(utils.TransactionRefPrefix),
		Description: description,
		Metadata:    encodeMetadata(metadata),
	})
	if err != nil {
		return db.WalletTxResult{}, fmt.Errorf("deposit: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"reference": result.Transaction.Reference,
		"amount":    amount.StringFixed(2),
	}).Info("deposit completed")

	return result, nil
}

// Withdraw debits the wallet; the sufficiency check happens inside the atomic
// unit, so a concurrent withdrawal cannot overdraw the balance.
func (w *WalletService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string, metadata map[string]interface{}) (db.WalletTxResult, error) {
	if !amount.IsPositive() {
		return db.WalletTxResult{}, ErrInvalidAmount
	}

	wallet, err := w.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return db.WalletTxResult{}, err
	}
	if !wallet.IsActive {
		return db.WalletTxResult{}, ErrWalletInactive
	}

	if description == "" {
		description = "Withdrawal"
	}

	result, err := w.store.WithdrawTx(ctx, db.WalletTxParams{
		WalletID:    wallet.ID,
		UserID:      userID,
		Amount:      amount.StringFixed(2),
		Reference:   utils.GenerateReference(utils.TransactionRefPrefix),
		Description: description,
		Metadata:    encodeMetadata(metadata),
	})
	if err != nil {
		if errors.Is(err, db.ErrInsufficientFunds) {
			return db.WalletTxResult{}, ErrInsufficientFunds
		}
		return db.WalletTxResult{}, fmt.Errorf("withdraw: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"reference": result.Transaction.Reference,
		"amount":    amount.StringFixed(2),
	}).Info("withdrawal completed")

	return result, nil
}

// Balance returns the wallet's current fiat balance.
func (w *WalletService) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	wallet, err := w.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(wallet.Balance)
}

// HasSufficientBalance is an advisory pre-check; it can be stale the instant it
// returns. The debit itself re-checks atomically.
func (w *WalletService) HasSufficientBalance(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	balance, err := w.Balance(ctx, userID)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(amount), nil
}

// TransactionFilter narrows the wallet history listing.
type TransactionFilter struct {
	Type     sql.NullString
	Source   sql.NullString
	DateFrom sql.NullTime
	DateTo   sql.NullTime
	Page     int32
	PerPage  int32
}

// Transactions lists the wallet's audit records, newest first, with the total
// matching count for pagination.
func (w *WalletService) Transactions(ctx context.Context, userID int64, filter TransactionFilter) ([]db.WalletTransaction, int64, error) {
	wallet, err := w.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 15
	}

	transactions, err := w.store.ListWalletTransactions(ctx, db.ListWalletTransactionsParams{
		WalletID: wallet.ID,
		Type:     filter.Type,
		Source:   filter.Source,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Limit:    filter.PerPage,
		Offset:   (filter.Page - 1) * filter.PerPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list wallet transactions: %w", err)
	}

	total, err := w.store.CountWalletTransactions(ctx, db.CountWalletTransactionsParams{
		WalletID: wallet.ID,
		Type:     filter.Type,
		Source:   filter.Source,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count wallet transactions: %w", err)
	}

	return transactions, total, nil
}

func encodeMetadata(metadata map[string]interface{}) pqtype.NullRawMessage {
	if len(metadata) == 0 {
		return pqtype.NullRawMessage{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}
