package trading

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/providers/cryptocurrency"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory store that mirrors the real store's atomic
// semantics: balance checks and mutations happen under one lock, and a failed
// settlement records a terminal failed trade without mutating any balance.
type fakeStore struct {
	mu       sync.Mutex
	wallets  map[int64]db.Wallet
	holdings map[string]db.CryptoHolding
	trades   []db.Trade
	txns     []db.WalletTransaction
	fees     map[string]db.FeeSetting
	nextID   int64

	// drainOnce empties the wallet at the start of the next trade settlement,
	// simulating a concurrent debit landing between the advisory check and
	// the atomic unit.
	drainOnce bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:  make(map[int64]db.Wallet),
		holdings: make(map[string]db.CryptoHolding),
		fees: map[string]db.FeeSetting{
			"buy_fee": {
				ID: 1, Name: "buy_fee", Percentage: "1.50",
				MinimumAmount: "1000.00", IsActive: true,
			},
			"sell_fee": {
				ID: 2, Name: "sell_fee", Percentage: "1.50",
				MinimumAmount: "1000.00", IsActive: true,
			},
		},
	}
}

func (f *fakeStore) seedWallet(userID int64, balance string) db.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w := db.Wallet{
		ID: f.nextID, UserID: userID, Currency: "NGN",
		Balance: balance, IsActive: true, CreatedAt: time.Now(),
	}
	f.wallets[userID] = w
	return w
}

func (f *fakeStore) seedHolding(userID int64, symbol, name, balance string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.holdings[holdingKey(userID, symbol)] = db.CryptoHolding{
		ID: f.nextID, UserID: userID, CryptoSymbol: symbol,
		CryptoName: name, Balance: balance,
	}
}

func holdingKey(userID int64, symbol string) string {
	return fmt.Sprintf("%d:%s", userID, symbol)
}

func (f *fakeStore) GetActiveFeeSetting(ctx context.Context, name string) (db.FeeSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	setting, ok := f.fees[name]
	if !ok || !setting.IsActive {
		return db.FeeSetting{}, sql.ErrNoRows
	}
	return setting, nil
}

func (f *fakeStore) GetWalletByUserAndCurrency(ctx context.Context, arg db.GetWalletByUserAndCurrencyParams) (db.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[arg.UserID]
	if !ok {
		return db.Wallet{}, sql.ErrNoRows
	}
	return w, nil
}

func (f *fakeStore) CreateWallet(ctx context.Context, arg db.CreateWalletParams) (db.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wallets[arg.UserID]; ok {
		return db.Wallet{}, fmt.Errorf("duplicate wallet")
	}
	f.nextID++
	w := db.Wallet{
		ID: f.nextID, UserID: arg.UserID, Currency: arg.Currency,
		Balance: "0.00", IsActive: true, CreatedAt: time.Now(),
	}
	f.wallets[arg.UserID] = w
	return w, nil
}

func (f *fakeStore) DepositTx(ctx context.Context, arg db.WalletTxParams) (db.WalletTxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.wallets[arg.UserID]
	before := decimal.RequireFromString(w.Balance)
	w.Balance = before.Add(decimal.RequireFromString(arg.Amount)).StringFixed(2)
	f.wallets[arg.UserID] = w
	txn := f.appendTxnLocked(w, arg, db.TransactionTypeCredit, db.SourceDeposit, before.StringFixed(2), sql.NullInt64{})
	return db.WalletTxResult{Transaction: txn, Wallet: w}, nil
}

func (f *fakeStore) WithdrawTx(ctx context.Context, arg db.WalletTxParams) (db.WalletTxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.wallets[arg.UserID]
	before := decimal.RequireFromString(w.Balance)
	amount := decimal.RequireFromString(arg.Amount)
	if before.LessThan(amount) {
		return db.WalletTxResult{}, db.ErrInsufficientFunds
	}
	w.Balance = before.Sub(amount).StringFixed(2)
	f.wallets[arg.UserID] = w
	txn := f.appendTxnLocked(w, arg, db.TransactionTypeDebit, db.SourceWithdrawal, before.StringFixed(2), sql.NullInt64{})
	return db.WalletTxResult{Transaction: txn, Wallet: w}, nil
}

func (f *fakeStore) appendTxnLocked(w db.Wallet, arg db.WalletTxParams, txnType, source, before string, tradeID sql.NullInt64) db.WalletTransaction {
	f.nextID++
	txn := db.WalletTransaction{
		ID: f.nextID, WalletID: w.ID, UserID: arg.UserID,
		Reference: arg.Reference, Type: txnType, Amount: arg.Amount,
		BalanceBefore: before, BalanceAfter: w.Balance,
		Description: arg.Description, Source: source,
		TradeID: tradeID, Metadata: arg.Metadata, CreatedAt: time.Now(),
	}
	f.txns = append(f.txns, txn)
	return txn
}

func (f *fakeStore) BuyTradeTx(ctx context.Context, arg db.TradeTxParams) (db.TradeTxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.drainOnce {
		f.drainOnce = false
		w := f.wallets[arg.Trade.UserID]
		w.Balance = "0.00"
		f.wallets[arg.Trade.UserID] = w
	}

	w := f.wallets[arg.Trade.UserID]
	before := decimal.RequireFromString(w.Balance)
	total := decimal.RequireFromString(arg.Trade.TotalAmount)
	if before.LessThan(total) {
		failed := f.recordFailedTradeLocked(arg.Trade, db.ErrInsufficientFunds)
		return db.TradeTxResult{Trade: failed}, db.ErrInsufficientFunds
	}
	w.Balance = before.Sub(total).StringFixed(2)
	f.wallets[arg.Trade.UserID] = w

	key := holdingKey(arg.Trade.UserID, arg.Trade.CryptoSymbol)
	h, ok := f.holdings[key]
	if !ok {
		f.nextID++
		h = db.CryptoHolding{
			ID: f.nextID, UserID: arg.Trade.UserID,
			CryptoSymbol: arg.Trade.CryptoSymbol,
			CryptoName:   arg.CryptoName, Balance: "0.00000000",
		}
	}
	h.Balance = decimal.RequireFromString(h.Balance).
		Add(decimal.RequireFromString(arg.Trade.CryptoAmount)).StringFixed(8)
	f.holdings[key] = h

	trade := f.appendTradeLocked(arg.Trade, db.TradeStatusCompleted, "")
	f.nextID++
	txn := db.WalletTransaction{
		ID: f.nextID, WalletID: w.ID, UserID: arg.Trade.UserID,
		Reference: arg.TxReference, Type: db.TransactionTypeDebit,
		Amount: arg.Trade.TotalAmount, BalanceBefore: before.StringFixed(2),
		BalanceAfter: w.Balance, Description: arg.Description,
		Source:  db.SourceTradeBuy,
		TradeID: sql.NullInt64{Int64: trade.ID, Valid: true},
		Metadata: arg.Metadata, CreatedAt: time.Now(),
	}
	f.txns = append(f.txns, txn)

	return db.TradeTxResult{Trade: trade, Transaction: txn, Wallet: w, Holding: h}, nil
}

func (f *fakeStore) SellTradeTx(ctx context.Context, arg db.TradeTxParams) (db.TradeTxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := holdingKey(arg.Trade.UserID, arg.Trade.CryptoSymbol)
	h, ok := f.holdings[key]
	amount := decimal.RequireFromString(arg.Trade.CryptoAmount)
	if !ok || decimal.RequireFromString(h.Balance).LessThan(amount) {
		failed := f.recordFailedTradeLocked(arg.Trade, db.ErrInsufficientAssetBalance)
		return db.TradeTxResult{Trade: failed}, db.ErrInsufficientAssetBalance
	}
	h.Balance = decimal.RequireFromString(h.Balance).Sub(amount).StringFixed(8)
	f.holdings[key] = h

	w := f.wallets[arg.Trade.UserID]
	before := decimal.RequireFromString(w.Balance)
	w.Balance = before.Add(decimal.RequireFromString(arg.Trade.TotalAmount)).StringFixed(2)
	f.wallets[arg.Trade.UserID] = w

	trade := f.appendTradeLocked(arg.Trade, db.TradeStatusCompleted, "")
	f.nextID++
	txn := db.WalletTransaction{
		ID: f.nextID, WalletID: w.ID, UserID: arg.Trade.UserID,
		Reference: arg.TxReference, Type: db.TransactionTypeCredit,
		Amount: arg.Trade.TotalAmount, BalanceBefore: before.StringFixed(2),
		BalanceAfter: w.Balance, Description: arg.Description,
		Source:  db.SourceTradeSell,
		TradeID: sql.NullInt64{Int64: trade.ID, Valid: true},
		Metadata: arg.Metadata, CreatedAt: time.Now(),
	}
	f.txns = append(f.txns, txn)

	return db.TradeTxResult{Trade: trade, Transaction: txn, Wallet: w, Holding: h}, nil
}

func (f *fakeStore) recordFailedTradeLocked(trade db.CreateTradeParams, cause error) db.Trade {
	return f.appendTradeLocked(trade, db.TradeStatusFailed, cause.Error())
}

func (f *fakeStore) appendTradeLocked(params db.CreateTradeParams, status, failureReason string) db.Trade {
	f.nextID++
	trade := db.Trade{
		ID: f.nextID, UserID: params.UserID, Reference: params.Reference,
		Type: params.Type, CryptoSymbol: params.CryptoSymbol,
		CryptoAmount: params.CryptoAmount, Rate: params.Rate,
		Subtotal: params.Subtotal, FeePercentage: params.FeePercentage,
		FeeAmount: params.FeeAmount, TotalAmount: params.TotalAmount,
		Status: status, RateData: params.RateData,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if failureReason != "" {
		trade.FailureReason = sql.NullString{String: failureReason, Valid: true}
	}
	f.trades = append(f.trades, trade)
	return trade
}

func (f *fakeStore) GetHolding(ctx context.Context, arg db.GetHoldingParams) (db.CryptoHolding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.holdings[holdingKey(arg.UserID, arg.CryptoSymbol)]
	if !ok {
		return db.CryptoHolding{}, sql.ErrNoRows
	}
	return h, nil
}

func (f *fakeStore) ListHoldings(ctx context.Context, userID int64) ([]db.CryptoHolding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.CryptoHolding
	for _, h := range f.holdings {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTradeByReference(ctx context.Context, arg db.GetTradeByReferenceParams) (db.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trades {
		if t.UserID == arg.UserID && t.Reference == arg.Reference {
			return t, nil
		}
	}
	return db.Trade{}, sql.ErrNoRows
}

func (f *fakeStore) ListTrades(ctx context.Context, arg db.ListTradesParams) ([]db.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Trade
	for i := len(f.trades) - 1; i >= 0; i-- {
		t := f.trades[i]
		if t.UserID != arg.UserID {
			continue
		}
		if arg.Type.Valid && t.Type != arg.Type.String {
			continue
		}
		if arg.CryptoSymbol.Valid && t.CryptoSymbol != arg.CryptoSymbol.String {
			continue
		}
		if arg.Status.Valid && t.Status != arg.Status.String {
			continue
		}
		out = append(out, t)
	}
	start := int(arg.Offset)
	if start > len(out) {
		start = len(out)
	}
	end := start + int(arg.Limit)
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (f *fakeStore) CountTrades(ctx context.Context, arg db.CountTradesParams) (int64, error) {
	trades, err := f.ListTrades(ctx, db.ListTradesParams{
		UserID: arg.UserID, Type: arg.Type, CryptoSymbol: arg.CryptoSymbol,
		Status: arg.Status, DateFrom: arg.DateFrom, DateTo: arg.DateTo,
		Limit: int32(1 << 30),
	})
	if err != nil {
		return 0, err
	}
	return int64(len(trades)), nil
}

func (f *fakeStore) ListWalletTransactions(ctx context.Context, arg db.ListWalletTransactionsParams) ([]db.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.WalletTransaction
	for i := len(f.txns) - 1; i >= 0; i-- {
		txn := f.txns[i]
		if txn.WalletID != arg.WalletID {
			continue
		}
		if arg.Type.Valid && txn.Type != arg.Type.String {
			continue
		}
		if arg.Source.Valid && txn.Source != arg.Source.String {
			continue
		}
		out = append(out, txn)
	}
	start := int(arg.Offset)
	if start > len(out) {
		start = len(out)
	}
	end := start + int(arg.Limit)
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (f *fakeStore) CountWalletTransactions(ctx context.Context, arg db.CountWalletTransactionsParams) (int64, error) {
	txns, err := f.ListWalletTransactions(ctx, db.ListWalletTransactionsParams{
		WalletID: arg.WalletID, Type: arg.Type, Source: arg.Source,
		DateFrom: arg.DateFrom, DateTo: arg.DateTo, Limit: int32(1 << 30),
	})
	if err != nil {
		return 0, err
	}
	return int64(len(txns)), nil
}

// fakeOracle serves fixed NGN rates without touching the network.
type fakeOracle struct {
	prices map[string]decimal.Decimal
	err    error
	calls  atomic.Int64
}

func (o *fakeOracle) GetPrice(ctx context.Context, symbol string) (*cryptocurrency.PriceData, error) {
	o.calls.Add(1)
	if o.err != nil {
		return nil, o.err
	}
	rate, ok := o.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no price for %s", symbol)
	}
	return &cryptocurrency.PriceData{
		Symbol:   symbol,
		CoinID:   cryptocurrency.CoinGeckoID(symbol),
		PriceNGN: rate,
	}, nil
}

func (o *fakeOracle) GetAllPrices(ctx context.Context) (map[string]cryptocurrency.PriceData, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make(map[string]cryptocurrency.PriceData, len(o.prices))
	for symbol, rate := range o.prices {
		out[symbol] = cryptocurrency.PriceData{Symbol: symbol, PriceNGN: rate}
	}
	return out, nil
}
