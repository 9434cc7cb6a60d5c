package trading

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/services/fees"
	"github.com/KoboTrade/KoboTrade-Backend/services/monitoring/logging"
	"github.com/KoboTrade/KoboTrade-Backend/services/wallet"
	"github.com/shopspring/decimal"
)

const testUserID int64 = 7

func newTestService(store *fakeStore, oracle *fakeOracle) *TradingService {
	logger := logging.NewLogger(nil)
	logger.SetOutput(io.Discard)
	return NewTradingService(
		store,
		oracle,
		fees.NewFeeService(store),
		wallet.NewWalletService(store, logger),
		logger,
	)
}

func btcOracle(rate string) *fakeOracle {
	return &fakeOracle{prices: map[string]decimal.Decimal{
		"BTC": decimal.RequireFromString(rate),
		"ETH": decimal.RequireFromString("6000000.00"),
	}}
}

func TestBuy(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	trade, err := svc.Buy(context.Background(), testUserID, "btc", decimal.RequireFromString("100000"))
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	if trade.Status != db.TradeStatusCompleted {
		t.Errorf("status = %s, want completed", trade.Status)
	}
	if trade.FeeAmount != "1500.00" {
		t.Errorf("fee = %s, want 1500.00", trade.FeeAmount)
	}
	if trade.Subtotal != "98500.00" {
		t.Errorf("subtotal = %s, want 98500.00", trade.Subtotal)
	}
	if trade.CryptoAmount != "0.00197000" {
		t.Errorf("crypto amount = %s, want 0.00197000", trade.CryptoAmount)
	}
	if trade.TotalAmount != "100000.00" {
		t.Errorf("total = %s, want 100000.00", trade.TotalAmount)
	}
	if !strings.HasPrefix(trade.Reference, "TRD-") {
		t.Errorf("reference %q missing TRD prefix", trade.Reference)
	}
	if !trade.RateData.Valid {
		t.Error("rate snapshot not persisted")
	}

	if got := store.wallets[testUserID].Balance; got != "900000.00" {
		t.Errorf("wallet balance = %s, want 900000.00", got)
	}
	holding := store.holdings[holdingKey(testUserID, "BTC")]
	if holding.Balance != "0.00197000" {
		t.Errorf("holding balance = %s, want 0.00197000", holding.Balance)
	}

	if len(store.txns) != 1 {
		t.Fatalf("expected 1 wallet transaction, got %d", len(store.txns))
	}
	txn := store.txns[0]
	if txn.Type != db.TransactionTypeDebit || txn.Source != db.SourceTradeBuy {
		t.Errorf("txn type/source = %s/%s, want debit/trade_buy", txn.Type, txn.Source)
	}
	if txn.BalanceBefore != "1000000.00" || txn.BalanceAfter != "900000.00" {
		t.Errorf("balance trail = %s -> %s, want 1000000.00 -> 900000.00", txn.BalanceBefore, txn.BalanceAfter)
	}
	if !txn.TradeID.Valid || txn.TradeID.Int64 != trade.ID {
		t.Error("txn not linked to trade")
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "99999.99")
	svc := newTestService(store, btcOracle("50000000.00"))

	_, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("100000"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if got := store.wallets[testUserID].Balance; got != "99999.99" {
		t.Errorf("balance mutated to %s", got)
	}
	if len(store.txns) != 0 {
		t.Errorf("expected no wallet transactions, got %d", len(store.txns))
	}
}

func TestBuyExactBalance(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "100000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	trade, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("100000"))
	if err != nil {
		t.Fatalf("buy with exact balance failed: %v", err)
	}
	if trade.Status != db.TradeStatusCompleted {
		t.Errorf("status = %s, want completed", trade.Status)
	}
	if got := store.wallets[testUserID].Balance; got != "0.00" {
		t.Errorf("balance = %s, want 0.00", got)
	}
}

func TestBuyRacingDebitRecordsFailedTrade(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "500000.00")
	store.drainOnce = true
	svc := newTestService(store, btcOracle("50000000.00"))

	trade, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("100000"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if trade.Status != db.TradeStatusFailed {
		t.Errorf("trade status = %s, want failed", trade.Status)
	}
	if !trade.FailureReason.Valid {
		t.Error("failure reason not recorded")
	}
	if len(store.txns) != 0 {
		t.Errorf("expected no wallet transactions, got %d", len(store.txns))
	}
	if _, ok := store.holdings[holdingKey(testUserID, "BTC")]; ok {
		t.Error("holding credited despite failed settlement")
	}
}

func TestBuyBelowMinimum(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	oracle := btcOracle("50000000.00")
	svc := newTestService(store, oracle)

	_, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("999.99"))
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("err = %v, want ErrBelowMinimum", err)
	}
	if oracle.calls.Load() != 0 {
		t.Error("rate fetched for a trade that failed validation")
	}
	if len(store.trades) != 0 {
		t.Errorf("expected no trade rows, got %d", len(store.trades))
	}

	if _, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("1000.00")); err != nil {
		t.Fatalf("buy at exact minimum failed: %v", err)
	}
}

func TestBuyUnsupportedAsset(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	_, err := svc.Buy(context.Background(), testUserID, "DOGE", decimal.RequireFromString("100000"))
	if !errors.Is(err, ErrUnsupportedAsset) {
		t.Fatalf("err = %v, want ErrUnsupportedAsset", err)
	}
}

func TestBuyInvalidAmount(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	for _, amount := range []string{"0", "-100"} {
		if _, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %s: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestBuyMissingFeeConfig(t *testing.T) {
	store := newFakeStore()
	delete(store.fees, "buy_fee")
	store.seedWallet(testUserID, "1000000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	_, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("100000"))
	if !errors.Is(err, fees.ErrFeeConfigMissing) {
		t.Fatalf("err = %v, want ErrFeeConfigMissing", err)
	}
}

func TestBuyRateUnavailable(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	oracle := &fakeOracle{err: errors.New("gateway timeout")}
	svc := newTestService(store, oracle)

	_, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("100000"))
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("err = %v, want ErrRateUnavailable", err)
	}
	if len(store.trades) != 0 {
		t.Errorf("expected no trade rows, got %d", len(store.trades))
	}
	if got := store.wallets[testUserID].Balance; got != "1000000.00" {
		t.Errorf("balance mutated to %s", got)
	}
}

func TestSell(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "0.00")
	store.seedHolding(testUserID, "BTC", "Bitcoin", "0.50000000")
	svc := newTestService(store, btcOracle("50000000.00"))

	trade, err := svc.Sell(context.Background(), testUserID, "BTC", decimal.RequireFromString("0.1"))
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	if trade.Status != db.TradeStatusCompleted {
		t.Errorf("status = %s, want completed", trade.Status)
	}
	if trade.Subtotal != "5000000.00" {
		t.Errorf("subtotal = %s, want 5000000.00", trade.Subtotal)
	}
	if trade.FeeAmount != "75000.00" {
		t.Errorf("fee = %s, want 75000.00", trade.FeeAmount)
	}
	if trade.TotalAmount != "4925000.00" {
		t.Errorf("net proceeds = %s, want 4925000.00", trade.TotalAmount)
	}

	if got := store.wallets[testUserID].Balance; got != "4925000.00" {
		t.Errorf("wallet balance = %s, want 4925000.00", got)
	}
	if got := store.holdings[holdingKey(testUserID, "BTC")].Balance; got != "0.40000000" {
		t.Errorf("holding balance = %s, want 0.40000000", got)
	}

	if len(store.txns) != 1 {
		t.Fatalf("expected 1 wallet transaction, got %d", len(store.txns))
	}
	txn := store.txns[0]
	if txn.Type != db.TransactionTypeCredit || txn.Source != db.SourceTradeSell {
		t.Errorf("txn type/source = %s/%s, want credit/trade_sell", txn.Type, txn.Source)
	}
}

func TestSellInsufficientAsset(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "0.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	// No holding at all.
	_, err := svc.Sell(context.Background(), testUserID, "BTC", decimal.RequireFromString("0.1"))
	if !errors.Is(err, ErrInsufficientAssetBalance) {
		t.Fatalf("err = %v, want ErrInsufficientAssetBalance", err)
	}

	// Holding smaller than the sale.
	store.seedHolding(testUserID, "BTC", "Bitcoin", "0.05000000")
	_, err = svc.Sell(context.Background(), testUserID, "BTC", decimal.RequireFromString("0.1"))
	if !errors.Is(err, ErrInsufficientAssetBalance) {
		t.Fatalf("err = %v, want ErrInsufficientAssetBalance", err)
	}
	if got := store.holdings[holdingKey(testUserID, "BTC")].Balance; got != "0.05000000" {
		t.Errorf("holding mutated to %s", got)
	}
}

func TestSellBelowMinimum(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "0.00")
	store.seedHolding(testUserID, "BTC", "Bitcoin", "0.50000000")
	svc := newTestService(store, btcOracle("50000000.00"))

	// 0.00001 BTC at 50m is 500 NGN, under the 1000 NGN minimum.
	_, err := svc.Sell(context.Background(), testUserID, "BTC", decimal.RequireFromString("0.00001"))
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("err = %v, want ErrBelowMinimum", err)
	}
	if len(store.trades) != 0 {
		t.Errorf("expected no trade rows, got %d", len(store.trades))
	}
}

func TestQuoteBuyMatchesExecution(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	amount := decimal.RequireFromString("100000")
	quote, err := svc.QuoteBuy(context.Background(), "BTC", amount)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	trade, err := svc.Buy(context.Background(), testUserID, "BTC", amount)
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	if got := quote.FeeAmount.StringFixed(2); got != trade.FeeAmount {
		t.Errorf("quote fee %s != trade fee %s", got, trade.FeeAmount)
	}
	if got := quote.CryptoAmount.StringFixed(8); got != trade.CryptoAmount {
		t.Errorf("quote crypto %s != trade crypto %s", got, trade.CryptoAmount)
	}
	if got := quote.Subtotal.StringFixed(2); got != trade.Subtotal {
		t.Errorf("quote subtotal %s != trade subtotal %s", got, trade.Subtotal)
	}
	if len(store.trades) != 1 {
		t.Errorf("quoting persisted a trade row")
	}
}

func TestQuoteSell(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, btcOracle("50000000.00"))

	quote, err := svc.QuoteSell(context.Background(), "BTC", decimal.RequireFromString("0.1"))
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if got := quote.Subtotal.StringFixed(2); got != "5000000.00" {
		t.Errorf("subtotal = %s, want 5000000.00", got)
	}
	if got := quote.TotalAmount.StringFixed(2); got != "4925000.00" {
		t.Errorf("net = %s, want 4925000.00", got)
	}

	// Quotes validate the minimum but never the caller's balances.
	if _, err := svc.QuoteSell(context.Background(), "BTC", decimal.RequireFromString("0.00001")); !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("err = %v, want ErrBelowMinimum", err)
	}
}

func TestPortfolio(t *testing.T) {
	store := newFakeStore()
	store.seedHolding(testUserID, "BTC", "Bitcoin", "0.00197000")
	store.seedHolding(testUserID, "ETH", "Ethereum", "1.50000000")
	svc := newTestService(store, btcOracle("50000000.00"))

	portfolio, err := svc.Portfolio(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("portfolio failed: %v", err)
	}
	if len(portfolio.Holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(portfolio.Holdings))
	}

	values := map[string]string{}
	for _, h := range portfolio.Holdings {
		values[h.CryptoSymbol] = h.ValueNGN.StringFixed(2)
	}
	if values["BTC"] != "98500.00" {
		t.Errorf("BTC value = %s, want 98500.00", values["BTC"])
	}
	if values["ETH"] != "9000000.00" {
		t.Errorf("ETH value = %s, want 9000000.00", values["ETH"])
	}
	if got := portfolio.TotalValueNGN.StringFixed(2); got != "9098500.00" {
		t.Errorf("total = %s, want 9098500.00", got)
	}
}

func TestPortfolioEmpty(t *testing.T) {
	store := newFakeStore()
	oracle := btcOracle("50000000.00")
	svc := newTestService(store, oracle)

	portfolio, err := svc.Portfolio(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("portfolio failed: %v", err)
	}
	if len(portfolio.Holdings) != 0 {
		t.Errorf("expected no holdings, got %d", len(portfolio.Holdings))
	}
	if !portfolio.TotalValueNGN.IsZero() {
		t.Errorf("total = %s, want 0", portfolio.TotalValueNGN)
	}
}

func TestHolding(t *testing.T) {
	store := newFakeStore()
	store.seedHolding(testUserID, "BTC", "Bitcoin", "0.25000000")
	svc := newTestService(store, btcOracle("50000000.00"))

	balance, err := svc.Holding(context.Background(), testUserID, "btc")
	if err != nil {
		t.Fatalf("holding failed: %v", err)
	}
	if balance.StringFixed(8) != "0.25000000" {
		t.Errorf("balance = %s, want 0.25000000", balance.StringFixed(8))
	}

	// Never-traded asset reads as zero, not an error.
	balance, err = svc.Holding(context.Background(), testUserID, "ETH")
	if err != nil {
		t.Fatalf("holding for untraded asset failed: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("balance = %s, want 0", balance)
	}
}

func TestHistory(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "10000000.00")
	store.seedHolding(testUserID, "BTC", "Bitcoin", "1.00000000")
	svc := newTestService(store, btcOracle("50000000.00"))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Buy(ctx, testUserID, "BTC", decimal.RequireFromString("100000")); err != nil {
			t.Fatalf("buy %d failed: %v", i, err)
		}
	}
	if _, err := svc.Sell(ctx, testUserID, "BTC", decimal.RequireFromString("0.1")); err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	trades, total, err := svc.History(ctx, testUserID, TradeFilter{})
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if total != 4 || len(trades) != 4 {
		t.Fatalf("total/len = %d/%d, want 4/4", total, len(trades))
	}
	if trades[0].Type != db.TradeTypeSell {
		t.Errorf("newest trade type = %s, want sell", trades[0].Type)
	}

	buys, total, err := svc.History(ctx, testUserID, TradeFilter{
		Type: sql.NullString{String: db.TradeTypeBuy, Valid: true},
	})
	if err != nil {
		t.Fatalf("filtered history failed: %v", err)
	}
	if total != 3 || len(buys) != 3 {
		t.Fatalf("buy total/len = %d/%d, want 3/3", total, len(buys))
	}

	page, total, err := svc.History(ctx, testUserID, TradeFilter{Page: 2, PerPage: 3})
	if err != nil {
		t.Fatalf("paged history failed: %v", err)
	}
	if total != 4 || len(page) != 1 {
		t.Fatalf("page 2 total/len = %d/%d, want 4/1", total, len(page))
	}
}

func TestGetTrade(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "1000000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	ctx := context.Background()
	trade, err := svc.Buy(ctx, testUserID, "BTC", decimal.RequireFromString("100000"))
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	got, err := svc.GetTrade(ctx, testUserID, trade.Reference)
	if err != nil {
		t.Fatalf("get trade failed: %v", err)
	}
	if got.ID != trade.ID {
		t.Errorf("got trade %d, want %d", got.ID, trade.ID)
	}

	// Scoped to the owner.
	if _, err := svc.GetTrade(ctx, testUserID+1, trade.Reference); !errors.Is(err, ErrTradeNotFound) {
		t.Errorf("err = %v, want ErrTradeNotFound", err)
	}
	if _, err := svc.GetTrade(ctx, testUserID, "TRD-NOPE"); !errors.Is(err, ErrTradeNotFound) {
		t.Errorf("err = %v, want ErrTradeNotFound", err)
	}
}

func TestConcurrentBuysNeverOverdraw(t *testing.T) {
	store := newFakeStore()
	store.seedWallet(testUserID, "100000.00")
	svc := newTestService(store, btcOracle("50000000.00"))

	const attempts = 50
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Buy(context.Background(), testUserID, "BTC", decimal.RequireFromString("100000"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientFunds):
			insufficient++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
	if succeeded+insufficient != attempts {
		t.Errorf("accounted for %d attempts, want %d", succeeded+insufficient, attempts)
	}
	if got := store.wallets[testUserID].Balance; got != "0.00" {
		t.Errorf("final balance = %s, want 0.00", got)
	}
	if got := store.holdings[holdingKey(testUserID, "BTC")].Balance; got != "0.00197000" {
		t.Errorf("holding = %s, want 0.00197000", got)
	}
}
