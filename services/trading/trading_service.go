package trading

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/providers/cryptocurrency"
	"github.com/KoboTrade/KoboTrade-Backend/services/fees"
	"github.com/KoboTrade/KoboTrade-Backend/services/monitoring/logging"
	"github.com/KoboTrade/KoboTrade-Backend/services/wallet"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

// TradeStore is the slice of the store surface the trading service needs;
// *db.Store satisfies it, tests supply fakes.
type TradeStore interface {
	BuyTradeTx(ctx context.Context, arg db.TradeTxParams) (db.TradeTxResult, error)
	SellTradeTx(ctx context.Context, arg db.TradeTxParams) (db.TradeTxResult, error)
	GetHolding(ctx context.Context, arg db.GetHoldingParams) (db.CryptoHolding, error)
	ListHoldings(ctx context.Context, userID int64) ([]db.CryptoHolding, error)
	GetTradeByReference(ctx context.Context, arg db.GetTradeByReferenceParams) (db.Trade, error)
	ListTrades(ctx context.Context, arg db.ListTradesParams) ([]db.Trade, error)
	CountTrades(ctx context.Context, arg db.CountTradesParams) (int64, error)
}

// RateOracle supplies NGN price snapshots. It is called at most once per
// operation, before the atomic unit opens, and the snapshot is persisted into
// the trade's rate_data.
type RateOracle interface {
	GetPrice(ctx context.Context, symbol string) (*cryptocurrency.PriceData, error)
	GetAllPrices(ctx context.Context) (map[string]cryptocurrency.PriceData, error)
}

type TradingService struct {
	store   TradeStore
	rates   RateOracle
	fees    *fees.FeeService
	wallets *wallet.WalletService
	logger  *logging.Logger
}

func NewTradingService(store TradeStore, rates RateOracle, feeService *fees.FeeService, walletService *wallet.WalletService, logger *logging.Logger) *TradingService {
	return &TradingService{
		store:   store,
		rates:   rates,
		fees:    feeService,
		wallets: walletService,
		logger:  logger,
	}
}

// Buy purchases crypto with naira. The fee is deducted from the fiat input and
// the remainder converted at the oracle rate. Preconditions are checked in a
// fixed order so each failure mode is distinct; the settlement itself is one
// atomic unit that re-checks wallet sufficiency.
func (s *TradingService) Buy(ctx context.Context, userID int64, symbol string, fiatAmount decimal.Decimal) (db.Trade, error) {
	symbol = strings.ToUpper(symbol)

	info, ok := cryptocurrency.GetCryptoInfo(symbol)
	if !ok {
		return db.Trade{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, symbol)
	}
	if !fiatAmount.IsPositive() {
		return db.Trade{}, ErrInvalidAmount
	}

	schedule, err := s.fees.GetActive(ctx, fees.BuyFee)
	if err != nil {
		return db.Trade{}, err
	}

	if !schedule.MeetsMinimum(fiatAmount) {
		return db.Trade{}, fmt.Errorf("%w: minimum is %s NGN", ErrBelowMinimum, schedule.MinimumAmount.StringFixed(2))
	}

	userWallet, err := s.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return db.Trade{}, err
	}

	sufficient, err := s.wallets.HasSufficientBalance(ctx, userID, fiatAmount)
	if err != nil {
		return db.Trade{}, err
	}
	if !sufficient {
		return db.Trade{}, ErrInsufficientFunds
	}

	price, err := s.fetchPrice(ctx, symbol)
	if err != nil {
		return db.Trade{}, err
	}

	amounts := computeBuy(schedule, fiatAmount, price.PriceNGN)

	result, err := s.store.BuyTradeTx(ctx, db.TradeTxParams{
		Trade: db.CreateTradeParams{
			UserID:        userID,
			Reference:     utils.GenerateReference(utils.TradeRefPrefix),
			Type:          db.TradeTypeBuy,
			CryptoSymbol:  symbol,
			CryptoAmount:  amounts.CryptoAmount.StringFixed(8),
			Rate:          price.PriceNGN.StringFixed(2),
			Subtotal:      amounts.NetFiat.StringFixed(2),
			FeePercentage: schedule.Percentage.StringFixed(2),
			FeeAmount:     amounts.FeeAmount.StringFixed(2),
			TotalAmount:   fiatAmount.StringFixed(2),
			Status:        db.TradeStatusPending,
			RateData:      encodeRateData(price),
		},
		WalletID:    userWallet.ID,
		CryptoName:  info.Name,
		TxReference: utils.GenerateReference(utils.TransactionRefPrefix),
		Description: fmt.Sprintf("Buy %s", symbol),
		Metadata:    tradeMetadata(symbol, amounts.CryptoAmount),
	})
	if err != nil {
		if errors.Is(err, db.ErrInsufficientFunds) {
			return result.Trade, ErrInsufficientFunds
		}
		return result.Trade, fmt.Errorf("buy settlement: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":       userID,
		"trade_ref":     result.Trade.Reference,
		"symbol":        symbol,
		"crypto_amount": result.Trade.CryptoAmount,
		"ngn_amount":    result.Trade.TotalAmount,
	}).Info("buy trade completed")

	return result.Trade, nil
}

// Sell converts crypto back to naira. The minimum is checked against the
// pre-fee subtotal, matching the buy side's pre-fee fiat input check.
func (s *TradingService) Sell(ctx context.Context, userID int64, symbol string, cryptoAmount decimal.Decimal) (db.Trade, error) {
	symbol = strings.ToUpper(symbol)

	info, ok := cryptocurrency.GetCryptoInfo(symbol)
	if !ok {
		return db.Trade{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, symbol)
	}
	if !cryptoAmount.IsPositive() {
		return db.Trade{}, ErrInvalidAmount
	}

	schedule, err := s.fees.GetActive(ctx, fees.SellFee)
	if err != nil {
		return db.Trade{}, err
	}

	holding, err := s.store.GetHolding(ctx, db.GetHoldingParams{
		UserID:       userID,
		CryptoSymbol: symbol,
	})
	if err == sql.ErrNoRows {
		return db.Trade{}, fmt.Errorf("%w: %s", ErrInsufficientAssetBalance, symbol)
	} else if err != nil {
		return db.Trade{}, fmt.Errorf("get holding: %w", err)
	}

	holdingBalance, err := decimal.NewFromString(holding.Balance)
	if err != nil {
		return db.Trade{}, fmt.Errorf("invalid holding balance: %w", err)
	}
	if holdingBalance.LessThan(cryptoAmount) {
		return db.Trade{}, fmt.Errorf("%w: %s", ErrInsufficientAssetBalance, symbol)
	}

	price, err := s.fetchPrice(ctx, symbol)
	if err != nil {
		return db.Trade{}, err
	}

	amounts := computeSell(schedule, cryptoAmount, price.PriceNGN)

	if !schedule.MeetsMinimum(amounts.Subtotal) {
		return db.Trade{}, fmt.Errorf("%w: minimum is %s NGN", ErrBelowMinimum, schedule.MinimumAmount.StringFixed(2))
	}

	userWallet, err := s.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return db.Trade{}, err
	}

	result, err := s.store.SellTradeTx(ctx, db.TradeTxParams{
		Trade: db.CreateTradeParams{
			UserID:        userID,
			Reference:     utils.GenerateReference(utils.TradeRefPrefix),
			Type:          db.TradeTypeSell,
			CryptoSymbol:  symbol,
			CryptoAmount:  cryptoAmount.StringFixed(8),
			Rate:          price.PriceNGN.StringFixed(2),
			Subtotal:      amounts.Subtotal.StringFixed(2),
			FeePercentage: schedule.Percentage.StringFixed(2),
			FeeAmount:     amounts.FeeAmount.StringFixed(2),
			TotalAmount:   amounts.NetFiat.StringFixed(2),
			Status:        db.TradeStatusPending,
			RateData:      encodeRateData(price),
		},
		WalletID:    userWallet.ID,
		CryptoName:  info.Name,
		TxReference: utils.GenerateReference(utils.TransactionRefPrefix),
		Description: fmt.Sprintf("Sell %s", symbol),
		Metadata:    tradeMetadata(symbol, cryptoAmount),
	})
	if err != nil {
		if errors.Is(err, db.ErrInsufficientAssetBalance) {
			return result.Trade, fmt.Errorf("%w: %s", ErrInsufficientAssetBalance, symbol)
		}
		return result.Trade, fmt.Errorf("sell settlement: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":       userID,
		"trade_ref":     result.Trade.Reference,
		"symbol":        symbol,
		"crypto_amount": result.Trade.CryptoAmount,
		"ngn_amount":    result.Trade.TotalAmount,
	}).Info("sell trade completed")

	return result.Trade, nil
}

// fetchPrice wraps oracle failures as ErrRateUnavailable and rejects
// non-positive rates before any money math can divide by them.
func (s *TradingService) fetchPrice(ctx context.Context, symbol string) (*cryptocurrency.PriceData, error) {
	price, err := s.rates.GetPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	if !price.PriceNGN.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive rate for %s", ErrRateUnavailable, symbol)
	}
	return price, nil
}

func encodeRateData(price *cryptocurrency.PriceData) pqtype.NullRawMessage {
	raw, err := json.Marshal(price)
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}

func tradeMetadata(symbol string, cryptoAmount decimal.Decimal) pqtype.NullRawMessage {
	raw, err := json.Marshal(map[string]interface{}{
		"crypto_symbol": symbol,
		"crypto_amount": cryptoAmount.StringFixed(8),
	})
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}
