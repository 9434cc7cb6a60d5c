package trading

import (
	"context"
	"fmt"
	"strings"
	"time"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/providers/cryptocurrency"
	"github.com/KoboTrade/KoboTrade-Backend/services/fees"
	"github.com/shopspring/decimal"
)

// Quote is a non-binding preview of a trade. It runs the same validation and
// arithmetic as execution minus the balance checks, so a quoted figure always
// matches what the trade would settle at under the same rate.
type Quote struct {
	Type          string          `json:"type"`
	CryptoSymbol  string          `json:"crypto_symbol"`
	CryptoAmount  decimal.Decimal `json:"crypto_amount"`
	Rate          decimal.Decimal `json:"rate"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	QuotedAt      time.Time       `json:"quoted_at"`
}

// QuoteBuy previews a fiat-in purchase of the given symbol.
func (s *TradingService) QuoteBuy(ctx context.Context, symbol string, fiatAmount decimal.Decimal) (Quote, error) {
	symbol = strings.ToUpper(symbol)

	if !cryptocurrency.IsSupported(symbol) {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, symbol)
	}
	if !fiatAmount.IsPositive() {
		return Quote{}, ErrInvalidAmount
	}

	schedule, err := s.fees.GetActive(ctx, fees.BuyFee)
	if err != nil {
		return Quote{}, err
	}
	if !schedule.MeetsMinimum(fiatAmount) {
		return Quote{}, fmt.Errorf("%w: minimum is %s NGN", ErrBelowMinimum, schedule.MinimumAmount.StringFixed(2))
	}

	price, err := s.fetchPrice(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}

	amounts := computeBuy(schedule, fiatAmount, price.PriceNGN)

	return Quote{
		Type:          db.TradeTypeBuy,
		CryptoSymbol:  symbol,
		CryptoAmount:  amounts.CryptoAmount,
		Rate:          price.PriceNGN,
		Subtotal:      amounts.NetFiat,
		FeePercentage: schedule.Percentage,
		FeeAmount:     amounts.FeeAmount,
		TotalAmount:   fiatAmount,
		QuotedAt:      time.Now(),
	}, nil
}

// QuoteSell previews a crypto-in sale of the given symbol.
func (s *TradingService) QuoteSell(ctx context.Context, symbol string, cryptoAmount decimal.Decimal) (Quote, error) {
	symbol = strings.ToUpper(symbol)

	if !cryptocurrency.IsSupported(symbol) {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, symbol)
	}
	if !cryptoAmount.IsPositive() {
		return Quote{}, ErrInvalidAmount
	}

	schedule, err := s.fees.GetActive(ctx, fees.SellFee)
	if err != nil {
		return Quote{}, err
	}

	price, err := s.fetchPrice(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}

	amounts := computeSell(schedule, cryptoAmount, price.PriceNGN)

	if !schedule.MeetsMinimum(amounts.Subtotal) {
		return Quote{}, fmt.Errorf("%w: minimum is %s NGN", ErrBelowMinimum, schedule.MinimumAmount.StringFixed(2))
	}

	return Quote{
		Type:          db.TradeTypeSell,
		CryptoSymbol:  symbol,
		CryptoAmount:  cryptoAmount,
		Rate:          price.PriceNGN,
		Subtotal:      amounts.Subtotal,
		FeePercentage: schedule.Percentage,
		FeeAmount:     amounts.FeeAmount,
		TotalAmount:   amounts.NetFiat,
		QuotedAt:      time.Now(),
	}, nil
}
