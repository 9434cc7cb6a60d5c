package trading

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/shopspring/decimal"
)

type HoldingValuation struct {
	CryptoSymbol string          `json:"crypto_symbol"`
	CryptoName   string          `json:"crypto_name"`
	Balance      decimal.Decimal `json:"balance"`
	Rate         decimal.Decimal `json:"rate"`
	ValueNGN     decimal.Decimal `json:"value_ngn"`
}

type Portfolio struct {
	Holdings      []HoldingValuation `json:"holdings"`
	TotalValueNGN decimal.Decimal    `json:"total_value_ngn"`
}

// Portfolio values every holding the user owns at current oracle rates.
// Holdings whose symbol has no live rate are listed with a zero rate rather
// than dropped, so the asset balance is never hidden from the user.
func (s *TradingService) Portfolio(ctx context.Context, userID int64) (Portfolio, error) {
	holdings, err := s.store.ListHoldings(ctx, userID)
	if err != nil {
		return Portfolio{}, fmt.Errorf("list holdings: %w", err)
	}

	var prices map[string]cryptoPrice
	if len(holdings) > 0 {
		all, err := s.rates.GetAllPrices(ctx)
		if err != nil {
			return Portfolio{}, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
		}
		prices = make(map[string]cryptoPrice, len(all))
		for symbol, p := range all {
			prices[symbol] = cryptoPrice{rate: p.PriceNGN}
		}
	}

	out := Portfolio{
		Holdings:      make([]HoldingValuation, 0, len(holdings)),
		TotalValueNGN: decimal.Zero,
	}
	for _, h := range holdings {
		balance, err := decimal.NewFromString(h.Balance)
		if err != nil {
			return Portfolio{}, fmt.Errorf("invalid holding balance for %s: %w", h.CryptoSymbol, err)
		}

		rate := prices[h.CryptoSymbol].rate
		value := balance.Mul(rate).Round(2)

		out.Holdings = append(out.Holdings, HoldingValuation{
			CryptoSymbol: h.CryptoSymbol,
			CryptoName:   h.CryptoName,
			Balance:      balance,
			Rate:         rate,
			ValueNGN:     value,
		})
		out.TotalValueNGN = out.TotalValueNGN.Add(value)
	}

	return out, nil
}

type cryptoPrice struct {
	rate decimal.Decimal
}

// Holding returns a single asset balance, zero when the user never traded it.
func (s *TradingService) Holding(ctx context.Context, userID int64, symbol string) (decimal.Decimal, error) {
	h, err := s.store.GetHolding(ctx, db.GetHoldingParams{
		UserID:       userID,
		CryptoSymbol: strings.ToUpper(symbol),
	})
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	} else if err != nil {
		return decimal.Zero, fmt.Errorf("get holding: %w", err)
	}
	return decimal.NewFromString(h.Balance)
}
