package models

import (
	"time"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/providers/cryptocurrency"
	"github.com/KoboTrade/KoboTrade-Backend/services/trading"
)

type TradeRequest struct {
	CryptoSymbol string `json:"crypto_symbol" binding:"required"`
	// Amount is NGN for a buy and crypto units for a sell.
	Amount string `json:"amount" binding:"required"`
}

type QuoteRequest struct {
	Type         string `json:"type" binding:"required"`
	CryptoSymbol string `json:"crypto_symbol" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}

type TradeResponse struct {
	Reference     string    `json:"reference"`
	Type          string    `json:"type"`
	CryptoSymbol  string    `json:"crypto_symbol"`
	CryptoAmount  string    `json:"crypto_amount"`
	Rate          string    `json:"rate"`
	Subtotal      string    `json:"subtotal"`
	FeePercentage string    `json:"fee_percentage"`
	FeeAmount     string    `json:"fee_amount"`
	TotalAmount   string    `json:"total_amount"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type TradeListResponse struct {
	Trades     []TradeResponse `json:"trades"`
	Pagination Pagination      `json:"pagination"`
}

type QuoteResponse struct {
	Type          string    `json:"type"`
	CryptoSymbol  string    `json:"crypto_symbol"`
	CryptoAmount  string    `json:"crypto_amount"`
	Rate          string    `json:"rate"`
	Subtotal      string    `json:"subtotal"`
	FeePercentage string    `json:"fee_percentage"`
	FeeAmount     string    `json:"fee_amount"`
	TotalAmount   string    `json:"total_amount"`
	QuotedAt      time.Time `json:"quoted_at"`
}

type HoldingResponse struct {
	CryptoSymbol string `json:"crypto_symbol"`
	CryptoName   string `json:"crypto_name"`
	Balance      string `json:"balance"`
	Rate         string `json:"rate"`
	ValueNGN     string `json:"value_ngn"`
}

type PortfolioResponse struct {
	Holdings      []HoldingResponse `json:"holdings"`
	TotalValueNGN string            `json:"total_value_ngn"`
}

type HoldingBalanceResponse struct {
	CryptoSymbol string `json:"crypto_symbol"`
	CryptoName   string `json:"crypto_name"`
	Balance      string `json:"balance"`
}

type PriceResponse struct {
	CryptoSymbol string `json:"crypto_symbol"`
	PriceNGN     string `json:"price_ngn"`
}

func ToTradeResponse(trade *db.Trade) TradeResponse {
	response := TradeResponse{
		Reference:     trade.Reference,
		Type:          trade.Type,
		CryptoSymbol:  trade.CryptoSymbol,
		CryptoAmount:  trade.CryptoAmount,
		Rate:          trade.Rate,
		Subtotal:      trade.Subtotal,
		FeePercentage: trade.FeePercentage,
		FeeAmount:     trade.FeeAmount,
		TotalAmount:   trade.TotalAmount,
		Status:        trade.Status,
		CreatedAt:     trade.CreatedAt,
	}
	if trade.FailureReason.Valid {
		response.FailureReason = trade.FailureReason.String
	}
	return response
}

func ToTradeListResponse(trades []db.Trade, pagination Pagination) TradeListResponse {
	out := TradeListResponse{
		Trades:     make([]TradeResponse, 0, len(trades)),
		Pagination: pagination,
	}
	for i := range trades {
		out.Trades = append(out.Trades, ToTradeResponse(&trades[i]))
	}
	return out
}

func ToQuoteResponse(quote *trading.Quote) QuoteResponse {
	return QuoteResponse{
		Type:          quote.Type,
		CryptoSymbol:  quote.CryptoSymbol,
		CryptoAmount:  quote.CryptoAmount.StringFixed(8),
		Rate:          quote.Rate.StringFixed(2),
		Subtotal:      quote.Subtotal.StringFixed(2),
		FeePercentage: quote.FeePercentage.StringFixed(2),
		FeeAmount:     quote.FeeAmount.StringFixed(2),
		TotalAmount:   quote.TotalAmount.StringFixed(2),
		QuotedAt:      quote.QuotedAt,
	}
}

func ToPortfolioResponse(portfolio *trading.Portfolio) PortfolioResponse {
	out := PortfolioResponse{
		Holdings:      make([]HoldingResponse, 0, len(portfolio.Holdings)),
		TotalValueNGN: portfolio.TotalValueNGN.StringFixed(2),
	}
	for _, h := range portfolio.Holdings {
		out.Holdings = append(out.Holdings, HoldingResponse{
			CryptoSymbol: h.CryptoSymbol,
			CryptoName:   h.CryptoName,
			Balance:      h.Balance.StringFixed(8),
			Rate:         h.Rate.StringFixed(2),
			ValueNGN:     h.ValueNGN.StringFixed(2),
		})
	}
	return out
}

func ToHoldingBalanceResponses(holdings []db.CryptoHolding) []HoldingBalanceResponse {
	out := make([]HoldingBalanceResponse, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, HoldingBalanceResponse{
			CryptoSymbol: h.CryptoSymbol,
			CryptoName:   h.CryptoName,
			Balance:      h.Balance,
		})
	}
	return out
}

func ToPriceResponses(prices map[string]cryptocurrency.PriceData) []PriceResponse {
	out := make([]PriceResponse, 0, len(prices))
	for symbol, price := range prices {
		out = append(out, PriceResponse{
			CryptoSymbol: symbol,
			PriceNGN:     price.PriceNGN.StringFixed(2),
		})
	}
	return out
}
