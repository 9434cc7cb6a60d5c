package trading

import (
	"context"
	"database/sql"
	"fmt"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
)

// TradeFilter narrows a history listing. Zero-valued Null fields match
// everything; pagination is 1-based.
type TradeFilter struct {
	Type         sql.NullString
	CryptoSymbol sql.NullString
	Status       sql.NullString
	DateFrom     sql.NullTime
	DateTo       sql.NullTime
	Page         int32
	PerPage      int32
}

// History lists the user's trades newest first along with the total count
// matching the filter.
func (s *TradingService) History(ctx context.Context, userID int64, filter TradeFilter) ([]db.Trade, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}

	trades, err := s.store.ListTrades(ctx, db.ListTradesParams{
		UserID:       userID,
		Type:         filter.Type,
		CryptoSymbol: filter.CryptoSymbol,
		Status:       filter.Status,
		DateFrom:     filter.DateFrom,
		DateTo:       filter.DateTo,
		Limit:        filter.PerPage,
		Offset:       (filter.Page - 1) * filter.PerPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list trades: %w", err)
	}

	total, err := s.store.CountTrades(ctx, db.CountTradesParams{
		UserID:       userID,
		Type:         filter.Type,
		CryptoSymbol: filter.CryptoSymbol,
		Status:       filter.Status,
		DateFrom:     filter.DateFrom,
		DateTo:       filter.DateTo,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count trades: %w", err)
	}

	return trades, total, nil
}

// GetTrade fetches one trade by reference, scoped to the owner.
func (s *TradingService) GetTrade(ctx context.Context, userID int64, reference string) (db.Trade, error) {
	trade, err := s.store.GetTradeByReference(ctx, db.GetTradeByReferenceParams{
		UserID:    userID,
		Reference: reference,
	})
	if err == sql.ErrNoRows {
		return db.Trade{}, ErrTradeNotFound
	} else if err != nil {
		return db.Trade{}, fmt.Errorf("get trade: %w", err)
	}
	return trade, nil
}
