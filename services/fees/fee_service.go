package fees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/shopspring/decimal"
)

const (
	BuyFee  = "buy_fee"
	SellFee = "sell_fee"
)

var ErrFeeConfigMissing = errors.New("fee configuration not found")

// FeeStore is the slice of the query surface the fee service needs.
type FeeStore interface {
	GetActiveFeeSetting(ctx context.Context, name string) (db.FeeSetting, error)
}

// FeeSchedule is the read-only policy snapshot resolved once per operation, so
// concurrent trades never observe a policy change mid-flight.
type FeeSchedule struct {
	Name          string
	Percentage    decimal.Decimal
	MinimumAmount decimal.Decimal
}

type FeeService struct {
	store FeeStore
}

func NewFeeService(store FeeStore) *FeeService {
	return &FeeService{store: store}
}

// GetActive resolves the active fee policy for name. A missing policy is an
// operator fault, surfaced as ErrFeeConfigMissing.
func (s *FeeService) GetActive(ctx context.Context, name string) (*FeeSchedule, error) {
	setting, err := s.store.GetActiveFeeSetting(ctx, name)
	if err == sql.ErrNoRows {
		return nil, ErrFeeConfigMissing
	} else if err != nil {
		return nil, fmt.Errorf("get fee setting %s: %w", name, err)
	}

	percentage, err := decimal.NewFromString(setting.Percentage)
	if err != nil {
		return nil, fmt.Errorf("invalid fee percentage for %s: %w", name, err)
	}
	minimum, err := decimal.NewFromString(setting.MinimumAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum amount for %s: %w", name, err)
	}

	return &FeeSchedule{
		Name:          setting.Name,
		Percentage:    percentage,
		MinimumAmount: minimum,
	}, nil
}

// CalculateFee computes the fee on amount, rounded half-up to 2 decimal places.
// This is the only place a derived monetary value is rounded.
func (f *FeeSchedule) CalculateFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(f.Percentage).Div(decimal.NewFromInt(100)).Round(2)
}

// MeetsMinimum reports whether amount satisfies the policy's minimum
// transaction amount.
func (f *FeeSchedule) MeetsMinimum(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(f.MinimumAmount)
}
