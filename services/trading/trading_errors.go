package trading

import "fmt"

var (
	ErrUnsupportedAsset         = fmt.Errorf("unsupported cryptocurrency")
	ErrInvalidAmount            = fmt.Errorf("amount must be greater than zero")
	ErrInvalidTradeType         = fmt.Errorf("trade type must be buy or sell")
	ErrBelowMinimum             = fmt.Errorf("amount is below the minimum transaction amount")
	ErrInsufficientFunds        = fmt.Errorf("insufficient wallet balance")
	ErrInsufficientAssetBalance = fmt.Errorf("insufficient crypto balance")
	ErrRateUnavailable          = fmt.Errorf("unable to fetch current exchange rate")
	ErrTradeNotFound            = fmt.Errorf("trade not found")
)
