package wallet

import "fmt"

var (
	ErrWalletNotFound    = fmt.Errorf("wallet not found")
	ErrWalletInactive    = fmt.Errorf("wallet is not active")
	ErrInsufficientFunds = fmt.Errorf("insufficient wallet balance")
	ErrInvalidAmount     = fmt.Errorf("amount must be greater than zero")
)
