package apistrings

const (
	// Generic
	ServerError  = "An error occurred, please try again later"
	InvalidInput = "Invalid request, please check your input"

	// Auth
	UserNotFound       = "User could not be found"
	UserExists         = "A user with this email already exists"
	InvalidCredentials = "Invalid email or password"
	InvalidAuthInput   = "Name, email and password are required"
	TokenError         = "Could not issue authentication token"

	// Wallet
	WalletNotFound       = "Wallet could not be found"
	WalletInactive       = "This wallet is not active"
	InvalidAmount        = "Amount must be greater than zero"
	InsufficientFunds    = "Insufficient wallet balance"
	InvalidWalletInput   = "Invalid wallet request, please check your input"
	CurrencyNotSupported = "This currency is not supported"

	// Trading
	UnsupportedCrypto    = "This cryptocurrency is not supported"
	BelowMinimum         = "Amount is below the minimum transaction amount"
	InsufficientCrypto   = "Insufficient crypto balance"
	RateUnavailable      = "Unable to fetch the current exchange rate, please try again"
	TradeNotFound        = "Trade could not be found"
	InvalidTradeInput    = "Invalid trade request, please check your input"
	FeeConfigUnavailable = "Trading is temporarily unavailable, please try again later"
)
