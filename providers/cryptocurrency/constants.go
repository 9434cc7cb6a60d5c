package cryptocurrency

import "strings"

type CryptoInfo struct {
	Symbol string
	Name   string
	CoinID string
}

// Supported cryptocurrencies with their CoinGecko ids.
var SupportedCryptos = map[string]CryptoInfo{
	"BTC":  {Symbol: "BTC", Name: "Bitcoin", CoinID: "bitcoin"},
	"ETH":  {Symbol: "ETH", Name: "Ethereum", CoinID: "ethereum"},
	"USDT": {Symbol: "USDT", Name: "Tether", CoinID: "tether"},
}

func IsSupported(symbol string) bool {
	_, ok := SupportedCryptos[strings.ToUpper(symbol)]
	return ok
}

func GetCryptoInfo(symbol string) (CryptoInfo, bool) {
	info, ok := SupportedCryptos[strings.ToUpper(symbol)]
	return info, ok
}

func CoinGeckoID(symbol string) string {
	return SupportedCryptos[strings.ToUpper(symbol)].CoinID
}
