package cryptocurrency

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceData is the oracle snapshot persisted into a trade's rate_data; quoting
// and execution must be fed from the same snapshot.
type PriceData struct {
	Symbol        string          `json:"symbol"`
	CoinID        string          `json:"coin_id"`
	PriceNGN      decimal.Decimal `json:"price_ngn"`
	LastUpdatedAt int64           `json:"last_updated_at"`
	FetchedAt     time.Time       `json:"fetched_at"`
}
