package cryptocurrency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KoboTrade/KoboTrade-Backend/providers"
	"github.com/KoboTrade/KoboTrade-Backend/services/cache"
	"github.com/KoboTrade/KoboTrade-Backend/services/monitoring/logging"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/shopspring/decimal"
)

const priceCacheTTL = 60 * time.Second

type CoinGeckoProvider struct {
	providers.BaseProvider
	config *RatesProviderConfig
	cache  cache.Cache
	logger *logging.Logger
}

type RatesProviderConfig struct {
	RatesProviderName  string `mapstructure:"RATES_PROVIDER_NAME"`
	CoinGeckoBaseUrl   string `mapstructure:"COINGECKO_BASE_URL"`
	CoinGeckoAccessKey string `mapstructure:"COINGECKO_ACCESS_KEY"`
}

func NewRatesProvider(priceCache cache.Cache, logger *logging.Logger) *CoinGeckoProvider {
	var c RatesProviderConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	if c.CoinGeckoBaseUrl == "" {
		c.CoinGeckoBaseUrl = "https://api.coingecko.com/api/v3"
	}
	if c.RatesProviderName == "" {
		c.RatesProviderName = providers.CoinGecko
	}

	return &CoinGeckoProvider{
		BaseProvider: providers.BaseProvider{
			Name:    c.RatesProviderName,
			BaseURL: c.CoinGeckoBaseUrl,
			APIKey:  c.CoinGeckoAccessKey,
			Client: &http.Client{
				Timeout: time.Second * 10,
			},
		},
		config: &c,
		cache:  priceCache,
		logger: logger,
	}
}

// GetPrice returns the NGN price snapshot for one supported symbol, serving
// from cache within the TTL so a burst of trades does not hammer CoinGecko.
func (c *CoinGeckoProvider) GetPrice(ctx context.Context, symbol string) (*PriceData, error) {
	info, ok := GetCryptoInfo(symbol)
	if !ok {
		return nil, fmt.Errorf("unsupported crypto symbol: %s", symbol)
	}

	cacheKey := fmt.Sprintf("coingecko_price_%s_ngn", info.CoinID)
	if cached, found := c.cache.Get(ctx, cacheKey); found {
		var price PriceData
		if err := json.Unmarshal([]byte(cached), &price); err == nil {
			return &price, nil
		}
		c.cache.Delete(ctx, cacheKey)
	}

	prices, err := c.fetchPrices(ctx, []CryptoInfo{info})
	if err != nil {
		return nil, err
	}

	price, ok := prices[info.Symbol]
	if !ok {
		return nil, fmt.Errorf("no NGN price returned for %s", info.CoinID)
	}

	c.storeInCache(ctx, cacheKey, price)
	return &price, nil
}

// GetAllPrices returns NGN snapshots for every supported cryptocurrency.
func (c *CoinGeckoProvider) GetAllPrices(ctx context.Context) (map[string]PriceData, error) {
	const cacheKey = "coingecko_all_prices_ngn"
	if cached, found := c.cache.Get(ctx, cacheKey); found {
		var prices map[string]PriceData
		if err := json.Unmarshal([]byte(cached), &prices); err == nil {
			return prices, nil
		}
		c.cache.Delete(ctx, cacheKey)
	}

	coins := make([]CryptoInfo, 0, len(SupportedCryptos))
	for _, info := range SupportedCryptos {
		coins = append(coins, info)
	}

	prices, err := c.fetchPrices(ctx, coins)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(prices); err == nil {
		c.cache.Set(ctx, cacheKey, string(encoded), priceCacheTTL)
	}

	return prices, nil
}

// Ping reports whether the CoinGecko API is reachable.
func (c *CoinGeckoProvider) Ping(ctx context.Context) bool {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return false
	}
	base.Path += "/ping"

	resp, err := c.MakeRequest(ctx, http.MethodGet, base.String(), nil, nil)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *CoinGeckoProvider) fetchPrices(ctx context.Context, coins []CryptoInfo) (map[string]PriceData, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid rates provider base URL: %w", err)
	}
	base.Path += "/simple/price"

	ids := make([]string, 0, len(coins))
	for _, coin := range coins {
		ids = append(ids, coin.CoinID)
	}

	params := url.Values{}
	params.Add("ids", strings.Join(ids, ","))
	params.Add("vs_currencies", "ngn")
	params.Add("include_last_updated_at", "true")
	base.RawQuery = params.Encode()

	resp, err := c.MakeRequest(ctx, http.MethodGet, base.String(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("rates provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Error("rates provider returned non-OK status")
		return nil, fmt.Errorf("unexpected status code from rates provider: %d", resp.StatusCode)
	}

	var payload map[string]struct {
		NGN           decimal.Decimal `json:"ngn"`
		LastUpdatedAt int64           `json:"last_updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	now := time.Now().UTC()
	prices := make(map[string]PriceData, len(coins))
	for _, coin := range coins {
		entry, ok := payload[coin.CoinID]
		if !ok {
			continue
		}
		prices[coin.Symbol] = PriceData{
			Symbol:        coin.Symbol,
			CoinID:        coin.CoinID,
			PriceNGN:      entry.NGN,
			LastUpdatedAt: entry.LastUpdatedAt,
			FetchedAt:     now,
		}
	}

	return prices, nil
}

func (c *CoinGeckoProvider) storeInCache(ctx context.Context, key string, price PriceData) {
	encoded, err := json.Marshal(price)
	if err != nil {
		return
	}
	c.cache.Set(ctx, key, string(encoded), priceCacheTTL)
}
