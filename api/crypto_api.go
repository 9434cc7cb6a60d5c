package api

import (
	"net/http"
	"strings"

	"github.com/KoboTrade/KoboTrade-Backend/api/apistrings"
	models "github.com/KoboTrade/KoboTrade-Backend/api/models"
	basemodels "github.com/KoboTrade/KoboTrade-Backend/models"
	"github.com/KoboTrade/KoboTrade-Backend/providers/cryptocurrency"
	"github.com/KoboTrade/KoboTrade-Backend/services/fees"
	"github.com/KoboTrade/KoboTrade-Backend/services/trading"
	"github.com/KoboTrade/KoboTrade-Backend/services/wallet"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Crypto struct {
	server         *Server
	tradingService *trading.TradingService
}

func (c Crypto) router(server *Server) {
	c.server = server
	c.tradingService = trading.NewTradingService(
		server.store,
		server.rates,
		fees.NewFeeService(server.store),
		wallet.NewWalletService(server.store, server.logger),
		server.logger,
	)

	serverGroupV1 := server.router.Group("/api/v1/crypto")
	serverGroupV1.GET("assets", c.listAssets)
	serverGroupV1.GET("prices", c.listPrices)
	serverGroupV1.GET("prices/:symbol", c.getPrice)
	serverGroupV1.GET("holdings", AuthenticatedMiddleware(), c.listHoldings)
	serverGroupV1.GET("holdings/:symbol", AuthenticatedMiddleware(), c.getHolding)
}

// listAssets returns the tradeable currencies. Public, no auth.
func (c *Crypto) listAssets(ctx *gin.Context) {
	assets := make([]gin.H, 0, len(cryptocurrency.SupportedCryptos))
	for symbol, info := range cryptocurrency.SupportedCryptos {
		assets = append(assets, gin.H{
			"symbol": symbol,
			"name":   info.Name,
		})
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Supported Assets Fetched Successfully", assets))
}

func (c *Crypto) listPrices(ctx *gin.Context) {
	prices, err := c.server.rates.GetAllPrices(ctx)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError(apistrings.RateUnavailable))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Prices Fetched Successfully", models.ToPriceResponses(prices)))
}

func (c *Crypto) getPrice(ctx *gin.Context) {
	symbol := strings.ToUpper(ctx.Param("symbol"))
	if !cryptocurrency.IsSupported(symbol) {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UnsupportedCrypto))
		return
	}

	price, err := c.server.rates.GetPrice(ctx, symbol)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError(apistrings.RateUnavailable))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Price Fetched Successfully", models.PriceResponse{
		CryptoSymbol: symbol,
		PriceNGN:     price.PriceNGN.StringFixed(2),
	}))
}

func (c *Crypto) listHoldings(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	holdings, err := c.server.store.ListHoldings(ctx, activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Holdings Fetched Successfully", models.ToHoldingBalanceResponses(holdings)))
}

// getHolding returns one asset balance, zero when the user never traded it.
func (c *Crypto) getHolding(ctx *gin.Context) {
	symbol := strings.ToUpper(ctx.Param("symbol"))
	if !cryptocurrency.IsSupported(symbol) {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UnsupportedCrypto))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	balance, err := c.tradingService.Holding(ctx, activeUser.UserID, symbol)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Holding Fetched Successfully", models.HoldingBalanceResponse{
		CryptoSymbol: symbol,
		CryptoName:   cryptocurrency.SupportedCryptos[symbol].Name,
		Balance:      balance.StringFixed(8),
	}))
}
