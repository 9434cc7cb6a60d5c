package api

import (
	"errors"
	"net/http"

	"github.com/KoboTrade/KoboTrade-Backend/api/apistrings"
	models "github.com/KoboTrade/KoboTrade-Backend/api/models"
	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	basemodels "github.com/KoboTrade/KoboTrade-Backend/models"
	"github.com/KoboTrade/KoboTrade-Backend/services/fees"
	"github.com/KoboTrade/KoboTrade-Backend/services/trading"
	"github.com/KoboTrade/KoboTrade-Backend/services/wallet"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Trade struct {
	server         *Server
	tradingService *trading.TradingService
}

func (t Trade) router(server *Server) {
	t.server = server
	t.tradingService = trading.NewTradingService(
		server.store,
		server.rates,
		fees.NewFeeService(server.store),
		wallet.NewWalletService(server.store, server.logger),
		server.logger,
	)

	serverGroupV1 := server.router.Group("/api/v1/trades")
	serverGroupV1.Use(AuthenticatedMiddleware())
	serverGroupV1.POST("buy", t.buy)
	serverGroupV1.POST("sell", t.sell)
	serverGroupV1.POST("quote", t.quote)
	serverGroupV1.GET("", t.history)
	serverGroupV1.GET("portfolio", t.portfolio)
	serverGroupV1.GET(":reference", t.getTrade)
}

func (t *Trade) buy(ctx *gin.Context) {
	request := models.TradeRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTradeInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
		return
	}

	trade, err := t.tradingService.Buy(ctx, activeUser.UserID, request.CryptoSymbol, amount)
	if err != nil {
		t.respondTradeError(ctx, err, &trade)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Trade Completed Successfully", models.ToTradeResponse(&trade)))
}

func (t *Trade) sell(ctx *gin.Context) {
	request := models.TradeRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTradeInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
		return
	}

	trade, err := t.tradingService.Sell(ctx, activeUser.UserID, request.CryptoSymbol, amount)
	if err != nil {
		t.respondTradeError(ctx, err, &trade)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Trade Completed Successfully", models.ToTradeResponse(&trade)))
}

func (t *Trade) quote(ctx *gin.Context) {
	request := models.QuoteRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTradeInput))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
		return
	}

	var quote trading.Quote
	switch request.Type {
	case db.TradeTypeBuy:
		quote, err = t.tradingService.QuoteBuy(ctx, request.CryptoSymbol, amount)
	case db.TradeTypeSell:
		quote, err = t.tradingService.QuoteSell(ctx, request.CryptoSymbol, amount)
	default:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTradeInput))
		return
	}
	if err != nil {
		t.respondTradeError(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Quote Generated Successfully", models.ToQuoteResponse(&quote)))
}

func (t *Trade) history(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	filter := trading.TradeFilter{
		Type:         optionalString(ctx.Query("type")),
		CryptoSymbol: optionalString(ctx.Query("crypto_symbol")),
		Status:       optionalString(ctx.Query("status")),
		DateFrom:     optionalDate(ctx.Query("date_from")),
		DateTo:       optionalDate(ctx.Query("date_to")),
		Page:         queryInt32(ctx, "page", 1),
		PerPage:      queryInt32(ctx, "per_page", 20),
	}

	trades, total, err := t.tradingService.History(ctx, activeUser.UserID, filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess(
		"Trades Fetched Successfully",
		models.ToTradeListResponse(trades, models.NewPagination(filter.Page, filter.PerPage, total)),
	))
}

func (t *Trade) portfolio(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	portfolio, err := t.tradingService.Portfolio(ctx, activeUser.UserID)
	if err != nil {
		if errors.Is(err, trading.ErrRateUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError(apistrings.RateUnavailable))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Portfolio Fetched Successfully", models.ToPortfolioResponse(&portfolio)))
}

func (t *Trade) getTrade(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	trade, err := t.tradingService.GetTrade(ctx, activeUser.UserID, ctx.Param("reference"))
	if err != nil {
		if errors.Is(err, trading.ErrTradeNotFound) {
			ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.TradeNotFound))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Trade Fetched Successfully", models.ToTradeResponse(&trade)))
}

// respondTradeError maps service errors onto HTTP responses. A settlement that
// failed after the atomic re-check still returns the failed trade record so the
// client can show the reference.
func (t *Trade) respondTradeError(ctx *gin.Context, err error, trade *db.Trade) {
	var failedTrade interface{}
	if trade != nil && trade.Status == db.TradeStatusFailed {
		failedTrade = models.ToTradeResponse(trade)
	}

	switch {
	case errors.Is(err, trading.ErrUnsupportedAsset):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UnsupportedCrypto))
	case errors.Is(err, trading.ErrInvalidAmount):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
	case errors.Is(err, trading.ErrBelowMinimum):
		ctx.JSON(http.StatusUnprocessableEntity, basemodels.NewError(apistrings.BelowMinimum))
	case errors.Is(err, trading.ErrInsufficientFunds):
		t.respondWithFailedTrade(ctx, http.StatusUnprocessableEntity, apistrings.InsufficientFunds, failedTrade)
	case errors.Is(err, trading.ErrInsufficientAssetBalance):
		t.respondWithFailedTrade(ctx, http.StatusUnprocessableEntity, apistrings.InsufficientCrypto, failedTrade)
	case errors.Is(err, trading.ErrRateUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError(apistrings.RateUnavailable))
	case errors.Is(err, fees.ErrFeeConfigMissing):
		ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError(apistrings.FeeConfigUnavailable))
	default:
		t.server.logger.WithField("error", err.Error()).Error("trade failed")
		t.respondWithFailedTrade(ctx, http.StatusInternalServerError, apistrings.ServerError, failedTrade)
	}
}

func (t *Trade) respondWithFailedTrade(ctx *gin.Context, status int, message string, failedTrade interface{}) {
	response := basemodels.NewError(message)
	if failedTrade != nil {
		ctx.JSON(status, gin.H{
			"status":  response.Status,
			"message": response.Message,
			"version": response.Version,
			"trade":   failedTrade,
		})
		return
	}
	ctx.JSON(status, response)
}
