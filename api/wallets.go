package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/KoboTrade/KoboTrade-Backend/api/apistrings"
	models "github.com/KoboTrade/KoboTrade-Backend/api/models"
	basemodels "github.com/KoboTrade/KoboTrade-Backend/models"
	"github.com/KoboTrade/KoboTrade-Backend/services/wallet"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	server        *Server
	walletService *wallet.WalletService
}

func (w Wallet) router(server *Server) {
	w.server = server
	w.walletService = wallet.NewWalletService(server.store, server.logger)

	serverGroupV1 := server.router.Group("/api/v1/wallet")
	serverGroupV1.Use(AuthenticatedMiddleware())
	serverGroupV1.GET("", w.getWallet)
	serverGroupV1.POST("deposit", w.deposit)
	serverGroupV1.POST("withdraw", w.withdraw)
	serverGroupV1.GET("transactions", w.getTransactions)
}

func (w *Wallet) getWallet(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	userWallet, err := w.walletService.GetOrCreateWallet(ctx, activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Fetched Successfully", models.ToWalletResponse(&userWallet)))
}

func (w *Wallet) deposit(ctx *gin.Context) {
	request := models.WalletFundRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWalletInput))
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

	result, err := w.walletService.Deposit(ctx, activeUser.UserID, amount, request.Description, nil)
	if err != nil {
		w.respondWalletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Deposit Successful", gin.H{
		"wallet":      models.ToWalletResponse(&result.Wallet),
		"transaction": models.ToTransactionResponse(&result.Transaction),
	}))
}

func (w *Wallet) withdraw(ctx *gin.Context) {
	request := models.WalletFundRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWalletInput))
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

	result, err := w.walletService.Withdraw(ctx, activeUser.UserID, amount, request.Description, nil)
	if err != nil {
		w.respondWalletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawal Successful", gin.H{
		"wallet":      models.ToWalletResponse(&result.Wallet),
		"transaction": models.ToTransactionResponse(&result.Transaction),
	}))
}

func (w *Wallet) getTransactions(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	filter := wallet.TransactionFilter{
		Type:     optionalString(ctx.Query("type")),
		Source:   optionalString(ctx.Query("source")),
		DateFrom: optionalDate(ctx.Query("date_from")),
		DateTo:   optionalDate(ctx.Query("date_to")),
		Page:     queryInt32(ctx, "page", 1),
		PerPage:  queryInt32(ctx, "per_page", 15),
	}

	transactions, total, err := w.walletService.Transactions(ctx, activeUser.UserID, filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess(
		"Transactions Fetched Successfully",
		models.ToTransactionListResponse(transactions, models.NewPagination(filter.Page, filter.PerPage, total)),
	))
}

func (w *Wallet) respondWalletError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
	case errors.Is(err, wallet.ErrWalletInactive):
		ctx.JSON(http.StatusForbidden, basemodels.NewError(apistrings.WalletInactive))
	case errors.Is(err, wallet.ErrInsufficientFunds):
		ctx.JSON(http.StatusUnprocessableEntity, basemodels.NewError(apistrings.InsufficientFunds))
	default:
		w.server.logger.WithField("error", err.Error()).Error("wallet operation failed")
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
	}
}

func optionalString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func optionalDate(value string) sql.NullTime {
	if value == "" {
		return sql.NullTime{}
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: parsed, Valid: true}
}

func queryInt32(ctx *gin.Context, key string, fallback int32) int32 {
	value := ctx.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil || parsed < 1 {
		return fallback
	}
	return int32(parsed)
}
