package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/KoboTrade/KoboTrade-Backend/api/apistrings"
	models "github.com/KoboTrade/KoboTrade-Backend/api/models"
	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	basemodels "github.com/KoboTrade/KoboTrade-Backend/models"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Auth struct {
	server *Server
}

func (a Auth) router(server *Server) {
	a.server = server

	serverGroupV1 := server.router.Group("/api/v1/auth")
	serverGroupV1.POST("register", a.register)
	serverGroupV1.POST("login", a.login)
	serverGroupV1.POST("logout", AuthenticatedMiddleware(), a.logout)
	serverGroupV1.GET("profile", AuthenticatedMiddleware(), a.profile)
}

func (a *Auth) register(ctx *gin.Context) {
	request := models.RegisterRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAuthInput))
		return
	}

	hashed, err := utils.GenerateHashValue(request.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	user, err := a.server.store.CreateUser(ctx, db.CreateUserParams{
		Name:           request.Name,
		Email:          strings.ToLower(request.Email),
		HashedPassword: hashed,
	})
	if db.IsDuplicate(err) {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.UserExists))
		return
	} else if err != nil {
		a.server.logger.WithField("error", err.Error()).Error("register failed")
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	token, err := TokenController.CreateToken(utils.TokenObject{UserID: user.ID})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.TokenError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Account Created Successfully", models.AuthResponse{
		User:  models.ToUserResponse(&user),
		Token: token,
	}))
}

func (a *Auth) login(ctx *gin.Context) {
	request := models.LoginRequest{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAuthInput))
		return
	}

	user, err := a.server.store.GetUserByEmail(ctx, strings.ToLower(request.Email))
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.InvalidCredentials))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if err := utils.VerifyHashValue(request.Password, user.HashedPassword); err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.InvalidCredentials))
		return
	}

	token, err := TokenController.CreateToken(utils.TokenObject{UserID: user.ID})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.TokenError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Login Successful", models.AuthResponse{
		User:  models.ToUserResponse(&user),
		Token: token,
	}))
}

// logout acknowledges the sign-out. Tokens are stateless and short-lived, so
// invalidation is the client discarding its copy.
func (a *Auth) logout(ctx *gin.Context) {
	if _, err := utils.GetActiveUser(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Logged Out Successfully", nil))
}

func (a *Auth) profile(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	user, err := a.server.store.GetUserByID(ctx, activeUser.UserID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.UserNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Profile Fetched Successfully", models.ToUserResponse(&user)))
}
