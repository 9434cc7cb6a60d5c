package api

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
	"github.com/KoboTrade/KoboTrade-Backend/models"
	"github.com/KoboTrade/KoboTrade-Backend/providers/cryptocurrency"
	"github.com/KoboTrade/KoboTrade-Backend/services/cache"
	"github.com/KoboTrade/KoboTrade-Backend/services/monitoring/logging"
	"github.com/KoboTrade/KoboTrade-Backend/services/trading"
	"github.com/KoboTrade/KoboTrade-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var TokenController *utils.JWTToken

// RatesProvider is the slice of the price oracle the API consumes; the
// CoinGecko provider satisfies it, tests supply stubs.
type RatesProvider interface {
	trading.RateOracle
	Ping(ctx context.Context) bool
}

type Server struct {
	router *gin.Engine
	store  *db.Store
	config *utils.Config
	logger *logging.Logger
	rates  RatesProvider
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	l := logging.NewLogger(c)
	g := gin.Default()

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router: g,
		store:  db.NewStore(conn),
		config: c,
		logger: l,
		rates:  cryptocurrency.NewRatesProvider(newPriceCache(c, l), l),
	}
}

// newPriceCache prefers Redis when configured so rate lookups are shared
// across instances, falling back to the in-process cache.
func newPriceCache(c *utils.Config, l *logging.Logger) cache.Cache {
	if c.RedisHost != "" {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
		})
		if err == nil {
			return redisCache
		}
		l.WithField("error", err.Error()).Warn("redis unavailable, using in-memory price cache")
	}
	return cache.NewMemoryCache()
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to KoboTrade!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	s.registerRoutes()

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.health)

	/// Register Object Routers Below
	Auth{}.router(s)
	Wallet{}.router(s)
	Trade{}.router(s)
	Crypto{}.router(s)
}

// health reports whether the service's collaborators are reachable.
func (s *Server) health(ctx *gin.Context) {
	components := gin.H{
		"database": s.store.DB.PingContext(ctx) == nil,
		"rates":    s.rates.Ping(ctx),
	}
	ctx.JSON(http.StatusOK, models.NewSuccess("Service Health", components))
}
