package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/barterqween/barter-api/internal/api/handler"
	"github.com/barterqween/barter-api/internal/api/middleware"
	"github.com/barterqween/barter-api/internal/core/service"
	mongorepo "github.com/barterqween/barter-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/barterqween/barter-api/internal/infrastructure/db/redis"
	"github.com/barterqween/barter-api/internal/infrastructure/storage/cloudinary"
)

// Deps carries the infrastructure handles the router wires into services.
type Deps struct {
	Client    *mongo.Client
	DB        *mongo.Database
	Redis     *redis.Client
	Storage   *cloudinary.Storage
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("barter"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(deps.DB)
	itemRepo := mongorepo.NewItemRepository(deps.DB)
	tradeRepo := mongorepo.NewTradeRepository(deps.DB)
	tx := mongorepo.NewTxManager(deps.Client)
	dedup := redisinfra.NewOfferDeduper(deps.Redis)

	// --- Services ---
	authService := service.NewAuthService(userRepo, deps.JWTSecret, deps.TokenTTL)
	itemService := service.NewItemService(itemRepo, userRepo, tradeRepo, tx, deps.Storage, deps.Log)
	tradeService := service.NewTradeService(tradeRepo, itemRepo, userRepo, tx, dedup, deps.Log)
	profileService := service.NewProfileService(userRepo, deps.Storage, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	itemHandler := handler.NewItemHandler(itemService)
	tradeHandler := handler.NewTradeHandler(tradeService)
	profileHandler := handler.NewProfileHandler(profileService)
	uploadHandler := handler.NewUploadHandler(deps.Storage)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Items ---
	v1 := e.Group("/v1")
	v1.GET("/items", itemHandler.List)
	v1.GET("/items/:id", itemHandler.Get)
	v1.POST("/items", itemHandler.Create, authMiddleware)
	v1.PATCH("/items/:id", itemHandler.Update, authMiddleware)
	v1.DELETE("/items/:id", itemHandler.Delete, authMiddleware)
	v1.GET("/my/items", itemHandler.ListMine, authMiddleware)

	// --- Trades ---
	trades := v1.Group("/trades", authMiddleware)
	trades.POST("", tradeHandler.Create)
	trades.GET("/received", tradeHandler.ListReceived)
	trades.GET("/sent", tradeHandler.ListSent)
	trades.GET("/:id", tradeHandler.Get)
	trades.POST("/:id/accept", tradeHandler.Accept)
	trades.POST("/:id/reject", tradeHandler.Reject)
	trades.POST("/:id/complete", tradeHandler.Complete)

	// --- Profile ---
	v1.GET("/profile", profileHandler.Get, authMiddleware)
	v1.PATCH("/profile", profileHandler.Update, authMiddleware)
	v1.GET("/users/:id", profileHandler.GetPublic)

	// --- Uploads ---
	v1.POST("/uploads/signature", uploadHandler.Signature, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
