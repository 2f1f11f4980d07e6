package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"salesdesk/internal/application/command"
	"salesdesk/internal/application/query"
	"salesdesk/internal/application/services"
	"salesdesk/internal/domain/event"
	"salesdesk/internal/infrastructure/bus"
	"salesdesk/internal/infrastructure/cache"
	httpapi "salesdesk/internal/infrastructure/http"
	"salesdesk/internal/infrastructure/mongo"
	"salesdesk/internal/infrastructure/projection"
	jwtutil "salesdesk/pkg/jwt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting salesdesk API")

	mongoConfig := &mongo.Config{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "salesdesk"),
		Timeout:  30 * time.Second,
	}

	mongoClient, err := mongo.NewClient(mongoConfig)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(); err != nil {
			logger.Error("error closing MongoDB connection", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB", zap.String("database", mongoConfig.Database))

	database := mongoClient.Database()

	// Repositories; sale reads go through a TTL cache invalidated on writes.
	saleRepo := cache.NewCachedSaleRepository(
		mongo.NewSaleRepository(database),
		time.Duration(getEnvInt("SALE_CACHE_TTL_SECONDS", 60))*time.Second,
		logger,
	)
	userRepo := mongo.NewUserRepository(database)

	// Async event bus with the audit projection subscribed to every sale
	// event: audit writes happen off the request path, and Stop drains
	// in-flight handlers during shutdown.
	eventBus := bus.NewAsyncEventBus(logger)
	auditProjection := projection.NewSaleAuditProjection(database, logger)
	for _, eventType := range []string{"SaleCreated", "SaleCancelled", "SaleModified", "ItemCancelled"} {
		eventBus.Subscribe(eventType, bus.EventHandlerFunc(
			func(ctx context.Context, e event.DomainEvent) error {
				return auditProjection.HandleSaleEvent(ctx, e)
			}))
	}

	jwtManager := jwtutil.NewJWTManager(
		getEnv("JWT_SECRET", "dev-secret-change-me"),
		time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24))*time.Hour,
	)

	// Command and query handlers
	createSaleHandler := command.NewCreateSaleHandler(saleRepo, userRepo, eventBus, logger)
	updateSaleHandler := command.NewUpdateSaleHandler(saleRepo, eventBus, logger)
	deleteSaleHandler := command.NewDeleteSaleHandler(saleRepo, eventBus, logger)
	getSaleHandler := query.NewGetSaleHandler(saleRepo)
	listSalesHandler := query.NewListSalesHandler(saleRepo)
	registerUserHandler := command.NewRegisterUserHandler(userRepo, eventBus, logger)
	loginUserHandler := command.NewLoginUserHandler(userRepo, jwtManager, logger)

	// Application services
	saleService := services.NewSaleService(
		createSaleHandler,
		updateSaleHandler,
		deleteSaleHandler,
		getSaleHandler,
		listSalesHandler,
	)
	userService := services.NewUserService(registerUserHandler, loginUserHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eventBus.Start(ctx); err != nil {
		logger.Fatal("failed to start event bus", zap.Error(err))
	}

	router := httpapi.NewRouter(
		httpapi.NewSaleController(saleService),
		httpapi.NewAuthController(userService),
		jwtManager,
		logger,
	)

	port := getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	eventBus.Stop()
	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
