package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/farmconnect/farmconnect-api/internal/config"
	"github.com/farmconnect/farmconnect-api/internal/gemini"
	"github.com/farmconnect/farmconnect-api/internal/handler"
	"github.com/farmconnect/farmconnect-api/internal/middleware"
	"github.com/farmconnect/farmconnect-api/internal/repository"
	"github.com/farmconnect/farmconnect-api/internal/service"
	"github.com/farmconnect/farmconnect-api/internal/storage"
	"github.com/farmconnect/farmconnect-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// MinIO
	store, err := storage.NewMinIOStorage(cfg.Storage)
	if err != nil {
		log.Error("create MinIO client", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Error("ensure MinIO bucket", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MinIO")

	// Gemini
	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Timeout)

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	favoriteRepo := repository.NewFavoriteRepository(dbPool)
	chatRepo := repository.NewChatRepository(dbPool)
	priceRepo := repository.NewPriceHistoryRepository(dbPool)
	notificationRepo := repository.NewNotificationRepository(dbPool)
	statsRepo := repository.NewStatsRepository(dbPool)
	analyticsRepo := repository.NewAnalyticsRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo, redisClient)
	orderSvc := service.NewOrderService(orderRepo, productRepo, amqpCh)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, productRepo)
	adminSvc := service.NewAdminService(userRepo, productRepo, orderRepo, statsRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, statsRepo)
	predictionSvc := service.NewPredictionService(priceRepo)
	advisorySvc := service.NewAdvisoryService()
	chatSvc := service.NewChatService(chatRepo, geminiClient,
		cfg.Chat.MaxMessageLength, cfg.Chat.MaxMessagesPerSession, cfg.Chat.HistoryDepth)
	notificationSvc := service.NewNotificationService(notificationRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc, store)
	marketH := handler.NewMarketplaceHandler(productSvc, favoriteSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	adminH := handler.NewAdminHandler(adminSvc, analyticsSvc)
	insightsH := handler.NewInsightsHandler(analyticsSvc, predictionSvc, advisorySvc)
	chatH := handler.NewChatHandler(chatSvc)
	notificationH := handler.NewNotificationHandler(notificationSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn, store)

	// Worker
	notificationWorker := worker.NewNotificationWorker(amqpCh, orderRepo, notificationRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authMW := middleware.AuthMiddleware(cfg.JWT.Secret)
	limiter := middleware.RateLimit(redisClient, cfg.Rate.Requests, cfg.Rate.Window)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth", limiter)
		auth.POST("/signup", authH.Signup)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authH.Logout)

		profile := v1.Group("/profile", authMW)
		profile.GET("", authH.GetProfile)
		profile.PUT("", authH.UpdateProfile)

		marketplace := v1.Group("/marketplace")
		marketplace.GET("/products", marketH.Browse)
		marketplace.GET("/products/:id", marketH.GetProduct)

		farmer := v1.Group("/farmer", authMW, middleware.FarmerOnly())
		farmer.GET("/stats", insightsH.FarmerStats)
		farmer.GET("/products", productH.ListMine)
		farmer.POST("/products", productH.Create)
		farmer.GET("/products/:id", productH.Get)
		farmer.PUT("/products/:id", productH.Update)
		farmer.DELETE("/products/:id", productH.Delete)
		farmer.POST("/products/:id/image", productH.UploadImage)
		farmer.GET("/orders", orderH.ListMine)
		farmer.PUT("/orders/:id/status", orderH.UpdateStatus)

		buyer := v1.Group("/buyer", authMW, middleware.BuyerOnly())
		buyer.GET("/stats", insightsH.BuyerStats)
		buyer.POST("/orders", limiter, orderH.Place)
		buyer.GET("/orders", orderH.ListMine)
		buyer.PUT("/orders/:id/cancel", orderH.Cancel)
		buyer.GET("/favorites", marketH.ListFavorites)
		buyer.POST("/favorites", marketH.AddFavorite)
		buyer.DELETE("/favorites/:id", marketH.RemoveFavorite)

		insights := v1.Group("/insights", authMW)
		insights.POST("/price-prediction", insightsH.PredictPrice)
		insights.GET("/weather-advice", insightsH.WeatherAdvice)
		insights.GET("/crop-recommendation", insightsH.CropRecommendation)

		v1.POST("/chat", limiter, chatH.Send)

		notifications := v1.Group("/notifications", authMW)
		notifications.GET("", notificationH.List)
		notifications.PUT("/:id/read", notificationH.MarkRead)

		admin := v1.Group("/admin", authMW, middleware.AdminOnly())
		admin.GET("/stats", adminH.Stats)
		admin.GET("/analytics", adminH.Analytics)
		admin.GET("/users", adminH.ListUsers)
		admin.PUT("/users/:id/status", adminH.UpdateUserStatus)
		admin.DELETE("/users/:id", adminH.DeleteUser)
		admin.GET("/products", adminH.ListProducts)
		admin.PUT("/products/:id/status", adminH.UpdateProductStatus)
		admin.DELETE("/products/:id", adminH.DeleteProduct)
		admin.GET("/orders", adminH.ListOrders)
		admin.PUT("/orders/:id/status", adminH.UpdateOrderStatus)
	}

	if err := notificationWorker.Start(ctx); err != nil {
		log.Error("start notification worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	notificationWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
