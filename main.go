package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cart-bff/clients"
	"cart-bff/common/logger"
	"cart-bff/config"
	"cart-bff/controllers"
	"cart-bff/database"
	"cart-bff/kafka"
	"cart-bff/middleware"
	"cart-bff/routes"
	"cart-bff/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync() //nolint:errcheck

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	// Upstream collaborators
	cartClient := clients.NewCartClient(cfg.CartServiceURL)
	chargesClient := clients.NewChargesClient(cfg.ChargesServiceURL)
	paymentClient := clients.NewPaymentClient(cfg.PaymentBaseURL, cfg.PaymentConsumerKey, cfg.PaymentConsumerSecret)

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaCheckoutTopic, log)
	defer producer.Close()

	// DI chain
	guestCarts := database.NewGuestCartRepository(redisClient, cfg.GuestCartTTL)
	favorites := database.NewFavoritesRepository(redisClient)
	orderRepo := database.NewGormOrderRepository(db)

	cartService := services.NewCartService(cartClient, guestCarts, chargesClient, log)
	checkoutService := services.NewCheckoutService(
		cartService,
		paymentClient,
		orderRepo,
		producer,
		cfg.PaymentCallbackURL,
		"KES",
		log,
	)

	cartController := controllers.NewCartController(cartService)
	checkoutController := controllers.NewCheckoutController(checkoutService)
	favoritesController := controllers.NewFavoritesController(favorites, log)

	// Payment events keep order history in step with the gateway.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := kafka.NewPaymentConsumer(cfg.KafkaBrokers, cfg.KafkaPaymentTopic, cfg.KafkaGroupID, orderRepo, log)
	go consumer.Run(consumerCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.RateLimit())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Guest-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Guest-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "cart-bff"})
	})

	routes.Register(r, cartController, checkoutController, favoritesController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Cart BFF started", zap.String("port", cfg.Port))
	<-quit
	log.Info("Shutting down cart BFF...")

	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited cleanly")
}
