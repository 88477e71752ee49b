package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GeoAziz/cyberfeast/internal/account"
	"github.com/GeoAziz/cyberfeast/internal/admin"
	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/cache"
	"github.com/GeoAziz/cyberfeast/internal/catalog"
	"github.com/GeoAziz/cyberfeast/internal/checkout"
	"github.com/GeoAziz/cyberfeast/internal/concierge"
	"github.com/GeoAziz/cyberfeast/internal/config"
	"github.com/GeoAziz/cyberfeast/internal/events"
	h "github.com/GeoAziz/cyberfeast/internal/http"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/orders"
	"github.com/GeoAziz/cyberfeast/internal/payment"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"github.com/GeoAziz/cyberfeast/internal/webhook"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", os.Getenv("CYBERFEAST_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger := logging.New("info", "json")
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	zerolog.DefaultContextLogger = &logger

	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("MongoDB disconnect error")
		}
	}()
	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Redis connection failed")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Redis ping succeeded")

	orderRepo := repository.NewOrderRepository(mongoDB)
	userRepo := repository.NewUserRepository(mongoDB)
	restaurantRepo := repository.NewRestaurantRepository(mongoDB)

	var publisher orders.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("order events enabled")
	}

	catalogService := catalog.NewService(restaurantRepo, cache.NewRedisCache(redisClient, cfg.Catalog.CacheTTL))
	orderService := orders.NewService(orderRepo, userRepo, publisher)
	accountService := account.NewService(userRepo)
	adminService := admin.NewService(userRepo, restaurantRepo, catalogService)

	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	if cfg.Stripe.WebhookSecret == "" {
		logger.Warn().Msg("stripe webhook secret not set, webhook deliveries will fail")
	}
	initiator := checkout.NewInitiator(gateway, cfg.Stripe.Currency, cfg.SuccessURL(), cfg.CancelURL())
	processor := webhook.NewProcessor(gateway, orderService, cache.NewRedisIdempotencyStore(redisClient, cfg.Idempotency.TTL))

	var model concierge.Model
	if gemini, err := concierge.NewGeminiModel(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model); err == nil {
		model = gemini
	} else {
		logger.Warn().Err(err).Msg("concierge disabled")
	}
	conciergeService := concierge.NewService(model, catalogService, orderService)

	tokens := auth.NewTokens(cfg.Auth.SessionSecret, cfg.Auth.IDTokenSecret, cfg.Auth.SessionTTL)

	router := h.NewRouter(h.RouterConfig{
		Tokens:         tokens,
		Logger:         logger,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, h.Handlers{
		Auth:      h.NewAuthHandler(tokens, accountService),
		Checkout:  h.NewCheckoutHandler(initiator),
		Orders:    h.NewOrdersHandler(orderService),
		Webhook:   h.NewWebhookHandler(processor),
		Catalog:   h.NewCatalogHandler(catalogService),
		Account:   h.NewAccountHandler(accountService),
		Admin:     h.NewAdminHandler(adminService),
		Concierge: h.NewConciergeHandler(conciergeService),
	})

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", cfg.App.HTTPAddr).Msg("CyberFeast API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
