package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/cache"
	"github.com/SARVESHVARADKAR123/townsquare/internal/config"
	"github.com/SARVESHVARADKAR123/townsquare/internal/handlers"
	"github.com/SARVESHVARADKAR123/townsquare/internal/kafka"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
	"github.com/SARVESHVARADKAR123/townsquare/internal/outbox"
	"github.com/SARVESHVARADKAR123/townsquare/internal/realtime"
	"github.com/SARVESHVARADKAR123/townsquare/internal/repository/memory"
	"github.com/SARVESHVARADKAR123/townsquare/internal/repository/postgres"
	"github.com/SARVESHVARADKAR123/townsquare/internal/router"
	"github.com/SARVESHVARADKAR123/townsquare/internal/security"
	grpc_transport "github.com/SARVESHVARADKAR123/townsquare/internal/transport/grpc"
	"github.com/SARVESHVARADKAR123/townsquare/internal/tx"
)

func main() {
	cfg := config.Load()

	// Observability
	observability.InitLogger(cfg.ServiceName)
	log := observability.Log
	defer log.Sync()

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	// Cancellable context for background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readyChecks := map[string]observability.Pinger{}

	// Redis: conversation cache and cross-instance realtime bus
	var (
		cacheClient *cache.Cache
		bus         realtime.Bus
	)
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr)
		defer cacheClient.Client.Close()
		readyChecks["redis"] = cacheClient
		bus = realtime.NewRedisBus(cacheClient.Client)
	} else {
		bus = realtime.NewMemoryBus()
	}

	// Storage
	var (
		deps        application.Dependencies
		outboxStore outbox.Store
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close()

		migrateCtx, migrateCancel := context.WithTimeout(ctx, 30*time.Second)
		if err := postgres.Migrate(migrateCtx, db); err != nil {
			log.Fatal("db migration failed", zap.Error(err))
		}
		migrateCancel()
		readyChecks["postgres"] = db

		txMgr := &tx.Manager{DB: db}
		deps = application.Dependencies{
			Users:         &postgres.UserRepo{DB: db},
			Conversations: &postgres.ConversationRepo{DB: db, Tx: txMgr, Cache: cacheClient},
			Messages:      &postgres.MessageRepo{DB: db, Tx: txMgr},
			ReadReceipts:  &postgres.ReadReceiptRepo{DB: db, Tx: txMgr},
			Posts:         &postgres.PostRepo{DB: db},
			Comments:      &postgres.CommentRepo{DB: db, Tx: txMgr},
		}
		outboxStore = &postgres.OutboxStore{DB: db}

	case config.DriverMemory:
		log.Warn("using in-memory storage, data will not survive a restart")
		store := memory.NewStore()
		deps = application.Dependencies{
			Users:         store.Users(),
			Conversations: store.Conversations(),
			Messages:      store.Messages(),
			ReadReceipts:  store.ReadReceipts(),
			Posts:         store.Posts(),
			Comments:      store.Comments(),
		}
		outboxStore = store
	}

	feeds := realtime.NewFeeds(bus)
	deps.MessageFeed = feeds
	deps.CommentFeed = feeds
	deps.ReadReceiptFeed = feeds
	deps.Identity = &security.JWTIdentityProvider{
		Secret:   cfg.IdentitySecret,
		Issuer:   cfg.IdentityIssuer,
		Audience: cfg.IdentityAudience,
	}
	deps.Log = log
	app := application.New(deps)

	// Outbox publisher: Kafka when configured, otherwise straight onto the bus
	var publisher outbox.Publisher = realtime.BusPublisher{Bus: bus}
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, cfg.KafkaTopic, kafka.Relay{Bus: bus})
		if err != nil {
			log.Fatal("kafka consumer failed", zap.Error(err))
		}
		defer consumer.Close()
		consumer.Start(ctx)
	}

	// Outbox Worker
	worker := &outbox.Worker{
		Store:       outboxStore,
		Publisher:   publisher,
		ServiceName: cfg.ServiceName,
		BatchSize:   cfg.OutboxBatchSize,
		PollDelay:   cfg.OutboxPollDelay,
		MaxRetries:  cfg.OutboxMaxRetries,
	}
	go worker.Start(ctx)

	// HTTP Server for Observability (Metrics & Health)
	mux := chi.NewRouter()
	mux.Use(observability.MetricsMiddleware(cfg.ServiceName))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health/live", observability.HealthLiveHandler)
	mux.Get("/health/ready", observability.HealthReadyHandler(readyChecks))

	obsServer := &http.Server{Addr: cfg.ObsHTTPAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("HTTP observability server started", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP observability server failed", zap.Error(err))
		}
	}()

	// Public API
	api := router.NewRouter(router.Handlers{
		Auth: handlers.NewAuthHandler(app, handlers.TokenConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			TTL:      cfg.AccessTokenTTL,
		}),
		Profile:   handlers.NewProfileHandler(app),
		Community: handlers.NewCommunityHandler(app),
		Messaging: handlers.NewMessagingHandler(app),
		Streams:   handlers.NewStreamHandler(app),
	}, router.Options{
		ServiceName:       cfg.ServiceName,
		JWTSecret:         cfg.JWTSecret,
		JWTIssuer:         cfg.JWTIssuer,
		JWTAudience:       cfg.JWTAudience,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		ReadyChecks:       readyChecks,
	})

	apiServer := &http.Server{Addr: cfg.HTTPAddr, Handler: api, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("HTTP API server started", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP API server failed", zap.Error(err))
		}
	}()

	// gRPC Server
	server := grpc_transport.New(app, grpc_transport.Authenticator{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	go func() {
		if err := server.Start(cfg.GRPCAddr); err != nil {
			log.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	// Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP API shutdown failed", zap.Error(err))
	}
	server.Stop()
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP observability shutdown failed", zap.Error(err))
	}

	// Stop background workers
	cancel()

	log.Info("shutdown complete")
}
