package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/eternalinsky-max/proponujeprace/internal/antispam"
	"github.com/eternalinsky-max/proponujeprace/internal/auth"
	"github.com/eternalinsky-max/proponujeprace/internal/config"
	"github.com/eternalinsky-max/proponujeprace/internal/event"
	handler "github.com/eternalinsky-max/proponujeprace/internal/handler/http"
	"github.com/eternalinsky-max/proponujeprace/internal/mailer"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	"github.com/eternalinsky-max/proponujeprace/internal/service"
	"github.com/eternalinsky-max/proponujeprace/migrations"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	"github.com/eternalinsky-max/proponujeprace/pkg/health"
	"github.com/eternalinsky-max/proponujeprace/pkg/httpclient"
	pkgkafka "github.com/eternalinsky-max/proponujeprace/pkg/kafka"
	"github.com/eternalinsky-max/proponujeprace/pkg/middleware"
	"github.com/eternalinsky-max/proponujeprace/pkg/tracing"
)

// App wires together all dependencies and runs the job board API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "jobboard-api",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "jobboard")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Redis backs the contact form rate limiter, which fails open, so an
	// unreachable Redis degrades anti-spam instead of blocking startup.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unreachable, contact rate limiting fails open",
			slog.String("error", err.Error()),
		)
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	contactWindow, err := time.ParseDuration(cfg.ContactRateWindow)
	if err != nil {
		return nil, fmt.Errorf("parse contact rate window %q: %w", cfg.ContactRateWindow, err)
	}

	// The mail provider sits behind a circuit breaker so a flapping provider
	// fails fast instead of tying up contact form requests.
	mailClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("mail-provider"),
		logger,
	)
	mail := mailer.New(mailClient, cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom, logger)

	// Build the dependency graph.
	verifier := auth.NewVerifier(cfg.JWTSecret)
	reviewRepo := postgres.NewReviewRepository(pool)
	targetRepo := postgres.NewTargetRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	contactLogRepo := postgres.NewContactLogRepository(pool)
	eventProducer := event.NewProducer(producer, logger)
	limiter := antispam.NewLimiter(redisClient, cfg.ContactRateLimit, contactWindow, logger)

	reviewService := service.NewReviewService(pool, reviewRepo, targetRepo, eventProducer, logger)
	jobService := service.NewJobService(pool, jobRepo, companyRepo, reviewRepo, eventProducer, logger)
	userService := service.NewUserService(userRepo, reviewRepo, eventProducer, logger)
	companyService := service.NewCompanyService(companyRepo, reviewRepo, logger)
	contactService := service.NewContactService(limiter, mail, contactLogRepo, eventProducer, cfg.ContactRecipient, logger)
	contactLogService := service.NewContactLogService(contactLogRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Reviews:     reviewService,
		Jobs:        jobService,
		Users:       userService,
		Companies:   companyService,
		Contact:     contactService,
		ContactLogs: contactLogService,

		TokenValidator: verifier.Verify,
		Health:         healthHandler,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		CronSecret: cfg.CronSecret,

		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,

		Logger: logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client and PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 4. Close Redis client and PostgreSQL pool.
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
