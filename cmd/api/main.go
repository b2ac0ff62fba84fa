package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cozyren/catalog-api/internal/application/auth"
	"github.com/cozyren/catalog-api/internal/application/ingest"
	"github.com/cozyren/catalog-api/internal/application/usecase"
	"github.com/cozyren/catalog-api/internal/infrastructure/cache"
	"github.com/cozyren/catalog-api/internal/infrastructure/metrics"
	infrapdf "github.com/cozyren/catalog-api/internal/infrastructure/pdf"
	"github.com/cozyren/catalog-api/internal/infrastructure/postgres"
	"github.com/cozyren/catalog-api/internal/infrastructure/storage"
	httpRouter "github.com/cozyren/catalog-api/internal/interfaces/http"
	"github.com/cozyren/catalog-api/pkg/config"
	"github.com/cozyren/catalog-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("database migration")
		}
		log.Info().Msg("database schema up to date")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	syncLogRepo := postgres.NewSyncLogRepository(pool)

	// Listing cache: Redis when configured, otherwise every read hits the database.
	var listingCache usecase.ListingCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, listing cache disabled")
		} else {
			defer rc.Close()
			listingCache = rc
		}
	}

	var archive httpRouter.PayloadArchiver = storage.Noop{}
	if cfg.Archive.Enabled {
		client, err := storage.NewClient(cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("object storage client")
		}
		a := storage.NewArchive(client, cfg.Archive.Bucket)
		if err := a.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Archive.Bucket).Msg("object storage bucket")
		}
		archive = a
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	orchestrator := ingest.NewOrchestrator(
		postgres.NewBatchRunner(pool),
		syncLogRepo,
		ingest.WithInvalidator(listingCache),
		ingest.WithRecorder(appMetrics),
		ingest.WithLogger(log.Named("ingest")),
	)

	authUC, err := auth.NewAuthUseCase(
		auth.Admin{
			Username:     cfg.Admin.Username,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("admin credentials")
	}

	pdfGenerator := infrapdf.NewPriceListGenerator(cfg.App.Name, cfg.PDF.FontPath)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Named("http")))
	app.Use(httpRouter.Metrics(appMetrics))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Catalog API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(productRepo, categoryRepo, brandRepo, listingCache),
		CategoryUC:     usecase.NewCategoryUseCase(categoryRepo, productRepo, listingCache),
		BrandUC:        usecase.NewBrandUseCase(brandRepo, productRepo, listingCache),
		SyncUC:         usecase.NewSyncUseCase(syncLogRepo),
		PriceListUC:    usecase.NewPriceListUseCase(productRepo, pdfGenerator),
		AuthUC:         authUC,
		Ingester:       orchestrator,
		Archive:        archive,
		DB:             postgres.NewHealth(pool),
		WebhookToken:   cfg.Webhook.Token,
		LoginPerMinute: cfg.Admin.LoginPerMinute,
		LoginBurst:     cfg.Admin.LoginBurst,
		Gatherer:       registry,
		Log:            log.Named("webhook"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

func migrateUp(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
