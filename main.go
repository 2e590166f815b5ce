package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"retaildash/apiclient"
	"retaildash/config"
	"retaildash/database"
	"retaildash/events"
	"retaildash/handlers"
	"retaildash/insights"
	"retaildash/logger"
	"retaildash/metrics"
	"retaildash/middleware"
	"retaildash/routes"
	"retaildash/session"
	"retaildash/templates"
	"retaildash/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open session storage", zap.String("store", cfg.Session.Store), zap.Error(err))
	}
	defer closeStorage()

	signer, err := session.NewCookieSigner(cfg.Session.Secret)
	if err != nil {
		zlog.Fatal("Failed to create cookie signer", zap.Error(err))
	}
	sealer, err := session.NewSealer(cfg.Session.Secret)
	if err != nil {
		zlog.Fatal("Failed to create token sealer", zap.Error(err))
	}

	rec := metrics.New()
	api := apiclient.New(cfg.Backend.URL, cfg.Backend.Timeout,
		apiclient.WithLogger(zlog), apiclient.WithMetrics(rec))

	regCfg := views.RegistryConfig{
		API:         api,
		Bus:         events.NewBus(zlog),
		Log:         zlog,
		Metrics:     rec,
		IdleTimeout: cfg.App.IdleTimeout,
	}
	if cfg.AIEnabled() {
		gemini, err := insights.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, zlog)
		if err != nil {
			zlog.Warn("Reorder summaries disabled", zap.Error(err))
		} else {
			defer gemini.Close()
			regCfg.Insights = gemini
		}
	}

	h := &handlers.Handlers{
		Auth:     api,
		Sessions: session.NewManager(storage, sealer),
		Cookies: middleware.Cookies{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.MaxAge,
			Signer: signer,
		},
		Dashboards: views.NewRegistry(regCfg),
		Log:        zlog,
	}

	app := fiber.New(fiber.Config{
		AppName:               "retaildash",
		Views:                 templates.NewEngine(),
		DisableStartupMessage: cfg.IsProduction(),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.FiberMiddleware(zlog))

	routes.SetupRoutes(app, h, rec)

	go func() {
		<-ctx.Done()
		zlog.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("Server forced to shutdown", zap.Error(err))
		}
	}()

	zlog.Info("Server starting",
		zap.String("addr", cfg.App.ListenAddr),
		zap.String("backend", cfg.Backend.URL),
		zap.String("session_store", cfg.Session.Store),
		zap.Bool("insights", regCfg.Insights != nil))
	if err := app.Listen(cfg.App.ListenAddr); err != nil {
		zlog.Error("Server stopped", zap.Error(err))
		os.Exit(1)
	}
	zlog.Info("Server exited gracefully")
}

// openStorage builds the session storage selected by SESSION_STORE.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (session.Storage, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rs, err := session.NewRedisStorage(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.MaxAge)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Sessions stored in Redis", zap.String("addr", cfg.Redis.Addr))
		return rs, func() { _ = rs.Close() }, nil
	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.DB.URL, log)
		if err != nil {
			return nil, nil, err
		}
		ps := database.NewPostgresStorage(pool)
		if err := ps.EnsureSchema(ctx); err != nil {
			database.Close(pool, log)
			return nil, nil, err
		}
		return ps, func() { database.Close(pool, log) }, nil
	default:
		log.Warn("Sessions are kept in memory and are lost on restart")
		return session.NewMemoryStorage(), func() {}, nil
	}
}
