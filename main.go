package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"galeri/internal/config"
	"galeri/internal/database"
	"galeri/internal/handlers"
	"galeri/internal/logger"
	"galeri/internal/scraper"
	"galeri/internal/services"
	"galeri/pkg/media"
	"galeri/pkg/rabbitmq"
)

// App is the wired HTTP server with the resources it owns.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService

	stores *database.Stores
	mq     *rabbitmq.Client
	log    *zap.Logger
}

// NewApp opens the configured store, optional event broker and media store,
// and mounts every route.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	stores, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{stores: stores, log: log}

	// --- Events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			_ = stores.Close(ctx)
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.mq = mqClient
		publisher = mqClient
	} else {
		log.Info("RABBITMQ_URL not set, events are disabled")
	}

	// --- Media ---
	mediaStore := media.Disabled()
	if cfg.Cloudinary.Enabled() {
		cld, err := media.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, log)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		mediaStore = cld
	} else {
		log.Info("Cloudinary credentials not set, uploads are disabled")
	}

	// --- Services ---
	carService := services.NewCarService(stores.Cars, stores.Contacts, publisher, log)
	contactService := services.NewContactService(stores.Contacts, stores.Cars, publisher, log)
	authService := services.NewAuthService(stores.Users, cfg.JWTSecret, cfg.TokenTTL, log)
	preferenceService := services.NewPreferenceService(stores.Preferences, carService)
	a.Auth = authService

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	arabam := scraper.New(scraper.Config{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.Scraper.Timeout,
		Delay:     cfg.Scraper.Delay,
		MaxPages:  cfg.Scraper.MaxPages,
	}, log.Named("scraper"))

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		AppName:   "galeri",
		BodyLimit: 20 * 1024 * 1024,
		Immutable: true,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Visitor-ID",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if a.mq != nil {
			events = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": cfg.DBDriver,
			"events":   events,
		})
	})

	handlers.Register(app.Group("/api/v1"), handlers.Deps{
		Cars:        carService,
		Contacts:    contactService,
		Auth:        authService,
		Preferences: preferenceService,
		Media:       mediaStore,
		Scraper:     arabam,
		Log:         log,
	})

	a.Fiber = app
	return a, nil
}

// StartConsumer logs the events published by this and other instances.
func (a *App) StartConsumer() error {
	if a.mq == nil {
		return nil
	}
	return a.mq.Consume(handleEvent(a.log))
}

// Close releases the broker and store connections.
func (a *App) Close(ctx context.Context) {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.log.Warn("Error closing RabbitMQ client", zap.Error(err))
		}
	}
	if err := a.stores.Close(ctx); err != nil {
		a.log.Warn("Error closing store", zap.Error(err))
	}
}

// handleEvent records inquiries so staff can follow up. Other events are
// only traced.
func handleEvent(log *zap.Logger) func(rabbitmq.Event) error {
	return func(event rabbitmq.Event) error {
		if event.Type != services.EventContactSubmitted {
			log.Debug("Received event", zap.String("type", event.Type), zap.String("id", event.ID))
			return nil
		}
		data := cast.ToStringMap(event.Data)
		if len(data) == 0 {
			return fmt.Errorf("event %s %s has no payload", event.Type, event.ID)
		}
		log.Info("New contact inquiry",
			zap.String("id", event.ID),
			zap.String("name", cast.ToString(data["name"])),
			zap.String("email", cast.ToString(data["email"])),
			zap.String("phone", cast.ToString(data["phone"])),
			zap.String("car_id", cast.ToString(data["carId"])),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := NewApp(ctx, cfg, zlog)
	cancel()
	if err != nil {
		zlog.Fatal("Failed to create app", zap.Error(err))
	}

	if err := app.StartConsumer(); err != nil {
		zlog.Error("Failed to start RabbitMQ consumer", zap.Error(err))
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("Starting server", zap.String("port", cfg.AppPort), zap.String("db_driver", cfg.DBDriver))
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	zlog.Info("Shutting down server...")

	if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.Close(ctx)
	zlog.Info("Server gracefully stopped")
}
