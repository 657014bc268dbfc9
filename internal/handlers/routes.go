package handlers

import (
	"galeri/internal/middleware"
	"galeri/internal/services"
	"galeri/pkg/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Deps is everything the API routes need.
type Deps struct {
	Cars        *services.CarService
	Contacts    *services.ContactService
	Auth        *services.AuthService
	Preferences *services.PreferenceService
	Media       media.Store
	Scraper     Scraper
	Log         *zap.Logger
}

// Register mounts the public, visitor and admin routes on router.
func Register(router fiber.Router, d Deps) {
	carHandler := NewCarHandler(d.Cars, d.Log)
	contactHandler := NewContactHandler(d.Contacts, d.Log)
	authHandler := NewAuthHandler(d.Auth, d.Log)

	carHandler.RegisterRoutes(router)
	contactHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router)

	me := router.Group("/me", middleware.Visitor())
	NewPreferenceHandler(d.Preferences, d.Log).RegisterRoutes(me)

	admin := router.Group("/admin", middleware.AuthRequired(d.Auth, d.Log))
	carHandler.RegisterAdminRoutes(admin)
	contactHandler.RegisterAdminRoutes(admin)
	authHandler.RegisterAdminRoutes(admin)
	NewMediaHandler(d.Media, d.Log).RegisterRoutes(admin)
	NewScrapeHandler(d.Scraper, d.Cars, d.Log).RegisterRoutes(admin)
}
