package handlers

import (
	"context"

	"galeri/internal/models"
	"galeri/internal/scraper"
	"galeri/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Scraper is satisfied by *scraper.Scraper.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Result, error)
}

// ScrapeHandler imports listings from a dealer gallery on arabam.com.
type ScrapeHandler struct {
	scraper Scraper
	cars    *services.CarService
	log     *zap.Logger
}

// NewScrapeHandler creates a new ScrapeHandler.
func NewScrapeHandler(s Scraper, cars *services.CarService, log *zap.Logger) *ScrapeHandler {
	return &ScrapeHandler{scraper: s, cars: cars, log: log}
}

// RegisterRoutes registers the scrape route. router must be behind AuthRequired.
func (h *ScrapeHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/scrape", h.HandleScrape)
}

// ScrapeRequest is the body of a scrape call. With Import set the scraped
// cars are stored right away.
type ScrapeRequest struct {
	URL    string `json:"url"`
	Import bool   `json:"import"`
}

// ScrapeResponse reports what was found and, optionally, what was stored.
type ScrapeResponse struct {
	Source  string                `json:"source"`
	Count   int                   `json:"count"`
	Cars    []models.BulkCarInput `json:"cars"`
	Skipped []string              `json:"skipped"`
	Import  *models.BulkResult    `json:"import,omitempty"`
}

// HandleScrape fetches the gallery and returns the parsed cars.
func (h *ScrapeHandler) HandleScrape(c *fiber.Ctx) error {
	var req ScrapeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.log, err)
	}

	result, err := h.scraper.Scrape(c.UserContext(), req.URL)
	if err != nil {
		return respondError(c, h.log, "Scraping failed", err)
	}

	resp := ScrapeResponse{
		Source:  result.Source,
		Count:   result.Count,
		Cars:    result.Cars,
		Skipped: result.Skipped,
	}
	if req.Import && len(result.Cars) > 0 {
		imported := h.cars.BulkImport(c.UserContext(), result.Cars)
		resp.Import = &imported
	}
	return c.JSON(resp)
}
