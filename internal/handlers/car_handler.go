package handlers

import (
	"bytes"
	"net/url"
	"strings"

	"galeri/internal/models"
	"galeri/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CarHandler handles HTTP requests for car listings.
type CarHandler struct {
	service *services.CarService
	log     *zap.Logger
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *services.CarService, log *zap.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *CarHandler) RegisterRoutes(router fiber.Router) {
	carRoutes := router.Group("/cars")
	carRoutes.Get("/", h.HandleGetCars)
	carRoutes.Get("/featured", h.HandleGetFeaturedCars)
	carRoutes.Get("/sold", h.HandleGetSoldCars)
	carRoutes.Get("/filter", h.HandleFilterCars)
	carRoutes.Get("/brands", h.HandleGetBrands)
	carRoutes.Get("/brands/:brand/models", h.HandleGetModels)
	carRoutes.Get("/compare", h.HandleCompareCars)
	carRoutes.Get("/:id", h.HandleGetCarByID)
}

// RegisterAdminRoutes registers the inventory management routes. router
// must already be behind AuthRequired.
func (h *CarHandler) RegisterAdminRoutes(router fiber.Router) {
	carRoutes := router.Group("/cars")
	carRoutes.Post("/", h.HandleCreateCar)
	carRoutes.Post("/bulk", h.HandleBulkImport)
	carRoutes.Put("/:id", h.HandleUpdateCar)
	carRoutes.Patch("/:id/status", h.HandleUpdateCarStatus)
	carRoutes.Delete("/:id", h.HandleDeleteCar)
	router.Get("/dashboard", h.HandleDashboard)
}

// HandleGetCars retrieves every listing.
func (h *CarHandler) HandleGetCars(c *fiber.Ctx) error {
	cars, err := h.service.GetAllCars(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve cars", err)
	}
	return c.JSON(cars)
}

// HandleGetFeaturedCars retrieves the homepage showcase.
func (h *CarHandler) HandleGetFeaturedCars(c *fiber.Ctx) error {
	cars, err := h.service.GetFeaturedCars(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve featured cars", err)
	}
	return c.JSON(cars)
}

// HandleGetSoldCars retrieves the sold archive.
func (h *CarHandler) HandleGetSoldCars(c *fiber.Ctx) error {
	cars, err := h.service.GetSoldCars(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve sold cars", err)
	}
	return c.JSON(cars)
}

// HandleFilterCars applies the listing filters from the query string.
func (h *CarHandler) HandleFilterCars(c *fiber.Ctx) error {
	var opts models.FilterOptions
	if err := c.QueryParser(&opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filter parameters",
			"error":   err.Error(),
		})
	}

	cars, err := h.service.FilterCars(c.UserContext(), opts)
	if err != nil {
		return respondError(c, h.log, "Could not filter cars", err)
	}
	return c.JSON(cars)
}

// HandleGetBrands lists the brands in stock.
func (h *CarHandler) HandleGetBrands(c *fiber.Ctx) error {
	brands, err := h.service.GetUniqueBrands(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve brands", err)
	}
	return c.JSON(brands)
}

// HandleGetModels lists the models of one brand.
func (h *CarHandler) HandleGetModels(c *fiber.Ctx) error {
	brand := param(c, "brand")
	if unescaped, err := url.PathUnescape(brand); err == nil {
		brand = unescaped
	}
	carModels, err := h.service.GetModelsByBrand(c.UserContext(), brand)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve models", err)
	}
	return c.JSON(carModels)
}

// HandleCompareCars resolves a comma separated id list, e.g. ?ids=a,b,c.
func (h *CarHandler) HandleCompareCars(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	cars, err := h.service.GetCarsByIDs(c.UserContext(), ids)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve cars", err)
	}
	return c.JSON(cars)
}

// HandleGetCarByID retrieves a single car by its ID.
func (h *CarHandler) HandleGetCarByID(c *fiber.Ctx) error {
	car, err := h.service.GetCarByID(c.UserContext(), param(c, "id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve car", err)
	}
	return c.JSON(car)
}

// HandleCreateCar stores a new listing.
func (h *CarHandler) HandleCreateCar(c *fiber.Ctx) error {
	var car models.Car
	if err := c.BodyParser(&car); err != nil {
		return badBody(c, h.log, err)
	}
	if err := h.service.CreateCar(c.UserContext(), &car); err != nil {
		return respondError(c, h.log, "Could not create car", err)
	}
	return c.Status(fiber.StatusCreated).JSON(car)
}

// HandleUpdateCar replaces a listing.
func (h *CarHandler) HandleUpdateCar(c *fiber.Ctx) error {
	var car models.Car
	if err := c.BodyParser(&car); err != nil {
		return badBody(c, h.log, err)
	}
	if err := h.service.UpdateCar(c.UserContext(), param(c, "id"), &car); err != nil {
		return respondError(c, h.log, "Could not update car", err)
	}
	return c.JSON(car)
}

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status models.CarStatus `json:"status"`
}

// HandleUpdateCarStatus marks a car available, reserved or sold.
func (h *CarHandler) HandleUpdateCarStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.log, err)
	}
	car, err := h.service.UpdateCarStatus(c.UserContext(), param(c, "id"), req.Status)
	if err != nil {
		return respondError(c, h.log, "Could not update car status", err)
	}
	return c.JSON(car)
}

// HandleDeleteCar removes a listing.
func (h *CarHandler) HandleDeleteCar(c *fiber.Ctx) error {
	id := param(c, "id")
	if err := h.service.DeleteCar(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete car", err)
	}
	return c.JSON(fiber.Map{
		"message": "Car deleted successfully",
		"id":      id,
	})
}

// BulkRequest wraps a bulk import. A bare JSON array is accepted too.
type BulkRequest struct {
	Cars []models.BulkCarInput `json:"cars"`
}

// HandleBulkImport stores many listings at once.
func (h *CarHandler) HandleBulkImport(c *fiber.Ctx) error {
	var req BulkRequest
	var err error
	if bytes.HasPrefix(bytes.TrimSpace(c.Body()), []byte("[")) {
		err = c.BodyParser(&req.Cars)
	} else {
		err = c.BodyParser(&req)
	}
	if err != nil {
		return badBody(c, h.log, err)
	}
	if len(req.Cars) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No cars to import",
		})
	}

	result := h.service.BulkImport(c.UserContext(), req.Cars)
	return c.JSON(result)
}

// HandleDashboard returns the back-office summary.
func (h *CarHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.service.DashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not compute dashboard", err)
	}
	return c.JSON(stats)
}
