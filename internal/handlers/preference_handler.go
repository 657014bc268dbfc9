package handlers

import (
	"galeri/internal/middleware"
	"galeri/internal/models"
	"galeri/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PreferenceHandler serves the visitor's favorites and compare lists.
type PreferenceHandler struct {
	service *services.PreferenceService
	log     *zap.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(service *services.PreferenceService, log *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{service: service, log: log}
}

// RegisterRoutes registers the /me routes. router must run the Visitor middleware.
func (h *PreferenceHandler) RegisterRoutes(router fiber.Router) {
	favorites := router.Group("/favorites")
	favorites.Get("/", h.listCars(models.ListFavorites))
	favorites.Get("/ids", h.listIDs(models.ListFavorites))
	favorites.Get("/:carId", h.HandleIsFavorite)
	favorites.Post("/:carId", h.HandleAddFavorite)
	favorites.Post("/:carId/toggle", h.HandleToggleFavorite)
	favorites.Delete("/:carId", h.HandleRemoveFavorite)

	compare := router.Group("/compare")
	compare.Get("/", h.listCars(models.ListCompare))
	compare.Get("/ids", h.listIDs(models.ListCompare))
	compare.Post("/:carId", h.HandleAddToCompare)
	compare.Post("/:carId/toggle", h.HandleToggleCompare)
	compare.Delete("/:carId", h.HandleRemoveFromCompare)
	compare.Delete("/", h.HandleClearCompare)
}

func (h *PreferenceHandler) listCars(kind models.ListKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cars, err := h.service.ListCars(c.UserContext(), middleware.VisitorID(c), kind)
		if err != nil {
			return respondError(c, h.log, "Could not retrieve "+string(kind), err)
		}
		return c.JSON(cars)
	}
}

func (h *PreferenceHandler) listIDs(kind models.ListKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := h.service.ListIDs(c.UserContext(), middleware.VisitorID(c), kind)
		if err != nil {
			return respondError(c, h.log, "Could not retrieve "+string(kind), err)
		}
		return c.JSON(ids)
	}
}

// HandleIsFavorite reports whether the car is a favorite.
func (h *PreferenceHandler) HandleIsFavorite(c *fiber.Ctx) error {
	ok, err := h.service.Contains(c.UserContext(), middleware.VisitorID(c), models.ListFavorites, param(c, "carId"))
	if err != nil {
		return respondError(c, h.log, "Could not read favorites", err)
	}
	return c.JSON(fiber.Map{"favorite": ok})
}

// HandleAddFavorite adds the car to favorites.
func (h *PreferenceHandler) HandleAddFavorite(c *fiber.Ctx) error {
	if err := h.service.AddFavorite(c.UserContext(), middleware.VisitorID(c), param(c, "carId")); err != nil {
		return respondError(c, h.log, "Could not add favorite", err)
	}
	return c.JSON(fiber.Map{"favorite": true})
}

// HandleToggleFavorite flips the car's favorite flag.
func (h *PreferenceHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	on, err := h.service.ToggleFavorite(c.UserContext(), middleware.VisitorID(c), param(c, "carId"))
	if err != nil {
		return respondError(c, h.log, "Could not toggle favorite", err)
	}
	return c.JSON(fiber.Map{"favorite": on})
}

// HandleRemoveFavorite drops the car from favorites.
func (h *PreferenceHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	if err := h.service.RemoveFavorite(c.UserContext(), middleware.VisitorID(c), param(c, "carId")); err != nil {
		return respondError(c, h.log, "Could not remove favorite", err)
	}
	return c.JSON(fiber.Map{"favorite": false})
}

// HandleAddToCompare adds the car unless the list is full. "added" is false
// when nothing changed.
func (h *PreferenceHandler) HandleAddToCompare(c *fiber.Ctx) error {
	visitorID := middleware.VisitorID(c)
	added, err := h.service.AddToCompare(c.UserContext(), visitorID, param(c, "carId"))
	if err != nil {
		return respondError(c, h.log, "Could not add to compare", err)
	}
	return h.compareState(c, visitorID, fiber.Map{"added": added})
}

// HandleToggleCompare flips the car's membership in the compare list.
func (h *PreferenceHandler) HandleToggleCompare(c *fiber.Ctx) error {
	visitorID := middleware.VisitorID(c)
	on, err := h.service.ToggleCompare(c.UserContext(), visitorID, param(c, "carId"))
	if err != nil {
		return respondError(c, h.log, "Could not toggle compare", err)
	}
	return h.compareState(c, visitorID, fiber.Map{"compared": on})
}

// HandleRemoveFromCompare drops the car from the compare list.
func (h *PreferenceHandler) HandleRemoveFromCompare(c *fiber.Ctx) error {
	visitorID := middleware.VisitorID(c)
	if err := h.service.RemoveFromCompare(c.UserContext(), visitorID, param(c, "carId")); err != nil {
		return respondError(c, h.log, "Could not remove from compare", err)
	}
	return h.compareState(c, visitorID, fiber.Map{"compared": false})
}

// HandleClearCompare empties the compare list.
func (h *PreferenceHandler) HandleClearCompare(c *fiber.Ctx) error {
	if err := h.service.ClearCompare(c.UserContext(), middleware.VisitorID(c)); err != nil {
		return respondError(c, h.log, "Could not clear compare", err)
	}
	return c.JSON(fiber.Map{"ids": []string{}, "max": models.MaxCompare})
}

func (h *PreferenceHandler) compareState(c *fiber.Ctx, visitorID string, body fiber.Map) error {
	ids, err := h.service.ListIDs(c.UserContext(), visitorID, models.ListCompare)
	if err != nil {
		return respondError(c, h.log, "Could not read compare list", err)
	}
	body["ids"] = ids
	body["max"] = models.MaxCompare
	return c.JSON(body)
}
