package handlers

import (
	"galeri/internal/models"
	"galeri/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContactHandler handles HTTP requests for inquiries.
type ContactHandler struct {
	service *services.ContactService
	log     *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

// RegisterRoutes registers the public contact form route.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contacts", h.HandleSubmitContact)
}

// RegisterAdminRoutes registers the inquiry inbox routes.
func (h *ContactHandler) RegisterAdminRoutes(router fiber.Router) {
	contactRoutes := router.Group("/contacts")
	contactRoutes.Get("/", h.HandleGetContacts)
	contactRoutes.Delete("/:id", h.HandleDeleteContact)
}

// HandleSubmitContact stores an inquiry from the contact form.
func (h *ContactHandler) HandleSubmitContact(c *fiber.Ctx) error {
	var contact models.Contact
	if err := c.BodyParser(&contact); err != nil {
		return badBody(c, h.log, err)
	}
	if err := h.service.SubmitContact(c.UserContext(), &contact); err != nil {
		return respondError(c, h.log, "Could not submit contact", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Contact submitted successfully",
		"contact": contact,
	})
}

// HandleGetContacts lists every inquiry.
func (h *ContactHandler) HandleGetContacts(c *fiber.Ctx) error {
	contacts, err := h.service.GetAllContacts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve contacts", err)
	}
	return c.JSON(contacts)
}

// HandleDeleteContact removes an inquiry.
func (h *ContactHandler) HandleDeleteContact(c *fiber.Ctx) error {
	id := param(c, "id")
	if err := h.service.DeleteContact(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete contact", err)
	}
	return c.JSON(fiber.Map{
		"message": "Contact deleted successfully",
		"id":      id,
	})
}
