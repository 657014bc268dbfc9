package handlers

import (
	"mime/multipart"

	"galeri/pkg/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MediaHandler forwards car photos to the media store.
type MediaHandler struct {
	store media.Store
	log   *zap.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(store media.Store, log *zap.Logger) *MediaHandler {
	return &MediaHandler{store: store, log: log}
}

// RegisterRoutes registers the upload routes. router must be behind AuthRequired.
func (h *MediaHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/uploads", h.HandleUpload)
	router.Delete("/uploads", h.HandleDelete)
}

// HandleUpload stores every part named "file" or "files" and returns their URLs.
func (h *MediaHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badBody(c, h.log, err)
	}

	var files []*multipart.FileHeader
	files = append(files, form.File["file"]...)
	files = append(files, form.File["files"]...)
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file uploaded",
		})
	}

	var carID string
	if v := form.Value["carId"]; len(v) > 0 {
		carID = v[0]
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.upload(c, carID, fh)
		if err != nil {
			return respondError(c, h.log, "Upload failed", err)
		}
		urls = append(urls, url)
	}

	h.log.Info("Images uploaded", zap.String("car_id", carID), zap.Int("count", len(urls)))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Upload successful",
		"urls":    urls,
	})
}

func (h *MediaHandler) upload(c *fiber.Ctx, carID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.store.Upload(c.UserContext(), carID, fh.Filename, f)
}

// HandleDelete removes the image at ?url=.
func (h *MediaHandler) HandleDelete(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'url' is required",
		})
	}
	if err := h.store.Delete(c.UserContext(), url); err != nil {
		return respondError(c, h.log, "Delete failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Image deleted successfully",
	})
}
