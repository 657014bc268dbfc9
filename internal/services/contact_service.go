package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"galeri/internal/models"
	"galeri/internal/repositories"
	"galeri/internal/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ContactService handles inquiries sent through the contact form.
type ContactService struct {
	repo      repositories.ContactRepository
	cars      repositories.CarRepository
	publisher EventPublisher
	validate  *validator.Validate
	log       *zap.Logger
}

// NewContactService creates a new ContactService. publisher may be nil.
func NewContactService(repo repositories.ContactRepository, cars repositories.CarRepository, publisher EventPublisher, log *zap.Logger) *ContactService {
	return &ContactService{
		repo:      repo,
		cars:      cars,
		publisher: publisher,
		validate:  validation.New(),
		log:       log,
	}
}

// SubmitContact validates and stores an inquiry. A carId must reference an
// existing listing.
func (s *ContactService) SubmitContact(ctx context.Context, contact *models.Contact) error {
	contact.ID = ""
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Message = strings.TrimSpace(contact.Message)
	contact.CarID = strings.TrimSpace(contact.CarID)

	if err := s.validate.Struct(contact); err != nil {
		return newValidationError(err)
	}

	if contact.CarID != "" {
		if _, err := s.cars.GetByID(ctx, contact.CarID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fieldError("carId", fmt.Sprintf("Car '%s' does not exist", contact.CarID))
			}
			return err
		}
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return fmt.Errorf("failed to store contact: %w", err)
	}

	s.log.Info("Contact submitted", zap.String("id", contact.ID), zap.String("car_id", contact.CarID))
	publishEvent(s.log, s.publisher, EventContactSubmitted, contact.ID, contact)
	return nil
}

// GetAllContacts returns inquiries, newest first.
func (s *ContactService) GetAllContacts(ctx context.Context) ([]models.Contact, error) {
	return s.repo.GetAll(ctx)
}

// DeleteContact removes an inquiry.
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
