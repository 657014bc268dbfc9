package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// uploadAPI is the part of the Cloudinary upload API the store uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore is a Store backed by Cloudinary.
type CloudinaryStore struct {
	api uploadAPI
	log *zap.Logger
}

// NewCloudinaryStore authenticates with the given credentials.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string, log *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryStore{api: &cld.Upload, log: log}, nil
}

// Upload sends r to the car's folder. The resource type is detected by Cloudinary.
func (s *CloudinaryStore) Upload(ctx context.Context, carID, filename string, r io.Reader) (string, error) {
	folder := FolderFor(carID)
	res, err := s.api.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", filename, res.Error.Message)
	}

	s.log.Info("Uploaded image",
		zap.String("folder", folder),
		zap.String("public_id", res.PublicID),
		zap.String("filename", filename))
	return res.SecureURL, nil
}

// Delete destroys the asset behind url.
func (s *CloudinaryStore) Delete(ctx context.Context, url string) error {
	publicID, err := PublicIDFromURL(url)
	if err != nil {
		return err
	}

	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete %s: %w", publicID, errors.New(res.Error.Message))
	}

	s.log.Info("Deleted image", zap.String("public_id", publicID), zap.String("result", res.Result))
	return nil
}
