// Package media stores listing photos with Cloudinary.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrInvalidURL is returned when a URL does not point at an uploaded asset.
	ErrInvalidURL = errors.New("invalid media URL")
	// ErrDisabled is returned when no media store is configured.
	ErrDisabled = errors.New("media storage is not configured")
)

// Store uploads and deletes car images.
type Store interface {
	// Upload stores r under the car's folder and returns its public HTTPS URL.
	Upload(ctx context.Context, carID, filename string, r io.Reader) (string, error)
	// Delete removes the asset behind url.
	Delete(ctx context.Context, url string) error
}

// FolderFor is the folder a car's images are uploaded to.
func FolderFor(carID string) string {
	carID = strings.Trim(strings.TrimSpace(carID), "/")
	if carID == "" {
		carID = "unassigned"
	}
	return "cars/" + carID
}

// PublicIDFromURL extracts the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/cars/abc/photo.jpg,
// which yields "cars/abc/photo". The segment after "upload" is the version.
func PublicIDFromURL(raw string) (string, error) {
	parts := strings.Split(raw, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}
	if uploadIndex == -1 || uploadIndex+2 >= len(parts) {
		return "", ErrInvalidURL
	}

	withExt := strings.Join(parts[uploadIndex+2:], "/")
	if q := strings.IndexAny(withExt, "?#"); q >= 0 {
		withExt = withExt[:q]
	}
	publicID := strings.TrimSuffix(withExt, path.Ext(withExt))
	if publicID == "" {
		return "", ErrInvalidURL
	}
	return publicID, nil
}

// disabledStore rejects every call.
type disabledStore struct{}

// Disabled returns a Store that fails with ErrDisabled.
func Disabled() Store { return disabledStore{} }

func (disabledStore) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrDisabled
}

func (disabledStore) Delete(context.Context, string) error { return ErrDisabled }
