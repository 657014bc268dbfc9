package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/cars/abc/photo.jpg", "cars/abc/photo"},
		{"https://res.cloudinary.com/demo/image/upload/v1/cars/abc/photo.final.webp", "cars/abc/photo.final"},
		{"https://res.cloudinary.com/demo/image/upload/v1/cars/abc/noext", "cars/abc/noext"},
		{"https://res.cloudinary.com/demo/image/upload/v1/cars/x/y.png?_a=BA", "cars/x/y"},
	}
	for _, tt := range tests {
		got, err := PublicIDFromURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{
		"https://img.example.com/cars/abc.jpg",
		"https://res.cloudinary.com/demo/image/upload/v1",
		"",
	} {
		_, err := PublicIDFromURL(bad)
		assert.ErrorIs(t, err, ErrInvalidURL, bad)
	}
}

func TestFolderFor(t *testing.T) {
	assert.Equal(t, "cars/abc", FolderFor("abc"))
	assert.Equal(t, "cars/unassigned", FolderFor(" "))
}

type mockUploadAPI struct {
	mock.Mock
}

func (m *mockUploadAPI) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(ctx, file, params)
	if res := args.Get(0); res != nil {
		return res.(*uploader.UploadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploadAPI) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(ctx, params)
	if res := args.Get(0); res != nil {
		return res.(*uploader.DestroyResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCloudinaryStoreUpload(t *testing.T) {
	m := new(mockUploadAPI)
	store := &CloudinaryStore{api: m, log: zap.NewNop()}
	body := strings.NewReader("jpeg bytes")

	m.On("Upload", mock.Anything, body, uploader.UploadParams{Folder: "cars/car-1", ResourceType: "auto"}).
		Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/cars/car-1/a.jpg", PublicID: "cars/car-1/a"}, nil)

	url, err := store.Upload(context.Background(), "car-1", "a.jpg", body)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/cars/car-1/a.jpg", url)
	m.AssertExpectations(t)
}

func TestCloudinaryStoreUploadAPIError(t *testing.T) {
	m := new(mockUploadAPI)
	store := &CloudinaryStore{api: m, log: zap.NewNop()}

	m.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil)

	_, err := store.Upload(context.Background(), "car-1", "a.txt", strings.NewReader("x"))
	assert.ErrorContains(t, err, "Invalid image file")
}

func TestCloudinaryStoreDelete(t *testing.T) {
	m := new(mockUploadAPI)
	store := &CloudinaryStore{api: m, log: zap.NewNop()}

	m.On("Destroy", mock.Anything, uploader.DestroyParams{PublicID: "cars/car-1/a"}).
		Return(&uploader.DestroyResult{Result: "ok"}, nil)

	require.NoError(t, store.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/v9/cars/car-1/a.jpg"))
	m.AssertExpectations(t)

	assert.ErrorIs(t, store.Delete(context.Background(), "https://example.com/a.jpg"), ErrInvalidURL)

	m.On("Destroy", mock.Anything, uploader.DestroyParams{PublicID: "cars/x/b"}).Return(nil, errors.New("network"))
	assert.ErrorContains(t, store.Delete(context.Background(), "https://res.cloudinary.com/d/image/upload/v1/cars/x/b.png"), "network")
}

func TestDisabledStore(t *testing.T) {
	s := Disabled()
	_, err := s.Upload(context.Background(), "c", "f", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, s.Delete(context.Background(), "u"), ErrDisabled)
}
