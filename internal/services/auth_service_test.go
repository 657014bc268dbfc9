package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"galeri/internal/models"
	"galeri/internal/repositories"
	"galeri/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0, zap.NewNop())

	user := &models.User{Name: "Admin", Email: " Admin@Galeri.test ", Password: "password123"}

	mockRepo.On("GetByEmail", ctx, "admin@galeri.test").Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterAdmin(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "admin@galeri.test", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByEmail", ctx, "admin@galeri.test").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterAdmin(ctx, &models.User{Email: "admin@galeri.test", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Contains(t, err.Error(), "email 'admin@galeri.test' already registered")

	// Unique index race
	mockRepo.On("GetByEmail", ctx, "race@galeri.test").Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(fmt.Errorf("x: %w", repositories.ErrDuplicate)).Once()
	err = authService.RegisterAdmin(ctx, &models.User{Email: "race@galeri.test", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrConflict)

	// Short password never reaches the repository
	err = authService.RegisterAdmin(ctx, &models.User{Email: "x@galeri.test", Password: "123"})
	assert.ErrorIs(t, err, services.ErrValidation)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0, zap.NewNop())

	// Nothing configured
	require.NoError(t, authService.EnsureAdmin(ctx, "", ""))

	// Already seeded
	mockRepo.On("GetByEmail", ctx, "root@galeri.test").Return(&models.User{ID: "1"}, nil).Once()
	require.NoError(t, authService.EnsureAdmin(ctx, "root@galeri.test", "password123"))

	// First start
	mockRepo.On("GetByEmail", ctx, "root@galeri.test").Return(nil, notFound("user")).Twice()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()
	require.NoError(t, authService.EnsureAdmin(ctx, "root@galeri.test", "password123"))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 2*time.Hour, zap.NewNop())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "admin@galeri.test",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	token, err := authService.Login(ctx, "Admin@Galeri.test", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64(2*time.Hour/time.Second), exp-iat)

	// Wrong password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.Login(ctx, user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown user gets the same error
	mockRepo.On("GetByEmail", ctx, "nobody@galeri.test").Return(nil, notFound("user")).Once()
	_, err = authService.Login(ctx, "nobody@galeri.test", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUnknownEmailCostsAHashCompare(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "admin@galeri.test", Password: string(hashedPassword)}
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	mockRepo.On("GetByEmail", ctx, "nobody@galeri.test").Return(nil, notFound("user"))

	// Warm up so one-time setup does not skew either side.
	_, _ = authService.Login(ctx, "nobody@galeri.test", "x")

	start := time.Now()
	_, err := authService.Login(ctx, user.Email, "wrongpassword")
	wrongPassword := time.Since(start)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	start = time.Now()
	_, err = authService.Login(ctx, "nobody@galeri.test", "wrongpassword")
	unknownEmail := time.Since(start)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	assert.GreaterOrEqual(t, int64(unknownEmail), int64(wrongPassword/4),
		"unknown email took %s, wrong password took %s", unknownEmail, wrongPassword)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, 0, zap.NewNop())
	assert.Equal(t, services.DefaultTokenTTL, authService.TokenTTL())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"email":   "admin@galeri.test",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "admin@galeri.test", claims["email"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	otherSecret, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(otherSecret)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_CurrentAdmin(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0, zap.NewNop())

	mockRepo.On("GetByID", ctx, "user-1").Return(&models.User{ID: "user-1", Email: "a@b.c", Password: "hash"}, nil).Once()
	user, err := authService.CurrentAdmin(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, user.Password)
}
