package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"galeri/internal/middleware"
	"galeri/internal/repositories"
	"galeri/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func visitorApp() *fiber.App {
	app := fiber.New()
	app.Get("/", middleware.Visitor(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.VisitorID(c))
	})
	return app
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestVisitor(t *testing.T) {
	app := visitorApp()

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.VisitorHeader, "from-header")
		req.Header.Set("Cookie", "visitor_id=from-cookie")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, "from-header", body(t, resp))
		assert.Empty(t, resp.Cookies())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Cookie", "visitor_id=from-cookie")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", body(t, resp))
	})

	t.Run("new visitor", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		cookies := resp.Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.VisitorCookie, cookies[0].Name)
		assert.Equal(t, cookies[0].Value, body(t, resp))
	})

	t.Run("too long", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.VisitorHeader, strings.Repeat("a", 65))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	const secret = "test_jwt_secret"
	authService := services.NewAuthService(repositories.NewMemoryUserRepository(), secret, 0, zap.NewNop())

	app := fiber.New()
	app.Get("/admin", middleware.AuthRequired(authService, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("email").(string))
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "admin@galeri.test",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"bearer", "Bearer " + signed, "", http.StatusOK},
		{"cookie", "", signed, http.StatusOK},
		{"header beats bad cookie", "Bearer " + signed, "junk", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + signed, "", http.StatusUnauthorized},
		{"bad token", "Bearer junk", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", middleware.TokenCookie+"="+tt.cookie)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin@galeri.test", body(t, resp))
			}
		})
	}
}
