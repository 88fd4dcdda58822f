package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/tinyurl/internal/app/repository"
	"github.com/sifan077/tinyurl/internal/app/service"
	"github.com/sifan077/tinyurl/internal/http/middleware"
	"github.com/sifan077/tinyurl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := service.NewLinkService(service.LinkServiceDeps{
		Links: repository.NewLinkRepository(testutil.NewSQLite(t)),
	})
	return New(Dependencies{Links: svc, BaseURL: "http://localhost:3000", Version: "1.0"})
}

func TestServer_MiddlewareAndRoutes(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/links", strings.NewReader(`{"url":"https://example.com","code":"ABC123"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/ABC123", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com", resp.Header.Get(fiber.HeaderLocation))
}

func TestServer_ProbesWinOverCodeRoute(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}
