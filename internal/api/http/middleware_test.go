package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-kit/user-service/internal/observability"
)

// Handlers hand c.UserContext() to services, so the request timeout must be
// installed on that context to actually bound downstream I/O.
func TestRequestTimeoutBoundsHandlerContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), time.Second)

	var sawDeadline bool
	app.Get("/ctx", func(c *fiber.Ctx) error {
		_, sawDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ctx", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, sawDeadline, "user context carries the request deadline")
}

func TestRequestTimeoutDisabledWhenZero(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	var sawDeadline bool
	app.Get("/ctx", func(c *fiber.Ctx) error {
		_, sawDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ctx", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.False(t, sawDeadline)
}
