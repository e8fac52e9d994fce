package middleware

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGenerated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		assert.NotEmpty(t, rid)
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDHeader))
}

func TestLoggerDoesNotBreakRequests(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(slog.Default()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPrometheusCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/api/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 3; i++ {
		_, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
		require.NoError(t, err)
	}

	count := testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/api/health", "200"))
	assert.Equal(t, 3.0, count)
}

func TestPrometheusSkipsMetricsPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendString("metrics") })

	_, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	count := testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/metrics", "200"))
	assert.Equal(t, 0.0, count)
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
