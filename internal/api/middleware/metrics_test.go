package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/metrics"
)

func counterValue(t *testing.T, method, path, status string) float64 {
	t.Helper()

	c, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(method, path, status)
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestMetrics_RecordsRequestCounter(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/items")

	before := counterValue(t, "GET", "/api/v1/items", "200")

	handler := Metrics()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	require.NoError(t, handler(c))

	assert.Equal(t, before+1, counterValue(t, "GET", "/api/v1/items", "200"))
}

func TestMetrics_SkipsProbePaths(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/healthz")

	before := counterValue(t, "GET", "/healthz", "200")

	handler := Metrics()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	require.NoError(t, handler(c))

	assert.Equal(t, before, counterValue(t, "GET", "/healthz", "200"),
		"probe paths must not inflate request counters")
	assert.Equal(t, 1.0, gaugeValue(t, metrics.HealthzUp))
}

func TestMetrics_HealthGaugeTracksFailure(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/readyz")

	handler := Metrics()(func(c echo.Context) error {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	})
	require.NoError(t, handler(c))

	assert.Equal(t, 0.0, gaugeValue(t, metrics.ReadyzUp))
}
