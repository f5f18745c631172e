package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("recovers from panic and returns 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", http.NoBody)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Recovery(logger)(func(_ echo.Context) error {
			panic("boom")
		})

		err := handler(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

		out := buf.String()
		assert.Contains(t, out, "panic recovered")
		assert.Contains(t, out, "boom")
		assert.Contains(t, out, "stack=")
	})

	t.Run("passes through normal responses", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", http.NoBody)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Recovery(logger)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
