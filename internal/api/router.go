// Package api assembles the Echo router for pricewatch.
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pricewatch/internal/api/handlers"
	"pricewatch/internal/api/middleware"
	"pricewatch/internal/engine"
	"pricewatch/internal/notify"
	"pricewatch/internal/store"
)

// NewRouter builds the Echo instance with all middleware and routes
// registered.
func NewRouter(
	tracker *engine.Tracker,
	s store.Store,
	n notify.Notifier,
	log *slog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(s)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	itemsH := handlers.NewItemsHandler(tracker)
	checkH := handlers.NewCheckHandler(tracker)
	emailH := handlers.NewEmailHandler(n)

	v1 := e.Group("/api/v1")
	v1.GET("/items", itemsH.List)
	v1.POST("/items", itemsH.Create)
	v1.DELETE("/items/:index", itemsH.Delete)
	v1.POST("/check", checkH.Run)
	v1.PUT("/email/config", emailH.Configure)
	v1.POST("/email/test", emailH.SendTest)

	return e
}
