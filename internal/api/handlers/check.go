package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "pricewatch/pkg/types"
)

// CheckService defines the engine operation for running a check cycle.
type CheckService interface {
	CheckAll(ctx context.Context) (*domain.CheckSummary, error)
}

// CheckHandler handles manual check-cycle trigger requests.
type CheckHandler struct {
	svc CheckService
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(svc CheckService) *CheckHandler {
	return &CheckHandler{svc: svc}
}

type checkResponse struct {
	Message string               `json:"message"`
	Summary *domain.CheckSummary `json:"summary"`
}

// Run handles POST /api/v1/check.
//
// @Summary Run a price check cycle
// @Description Re-checks every tracked item, updates the catalog, and sends notifications for qualifying drops.
// @Tags check
// @Produce json
// @Success 200 {object} checkResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/check [post]
func (h *CheckHandler) Run(c echo.Context) error {
	summary, err := h.svc.CheckAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "running check: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, checkResponse{
		Message: summary.Message(),
		Summary: summary,
	})
}
