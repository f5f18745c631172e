// Package handlers implements HTTP handlers for the pricewatch API.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pricewatch/internal/engine"
	domain "pricewatch/pkg/types"
)

// ItemService defines the engine operations the item endpoints need.
type ItemService interface {
	AddItem(ctx context.Context, url string, targetPrice float64, recipientEmail string) (engine.Result, error)
	ListItems(ctx context.Context) ([]domain.TrackedItem, int, error)
	DeleteItem(ctx context.Context, index int) (bool, error)
}

// ItemsHandler handles tracked-item CRUD operations.
type ItemsHandler struct {
	svc ItemService
}

// NewItemsHandler creates a new ItemsHandler.
func NewItemsHandler(svc ItemService) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

type listItemsResponse struct {
	Items       []domain.TrackedItem `json:"items"`
	SkippedRows int                  `json:"skipped_rows"`
}

// List handles GET /api/v1/items.
//
// @Summary List tracked items
// @Description Returns all tracked items in catalog order, plus the number of corrupt rows skipped on read.
// @Tags items
// @Produce json
// @Success 200 {object} listItemsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items [get]
func (h *ItemsHandler) List(c echo.Context) error {
	items, skipped, err := h.svc.ListItems(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing items: " + err.Error(),
		})
	}

	if items == nil {
		items = []domain.TrackedItem{}
	}

	return c.JSON(http.StatusOK, listItemsResponse{
		Items:       items,
		SkippedRows: skipped,
	})
}

type createItemRequest struct {
	URL            string  `json:"url" example:"https://www.example.com/dp/B0TEST"`
	TargetPrice    float64 `json:"target_price" example:"1499.00"`
	RecipientEmail string  `json:"recipient_email" example:"buyer@example.com"`
}

// Create handles POST /api/v1/items.
//
// @Summary Track a new item
// @Description Extracts current product data from the URL and adds the item to the catalog.
// @Tags items
// @Accept json
// @Produce json
// @Param item body createItemRequest true "Item to track"
// @Success 201 {object} engine.Result
// @Failure 400 {object} engine.Result
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items [post]
func (h *ItemsHandler) Create(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "url is required",
		})
	}

	res, err := h.svc.AddItem(c.Request().Context(), req.URL, req.TargetPrice, req.RecipientEmail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "adding item: " + err.Error(),
		})
	}

	if !res.OK {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusCreated, res)
}

// Delete handles DELETE /api/v1/items/:index.
//
// @Summary Stop tracking an item
// @Description Removes the item at the given catalog position.
// @Tags items
// @Param index path int true "Zero-based catalog position"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items/{index} [delete]
func (h *ItemsHandler) Delete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "index must be an integer",
		})
	}

	ok, err := h.svc.DeleteItem(c.Request().Context(), index)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "deleting item: " + err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no item at that position",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
