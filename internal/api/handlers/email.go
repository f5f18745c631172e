package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pricewatch/internal/notify"
)

// EmailHandler handles sender configuration and test delivery.
type EmailHandler struct {
	notifier notify.Notifier
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(n notify.Notifier) *EmailHandler {
	return &EmailHandler{notifier: n}
}

type configureEmailRequest struct {
	Address    string `json:"address" example:"alerts@example.com"`
	Credential string `json:"credential" example:"app-specific-password"`
}

// Configure handles PUT /api/v1/email/config.
//
// @Summary Configure the sender identity
// @Description Sets the sender address and credential used for outgoing notifications. No connectivity check is performed.
// @Tags email
// @Accept json
// @Produce json
// @Param config body configureEmailRequest true "Sender identity"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/email/config [put]
func (h *EmailHandler) Configure(c echo.Context) error {
	var req configureEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := h.notifier.Configure(req.Address, req.Credential); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "configured"})
}

type testEmailRequest struct {
	Recipient string `json:"recipient" example:"buyer@example.com"`
}

// SendTest handles POST /api/v1/email/test.
//
// @Summary Send a test email
// @Description Delivers a diagnostic message to the given recipient so the operator can verify SMTP settings end to end.
// @Tags email
// @Accept json
// @Produce json
// @Param body body testEmailRequest true "Test recipient"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/email/test [post]
func (h *EmailHandler) SendTest(c echo.Context) error {
	var req testEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	err := h.notifier.SendTest(c.Request().Context(), req.Recipient)
	switch {
	case errors.Is(err, notify.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, notify.ErrNotConfigured):
		return c.JSON(http.StatusConflict, map[string]string{
			"error": err.Error(),
		})
	case err != nil:
		// Transport failure; surface the reason so the operator can fix
		// credentials or connectivity.
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}
