// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"waitlist/internal/delivery/http/response"
	"waitlist/internal/domain/entity"
	"waitlist/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// WaitlistHandler holds dependencies for the plain join endpoint.
type WaitlistHandler struct {
	uc     usecase.WaitlistUsecase
	logger *slog.Logger
}

// NewWaitlistHandler is the constructor for WaitlistHandler, injected by Fx.
func NewWaitlistHandler(uc usecase.WaitlistUsecase, logger *slog.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		uc:     uc,
		logger: logger,
	}
}

// Submit handles the waitlist form submission request.
func (h *WaitlistHandler) Submit(c echo.Context) error {
	var submission entity.Submission
	if err := c.Bind(&submission); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid submission payload")
	}
	if err := c.Validate(&submission); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Missing or invalid required fields")
	}

	if err := h.uc.Join(c.Request().Context(), &submission); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Thank you for joining the waitlist!")
}
