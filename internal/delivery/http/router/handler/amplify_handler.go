package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"waitlist/config"
	"waitlist/internal/delivery/http/middleware"
	"waitlist/internal/delivery/http/response"
	"waitlist/internal/domain/entity"
	"waitlist/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AmplifyHandler drives the LinkedIn amplification endpoints: the opt-in
// redirect to the provider and the OAuth callback.
type AmplifyHandler struct {
	uc           usecase.AmplifyUsecase
	redirectPath string
	logger       *slog.Logger
}

// NewAmplifyHandler is the constructor for AmplifyHandler, injected by Fx.
func NewAmplifyHandler(uc usecase.AmplifyUsecase, cfg *config.Config, logger *slog.Logger) *AmplifyHandler {
	return &AmplifyHandler{
		uc:           uc,
		redirectPath: cfg.Waitlist.RedirectPath,
		logger:       logger,
	}
}

// Authorize starts the amplification flow. The validated form payload
// travels as a JSON-encoded formData query parameter because the browser
// is about to leave for the provider and the body would be lost.
func (h *AmplifyHandler) Authorize(c echo.Context) error {
	raw := c.QueryParam("formData")
	if raw == "" {
		return response.BadRequest(c, "MISSING_FORM_DATA", "No pending form data provided")
	}

	var submission entity.Submission
	if err := json.Unmarshal([]byte(raw), &submission); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid form data payload")
	}
	if err := c.Validate(&submission); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Missing or invalid required fields")
	}

	authURL, err := h.uc.Begin(c.Request().Context(), middleware.SessionID(c), &submission)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusFound, authURL)
}

// Callback terminates the flow: whatever happened, the browser goes back
// to the waitlist page with a success or error indicator.
func (h *AmplifyHandler) Callback(c echo.Context) error {
	input := &usecase.CallbackInput{
		Code:          c.QueryParam("code"),
		State:         c.QueryParam("state"),
		ProviderError: c.QueryParam("error"),
	}

	outcome := h.uc.HandleCallback(c.Request().Context(), middleware.SessionID(c), input)

	return c.Redirect(http.StatusFound, h.resultURL(outcome))
}

func (h *AmplifyHandler) resultURL(outcome *usecase.Outcome) string {
	params := url.Values{}
	if outcome.Success {
		params.Set("success", "true")
	} else {
		params.Set("error", outcome.Reason)
	}
	params.Set("message", outcome.Message)

	return h.redirectPath + "?" + params.Encode()
}
