// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"waitlist/internal/delivery/http/middleware"
	"waitlist/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	WaitlistHandler   *handler.WaitlistHandler
	AmplifyHandler    *handler.AmplifyHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	waitlistHandler   *handler.WaitlistHandler
	amplifyHandler    *handler.AmplifyHandler
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		waitlistHandler:   params.WaitlistHandler,
		amplifyHandler:    params.AmplifyHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	{
		api.POST("/waitlist/submit", r.waitlistHandler.Submit)
		// The opt-in redirect needs a session id to key the pending state.
		api.GET("/linkedin/auth", r.amplifyHandler.Authorize, r.sessionMiddleware.Handle)
	}

	// Provider callback, registered at the redirect URL path. The session
	// cookie may or may not survive the round trip; the broker copes.
	e.GET("/auth/linkedin/callback", r.amplifyHandler.Callback, r.sessionMiddleware.Handle)
}
