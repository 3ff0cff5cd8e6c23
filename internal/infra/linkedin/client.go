// Package linkedin implements the provider-facing OAuth and publish
// operations against the LinkedIn REST API.
package linkedin

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"waitlist/config"

	"github.com/pkg/errors"
)

const (
	authorizationURL = "https://www.linkedin.com/oauth/v2/authorization"
	tokenURL         = "https://www.linkedin.com/oauth/v2/accessToken"
	apiBaseURL       = "https://api.linkedin.com/v2"

	// Every provider call is a synchronous round trip; a timeout is
	// treated like any other HTTP failure for that step.
	requestTimeout = 15 * time.Second

	restliHeader  = "X-Restli-Protocol-Version"
	restliVersion = "2.0.0"
)

// Client talks to the provider. It implements service.OAuthExchanger,
// service.IdentityResolver and service.MediaPublisher.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string
	imageSource  string

	authURL string
	tokURL  string
	apiBase string

	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds the provider client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		clientID:     cfg.LinkedIn.ClientID,
		clientSecret: cfg.LinkedIn.ClientSecret,
		redirectURL:  cfg.LinkedIn.RedirectURL,
		scopes:       cfg.LinkedIn.Scopes,
		imageSource:  cfg.LinkedIn.ImageSource,
		authURL:      authorizationURL,
		tokURL:       tokenURL,
		apiBase:      apiBaseURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
		logger:       logger,
	}
}

// readAllBody reads a successful response body in full.
func readAllBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// readBody drains a response body for inclusion in error details.
func readBody(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 8<<10))
	if err != nil {
		return ""
	}

	return string(raw)
}

// checkStatus turns a non-2xx response into an error carrying the
// provider's raw error body for diagnosis.
func checkStatus(resp *http.Response, operation string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return errors.Errorf("%s: provider returned %d: %s", operation, resp.StatusCode, readBody(resp.Body))
}
