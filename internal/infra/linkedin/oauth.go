package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"waitlist/internal/domain/service"

	"github.com/pkg/errors"
)

// BuildAuthorizationURL constructs the provider's authorization endpoint
// URL with the one-time state token. Pure function; configuration is
// validated at startup.
func (c *Client) BuildAuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURL)
	params.Set("state", state)
	params.Set("scope", strings.Join(c.scopes, " "))

	return c.authURL + "?" + params.Encode()
}

// ExchangeCode trades the authorization code for an access token with a
// single POST. Codes are single-use and short-lived, so nothing retries.
func (c *Client) ExchangeCode(ctx context.Context, code string) (service.AccessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURL)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token exchange")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "token exchange"); err != nil {
		return "", err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decode token response")
	}
	if payload.AccessToken == "" {
		return "", errors.New("token exchange: empty access token")
	}

	return service.AccessToken(payload.AccessToken), nil
}
