package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"waitlist/internal/domain/service"

	"github.com/pkg/errors"
)

// urnPrefixes are stripped from the userinfo subject; downstream publish
// calls want the bare member id.
var urnPrefixes = []string{"urn:li:person:", "urn:li:fs_person:"}

// ResolveMemberID resolves the access token to the stable member id via
// the provider's userinfo endpoint.
func (c *Client) ResolveMemberID(ctx context.Context, token service.AccessToken) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/userinfo", nil)
	if err != nil {
		return "", errors.Wrap(err, "build userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+string(token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "userinfo lookup")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "userinfo lookup"); err != nil {
		return "", err
	}

	var payload struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decode userinfo response")
	}
	if payload.Sub == "" {
		return "", errors.New("userinfo lookup: empty subject")
	}

	return normalizeMemberID(payload.Sub), nil
}

func normalizeMemberID(sub string) string {
	for _, prefix := range urnPrefixes {
		sub = strings.TrimPrefix(sub, prefix)
	}

	return sub
}
