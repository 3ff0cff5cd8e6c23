package service

import (
	"context"
)

// AccessToken is a short-lived bearer credential from the identity
// provider. It is never persisted and never logged in full.
type AccessToken string

// Truncated returns a loggable prefix of the token.
func (t AccessToken) Truncated() string {
	const keep = 8
	if len(t) <= keep {
		return "***"
	}

	return string(t[:keep]) + "..."
}

// PublishedPost identifies a post created on the member's feed.
type PublishedPost struct {
	ID       string
	AssetURN string
}

// OAuthExchanger drives the authorization-code-for-token exchange with the
// provider.
type OAuthExchanger interface {
	// BuildAuthorizationURL constructs the provider authorization endpoint
	// URL carrying the state token. Pure, no side effects.
	BuildAuthorizationURL(state string) string

	// ExchangeCode trades the single-use authorization code for an access
	// token. Never retried; codes expire quickly.
	ExchangeCode(ctx context.Context, code string) (AccessToken, error)
}

// IdentityResolver resolves an access token to the stable member
// identifier used by publish calls.
type IdentityResolver interface {
	ResolveMemberID(ctx context.Context, token AccessToken) (string, error)
}

// MediaPublisher runs the provider's three-step image publish protocol:
// register an upload slot, upload the binary, create the post.
type MediaPublisher interface {
	Publish(ctx context.Context, token AccessToken, memberID, text string) (*PublishedPost, error)
}
