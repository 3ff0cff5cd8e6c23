package linkedin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"waitlist/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	cfg := &config.Config{}
	cfg.LinkedIn = config.LinkedInConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_secret",
		RedirectURL:  "http://localhost:5000/auth/linkedin/callback",
		Scopes:       []string{"openid", "profile", "email", "w_member_social"},
	}

	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_BuildAuthorizationURL(t *testing.T) {
	client := testClient(t)

	got := client.BuildAuthorizationURL("abc123")

	assert.Equal(t,
		"https://www.linkedin.com/oauth/v2/authorization"+
			"?client_id=test_client_id"+
			"&redirect_uri=http%3A%2F%2Flocalhost%3A5000%2Fauth%2Flinkedin%2Fcallback"+
			"&response_type=code"+
			"&scope=openid+profile+email+w_member_social"+
			"&state=abc123",
		got)
}

func TestClient_ExchangeCode(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"code":          r.PostFormValue("code"),
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"redirect_uri":  r.PostFormValue("redirect_uri"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":5183999}`))
	}))
	defer server.Close()

	client := testClient(t)
	client.tokURL = server.URL

	token, err := client.ExchangeCode(context.Background(), "auth-code-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", string(token))

	assert.Equal(t, "authorization_code", gotForm["grant_type"])
	assert.Equal(t, "auth-code-1", gotForm["code"])
	assert.Equal(t, "test_client_id", gotForm["client_id"])
	assert.Equal(t, "test_secret", gotForm["client_secret"])
	assert.Equal(t, "http://localhost:5000/auth/linkedin/callback", gotForm["redirect_uri"])
}

func TestClient_ExchangeCode_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer server.Close()

	client := testClient(t)
	client.tokURL = server.URL

	_, err := client.ExchangeCode(context.Background(), "expired-code")
	require.Error(t, err)
	// The provider's raw error body is surfaced for diagnosis.
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Contains(t, err.Error(), "400")
}

func TestClient_ExchangeCode_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(t)
	client.tokURL = server.URL

	_, err := client.ExchangeCode(context.Background(), "code")
	assert.Error(t, err)
}
