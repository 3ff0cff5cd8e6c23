package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMemberID(t *testing.T) {
	tests := []struct {
		sub      string
		expected string
	}{
		{"abc123XY", "abc123XY"},
		{"urn:li:person:abc123XY", "abc123XY"},
		{"urn:li:fs_person:abc123XY", "abc123XY"},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeMemberID(tt.sub))
		})
	}
}

func TestClient_ResolveMemberID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"sub":"urn:li:person:member-1","name":"A Member"}`)
	}))
	defer server.Close()

	client := testClient(t)
	client.apiBase = server.URL

	memberID, err := client.ResolveMemberID(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "member-1", memberID)
}

func TestClient_ResolveMemberID_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"token revoked"}`)
	}))
	defer server.Close()

	client := testClient(t)
	client.apiBase = server.URL

	_, err := client.ResolveMemberID(context.Background(), "revoked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token revoked")
}
