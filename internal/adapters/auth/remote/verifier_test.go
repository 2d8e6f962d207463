package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != verifyPath || r.Header.Get("X-Api-Key") != "secret" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var in verifyRequest
		_ = json.NewDecoder(r.Body).Decode(&in)

		switch in.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(verifyResponse{UserID: " user-1 ", Email: "a@b.c"})
		case "anon":
			_ = json.NewEncoder(w).Encode(verifyResponse{})
		case "boom":
			http.Error(w, "down", http.StatusBadGateway)
		default:
			http.Error(w, "nope", http.StatusUnauthorized)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestVerifier_Verify(t *testing.T) {
	ts := newServer(t)
	v, err := NewVerifier(Config{BaseURL: ts.URL, APIKey: "secret"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)

	_, err = v.Verify(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = v.Verify(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(context.Background(), "anon")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewVerifier_NotConfigured(t *testing.T) {
	_, err := NewVerifier(Config{BaseURL: "https://id.example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
