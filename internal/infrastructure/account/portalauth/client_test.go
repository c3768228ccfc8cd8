package portalauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenaops/matchdesk/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.Client(), Config{
		BaseURL:          server.URL,
		IntrospectPath:   "/v1/introspect",
		Timeout:          2 * time.Second,
		FailureThreshold: 3,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}, nil)
}

func TestVerifyAccessToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/introspect", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"active": true,
			"user_id": "usr-1",
			"display_name": "Priya Raman",
			"role": "moderator",
			"is_moderator": true
		}`))
	})

	principal, err := client.VerifyAccessToken(context.Background(), "token-1")
	require.NoError(t, err)
	require.Equal(t, "usr-1", principal.UserID)
	require.Equal(t, "Priya Raman", principal.DisplayName)
	require.True(t, principal.CanModerate())
}

func TestVerifyAccessTokenEmptyToken(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("introspection should not be called")
	})

	_, err := client.VerifyAccessToken(context.Background(), "  ")
	require.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestVerifyAccessTokenInactive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"active": false}`))
	})

	_, err := client.VerifyAccessToken(context.Background(), "token-1")
	require.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestVerifyAccessTokenDenied(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.VerifyAccessToken(context.Background(), "token-1")
	require.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestVerifyAccessTokenCircuitOpensAfterOutage(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 3; i++ {
		_, err := client.VerifyAccessToken(context.Background(), "token-1")
		require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	}
	require.Equal(t, 3, calls)

	// Breaker is open now; the fourth attempt fails fast without a call.
	_, err := client.VerifyAccessToken(context.Background(), "token-1")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	require.Equal(t, 3, calls)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://auth.local", "/v1/introspect", "http://auth.local/v1/introspect"},
		{"http://auth.local/", "v1/introspect", "http://auth.local/v1/introspect"},
		{"http://auth.local", "", "http://auth.local"},
		{"http://auth.local", "https://other.local/introspect", "https://other.local/introspect"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, buildURL(tc.base, tc.path))
	}
}
