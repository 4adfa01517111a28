package aimove

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func TestClient_Complete(t *testing.T) {
	t.Run("Sends prompt and config", func(t *testing.T) {
		// Given: a provider that records the request
		var got completionRequest
		server := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			_, _ = w.Write([]byte(`{"move": 4}`))
		})

		// When
		text, err := NewClient(time.Second).Complete(context.Background(), server.URL, "pick a cell", map[string]any{"model": "small"})

		// Then
		require.NoError(t, err)
		assert.Equal(t, "4", text)
		assert.Equal(t, "pick a cell", got.Prompt)
		assert.Equal(t, map[string]any{"model": "small"}, got.Config)
	})

	t.Run("Text move", func(t *testing.T) {
		server := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"move": "the top-right corner"}`))
		})

		text, err := NewClient(time.Second).Complete(context.Background(), server.URL, "p", nil)

		require.NoError(t, err)
		assert.Equal(t, "the top-right corner", text)
	})

	failures := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "Server error", status: http.StatusInternalServerError, payload: `{"move": 4}`},
		{name: "Error field", status: http.StatusOK, payload: `{"error": "quota exceeded"}`},
		{name: "Missing move", status: http.StatusOK, payload: `{}`},
		{name: "Null move", status: http.StatusOK, payload: `{"move": null}`},
		{name: "Object move", status: http.StatusOK, payload: `{"move": {"cell": 4}}`},
		{name: "Broken JSON", status: http.StatusOK, payload: `{"move":`},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			server := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})

			_, err := NewClient(time.Second).Complete(context.Background(), server.URL, "p", nil)

			require.ErrorIs(t, err, apperror.ErrProviderFailure)
		})
	}

	t.Run("Timeout", func(t *testing.T) {
		// Given: a provider that never answers
		server := newProvider(t, func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		// When
		start := time.Now()
		_, err := NewClient(50*time.Millisecond).Complete(context.Background(), server.URL, "p", nil)

		// Then: the call gives up on its own
		require.ErrorIs(t, err, apperror.ErrProviderFailure)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("Unreachable endpoint", func(t *testing.T) {
		_, err := NewClient(time.Second).Complete(context.Background(), "http://127.0.0.1:0", "p", nil)

		require.ErrorIs(t, err, apperror.ErrProviderFailure)
	})
}
