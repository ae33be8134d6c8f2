package newsapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEverything_NoKey - sem chave não faz requisição
func TestEverything_NoKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	got, err := NewClient("", WithBaseURL(srv.URL)).Everything(context.Background(), "Acme")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.False(t, called)
}

func TestEverything(t *testing.T) {
	t.Run("artigos", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/everything", r.URL.Path)
			assert.Equal(t, "k", r.Header.Get("X-Api-Key"))
			assert.Empty(t, r.URL.Query().Get("apiKey"))
			assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
			assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
			_, _ = io.WriteString(w, `{"status":"ok","totalResults":1,"articles":[{"source":{"name":"Reuters"},"title":"Acme grows","url":"https://r/1"}]}`)
		}))
		defer srv.Close()

		got, err := NewClient("k", WithBaseURL(srv.URL)).Everything(context.Background(), "Acme")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Reuters", got[0].Source.Name)
		assert.Equal(t, "Acme grows", got[0].Title)
	})

	t.Run("status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"status":"error","message":"apiKeyInvalid"}`)
		}))
		defer srv.Close()

		_, err := NewClient("k", WithBaseURL(srv.URL)).Everything(context.Background(), "Acme")
		assert.ErrorContains(t, err, "apiKeyInvalid")
	})

	t.Run("HTTP 401", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewClient("k", WithBaseURL(srv.URL)).Everything(context.Background(), "Acme")
		assert.Error(t, err)
	})
}

// TestEverything_KeyNotInError - a chave nunca aparece no erro de transporte
func TestEverything_KeyNotInError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient("SECRET-KEY-123", WithBaseURL(srv.URL)).Everything(ctx, "Acme")

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
}
