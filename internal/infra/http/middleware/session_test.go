package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

func capture(got *usecase.Session, found *bool) http.Handler {
	return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		*got, *found = usecase.SessionFrom(r.Context())
	})
}

// TestSession - reaproveita o request id do chi e lê os headers
func TestSession(t *testing.T) {
	var got usecase.Session
	var found bool

	h := chimw.RequestID(Session(capture(&got, &found)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUser, "bob")
	req.Header.Set(HeaderLead, "Jane Doe - Acme")
	req.Header.Set(chimw.RequestIDHeader, "req-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	assert.Equal(t, "req-123", got.ID)
	assert.Equal(t, "bob", got.User)
	assert.Equal(t, "Jane Doe - Acme", got.SelectedLead)
}

func TestSession_WithoutRequestID(t *testing.T) {
	var got usecase.Session
	var found bool

	Session(capture(&got, &found)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, found)
	assert.Len(t, got.ID, 36)
	assert.Empty(t, got.SelectedLead)
}

func TestMetrics_StatusPassThrough(t *testing.T) {
	h := Metrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
