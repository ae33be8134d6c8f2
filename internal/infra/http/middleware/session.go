package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const (
	HeaderUser = "X-User"
	HeaderLead = "X-Lead-ID"
)

// Session attaches a per-request usecase.Session. The id reuses chi's
// request id when present.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		s := usecase.Session{
			ID:           id,
			User:         r.Header.Get(HeaderUser),
			SelectedLead: r.Header.Get(HeaderLead),
		}
		next.ServeHTTP(w, r.WithContext(usecase.WithSession(r.Context(), s)))
	})
}
