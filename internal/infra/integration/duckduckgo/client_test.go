package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

func TestInstantAnswer(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"abstract", `{"AbstractText":"Acme is a company","RelatedTopics":[{"Text":"other"}]}`, "Acme is a company"},
		{"primeiro tópico relacionado", `{"AbstractText":"","RelatedTopics":[{"Text":"Acme Corp"},{"Text":"x"}]}`, "Acme Corp"},
		{"nada encontrado", `{"AbstractText":"","RelatedTopics":[]}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			got, err := NewClient(WithBaseURL(srv.URL)).InstantAnswer(context.Background(), "Acme")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSource_Fetch - pessoa consulta "nome empresa LinkedIn"
func TestSource_Fetch(t *testing.T) {
	var q string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	src := NewSource(NewClient(WithBaseURL(srv.URL)))

	_, err := src.Fetch(context.Background(), usecase.Subject{CompanyName: "Acme"}, usecase.EvidenceBag{})
	require.NoError(t, err)
	assert.Equal(t, "Acme", q)

	_, err = src.Fetch(context.Background(), usecase.Subject{PersonName: "Jane", CompanyName: "Acme"}, usecase.EvidenceBag{})
	require.NoError(t, err)
	assert.Equal(t, "Jane Acme LinkedIn", q)
}

func TestInstantAnswer_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).InstantAnswer(context.Background(), "Acme")
	assert.Error(t, err)
}
