package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.shop.acme.co.uk/path", "acme.co.uk"},
		{"acme.com", "acme.com"},
		{"http://linkedin.com/company/acme", "linkedin.com"},
		{"", ""},
		{"https://localhost", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RegistrableDomain(tt.in))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://acme.com", NormalizeURL(" acme.com "))
	assert.Equal(t, "https://acme.com", NormalizeURL("//acme.com"))
	assert.Equal(t, "http://acme.com", NormalizeURL("http://acme.com"))
	assert.Equal(t, "", NormalizeURL(""))
}

func TestTextAndFind(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div class="a b"><p> Hello <b>big</b>
	world </p></div>`))
	require.NoError(t, err)

	div := Find(doc, TagWithClass("div", "b"))
	require.NotNil(t, div)
	assert.Equal(t, "Hello big world", Text(div))
	assert.Nil(t, Find(doc, TagWithClass("div", "c")))
	assert.Len(t, FindAll(doc, Tag("b")), 1)
}

// TestGet - envia User-Agent e trata status não-2xx como erro
func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(r.Header.Get("User-Agent") + "|" + r.Header.Get("X-Api-Key")))
	}))
	defer srv.Close()

	body, err := Get(context.Background(), srv.Client(), srv.URL, map[string]string{"X-Api-Key": "k"})
	require.NoError(t, err)
	assert.Equal(t, UserAgent+"|k", string(body))

	_, err = Get(context.Background(), srv.Client(), srv.URL+"/missing", nil)
	assert.ErrorContains(t, err, "404")
}

// TestGet_RedactsQuery - erro de transporte não carrega a query string
func TestGet_RedactsQuery(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := Get(context.Background(), http.DefaultClient, base+"/search?key=SECRET-KEY-123&q=acme", nil)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.Contains(t, err.Error(), base+"/search")

	var ue *url.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, base+"/search", ue.URL)
}
