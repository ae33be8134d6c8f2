package googlesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/lead-copilot/internal/infra/integration/webpage"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

var ErrNotConfigured = errors.New("google custom search: GOOGLE_API_KEY or GOOGLE_SEARCH_ENGINE_ID not set")

type Client struct {
	BaseURL        string
	APIKey         string
	SearchEngineID string
	HTTPClient     *http.Client
}

func NewClient(apiKey, searchEngineID string, opts ...func(*Client)) *Client {
	c := &Client{
		BaseURL:        "https://www.googleapis.com/customsearch/v1",
		APIKey:         apiKey,
		SearchEngineID: searchEngineID,
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithBaseURL(baseURL string) func(*Client) {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.BaseURL = baseURL
		}
	}
}

// Search returns the raw response; its shape is passed on to the prompt
// untouched.
func (c *Client) Search(ctx context.Context, query string) (map[string]any, error) {
	if c.APIKey == "" || c.SearchEngineID == "" {
		return nil, ErrNotConfigured
	}
	q := url.Values{
		"cx": {c.SearchEngineID},
		"q":  {query},
	}
	body, err := webpage.Get(ctx, c.HTTPClient, c.BaseURL+"?"+q.Encode(), map[string]string{
		"X-Goog-Api-Key": c.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("google custom search: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("google custom search decode: %w", err)
	}
	return out, nil
}

// ProfileQuery restricts the search to LinkedIn profiles of name at company.
func ProfileQuery(name, company string) string {
	return fmt.Sprintf(`site:linkedin.com/in/ "%s" "%s"`, name, company)
}

type Source struct {
	Client *Client
}

func NewSource(c *Client) *Source {
	return &Source{Client: c}
}

func (s *Source) Name() string { return usecase.SourceGoogleSearch }
func (s *Source) EmptyValue() any { return map[string]any{} }

func (s *Source) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	return s.Client.Search(ctx, ProfileQuery(subject.PersonName, subject.CompanyName))
}
