package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/lead-copilot/internal/infra/integration/webpage"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const pageSize = 5

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(apiKey string, opts ...func(*Client)) *Client {
	c := &Client{
		BaseURL:    "https://newsapi.org/v2",
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
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

// Everything returns the latest English articles for query. Without an API
// key it returns an empty list and makes no request.
func (c *Client) Everything(ctx context.Context, query string) ([]Article, error) {
	if c.APIKey == "" {
		return []Article{}, nil
	}
	q := url.Values{
		"q":        {query},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(pageSize)},
	}
	body, err := webpage.Get(ctx, c.HTTPClient, c.BaseURL+"/everything?"+q.Encode(), map[string]string{
		"X-Api-Key": c.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}

	var resp everythingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("newsapi: %s", resp.Message)
	}
	if resp.Articles == nil {
		return []Article{}, nil
	}
	return resp.Articles, nil
}

type Source struct {
	Client *Client
}

func NewSource(c *Client) *Source {
	return &Source{Client: c}
}

func (s *Source) Name() string { return usecase.SourceNewsAPI }
func (s *Source) EmptyValue() any { return []Article{} }

func (s *Source) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	return s.Client.Everything(ctx, subject.CompanyName)
}
