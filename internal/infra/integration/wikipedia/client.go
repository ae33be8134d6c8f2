package wikipedia

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

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(opts ...func(*Client)) *Client {
	c := &Client{
		BaseURL:    "https://en.wikipedia.org/w/api.php",
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

// Lookup searches for the company and returns the intro extract of the
// first hit. No hit returns nil, nil.
func (c *Client) Lookup(ctx context.Context, query string) (*Page, error) {
	q := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"format":   {"json"},
	}
	var search searchResponse
	if err := c.getJSON(ctx, q, &search); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}
	if len(search.Query.Search) == 0 {
		return nil, nil
	}

	pageID := search.Query.Search[0].PageID
	q = url.Values{
		"action":  {"query"},
		"prop":    {"extracts"},
		"pageids": {strconv.Itoa(pageID)},
		"format":  {"json"},
		"exintro": {"1"},
	}
	var extract extractResponse
	if err := c.getJSON(ctx, q, &extract); err != nil {
		return nil, fmt.Errorf("wikipedia extract: %w", err)
	}
	page, ok := extract.Query.Pages[strconv.Itoa(pageID)]
	if !ok {
		return nil, fmt.Errorf("wikipedia extract: page %d missing from response", pageID)
	}
	return &Page{Title: page.Title, Extract: page.Extract}, nil
}

func (c *Client) getJSON(ctx context.Context, q url.Values, out any) error {
	body, err := webpage.Get(ctx, c.HTTPClient, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// Source adapts the client to the aggregator.
type Source struct {
	Client *Client
}

func NewSource(c *Client) *Source {
	return &Source{Client: c}
}

func (s *Source) Name() string { return usecase.SourceWikipedia }
func (s *Source) EmptyValue() any { return map[string]string{} }

func (s *Source) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	page, err := s.Client.Lookup(ctx, subject.CompanyName)
	if err != nil || page == nil {
		return nil, err
	}
	return page, nil
}
