package googlenews

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/lead-copilot/internal/infra/integration/webpage"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const maxItems = 10

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(opts ...func(*Client)) *Client {
	c := &Client{
		BaseURL:    "https://news.google.com/rss/search",
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

// Search reads the RSS feed for query and returns at most 10 items.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	q := url.Values{
		"q":    {query},
		"hl":   {"en-US"},
		"gl":   {"US"},
		"ceid": {"US:en"},
	}
	body, err := webpage.Get(ctx, c.HTTPClient, c.BaseURL+"?"+q.Encode(), map[string]string{
		"Accept": "application/rss+xml, application/xml;q=0.9",
	})
	if err != nil {
		return nil, fmt.Errorf("google news rss: %w", err)
	}

	var feed rss
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("google news rss decode: %w", err)
	}

	items := make([]Item, 0, maxItems)
	for _, it := range feed.Channel.Items {
		if len(items) == maxItems {
			break
		}
		items = append(items, Item{
			Title:   strings.TrimSpace(it.Title),
			Link:    strings.TrimSpace(it.Link),
			PubDate: strings.TrimSpace(it.PubDate),
			Source:  strings.TrimSpace(it.Source),
		})
	}
	return items, nil
}

// Source queries by company, or by "name company" for a person.
type Source struct {
	Client *Client
}

func NewSource(c *Client) *Source {
	return &Source{Client: c}
}

func (s *Source) Name() string { return usecase.SourceGoogleNews }
func (s *Source) EmptyValue() any { return []Item{} }

func (s *Source) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	query := subject.CompanyName
	if subject.IsPerson() {
		query = subject.PersonQuery("")
	}
	return s.Client.Search(ctx, query)
}
