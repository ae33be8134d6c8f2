package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
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
		BaseURL:    "https://api.duckduckgo.com/",
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

// InstantAnswer returns the abstract text, or the first related topic when
// there is no abstract. Both missing gives "".
func (c *Client) InstantAnswer(ctx context.Context, query string) (string, error) {
	q := url.Values{
		"q":       {query},
		"format":  {"json"},
		"no_html": {"1"},
	}
	body, err := webpage.Get(ctx, c.HTTPClient, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("duckduckgo: %w", err)
	}

	var resp instantAnswer
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("duckduckgo decode: %w", err)
	}
	if resp.AbstractText != "" {
		return resp.AbstractText, nil
	}
	if len(resp.RelatedTopics) > 0 {
		return resp.RelatedTopics[0].Text, nil
	}
	return "", nil
}

type Source struct {
	Client *Client
}

func NewSource(c *Client) *Source {
	return &Source{Client: c}
}

func (s *Source) Name() string { return usecase.SourceDuckDuckGo }
func (s *Source) EmptyValue() any { return "" }

func (s *Source) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	query := subject.CompanyName
	if subject.IsPerson() {
		query = subject.PersonQuery("LinkedIn")
	}
	return s.Client.InstantAnswer(ctx, query)
}
