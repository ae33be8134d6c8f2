package bing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/xavierca1/lead-copilot/internal/infra/integration/webpage"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const maxResults = 5

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(opts ...func(*Client)) *Client {
	c := &Client{
		BaseURL:    "https://www.bing.com/search",
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

// Search scrapes the result page and returns every organic result.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	doc, err := webpage.GetHTML(ctx, c.HTTPClient, c.BaseURL+"?"+url.Values{"q": {query}}.Encode())
	if err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}
	return ParseResults(doc), nil
}

// ParseResults reads the li.b_algo blocks. Blocks missing a title, link or
// caption are skipped.
func ParseResults(doc *html.Node) []Result {
	var results []Result
	for _, li := range webpage.FindAll(doc, webpage.TagWithClass("li", "b_algo")) {
		h2 := webpage.Find(li, webpage.Tag("h2"))
		a := webpage.Find(li, webpage.Tag("a"))
		caption := webpage.Find(li, webpage.TagWithClass("div", "b_caption"))
		if h2 == nil || a == nil || caption == nil {
			continue
		}
		r := Result{
			Title:   webpage.Text(h2),
			Link:    webpage.Attr(a, "href"),
			Snippet: webpage.Text(caption),
		}
		if r.Title == "" || r.Link == "" || r.Snippet == "" {
			continue
		}
		results = append(results, r)
	}
	return results
}

func top(results []Result) []Result {
	if len(results) > maxResults {
		return results[:maxResults]
	}
	if results == nil {
		return []Result{}
	}
	return results
}

// FindCompanyURL picks the first .com/.org/.net link whose title mentions
// the company.
func FindCompanyURL(results []Result, company string) string {
	name := strings.ToLower(strings.TrimSpace(company))
	if name == "" {
		return ""
	}
	for _, r := range results {
		link := strings.ToLower(r.Link)
		if !strings.Contains(link, ".com") && !strings.Contains(link, ".org") && !strings.Contains(link, ".net") {
			continue
		}
		if strings.Contains(strings.ToLower(r.Title), name) {
			return r.Link
		}
	}
	return ""
}

// CompanySource searches "<company> company information" and resolves the
// company website for the dependent sources.
type CompanySource struct {
	Client *Client
}

func NewCompanySource(c *Client) *CompanySource {
	return &CompanySource{Client: c}
}

func (s *CompanySource) Name() string { return usecase.SourceBing }
func (s *CompanySource) EmptyValue() any { return &CompanySearch{SearchResults: []Result{}} }

func (s *CompanySource) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	results, err := s.Client.Search(ctx, subject.CompanyName+" company information")
	if err != nil {
		return nil, err
	}
	// The URL is picked from every parsed result, not just the top five.
	return &CompanySearch{
		SearchResults: top(results),
		CompanyURLVal: FindCompanyURL(results, subject.CompanyName),
	}, nil
}

// PersonSource searches "<name> <company> LinkedIn".
type PersonSource struct {
	Client *Client
}

func NewPersonSource(c *Client) *PersonSource {
	return &PersonSource{Client: c}
}

func (s *PersonSource) Name() string { return usecase.SourceBing }
func (s *PersonSource) EmptyValue() any { return []Result{} }

func (s *PersonSource) Fetch(ctx context.Context, subject usecase.Subject, _ usecase.EvidenceBag) (any, error) {
	results, err := s.Client.Search(ctx, subject.PersonQuery("LinkedIn"))
	if err != nil {
		return nil, err
	}
	return top(results), nil
}
