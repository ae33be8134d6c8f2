package website

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/xavierca1/lead-copilot/internal/infra/integration/webpage"
)

type Client struct {
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: 10 * time.Second}}
}

// MetaTags reads the page's meta and OpenGraph tags. Empty fields are
// dropped, so an uninformative page yields an empty map.
func (c *Client) MetaTags(ctx context.Context, pageURL string) (map[string]string, error) {
	doc, err := webpage.GetHTML(ctx, c.HTTPClient, webpage.NormalizeURL(pageURL))
	if err != nil {
		return nil, fmt.Errorf("website meta: %w", err)
	}
	return ParseMetaTags(doc), nil
}

func ParseMetaTags(doc *html.Node) map[string]string {
	meta := map[string]string{}
	og := map[string]string{}
	for _, n := range webpage.FindAll(doc, webpage.Tag("meta")) {
		key := webpage.Attr(n, "name")
		if key == "" {
			key = webpage.Attr(n, "property")
		}
		content := webpage.Attr(n, "content")
		meta[strings.ToLower(key)] = content

		if prop := strings.ToLower(webpage.Attr(n, "property")); strings.HasPrefix(prop, "og:") {
			og[prop] = content
		}
	}

	info := map[string]string{
		"description": firstNonEmpty(meta["description"], og["og:description"]),
		"title":       firstNonEmpty(meta["title"], og["og:title"]),
		"site_name":   og["og:site_name"],
		"mission":     meta["mission"],
		"products":    meta["products"],
		"team":        meta["team"],
		"values":      meta["values"],
	}
	for k, v := range info {
		if strings.TrimSpace(v) == "" {
			delete(info, k)
		}
	}
	return info
}

// WebPresence reads the title/description/keywords, the social links and
// the first paragraph that talks about the company.
func (c *Client) WebPresence(ctx context.Context, pageURL string) (*Presence, error) {
	doc, err := webpage.GetHTML(ctx, c.HTTPClient, webpage.NormalizeURL(pageURL))
	if err != nil {
		return nil, fmt.Errorf("web presence: %w", err)
	}
	return ParsePresence(doc), nil
}

var socialNetworks = []struct {
	key    string
	domain string
}{
	{"linkedin", "linkedin.com"},
	{"twitter", "twitter.com"},
	{"facebook", "facebook.com"},
	{"instagram", "instagram.com"},
}

func ParsePresence(doc *html.Node) *Presence {
	p := &Presence{
		SocialLinks: map[string]string{},
		CompanyInfo: map[string]string{},
	}

	if t := webpage.Find(doc, webpage.Tag("title")); t != nil {
		p.MetaData.Title = nilIfEmpty(webpage.Text(t))
	}
	for _, n := range webpage.FindAll(doc, webpage.Tag("meta")) {
		switch webpage.Attr(n, "name") {
		case "description":
			if p.MetaData.Description == nil {
				p.MetaData.Description = nilIfEmpty(webpage.Attr(n, "content"))
			}
		case "keywords":
			if p.MetaData.Keywords == nil {
				p.MetaData.Keywords = nilIfEmpty(webpage.Attr(n, "content"))
			}
		}
	}

	// Later links of the same network overwrite earlier ones.
	for _, a := range webpage.FindAll(doc, webpage.Tag("a")) {
		href := webpage.Attr(a, "href")
		if href == "" {
			continue
		}
		if key := socialKey(href); key != "" {
			p.SocialLinks[key] = href
		}
	}

	for _, para := range webpage.FindAll(doc, webpage.Tag("p")) {
		text := webpage.Text(para)
		lower := strings.ToLower(text)
		if strings.Contains(lower, "about") || strings.Contains(lower, "company") {
			p.CompanyInfo["about"] = text
			break
		}
	}
	return p
}

// socialKey matches on the registrable domain when the link parses and on
// the raw text otherwise.
func socialKey(href string) string {
	domain := webpage.RegistrableDomain(href)
	for _, s := range socialNetworks {
		if domain == s.domain || (domain == "" && strings.Contains(href, s.domain)) {
			return s.key
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
