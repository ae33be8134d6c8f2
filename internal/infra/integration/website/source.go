package website

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

// MetaSource runs after the search sources. The CRM's company_website wins
// over the search-derived URL.
type MetaSource struct {
	Client *Client
	Store  usecase.CrmStore
	Logger *zap.Logger
}

func NewMetaSource(c *Client, store usecase.CrmStore, logger *zap.Logger) *MetaSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaSource{Client: c, Store: store, Logger: logger}
}

func (s *MetaSource) Name() string { return usecase.SourceWebsiteMeta }
func (s *MetaSource) EmptyValue() any { return map[string]string{} }
func (s *MetaSource) Dependent() bool { return true }

func (s *MetaSource) Fetch(ctx context.Context, subject usecase.Subject, prior usecase.EvidenceBag) (any, error) {
	site := s.crmWebsite(ctx, subject.CompanyName)
	if site == "" {
		site = prior.CompanyURL()
	}
	if site == "" {
		return map[string]string{}, nil
	}
	return s.Client.MetaTags(ctx, site)
}

// crmWebsite ignores store errors: the search URL is still a usable fallback.
func (s *MetaSource) crmWebsite(ctx context.Context, company string) string {
	if s.Store == nil {
		return ""
	}
	doc, err := s.Store.Load(ctx)
	if err != nil {
		s.Logger.Debug("website meta: crm lookup failed", zap.Error(err))
		return ""
	}
	return doc.CompanyWebsite(company)
}

// PresenceSource only uses the URL resolved by the search sources.
type PresenceSource struct {
	Client *Client
}

func NewPresenceSource(c *Client) *PresenceSource {
	return &PresenceSource{Client: c}
}

func (s *PresenceSource) Name() string { return usecase.SourceWebPresence }
func (s *PresenceSource) EmptyValue() any { return map[string]any{} }
func (s *PresenceSource) Dependent() bool { return true }

func (s *PresenceSource) Fetch(ctx context.Context, _ usecase.Subject, prior usecase.EvidenceBag) (any, error) {
	site := prior.CompanyURL()
	if site == "" {
		return map[string]any{}, nil
	}
	return s.Client.WebPresence(ctx, site)
}
