// Package app wires config into the use cases shared by the API server and
// the salesctl CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/config"
	"github.com/xavierca1/lead-copilot/internal/infra/artifact"
	"github.com/xavierca1/lead-copilot/internal/infra/database"
	"github.com/xavierca1/lead-copilot/internal/infra/http/middleware"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/bing"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/duckduckgo"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/gcalendar"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/googlenews"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/googlesearch"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/newsapi"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/website"
	"github.com/xavierca1/lead-copilot/internal/infra/integration/wikipedia"
	"github.com/xavierca1/lead-copilot/internal/infra/llm"
	"github.com/xavierca1/lead-copilot/internal/infra/mail"
	"github.com/xavierca1/lead-copilot/internal/infra/queue"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type App struct {
	Config config.Config
	Logger *zap.Logger

	Store     usecase.CrmStore
	DB        *sql.DB
	Artifacts *artifact.FileStore
	Generator usecase.TextGenerator
	Rabbit    *queue.RabbitMQ
	Kommo     *kommo.Client

	SimilarDeals         *usecase.SimilarDealsUseCase
	UpdateLead           *usecase.UpdateLeadUseCase
	CompanyResearch      *usecase.CompanyResearchUseCase
	PersonResearch       *usecase.PersonResearchUseCase
	LeadProfile          *usecase.LeadProfileUseCase
	CommunicationHistory *usecase.CommunicationHistoryUseCase
	CommunicationSummary *usecase.CommunicationSummaryUseCase
	SalesReport          *usecase.SalesReportUseCase
	DraftMessage         *usecase.DraftMessageUseCase
	MessageAction        *usecase.MessageActionUseCase
	DueFollowUps         *usecase.DueFollowUpsUseCase
}

// Options turn optional infrastructure on. The CLI runs without a broker.
type Options struct {
	WithRabbit bool
}

func Build(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	// 1. Record store
	switch cfg.CrmBackend {
	case "postgres":
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("falha ao conectar no Postgres: %w", err)
		}
		store := database.NewPostgresDocumentStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("falha ao criar schema: %w", err)
		}
		a.DB = db
		a.Store = store
	default:
		a.Store = database.NewJSONDocumentStore(cfg.CrmDataPath)
	}
	a.Artifacts = artifact.NewFileStore(cfg.OutputsDir)

	// 2. Eventos (opcional)
	var publisher usecase.LeadEventPublisher
	if opts.WithRabbit && cfg.RabbitURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitURL)
		if err != nil {
			// CRM continua funcionando sem espelhamento
			logger.Warn("⚠️ RabbitMQ indisponível, eventos desativados", zap.Error(err))
		} else {
			a.Rabbit = rabbit
			publisher = queue.NewProducer(rabbit.Ch)
		}
	}
	if cfg.KommoAPIToken != "" {
		a.Kommo = kommo.NewClient(cfg.KommoBaseURL, cfg.KommoAPIToken, logger)
	}

	// 3. Providers
	a.Generator = llm.Select(cfg, logger)
	synth := usecase.NewSynthesizer(a.Generator, logger)
	synth.OnGeneration = middleware.RecordGeneration

	companyAgg := usecase.NewAggregator(logger, cfg.SourceTimeout, companySources(cfg, a.Store, logger)...)
	personAgg := usecase.NewAggregator(logger, cfg.SourceTimeout, personSources(cfg)...)
	for _, agg := range []*usecase.Aggregator{companyAgg, personAgg} {
		agg.OnSourceFailure = middleware.RecordSourceFailure
		agg.OnSourceDone = middleware.ObserveSourceDuration
	}

	sender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, logger)
	scheduler := newScheduler(cfg, logger)

	// 4. UseCases
	a.SimilarDeals = usecase.NewSimilarDealsUseCase(a.Store, logger)
	a.UpdateLead = usecase.NewUpdateLeadUseCase(a.Store, publisher, logger)
	a.CompanyResearch = usecase.NewCompanyResearchUseCase(companyAgg, synth, a.Artifacts, logger)
	a.PersonResearch = usecase.NewPersonResearchUseCase(personAgg, synth, a.Artifacts, logger)
	a.LeadProfile = usecase.NewLeadProfileUseCase(a.Store, logger)
	a.CommunicationHistory = usecase.NewCommunicationHistoryUseCase(a.Store, logger)
	a.CommunicationSummary = usecase.NewCommunicationSummaryUseCase(a.CommunicationHistory, synth, a.Artifacts, logger)
	a.SalesReport = usecase.NewSalesReportUseCase(a.CommunicationHistory, synth, a.Artifacts, logger)
	a.DraftMessage = usecase.NewDraftMessageUseCase(a.Store, a.SimilarDeals, synth, a.Artifacts, logger)
	a.MessageAction = usecase.NewMessageActionUseCase(a.Store, a.Artifacts, sender, scheduler, synth, a.UpdateLead, logger)
	a.DueFollowUps = usecase.NewDueFollowUpsUseCase(a.Store, logger)

	return a, nil
}

// ProviderName is the configured text generation provider, or "fallback".
func (a *App) ProviderName() string {
	if a.Generator == nil {
		return "fallback"
	}
	return a.Generator.Provider()
}

func (a *App) Close() {
	if a.Rabbit != nil {
		a.Rabbit.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// companySources keeps the evidence order of the company summary prompt.
func companySources(cfg config.Config, store usecase.CrmStore, logger *zap.Logger) []usecase.EvidenceSource {
	ddg := duckduckgo.NewClient()
	web := website.NewClient()
	return []usecase.EvidenceSource{
		wikipedia.NewSource(wikipedia.NewClient()),
		newsapi.NewSource(newsapi.NewClient(cfg.NewsAPIKey)),
		googlenews.NewSource(googlenews.NewClient()),
		duckduckgo.NewSource(ddg),
		bing.NewCompanySource(bing.NewClient()),
		website.NewMetaSource(web, store, logger),
		website.NewPresenceSource(web),
	}
}

func personSources(cfg config.Config) []usecase.EvidenceSource {
	return []usecase.EvidenceSource{
		googlesearch.NewSource(googlesearch.NewClient(cfg.GoogleAPIKey, cfg.GoogleSearchEngineID)),
		bing.NewPersonSource(bing.NewClient()),
		duckduckgo.NewSource(duckduckgo.NewClient()),
		googlenews.NewSource(googlenews.NewClient()),
	}
}

func newScheduler(cfg config.Config, logger *zap.Logger) usecase.MeetingScheduler {
	if cfg.MeetingPlatform == "google" && cfg.CalendarToken != "" {
		return gcalendar.NewClient(cfg.CalendarToken, cfg.CalendarID, logger)
	}
	return gcalendar.NewMockScheduler(logger)
}
