package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // fusos dos leads sem depender do SO

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/app"
	"github.com/xavierca1/lead-copilot/internal/config"
	"github.com/xavierca1/lead-copilot/internal/infra/http/handlers"
	metrics "github.com/xavierca1/lead-copilot/internal/infra/http/middleware"
	"github.com/xavierca1/lead-copilot/internal/infra/logger"
	"github.com/xavierca1/lead-copilot/internal/infra/queue"
	"github.com/xavierca1/lead-copilot/internal/infra/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Infra + UseCases
	a, err := app.Build(ctx, cfg, logg, app.Options{WithRabbit: true})
	if err != nil {
		logg.Fatal("❌ falha ao inicializar", zap.Error(err))
	}
	defer a.Close()

	// 2. Workers
	if a.Rabbit != nil {
		var mirror queue.LeadMirror
		if a.Kommo != nil {
			mirror = a.Kommo
		}
		w := queue.NewWorker(a.Rabbit.Ch, mirror, logg)
		w.OnMirrorError = metrics.RecordIntegrationError
		go func() {
			if err := w.Start(ctx); err != nil {
				logg.Error("❌ worker RabbitMQ parou", zap.Error(err))
			}
		}()
	}

	followUps := worker.NewFollowUpWorker(a.DueFollowUps, cfg.FollowUpInterval, logg, metrics.SetFollowUpsDue)
	go followUps.Start(ctx)

	// 3. Handlers
	limiter := handlers.NewRateLimiter(10, time.Minute) // 10 req/min por IP
	go limiter.Cleanup(ctx)

	leadHandler := &handlers.LeadHandler{
		Profile:  a.LeadProfile,
		History:  a.CommunicationHistory,
		Update:   a.UpdateLead,
		Summary:  a.CommunicationSummary,
		Report:   a.SalesReport,
		Draft:    a.DraftMessage,
		Action:   a.MessageAction,
		OnUpdate: metrics.RecordCrmUpdate,
	}
	dealHandler := handlers.NewDealHandler(a.SimilarDeals)
	researchHandler := handlers.NewResearchHandler(a.CompanyResearch, a.PersonResearch, limiter)
	healthHandler := handlers.NewHealthHandler(
		handlers.PingFunc(func(ctx context.Context) error {
			_, err := a.Store.Load(ctx)
			return err
		}),
		rabbitPinger(a.Rabbit),
		a.ProviderName(),
		cfg.SMTPConfigured(),
		a.Kommo != nil,
	)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", metrics.HeaderUser, metrics.HeaderLead},
	}))
	r.Use(metrics.Metrics)
	r.Use(metrics.Session)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	leadHandler.Routes(r)
	r.Post("/deals/similar", dealHandler.FindSimilar)
	researchHandler.Routes(r)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logg.Info("🔥 Lead Copilot API rodando", zap.String("addr", cfg.ListenAddr), zap.String("provider", a.ProviderName()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Fatal("❌ servidor parou", zap.Error(err))
	}
}

func rabbitPinger(r *queue.RabbitMQ) handlers.Pinger {
	if r == nil {
		return nil
	}
	return handlers.PingFunc(func(context.Context) error {
		if !r.Healthy() {
			return errors.New("connection closed")
		}
		return nil
	})
}
