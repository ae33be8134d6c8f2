package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Pinger is anything whose liveness can be checked (CRM store, broker).
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	Store     Pinger
	RabbitMQ  Pinger
	Provider  string
	Mail      bool
	Kommo     bool
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store, rabbitMQ Pinger, provider string, mail, kommo bool) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		RabbitMQ:  rabbitMQ,
		Provider:  provider,
		Mail:      mail,
		Kommo:     kommo,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	deps["crm_store"] = check(r.Context(), h.Store)
	deps["rabbitmq"] = check(r.Context(), h.RabbitMQ)

	deps["text_generation"] = h.Provider
	deps["smtp"] = configured(h.Mail)
	deps["kommo"] = configured(h.Kommo)

	status := "healthy"
	for _, k := range []string{"crm_store", "rabbitmq"} {
		if v := deps[k]; v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Sprintf("unhealthy: %v", err)
	}
	return "healthy"
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
