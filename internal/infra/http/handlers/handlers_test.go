package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type MockSimilarity struct{ mock.Mock }

func (m *MockSimilarity) FindSimilarDeals(ctx context.Context, input usecase.SimilarDealsInput) usecase.SimilarDealsResult {
	return m.Called(ctx, input).Get(0).(usecase.SimilarDealsResult)
}

type MockUpdater struct{ mock.Mock }

func (m *MockUpdater) Execute(ctx context.Context, input usecase.UpdateLeadInput) usecase.UpdateResult {
	return m.Called(ctx, input).Get(0).(usecase.UpdateResult)
}

type MockProfile struct{ mock.Mock }

func (m *MockProfile) Execute(ctx context.Context, selected string) (*usecase.LeadProfileResult, error) {
	args := m.Called(ctx, selected)
	out, _ := args.Get(0).(*usecase.LeadProfileResult)
	return out, args.Error(1)
}

type MockHistory struct{ mock.Mock }

func (m *MockHistory) Execute(ctx context.Context, leadID string) (*usecase.CommunicationHistory, error) {
	args := m.Called(ctx, leadID)
	out, _ := args.Get(0).(*usecase.CommunicationHistory)
	return out, args.Error(1)
}

type MockCompanyResearch struct{ mock.Mock }

func (m *MockCompanyResearch) Execute(ctx context.Context, input usecase.CompanyResearchInput) usecase.ResearchResult {
	return m.Called(ctx, input).Get(0).(usecase.ResearchResult)
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestDealHandler_FindSimilar - status HTTP conforme o código do resultado
func TestDealHandler_FindSimilar(t *testing.T) {
	tests := []struct {
		name   string
		result usecase.SimilarDealsResult
		want   int
	}{
		{"sucesso", usecase.SimilarDealsResult{Status: usecase.StatusSuccess}, http.StatusOK},
		{"validação", usecase.SimilarDealsResult{Status: usecase.StatusError, Code: usecase.CodeValidation}, http.StatusBadRequest},
		{"storage", usecase.SimilarDealsResult{Status: usecase.StatusError, Code: usecase.CodeStorage}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSimilarity)
			svc.On("FindSimilarDeals", mock.Anything, usecase.SimilarDealsInput{Industry: "Healthcare"}).Return(tt.result)

			r := chi.NewRouter()
			r.Post("/deals/similar", NewDealHandler(svc).FindSimilar)
			rec := do(t, r, http.MethodPost, "/deals/similar", `{"industry":"Healthcare"}`)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			svc.AssertExpectations(t)
		})
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	svc := new(MockSimilarity)
	r := chi.NewRouter()
	r.Post("/deals/similar", NewDealHandler(svc).FindSimilar)

	rec := do(t, r, http.MethodPost, "/deals/similar", `{"industry":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_JSON", resp.Code)
	svc.AssertNotCalled(t, "FindSimilarDeals", mock.Anything, mock.Anything)
}

// TestLeadHandler_UpdateLead - id vem da rota e o status alimenta a métrica
func TestLeadHandler_UpdateLead(t *testing.T) {
	tests := []struct {
		name   string
		result usecase.UpdateResult
		want   int
	}{
		{"sucesso", usecase.UpdateResult{Status: usecase.StatusSuccess, RecordID: "L001"}, http.StatusOK},
		{"sem mudança", usecase.UpdateResult{Status: usecase.StatusNoUpdate}, http.StatusOK},
		{"lead inexistente", usecase.UpdateResult{Status: usecase.StatusError, Code: usecase.CodeNotFound}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd := new(MockUpdater)
			upd.On("Execute", mock.Anything, usecase.UpdateLeadInput{
				RecordID:      "L001",
				EmailMessage:  "hi",
				EmailSentDate: "2024-01-01",
			}).Return(tt.result)

			var seen string
			h := &LeadHandler{Update: upd, OnUpdate: func(s string) { seen = s }}
			r := chi.NewRouter()
			h.Routes(r)

			rec := do(t, r, http.MethodPost, "/leads/L001/update",
				`{"record_id":"ignored","email_message":"hi","email_sent_date":"2024-01-01"}`)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.result.Status, seen)
			upd.AssertExpectations(t)
		})
	}
}

func TestLeadHandler_Lookup(t *testing.T) {
	profile := new(MockProfile)
	profile.On("Execute", mock.Anything, "Jane Doe - Acme").
		Return(&usecase.LeadProfileResult{Status: usecase.StatusSuccess}, nil)
	profile.On("Execute", mock.Anything, "Ghost - Nowhere").
		Return(nil, usecase.NewNotFoundError("lead not found"))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := usecase.Session{SelectedLead: r.Header.Get("X-Lead-ID")}
			next.ServeHTTP(w, r.WithContext(usecase.WithSession(r.Context(), s)))
		})
	})
	(&LeadHandler{Profile: profile}).Routes(r)

	t.Run("query string", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/leads/lookup?selected=Jane+Doe+-+Acme", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("lead da sessão", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/leads/lookup", "", "X-Lead-ID", "Jane Doe - Acme")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("sem seleção", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/leads/lookup", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("não encontrado", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/leads/lookup?selected=Ghost+-+Nowhere", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, usecase.CodeNotFound, resp.Code)
	})
}

func TestLeadHandler_GetHistory(t *testing.T) {
	hist := new(MockHistory)
	hist.On("Execute", mock.Anything, "L001").Return(&usecase.CommunicationHistory{}, nil)
	hist.On("Execute", mock.Anything, "L999").Return(nil, usecase.NewStorageError("load", errors.New("disk")))

	r := chi.NewRouter()
	(&LeadHandler{History: hist}).Routes(r)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/leads/L001/history", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/leads/L999/history", "").Code)
}

// TestResearchHandler_RateLimit - terceira chamada do mesmo IP recebe 429
func TestResearchHandler_RateLimit(t *testing.T) {
	company := new(MockCompanyResearch)
	company.On("Execute", mock.Anything, usecase.CompanyResearchInput{CompanyName: "Acme"}).
		Return(usecase.ResearchResult{Status: usecase.StatusSuccess})

	r := chi.NewRouter()
	NewResearchHandler(company, nil, NewRateLimiter(2, time.Minute)).Routes(r)

	body := `{"company_name":"Acme"}`
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/research/company", body, "X-Forwarded-For", "1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/research/company", body, "X-Forwarded-For", "1.1.1.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, r, http.MethodPost, "/research/company", body, "X-Forwarded-For", "1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/research/company", body, "X-Forwarded-For", "2.2.2.2").Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"X-Forwarded-For", map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, "1.2.3.4:5", "9.9.9.9"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "8.8.8.8"}, "1.2.3.4:5", "8.8.8.8"},
		{"RemoteAddr", nil, "1.2.3.4:5", "1.2.3.4"},
		{"RemoteAddr sem porta", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

// TestHealthHandler - store fora do ar deixa o serviço degradado
func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("saudável sem broker", func(t *testing.T) {
		rec := do(t, http.HandlerFunc(NewHealthHandler(ok, nil, "claude", true, false).Handle), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "not configured", resp.Dependencies["rabbitmq"])
		assert.Equal(t, "claude", resp.Dependencies["text_generation"])
		assert.Equal(t, "configured", resp.Dependencies["smtp"])
		assert.Equal(t, "not configured", resp.Dependencies["kommo"])
	})

	t.Run("store indisponível", func(t *testing.T) {
		rec := do(t, http.HandlerFunc(NewHealthHandler(down, ok, "fallback", false, false).Handle), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Contains(t, resp.Dependencies["crm_store"], "connection refused")
	})
}
