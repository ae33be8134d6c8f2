package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

var (
	ErrNotConfigured   = errors.New("kommo não configurado")
	errContactNotFound = errors.New("contato não encontrado")
)

type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
}

func NewClient(baseURL, apiToken string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiToken: apiToken,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

func (c *Client) Configured() bool {
	return c.apiToken != "" && c.baseURL != ""
}

// MirrorLeadUpdate writes the CRM update as a note on the lead's Kommo
// contact, creating the contact when it does not exist yet.
func (c *Client) MirrorLeadUpdate(ctx context.Context, ev entity.LeadUpdatedEvent) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, ev)
	if err != nil {
		return fmt.Errorf("erro ao criar/buscar contato: %w", err)
	}

	notes := []noteRequest{{NoteType: "common", Params: noteParams{Text: NoteText(ev)}}}
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/contacts/%d/notes", contactID), notes); err != nil {
		return fmt.Errorf("erro ao criar nota: %w", err)
	}

	c.logger.Info("✅ Kommo: nota registrada",
		zap.Int("contact_id", contactID), zap.String("record_id", ev.RecordID))
	return nil
}

// NoteText is the human-readable summary stored on the contact.
func NoteText(ev entity.LeadUpdatedEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CRM update for lead %s (%s)\n", ev.RecordID, ev.CompanyName)
	fmt.Fprintf(&sb, "Interactions: %d\n", ev.InteractionCount)
	if ev.LastContactDate != "" {
		fmt.Fprintf(&sb, "Last contact: %s\n", ev.LastContactDate)
	}
	if ev.NextFollowUp != "" {
		fmt.Fprintf(&sb, "Next follow-up: %s\n", ev.NextFollowUp)
	}
	if ev.LastMessage != "" {
		fmt.Fprintf(&sb, "\n%s", ev.LastMessage)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Client) findOrCreateContact(ctx context.Context, ev entity.LeadUpdatedEvent) (int, error) {
	for _, q := range []string{ev.Email, ev.Phone} {
		if q == "" {
			continue
		}
		id, err := c.findContact(ctx, q)
		if err == nil {
			c.logger.Debug("📱 Kommo: contato existente encontrado", zap.Int("contact_id", id))
			return id, nil
		}
		if !errors.Is(err, errContactNotFound) {
			return 0, err
		}
	}
	return c.createContact(ctx, ev)
}

func (c *Client) findContact(ctx context.Context, query string) (int, error) {
	body, err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(query), nil)
	if err != nil {
		return 0, err
	}
	// 204 sem corpo quando não há resultados
	if len(body) == 0 {
		return 0, errContactNotFound
	}

	var result contactsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errContactNotFound
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, ev entity.LeadUpdatedEvent) (int, error) {
	fields := []customField{}
	if ev.Email != "" {
		fields = append(fields, customField{FieldCode: "EMAIL", Values: []fieldValue{{Value: ev.Email, EnumCode: "WORK"}}})
	}
	if ev.Phone != "" {
		fields = append(fields, customField{FieldCode: "PHONE", Values: []fieldValue{{Value: ev.Phone, EnumCode: "WORK"}}})
	}
	contacts := []contactRequest{{
		Name:               fmt.Sprintf("%s (%s)", ev.Email, ev.CompanyName),
		CustomFieldsValues: fields,
	}}

	body, err := c.do(ctx, http.MethodPost, "/contacts", contacts)
	if err != nil {
		return 0, err
	}
	var result contactsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("erro ao obter ID do contato criado")
	}

	id := result.Embedded.Contacts[0].ID
	c.logger.Info("✅ Kommo: novo contato criado", zap.Int("contact_id", id))
	return id, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
