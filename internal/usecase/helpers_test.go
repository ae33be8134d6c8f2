package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-copilot/internal/entity"
	"github.com/xavierca1/lead-copilot/internal/infra/database"
)

// seedStore copies the fixture CRM into a temp dir and opens it.
func seedStore(t *testing.T) *database.JSONDocumentStore {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "crm_data.json"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "crm_data.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return database.NewJSONDocumentStore(path)
}

// memArtifacts is an in-memory ArtifactStore.
type memArtifacts struct {
	mu    sync.Mutex
	files map[string]string
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{files: map[string]string{}}
}

func (m *memArtifacts) Write(name, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
	return "outputs/" + name, nil
}

func (m *memArtifacts) Read(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[name]
	if !ok {
		return "", os.ErrNotExist
	}
	return c, nil
}

func (m *memArtifacts) Path(name string) string { return "outputs/" + name }

// stubGenerator answers every prompt with a fixed reply.
type stubGenerator struct {
	reply   string
	err     error
	prompts []GenerationRequest
}

func (g *stubGenerator) Provider() string { return "stub" }

func (g *stubGenerator) Generate(_ context.Context, req GenerationRequest) (string, error) {
	g.prompts = append(g.prompts, req)
	return g.reply, g.err
}

type recordingPublisher struct {
	events []entity.LeadUpdatedEvent
	err    error
}

func (p *recordingPublisher) PublishLeadUpdated(_ context.Context, ev entity.LeadUpdatedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func floatPtr(f float64) *float64 { return &f }
