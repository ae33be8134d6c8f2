package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/app"
	"github.com/xavierca1/lead-copilot/internal/config"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const crmSeed = `{
  "crm_leads": [
    {"record_id": "L001", "first_name": "Jane", "last_name": "Doe", "company_name": "Acme Health",
     "email": "jane@acme.com", "industry": "Healthcare", "next_follow_up": "2024-01-05",
     "interaction_count": 0, "message_log": []}
  ],
  "deals": [
    {"id": "D1", "company": "MedCo", "industry": "Healthcare", "deal_size": 48000, "status": "successful"},
    {"id": "D2", "company": "ShopMart", "industry": "Retail", "deal_size": 20000, "status": "successful"}
  ]
}`

// newTestApp monta a aplicação com store em arquivo, sem broker nem LLM.
func newTestApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "crm_data.json")
	require.NoError(t, os.WriteFile(path, []byte(crmSeed), 0o644))

	cfg := config.Config{
		CrmBackend:  "file",
		CrmDataPath: path,
		OutputsDir:  filepath.Join(dir, "outputs"),
	}
	a, err := app.Build(context.Background(), cfg, zap.NewNop(), app.Options{})
	require.NoError(t, err)

	application = a
	t.Cleanup(func() { application = nil })
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// TestSimilarDealsCmd - indústria igual primeiro, depois só bônus de tamanho
func TestSimilarDealsCmd(t *testing.T) {
	newTestApp(t)

	out, err := run(t, "similar-deals", "--industry", "Healthcare", "--deal-size", "50000")
	require.NoError(t, err)

	var res usecase.SimilarDealsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, usecase.StatusSuccess, res.Status)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "D1", res.Matches[0].DealID)
	assert.Equal(t, 0.08, res.Matches[1].SimilarityScore)
}

func TestUpdateLeadCmd(t *testing.T) {
	path := newTestApp(t)

	out, err := run(t, "update-lead", "L001", "--message", "hello", "--date", "2024-01-01")
	require.NoError(t, err)

	var res usecase.UpdateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, usecase.StatusSuccess, res.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"next_follow_up": "2024-01-08"`)
}

func TestFollowupsCmd(t *testing.T) {
	newTestApp(t)

	out, err := run(t, "followups", "--date", "2024-01-10")
	require.NoError(t, err)

	var due []usecase.DueFollowUp
	require.NoError(t, json.Unmarshal([]byte(out), &due))
	require.Len(t, due, 1)
	assert.Equal(t, 5, due[0].DaysOverdue)

	_, err = run(t, "followups", "--date", "10/01/2024")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestDraftCmd_UnknownLead(t *testing.T) {
	newTestApp(t)

	_, err := run(t, "draft", "L999")
	assert.ErrorContains(t, err, "L999")
}

func TestArgsValidation(t *testing.T) {
	newTestApp(t)

	_, err := run(t, "history")
	assert.Error(t, err)
}
