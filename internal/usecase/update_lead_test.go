package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-copilot/internal/entity"
	"github.com/xavierca1/lead-copilot/internal/infra/database"
)

func loadLead(t *testing.T, store CrmStore, id string) *entity.Lead {
	t.Helper()
	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	lead := doc.FindLead(id)
	require.NotNil(t, lead)
	return lead
}

// TestUpdateLead_EmailSent - mensagem + data: log, last_contact e follow-up +7 dias
func TestUpdateLead_EmailSent(t *testing.T) {
	store := seedStore(t)
	pub := &recordingPublisher{}
	uc := NewUpdateLeadUseCase(store, pub, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{
		RecordID:      "L001",
		EmailMessage:  "Hi Jane",
		EmailSentDate: "2024-01-01",
	})

	require.Equal(t, StatusSuccess, res.Status)
	lead := loadLead(t, store, "L001")
	require.Len(t, lead.MessageLog, 1)
	assert.Equal(t, entity.MessageLogEntry{Message: "Hi Jane", Timestamp: "2024-01-01"}, lead.MessageLog[0])
	assert.Equal(t, "2024-01-01", *lead.LastContactDate)
	assert.Equal(t, "2024-01-08", *lead.NextFollowUp)
	assert.Equal(t, 1, lead.InteractionCount)
	// chaves desconhecidas sobrevivem à regravação
	assert.Contains(t, lead.Extra, "source")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "L001", pub.events[0].RecordID)
	assert.Equal(t, 1, pub.events[0].InteractionCount)
	assert.Equal(t, "Hi Jane", pub.events[0].LastMessage)
}

func TestUpdateLead_ExplicitFollowUpWins(t *testing.T) {
	store := seedStore(t)
	uc := NewUpdateLeadUseCase(store, nil, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{
		RecordID:      "L001",
		EmailMessage:  "Hi",
		EmailSentDate: "2024-01-01",
		NextFollowUp:  "2024-03-01",
	})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "2024-03-01", *loadLead(t, store, "L001").NextFollowUp)
}

func TestUpdateLead_FollowUpOnly(t *testing.T) {
	store := seedStore(t)
	uc := NewUpdateLeadUseCase(store, nil, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{RecordID: "L002", NextFollowUp: "2024-04-01"})

	require.Equal(t, StatusSuccess, res.Status)
	lead := loadLead(t, store, "L002")
	assert.Equal(t, "2024-04-01", *lead.NextFollowUp)
	assert.Equal(t, 4, lead.InteractionCount)
	assert.Len(t, lead.MessageLog, 1)
}

func TestUpdateLead_MessageWithoutDate(t *testing.T) {
	store := seedStore(t)
	uc := NewUpdateLeadUseCase(store, nil, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{RecordID: "L001", EmailMessage: "Hi"})

	assert.Equal(t, StatusNoUpdate, res.Status)
	lead := loadLead(t, store, "L001")
	assert.Empty(t, lead.MessageLog)
	assert.Equal(t, 0, lead.InteractionCount)
}

func TestUpdateLead_UnparseableDate(t *testing.T) {
	store := seedStore(t)
	uc := NewUpdateLeadUseCase(store, nil, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{
		RecordID:      "L001",
		EmailMessage:  "Hi",
		EmailSentDate: "01/02/2024",
	})

	require.Equal(t, StatusSuccess, res.Status)
	lead := loadLead(t, store, "L001")
	require.Len(t, lead.MessageLog, 1)
	assert.Equal(t, "01/02/2024", *lead.LastContactDate)
	// follow-up anterior fica como estava
	assert.Equal(t, "2024-01-05", *lead.NextFollowUp)
}

func TestUpdateLead_UnknownRecordLeavesFileUntouched(t *testing.T) {
	store := seedStore(t)
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	pub := &recordingPublisher{}
	uc := NewUpdateLeadUseCase(store, pub, nil)
	res := uc.Execute(context.Background(), UpdateLeadInput{
		RecordID:      "NOPE",
		EmailMessage:  "Hi",
		EmailSentDate: "2024-01-01",
	})

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, CodeNotFound, res.Code)
	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, pub.events)
}

func TestUpdateLead_TwoCallsAppendInOrder(t *testing.T) {
	store := seedStore(t)
	uc := NewUpdateLeadUseCase(store, nil, nil)

	for _, in := range []UpdateLeadInput{
		{RecordID: "L001", EmailMessage: "first", EmailSentDate: "2024-01-01"},
		{RecordID: "L001", EmailMessage: "second", EmailSentDate: "2024-01-03"},
	} {
		require.Equal(t, StatusSuccess, uc.Execute(context.Background(), in).Status)
	}

	lead := loadLead(t, store, "L001")
	assert.Equal(t, 2, lead.InteractionCount)
	require.Len(t, lead.MessageLog, 2)
	assert.Equal(t, "first", lead.MessageLog[0].Message)
	assert.Equal(t, "second", lead.MessageLog[1].Message)
	assert.Equal(t, "2024-01-10", *lead.NextFollowUp)
}

// TestUpdateLead_KeepsOtherLeadsIrregularLog - atualizar um lead não apaga o log de outro
func TestUpdateLead_KeepsOtherLeadsIrregularLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"crm_leads":[
		{"record_id":"1","first_name":"Ana","message_log":[]},
		{"record_id":"2","first_name":"Bia","message_log":[{"message":"old","timestamp":1704067200},"legacy note"]}
	],"deals":[]}`), 0o644))
	store := database.NewJSONDocumentStore(path)
	uc := NewUpdateLeadUseCase(store, nil, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{RecordID: "1", NextFollowUp: "2024-02-01"})
	require.Equal(t, StatusSuccess, res.Status)

	res = uc.Execute(context.Background(), UpdateLeadInput{RecordID: "2", EmailMessage: "new", EmailSentDate: "2024-02-02"})
	require.Equal(t, StatusSuccess, res.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Leads []struct {
			RecordID   string            `json:"record_id"`
			MessageLog []json.RawMessage `json:"message_log"`
		} `json:"crm_leads"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Leads, 2)
	log := doc.Leads[1].MessageLog
	require.Len(t, log, 3)
	assert.JSONEq(t, `{"message":"old","timestamp":1704067200}`, string(log[0]))
	assert.JSONEq(t, `"legacy note"`, string(log[1]))
	assert.JSONEq(t, `{"message":"new","timestamp":"2024-02-02"}`, string(log[2]))
}

func TestUpdateLead_PublishFailureDoesNotChangeResult(t *testing.T) {
	store := seedStore(t)
	uc := NewUpdateLeadUseCase(store, &recordingPublisher{err: errors.New("broker down")}, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{RecordID: "L002", NextFollowUp: "2024-04-01"})

	assert.Equal(t, StatusSuccess, res.Status)
}

func TestUpdateLead_Validation(t *testing.T) {
	uc := NewUpdateLeadUseCase(seedStore(t), nil, nil)

	res := uc.Execute(context.Background(), UpdateLeadInput{RecordID: "  "})

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, CodeValidation, res.Code)
}
