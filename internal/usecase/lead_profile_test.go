package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

func TestParseLeadSelection(t *testing.T) {
	first, last, company, err := ParseLeadSelection("Mary Ann Lee - Big Co - EU")
	require.NoError(t, err)
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Ann Lee", last)
	assert.Equal(t, "Big Co - EU", company)

	first, last, _, err = ParseLeadSelection("Cher - Music Inc")
	require.NoError(t, err)
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)

	for _, bad := range []string{"Jane Doe", " - Acme", "Jane Doe - "} {
		_, _, _, err := ParseLeadSelection(bad)
		assert.Equal(t, CodeValidation, ErrorCode(err), bad)
	}
}

func TestLeadProfile(t *testing.T) {
	uc := NewLeadProfileUseCase(seedStore(t), nil)

	t.Run("case-insensitive match", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), "jane DOE - acme health")
		require.NoError(t, err)
		require.NotNil(t, res.LeadInfo)
		assert.Equal(t, "L001", res.LeadInfo.LeadID)
		assert.Equal(t, "America/New_York", res.LeadInfo.Timezone)
	})

	t.Run("default timezone", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), "John Smith - Globex")
		require.NoError(t, err)
		assert.Equal(t, "America/Los_Angeles", res.LeadInfo.Timezone)
	})

	t.Run("no selection lists everything", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, res.Leads, 2)
		assert.Len(t, res.Deals, 5)
		assert.Nil(t, res.LeadInfo)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), "Nobody Here - Acme")
		assert.Equal(t, CodeNotFound, ErrorCode(err))
	})
}

func TestDueFollowUps(t *testing.T) {
	str := func(s string) *string { return &s }
	leads := []entity.Lead{
		{RecordID: "a", NextFollowUp: str("2024-01-10")},
		{RecordID: "b", NextFollowUp: str("2024-01-01")},
		{RecordID: "c", NextFollowUp: str("2024-02-01")},
		{RecordID: "d", NextFollowUp: str("soon")},
		{RecordID: "e"},
		{RecordID: "f", NextFollowUp: str("2024-01-15")},
	}

	due := DueFollowUps(leads, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC))

	require.Len(t, due, 3)
	assert.Equal(t, "b", due[0].RecordID)
	assert.Equal(t, 14, due[0].DaysOverdue)
	assert.Equal(t, "a", due[1].RecordID)
	assert.Equal(t, "f", due[2].RecordID)
	assert.Equal(t, 0, due[2].DaysOverdue)
}

func TestDueFollowUpsUseCase(t *testing.T) {
	uc := NewDueFollowUpsUseCase(seedStore(t), nil)

	due, err := uc.Execute(context.Background(), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "L001", due[0].RecordID)
	assert.Equal(t, "Jane Doe", due[0].Name)
}
