package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizer_FallbackWithoutProvider(t *testing.T) {
	synth := NewSynthesizer(nil, nil)
	bag := NewEvidenceBag(
		Evidence{Label: "wikipedia", Value: "Acme is a company"},
		Evidence{Label: "google_news", Value: []string{}},
	)

	out, err := synth.Synthesize(context.Background(), CompanySummaryTask, bag)

	require.NoError(t, err)
	assert.Equal(t, "WIKIPEDIA: Acme is a company\n\nGOOGLE NEWS: []", out)
	assert.Equal(t, "fallback", synth.ProviderName())
}

func TestSynthesizer_UsesProvider(t *testing.T) {
	gen := &stubGenerator{reply: "  A summary.  \n"}
	synth := NewSynthesizer(gen, nil)
	var outcome string
	synth.OnGeneration = func(provider, task, o string, _ time.Duration) { outcome = provider + "/" + task + "/" + o }

	out, err := synth.Synthesize(context.Background(), CompanySummaryTask,
		NewEvidenceBag(Evidence{Label: SourceDuckDuckGo, Value: "Acme makes anvils"}))

	require.NoError(t, err)
	assert.Equal(t, "A summary.", out)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].Prompt, "DUCKDUCKGO:\nAcme makes anvils")
	assert.Equal(t, CompanySummaryTask.System, gen.prompts[0].System)
	assert.Equal(t, 1000, gen.prompts[0].MaxTokens)
	assert.Equal(t, "stub/company_summary/success", outcome)
}

func TestSynthesizer_ProviderErrors(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		synth := NewSynthesizer(&stubGenerator{err: errors.New("rate limited")}, nil)
		_, err := synth.Synthesize(context.Background(), PersonSummaryTask, EvidenceBag{})
		require.Error(t, err)
		assert.Equal(t, CodeGeneration, ErrorCode(err))
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("empty reply", func(t *testing.T) {
		synth := NewSynthesizer(&stubGenerator{reply: "   "}, nil)
		_, err := synth.Synthesize(context.Background(), PersonSummaryTask, EvidenceBag{})
		assert.Equal(t, CodeGeneration, ErrorCode(err))
	})
}

func TestSplitEmailDraft(t *testing.T) {
	subject, body := SplitEmailDraft("Subject: Quick idea for Acme\n\nHi Jane,\n\nBody here.")
	assert.Equal(t, "Quick idea for Acme", subject)
	assert.Equal(t, "Hi Jane,\n\nBody here.", body)

	subject, body = SplitEmailDraft("no blank line here")
	assert.Equal(t, "no blank line here", subject)
	assert.Equal(t, "no blank line here", body)
}

func TestParseMessageArtifact(t *testing.T) {
	subject, body := ParseMessageArtifact(FormatEmailDraft("Hello", "Line one\nLine two\n"))
	assert.Equal(t, "Hello", subject)
	assert.Equal(t, "Line one\nLine two", body)
}

func TestArtifactNames(t *testing.T) {
	assert.Equal(t, "company_acme_health.txt", CompanyArtifact(" Acme Health "))
	assert.Equal(t, "linkedin_jane_doe.txt", PersonArtifact("Jane Doe"))
	assert.Equal(t, "report_acme_health_jane_doe.txt", ReportArtifact("Acme Health", "Jane Doe"))
	assert.Equal(t, "comm_L001.txt", CommunicationArtifact("L001"))
	assert.Equal(t, "message_acme_health_jane_doe.txt", MessageArtifact("Acme Health", "Jane Doe"))
}
