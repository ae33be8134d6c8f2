package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

var jane = usecase.Recipient{Name: "Jane Doe", Email: "jane@acme.com", LeadID: "L001"}

func newSender(d Dialer) *EmailSender {
	return NewEmailSender("smtp.test", 587, "user", "pass", "sales@us.com", nil).WithDialer(d)
}

// TestSendEmail - texto puro com alternativa HTML
func TestSendEmail(t *testing.T) {
	d := &fakeDialer{}
	ok, err := newSender(d).SendEmail(context.Background(), "Hello", "Hi Jane,\n\nLet us <talk>.", jane)

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"Hello"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{`"Jane Doe" <jane@acme.com>`}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "&lt;talk&gt;")
}

func TestSendEmail_Failures(t *testing.T) {
	t.Run("SMTP não configurado", func(t *testing.T) {
		s := NewEmailSender("smtp.test", 587, "", "", "", nil).WithDialer(&fakeDialer{})
		ok, err := s.SendEmail(context.Background(), "s", "b", jane)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("destinatário sem email", func(t *testing.T) {
		d := &fakeDialer{}
		ok, err := newSender(d).SendEmail(context.Background(), "s", "b", usecase.Recipient{LeadID: "L9"})
		assert.False(t, ok)
		assert.ErrorContains(t, err, "L9")
		assert.Empty(t, d.sent)
	})

	t.Run("servidor recusa", func(t *testing.T) {
		d := &fakeDialer{err: errors.New("535 auth failed")}
		ok, err := newSender(d).SendEmail(context.Background(), "s", "b", jane)
		assert.False(t, ok)
		assert.ErrorContains(t, err, "535")
	})

	t.Run("contexto cancelado", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d := &fakeDialer{}
		ok, err := newSender(d).SendEmail(ctx, "s", "b", jane)
		assert.False(t, ok)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, d.sent)
	})
}

func TestParagraphs(t *testing.T) {
	got := paragraphs("one\n\n\n\n two \n\n")
	assert.Equal(t, []string{"one", "two"}, got)

	html, err := renderHTML(OutreachEmailData{Paragraphs: got})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<html><body><p>one</p>"))
}
