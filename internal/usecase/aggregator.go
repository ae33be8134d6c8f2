package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultSourceTimeout = 15 * time.Second

// Subject identifies what the evidence is about: a company, or a person at
// a company.
type Subject struct {
	CompanyName string
	PersonName  string
	LinkedInURL string
}

func (s Subject) IsPerson() bool {
	return strings.TrimSpace(s.PersonName) != ""
}

// PersonQuery joins the person's name with the company (when known) and
// an optional suffix, e.g. "Jane Doe Acme LinkedIn".
func (s Subject) PersonQuery(suffix string) string {
	parts := []string{strings.TrimSpace(s.PersonName)}
	if c := strings.TrimSpace(s.CompanyName); c != "" {
		parts = append(parts, c)
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, " ")
}

// EvidenceSource is one independently fallible data source. A failed Fetch
// is replaced by EmptyValue in the bag.
type EvidenceSource interface {
	Name() string
	EmptyValue() any
	Fetch(ctx context.Context, subject Subject, prior EvidenceBag) (any, error)
}

// DependentSource runs after every plain source has finished and receives
// their results in prior.
type DependentSource interface {
	EvidenceSource
	Dependent() bool
}

// CompanyURLProvider is implemented by evidence values that resolved the
// company's website (the search sources).
type CompanyURLProvider interface {
	CompanyURL() string
}

type Evidence struct {
	Label string
	Value any
	// Failed marks a source that errored; Value then holds its empty value.
	Failed bool
}

// EvidenceBag is a label->payload mapping that keeps source order. It is
// handed downstream unexamined.
type EvidenceBag struct {
	entries []Evidence
}

func NewEvidenceBag(entries ...Evidence) EvidenceBag {
	return EvidenceBag{entries: entries}
}

func (b EvidenceBag) Get(label string) (any, bool) {
	for _, e := range b.entries {
		if e.Label == label {
			return e.Value, true
		}
	}
	return nil, false
}

func (b EvidenceBag) Entries() []Evidence {
	out := make([]Evidence, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b EvidenceBag) Len() int {
	return len(b.entries)
}

func (b EvidenceBag) Failed() []string {
	var names []string
	for _, e := range b.entries {
		if e.Failed {
			names = append(names, e.Label)
		}
	}
	return names
}

// With returns a copy of the bag with label appended (or replaced).
func (b EvidenceBag) With(label string, value any) EvidenceBag {
	out := EvidenceBag{entries: make([]Evidence, 0, len(b.entries)+1)}
	replaced := false
	for _, e := range b.entries {
		if e.Label == label {
			e.Value = value
			replaced = true
		}
		out.entries = append(out.entries, e)
	}
	if !replaced {
		out.entries = append(out.entries, Evidence{Label: label, Value: value})
	}
	return out
}

// CompanyURL returns the first website resolved by any source in the bag.
func (b EvidenceBag) CompanyURL() string {
	for _, e := range b.entries {
		if p, ok := e.Value.(CompanyURLProvider); ok {
			if u := p.CompanyURL(); u != "" {
				return u
			}
		}
	}
	return ""
}

// Text renders one entry for a prompt. Strings are used as-is, everything
// else as indented JSON.
func (b EvidenceBag) Text(label string) string {
	v, ok := b.Get(label)
	if !ok {
		return ""
	}
	return renderValue(v)
}

func (b EvidenceBag) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range b.entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, _ := json.Marshal(e.Label)
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("evidence %s: %w", e.Label, err)
		}
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case fmt.Stringer:
		return t.String()
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}

// Aggregator polls its sources concurrently and always returns a bag, even
// when every source fails. Sources are never retried.
type Aggregator struct {
	Sources []EvidenceSource
	Timeout time.Duration
	Logger  *zap.Logger
	// OnSourceFailure is called once per failed source (metrics hook).
	OnSourceFailure func(source string, err error)
	// OnSourceDone is called once per finished source with its duration.
	OnSourceDone func(source string, took time.Duration)
}

func NewAggregator(logger *zap.Logger, timeout time.Duration, sources ...EvidenceSource) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &Aggregator{Sources: sources, Timeout: timeout, Logger: logger}
}

func (a *Aggregator) Collect(ctx context.Context, subject Subject) EvidenceBag {
	var first, second []int
	for i, src := range a.Sources {
		if d, ok := src.(DependentSource); ok && d.Dependent() {
			second = append(second, i)
		} else {
			first = append(first, i)
		}
	}

	results := make([]Evidence, len(a.Sources))
	a.runStage(ctx, subject, first, EvidenceBag{}, results)

	if len(second) > 0 {
		prior := EvidenceBag{}
		for _, i := range first {
			prior.entries = append(prior.entries, results[i])
		}
		a.runStage(ctx, subject, second, prior, results)
	}

	return EvidenceBag{entries: results}
}

func (a *Aggregator) runStage(ctx context.Context, subject Subject, idx []int, prior EvidenceBag, results []Evidence) {
	var g errgroup.Group
	for _, i := range idx {
		i := i
		src := a.Sources[i]
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, src, subject, prior)
			return nil
		})
	}
	_ = g.Wait() // fetchOne nunca retorna erro
}

func (a *Aggregator) fetchOne(ctx context.Context, src EvidenceSource, subject Subject, prior EvidenceBag) (ev Evidence) {
	name := src.Name()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			ev = a.failed(src, fmt.Errorf("panic: %v", r))
		}
		if a.OnSourceDone != nil {
			a.OnSourceDone(name, time.Since(start))
		}
	}()

	value, err := src.Fetch(ctx, subject, prior)
	if err != nil {
		return a.failed(src, err)
	}
	if value == nil {
		value = src.EmptyValue()
	}
	return Evidence{Label: name, Value: value}
}

// failed records a PartialDataWarning: logged and counted, never returned.
func (a *Aggregator) failed(src EvidenceSource, err error) Evidence {
	a.Logger.Warn("partial data: evidence source failed",
		zap.String("source", src.Name()), zap.Error(err))
	if a.OnSourceFailure != nil {
		a.OnSourceFailure(src.Name(), err)
	}
	return Evidence{Label: src.Name(), Value: src.EmptyValue(), Failed: true}
}
