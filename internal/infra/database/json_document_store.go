package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

var ErrDocumentNotFound = errors.New("crm document not found")

// JSONDocumentStore keeps the CRM as one JSON file. Every read goes to disk;
// writes replace the file through a temp file + rename so readers never see
// a half-written document.
type JSONDocumentStore struct {
	path string
	mu   sync.Mutex
}

func NewJSONDocumentStore(path string) *JSONDocumentStore {
	return &JSONDocumentStore{path: path}
}

func (s *JSONDocumentStore) Path() string {
	return s.path
}

func (s *JSONDocumentStore) Load(ctx context.Context) (*entity.CrmDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, s.path)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc entity.CrmDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &doc, nil
}

func (s *JSONDocumentStore) Save(ctx context.Context, doc *entity.CrmDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

func (s *JSONDocumentStore) Update(ctx context.Context, fn func(doc *entity.CrmDocument) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.save(ctx, doc)
}

func (s *JSONDocumentStore) save(ctx context.Context, doc *entity.CrmDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode crm document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op depois do rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
