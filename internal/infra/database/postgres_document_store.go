package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

const defaultDocumentID = "default"

// PostgresDocumentStore keeps the whole CRM document in a single jsonb row.
// It has the same read-modify-write semantics as the file store; the row
// lock taken in Update plays the role of the file store's mutex.
type PostgresDocumentStore struct {
	DB         *sql.DB
	DocumentID string
}

func NewPostgresDocumentStore(db *sql.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{DB: db, DocumentID: defaultDocumentID}
}

func (r *PostgresDocumentStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS crm_documents (
			id         TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := r.DB.ExecContext(ctx, query)
	return err
}

func (r *PostgresDocumentStore) Load(ctx context.Context) (*entity.CrmDocument, error) {
	var body []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT body FROM crm_documents WHERE id = $1`, r.DocumentID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%s", ErrDocumentNotFound, r.DocumentID)
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(body)
}

func (r *PostgresDocumentStore) Save(ctx context.Context, doc *entity.CrmDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode crm document: %w", err)
	}
	query := `
		INSERT INTO crm_documents (id, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	_, err = r.DB.ExecContext(ctx, query, r.DocumentID, body)
	return err
}

func (r *PostgresDocumentStore) Update(ctx context.Context, fn func(doc *entity.CrmDocument) (bool, error)) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var body []byte
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM crm_documents WHERE id = $1 FOR UPDATE`, r.DocumentID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%s", ErrDocumentNotFound, r.DocumentID)
	}
	if err != nil {
		return err
	}

	doc, err := decodeDocument(body)
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

	updated, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode crm document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE crm_documents SET body = $2, updated_at = NOW() WHERE id = $1`,
		r.DocumentID, updated,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func decodeDocument(body []byte) (*entity.CrmDocument, error) {
	var doc entity.CrmDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse crm document: %w", err)
	}
	return &doc, nil
}
