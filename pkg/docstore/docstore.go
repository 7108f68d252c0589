// Package docstore is a small document database over a PostgreSQL JSONB table.
// Every record lives in a named collection and is addressed by a string id.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"constructhub/pkg/idgen"
)

// Schema creates the documents table. Safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT        NOT NULL,
    id         TEXT        NOT NULL,
    data       JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    deleted_at TIMESTAMPTZ,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_data_gin_idx ON documents USING GIN (data jsonb_path_ops);
`

var ErrNotFound = errors.New("document not found")

// Document is a raw stored record.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Decode unmarshals the document body into dst.
func (d Document) Decode(dst any) error {
	if err := json.Unmarshal(d.Data, dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}
	return nil
}

// Querier is the part of *pgxpool.Pool the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store struct {
	db     Querier
	logger *zap.Logger
}

func New(db Querier, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// EnsureSchema runs the given DDL statements in order.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const selectDocument = `
	SELECT collection, id, data, created_at, updated_at
	FROM documents
`

// Get fetches one live document; ErrNotFound when missing or soft-deleted.
func (s *Store) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.logger.Debug("Fetching document", zap.String("collection", collection), zap.String("id", id))

	var d Document
	err := s.db.QueryRow(ctx, selectDocument+`
		WHERE collection = $1 AND id = $2 AND deleted_at IS NULL
	`, collection, id).Scan(&d.Collection, &d.ID, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		s.logger.Error("Failed to fetch document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &d, nil
}

// QueryByField returns live documents whose top-level field equals value.
// value is compared in its text form, so true, 42 and "42" all work.
func (s *Store) QueryByField(ctx context.Context, collection, field string, value any) ([]Document, error) {
	s.logger.Debug("Querying documents",
		zap.String("collection", collection),
		zap.String("field", field),
	)

	rows, err := s.db.Query(ctx, selectDocument+`
		WHERE collection = $1 AND deleted_at IS NULL AND data->>$2 = $3
		ORDER BY created_at DESC
	`, collection, field, fmt.Sprint(value))
	if err != nil {
		s.logger.Error("Failed to query documents",
			zap.String("collection", collection),
			zap.String("field", field),
			zap.Error(err),
		)
		return nil, fmt.Errorf("query %s by %s: %w", collection, field, err)
	}
	return scanDocuments(rows)
}

// List returns up to limit live documents, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, collection string, limit int) ([]Document, error) {
	query := selectDocument + `
		WHERE collection = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	args := []any{collection}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error("Failed to list documents", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return scanDocuments(rows)
}

// Add stores data under a generated id and returns it.
func (s *Store) Add(ctx context.Context, collection string, data any) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := idgen.New()
	if _, err := s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
	`, collection, id, body); err != nil {
		s.logger.Error("Failed to add document", zap.String("collection", collection), zap.Error(err))
		return "", fmt.Errorf("add %s: %w", collection, err)
	}

	s.logger.Info("Document added", zap.String("collection", collection), zap.String("id", id))
	return id, nil
}

// Update merges fields into the stored document (shallow JSON merge).
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode update for %s/%s: %w", collection, id, err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2 AND deleted_at IS NULL
	`, collection, id, body)
	if err != nil {
		s.logger.Error("Failed to update document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}

// SetPath replaces the single value at path inside the stored document and
// leaves everything else untouched. Array elements are addressed by their
// index as a string. The parent of path must already exist.
func (s *Store) SetPath(ctx context.Context, collection, id string, path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("set %s/%s: empty path", collection, id)
	}
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %s/%s: %w", collection, id, err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE documents
		SET data = jsonb_set(data, $3::text[], $4::jsonb, true), updated_at = NOW()
		WHERE collection = $1 AND id = $2 AND deleted_at IS NULL
		  AND data #> $5::text[] IS NOT NULL
	`, collection, id, path, body, path[:len(path)-1])
	if err != nil {
		s.logger.Error("Failed to set document path",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Strings("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("set %s/%s %v: %w", collection, id, path, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s %v", ErrNotFound, collection, id, path)
	}
	return nil
}

// SoftDelete hides a document from every read.
func (s *Store) SoftDelete(ctx context.Context, collection, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE documents SET deleted_at = NOW()
		WHERE collection = $1 AND id = $2 AND deleted_at IS NULL
	`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	s.logger.Info("Document soft-deleted", zap.String("collection", collection), zap.String("id", id))
	return nil
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Collection, &d.ID, &d.Data, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
