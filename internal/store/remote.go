package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RemoteStore is the hosted backend: the same document-style collections,
// persisted in a PostgreSQL table keyed by (collection, id). It is a thin
// pass-through with no retry or backoff; every error propagates to the
// caller, which owns the fallback decision.
type RemoteStore struct {
	db *sqlx.DB
}

// NewRemoteStore wraps an open database handle.
func NewRemoteStore(db *sqlx.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

// EnsureSchema creates the documents table when missing.
func (s *RemoteStore) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, id)
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Collection returns a handle over one named collection.
func (s *RemoteStore) Collection(name string) Collection {
	return &remoteCollection{db: s.db, name: name}
}

// Ping verifies database connectivity.
func (s *RemoteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Kind identifies the backend.
func (s *RemoteStore) Kind() string {
	return "remote"
}

type remoteCollection struct {
	db   *sqlx.DB
	name string
}

type documentRow struct {
	ID   string          `db:"id"`
	Data json.RawMessage `db:"data"`
}

func (c *remoteCollection) List(ctx context.Context) ([]Document, error) {
	const query = `SELECT id, data FROM documents WHERE collection = $1 ORDER BY updated_at`
	var rows []documentRow
	if err := c.db.SelectContext(ctx, &rows, query, c.name); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{ID: row.ID, Data: row.Data})
	}
	return docs, nil
}

func (c *remoteCollection) Get(ctx context.Context, id string) (*Document, error) {
	const query = `SELECT id, data FROM documents WHERE collection = $1 AND id = $2 LIMIT 1`
	var row documentRow
	if err := c.db.GetContext(ctx, &row, query, c.name, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return &Document{ID: row.ID, Data: row.Data}, nil
}

func (c *remoteCollection) Put(ctx context.Context, doc Document) (string, error) {
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}

	body := doc.Data
	if len(body) == 0 {
		body = json.RawMessage(`{}`)
	}

	const query = `INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3::jsonb || jsonb_build_object('id', $2::text), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := c.db.ExecContext(ctx, query, c.name, id, []byte(body)); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", c.name, id, err)
	}
	return id, nil
}

func (c *remoteCollection) Patch(ctx context.Context, id string, partial map[string]interface{}) error {
	fields := make(map[string]interface{}, len(partial))
	for k, v := range partial {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal patch for %s/%s: %w", c.name, id, err)
	}

	const query = `UPDATE documents SET data = data || $3::jsonb, updated_at = NOW() WHERE collection = $1 AND id = $2`
	res, err := c.db.ExecContext(ctx, query, c.name, id, payload)
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", c.name, id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *remoteCollection) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := c.db.ExecContext(ctx, query, c.name, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return nil
}
