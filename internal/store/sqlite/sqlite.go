// Package sqlite persists documents as JSON rows in an embedded SQLite
// database. Batches map onto SQL transactions, which is what makes the
// reimbursement settlement atomic.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"brancoapp/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	hub *store.Hub
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, hub: store.NewHub()}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)`,
		collection, id, string(body))
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	slog.InfoContext(ctx, "Document created", "collection", collection, "id", id)
	s.notify(ctx, collection)
	return id, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, store.ErrNotFound
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("select document: %w", err)
	}
	return decodeRow(id, body)
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`,
		string(body), collection, id)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	s.notify(ctx, collection)
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	if err := applyWriteTx(ctx, tx, collection, store.Write{DocID: id, Fields: fields}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}

	s.notify(ctx, collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Document deleted", "collection", collection, "id", id)
	s.notify(ctx, collection)
	return nil
}

func (s *Store) List(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decodeRow(id, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	if q.OrderByDataDesc {
		store.SortByDataDesc(docs)
	}
	return docs, nil
}

// Batch runs every write in one transaction: a failure anywhere rolls the
// whole settlement back.
func (s *Store) Batch(ctx context.Context, collection string, writes []store.Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		if err := applyWriteTx(ctx, tx, collection, w); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	slog.InfoContext(ctx, "Batch applied", "collection", collection, "writes", len(writes))
	s.notify(ctx, collection)
	return nil
}

func (s *Store) Subscribe(collection string, q store.Query, fn store.Listener) func() {
	unsubscribe := s.hub.Add(collection, q, fn)

	docs, err := s.List(context.Background(), collection, q)
	if err != nil {
		slog.Error("Initial snapshot failed", "collection", collection, "error", err)
		docs = nil
	}
	fn(docs)

	return unsubscribe
}

func applyWriteTx(ctx context.Context, tx *sql.Tx, collection string, w store.Write) error {
	var body string
	err := tx.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, w.DocID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select document %s: %w", w.DocID, err)
	}

	doc, err := decodeRow(w.DocID, body)
	if err != nil {
		return err
	}
	for path, value := range w.Fields {
		if err := store.ApplyField(doc.Data, path, value); err != nil {
			return err
		}
	}

	updated, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", w.DocID, err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`,
		string(updated), collection, w.DocID)
	if err != nil {
		return fmt.Errorf("write document %s: %w", w.DocID, err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, collection string) {
	docs, err := s.List(ctx, collection, store.Query{})
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot for listeners failed", "collection", collection, "error", err)
		return
	}
	s.hub.Notify(collection, docs)
}

func decodeRow(id, body string) (store.Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return store.Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return store.Document{ID: id, Data: data}, nil
}
