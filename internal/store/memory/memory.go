// Package memory holds the in-process document store used for development
// and tests: full Store semantics, no persistence.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"brancoapp/internal/store"
)

type Store struct {
	mu   sync.Mutex
	docs map[string]map[string]map[string]any // collection -> id -> body
	hub  *store.Hub
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		docs: make(map[string]map[string]map[string]any),
		hub:  store.NewHub(),
	}
}

func (s *Store) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.ensure(collection)[id] = data
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Notify(collection, docs)
	return id, nil
}

func (s *Store) Get(_ context.Context, collection, id string) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.docs[collection][id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	return store.Document{ID: id, Data: store.CloneMap(body)}, nil
}

func (s *Store) Set(_ context.Context, collection, id string, data map[string]any) error {
	s.mu.Lock()
	if _, ok := s.docs[collection][id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	s.docs[collection][id] = data
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Notify(collection, docs)
	return nil
}

func (s *Store) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	body, ok := s.docs[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	for path, value := range fields {
		if err := store.ApplyField(body, path, value); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Notify(collection, docs)
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	if _, ok := s.docs[collection][id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.docs[collection], id)
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Notify(collection, docs)
	return nil
}

func (s *Store) List(_ context.Context, collection string, q store.Query) ([]store.Document, error) {
	s.mu.Lock()
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()
	if q.OrderByDataDesc {
		store.SortByDataDesc(docs)
	}
	return docs, nil
}

// Batch applies every write to cloned bodies first and swaps them in only
// when all of them succeed, so a missing document or a bad field path
// leaves the collection untouched.
func (s *Store) Batch(_ context.Context, collection string, writes []store.Write) error {
	s.mu.Lock()
	staged := make(map[string]map[string]any, len(writes))
	var errs *multierror.Error
	for _, w := range writes {
		clone, ok := staged[w.DocID]
		if !ok {
			body, exists := s.docs[collection][w.DocID]
			if !exists {
				errs = multierror.Append(errs, store.ErrNotFound)
				continue
			}
			clone = store.CloneMap(body)
		}
		for path, value := range w.Fields {
			if err := store.ApplyField(clone, path, value); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		staged[w.DocID] = clone
	}
	if err := errs.ErrorOrNil(); err != nil {
		s.mu.Unlock()
		return err
	}
	for id, body := range staged {
		s.docs[collection][id] = body
	}
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Notify(collection, docs)
	return nil
}

func (s *Store) Subscribe(collection string, q store.Query, fn store.Listener) func() {
	unsubscribe := s.hub.Add(collection, q, fn)

	s.mu.Lock()
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()
	if q.OrderByDataDesc {
		store.SortByDataDesc(docs)
	}
	fn(docs)

	return unsubscribe
}

func (s *Store) Close() error { return nil }

func (s *Store) ensure(collection string) map[string]map[string]any {
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]map[string]any)
	}
	return s.docs[collection]
}

// snapshotLocked copies the collection. Bodies are cloned so callers can
// read them after the lock drops without racing a concurrent write.
func (s *Store) snapshotLocked(collection string) []store.Document {
	out := make([]store.Document, 0, len(s.docs[collection]))
	for id, body := range s.docs[collection] {
		out = append(out, store.Document{ID: id, Data: store.CloneMap(body)})
	}
	return out
}
