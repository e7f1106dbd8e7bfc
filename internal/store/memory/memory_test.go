package memory

import (
	"context"
	"errors"
	"testing"

	"brancoapp/internal/store"
)

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Add(ctx, store.CollectionSpese, map[string]any{"importo": 10.0})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	doc, err := s.Get(ctx, store.CollectionSpese, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Data["importo"] != 10.0 {
		t.Fatalf("importo = %v", doc.Data["importo"])
	}

	if err := s.Set(ctx, store.CollectionSpese, id, map[string]any{"importo": 20.0}); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, _ = s.Get(ctx, store.CollectionSpese, id)
	if doc.Data["importo"] != 20.0 {
		t.Fatalf("after set importo = %v", doc.Data["importo"])
	}

	if err := s.Delete(ctx, store.CollectionSpese, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, store.CollectionSpese, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateNestedField(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, _ := s.Add(ctx, store.CollectionIndirizzario, map[string]any{
		"nome":     "Mario",
		"payments": map[string]any{"main": map[string]any{}},
	})

	err := s.Update(ctx, store.CollectionIndirizzario, id, map[string]any{
		"payments.main.ottobre.paid": 15.0,
		"presenze.e1":                false,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, _ := s.Get(ctx, store.CollectionIndirizzario, id)
	main := doc.Data["payments"].(map[string]any)["main"].(map[string]any)
	if main["ottobre"].(map[string]any)["paid"] != 15.0 {
		t.Fatalf("nested paid not written: %v", main)
	}
	if doc.Data["presenze"].(map[string]any)["e1"] != false {
		t.Fatalf("presenze key not written: %v", doc.Data["presenze"])
	}
	// Siblings stay untouched.
	if doc.Data["nome"] != "Mario" {
		t.Fatalf("nome clobbered: %v", doc.Data["nome"])
	}
}

func TestBatchAtomicity(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, _ := s.Add(ctx, store.CollectionSpese, map[string]any{"anticipata": true})

	err := s.Batch(ctx, store.CollectionSpese, []store.Write{
		{DocID: id, Fields: map[string]any{"anticipata": false}},
		{DocID: "missing", Fields: map[string]any{"anticipata": false}},
	})
	if err == nil {
		t.Fatalf("expected batch error for missing document")
	}

	// The valid write must not have been applied.
	doc, _ := s.Get(ctx, store.CollectionSpese, id)
	if doc.Data["anticipata"] != true {
		t.Fatalf("batch was not atomic: %v", doc.Data)
	}
}

func TestBatchRollsBackOnBadFieldPath(t *testing.T) {
	ctx := context.Background()
	s := New()

	okID, _ := s.Add(ctx, store.CollectionSpese, map[string]any{"anticipata": true})
	badID, _ := s.Add(ctx, store.CollectionSpese, map[string]any{"descrizione": "merenda"})

	// The second write's path crosses a string, so ApplyField fails after
	// the first write has already been staged.
	err := s.Batch(ctx, store.CollectionSpese, []store.Write{
		{DocID: okID, Fields: map[string]any{"anticipata": false}},
		{DocID: badID, Fields: map[string]any{"descrizione.inner": 1.0}},
	})
	if err == nil {
		t.Fatalf("expected batch error for bad field path")
	}

	doc, _ := s.Get(ctx, store.CollectionSpese, okID)
	if doc.Data["anticipata"] != true {
		t.Fatalf("batch was not atomic: %v", doc.Data)
	}
	doc, _ = s.Get(ctx, store.CollectionSpese, badID)
	if doc.Data["descrizione"] != "merenda" {
		t.Fatalf("failed write leaked: %v", doc.Data)
	}
}

func TestReadsDoNotAliasStoredBodies(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, _ := s.Add(ctx, store.CollectionIndirizzario, map[string]any{
		"nome":     "Mario",
		"payments": map[string]any{"main": map[string]any{}},
	})

	// Mutating a Get result must not touch the stored document.
	doc, _ := s.Get(ctx, store.CollectionIndirizzario, id)
	doc.Data["nome"] = "Luigi"
	doc.Data["payments"].(map[string]any)["main"].(map[string]any)["ottobre"] = map[string]any{"paid": 99.0}

	fresh, _ := s.Get(ctx, store.CollectionIndirizzario, id)
	if fresh.Data["nome"] != "Mario" {
		t.Fatalf("Get aliases stored body: %v", fresh.Data)
	}
	if len(fresh.Data["payments"].(map[string]any)["main"].(map[string]any)) != 0 {
		t.Fatalf("nested map aliases stored body: %v", fresh.Data)
	}

	// Same for List snapshots.
	docs, _ := s.List(ctx, store.CollectionIndirizzario, store.Query{})
	docs[0].Data["nome"] = "Luigi"
	fresh, _ = s.Get(ctx, store.CollectionIndirizzario, id)
	if fresh.Data["nome"] != "Mario" {
		t.Fatalf("List aliases stored body: %v", fresh.Data)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := New()

	var snapshots [][]store.Document
	unsubscribe := s.Subscribe(store.CollectionEvents, store.Query{}, func(docs []store.Document) {
		snapshots = append(snapshots, docs)
	})

	// Initial snapshot fires on subscribe.
	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("expected empty initial snapshot, got %v", snapshots)
	}

	id, _ := s.Add(ctx, store.CollectionEvents, map[string]any{"title": "Caccia"})
	if len(snapshots) != 2 || len(snapshots[1]) != 1 {
		t.Fatalf("expected snapshot after add, got %d snapshots", len(snapshots))
	}

	unsubscribe()
	_ = s.Delete(ctx, store.CollectionEvents, id)
	if len(snapshots) != 2 {
		t.Fatalf("listener fired after unsubscribe")
	}
}

func TestListOrderByDataDesc(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, _ = s.Add(ctx, store.CollectionSpese, map[string]any{"descrizione": "vecchia", "data": "2024-01-01T10:00:00Z"})
	_, _ = s.Add(ctx, store.CollectionSpese, map[string]any{"descrizione": "nuova", "data": "2025-01-01T10:00:00Z"})

	docs, err := s.List(ctx, store.CollectionSpese, store.Query{OrderByDataDesc: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].Data["descrizione"] != "nuova" {
		t.Fatalf("wrong order: %v", docs)
	}
}
