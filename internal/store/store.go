// Package store defines the document-store abstraction the whole app sits
// on: schemaless collections of JSON documents with per-document CRUD,
// field-path updates, atomic batches and live snapshot subscriptions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Collection names. The store itself enforces no schema; these are the
// only collections the app uses.
const (
	CollectionEvents       = "events"
	CollectionIndirizzario = "indirizzario"
	CollectionSpese        = "spese"
)

var ErrNotFound = errors.New("document not found")

type (
	// Document is one schemaless record: an id plus a JSON object body.
	Document struct {
		ID   string
		Data map[string]any
	}

	// Query narrows a List or Subscribe. The only ordering the app pushes
	// to the store is orderBy(data, desc) on spese; everything else is
	// filtered client-side after a full-collection read.
	Query struct {
		OrderByDataDesc bool
	}

	// Write is one entry of an atomic batch: field-path updates applied
	// to a single document.
	Write struct {
		DocID  string
		Fields map[string]any
	}

	// Op labels a change event.
	Op string

	// Change describes one mutation, as published to subscribers and to
	// the change bus.
	Change struct {
		Collection string `json:"collection"`
		DocID      string `json:"docId"`
		Op         Op     `json:"op"`
	}

	// Listener receives the full collection snapshot: once on subscribe
	// and again after every change. Aggregation recomputes from scratch
	// on each call, there is no incremental diffing.
	Listener func(docs []Document)

	// Store is the document database port. Update and Batch take
	// dot-separated field paths ("payments.main.ottobre.paid",
	// "presenze.<eventID>") and touch only the named nested fields.
	Store interface {
		Add(ctx context.Context, collection string, data map[string]any) (string, error)
		Get(ctx context.Context, collection, id string) (Document, error)
		Set(ctx context.Context, collection, id string, data map[string]any) error
		Update(ctx context.Context, collection, id string, fields map[string]any) error
		Delete(ctx context.Context, collection, id string) error
		List(ctx context.Context, collection string, q Query) ([]Document, error)
		// Batch applies every write atomically: either all documents
		// change or none do.
		Batch(ctx context.Context, collection string, writes []Write) error
		// Subscribe registers a live listener. The returned func
		// unsubscribes; call it on teardown.
		Subscribe(collection string, q Query, fn Listener) (unsubscribe func())
		Close() error
	}
)

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Encode marshals a domain value into a document body.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode unmarshals a document body into a domain value.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// ApplyField sets one dot-separated field path inside a document body,
// creating intermediate objects as needed. Only the named leaf changes.
func ApplyField(data map[string]any, path string, value any) error {
	parts := strings.Split(path, ".")
	cur := data
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid field path %q", path)
		}
		if i == len(parts)-1 {
			cur[part] = value
			return nil
		}
		next, ok := cur[part]
		if !ok || next == nil {
			child := make(map[string]any)
			cur[part] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field path %q crosses non-object value at %q", path, part)
		}
		cur = child
	}
	return nil
}

// SortByDataDesc orders documents by their "data" field descending. The
// field is an RFC 3339 string on the wire, so the string compare follows
// chronological order.
func SortByDataDesc(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool { return dataKey(docs[i]) > dataKey(docs[j]) })
}

func dataKey(d Document) string {
	if v, ok := d.Data["data"].(string); ok {
		return v
	}
	return ""
}
