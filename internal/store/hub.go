package store

import "sync"

// Hub fans collection snapshots out to live listeners. Both backends embed
// one; sqlite and memory subscriptions are in-process only, cross-instance
// propagation rides the AMQP change bus instead.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]subscription
}

type subscription struct {
	query Query
	fn    Listener
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]subscription)}
}

// Add registers a listener for a collection and returns its remover.
func (h *Hub) Add(collection string, q Query, fn Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]subscription)
	}
	id := h.nextID
	h.nextID++
	h.subs[collection][id] = subscription{query: q, fn: fn}
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[collection], id)
	}
}

// Notify pushes a fresh snapshot to every listener of the collection.
// Listeners run synchronously outside the hub lock; docs are copied per
// listener so one callback cannot corrupt another's view.
func (h *Hub) Notify(collection string, docs []Document) {
	h.mu.Lock()
	subs := make([]subscription, 0, len(h.subs[collection]))
	for _, s := range h.subs[collection] {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		snapshot := CloneDocs(docs)
		if s.query.OrderByDataDesc {
			SortByDataDesc(snapshot)
		}
		s.fn(snapshot)
	}
}

// CloneDocs deep-copies a snapshot so readers never alias stored bodies.
func CloneDocs(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = Document{ID: d.ID, Data: CloneMap(d.Data)}
	}
	return out
}

// CloneMap deep-copies the object tree of a document body. Leaf values
// are shared; after Decode they are JSON scalars and slices that the app
// never mutates in place.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			out[k] = CloneMap(child)
			continue
		}
		out[k] = v
	}
	return out
}
