// Package adapters glues the document store to the AMQP change bus.
package adapters

import (
	"context"
	"log/slog"

	"brancoapp/internal/store"
)

// ChangePublisher is satisfied by amqp.Client.
type ChangePublisher interface {
	PublishChange(ctx context.Context, collection, docID, op string) error
}

// PublishingStore wraps a store and announces every mutation on the change
// bus. Publish failures are logged, never surfaced: the write already
// happened and the worker catches up on its periodic tick.
type PublishingStore struct {
	store.Store
	publisher ChangePublisher
}

func NewPublishingStore(s store.Store, publisher ChangePublisher) *PublishingStore {
	return &PublishingStore{Store: s, publisher: publisher}
}

func (p *PublishingStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id, err := p.Store.Add(ctx, collection, data)
	if err != nil {
		return "", err
	}
	p.publish(ctx, collection, id, string(store.OpCreated))
	return id, nil
}

func (p *PublishingStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := p.Store.Set(ctx, collection, id, data); err != nil {
		return err
	}
	p.publish(ctx, collection, id, string(store.OpUpdated))
	return nil
}

func (p *PublishingStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := p.Store.Update(ctx, collection, id, fields); err != nil {
		return err
	}
	p.publish(ctx, collection, id, string(store.OpUpdated))
	return nil
}

func (p *PublishingStore) Delete(ctx context.Context, collection, id string) error {
	if err := p.Store.Delete(ctx, collection, id); err != nil {
		return err
	}
	p.publish(ctx, collection, id, string(store.OpDeleted))
	return nil
}

func (p *PublishingStore) Batch(ctx context.Context, collection string, writes []store.Write) error {
	if err := p.Store.Batch(ctx, collection, writes); err != nil {
		return err
	}
	for _, w := range writes {
		p.publish(ctx, collection, w.DocID, string(store.OpUpdated))
	}
	return nil
}

func (p *PublishingStore) publish(ctx context.Context, collection, id, op string) {
	if err := p.publisher.PublishChange(ctx, collection, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change",
			"collection", collection,
			"doc_id", id,
			"op", op,
			"error", err)
	}
}
