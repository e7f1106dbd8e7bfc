package services

import (
	"context"
	"fmt"
	"log/slog"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
)

// CalendarioService manages the events collection.
type CalendarioService struct {
	store store.Store
}

func NewCalendarioService(s store.Store) *CalendarioService {
	return &CalendarioService{store: s}
}

// CreateEvent validates and stores a new event. End before start is
// rejected here; the store itself accepts anything.
func (c *CalendarioService) CreateEvent(ctx context.Context, e core.Event) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	data, err := store.Encode(e)
	if err != nil {
		return "", err
	}
	id, err := c.store.Add(ctx, store.CollectionEvents, data)
	if err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	slog.InfoContext(ctx, "Event created", "id", id, "title", e.Title, "category", e.Category)
	return id, nil
}

func (c *CalendarioService) UpdateEvent(ctx context.Context, id string, e core.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	data, err := store.Encode(e)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, store.CollectionEvents, id, data); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (c *CalendarioService) GetEvent(ctx context.Context, id string) (core.Event, error) {
	doc, err := c.store.Get(ctx, store.CollectionEvents, id)
	if err != nil {
		return core.Event{}, err
	}
	var e core.Event
	if err := store.Decode(doc, &e); err != nil {
		return core.Event{}, err
	}
	e.ID = doc.ID
	return e, nil
}

// DeleteEvent removes the event. Attendance entries keyed by the event id
// stay on the members and simply stop matching anything.
func (c *CalendarioService) DeleteEvent(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, store.CollectionEvents, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	slog.InfoContext(ctx, "Event deleted", "id", id)
	return nil
}

func (c *CalendarioService) ListEvents(ctx context.Context) ([]core.Event, error) {
	return loadEvents(ctx, c.store)
}

// DayEvents expands every event into per-day calendar cells keyed by
// YYYY-MM-DD.
func (c *CalendarioService) DayEvents(ctx context.Context) (map[string][]core.DayEvent, error) {
	events, err := loadEvents(ctx, c.store)
	if err != nil {
		return nil, err
	}
	return core.ExpandEvents(events), nil
}

// MarkedDates returns the per-day marker dots for the month grid.
func (c *CalendarioService) MarkedDates(ctx context.Context) (map[string]core.MarkedDate, error) {
	expanded, err := c.DayEvents(ctx)
	if err != nil {
		return nil, err
	}
	return core.MarkedDates(expanded), nil
}
