package services

import (
	"context"
	"fmt"
	"log/slog"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
)

// PresenzeService manages attendance tracking.
type PresenzeService struct {
	store store.Store
}

func NewPresenzeService(s store.Store) *PresenzeService {
	return &PresenzeService{store: s}
}

// Events returns the events that take attendance, sorted by start time.
// The first one is the screen's default selection.
func (p *PresenzeService) Events(ctx context.Context) ([]core.Event, error) {
	events, err := loadEvents(ctx, p.store)
	if err != nil {
		return nil, err
	}
	return core.AttendanceEvents(events), nil
}

// Roster returns the Lupetti matching the filter.
func (p *PresenzeService) Roster(ctx context.Context, f core.PresenzeFilter) ([]core.Member, error) {
	members, err := loadMembers(ctx, p.store)
	if err != nil {
		return nil, err
	}
	return core.FilterRoster(members, f), nil
}

// Counts returns how many Lupetti are present and absent at an event.
func (p *PresenzeService) Counts(ctx context.Context, eventID string) (presenti, assenti int, err error) {
	members, err := p.Roster(ctx, core.PresenzeFilter{})
	if err != nil {
		return 0, 0, err
	}
	presenti, assenti = core.CountPresenze(members, eventID)
	return presenti, assenti, nil
}

// TogglePresenza flips one member's presence at one event. Only the single
// presenze entry is written; a member with no entry is present, so the
// first toggle records an absence.
func (p *PresenzeService) TogglePresenza(ctx context.Context, memberID, eventID string) error {
	doc, err := p.store.Get(ctx, store.CollectionIndirizzario, memberID)
	if err != nil {
		return fmt.Errorf("load member: %w", err)
	}
	var m core.Member
	if err := store.Decode(doc, &m); err != nil {
		return err
	}

	next := !core.Present(m, eventID)
	path := "presenze." + eventID
	if err := p.store.Update(ctx, store.CollectionIndirizzario, memberID, map[string]any{path: next}); err != nil {
		return fmt.Errorf("toggle presenza: %w", err)
	}

	slog.InfoContext(ctx, "Presenza toggled", "member", memberID, "event", eventID, "presente", next)
	return nil
}
