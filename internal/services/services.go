// Package services implements the screen-level operations on top of the
// document store: address book, quota ledger, attendance, expenses and
// calendar.
package services

import (
	"context"
	"errors"
	"fmt"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
)

var (
	ErrNoCurrentMonth = errors.New("current month is outside the fee year")
	ErrNothingToPay   = errors.New("no pending reimbursements for member")
)

func loadMembers(ctx context.Context, s store.Store) ([]core.Member, error) {
	docs, err := s.List(ctx, store.CollectionIndirizzario, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("list indirizzario: %w", err)
	}
	members := make([]core.Member, 0, len(docs))
	for _, doc := range docs {
		var m core.Member
		if err := store.Decode(doc, &m); err != nil {
			return nil, err
		}
		m.ID = doc.ID
		members = append(members, m)
	}
	return members, nil
}

func loadEvents(ctx context.Context, s store.Store) ([]core.Event, error) {
	docs, err := s.List(ctx, store.CollectionEvents, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]core.Event, 0, len(docs))
	for _, doc := range docs {
		var e core.Event
		if err := store.Decode(doc, &e); err != nil {
			return nil, err
		}
		e.ID = doc.ID
		events = append(events, e)
	}
	return events, nil
}

func loadSpese(ctx context.Context, s store.Store, q store.Query) ([]core.Expense, error) {
	docs, err := s.List(ctx, store.CollectionSpese, q)
	if err != nil {
		return nil, fmt.Errorf("list spese: %w", err)
	}
	spese := make([]core.Expense, 0, len(docs))
	for _, doc := range docs {
		var sp core.Expense
		if err := store.Decode(doc, &sp); err != nil {
			return nil, err
		}
		sp.ID = doc.ID
		spese = append(spese, sp)
	}
	return spese, nil
}
