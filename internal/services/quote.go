package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
)

// QuoteService manages the membership-fee ledger.
type QuoteService struct {
	store store.Store
	now   func() time.Time
}

func NewQuoteService(s store.Store) *QuoteService {
	return &QuoteService{store: s, now: time.Now}
}

// LedgerView is the quota screen's payload: one row per Lupetto plus the
// activity years available as filters.
type LedgerView struct {
	Rows  []core.LedgerRow `json:"rows"`
	Years []string         `json:"years"`
}

// Ledger builds the fee ledger, optionally limited to one activity year.
func (q *QuoteService) Ledger(ctx context.Context, anno string) (LedgerView, error) {
	members, err := loadMembers(ctx, q.store)
	if err != nil {
		return LedgerView{}, err
	}
	rows, years := core.BuildLedger(members, q.now())
	if anno != "" {
		filtered := rows[:0]
		for _, row := range rows {
			if row.Anno == anno {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	return LedgerView{Rows: rows, Years: years}, nil
}

// UpdateMonthPayment records a fee payment for one month. Raw input is
// coerced and clamped to [0, MaxQuota]; only the one month entry changes.
func (q *QuoteService) UpdateMonthPayment(ctx context.Context, memberID, mese, raw string) error {
	if !core.IsMonthLabel(mese) {
		return fmt.Errorf("%w: %q", core.ErrUnknownMonth, mese)
	}
	amount := core.ClampQuota(raw)
	path := "payments.main." + mese + ".paid"
	if err := q.store.Update(ctx, store.CollectionIndirizzario, memberID, map[string]any{path: amount}); err != nil {
		return fmt.Errorf("update month payment: %w", err)
	}
	slog.InfoContext(ctx, "Month payment updated", "member", memberID, "mese", mese, "amount", amount)
	return nil
}

// UpdateExtraPayment records one of the flat extra-fee totals (VDBI, FDP,
// VDBE).
func (q *QuoteService) UpdateExtraPayment(ctx context.Context, memberID, key, raw string) error {
	if !core.IsExtraKey(key) {
		return fmt.Errorf("%w: %q", core.ErrUnknownMonth, key)
	}
	amount := core.ClampQuota(raw)
	path := "payments." + key
	if err := q.store.Update(ctx, store.CollectionIndirizzario, memberID, map[string]any{path: amount}); err != nil {
		return fmt.Errorf("update extra payment: %w", err)
	}
	slog.InfoContext(ctx, "Extra payment updated", "member", memberID, "key", key, "amount", amount)
	return nil
}

// MarkQuotaPaid sets the current fee month to the full quota. During the
// summer months there is no current month and the call fails instead of
// writing to an arbitrary entry.
func (q *QuoteService) MarkQuotaPaid(ctx context.Context, memberID string) error {
	mese, ok := core.CurrentMonthLabel(q.now())
	if !ok {
		return ErrNoCurrentMonth
	}
	path := "payments.main." + mese + ".paid"
	if err := q.store.Update(ctx, store.CollectionIndirizzario, memberID, map[string]any{path: core.MaxQuota}); err != nil {
		return fmt.Errorf("mark quota paid: %w", err)
	}
	slog.InfoContext(ctx, "Quota marked paid", "member", memberID, "mese", mese)
	return nil
}
