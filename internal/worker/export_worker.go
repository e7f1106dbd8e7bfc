// Package worker re-exports the quota ledger to Google Sheets whenever the
// address book changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brancoapp/internal/amqp"
	"brancoapp/internal/core"
	"brancoapp/internal/sheets"
	"brancoapp/internal/store"
)

// ExportWorker listens for document changes and keeps the exported ledger
// in sync. Only indirizzario changes matter; calendar and expense changes
// are acknowledged and dropped.
type ExportWorker struct {
	store  store.Store
	writer sheets.LedgerWriter
	now    func() time.Time
}

func NewExportWorker(s store.Store, writer sheets.LedgerWriter) *ExportWorker {
	return &ExportWorker{store: s, writer: writer, now: time.Now}
}

// HandleChange processes one change message from the bus.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Collection != store.CollectionIndirizzario {
		return nil
	}

	slog.InfoContext(ctx, "Roster changed, re-exporting ledger",
		"doc_id", msg.DocID,
		"op", msg.Op)
	return w.ExportLedger(ctx)
}

// ExportLedger rebuilds the ledger from the current roster and writes the
// whole snapshot out. Also the periodic fallback when bus messages are
// lost.
func (w *ExportWorker) ExportLedger(ctx context.Context) error {
	docs, err := w.store.List(ctx, store.CollectionIndirizzario, store.Query{})
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	members := make([]core.Member, 0, len(docs))
	for _, doc := range docs {
		var m core.Member
		if err := store.Decode(doc, &m); err != nil {
			return err
		}
		m.ID = doc.ID
		members = append(members, m)
	}

	rows, _ := core.BuildLedger(members, w.now())
	if err := w.writer.WriteLedger(ctx, rows); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger export completed", "rows", len(rows))
	return nil
}
