package sheets

import (
	"context"

	"brancoapp/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter replaces the exported quota ledger with the given rows.
	LedgerWriter interface {
		WriteLedger(ctx context.Context, rows []core.LedgerRow) error
	}
)
