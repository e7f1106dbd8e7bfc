// Package google exports the quota ledger to a Google Sheet through a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"brancoapp/internal/core"
	ports "brancoapp/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
}

var _ ports.LedgerWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_LEDGER_SHEET_NAME (default "Quote").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	ledgerSheet := strings.TrimSpace(os.Getenv("GOOGLE_LEDGER_SHEET_NAME"))
	if ledgerSheet == "" {
		ledgerSheet = "Quote"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteLedger rewrites the ledger sheet from scratch: a header row, then
// one row per Lupetto with the nine monthly entries, the three extra fees
// and the paid-to-date total.
func (c *Client) WriteLedger(ctx context.Context, rows []core.LedgerRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := LedgerValues(rows)

	clearRange := fmt.Sprintf("%s!A:Z", c.ledgerSheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.ledgerSheet, err)
	}

	writeRange := fmt.Sprintf("%s!A1", c.ledgerSheet)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write ledger to sheet %s: %w", c.ledgerSheet, err)
	}

	slog.InfoContext(ctx, "Ledger exported",
		"spreadsheet", c.spreadsheetID,
		"sheet", c.ledgerSheet,
		"rows", len(rows))
	return nil
}

// LedgerValues renders ledger rows as sheet values, header included.
func LedgerValues(rows []core.LedgerRow) [][]any {
	header := []any{"Anno", "Nome"}
	for _, mese := range core.Mesi {
		header = append(header, mese)
	}
	header = append(header, core.ExtraVDBI, core.ExtraFDP, core.ExtraVDBE, "Totale")

	values := [][]any{header}
	for _, row := range rows {
		line := []any{row.Anno, row.Nome}
		for _, mese := range core.Mesi {
			line = append(line, row.Payments.MonthPaid(mese))
		}
		line = append(line, row.Payments.VDBI, row.Payments.FDP, row.Payments.VDBE, row.TotalPaid)
		values = append(values, line)
	}
	return values
}
