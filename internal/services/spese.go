package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
)

// SpeseService manages the expense ledger.
type SpeseService struct {
	store store.Store
	now   func() time.Time
}

func NewSpeseService(s store.Store) *SpeseService {
	return &SpeseService{store: s, now: time.Now}
}

// ListSpese returns every expense and donation, newest first.
func (s *SpeseService) ListSpese(ctx context.Context) ([]core.Expense, error) {
	return loadSpese(ctx, s.store, store.Query{OrderByDataDesc: true})
}

// CreateSpesa validates and stores an expense. A zero Data timestamp
// defaults to now.
func (s *SpeseService) CreateSpesa(ctx context.Context, e core.Expense) (string, error) {
	if !e.Anticipata {
		e.AnticipatoDa = ""
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.Data.IsZero() {
		e.Data = s.now()
	}

	data, err := store.Encode(e)
	if err != nil {
		return "", err
	}
	id, err := s.store.Add(ctx, store.CollectionSpese, data)
	if err != nil {
		return "", fmt.Errorf("create spesa: %w", err)
	}

	slog.InfoContext(ctx, "Spesa created", "id", id, "importo", e.Importo, "categoria", e.Categoria)
	return id, nil
}

// AddDonazione records a donation: income through the same collection,
// always paid in cash and never fronted by anyone.
func (s *SpeseService) AddDonazione(ctx context.Context, importo float64, descrizione string) (string, error) {
	return s.CreateSpesa(ctx, core.Expense{
		Importo:         importo,
		Categoria:       core.Donazione,
		MetodoPagamento: core.Contanti,
		Descrizione:     descrizione,
	})
}

func (s *SpeseService) UpdateSpesa(ctx context.Context, id string, e core.Expense) error {
	if !e.Anticipata {
		e.AnticipatoDa = ""
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Data.IsZero() {
		e.Data = s.now()
	}
	data, err := store.Encode(e)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, store.CollectionSpese, id, data); err != nil {
		return fmt.Errorf("update spesa: %w", err)
	}
	return nil
}

func (s *SpeseService) DeleteSpesa(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.CollectionSpese, id); err != nil {
		return fmt.Errorf("delete spesa: %w", err)
	}
	slog.InfoContext(ctx, "Spesa deleted", "id", id)
	return nil
}

// Summary computes the expense screen's totals. The roster is read too:
// membership fees count as income alongside donations.
func (s *SpeseService) Summary(ctx context.Context) (core.SpeseSummary, error) {
	spese, err := loadSpese(ctx, s.store, store.Query{})
	if err != nil {
		return core.SpeseSummary{}, err
	}
	members, err := loadMembers(ctx, s.store)
	if err != nil {
		return core.SpeseSummary{}, err
	}
	return core.Summarize(spese, core.QuoteTotali(members)), nil
}

// EffettuaRimborso settles every expense fronted by the named member in
// one atomic batch: anticipata cleared, anticipatoDa emptied, the payment
// method rewritten to how the reimbursement was made. Either every pending
// expense settles or none do.
func (s *SpeseService) EffettuaRimborso(ctx context.Context, nome string, metodo core.PaymentMethod) error {
	var invalid *multierror.Error
	if strings.TrimSpace(nome) == "" {
		invalid = multierror.Append(invalid, core.ErrMissingAnticipante)
	}
	if !metodo.IsValid() {
		invalid = multierror.Append(invalid, fmt.Errorf("%w: %q", core.ErrInvalidMetodo, metodo))
	}
	if err := invalid.ErrorOrNil(); err != nil {
		return err
	}

	spese, err := loadSpese(ctx, s.store, store.Query{})
	if err != nil {
		return err
	}
	pending := core.PendingFor(spese, nome)
	if len(pending) == 0 {
		return ErrNothingToPay
	}

	writes := make([]store.Write, 0, len(pending))
	for _, sp := range pending {
		writes = append(writes, store.Write{
			DocID: sp.ID,
			Fields: map[string]any{
				"anticipata":      false,
				"anticipatoDa":    "",
				"metodoPagamento": string(metodo),
			},
		})
	}
	if err := s.store.Batch(ctx, store.CollectionSpese, writes); err != nil {
		return fmt.Errorf("effettua rimborso: %w", err)
	}

	slog.InfoContext(ctx, "Rimborso effettuato", "nome", nome, "metodo", metodo, "spese", len(writes))
	return nil
}
