package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"brancoapp/internal/core"
	"brancoapp/internal/store/memory"
)

func TestSpeseService_CreateSpesaValidation(t *testing.T) {
	svc := NewSpeseService(memory.New())
	ctx := context.Background()

	tests := []struct {
		name    string
		spesa   core.Expense
		wantErr error
	}{
		{"zero importo", core.Expense{Categoria: core.SpesaCibo}, core.ErrInvalidImporto},
		{"negative importo", core.Expense{Importo: -5, Categoria: core.SpesaCibo}, core.ErrInvalidImporto},
		{"bad categoria", core.Expense{Importo: 10, Categoria: "Benzina"}, core.ErrInvalidCategoria},
		{
			"anticipata without name",
			core.Expense{Importo: 10, Categoria: core.SpesaCibo, Anticipata: true},
			core.ErrMissingAnticipante,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateSpesa(ctx, tt.spesa); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateSpesa() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpeseService_CreateSpesaDefaultsData(t *testing.T) {
	svc := NewSpeseService(memory.New())
	now := time.Date(2024, time.October, 5, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)
	ctx := context.Background()

	if _, err := svc.CreateSpesa(ctx, core.Expense{Importo: 10, Categoria: core.SpesaCibo}); err != nil {
		t.Fatalf("CreateSpesa() error = %v", err)
	}

	list, err := svc.ListSpese(ctx)
	if err != nil {
		t.Fatalf("ListSpese() error = %v", err)
	}
	if !list[0].Data.Equal(now) {
		t.Errorf("Data = %v, want defaulted to %v", list[0].Data, now)
	}
}

func TestSpeseService_ListSpeseNewestFirst(t *testing.T) {
	svc := NewSpeseService(memory.New())
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, time.October, d, 0, 0, 0, 0, time.UTC) }
	for _, d := range []int{3, 20, 11} {
		if _, err := svc.CreateSpesa(ctx, core.Expense{Importo: 10, Categoria: core.SpesaCibo, Data: day(d)}); err != nil {
			t.Fatalf("CreateSpesa() error = %v", err)
		}
	}

	list, err := svc.ListSpese(ctx)
	if err != nil {
		t.Fatalf("ListSpese() error = %v", err)
	}
	want := []int{20, 11, 3}
	for i, d := range want {
		if list[i].Data.Day() != d {
			t.Errorf("list[%d].Data.Day() = %d, want %d", i, list[i].Data.Day(), d)
		}
	}
}

func TestSpeseService_AddDonazione(t *testing.T) {
	svc := NewSpeseService(memory.New())
	ctx := context.Background()

	if _, err := svc.AddDonazione(ctx, 50, "offerta famiglie"); err != nil {
		t.Fatalf("AddDonazione() error = %v", err)
	}

	list, err := svc.ListSpese(ctx)
	if err != nil {
		t.Fatalf("ListSpese() error = %v", err)
	}
	d := list[0]
	if d.Categoria != core.Donazione {
		t.Errorf("Categoria = %v, want Donazione", d.Categoria)
	}
	if d.MetodoPagamento != core.Contanti {
		t.Errorf("MetodoPagamento = %v, want Contanti", d.MetodoPagamento)
	}
	if d.Anticipata || d.AnticipatoDa != "" {
		t.Errorf("donation must never be anticipata, got %+v", d)
	}

	if _, err := svc.AddDonazione(ctx, 0, "vuota"); !errors.Is(err, core.ErrInvalidImporto) {
		t.Errorf("AddDonazione(0) error = %v, want ErrInvalidImporto", err)
	}
}

func TestSpeseService_Summary(t *testing.T) {
	st := memory.New()
	rubrica := NewRubricaService(st)
	quote := NewQuoteService(st)
	svc := NewSpeseService(st)
	ctx := context.Background()

	id, err := rubrica.CreateMember(ctx, MemberInput{Categoria: core.Lupetto, Nome: "Mario"})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if err := quote.UpdateMonthPayment(ctx, id, "ottobre", "15"); err != nil {
		t.Fatalf("UpdateMonthPayment() error = %v", err)
	}

	if _, err := svc.AddDonazione(ctx, 50, ""); err != nil {
		t.Fatalf("AddDonazione() error = %v", err)
	}
	if _, err := svc.CreateSpesa(ctx, core.Expense{Importo: 30, Categoria: core.SpesaCibo}); err != nil {
		t.Fatalf("CreateSpesa() error = %v", err)
	}
	if _, err := svc.CreateSpesa(ctx, core.Expense{
		Importo: 20, Categoria: core.SpesaTrasporto, Anticipata: true, AnticipatoDa: "Akela",
	}); err != nil {
		t.Fatalf("CreateSpesa() error = %v", err)
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.Entrate != 65 {
		t.Errorf("Entrate = %v, want 65 (15 quote + 50 donazioni)", sum.Entrate)
	}
	if sum.TotaleSpese != 50 {
		t.Errorf("TotaleSpese = %v, want 50", sum.TotaleSpese)
	}
	if sum.Saldo != sum.Entrate-sum.TotaleSpese {
		t.Errorf("Saldo = %v, want Entrate-TotaleSpese", sum.Saldo)
	}
	if sum.Rimborsi["Akela"] != 20 {
		t.Errorf("Rimborsi[Akela] = %v, want 20", sum.Rimborsi["Akela"])
	}
}

func TestSpeseService_EffettuaRimborso(t *testing.T) {
	svc := NewSpeseService(memory.New())
	ctx := context.Background()

	for _, sp := range []core.Expense{
		{Importo: 20, Categoria: core.SpesaCibo, Anticipata: true, AnticipatoDa: "Akela"},
		{Importo: 10, Categoria: core.SpesaTrasporto, Anticipata: true, AnticipatoDa: "Akela"},
		{Importo: 5, Categoria: core.SpesaAltro, Anticipata: true, AnticipatoDa: "Bagheera"},
	} {
		if _, err := svc.CreateSpesa(ctx, sp); err != nil {
			t.Fatalf("CreateSpesa() error = %v", err)
		}
	}

	if err := svc.EffettuaRimborso(ctx, "Akela", core.Carta); err != nil {
		t.Fatalf("EffettuaRimborso() error = %v", err)
	}

	list, err := svc.ListSpese(ctx)
	if err != nil {
		t.Fatalf("ListSpese() error = %v", err)
	}
	for _, sp := range list {
		if sp.AnticipatoDa == "Akela" {
			t.Errorf("expense %s still names Akela after settlement", sp.ID)
		}
		if sp.AnticipatoDa == "Bagheera" {
			if !sp.Anticipata {
				t.Error("Bagheera's expense must stay pending")
			}
			continue
		}
		if sp.Anticipata {
			t.Errorf("expense %s still anticipata after settlement", sp.ID)
		}
		if sp.MetodoPagamento != core.Carta {
			t.Errorf("expense %s metodo = %v, want Carta", sp.ID, sp.MetodoPagamento)
		}
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if _, ok := sum.Rimborsi["Akela"]; ok {
		t.Error("Rimborsi must no longer list Akela")
	}
	if sum.Rimborsi["Bagheera"] != 5 {
		t.Errorf("Rimborsi[Bagheera] = %v, want 5", sum.Rimborsi["Bagheera"])
	}
}

func TestSpeseService_EffettuaRimborsoErrors(t *testing.T) {
	svc := NewSpeseService(memory.New())
	ctx := context.Background()

	if err := svc.EffettuaRimborso(ctx, "Akela", core.Contanti); !errors.Is(err, ErrNothingToPay) {
		t.Errorf("EffettuaRimborso() with nothing pending error = %v, want ErrNothingToPay", err)
	}
	if err := svc.EffettuaRimborso(ctx, "", "Assegno"); err == nil {
		t.Error("EffettuaRimborso() with blank name and bad metodo should fail")
	}
}
