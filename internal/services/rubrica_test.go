package services

import (
	"context"
	"errors"
	"testing"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
	"brancoapp/internal/store/memory"
)

func TestRubricaService_CreateMember(t *testing.T) {
	svc := NewRubricaService(memory.New())
	ctx := context.Background()

	id, err := svc.CreateMember(ctx, MemberInput{
		Categoria: core.Lupetto,
		Nome:      "Mario",
		Cognome:   "Rossi",
		Email:     " mamma@example.com, papa@example.com ,",
	})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	m, err := svc.GetMember(ctx, id)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if len(m.Email) != 2 || m.Email[0] != "mamma@example.com" || m.Email[1] != "papa@example.com" {
		t.Errorf("Email = %v, want normalized two addresses", m.Email)
	}
	if m.DisplayName() != "Mario Rossi" {
		t.Errorf("DisplayName() = %q, want Mario Rossi", m.DisplayName())
	}
}

func TestRubricaService_CreateMember_Invalid(t *testing.T) {
	svc := NewRubricaService(memory.New())
	ctx := context.Background()

	tests := []struct {
		name    string
		input   MemberInput
		wantErr error
	}{
		{"missing categoria", MemberInput{Nome: "Mario"}, core.ErrInvalidCategoria},
		{"bad categoria", MemberInput{Categoria: "Esterno", Nome: "Mario"}, core.ErrInvalidCategoria},
		{"blank nome", MemberInput{Categoria: core.Lupetto, Nome: "   "}, core.ErrEmptyNome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateMember(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateMember() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRubricaService_UpdateMemberKeepsPaymentsAndPresenze(t *testing.T) {
	st := memory.New()
	svc := NewRubricaService(st)
	quote := NewQuoteService(st)
	ctx := context.Background()

	id, err := svc.CreateMember(ctx, MemberInput{Categoria: core.Lupetto, Nome: "Mario"})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if err := quote.UpdateMonthPayment(ctx, id, "ottobre", "10"); err != nil {
		t.Fatalf("UpdateMonthPayment() error = %v", err)
	}

	err = svc.UpdateMember(ctx, id, MemberInput{Categoria: core.Lupetto, Nome: "Mario", Cognome: "Bianchi"})
	if err != nil {
		t.Fatalf("UpdateMember() error = %v", err)
	}

	m, err := svc.GetMember(ctx, id)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if m.Cognome != "Bianchi" {
		t.Errorf("Cognome = %q, want Bianchi", m.Cognome)
	}
	if m.Payments.MonthPaid("ottobre") != 10 {
		t.Errorf("ottobre paid = %v, want 10 after contact edit", m.Payments.MonthPaid("ottobre"))
	}
}

func TestRubricaService_ListMembersFilter(t *testing.T) {
	svc := NewRubricaService(memory.New())
	ctx := context.Background()

	seed := []MemberInput{
		{Categoria: core.Lupetto, Nome: "A", AnnoAttivita: "2023"},
		{Categoria: core.Lupetto, Nome: "B", AnnoAttivita: "2024"},
		{Categoria: core.VVLL, Nome: "Akela"},
	}
	for _, in := range seed {
		if _, err := svc.CreateMember(ctx, in); err != nil {
			t.Fatalf("CreateMember(%s) error = %v", in.Nome, err)
		}
	}

	got, err := svc.ListMembers(ctx, RubricaFilter{Categoria: core.Lupetto, Anno: "2024"})
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(got) != 1 || got[0].Nome != "B" {
		t.Errorf("ListMembers() = %v, want only B", got)
	}
}

func TestRubricaService_GroupedLupetti(t *testing.T) {
	svc := NewRubricaService(memory.New())
	ctx := context.Background()

	seed := []MemberInput{
		{Categoria: core.Lupetto, Nome: "A", AnnoAttivita: "2022"},
		{Categoria: core.Lupetto, Nome: "B", AnnoAttivita: "2024"},
		{Categoria: core.Lupetto, Nome: "C"},
		{Categoria: core.VVLL, Nome: "Akela"},
	}
	for _, in := range seed {
		if _, err := svc.CreateMember(ctx, in); err != nil {
			t.Fatalf("CreateMember(%s) error = %v", in.Nome, err)
		}
	}

	groups, err := svc.GroupedLupetti(ctx)
	if err != nil {
		t.Fatalf("GroupedLupetti() error = %v", err)
	}
	want := []string{"2024", "2022", SenzaAnno}
	if len(groups) != len(want) {
		t.Fatalf("groups = %d, want %d", len(groups), len(want))
	}
	for i, anno := range want {
		if groups[i].Anno != anno {
			t.Errorf("groups[%d].Anno = %q, want %q", i, groups[i].Anno, anno)
		}
	}
	if len(groups[2].Members) != 1 || groups[2].Members[0].Nome != "C" {
		t.Errorf("Senza anno group = %v, want only C", groups[2].Members)
	}
}

func TestRubricaService_VVLLNames(t *testing.T) {
	svc := NewRubricaService(memory.New())
	ctx := context.Background()

	for _, in := range []MemberInput{
		{Categoria: core.VVLL, Nome: "Bagheera"},
		{Categoria: core.VVLL, Nome: "Akela"},
		{Categoria: core.Lupetto, Nome: "Mowgli"},
	} {
		if _, err := svc.CreateMember(ctx, in); err != nil {
			t.Fatalf("CreateMember(%s) error = %v", in.Nome, err)
		}
	}

	names, err := svc.VVLLNames(ctx)
	if err != nil {
		t.Fatalf("VVLLNames() error = %v", err)
	}
	if len(names) != 2 || names[0] != "Akela" || names[1] != "Bagheera" {
		t.Errorf("VVLLNames() = %v, want sorted leaders only", names)
	}
}

func TestRubricaService_DeleteMemberLeavesExpenses(t *testing.T) {
	st := memory.New()
	rubrica := NewRubricaService(st)
	spese := NewSpeseService(st)
	ctx := context.Background()

	id, err := rubrica.CreateMember(ctx, MemberInput{Categoria: core.VVLL, Nome: "Akela"})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if _, err := spese.CreateSpesa(ctx, core.Expense{
		Importo:         20,
		Categoria:       core.SpesaCibo,
		MetodoPagamento: core.Contanti,
		Anticipata:      true,
		AnticipatoDa:    "Akela",
	}); err != nil {
		t.Fatalf("CreateSpesa() error = %v", err)
	}

	if err := rubrica.DeleteMember(ctx, id); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}

	list, err := spese.ListSpese(ctx)
	if err != nil {
		t.Fatalf("ListSpese() error = %v", err)
	}
	if len(list) != 1 || list[0].AnticipatoDa != "Akela" {
		t.Errorf("expense = %v, want dangling anticipatoDa preserved", list)
	}
	if _, err := rubrica.GetMember(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetMember() after delete error = %v, want ErrNotFound", err)
	}
}
