package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"brancoapp/internal/core"
	"brancoapp/internal/store"
)

// SenzaAnno groups Lupetti whose activity year was never filled in.
const SenzaAnno = "Senza anno"

// RubricaService manages the indirizzario collection.
type RubricaService struct {
	store store.Store
}

func NewRubricaService(s store.Store) *RubricaService {
	return &RubricaService{store: s}
}

// MemberInput carries contact fields as they arrive from a form. Email is
// a single comma-separated string; it is normalized before storage.
type MemberInput struct {
	Categoria    core.MemberCategory `json:"categoria"`
	Nome         string              `json:"nome"`
	Cognome      string              `json:"cognome"`
	AnnoAttivita string              `json:"annoAttivita"`
	Compleanno   string              `json:"compleanno"`
	Residenza    string              `json:"residenza"`
	Mamma        string              `json:"mamma"`
	Papa         string              `json:"papa"`
	Cellulare    string              `json:"cellulare"`
	Email        string              `json:"email"`
}

func (in MemberInput) toMember() core.Member {
	return core.Member{
		Categoria:    in.Categoria,
		Nome:         in.Nome,
		Cognome:      in.Cognome,
		AnnoAttivita: in.AnnoAttivita,
		Compleanno:   in.Compleanno,
		Residenza:    in.Residenza,
		Mamma:        in.Mamma,
		Papa:         in.Papa,
		Cellulare:    in.Cellulare,
		Email:        core.NormalizeEmails(in.Email),
	}
}

// CreateMember validates and stores a new contact with an empty payment
// record and no attendance entries.
func (r *RubricaService) CreateMember(ctx context.Context, in MemberInput) (string, error) {
	m := in.toMember()
	if err := m.Validate(); err != nil {
		return "", err
	}
	m.Payments = core.Payments{Main: make(map[string]core.MonthPayment)}

	data, err := store.Encode(m)
	if err != nil {
		return "", err
	}
	id, err := r.store.Add(ctx, store.CollectionIndirizzario, data)
	if err != nil {
		return "", fmt.Errorf("create member: %w", err)
	}

	slog.InfoContext(ctx, "Member created", "id", id, "nome", m.DisplayName())
	return id, nil
}

// UpdateMember rewrites the contact fields of an existing member. Payments
// and attendance are separate field subtrees and stay untouched.
func (r *RubricaService) UpdateMember(ctx context.Context, id string, in MemberInput) error {
	m := in.toMember()
	if err := m.Validate(); err != nil {
		return err
	}

	fields := map[string]any{
		"categoria":    string(m.Categoria),
		"nome":         m.Nome,
		"cognome":      m.Cognome,
		"annoAttivita": m.AnnoAttivita,
		"compleanno":   m.Compleanno,
		"residenza":    m.Residenza,
		"mamma":        m.Mamma,
		"papa":         m.Papa,
		"cellulare":    m.Cellulare,
		"email":        m.Email,
	}
	if err := r.store.Update(ctx, store.CollectionIndirizzario, id, fields); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func (r *RubricaService) GetMember(ctx context.Context, id string) (core.Member, error) {
	doc, err := r.store.Get(ctx, store.CollectionIndirizzario, id)
	if err != nil {
		return core.Member{}, err
	}
	var m core.Member
	if err := store.Decode(doc, &m); err != nil {
		return core.Member{}, err
	}
	m.ID = doc.ID
	return m, nil
}

// DeleteMember removes the contact. Expenses fronted by the member keep
// their anticipatoDa name and dangle.
func (r *RubricaService) DeleteMember(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, store.CollectionIndirizzario, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	slog.InfoContext(ctx, "Member deleted", "id", id)
	return nil
}

// RubricaFilter narrows ListMembers; zero values mean no constraint.
type RubricaFilter struct {
	Categoria core.MemberCategory
	Anno      string
}

func (r *RubricaService) ListMembers(ctx context.Context, f RubricaFilter) ([]core.Member, error) {
	members, err := loadMembers(ctx, r.store)
	if err != nil {
		return nil, err
	}
	out := make([]core.Member, 0, len(members))
	for _, m := range members {
		if f.Categoria != "" && m.Categoria != f.Categoria {
			continue
		}
		if f.Anno != "" && m.AnnoAttivita != f.Anno {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// AnnoGroup is one address-book section: the Lupetti of one activity year.
type AnnoGroup struct {
	Anno    string        `json:"anno"`
	Members []core.Member `json:"members"`
}

// GroupedLupetti returns the Lupetti grouped by activity year, newest year
// first. Members without a year collect under SenzaAnno at the end.
func (r *RubricaService) GroupedLupetti(ctx context.Context) ([]AnnoGroup, error) {
	members, err := loadMembers(ctx, r.store)
	if err != nil {
		return nil, err
	}

	byAnno := make(map[string][]core.Member)
	for _, m := range members {
		if m.Categoria != core.Lupetto {
			continue
		}
		anno := m.AnnoAttivita
		if anno == "" {
			anno = SenzaAnno
		}
		byAnno[anno] = append(byAnno[anno], m)
	}

	years := make([]string, 0, len(byAnno))
	for anno := range byAnno {
		if anno != SenzaAnno {
			years = append(years, anno)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	if _, ok := byAnno[SenzaAnno]; ok {
		years = append(years, SenzaAnno)
	}

	groups := make([]AnnoGroup, 0, len(years))
	for _, anno := range years {
		groups = append(groups, AnnoGroup{Anno: anno, Members: byAnno[anno]})
	}
	return groups, nil
}

// VVLLNames lists the display names of the adult leaders, sorted. They are
// the candidates for fronting an expense.
func (r *RubricaService) VVLLNames(ctx context.Context) ([]string, error) {
	members, err := loadMembers(ctx, r.store)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		if m.Categoria == core.VVLL {
			names = append(names, m.DisplayName())
		}
	}
	sort.Strings(names)
	return names, nil
}
