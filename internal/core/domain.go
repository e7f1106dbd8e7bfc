package core

import (
	"errors"
	"strings"
	"time"
)

// MaxQuota is the monthly fee ceiling in euro. Every payment entry is
// clamped to [0, MaxQuota] at write time.
const MaxQuota = 15.0

const (
	Lupetto MemberCategory = "Lupetto"
	VVLL    MemberCategory = "VVLL"
)

const (
	CategoriaUscita   EventCategory = "Uscita"
	CategoriaRiunione EventCategory = "Riunione"
	CategoriaCaccia   EventCategory = "Caccia"
	CategoriaStaff    EventCategory = "Staff"
	CategoriaCoca     EventCategory = "Coca"
	CategoriaZona     EventCategory = "Zona"
	CategoriaVDBE     EventCategory = "VDBE"
	CategoriaVDBI     EventCategory = "VDBI"
	CategoriaFPD      EventCategory = "FPD"
)

const (
	SpesaGenerale  ExpenseCategory = "Generale"
	SpesaCibo      ExpenseCategory = "Cibo"
	SpesaTrasporto ExpenseCategory = "Trasporto"
	SpesaAlloggio  ExpenseCategory = "Alloggio"
	SpesaAltro     ExpenseCategory = "Altro"
	// Donazione is income, not an expense. The aggregators treat it as a
	// sentinel value inside the same collection.
	Donazione ExpenseCategory = "Donazione"
)

const (
	CassaComune PaymentMethod = "Cassa Comune"
	Contanti    PaymentMethod = "Contanti"
	Carta       PaymentMethod = "Carta"
)

// Extra-fee keys inside Payments, alongside the monthly entries.
const (
	ExtraVDBI = "VDBI"
	ExtraFDP  = "FDP"
	ExtraVDBE = "VDBE"
)

type (
	MemberCategory  string
	EventCategory   string
	ExpenseCategory string
	PaymentMethod   string

	// MonthPayment is one monthly fee entry, {"paid": n} on the wire.
	MonthPayment struct {
		Paid float64 `json:"paid"`
	}

	// Payments is the per-member fee record: monthly entries keyed by the
	// Italian month label plus three flat extra-fee totals.
	Payments struct {
		Main map[string]MonthPayment `json:"main"`
		VDBI float64                 `json:"VDBI"`
		FDP  float64                 `json:"FDP"`
		VDBE float64                 `json:"VDBE"`
	}

	// Member is a document in the indirizzario collection.
	Member struct {
		ID           string         `json:"-"`
		Categoria    MemberCategory `json:"categoria"`
		Nome         string         `json:"nome"`
		Cognome      string         `json:"cognome"`
		AnnoAttivita string         `json:"annoAttivita,omitempty"`
		Compleanno   string         `json:"compleanno,omitempty"` // DD/MM/YYYY, stored as text
		Residenza    string         `json:"residenza,omitempty"`
		Mamma        string         `json:"mamma,omitempty"`
		Papa         string         `json:"papa,omitempty"`
		Cellulare    string         `json:"cellulare,omitempty"`
		Email        []string       `json:"email"`
		Payments     Payments       `json:"payments"`
		// Presenze maps event id to a presence flag. A missing key means
		// present: read it through Present, never directly.
		Presenze map[string]bool `json:"presenze,omitempty"`
	}

	// Event is a document in the events collection.
	Event struct {
		ID       string        `json:"-"`
		Title    string        `json:"title"`
		Category EventCategory `json:"category"`
		Start    time.Time     `json:"start"`
		End      time.Time     `json:"end"`
	}

	// Expense is a document in the spese collection. AnticipatoDa is the
	// fronting member's display name, not an id; renaming a member leaves
	// these references dangling.
	Expense struct {
		ID              string          `json:"-"`
		Importo         float64         `json:"importo"`
		Categoria       ExpenseCategory `json:"categoria"`
		MetodoPagamento PaymentMethod   `json:"metodoPagamento"`
		Anticipata      bool            `json:"anticipata"`
		AnticipatoDa    string          `json:"anticipatoDa"`
		Descrizione     string          `json:"descrizione"`
		Data            time.Time       `json:"data"`
	}
)

var (
	ErrInvalidCategoria   = errors.New("invalid categoria")
	ErrEmptyNome          = errors.New("empty nome")
	ErrInvalidImporto     = errors.New("invalid importo")
	ErrMissingAnticipante = errors.New("anticipata expense requires anticipatoDa")
	ErrInvalidMetodo      = errors.New("invalid metodo pagamento")
	ErrEmptyTitle         = errors.New("empty title")
	ErrEndBeforeStart     = errors.New("end must not be before start")
	ErrUnknownMonth       = errors.New("unknown month or extra-fee key")
)

// IsValid reports whether mc is one of the two member categories.
func (mc MemberCategory) IsValid() bool {
	return mc == Lupetto || mc == VVLL
}

// IsValid reports whether ec is a known event category.
func (ec EventCategory) IsValid() bool {
	switch ec {
	case CategoriaUscita, CategoriaRiunione, CategoriaCaccia, CategoriaStaff,
		CategoriaCoca, CategoriaZona, CategoriaVDBE, CategoriaVDBI, CategoriaFPD:
		return true
	}
	return false
}

// IsValid reports whether sc is a known expense category (Donazione included).
func (sc ExpenseCategory) IsValid() bool {
	switch sc {
	case SpesaGenerale, SpesaCibo, SpesaTrasporto, SpesaAlloggio, SpesaAltro, Donazione:
		return true
	}
	return false
}

// IsValid reports whether pm is a known payment method.
func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case CassaComune, Contanti, Carta:
		return true
	}
	return false
}

func (m Member) DisplayName() string {
	return strings.TrimSpace(m.Nome + " " + m.Cognome)
}

func (m Member) Validate() error {
	if !m.Categoria.IsValid() {
		return ErrInvalidCategoria
	}
	if strings.TrimSpace(m.Nome) == "" {
		return ErrEmptyNome
	}
	return nil
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategoria
	}
	if e.End.Before(e.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Importo <= 0 {
		return ErrInvalidImporto
	}
	if !e.Categoria.IsValid() {
		return ErrInvalidCategoria
	}
	if e.Anticipata && strings.TrimSpace(e.AnticipatoDa) == "" {
		return ErrMissingAnticipante
	}
	return nil
}

// NormalizeEmails turns comma-separated input into the stored form: an
// ordered slice of trimmed, non-empty addresses.
func NormalizeEmails(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
