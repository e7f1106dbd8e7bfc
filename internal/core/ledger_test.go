package core

import (
	"testing"
	"time"
)

func TestCurrentMonthLabel(t *testing.T) {
	cases := []struct {
		month time.Month
		label string
		ok    bool
	}{
		{time.October, "ottobre", true},
		{time.November, "novembre", true},
		{time.December, "dicembre", true},
		{time.January, "gennaio", true},
		{time.February, "febbraio", true},
		{time.March, "marzo", true},
		{time.April, "aprile", true},
		{time.May, "maggio", true},
		{time.June, "giugno", true},
		// The three summer months fall outside the nine-label table.
		{time.July, "", false},
		{time.August, "", false},
		{time.September, "", false},
	}
	for _, tc := range cases {
		now := time.Date(2024, tc.month, 15, 12, 0, 0, 0, time.UTC)
		label, ok := CurrentMonthLabel(now)
		if ok != tc.ok || label != tc.label {
			t.Errorf("month %v: got (%q, %v), want (%q, %v)", tc.month, label, ok, tc.label, tc.ok)
		}
	}
}

func TestClampQuota(t *testing.T) {
	cases := []struct {
		in  string
		out float64
	}{
		{"10", 10},
		{"15", 15},
		{"20", 15},   // oversized clamps to the ceiling
		{"-5", 0},    // negative clamps to zero
		{"abc", 0},   // non-numeric coerces to zero
		{"", 0},
		{"7,5", 7.5}, // decimal comma accepted
		{" 3 ", 3},
		{"NaN", 0}, // ParseFloat accepts these; they must not escape the range
		{"Inf", 0},
		{"-Inf", 0},
	}
	for _, tc := range cases {
		if got := ClampQuota(tc.in); got != tc.out {
			t.Errorf("ClampQuota(%q) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestTotalPaidOrderInvariant(t *testing.T) {
	p := Payments{
		Main: map[string]MonthPayment{
			"ottobre":  {Paid: 15},
			"novembre": {Paid: 10},
			"gennaio":  {Paid: 5},
		},
		VDBI: 15, FDP: 7, VDBE: 3,
	}
	want := 15.0 + 10 + 5 + 15 + 7 + 3
	// Map iteration order varies between runs; the sum must not.
	for i := 0; i < 10; i++ {
		if got := p.TotalPaid(); got != want {
			t.Fatalf("TotalPaid = %v, want %v", got, want)
		}
	}
}

func TestAlertDue(t *testing.T) {
	november := time.Date(2024, time.November, 3, 0, 0, 0, 0, time.UTC)
	august := time.Date(2024, time.August, 3, 0, 0, 0, 0, time.UTC)

	paid := Payments{Main: map[string]MonthPayment{"novembre": {Paid: MaxQuota}}}
	if paid.AlertDue(november) {
		t.Fatalf("fully paid month must not be due")
	}

	partial := Payments{Main: map[string]MonthPayment{"novembre": {Paid: 10}}}
	if !partial.AlertDue(november) {
		t.Fatalf("partial payment must be due")
	}

	// A missing entry counts as zero, hence due.
	if !(Payments{}).AlertDue(november) {
		t.Fatalf("missing entry must be due")
	}

	// No current month outside the fee year, so nothing is due.
	if (Payments{}).AlertDue(august) {
		t.Fatalf("august has no fee month, must not be due")
	}
}

func TestBuildLedger(t *testing.T) {
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	members := []Member{
		{ID: "a", Categoria: Lupetto, Nome: "Anna", Cognome: "Bianchi", AnnoAttivita: "2023",
			Payments: Payments{Main: map[string]MonthPayment{"gennaio": {Paid: MaxQuota}}, VDBI: 5}},
		{ID: "b", Categoria: VVLL, Nome: "Capo", Cognome: "Akela"},
		{ID: "c", Categoria: Lupetto, Nome: "Luca", Cognome: "Verdi", AnnoAttivita: "2022"},
	}
	rows, years := BuildLedger(members, now)
	if len(rows) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(rows))
	}
	if rows[0].TotalPaid != 20 || rows[0].AlertDue {
		t.Fatalf("row 0: totalPaid=%v alertDue=%v", rows[0].TotalPaid, rows[0].AlertDue)
	}
	if rows[1].TotalPaid != 0 || !rows[1].AlertDue {
		t.Fatalf("row 1: totalPaid=%v alertDue=%v", rows[1].TotalPaid, rows[1].AlertDue)
	}
	if len(years) != 2 || years[0] != "2022" || years[1] != "2023" {
		t.Fatalf("years = %v", years)
	}
}

func TestQuoteTotali(t *testing.T) {
	members := []Member{
		{Categoria: Lupetto, Payments: Payments{VDBE: 3}},
		{Categoria: Lupetto, Payments: Payments{Main: map[string]MonthPayment{"marzo": {Paid: 12}}}},
		{Categoria: VVLL, Payments: Payments{VDBI: 99}}, // staff fees never count
	}
	if got := QuoteTotali(members); got != 15 {
		t.Fatalf("QuoteTotali = %v, want 15", got)
	}
}
