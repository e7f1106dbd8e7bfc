package core

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Mesi are the nine fee months of the scouting year, ottobre first. The
// offset table below maps wall-clock months onto these labels; luglio,
// agosto and settembre fall outside it on purpose (the fee year is closed),
// so CurrentMonthLabel reports ok=false for them instead of guessing.
var Mesi = [...]string{
	"ottobre", "novembre", "dicembre", "gennaio", "febbraio",
	"marzo", "aprile", "maggio", "giugno",
}

// IsMonthLabel reports whether s is one of the nine fee-month labels.
func IsMonthLabel(s string) bool {
	for _, m := range Mesi {
		if m == s {
			return true
		}
	}
	return false
}

// IsExtraKey reports whether s names one of the flat extra-fee totals.
func IsExtraKey(s string) bool {
	return s == ExtraVDBI || s == ExtraFDP || s == ExtraVDBE
}

// CurrentMonthLabel maps now's calendar month onto the fee-month table,
// anchored at ottobre = index 0. ok is false for the three summer months
// that the table does not cover.
func CurrentMonthLabel(now time.Time) (string, bool) {
	offset := (int(now.Month()) - 1 - 9 + 12) % 12
	if offset >= len(Mesi) {
		return "", false
	}
	return Mesi[offset], true
}

// TotalPaid is the member's paid-to-date total: every monthly entry plus
// the three extra-fee totals. Pure sum, order independent.
func (p Payments) TotalPaid() float64 {
	total := p.VDBI + p.FDP + p.VDBE
	for _, m := range p.Main {
		total += m.Paid
	}
	return total
}

// MonthPaid returns the amount recorded for a fee month, zero when absent.
func (p Payments) MonthPaid(mese string) float64 {
	if m, ok := p.Main[mese]; ok {
		return m.Paid
	}
	return 0
}

// AlertDue reports whether the current fee month is not fully paid. A
// missing entry counts as zero, hence due. Outside the fee year there is
// no current month and nothing is due.
func (p Payments) AlertDue(now time.Time) bool {
	mese, ok := CurrentMonthLabel(now)
	if !ok {
		return false
	}
	return p.MonthPaid(mese) < MaxQuota
}

// ClampQuota coerces raw fee input to a number and clamps it to
// [0, MaxQuota]. Non-numeric input becomes zero; a decimal comma is
// accepted. ParseFloat also accepts "NaN" and "Inf", which become zero
// like any other garbage: a NaN stored in a payment entry would break
// JSON encoding of the whole document.
func ClampQuota(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = 0
	}
	return ClampQuotaValue(v)
}

// ClampQuotaValue clamps v to [0, MaxQuota]. Non-finite values become
// zero; NaN in particular fails both range comparisons and would pass
// through unclamped.
func ClampQuotaValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > MaxQuota {
		return MaxQuota
	}
	return v
}

// LedgerRow is one line of the quota ledger: a Lupetto with the derived
// paid-to-date total and the current-month due flag.
type LedgerRow struct {
	MemberID  string   `json:"id"`
	Nome      string   `json:"nome"`
	Anno      string   `json:"anno"`
	Payments  Payments `json:"payments"`
	TotalPaid float64  `json:"totalPaid"`
	AlertDue  bool     `json:"alertDue"`
}

// BuildLedger derives ledger rows for every Lupetto in the roster, plus
// the sorted set of activity years found. Row order follows the roster.
func BuildLedger(members []Member, now time.Time) ([]LedgerRow, []string) {
	rows := make([]LedgerRow, 0, len(members))
	years := make(map[string]struct{})
	for _, m := range members {
		if m.Categoria != Lupetto {
			continue
		}
		if m.AnnoAttivita != "" {
			years[m.AnnoAttivita] = struct{}{}
		}
		rows = append(rows, LedgerRow{
			MemberID:  m.ID,
			Nome:      m.DisplayName(),
			Anno:      m.AnnoAttivita,
			Payments:  m.Payments,
			TotalPaid: m.Payments.TotalPaid(),
			AlertDue:  m.Payments.AlertDue(now),
		})
	}
	sorted := make([]string, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Strings(sorted)
	return rows, sorted
}

// QuoteTotali sums TotalPaid across every Lupetto in the roster. The
// expense summary counts this as income alongside donations.
func QuoteTotali(members []Member) float64 {
	var total float64
	for _, m := range members {
		if m.Categoria == Lupetto {
			total += m.Payments.TotalPaid()
		}
	}
	return total
}
