package core

// SpeseSummary is the expense screen's derived view: income, outgoings,
// running balance and pending reimbursements. It is recomputed from the
// full expense list on every snapshot, never stored.
type SpeseSummary struct {
	Entrate     float64            `json:"entrate"`
	Donazioni   float64            `json:"donazioni"`
	TotaleSpese float64            `json:"totaleSpese"`
	Saldo       float64            `json:"saldo"`
	Rimborsi    map[string]float64 `json:"rimborsi"`
}

// Summarize partitions the expense list into donations and spend, sums the
// buckets, and groups advanced-but-unreimbursed amounts by the fronting
// member's name. quoteTotali is the roster-wide fee total (QuoteTotali),
// counted as income alongside donations.
func Summarize(spese []Expense, quoteTotali float64) SpeseSummary {
	s := SpeseSummary{Rimborsi: make(map[string]float64)}
	for _, sp := range spese {
		if sp.Categoria == Donazione {
			s.Donazioni += sp.Importo
			continue
		}
		s.TotaleSpese += sp.Importo
		if sp.Anticipata && sp.AnticipatoDa != "" {
			s.Rimborsi[sp.AnticipatoDa] += sp.Importo
		}
	}
	s.Entrate = quoteTotali + s.Donazioni
	s.Saldo = s.Entrate - s.TotaleSpese
	return s
}

// PendingFor returns the expenses still waiting to be reimbursed to the
// named member. Donations never appear here.
func PendingFor(spese []Expense, nome string) []Expense {
	out := make([]Expense, 0)
	for _, sp := range spese {
		if sp.Categoria == Donazione {
			continue
		}
		if sp.Anticipata && sp.AnticipatoDa == nome {
			out = append(out, sp)
		}
	}
	return out
}
