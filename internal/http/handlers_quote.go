package http

import "net/http"

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	view, err := s.quote.Ledger(r.Context(), r.URL.Query().Get("anno"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// paymentInput carries the raw amount as typed. Coercion and clamping
// happen in the service.
type paymentInput struct {
	Importo string `json:"importo"`
}

func (s *Server) handleUpdateMonthPayment(w http.ResponseWriter, r *http.Request) {
	var in paymentInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.quote.UpdateMonthPayment(r.Context(), r.PathValue("id"), r.PathValue("mese"), in.Importo); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateExtraPayment(w http.ResponseWriter, r *http.Request) {
	var in paymentInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.quote.UpdateExtraPayment(r.Context(), r.PathValue("id"), r.PathValue("key"), in.Importo); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkQuotaPaid(w http.ResponseWriter, r *http.Request) {
	if err := s.quote.MarkQuotaPaid(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
