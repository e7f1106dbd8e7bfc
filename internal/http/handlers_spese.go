package http

import (
	"net/http"

	"brancoapp/internal/core"
)

type expenseResponse struct {
	ID string `json:"id"`
	core.Expense
}

func (s *Server) handleListSpese(w http.ResponseWriter, r *http.Request) {
	spese, err := s.spese.ListSpese(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]expenseResponse, 0, len(spese))
	for _, sp := range spese {
		out = append(out, expenseResponse{ID: sp.ID, Expense: sp})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSpesa(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if !decodeBody(w, r, &e) {
		return
	}
	id, err := s.spese.CreateSpesa(r.Context(), e)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateSpesa(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if !decodeBody(w, r, &e) {
		return
	}
	if err := s.spese.UpdateSpesa(r.Context(), r.PathValue("id"), e); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSpesa(w http.ResponseWriter, r *http.Request) {
	if err := s.spese.DeleteSpesa(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

type donazioneInput struct {
	Importo     float64 `json:"importo"`
	Descrizione string  `json:"descrizione"`
}

func (s *Server) handleAddDonazione(w http.ResponseWriter, r *http.Request) {
	var in donazioneInput
	if !decodeBody(w, r, &in) {
		return
	}
	id, err := s.spese.AddDonazione(r.Context(), in.Importo, in.Descrizione)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if summary, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}
	summary, err := s.spese.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.summaryCache.Set(summaryCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

type rimborsoInput struct {
	Nome   string `json:"nome"`
	Metodo string `json:"metodo"`
}

func (s *Server) handleEffettuaRimborso(w http.ResponseWriter, r *http.Request) {
	var in rimborsoInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.spese.EffettuaRimborso(r.Context(), in.Nome, core.PaymentMethod(in.Metodo)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
