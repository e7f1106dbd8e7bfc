package http

import (
	"net/http"

	"brancoapp/internal/core"
)

func (s *Server) handlePresenzeEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.presenze.Events(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.PresenzeFilter{
		Anno:    q.Get("anno"),
		Stato:   core.StatoFiltro(q.Get("stato")),
		EventID: q.Get("event"),
	}
	members, err := s.presenze.Roster(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponses(members))
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event parameter")
		return
	}
	presenti, assenti, err := s.presenze.Counts(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"presenti": presenti, "assenti": assenti})
}

type toggleInput struct {
	MemberID string `json:"memberId"`
	EventID  string `json:"eventId"`
}

func (s *Server) handleTogglePresenza(w http.ResponseWriter, r *http.Request) {
	var in toggleInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.MemberID == "" || in.EventID == "" {
		writeError(w, http.StatusBadRequest, "memberId and eventId are required")
		return
	}
	if err := s.presenze.TogglePresenza(r.Context(), in.MemberID, in.EventID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
