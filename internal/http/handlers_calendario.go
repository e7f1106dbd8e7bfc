package http

import (
	"net/http"

	"brancoapp/internal/core"
)

// eventResponse re-attaches the document id, which the storage codec
// strips from the body.
type eventResponse struct {
	ID string `json:"id"`
	core.Event
}

func toEventResponse(e core.Event) eventResponse {
	return eventResponse{ID: e.ID, Event: e}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.calendario.ListEvents(r.Context())
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

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var e core.Event
	if !decodeBody(w, r, &e) {
		return
	}
	id, err := s.calendario.CreateEvent(r.Context(), e)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateMarkedDates()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.calendario.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var e core.Event
	if !decodeBody(w, r, &e) {
		return
	}
	if err := s.calendario.UpdateEvent(r.Context(), r.PathValue("id"), e); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateMarkedDates()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.calendario.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateMarkedDates()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDayEvents(w http.ResponseWriter, r *http.Request) {
	expanded, err := s.calendario.DayEvents(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expanded)
}

func (s *Server) handleMarkedDates(w http.ResponseWriter, r *http.Request) {
	if marked, ok := s.markedCache.Get(markedCacheKey); ok {
		writeJSON(w, http.StatusOK, marked)
		return
	}
	marked, err := s.calendario.MarkedDates(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.markedCache.Set(markedCacheKey, marked)
	writeJSON(w, http.StatusOK, marked)
}
