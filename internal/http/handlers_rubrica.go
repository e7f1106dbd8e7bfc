package http

import (
	"net/http"

	"brancoapp/internal/core"
	"brancoapp/internal/services"
)

type memberResponse struct {
	ID string `json:"id"`
	core.Member
}

func toMemberResponse(m core.Member) memberResponse {
	return memberResponse{ID: m.ID, Member: m}
}

func toMemberResponses(members []core.Member) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return out
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	f := services.RubricaFilter{
		Categoria: core.MemberCategory(r.URL.Query().Get("categoria")),
		Anno:      r.URL.Query().Get("anno"),
	}
	members, err := s.rubrica.ListMembers(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponses(members))
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var in services.MemberInput
	if !decodeBody(w, r, &in) {
		return
	}
	id, err := s.rubrica.CreateMember(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.rubrica.GetMember(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var in services.MemberInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.rubrica.UpdateMember(r.Context(), r.PathValue("id"), in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	// A categoria change moves the member in or out of the quota total.
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.rubrica.DeleteMember(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

type annoGroupResponse struct {
	Anno    string           `json:"anno"`
	Members []memberResponse `json:"members"`
}

func (s *Server) handleGroupedLupetti(w http.ResponseWriter, r *http.Request) {
	groups, err := s.rubrica.GroupedLupetti(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]annoGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, annoGroupResponse{Anno: g.Anno, Members: toMemberResponses(g.Members)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVVLLNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.rubrica.VVLLNames(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}
