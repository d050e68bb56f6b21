package api

import "net/http"

// TeamsHandler handles team roster and history requests.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

type createTeamRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// HandleCreate handles POST /teams requests.
func (h *TeamsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	team, err := h.deps.CreateTeam(r.Context(), req.Name, req.Members)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// HandleList handles GET /teams requests. Archived teams stay in the list;
// active selection pools filter on the archived flag client-side.
func (h *TeamsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.ListTeams(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleArchive handles POST /teams/{id}/archive requests.
func (h *TeamsHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	team, err := h.deps.ArchiveTeam(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// HandleHistory handles GET /teams/{id}/history requests.
func (h *TeamsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.deps.TeamHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
