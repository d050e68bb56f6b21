package api

import "net/http"

// SeasonsHandler handles season and standings requests.
type SeasonsHandler struct {
	deps Dependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps Dependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

type createSeasonRequest struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// HandleCreate handles POST /seasons requests. Creating an active season
// deactivates the previously active one.
func (h *SeasonsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	season, err := h.deps.CreateSeason(r.Context(), req.Name, req.Active)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, season)
}

// HandleList handles GET /seasons requests.
func (h *SeasonsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.deps.ListSeasons(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

// HandleStandings handles GET /seasons/{id}/standings requests.
func (h *SeasonsHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	table, err := h.deps.Standings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}
