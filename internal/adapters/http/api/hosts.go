package api

import "net/http"

// HostsHandler handles host roster requests.
type HostsHandler struct {
	deps Dependencies
}

// NewHostsHandler creates a new hosts handler.
func NewHostsHandler(deps Dependencies) *HostsHandler {
	return &HostsHandler{deps: deps}
}

type createHostRequest struct {
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
}

// HandleCreate handles POST /hosts requests.
func (h *HostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createHostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	host, err := h.deps.CreateHost(r.Context(), req.Name, req.TeamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, host)
}

// HandleList handles GET /hosts requests.
func (h *HostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.deps.ListHosts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hosts)
}
