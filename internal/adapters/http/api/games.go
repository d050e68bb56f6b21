package api

import (
	"fmt"
	"net/http"
	"strings"

	service "github.com/quizroyalty/scorekeep/internal/app"
	"github.com/quizroyalty/scorekeep/internal/domain/game"
)

// GamesHandler handles game lifecycle and scoring requests.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleCreate handles POST /games requests.
func (h *GamesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var p service.CreateGameParams
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.deps.CreateGame(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// HandleList handles GET /games?season=&status= requests.
func (h *GamesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season")
	status := game.Status(r.URL.Query().Get("status"))
	games, err := h.deps.ListGames(r.Context(), seasonID, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleGet handles GET /games/{id} requests.
func (h *GamesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g, err := h.deps.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleStart handles POST /games/{id}/start requests.
func (h *GamesHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	g, err := h.deps.StartGame(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type setTeamsRequest struct {
	TeamIDs []string `json:"teamIds"`
}

// HandleSetTeams handles PUT /games/{id}/teams requests.
func (h *GamesHandler) HandleSetTeams(w http.ResponseWriter, r *http.Request) {
	var req setTeamsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.deps.SetTeams(r.Context(), r.PathValue("id"), req.TeamIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleSetCategory handles PUT /games/{id}/categories/{key} requests, where
// key is the "set-category" form used by the category configuration map.
func (h *GamesHandler) HandleSetCategory(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var set, category int
	if _, err := fmt.Sscanf(key, "%d-%d", &set, &category); err != nil || strings.Count(key, "-") != 1 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: category key must look like \"1-2\"", ErrBadRequest))
		return
	}
	var cfg game.CategoryConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.deps.SetCategory(r.Context(), r.PathValue("id"), set, category, cfg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleAdvance handles POST /games/{id}/advance requests.
func (h *GamesHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	update, err := h.deps.AdvanceStage(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// HandleRetreat handles POST /games/{id}/retreat requests.
func (h *GamesHandler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	update, err := h.deps.RetreatStage(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// HandleRecordResult handles PUT /games/{id}/results requests.
func (h *GamesHandler) HandleRecordResult(w http.ResponseWriter, r *http.Request) {
	var p service.RecordResultParams
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entry, err := h.deps.RecordResult(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleAddAdjustment handles POST /games/{id}/adjustments requests.
func (h *GamesHandler) HandleAddAdjustment(w http.ResponseWriter, r *http.Request) {
	var p service.AdjustmentParams
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	adj, err := h.deps.AddAdjustment(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adj)
}

type bonusRoundRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleBonusRound handles POST /games/{id}/bonus-round requests.
func (h *GamesHandler) HandleBonusRound(w http.ResponseWriter, r *http.Request) {
	var req bonusRoundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.deps.SetBonusRound(r.Context(), r.PathValue("id"), req.Enabled)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type archiveRequest struct {
	Feedback []game.Feedback `json:"feedback"`
}

// HandleArchive handles POST /games/{id}/archive requests.
func (h *GamesHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
	}
	g, err := h.deps.ArchiveGame(r.Context(), r.PathValue("id"), req.Feedback)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleScoreboard handles GET /games/{id}/scoreboard requests.
func (h *GamesHandler) HandleScoreboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.deps.Scoreboard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
