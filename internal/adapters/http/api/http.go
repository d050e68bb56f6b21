// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quizroyalty/scorekeep/internal/adapters/repository"
	service "github.com/quizroyalty/scorekeep/internal/app"
	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/internal/domain/standings"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Game lifecycle and scoring writes.
	CreateGame(ctx context.Context, p service.CreateGameParams) (game.Game, error)
	GetGame(ctx context.Context, id string) (game.Game, error)
	ListGames(ctx context.Context, seasonID string, status game.Status) ([]game.Game, error)
	StartGame(ctx context.Context, id string) (game.Game, error)
	SetTeams(ctx context.Context, id string, teamIDs []string) (game.Game, error)
	SetCategory(ctx context.Context, id string, set, category int, cfg game.CategoryConfig) (game.Game, error)
	AdvanceStage(ctx context.Context, id string) (service.StageUpdate, error)
	RetreatStage(ctx context.Context, id string) (service.StageUpdate, error)
	RecordResult(ctx context.Context, id string, p service.RecordResultParams) (game.QuestionResult, error)
	AddAdjustment(ctx context.Context, id string, p service.AdjustmentParams) (game.ManualAdjustment, error)
	SetBonusRound(ctx context.Context, id string, enabled bool) (game.Game, error)
	ArchiveGame(ctx context.Context, id string, feedback []game.Feedback) (game.Game, error)

	// Derived read models.
	Scoreboard(ctx context.Context, id string) (service.Scoreboard, error)
	Standings(ctx context.Context, seasonID string) ([]standings.TeamStanding, error)
	TeamHistory(ctx context.Context, teamID string) (standings.TeamHistory, error)

	// Roster management.
	CreateTeam(ctx context.Context, name string, members []string) (game.Team, error)
	ListTeams(ctx context.Context) ([]game.Team, error)
	ArchiveTeam(ctx context.Context, id string) (game.Team, error)
	CreateHost(ctx context.Context, name, teamID string) (game.Host, error)
	ListHosts(ctx context.Context) ([]game.Host, error)
	CreateSeason(ctx context.Context, name string, active bool) (game.Season, error)
	ListSeasons(ctx context.Context) ([]game.Season, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	gamesHandler   *GamesHandler
	seasonsHandler *SeasonsHandler
	teamsHandler   *TeamsHandler
	hostsHandler   *HostsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		gamesHandler:   NewGamesHandler(deps),
		seasonsHandler: NewSeasonsHandler(deps),
		teamsHandler:   NewTeamsHandler(deps),
		hostsHandler:   NewHostsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /games", MetricsMiddleware(s.gamesHandler.HandleCreate, "games"))
	mux.HandleFunc("GET /games", MetricsMiddleware(s.gamesHandler.HandleList, "games"))
	mux.HandleFunc("GET /games/{id}", MetricsMiddleware(s.gamesHandler.HandleGet, "game"))
	mux.HandleFunc("POST /games/{id}/start", MetricsMiddleware(s.gamesHandler.HandleStart, "game_start"))
	mux.HandleFunc("PUT /games/{id}/teams", MetricsMiddleware(s.gamesHandler.HandleSetTeams, "game_teams"))
	mux.HandleFunc("PUT /games/{id}/categories/{key}", MetricsMiddleware(s.gamesHandler.HandleSetCategory, "game_categories"))
	mux.HandleFunc("POST /games/{id}/advance", MetricsMiddleware(s.gamesHandler.HandleAdvance, "game_advance"))
	mux.HandleFunc("POST /games/{id}/retreat", MetricsMiddleware(s.gamesHandler.HandleRetreat, "game_retreat"))
	mux.HandleFunc("PUT /games/{id}/results", MetricsMiddleware(s.gamesHandler.HandleRecordResult, "game_results"))
	mux.HandleFunc("POST /games/{id}/adjustments", MetricsMiddleware(s.gamesHandler.HandleAddAdjustment, "game_adjustments"))
	mux.HandleFunc("POST /games/{id}/bonus-round", MetricsMiddleware(s.gamesHandler.HandleBonusRound, "game_bonus_round"))
	mux.HandleFunc("POST /games/{id}/archive", MetricsMiddleware(s.gamesHandler.HandleArchive, "game_archive"))
	mux.HandleFunc("GET /games/{id}/scoreboard", MetricsMiddleware(s.gamesHandler.HandleScoreboard, "game_scoreboard"))

	mux.HandleFunc("POST /seasons", MetricsMiddleware(s.seasonsHandler.HandleCreate, "seasons"))
	mux.HandleFunc("GET /seasons", MetricsMiddleware(s.seasonsHandler.HandleList, "seasons"))
	mux.HandleFunc("GET /seasons/{id}/standings", MetricsMiddleware(s.seasonsHandler.HandleStandings, "season_standings"))

	mux.HandleFunc("POST /teams", MetricsMiddleware(s.teamsHandler.HandleCreate, "teams"))
	mux.HandleFunc("GET /teams", MetricsMiddleware(s.teamsHandler.HandleList, "teams"))
	mux.HandleFunc("POST /teams/{id}/archive", MetricsMiddleware(s.teamsHandler.HandleArchive, "team_archive"))
	mux.HandleFunc("GET /teams/{id}/history", MetricsMiddleware(s.teamsHandler.HandleHistory, "team_history"))

	mux.HandleFunc("POST /hosts", MetricsMiddleware(s.hostsHandler.HandleCreate, "hosts"))
	mux.HandleFunc("GET /hosts", MetricsMiddleware(s.hostsHandler.HandleList, "hosts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and domain errors onto HTTP statuses:
// validation -> 400, missing aggregates -> 404, rejected lifecycle
// transitions -> 409, everything else -> 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case repository.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, game.ErrGameArchived),
		errors.Is(err, game.ErrGameNotLive),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrBonusLocked):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
