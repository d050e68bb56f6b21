package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pressly/goose/v3"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/pkg/logger"
	"github.com/quizroyalty/scorekeep/pkg/metrics"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Default connection settings for the SQLite store.
const (
	defaultMaxOpenConns = 4
	defaultMaxIdleConns = 2
	defaultBusyTimeout  = 5 * time.Second
)

// SQLiteStore persists aggregates as JSON documents in SQLite, one row per
// aggregate with a handful of filter columns beside the document. The schema
// is managed by embedded goose migrations.
type SQLiteStore struct {
	db           *sql.DB
	log          logger.Logger
	maxOpenConns int
	busyTimeout  time.Duration
}

// NewSQLiteStore opens (creating if needed) the database at path, tunes it
// for a single-process writer, and applies pending migrations.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{
		log:          logger.Named("repository"),
		maxOpenConns: defaultMaxOpenConns,
		busyTimeout:  defaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log.Info(ctx, "opening sqlite store", logger.String("path", path))
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	s.db = db

	if err := s.applyPragmas(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Info(ctx, "sqlite store ready", logger.String("path", path))
	return s, nil
}

func (s *SQLiteStore) applyPragmas(ctx context.Context) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", fmt.Sprintf("%d", s.busyTimeout.Milliseconds())},
		{"foreign_keys", "ON"},
		{"temp_store", "MEMORY"},
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("set pragma %s: %w", p.name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) migrate() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// PutGame stores or replaces a game by its identifier.
func (s *SQLiteStore) PutGame(ctx context.Context, g game.Game) error {
	start := time.Now()
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO games (id, season_id, status, type, played_at, document)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, g.SeasonID, string(g.Status), string(g.Type), g.PlayedAt.UTC().Unix(), string(doc))
	if err != nil {
		metrics.RecordErrorByComponent("store", "put_game")
		return fmt.Errorf("put game: %w", err)
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// GetGame returns a normalized copy of a game.
func (s *SQLiteStore) GetGame(ctx context.Context, id string) (game.Game, error) {
	start := time.Now()
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM games WHERE id = ?`, id).Scan(&doc)
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("store", "game_not_found")
		return game.Game{}, ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	return decodeGame(doc)
}

// ListGames returns games matching the filter, most recently played first.
func (s *SQLiteStore) ListGames(ctx context.Context, f GameFilter) ([]game.Game, error) {
	start := time.Now()
	query := `SELECT document FROM games`
	var conds []string
	var args []interface{}
	if f.SeasonID != "" {
		conds = append(conds, "season_id = ?")
		args = append(args, f.SeasonID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY played_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []game.Game
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g, err := decodeGame(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// PutTeam stores or replaces a team.
func (s *SQLiteStore) PutTeam(ctx context.Context, t game.Team) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode team: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO teams (id, name, archived, document)
		VALUES (?, ?, ?, ?)
	`, t.ID, t.Name, boolToInt(t.Archived), string(doc))
	if err != nil {
		metrics.RecordErrorByComponent("store", "put_team")
		return fmt.Errorf("put team: %w", err)
	}
	return nil
}

// GetTeam returns a team by identifier.
func (s *SQLiteStore) GetTeam(ctx context.Context, id string) (game.Team, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM teams WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("store", "team_not_found")
		return game.Team{}, ErrTeamNotFound
	}
	if err != nil {
		return game.Team{}, fmt.Errorf("get team: %w", err)
	}
	var t game.Team
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return game.Team{}, fmt.Errorf("decode team: %w", err)
	}
	return t, nil
}

// ListTeams returns all teams ordered by name, archived ones included.
func (s *SQLiteStore) ListTeams(ctx context.Context) ([]game.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM teams ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var out []game.Team
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		var t game.Team
		if err := json.Unmarshal([]byte(doc), &t); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return out, nil
}

// PutHost stores or replaces a host.
func (s *SQLiteStore) PutHost(ctx context.Context, h game.Host) error {
	doc, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode host: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO hosts (id, name, document)
		VALUES (?, ?, ?)
	`, h.ID, h.Name, string(doc))
	if err != nil {
		metrics.RecordErrorByComponent("store", "put_host")
		return fmt.Errorf("put host: %w", err)
	}
	return nil
}

// GetHost returns a host by identifier.
func (s *SQLiteStore) GetHost(ctx context.Context, id string) (game.Host, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM hosts WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("store", "host_not_found")
		return game.Host{}, ErrHostNotFound
	}
	if err != nil {
		return game.Host{}, fmt.Errorf("get host: %w", err)
	}
	var h game.Host
	if err := json.Unmarshal([]byte(doc), &h); err != nil {
		return game.Host{}, fmt.Errorf("decode host: %w", err)
	}
	return h, nil
}

// ListHosts returns all hosts ordered by name.
func (s *SQLiteStore) ListHosts(ctx context.Context) ([]game.Host, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM hosts ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var out []game.Host
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		var h game.Host
		if err := json.Unmarshal([]byte(doc), &h); err != nil {
			return nil, fmt.Errorf("decode host: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	return out, nil
}

// CreateSeason stores a new season inside a transaction, deactivating any
// previously active one when the new season is active.
func (s *SQLiteStore) CreateSeason(ctx context.Context, season game.Season) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create season: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if season.Active {
		rows, err := tx.QueryContext(ctx, `SELECT id, document FROM seasons WHERE active = 1`)
		if err != nil {
			return fmt.Errorf("create season: %w", err)
		}
		type row struct{ id, doc string }
		var actives []row
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.id, &r.doc); err != nil {
				rows.Close()
				return fmt.Errorf("create season: %w", err)
			}
			actives = append(actives, r)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("create season: %w", err)
		}
		for _, r := range actives {
			var prev game.Season
			if err := json.Unmarshal([]byte(r.doc), &prev); err != nil {
				return fmt.Errorf("decode season: %w", err)
			}
			prev.Active = false
			doc, err := json.Marshal(prev)
			if err != nil {
				return fmt.Errorf("encode season: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE seasons SET active = 0, document = ? WHERE id = ?`, string(doc), r.id); err != nil {
				return fmt.Errorf("deactivate season: %w", err)
			}
		}
	}

	doc, err := json.Marshal(season)
	if err != nil {
		return fmt.Errorf("encode season: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO seasons (id, name, active, document)
		VALUES (?, ?, ?, ?)
	`, season.ID, season.Name, boolToInt(season.Active), string(doc)); err != nil {
		metrics.RecordErrorByComponent("store", "create_season")
		return fmt.Errorf("create season: %w", err)
	}
	return tx.Commit()
}

// GetSeason returns a season by identifier.
func (s *SQLiteStore) GetSeason(ctx context.Context, id string) (game.Season, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM seasons WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("store", "season_not_found")
		return game.Season{}, ErrSeasonNotFound
	}
	if err != nil {
		return game.Season{}, fmt.Errorf("get season: %w", err)
	}
	var season game.Season
	if err := json.Unmarshal([]byte(doc), &season); err != nil {
		return game.Season{}, fmt.Errorf("decode season: %w", err)
	}
	return season, nil
}

// ListSeasons returns all seasons ordered by name.
func (s *SQLiteStore) ListSeasons(ctx context.Context) ([]game.Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM seasons ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var out []game.Season
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		var season game.Season
		if err := json.Unmarshal([]byte(doc), &season); err != nil {
			return nil, fmt.Errorf("decode season: %w", err)
		}
		out = append(out, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeGame(doc string) (game.Game, error) {
	var g game.Game
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return game.Game{}, fmt.Errorf("decode game: %w", err)
	}
	return game.Normalize(g), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
