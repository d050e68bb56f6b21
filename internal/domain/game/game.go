// Package game holds the central mutable aggregate of a trivia night: the
// game itself, its result ledger, its adjustment log, and the lifecycle
// transitions between upcoming, live, and archived.
//
// Derived views (totals, ranks, standings) live in the scoring, rank, and
// standings packages; everything here mutates or normalizes a single Game
// value, which callers persist by whole-value replacement.
package game

import (
	"fmt"
	"time"

	"github.com/quizroyalty/scorekeep/internal/domain/stage"
)

// Type classifies a game for season-standings eligibility defaults.
type Type string

// Game types.
const (
	TypeRegular Type = "regular"
	TypeSpecial Type = "special"
)

// Status is a game's lifecycle state.
type Status string

// Lifecycle states. A game is created Upcoming, transitions to Live when
// started, and is Archived exactly once; archived games reject mutation.
const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusArchived Status = "archived"
)

// CategoryKind is the content type of a question category.
type CategoryKind string

// Category content kinds.
const (
	CategoryText  CategoryKind = "text"
	CategoryImage CategoryKind = "image"
	CategoryAudio CategoryKind = "audio"
	CategoryVideo CategoryKind = "video"
)

// DefaultQuestionPoints is awarded when neither an explicit value nor a
// sticky value is in effect.
const DefaultQuestionPoints = 1

// CategoryConfig is the display configuration of one category slot.
type CategoryConfig struct {
	Name string       `json:"name"`
	Kind CategoryKind `json:"kind"`
}

// Feedback is one team's impression of an archived game. Entries are
// attached once, at archival time.
type Feedback struct {
	TeamID      string `json:"teamId"`
	Rating      int    `json:"rating"`
	Remarks     string `json:"remarks,omitempty"`
	CategoryKey string `json:"categoryKey,omitempty"`
}

// Game is the central aggregate. All mutation happens through its methods;
// persistence is whole-value replacement by the caller, and exactly one
// writer may hold a game at a time.
type Game struct {
	ID       string    `json:"id"`
	SeasonID string    `json:"seasonId"`
	HostIDs  []string  `json:"hostIds"`
	Type     Type      `json:"type"`
	Title    string    `json:"title"`
	PlayedAt time.Time `json:"playedAt"`
	Status   Status    `json:"status"`

	// TeamIDs is the participating roster. Scores are defined only over
	// these teams; stale ledger references outside it are ignored.
	TeamIDs []string `json:"teamIds"`

	HasBonusRound bool                      `json:"hasBonusRound"`
	Categories    map[string]CategoryConfig `json:"categories"`

	// StickyPoints carries the last point value used forward as the default
	// for the next question. Zero means unset.
	StickyPoints int `json:"stickyPoints,omitempty"`

	Stage       stage.Stage        `json:"stage"`
	Results     []QuestionResult   `json:"results"`
	Adjustments []ManualAdjustment `json:"manualAdjustments"`
	Feedback    []Feedback         `json:"feedback,omitempty"`

	// CountInRoyalty overrides standings eligibility when set. Nil means
	// legacy record: eligibility falls back to the type-based default.
	CountInRoyalty *bool `json:"countInRoyalty,omitempty"`

	// StartedOnce latches after the first start so that resuming a game
	// preserves its roster instead of resetting it.
	StartedOnce bool `json:"startedOnce"`

	// LegacyHostID is the pre-multi-host field, honored on load only.
	LegacyHostID string `json:"hostId,omitempty"`
}

// New creates an upcoming game with an empty ledger positioned at the first
// question of the grid.
func New(id, seasonID, title string) Game {
	return Normalize(Game{
		ID:       id,
		SeasonID: seasonID,
		Title:    title,
		Type:     TypeRegular,
		Status:   StatusUpcoming,
	})
}

// Normalize upgrades a legacy-shaped game value to the current shape: the
// single-host field becomes a host list, nil collections become empty, and
// missing enums get their defaults. CountInRoyalty is deliberately left
// untouched so eligibility defaulting can distinguish unset from false.
func Normalize(g Game) Game {
	if len(g.HostIDs) == 0 && g.LegacyHostID != "" {
		g.HostIDs = []string{g.LegacyHostID}
	}
	g.LegacyHostID = ""
	if g.HostIDs == nil {
		g.HostIDs = []string{}
	}
	if g.TeamIDs == nil {
		g.TeamIDs = []string{}
	}
	if g.Categories == nil {
		g.Categories = map[string]CategoryConfig{}
	}
	if g.Results == nil {
		g.Results = []QuestionResult{}
	}
	if g.Adjustments == nil {
		g.Adjustments = []ManualAdjustment{}
	}
	if g.Feedback == nil {
		g.Feedback = []Feedback{}
	}
	if g.Status == "" {
		g.Status = StatusUpcoming
	}
	if g.Type == "" {
		g.Type = TypeRegular
	}
	return g
}

// Start transitions the game to Live. The participating roster is reset to
// empty on the first start only; resuming an already-started game keeps it.
func (g *Game) Start() error {
	if g.Status == StatusArchived {
		return ErrGameArchived
	}
	if !g.StartedOnce {
		g.TeamIDs = []string{}
		g.StartedOnce = true
	}
	g.Status = StatusLive
	return nil
}

// Archive transitions a live game to Archived exactly once and attaches
// feedback. Duplicate entries per team and entries from non-participating
// teams are dropped rather than rejected. Archived games refuse all further
// mutation.
func (g *Game) Archive(feedback []Feedback) error {
	if g.Status == StatusArchived {
		return ErrGameArchived
	}
	if g.Status != StatusLive {
		return ErrGameNotLive
	}
	kept := make([]Feedback, 0, len(feedback))
	seen := make(map[string]bool, len(feedback))
	for _, fb := range feedback {
		if !g.HasTeam(fb.TeamID) || seen[fb.TeamID] {
			continue
		}
		seen[fb.TeamID] = true
		kept = append(kept, fb)
	}
	g.Feedback = kept
	g.Status = StatusArchived
	return nil
}

// AdvanceStage moves the counter to the next question while the game is
// live. The boolean reports a crossed set boundary. Advancing a finished
// game is rejected.
func (g *Game) AdvanceStage() (stage.Stage, bool, error) {
	if err := g.mutable(); err != nil {
		return g.Stage, false, err
	}
	if g.Stage.GameOver(g.HasBonusRound) {
		return g.Stage, false, ErrGameOver
	}
	next, crossed := g.Stage.Advance()
	g.Stage = next
	return next, crossed, nil
}

// RetreatStage moves the counter to the previous question while the game is
// live. Retreating from the first question leaves the stage unchanged.
func (g *Game) RetreatStage() (stage.Stage, error) {
	if err := g.mutable(); err != nil {
		return g.Stage, err
	}
	g.Stage = g.Stage.Retreat()
	return g.Stage, nil
}

// EnableBonusRound extends the grid with the bonus set. Enabling it after
// the regular sets are finished is a valid transition; the stage does not
// move.
func (g *Game) EnableBonusRound() error {
	if g.Status == StatusArchived {
		return ErrGameArchived
	}
	g.HasBonusRound = true
	return nil
}

// DisableBonusRound removes the bonus set again, unless the game already
// depends on it: shrinking the grid under the current position would leave
// the stage undefined, and shrinking it under recorded bonus-set scores
// would strand points outside every breakdown column.
func (g *Game) DisableBonusRound() error {
	if g.Status == StatusArchived {
		return ErrGameArchived
	}
	if !g.HasBonusRound {
		return nil
	}
	if g.Stage.Set >= stage.SetsPerGame || g.bonusSetScored() {
		return ErrBonusLocked
	}
	g.HasBonusRound = false
	return nil
}

// bonusSetScored reports whether any ledger entry or adjustment references
// the bonus set.
func (g Game) bonusSetScored() bool {
	for _, r := range g.Results {
		if r.Stage.Set >= stage.SetsPerGame {
			return true
		}
	}
	for _, adj := range g.Adjustments {
		if adj.SetIndex >= stage.SetsPerGame {
			return true
		}
	}
	return false
}

// SetTeams replaces the participating roster. Ledger entries crediting
// removed teams stay in place and are simply ignored by scoring.
func (g *Game) SetTeams(teamIDs []string) error {
	if g.Status == StatusArchived {
		return ErrGameArchived
	}
	g.TeamIDs = dedupeIDs(teamIDs)
	return nil
}

// SetCategory stores the display configuration for one category slot.
func (g *Game) SetCategory(set, category int, cfg CategoryConfig) error {
	if g.Status == StatusArchived {
		return ErrGameArchived
	}
	if g.Categories == nil {
		g.Categories = map[string]CategoryConfig{}
	}
	g.Categories[CategoryKey(set, category)] = cfg
	return nil
}

// CountsInRoyalty reports season-standings eligibility. The explicit flag
// wins when present; legacy records default by type, regular games counting
// and special games not.
func (g Game) CountsInRoyalty() bool {
	if g.CountInRoyalty != nil {
		return *g.CountInRoyalty
	}
	return g.Type == TypeRegular
}

// HasTeam reports whether a team is in the participating roster.
func (g Game) HasTeam(teamID string) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// CategoryKey is the "set-category" key of the category configuration map.
func CategoryKey(set, category int) string {
	return fmt.Sprintf("%d-%d", set, category)
}

// mutable gates ledger, adjustment, and stage writes to live games.
func (g *Game) mutable() error {
	switch g.Status {
	case StatusArchived:
		return ErrGameArchived
	case StatusLive:
		return nil
	default:
		return ErrGameNotLive
	}
}

// dedupeIDs keeps the first occurrence of each identifier, preserving order.
func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
