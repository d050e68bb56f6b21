package game

import "github.com/quizroyalty/scorekeep/internal/domain/stage"

// QuestionResult is one ledger entry: the outcome of a single question. At
// most one entry exists per stage coordinate; recording the same coordinate
// again replaces the prior entry in place.
type QuestionResult struct {
	Stage   stage.Stage `json:"stage"`
	TeamIDs []string    `json:"teamIds"`
	Points  int         `json:"points"`
}

// Credits reports whether the entry credits the given team.
func (r QuestionResult) Credits(teamID string) bool {
	for _, id := range r.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// ResolvePoints picks the point value for a result: an explicit operator
// value wins, then the game's sticky value, then the default of one.
func (g Game) ResolvePoints(explicit *int) int {
	if explicit != nil {
		return *explicit
	}
	if g.StickyPoints > 0 {
		return g.StickyPoints
	}
	return DefaultQuestionPoints
}

// RecordResult writes the outcome of a question into the ledger. An entry
// already at that coordinate is replaced without moving, so breakdown
// displays keep their order; a new coordinate appends. The resolved point
// value becomes the new sticky value for subsequent questions.
func (g *Game) RecordResult(at stage.Stage, teamIDs []string, explicit *int) (QuestionResult, error) {
	if err := g.mutable(); err != nil {
		return QuestionResult{}, err
	}
	entry := QuestionResult{
		Stage:   at,
		TeamIDs: dedupeIDs(teamIDs),
		Points:  g.ResolvePoints(explicit),
	}
	replaced := false
	for i := range g.Results {
		if g.Results[i].Stage == at {
			g.Results[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		g.Results = append(g.Results, entry)
	}
	g.StickyPoints = entry.Points
	return entry, nil
}

// ResultAt returns the ledger entry at a coordinate, if any.
func (g Game) ResultAt(at stage.Stage) (QuestionResult, bool) {
	for _, r := range g.Results {
		if r.Stage == at {
			return r, true
		}
	}
	return QuestionResult{}, false
}

// LedgerScore sums the points of every ledger entry crediting the team.
// Unknown teams sum to zero.
func (g Game) LedgerScore(teamID string) int {
	total := 0
	for _, r := range g.Results {
		if r.Credits(teamID) {
			total += r.Points
		}
	}
	return total
}

// LedgerScoreForSet is LedgerScore restricted to one set index.
func (g Game) LedgerScoreForSet(teamID string, set int) int {
	total := 0
	for _, r := range g.Results {
		if r.Stage.Set == set && r.Credits(teamID) {
			total += r.Points
		}
	}
	return total
}
