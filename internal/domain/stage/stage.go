// Package stage models a game's position inside its question grid as a
// mixed-radix counter over (set, category, question).
package stage

import "fmt"

// Grid dimensions. Every set holds CategoriesPerSet categories of
// QuestionsPerCategory questions; a game plays SetsPerGame sets plus an
// optional bonus set at index SetsPerGame.
const (
	QuestionsPerCategory = 8
	CategoriesPerSet     = 3
	SetsPerGame          = 4
)

// Stage is a coordinate in the question grid. The zero value is the first
// question of the game.
type Stage struct {
	Set      int `json:"set"`
	Category int `json:"category"`
	Question int `json:"question"`
}

// Advance moves the counter to the next question, carrying overflow from
// question to category to set. The boolean reports whether the set index
// increased, which callers use to trigger set-boundary summaries.
func (s Stage) Advance() (Stage, bool) {
	s.Question++
	if s.Question >= QuestionsPerCategory {
		s.Question = 0
		s.Category++
	}
	if s.Category >= CategoriesPerSet {
		s.Category = 0
		s.Set++
		return s, true
	}
	return s, false
}

// Retreat moves the counter to the previous question, borrowing underflow
// from category and set. Retreating from the start of the game is a no-op.
func (s Stage) Retreat() Stage {
	prev := s
	prev.Question--
	if prev.Question < 0 {
		prev.Question = QuestionsPerCategory - 1
		prev.Category--
	}
	if prev.Category < 0 {
		prev.Category = CategoriesPerSet - 1
		prev.Set--
	}
	if prev.Set < 0 {
		return s
	}
	return prev
}

// GameOver reports whether the counter has moved past the last playable set.
// With a bonus round enabled the bonus set at index SetsPerGame must itself
// be completed first.
func (s Stage) GameOver(hasBonusRound bool) bool {
	if hasBonusRound {
		return s.Set > SetsPerGame
	}
	return s.Set >= SetsPerGame
}

// Valid reports whether the coordinate addresses a playable question in a
// grid with or without a bonus set.
func (s Stage) Valid(hasBonusRound bool) bool {
	return s.Set >= 0 && s.Set < SetCount(hasBonusRound) &&
		s.Category >= 0 && s.Category < CategoriesPerSet &&
		s.Question >= 0 && s.Question < QuestionsPerCategory
}

// Key returns a stable "set-category-question" label used in logs and as a
// ledger coordinate string.
func (s Stage) Key() string {
	return fmt.Sprintf("%d-%d-%d", s.Set, s.Category, s.Question)
}

// SetCount returns the number of playable sets for a game.
func SetCount(hasBonusRound bool) int {
	if hasBonusRound {
		return SetsPerGame + 1
	}
	return SetsPerGame
}
