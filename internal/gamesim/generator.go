package gamesim

import (
	"fmt"
	"math/rand"

	"github.com/quizroyalty/scorekeep/internal/domain/stage"
)

// Script generation tuning constants.
const (
	minTeamsPerGame    = 3
	maxWinnersShared   = 2  // ties credit at most two teams
	noWinnerPercent    = 10 // questions nobody answers
	sharedWinPercent   = 15 // questions won jointly
	explicitPctPercent = 70 // questions with explicit points
	maxExplicitPoints  = 5
	maxAdjustments     = 2
	adjustmentSpread   = 7 // adjustment points drawn from [-3, 3]
	percentBase        = 100
)

// playedQuestion is one scripted question outcome.
type playedQuestion struct {
	winners []string // team IDs credited, may be empty
	points  *int     // nil leaves the value to the sticky default
}

// scriptedAdjustment is one scripted manual correction.
type scriptedAdjustment struct {
	teamID   string
	points   int
	setIndex int
	reason   string
}

// gameScript is a fully pre-rolled game: every question outcome, the
// manual adjustments, and the totals the server must arrive at.
type gameScript struct {
	title       string
	bonus       bool
	teamIDs     []string
	questions   []playedQuestion
	adjustments []scriptedAdjustment
	totals      map[string]int // expected final score per team
}

// buildScripts pre-rolls every game before any network traffic so a
// given seed replays the same season regardless of goroutine order.
func buildScripts(rng *rand.Rand, pool []Team, cfg *Config) []gameScript {
	scripts := make([]gameScript, cfg.NumGames)
	for i := range scripts {
		scripts[i] = buildScript(rng, pool, cfg.Bonus, i)
	}
	return scripts
}

// buildScript pre-rolls a single game and computes its expected totals
// by replaying the server's scoring rules locally: explicit points win,
// otherwise the last used value carries over, otherwise one point.
func buildScript(rng *rand.Rand, pool []Team, bonus bool, index int) gameScript {
	// Random roster subset, at least three teams.
	shuffled := make([]Team, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	size := minTeamsPerGame
	if len(shuffled) > minTeamsPerGame {
		size += rng.Intn(len(shuffled) - minTeamsPerGame + 1)
	}
	teamIDs := make([]string, size)
	for i := 0; i < size; i++ {
		teamIDs[i] = shuffled[i].ID
	}

	sets := stage.SetsPerGame
	if bonus {
		sets++
	}
	questionCount := sets * stage.CategoriesPerSet * stage.QuestionsPerCategory

	s := gameScript{
		title:     fmt.Sprintf("Simulated Game %d", index+1),
		bonus:     bonus,
		teamIDs:   teamIDs,
		questions: make([]playedQuestion, questionCount),
		totals:    make(map[string]int, size),
	}
	for _, id := range teamIDs {
		s.totals[id] = 0
	}

	sticky := 0
	for q := range s.questions {
		pq := playedQuestion{}

		switch roll := rng.Intn(percentBase); {
		case roll < noWinnerPercent:
			// nobody answered
		case roll < noWinnerPercent+sharedWinPercent:
			first := rng.Intn(size)
			second := rng.Intn(size)
			pq.winners = append(pq.winners, teamIDs[first])
			if second != first {
				pq.winners = append(pq.winners, teamIDs[second])
			}
		default:
			pq.winners = append(pq.winners, teamIDs[rng.Intn(size)])
		}

		if rng.Intn(percentBase) < explicitPctPercent {
			p := 1 + rng.Intn(maxExplicitPoints)
			pq.points = &p
		}

		// Replay the sticky fallback chain locally.
		effective := 1
		switch {
		case pq.points != nil:
			effective = *pq.points
		case sticky > 0:
			effective = sticky
		}
		sticky = effective
		for _, id := range pq.winners {
			s.totals[id] += effective
		}

		s.questions[q] = pq
	}

	for i := 0; i < rng.Intn(maxAdjustments+1); i++ {
		points := rng.Intn(adjustmentSpread) - adjustmentSpread/2
		if points == 0 {
			continue
		}
		teamID := teamIDs[rng.Intn(size)]
		s.adjustments = append(s.adjustments, scriptedAdjustment{
			teamID:   teamID,
			points:   points,
			setIndex: rng.Intn(sets),
			reason:   "scripted correction",
		})
		s.totals[teamID] += points
	}

	return s
}
