// Package rank assigns dense competition ranks over a score mapping: tied
// scores share a rank and the next distinct score takes the immediately
// following rank number. The same function serves live scoreboards and
// season standings.
package rank

import "sort"

// Dense ranks every team in the mapping. A team's rank is one plus the
// number of distinct score values strictly greater than its own, so
// {A:10, B:10, C:5} ranks A=1, B=1, C=2.
func Dense(scores map[string]int) map[string]int {
	distinct := distinctDescending(scores)
	rankOf := make(map[int]int, len(distinct))
	for i, v := range distinct {
		rankOf[v] = i + 1
	}
	ranks := make(map[string]int, len(scores))
	for id, score := range scores {
		ranks[id] = rankOf[score]
	}
	return ranks
}

// For returns one team's dense rank within the mapping. A team absent from
// the mapping is treated as having scored zero, placing it at the lowest
// applicable rank rather than failing.
func For(scores map[string]int, teamID string) int {
	score, ok := scores[teamID]
	if !ok {
		score = 0
	}
	r := 1
	for _, v := range distinctDescending(scores) {
		if v > score {
			r++
		}
	}
	return r
}

func distinctDescending(scores map[string]int) []int {
	seen := make(map[int]struct{}, len(scores))
	values := make([]int, 0, len(scores))
	for _, v := range scores {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}
