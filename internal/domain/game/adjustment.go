package game

import "time"

// ManualAdjustment is a signed point correction for one team, scoped to a
// set. The log is append-only from this package's point of view; adjustments
// are never edited or removed here.
type ManualAdjustment struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"teamId"`
	Points    int       `json:"points"`
	SetIndex  int       `json:"setIndex"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddAdjustment appends a correction to the log while the game is live.
func (g *Game) AddAdjustment(adj ManualAdjustment) error {
	if err := g.mutable(); err != nil {
		return err
	}
	g.Adjustments = append(g.Adjustments, adj)
	return nil
}

// AdjustmentSum totals every adjustment delta for the team, across all sets.
func (g Game) AdjustmentSum(teamID string) int {
	total := 0
	for _, adj := range g.Adjustments {
		if adj.TeamID == teamID {
			total += adj.Points
		}
	}
	return total
}

// AdjustmentSumForSet is AdjustmentSum restricted to one set index.
func (g Game) AdjustmentSumForSet(teamID string, set int) int {
	total := 0
	for _, adj := range g.Adjustments {
		if adj.TeamID == teamID && adj.SetIndex == set {
			total += adj.Points
		}
	}
	return total
}
