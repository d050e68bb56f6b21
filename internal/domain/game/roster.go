package game

// Team is a competing trivia team. Archiving a team removes it from active
// selection pools but never from historical computation.
type Team struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Members  []string `json:"members"`
	Archived bool     `json:"archived"`
}

// Host is a quiz host, optionally affiliated with a team.
type Host struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId,omitempty"`
}

// Season groups games for standings. At most one season is active at a time;
// the store that creates seasons enforces that, not the game itself.
type Season struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
