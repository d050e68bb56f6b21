package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrHostNotFound   = errors.New("host not found")
	ErrSeasonNotFound = errors.New("season not found")
)
