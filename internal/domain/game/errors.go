package game

import "errors"

// Sentinel kinds for game lifecycle errors.
var (
	ErrGameArchived = errors.New("game is archived")
	ErrGameNotLive  = errors.New("game is not live")
	ErrGameOver     = errors.New("game is over")
	ErrBonusLocked  = errors.New("bonus round is locked")
)
