package domain

import "errors"

var (
	// ErrPuzzleNotFound is returned when a puzzle id has no definition; terminal, no retry.
	ErrPuzzleNotFound = errors.New("puzzle not found")
	// ErrGameFinished is returned by submits on a terminal session; the session state is unchanged.
	ErrGameFinished = errors.New("game finished")
	// ErrUnknownVariant indicates a variant string that names no hosted game.
	ErrUnknownVariant = errors.New("unknown game variant")
	// ErrPlayerNotFound indicates an unknown player profile id.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrUnknownView indicates a leaderboard view the variant does not offer.
	ErrUnknownView = errors.New("unknown leaderboard view")
	// ErrNoResults indicates a player with no recorded games for a variant.
	ErrNoResults = errors.New("no results for player")
	// ErrInvalidPuzzle indicates a puzzle definition that fails authoring invariants.
	ErrInvalidPuzzle = errors.New("invalid puzzle")
)
