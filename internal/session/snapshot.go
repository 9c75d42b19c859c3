package session

import "family-puzzles/internal/domain"

// Snapshot is an immutable view of a session handed to the transport layer
// after every mutation. Variant-specific fields follow the tagged-variant
// shape of domain.Puzzle: only the owning variant populates them.
type Snapshot struct {
	Variant         domain.Variant        `json:"variant"`
	PuzzleID        string                `json:"puzzleId"`
	Phase           Phase                 `json:"phase"`
	Won             bool                  `json:"won"`
	ElapsedSeconds  int                   `json:"elapsedSeconds"`
	BudgetRemaining int                   `json:"budgetRemaining"`
	Attempts        []domain.GuessAttempt `json:"attempts"`

	// Grouping.
	FoundCategories    []domain.Category `json:"foundCategories,omitempty"`
	RevealedCategories []domain.Category `json:"revealedCategories,omitempty"` // unsolved, shown on loss
	RemainingWords     []string          `json:"remainingWords,omitempty"`
	SelectedWords      []string          `json:"selectedWords,omitempty"`
	Mistakes           int               `json:"mistakes,omitempty"`

	// Word variants.
	Keyboard     map[string]domain.Tag `json:"keyboard,omitempty"`
	SolvedBoards []bool                `json:"solvedBoards,omitempty"`
	Targets      []string              `json:"targets,omitempty"` // revealed once lost
}
