package domain

import (
	"fmt"
	"strings"
	"time"
)

// Variant identifies one of the hosted games.
type Variant string

const (
	VariantGrouping Variant = "grouping"
	VariantWordle   Variant = "wordle"
	VariantQuordle  Variant = "quordle"
)

// ParseVariant maps a string (route segment, query param) to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(s)) {
	case VariantGrouping:
		return VariantGrouping, nil
	case VariantWordle:
		return VariantWordle, nil
	case VariantQuordle:
		return VariantQuordle, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Tag is the per-letter evaluation of a guess against a target word.
type Tag string

const (
	TagCorrect Tag = "correct"
	TagPresent Tag = "present"
	TagAbsent  Tag = "absent"
	TagUnused  Tag = "unused" // keyboard-only: letter never played
)

// Difficulty grades a grouping category.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyTricky Difficulty = "tricky"
)

// Category is one group of four related words in a grouping puzzle.
type Category struct {
	Title      string     `json:"title"`
	Words      []string   `json:"words"`
	Difficulty Difficulty `json:"difficulty"`
}

// Puzzle is the immutable target data for one playable game. Exactly one of
// the variant fields is populated, selected by Variant.
type Puzzle struct {
	ID          string     `json:"id"`
	Variant     Variant    `json:"variant"`
	Categories  []Category `json:"categories,omitempty"`  // grouping: 4 categories x 4 words
	TargetWord  string     `json:"targetWord,omitempty"`  // wordle: 5-letter word
	TargetWords []string   `json:"targetWords,omitempty"` // quordle: 4 distinct 5-letter words
}

// Validate checks the authoring invariants for the puzzle's variant.
func (p Puzzle) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("puzzle id is empty")
	}
	switch p.Variant {
	case VariantGrouping:
		if len(p.Categories) != 4 {
			return fmt.Errorf("grouping puzzle needs 4 categories, got %d", len(p.Categories))
		}
		seen := make(map[string]string, 16)
		for _, cat := range p.Categories {
			if cat.Title == "" {
				return fmt.Errorf("category title is empty")
			}
			if len(cat.Words) != 4 {
				return fmt.Errorf("category %q needs 4 words, got %d", cat.Title, len(cat.Words))
			}
			for _, w := range cat.Words {
				key := strings.ToLower(strings.TrimSpace(w))
				if key == "" {
					return fmt.Errorf("category %q has an empty word", cat.Title)
				}
				if other, dup := seen[key]; dup {
					return fmt.Errorf("word %q appears in both %q and %q", w, other, cat.Title)
				}
				seen[key] = cat.Title
			}
		}
	case VariantWordle:
		if err := validateTarget(p.TargetWord); err != nil {
			return err
		}
	case VariantQuordle:
		if len(p.TargetWords) != 4 {
			return fmt.Errorf("quordle puzzle needs 4 target words, got %d", len(p.TargetWords))
		}
		seen := make(map[string]struct{}, 4)
		for _, w := range p.TargetWords {
			if err := validateTarget(w); err != nil {
				return err
			}
			key := strings.ToUpper(w)
			if _, dup := seen[key]; dup {
				return fmt.Errorf("duplicate target word %q", w)
			}
			seen[key] = struct{}{}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, p.Variant)
	}
	return nil
}

func validateTarget(word string) error {
	if len(word) != 5 {
		return fmt.Errorf("target word %q must be 5 letters", word)
	}
	for _, r := range strings.ToUpper(word) {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("target word %q must be alphabetic", word)
		}
	}
	return nil
}

// GuessAttempt is one row of a session's solve path. Attempts are append-only:
// once recorded they are never mutated or reordered.
type GuessAttempt struct {
	// Word variants.
	Word      string  `json:"word,omitempty"`
	Feedback  []Tag   `json:"feedback,omitempty"`  // wordle: 5 tags
	Feedbacks [][]Tag `json:"feedbacks,omitempty"` // quordle: 4 boards x 5 tags

	// Grouping.
	Words      []string   `json:"words,omitempty"`
	Correct    bool       `json:"correct,omitempty"`
	Category   string     `json:"category,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	OneAway    bool       `json:"oneAway,omitempty"`

	TimestampMs int64 `json:"timestampMs"`
}

// Player is the identity attached to results. It is resolved once per device
// by the client and passed into session construction; the core never looks it up.
type Player struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// ResultRecord is the terminal projection of a completed session. Records are
// append-only; they are never updated after creation.
type ResultRecord struct {
	ID          string         `json:"id"`
	GameID      string         `json:"gameId"`
	Variant     Variant        `json:"variant"`
	UserID      string         `json:"userId"`
	UserName    string         `json:"userName"`
	CompletedAt time.Time      `json:"completedAt"`
	TimeSeconds int            `json:"timeSeconds"`
	Won         bool           `json:"won"`
	Mistakes    int            `json:"mistakes,omitempty"`        // grouping
	GuessCount  int            `json:"guessCount,omitempty"`      // wordle, quordle
	FoundCount  int            `json:"categoriesFound,omitempty"` // grouping
	SolvedCount int            `json:"solvedCount,omitempty"`     // quordle: boards solved 0-4
	SolvePath   []GuessAttempt `json:"solvePath"`
}
