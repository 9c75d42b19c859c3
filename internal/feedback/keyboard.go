package feedback

import "family-puzzles/internal/domain"

// tagPriority orders keyboard states; a new classification only overwrites a
// letter's state when strictly higher.
var tagPriority = map[domain.Tag]int{
	domain.TagCorrect: 3,
	domain.TagPresent: 2,
	domain.TagAbsent:  1,
	domain.TagUnused:  0,
}

// Keyboard tracks the best-ever state of each letter A-Z across a session.
type Keyboard map[string]domain.Tag

// NewKeyboard returns a keyboard with every letter unused.
func NewKeyboard() Keyboard {
	k := make(Keyboard, 26)
	for r := 'A'; r <= 'Z'; r++ {
		k[string(r)] = domain.TagUnused
	}
	return k
}

// Update applies a single board's feedback for word.
func (k Keyboard) Update(word string, tags []domain.Tag) {
	for i := 0; i < len(word) && i < len(tags); i++ {
		letter := string(word[i])
		if tagPriority[tags[i]] > tagPriority[k[letter]] {
			k[letter] = tags[i]
		}
	}
}

// UpdateBoards applies feedback from all simultaneous boards for word. Each
// letter's best state across the boards is computed first, then compared to
// the keyboard's current state, so one board's absent never downgrades
// another board's present.
func (k Keyboard) UpdateBoards(word string, boards [][]domain.Tag) {
	for i := 0; i < len(word); i++ {
		letter := string(word[i])
		best := domain.TagAbsent
		for _, tags := range boards {
			if i < len(tags) && tagPriority[tags[i]] > tagPriority[best] {
				best = tags[i]
			}
		}
		if tagPriority[best] > tagPriority[k[letter]] {
			k[letter] = best
		}
	}
}

// Clone returns an independent copy, used for snapshots.
func (k Keyboard) Clone() Keyboard {
	out := make(Keyboard, len(k))
	for letter, tag := range k {
		out[letter] = tag
	}
	return out
}
