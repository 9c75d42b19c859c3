// Package feedback holds the pure guess-evaluation rules shared by the three
// games: the two-pass letter classifier for the word games and the
// set-equality matcher for the grouping game. Nothing here mutates session
// state or touches I/O.
package feedback

import (
	"sort"
	"strings"

	"family-puzzles/internal/domain"
)

// Classify scores guess against target with the standard two-pass rule.
//
// Pass 1 tags exact positional matches as correct and consumes those target
// letters. Pass 2 walks the remaining guess letters and tags present while
// unconsumed supply of that letter remains in the target, absent otherwise.
// The supply consumption is what makes duplicate letters behave: a letter
// guessed twice but present once yields one present and one absent.
//
// Both words are uppercased before comparison; they must be the same length.
func Classify(guess, target string) []domain.Tag {
	guess = strings.ToUpper(guess)
	target = strings.ToUpper(target)
	n := len(guess)
	tags := make([]domain.Tag, n)

	var remaining [26]int
	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			tags[i] = domain.TagCorrect
		} else if j := letterIndex(target[i]); j >= 0 {
			remaining[j]++
		}
	}
	for i := 0; i < n; i++ {
		if tags[i] == domain.TagCorrect {
			continue
		}
		if j := letterIndex(guess[i]); j >= 0 && remaining[j] > 0 {
			tags[i] = domain.TagPresent
			remaining[j]--
		} else {
			tags[i] = domain.TagAbsent
		}
	}
	return tags
}

func letterIndex(b byte) int {
	if b < 'A' || b > 'Z' {
		return -1
	}
	return int(b - 'A')
}

// AllCorrect reports whether every tag is correct, i.e. the guess solved the board.
func AllCorrect(tags []domain.Tag) bool {
	for _, t := range tags {
		if t != domain.TagCorrect {
			return false
		}
	}
	return len(tags) > 0
}

// MatchCategory finds the category whose word set equals the selection,
// order-independently. Returns the match and whether one was found.
func MatchCategory(selection []string, categories []domain.Category) (domain.Category, bool) {
	sel := sortedCopy(selection)
	for _, cat := range categories {
		if len(cat.Words) != len(sel) {
			continue
		}
		words := sortedCopy(cat.Words)
		if equalFold(sel, words) {
			return cat, true
		}
	}
	return domain.Category{}, false
}

// OneAway reports whether exactly 3 of the 4 selected words belong to some
// category that has not yet been found.
func OneAway(selection []string, categories []domain.Category, foundTitles map[string]bool) bool {
	for _, cat := range categories {
		if foundTitles[cat.Title] {
			continue
		}
		count := 0
		for _, sel := range selection {
			for _, w := range cat.Words {
				if strings.EqualFold(sel, w) {
					count++
					break
				}
			}
		}
		if count == 3 {
			return true
		}
	}
	return false
}

func sortedCopy(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	sort.Strings(out)
	return out
}

func equalFold(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
