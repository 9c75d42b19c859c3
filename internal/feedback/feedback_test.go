package feedback

import (
	"math/rand"
	"strings"
	"testing"

	"family-puzzles/internal/domain"
)

func TestClassifyIdentity(t *testing.T) {
	for _, word := range []string{"CRANE", "LLAMA", "EERIE"} {
		tags := Classify(word, word)
		if !AllCorrect(tags) {
			t.Fatalf("Classify(%q, %q) = %v, want all correct", word, word, tags)
		}
	}
}

func TestClassifyHelloWorld(t *testing.T) {
	got := Classify("HELLO", "WORLD")
	want := []domain.Tag{domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagCorrect, domain.TagPresent}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Classify(HELLO, WORLD) = %v, want %v", got, want)
		}
	}
}

func TestClassifyDuplicateLetters(t *testing.T) {
	cases := []struct {
		guess, target string
		want          []domain.Tag
	}{
		// Target has one L; guess has two: exactly one present, never two.
		{"LULLS", "PLANE", []domain.Tag{domain.TagPresent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent}},
		// Exact match consumes supply before pass 2.
		{"LEVEL", "HELLO", []domain.Tag{domain.TagPresent, domain.TagCorrect, domain.TagAbsent, domain.TagAbsent, domain.TagPresent}},
		{"SPEED", "ERASE", []domain.Tag{domain.TagPresent, domain.TagAbsent, domain.TagPresent, domain.TagPresent, domain.TagAbsent}},
	}
	for _, tc := range cases {
		got := Classify(tc.guess, tc.target)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("Classify(%q, %q) = %v, want %v", tc.guess, tc.target, got, tc.want)
			}
		}
	}
}

// Conservation law: for every letter, correct+present tags never exceed the
// letter's count in the target.
func TestClassifySupplyConservation(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	alphabet := "ABCDE" // narrow alphabet to force duplicates
	randomWord := func() string {
		var b strings.Builder
		for i := 0; i < 5; i++ {
			b.WriteByte(alphabet[rnd.Intn(len(alphabet))])
		}
		return b.String()
	}

	for iter := 0; iter < 2000; iter++ {
		guess, target := randomWord(), randomWord()
		tags := Classify(guess, target)

		credited := make(map[byte]int)
		for i, tag := range tags {
			if tag == domain.TagCorrect || tag == domain.TagPresent {
				credited[guess[i]]++
			}
		}
		supply := make(map[byte]int)
		for i := 0; i < len(target); i++ {
			supply[target[i]]++
		}
		for letter, n := range credited {
			if n > supply[letter] {
				t.Fatalf("Classify(%q, %q) credited %c %d times, target only has %d",
					guess, target, letter, n, supply[letter])
			}
		}
	}
}

func TestMatchCategoryOrderIndependent(t *testing.T) {
	cats := sampleCategories()

	cat, ok := MatchCategory([]string{"spoon", "KNIFE", "Fork", "plate"}, cats)
	if !ok || cat.Title != "Cutlery" {
		t.Fatalf("expected Cutlery match, got %+v ok=%v", cat, ok)
	}

	if _, ok := MatchCategory([]string{"spoon", "knife", "fork", "red"}, cats); ok {
		t.Fatalf("expected no match for mixed selection")
	}
}

func TestOneAway(t *testing.T) {
	cats := sampleCategories()
	found := map[string]bool{}

	if !OneAway([]string{"spoon", "knife", "fork", "red"}, cats, found) {
		t.Fatalf("expected one-away for 3/4 cutlery words")
	}
	if OneAway([]string{"spoon", "knife", "red", "blue"}, cats, found) {
		t.Fatalf("expected no one-away for 2/4 words")
	}

	// A found category no longer counts toward one-away.
	found["Cutlery"] = true
	if OneAway([]string{"spoon", "knife", "fork", "red"}, cats, found) {
		t.Fatalf("found category should not trigger one-away")
	}
}

func TestKeyboardPriority(t *testing.T) {
	k := NewKeyboard()
	k.Update("AAAAA", []domain.Tag{domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent})
	if k["A"] != domain.TagAbsent {
		t.Fatalf("expected absent, got %s", k["A"])
	}
	k.Update("ABCDE", []domain.Tag{domain.TagPresent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent})
	if k["A"] != domain.TagPresent {
		t.Fatalf("present should overwrite absent, got %s", k["A"])
	}
	k.Update("ABCDE", []domain.Tag{domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent})
	if k["A"] != domain.TagPresent {
		t.Fatalf("absent must not downgrade present, got %s", k["A"])
	}
	k.Update("ABCDE", []domain.Tag{domain.TagCorrect, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent})
	if k["A"] != domain.TagCorrect {
		t.Fatalf("correct should overwrite present, got %s", k["A"])
	}
}

func TestKeyboardUpdateBoardsTakesMax(t *testing.T) {
	k := NewKeyboard()
	boards := [][]domain.Tag{
		{domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent},
		{domain.TagCorrect, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent},
		{domain.TagPresent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent},
		{domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent, domain.TagAbsent},
	}
	k.UpdateBoards("SOARE", boards)
	if k["S"] != domain.TagCorrect {
		t.Fatalf("expected best state across boards (correct), got %s", k["S"])
	}
}

func sampleCategories() []domain.Category {
	return []domain.Category{
		{Title: "Cutlery", Words: []string{"spoon", "knife", "fork", "chopstick"}, Difficulty: domain.DifficultyEasy},
		{Title: "Colours", Words: []string{"red", "blue", "green", "mauve"}, Difficulty: domain.DifficultyMedium},
		{Title: "Rivers", Words: []string{"nile", "amazon", "severn", "danube"}, Difficulty: domain.DifficultyHard},
		{Title: "Cheeses", Words: []string{"brie", "feta", "gouda", "edam"}, Difficulty: domain.DifficultyTricky},
	}
}
