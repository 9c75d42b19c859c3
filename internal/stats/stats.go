// Package stats derives leaderboard rankings and per-player summaries from
// raw result records. Everything here is a pure function over a slice of
// records; storage and transport stay out.
package stats

import (
	"math"
	"sort"

	"family-puzzles/internal/domain"
)

// PlayerRow is one aggregated leaderboard entry. Rows are per player per
// variant; only the fields meaningful for the owning variant are populated.
type PlayerRow struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	GamesPlayed int    `json:"gamesPlayed"`

	GamesWon       int     `json:"gamesWon,omitempty"`
	WinRate        int     `json:"winRate"` // floor percent
	AvgGuesses     float64 `json:"avgGuesses,omitempty"`
	AvgTimeSeconds int     `json:"avgTimeSeconds,omitempty"`

	PerfectGames    int     `json:"perfectGames,omitempty"`
	PerfectRate     int     `json:"perfectRate,omitempty"`
	AvgBoardsSolved float64 `json:"avgBoardsSolved,omitempty"`
}

// minGamesForRates is the qualification threshold for rate-based rankings.
// Rankings over single games (fastest, fewest guesses) have no threshold.
const minGamesForRates = 3

// boardsEpsilon separates average-boards values that round to a visible
// difference at one decimal place.
const boardsEpsilon = 0.01

// round1 rounds to one decimal place, matching how averages are displayed.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// floorRate is the floor of won/played as a percentage.
func floorRate(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Floor(float64(part) / float64(whole) * 100))
}

func wins(rs []domain.ResultRecord) []domain.ResultRecord {
	out := make([]domain.ResultRecord, 0, len(rs))
	for _, r := range rs {
		if r.Won {
			out = append(out, r)
		}
	}
	return out
}

func perfects(rs []domain.ResultRecord) []domain.ResultRecord {
	out := make([]domain.ResultRecord, 0, len(rs))
	for _, r := range rs {
		if r.SolvedCount == 4 {
			out = append(out, r)
		}
	}
	return out
}

func limited[T any](xs []T, limit int) []T {
	if limit > 0 && len(xs) > limit {
		return xs[:limit]
	}
	return xs
}

// Aggregate folds records into one PlayerRow per player, in first-seen order.
// Win-derived fields (avg guesses, avg time) cover won games only; quordle
// fields treat a 4/4 game as the win.
func Aggregate(rs []domain.ResultRecord) []PlayerRow {
	index := make(map[string]int)
	rows := make([]PlayerRow, 0)
	totalGuesses := make(map[string]int)
	totalTime := make(map[string]int)
	totalBoards := make(map[string]int)

	for _, r := range rs {
		i, ok := index[r.UserID]
		if !ok {
			i = len(rows)
			index[r.UserID] = i
			rows = append(rows, PlayerRow{UserID: r.UserID, UserName: r.UserName})
		}
		row := &rows[i]
		row.GamesPlayed++
		totalBoards[r.UserID] += r.SolvedCount
		if r.SolvedCount == 4 {
			row.PerfectGames++
		}
		if r.Won {
			row.GamesWon++
			totalGuesses[r.UserID] += r.GuessCount
			totalTime[r.UserID] += r.TimeSeconds
		}
	}

	for i := range rows {
		row := &rows[i]
		row.WinRate = floorRate(row.GamesWon, row.GamesPlayed)
		row.PerfectRate = floorRate(row.PerfectGames, row.GamesPlayed)
		if row.GamesWon > 0 {
			row.AvgGuesses = round1(float64(totalGuesses[row.UserID]) / float64(row.GamesWon))
			row.AvgTimeSeconds = totalTime[row.UserID] / row.GamesWon
		}
		if row.GamesPlayed > 0 {
			row.AvgBoardsSolved = round1(float64(totalBoards[row.UserID]) / float64(row.GamesPlayed))
		}
	}
	return rows
}

// Streaks returns the current and maximum win streaks over a player's
// records, ordered chronologically before counting.
func Streaks(rs []domain.ResultRecord) (current, max int) {
	sorted := make([]domain.ResultRecord, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	run := 0
	for _, r := range sorted {
		if r.Won {
			run++
			if run > max {
				max = run
			}
		} else {
			run = 0
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].Won {
			break
		}
		current++
	}
	return current, max
}

// GuessDistribution counts won games by guess count, buckets 1 through max.
func GuessDistribution(rs []domain.ResultRecord, maxGuesses int) map[int]int {
	dist := make(map[int]int, maxGuesses)
	for i := 1; i <= maxGuesses; i++ {
		dist[i] = 0
	}
	for _, r := range rs {
		if r.Won && r.GuessCount >= 1 && r.GuessCount <= maxGuesses {
			dist[r.GuessCount]++
		}
	}
	return dist
}

// SolveDistribution counts games by boards solved, buckets 0 through 4.
func SolveDistribution(rs []domain.ResultRecord) map[int]int {
	dist := map[int]int{0: 0, 1: 0, 2: 0, 3: 0, 4: 0}
	for _, r := range rs {
		if r.SolvedCount >= 0 && r.SolvedCount <= 4 {
			dist[r.SolvedCount]++
		}
	}
	return dist
}

// Summary is a single player's variant profile, shown on their stats page.
// Time and guess averages cover won games only and are zero when the player
// has never won.
type Summary struct {
	UserName    string `json:"userName"`
	GamesPlayed int    `json:"gamesPlayed"`

	GamesWon        int         `json:"gamesWon,omitempty"`
	WinRate         int         `json:"winRate"`
	BestTimeSeconds int         `json:"bestTimeSeconds,omitempty"`
	AvgTimeSeconds  int         `json:"avgTimeSeconds,omitempty"`
	AvgGuesses      float64     `json:"avgGuesses,omitempty"`
	AvgMistakes     float64     `json:"avgMistakes,omitempty"`
	CurrentStreak   int         `json:"currentStreak"`
	MaxStreak       int         `json:"maxStreak"`
	Distribution    map[int]int `json:"distribution,omitempty"`

	PerfectGames    int     `json:"perfectGames,omitempty"`
	PerfectRate     int     `json:"perfectRate,omitempty"`
	AvgBoardsSolved float64 `json:"avgBoardsSolved,omitempty"`

	RecentGames []domain.ResultRecord `json:"recentGames"`
}

func baseSummary(rs []domain.ResultRecord, won []domain.ResultRecord) Summary {
	s := Summary{GamesPlayed: len(rs)}
	if len(rs) > 0 {
		s.UserName = rs[0].UserName
	}
	s.GamesWon = len(won)
	s.WinRate = floorRate(len(won), len(rs))
	if len(won) > 0 {
		best := won[0].TimeSeconds
		total := 0
		totalGuesses := 0
		for _, r := range won {
			if r.TimeSeconds < best {
				best = r.TimeSeconds
			}
			total += r.TimeSeconds
			totalGuesses += r.GuessCount
		}
		s.BestTimeSeconds = best
		s.AvgTimeSeconds = total / len(won)
		s.AvgGuesses = round1(float64(totalGuesses) / float64(len(won)))
	}
	s.RecentGames = recent(rs, 10)
	return s
}

// recent returns up to n records, most recent first.
func recent(rs []domain.ResultRecord, n int) []domain.ResultRecord {
	sorted := make([]domain.ResultRecord, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})
	return limited(sorted, n)
}

// SummarizeGrouping profiles one player's grouping games. The second return
// is false when the player has no games.
func SummarizeGrouping(rs []domain.ResultRecord) (Summary, bool) {
	if len(rs) == 0 {
		return Summary{}, false
	}
	s := baseSummary(rs, wins(rs))
	s.AvgGuesses = 0
	totalMistakes := 0
	for _, r := range rs {
		totalMistakes += r.Mistakes
	}
	s.AvgMistakes = round1(float64(totalMistakes) / float64(len(rs)))
	s.CurrentStreak, s.MaxStreak = Streaks(rs)
	return s, true
}

// SummarizeWordle profiles one player's wordle games.
func SummarizeWordle(rs []domain.ResultRecord) (Summary, bool) {
	if len(rs) == 0 {
		return Summary{}, false
	}
	s := baseSummary(rs, wins(rs))
	s.CurrentStreak, s.MaxStreak = Streaks(rs)
	s.Distribution = GuessDistribution(rs, 6)
	return s, true
}

// SummarizeQuordle profiles one player's quordle games. A perfect game, all
// four boards solved, plays the role a win does elsewhere.
func SummarizeQuordle(rs []domain.ResultRecord) (Summary, bool) {
	if len(rs) == 0 {
		return Summary{}, false
	}
	perfect := perfects(rs)
	s := baseSummary(rs, perfect)
	s.GamesWon = 0
	s.WinRate = 0
	s.PerfectGames = len(perfect)
	s.PerfectRate = floorRate(len(perfect), len(rs))
	totalBoards := 0
	for _, r := range rs {
		totalBoards += r.SolvedCount
	}
	s.AvgBoardsSolved = round1(float64(totalBoards) / float64(len(rs)))
	s.Distribution = SolveDistribution(rs)
	return s, true
}
