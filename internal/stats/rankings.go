package stats

import (
	"math"
	"sort"

	"family-puzzles/internal/domain"
)

// Leaderboard rankings. Game rankings rank individual won games; player
// rankings rank aggregated rows and require at least three games played.
// Ties keep input order, which for stored results is completion order.

// TopByFastestTimes ranks won games by elapsed seconds ascending.
func TopByFastestTimes(rs []domain.ResultRecord, limit int) []domain.ResultRecord {
	won := wins(rs)
	sort.SliceStable(won, func(i, j int) bool {
		return won[i].TimeSeconds < won[j].TimeSeconds
	})
	return limited(won, limit)
}

// TopByFewestGuesses ranks won games by guess count, then by time.
func TopByFewestGuesses(rs []domain.ResultRecord, limit int) []domain.ResultRecord {
	won := wins(rs)
	sort.SliceStable(won, func(i, j int) bool {
		if won[i].GuessCount != won[j].GuessCount {
			return won[i].GuessCount < won[j].GuessCount
		}
		return won[i].TimeSeconds < won[j].TimeSeconds
	})
	return limited(won, limit)
}

// TopByPerfectGames ranks 4/4 quordle games by guess count, then by time.
func TopByPerfectGames(rs []domain.ResultRecord, limit int) []domain.ResultRecord {
	perfect := perfects(rs)
	sort.SliceStable(perfect, func(i, j int) bool {
		if perfect[i].GuessCount != perfect[j].GuessCount {
			return perfect[i].GuessCount < perfect[j].GuessCount
		}
		return perfect[i].TimeSeconds < perfect[j].TimeSeconds
	})
	return limited(perfect, limit)
}

// TopByFastestPerfect ranks 4/4 quordle games by elapsed seconds ascending.
func TopByFastestPerfect(rs []domain.ResultRecord, limit int) []domain.ResultRecord {
	perfect := perfects(rs)
	sort.SliceStable(perfect, func(i, j int) bool {
		return perfect[i].TimeSeconds < perfect[j].TimeSeconds
	})
	return limited(perfect, limit)
}

// TopByMostWins ranks players by total wins descending.
func TopByMostWins(rs []domain.ResultRecord, limit int) []PlayerRow {
	rows := Aggregate(rs)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GamesWon > rows[j].GamesWon
	})
	return limited(rows, limit)
}

// TopByWinRate ranks qualified players by win rate descending.
// breakTiesByWins adds a total-wins tie-break, used for the single-board
// word game but not for the grouping game.
func TopByWinRate(rs []domain.ResultRecord, breakTiesByWins bool, limit int) []PlayerRow {
	rows := qualified(Aggregate(rs))
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WinRate != rows[j].WinRate {
			return rows[i].WinRate > rows[j].WinRate
		}
		if breakTiesByWins {
			return rows[i].GamesWon > rows[j].GamesWon
		}
		return false
	})
	return limited(rows, limit)
}

// TopByMostBoards ranks qualified players by average boards solved
// descending, with perfect games breaking near-equal averages.
func TopByMostBoards(rs []domain.ResultRecord, limit int) []PlayerRow {
	rows := qualified(Aggregate(rs))
	sort.SliceStable(rows, func(i, j int) bool {
		diff := rows[i].AvgBoardsSolved - rows[j].AvgBoardsSolved
		if math.Abs(diff) > boardsEpsilon {
			return diff > 0
		}
		return rows[i].PerfectGames > rows[j].PerfectGames
	})
	return limited(rows, limit)
}

func qualified(rows []PlayerRow) []PlayerRow {
	out := make([]PlayerRow, 0, len(rows))
	for _, row := range rows {
		if row.GamesPlayed >= minGamesForRates {
			out = append(out, row)
		}
	}
	return out
}
