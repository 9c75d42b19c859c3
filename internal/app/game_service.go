package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"family-puzzles/internal/domain"
	"family-puzzles/internal/session"
	"family-puzzles/internal/stats"
)

// PuzzleRepository loads puzzle content (from cache/backing store).
type PuzzleRepository interface {
	GetPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error)
}

// PuzzleWriter stores puzzle definitions; implemented by writable backends.
type PuzzleWriter interface {
	PutPuzzle(ctx context.Context, puzzle domain.Puzzle) error
}

// ResultRepository persists and queries finished games.
type ResultRepository interface {
	Append(ctx context.Context, rec domain.ResultRecord) error
	ListByVariant(ctx context.Context, variant domain.Variant) ([]domain.ResultRecord, error)
	ListByPlayer(ctx context.Context, variant domain.Variant, userID string) ([]domain.ResultRecord, error)
}

// PlayerDirectory manages the household's player profiles.
type PlayerDirectory interface {
	List(ctx context.Context) ([]domain.Player, error)
	Get(ctx context.Context, userID string) (domain.Player, error)
	Create(ctx context.Context, userName string) (domain.Player, error)
}

// GameService contains the platform use cases: starting sessions, routing
// their effects, and serving leaderboards and player stats.
type GameService struct {
	puzzles PuzzleRepository
	writer  PuzzleWriter
	results ResultRepository
	players PlayerDirectory
	dict    session.WordChecker
	log     zerolog.Logger

	persistTimeout time.Duration
}

func NewGameService(puzzles PuzzleRepository, results ResultRepository, players PlayerDirectory, dict session.WordChecker, log zerolog.Logger) *GameService {
	return &GameService{
		puzzles:        puzzles,
		results:        results,
		players:        players,
		dict:           dict,
		log:            log,
		persistTimeout: 10 * time.Second,
	}
}

// WithPuzzleWriter enables admin puzzle upserts on a writable backend.
func (s *GameService) WithPuzzleWriter(w PuzzleWriter) *GameService {
	s.writer = w
	return s
}

// StartSession loads the puzzle and builds the matching variant session.
func (s *GameService) StartSession(ctx context.Context, variant domain.Variant, puzzleID string, player domain.Player) (session.Session, error) {
	puzzle, err := s.puzzles.GetPuzzle(ctx, variant, puzzleID)
	if err != nil {
		return nil, err
	}
	switch variant {
	case domain.VariantGrouping:
		return session.NewGrouping(puzzle, player)
	case domain.VariantWordle:
		return session.NewWordle(puzzle, player, s.dict)
	case domain.VariantQuordle:
		return session.NewQuordle(puzzle, player, s.dict)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVariant, variant)
	}
}

// HandleEffects routes a mutation's effects: result persistence runs in the
// background and never blocks or fails the game, messages are returned for
// the transport to deliver.
func (s *GameService) HandleEffects(effects []session.Effect) []session.ShowMessage {
	var msgs []session.ShowMessage
	for _, e := range effects {
		switch e := e.(type) {
		case session.PersistResult:
			go s.persist(e.Record)
		case session.ShowMessage:
			msgs = append(msgs, e)
		}
	}
	return msgs
}

func (s *GameService) persist(rec domain.ResultRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.results.Append(ctx, rec); err != nil {
		s.log.Warn().Err(err).
			Str("variant", string(rec.Variant)).
			Str("resultId", rec.ID).
			Str("userId", rec.UserID).
			Msg("result persistence failed; game outcome unaffected")
		return
	}
	s.log.Debug().Str("variant", string(rec.Variant)).Str("resultId", rec.ID).Msg("result persisted")
}

// Leaderboard view names per variant. The first view listed is the default.
const (
	ViewFastestTimes   = "fastestTimes"
	ViewMostWins       = "mostWins"
	ViewBestWinRate    = "bestWinRate"
	ViewFewestGuesses  = "fewestGuesses"
	ViewPerfectGames   = "perfectGames"
	ViewFastestPerfect = "fastestPerfect"
	ViewMostBoards     = "mostBoards"
)

// Leaderboard is one ranked view over a variant's results. Game views fill
// Games; aggregated player views fill Players.
type Leaderboard struct {
	Variant domain.Variant        `json:"variant"`
	View    string                `json:"view"`
	Games   []domain.ResultRecord `json:"games,omitempty"`
	Players []stats.PlayerRow     `json:"players,omitempty"`
}

// DefaultView is the view served when the caller names none.
func DefaultView(variant domain.Variant) string {
	switch variant {
	case domain.VariantWordle:
		return ViewFewestGuesses
	case domain.VariantQuordle:
		return ViewPerfectGames
	default:
		return ViewFastestTimes
	}
}

// Leaderboard computes one ranked view. limit 0 means no cap.
func (s *GameService) Leaderboard(ctx context.Context, variant domain.Variant, view string, limit int) (Leaderboard, error) {
	if view == "" {
		view = DefaultView(variant)
	}
	rs, err := s.results.ListByVariant(ctx, variant)
	if err != nil {
		return Leaderboard{}, err
	}

	lb := Leaderboard{Variant: variant, View: view}
	switch variant {
	case domain.VariantGrouping:
		switch view {
		case ViewFastestTimes:
			lb.Games = stats.TopByFastestTimes(rs, limit)
		case ViewMostWins:
			lb.Players = stats.TopByMostWins(rs, limit)
		case ViewBestWinRate:
			lb.Players = stats.TopByWinRate(rs, false, limit)
		default:
			return Leaderboard{}, fmt.Errorf("%w: %q for %s", domain.ErrUnknownView, view, variant)
		}
	case domain.VariantWordle:
		switch view {
		case ViewFewestGuesses:
			lb.Games = stats.TopByFewestGuesses(rs, limit)
		case ViewFastestTimes:
			lb.Games = stats.TopByFastestTimes(rs, limit)
		case ViewBestWinRate:
			lb.Players = stats.TopByWinRate(rs, true, limit)
		default:
			return Leaderboard{}, fmt.Errorf("%w: %q for %s", domain.ErrUnknownView, view, variant)
		}
	case domain.VariantQuordle:
		switch view {
		case ViewPerfectGames:
			lb.Games = stats.TopByPerfectGames(rs, limit)
		case ViewFastestPerfect:
			lb.Games = stats.TopByFastestPerfect(rs, limit)
		case ViewMostBoards:
			lb.Players = stats.TopByMostBoards(rs, limit)
		default:
			return Leaderboard{}, fmt.Errorf("%w: %q for %s", domain.ErrUnknownView, view, variant)
		}
	default:
		return Leaderboard{}, fmt.Errorf("%w: %s", domain.ErrUnknownVariant, variant)
	}
	return lb, nil
}

// PlayerStats summarizes one player's history for a variant.
func (s *GameService) PlayerStats(ctx context.Context, variant domain.Variant, userID string) (stats.Summary, error) {
	rs, err := s.results.ListByPlayer(ctx, variant, userID)
	if err != nil {
		return stats.Summary{}, err
	}

	var (
		summary stats.Summary
		ok      bool
	)
	switch variant {
	case domain.VariantGrouping:
		summary, ok = stats.SummarizeGrouping(rs)
	case domain.VariantWordle:
		summary, ok = stats.SummarizeWordle(rs)
	case domain.VariantQuordle:
		summary, ok = stats.SummarizeQuordle(rs)
	default:
		return stats.Summary{}, fmt.Errorf("%w: %s", domain.ErrUnknownVariant, variant)
	}
	if !ok {
		return stats.Summary{}, domain.ErrNoResults
	}
	return summary, nil
}

// ListPlayers returns the household roster.
func (s *GameService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	return s.players.List(ctx)
}

// GetPlayer looks up one profile.
func (s *GameService) GetPlayer(ctx context.Context, userID string) (domain.Player, error) {
	return s.players.Get(ctx, userID)
}

// CreatePlayer registers a new profile with a fresh id.
func (s *GameService) CreatePlayer(ctx context.Context, userName string) (domain.Player, error) {
	return s.players.Create(ctx, userName)
}

// UpsertPuzzle validates and stores a puzzle definition. Only available when
// the backend is writable.
func (s *GameService) UpsertPuzzle(ctx context.Context, puzzle domain.Puzzle) error {
	if s.writer == nil {
		return fmt.Errorf("puzzle storage is read-only")
	}
	if err := puzzle.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPuzzle, err)
	}
	if err := s.writer.PutPuzzle(ctx, puzzle); err != nil {
		return err
	}
	s.log.Info().Str("variant", string(puzzle.Variant)).Str("puzzleId", puzzle.ID).Msg("puzzle stored")
	return nil
}
