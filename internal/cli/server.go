package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"family-puzzles/internal/app"
	"family-puzzles/internal/config"
	"family-puzzles/internal/dictionary"
	"family-puzzles/internal/domain"
	"family-puzzles/internal/infra/memory"
	pgstore "family-puzzles/internal/infra/postgres"
	rediscache "family-puzzles/internal/infra/redis"
	transport "family-puzzles/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the puzzle server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Puzzle content: Postgres when configured, demo set otherwise. The
	// writer is the same backend so admin upserts land next to reads.
	var (
		loader memory.PuzzleLoader
		writer app.PuzzleWriter
	)
	if pool != nil {
		store := pgstore.NewPuzzleStore(pool)
		loader = store
		writer = store
	} else {
		static := memory.NewStaticPuzzleLoader(samplePuzzles())
		loader = static
		writer = static
	}

	puzzleTTL := config.TTLDuration(cfg.Puzzle.TTL, 10*time.Minute)
	var puzzles app.PuzzleRepository
	if redisClient != nil {
		puzzles = rediscache.NewPuzzleRepository(redisClient, loader, puzzleTTL)
	} else {
		puzzles = memory.NewPuzzleRepository(loader, puzzleTTL)
	}

	var results app.ResultRepository
	switch {
	case pool != nil:
		results = pgstore.NewResultStore(pool)
	case redisClient != nil:
		results = rediscache.NewResultStore(redisClient)
	default:
		results = memory.NewResultStore()
	}

	players := memory.NewPlayerDirectory()

	dict := dictionary.New(
		cfg.Dictionary.BaseURL,
		config.TTLDuration(cfg.Dictionary.Timeout, 5*time.Second),
		logger.With().Str("component", "dictionary").Logger(),
	)

	service := app.NewGameService(puzzles, results, players, dict, logger).
		WithPuzzleWriter(writer)

	admin := transport.AdminConfig{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		JWTSecret:    cfg.Admin.JWTSecret,
		TokenTTL:     config.TTLDuration(cfg.Admin.TokenTTL, 24*time.Hour),
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, admin, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Msg("starting puzzle server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out)
	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// samplePuzzles provides a playable demo set; Postgres-backed deployments
// manage content through the admin API instead.
func samplePuzzles() []domain.Puzzle {
	return []domain.Puzzle{
		{
			ID:      "demo",
			Variant: domain.VariantGrouping,
			Categories: []domain.Category{
				{Title: "Cutlery", Words: []string{"FORK", "KNIFE", "SPOON", "LADLE"}, Difficulty: domain.DifficultyEasy},
				{Title: "Colours", Words: []string{"RED", "BLUE", "GREEN", "AMBER"}, Difficulty: domain.DifficultyMedium},
				{Title: "Rivers", Words: []string{"NILE", "SEINE", "VOLGA", "RHINE"}, Difficulty: domain.DifficultyHard},
				{Title: "Cheeses", Words: []string{"BRIE", "FETA", "GOUDA", "EDAM"}, Difficulty: domain.DifficultyTricky},
			},
		},
		{ID: "demo", Variant: domain.VariantWordle, TargetWord: "CRANE"},
		{ID: "demo", Variant: domain.VariantQuordle, TargetWords: []string{"CRANE", "SLATE", "BRICK", "POUND"}},
	}
}
