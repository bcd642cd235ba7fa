package experiments

import (
	"context"
	"fmt"
	"powerchess/engine"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/meta"
	"powerchess/player"
	"powerchess/searcher"
	"powerchess/storage"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames   = 10 // Per match up
	TimeBudget = 2 * time.Second
)

var depthConfigs = []metrics.AgentConfig{
	{ID: 1, MaxDepth: 1, TimeBudget: TimeBudget},
	{ID: 2, MaxDepth: 2, TimeBudget: TimeBudget},
	{ID: 3, MaxDepth: 3, TimeBudget: TimeBudget},
	{ID: 4, MaxDepth: 4, TimeBudget: TimeBudget},
}

// Experiment plays every matchup NumGames times, swapping colors between games.
type Experiment struct {
	Name     string
	Dir      string // CSV output root
	Configs  []metrics.AgentConfig
	Matchups [][2]metrics.AgentConfig
	Games    int
	MaxTurns int
	Store    *storage.Store // optional
}

// DepthExperiment pairs every depth against the shallowest baseline.
func DepthExperiment(dir string, store *storage.Store) Experiment {
	baseline := depthConfigs[0]
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range depthConfigs[1:] {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{
		Name:     "depth",
		Dir:      dir,
		Configs:  depthConfigs,
		Matchups: matchUps,
		Games:    NumGames,
		Store:    store,
	}
}

func RunDepthExperiment(ctx context.Context, dir string, store *storage.Store) error {
	_, err := DepthExperiment(dir, store).Run(ctx)
	return err
}

// Run plays the games concurrently, one engine and two searchers per game, and stores
// the results.
func (x Experiment) Run(ctx context.Context) ([]metrics.GameRecord, error) {
	log.Info().Msgf("starting %s experiment...", x.Name)

	var mutex sync.Mutex
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(meta.Goroutines)
	for mi, matchup := range x.Matchups {
		for i := 0; i < x.Games; i++ {
			white, black := matchup[0], matchup[1]
			if i%2 == 1 {
				white, black = black, white
			}

			g.Go(func() error {
				log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(x.Matchups), i+1, x.Games)
				winner, gameMetric, moveMetrics, err := x.runGame(ctx, white, black)
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}
				if x.Store != nil {
					err = x.Store.SaveGame(storage.GameRecord{GameMetric: gameMetric, Moves: moveMetrics})
					if err != nil {
						return fmt.Errorf("failed to store game %s: %w", gameMetric.ID, err)
					}
				}

				mutex.Lock()
				defer mutex.Unlock()
				gameRecords = append(gameRecords, metrics.GameRecord{Matchup: mi + 1, GameMetric: gameMetric})
				for _, mm := range moveMetrics {
					moveRecords = append(moveRecords, metrics.MoveRecord{Game: gameMetric.ID, MoveMetric: mm})
				}
				log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(x.Matchups), i+1, winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Msgf("completed %s experiment", x.Name)
	if x.Dir == "" {
		return gameRecords, nil
	}
	return gameRecords, x.write(gameRecords, moveRecords)
}

func (x Experiment) write(gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(x.Dir, x.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(x.Configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment results")
	return nil
}

// runGame executes a single game between two agents and returns the winner
func (x Experiment) runGame(ctx context.Context, white, black metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	whitePlayer, err := createPlayer(white, game.White)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	blackPlayer, err := createPlayer(black, game.Black)
	if err != nil {
		whitePlayer.Close()
		return "", metrics.GameMetric{}, nil, err
	}

	e := engine.NewLocal(whitePlayer, blackPlayer, engine.WithPlayerIDs(white.ID, black.ID), engine.WithMaxTurns(x.MaxTurns))
	defer e.Close()
	return e.Run(ctx)
}

func createPlayer(config metrics.AgentConfig, side game.Side) (player.Player, error) {
	options := []searcher.Option{}
	if config.TimeBudget > 0 {
		options = append(options, searcher.WithTimeBudget(config.TimeBudget))
	}
	return player.NewSearch(config.MaxDepth, side, options...)
}
