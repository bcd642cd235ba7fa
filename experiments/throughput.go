package experiments

import (
	"context"
	"fmt"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/meta"
	"powerchess/searcher"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Positions builds count positions by playing random actions from the starting board,
// one more ply for each position. Finished games are skipped.
func Positions(count int, seed uint64) []*game.Board {
	r := rand.New(rand.NewSource(seed))
	board := game.StartingBoard()
	side := game.White

	positions := []*game.Board{board}
	for len(positions) < count {
		actions := board.Actions(side)
		if len(actions) == 0 || board.IsOver() {
			board, side = game.StartingBoard(), game.White
			continue
		}
		resolution := game.AttackerWins
		if r.Intn(2) == 0 {
			resolution = game.DefenderWins
		}
		next := board.Apply(actions[r.Intn(len(actions))], resolution)
		if next.PendingPromotion() {
			next = next.Promote(game.Rook)
		}
		board, side = next, side.Opponent()
		if !board.IsOver() {
			positions = append(positions, board)
		}
	}
	return positions
}

// RunThroughputExperiment searches the same positions with every config and reports
// one search metric per position and config. Searches run concurrently, each with its
// own searcher.
func RunThroughputExperiment(ctx context.Context, configs []metrics.AgentConfig, positions []*game.Board) ([]metrics.MoveRecord, error) {
	log.Info().Msg("starting throughput experiment...")

	var mutex sync.Mutex
	records := []metrics.MoveRecord{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(meta.Goroutines)
	for _, config := range configs {
		for step, board := range positions {
			side := game.White
			if step%2 == 1 {
				side = game.Black
			}

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := searcher.New(config.MaxDepth, side, searcher.WithTimeBudget(config.TimeBudget), searcher.WithMetrics())
				if err != nil {
					return fmt.Errorf("config %d: %w", config.ID, err)
				}
				result := s.ComputeMove(board)
				record := metrics.MoveRecord{
					Game:       fmt.Sprintf("config-%d", config.ID),
					MoveMetric: metrics.MoveMetric{Step: step + 1, Side: side, SearchMetric: s.LastMetric()},
				}
				if result.Action != nil {
					record.Action = *result.Action
				}

				mutex.Lock()
				defer mutex.Unlock()
				records = append(records, record)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("searches", len(records)).Msg("completed throughput experiment")
	return records, nil
}
