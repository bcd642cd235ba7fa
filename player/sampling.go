package player

import (
	"context"
	"math"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/searcher"
	"time"

	"golang.org/x/exp/rand"
)

// Sampling looks one ply ahead and samples an action with probability growing with its
// expected evaluation. Lower temperatures play greedier.
type Sampling struct {
	temperature float64
	rand        *rand.Rand
}

func NewSampling(temperature float64, seed uint64) *Sampling {
	if temperature <= 0 {
		temperature = 1
	}
	return &Sampling{temperature: temperature, rand: rand.New(rand.NewSource(seed))}
}

func (p *Sampling) FindMove(_ context.Context, board *game.Board, side game.Side) (game.Action, metrics.SearchMetric, error) {
	start := time.Now()
	actions := board.Actions(side)
	if len(actions) == 0 {
		return game.Action{}, metrics.SearchMetric{}, ErrNoAction
	}

	scores := make([]float64, len(actions))
	for i, action := range actions {
		scores[i] = expectedValue(board, action, side)
	}
	policy := adjustTemperature(scores, p.temperature)
	i := sample(policy, p.rand.Float64())

	return actions[i], metrics.SearchMetric{
		Duration:     time.Since(start),
		MaxDepth:     1,
		DepthLimit:   1,
		DepthReached: 1,
		Nodes:        len(actions),
		Score:        scores[i],
	}, nil
}

func (p *Sampling) Close() error {
	return nil
}

// expectedValue weighs the evaluation of every outcome of action by its odds.
func expectedValue(board *game.Board, action game.Action, side game.Side) float64 {
	value := 0.0
	for _, outcome := range searcher.Expand(board, action) {
		best := math.Inf(-1)
		for _, b := range outcome.Boards {
			best = max(best, game.Evaluate(b, side))
		}
		value += outcome.Odds * best
	}
	return value
}

// adjustTemperature turns scores into a probability distribution.
func adjustTemperature(scores []float64, temperature float64) []float64 {
	top := math.Inf(-1)
	for _, score := range scores {
		top = max(top, score)
	}

	// Shifted by the top score so that terminal values do not overflow
	sum := 0.0
	policy := make([]float64, len(scores))
	for i, score := range scores {
		policy[i] = math.Exp((score - top) / temperature)
		sum += policy[i]
	}
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
