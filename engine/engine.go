package engine

import (
	"context"
	"powerchess/experiments/metrics"
)

// Engine plays one game to completion.
type Engine interface {
	// Run plays until a king falls or the turn limit is reached. A draw has an empty winner.
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
