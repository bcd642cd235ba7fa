package communication

import (
	"encoding/json"
	"errors"
	"fmt"
	"powerchess/experiments/metrics"
	"powerchess/game"
)

// Request asks a worker for the best action of side on a serialized board.
type Request struct {
	Board json.RawMessage `json:"board"`
	Side  game.Side       `json:"side"`
	ID    uint64          `json:"id"`
}

// Response answers the request with the same ID. Action is nil when the side has no
// legal action.
type Response struct {
	Action *game.Action         `json:"action"`
	Score  float64              `json:"score"`
	ID     uint64               `json:"id"`
	Err    string               `json:"error,omitempty"`
	Metric metrics.SearchMetric `json:"-"`
}

var (
	// ErrIgnored is returned to a caller whose pending request was abandoned by Ignore.
	ErrIgnored      = errors.New("request ignored")
	ErrSearchFailed = errors.New("search failed")

	errWorkerStopped = fmt.Errorf("%w: worker stopped", ErrSearchFailed)
)
