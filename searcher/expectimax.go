package searcher

import (
	"fmt"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/meta"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *Expectimax)

// Expectimax searches for the best action of one side. Attacks are chance nodes whose
// outcomes are weighed by their win odds; actions are pruned with alpha-beta bounds.
// An Expectimax is not safe for concurrent use: each game needs its own instance.
type Expectimax struct {
	maxDepth   int
	side       game.Side
	timeBudget time.Duration
	capacity   int
	caches     [2]*Cache // indexed by side to move
	rand       *rand.Rand
	now        func() time.Time
	metrics    metrics.Collector

	// Per search
	deadline     time.Time
	cacheHits    int
	lastDuration time.Duration
	lastMetric   metrics.SearchMetric
}

func WithTimeBudget(budget time.Duration) Option {
	return func(e *Expectimax) {
		if budget > 0 {
			e.timeBudget = budget
		}
	}
}

func WithCacheCapacity(capacity int) Option {
	return func(e *Expectimax) {
		if capacity > 0 {
			e.capacity = capacity
		}
	}
}

// WithRand sets the source used to shuffle actions.
func WithRand(r *rand.Rand) Option {
	return func(e *Expectimax) {
		if r != nil {
			e.rand = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Expectimax) {
		if now != nil {
			e.now = now
		}
	}
}

func WithMetrics() Option {
	return func(e *Expectimax) {
		e.metrics = metrics.NewCollector()
	}
}

func New(maxDepth int, side game.Side, options ...Option) (*Expectimax, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}
	if !validSide(side) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}

	e := &Expectimax{ // Default values
		maxDepth:   maxDepth,
		side:       side,
		timeBudget: meta.DefaultTimeBudget,
		capacity:   meta.DefaultCacheCapacity,
		rand:       rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		now:        time.Now,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	for i := range e.caches {
		e.caches[i] = NewCache(e.capacity)
	}
	return e, nil
}

// ComputeMove searches board for the configured side. The result carries no action
// only when the side has no legal action or the game is over. Running out of time is
// not an error: the best result found so far is returned.
func (e *Expectimax) ComputeMove(board *game.Board) Result {
	start := e.now()
	e.deadline = start.Add(e.timeBudget)
	e.cacheHits = 0

	limit := depthLimit(e.maxDepth, board.PieceCount())
	e.metrics.Start(e.maxDepth, limit)
	result := e.search(board, root(e.side), limit, e.deadline)

	e.lastDuration = e.now().Sub(start)
	e.lastMetric = e.metrics.Complete(result.Score, e.cacheSize())
	e.logResult(result, limit)
	return result
}

func (e *Expectimax) logResult(result Result, limit int) {
	white, black := e.CacheSizes()
	event := log.Debug().
		Str("side", e.side.String()).
		Float64("score", result.Score).
		Int("depth-limit", limit).
		Int("cache-hits", e.cacheHits).
		Int("white-cache", white).
		Int("black-cache", black).
		Dur("duration", e.lastDuration)
	if result.Action != nil {
		event = event.Stringer("action", result.Action)
	}
	event.Msg("search-complete")
}

// expired reports whether the branch or the whole search ran out of time.
func (e *Expectimax) expired(branchDeadline time.Time) bool {
	now := e.now()
	if now.Before(branchDeadline) && now.Before(e.deadline) {
		return false
	}
	e.metrics.SetTimedOut()
	return true
}

// share splits the time left evenly among the remaining root actions.
func (e *Expectimax) share(remaining int) time.Time {
	now := e.now()
	left := max(e.deadline.Sub(now), 0)
	return now.Add(left / time.Duration(remaining))
}

func (e *Expectimax) Side() game.Side {
	return e.side
}

// SetSide reassigns the side searched for. Cached results are scored from the old
// side's perspective, so both caches are cleared.
func (e *Expectimax) SetSide(side game.Side) error {
	if !validSide(side) {
		return fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
	e.side = side
	e.Reset()
	return nil
}

func (e *Expectimax) Reset() {
	for _, cache := range e.caches {
		cache.Clear()
	}
	e.cacheHits = 0
}

// CacheHits counts cache hits during the last search.
func (e *Expectimax) CacheHits() int {
	return e.cacheHits
}

func (e *Expectimax) LastDuration() time.Duration {
	return e.lastDuration
}

// LastMetric returns statistics of the last search. It is empty unless the searcher
// was built WithMetrics.
func (e *Expectimax) LastMetric() metrics.SearchMetric {
	return e.lastMetric
}

func (e *Expectimax) CacheSizes() (white, black int) {
	return e.caches[game.White].Size(), e.caches[game.Black].Size()
}

func (e *Expectimax) cacheSize() int {
	white, black := e.CacheSizes()
	return white + black
}
