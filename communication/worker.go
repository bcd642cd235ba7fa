package communication

import (
	"context"
	"powerchess/game"
	"powerchess/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Worker owns one searcher and serves requests for it on its own goroutine, one at a
// time. A searcher must never be shared between workers.
type Worker struct {
	searcher  *searcher.Expectimax
	requests  chan Request
	responses chan Response
	done      chan struct{}
	logger    zerolog.Logger
}

func NewWorker(s *searcher.Expectimax) *Worker {
	return &Worker{
		searcher:  s,
		requests:  make(chan Request, 1),
		responses: make(chan Response, 1),
		done:      make(chan struct{}),
		logger:    log.Logger.With().Str("component", "worker").Logger(),
	}
}

// WithLogger replaces the worker's logger.
func (w *Worker) WithLogger(logger zerolog.Logger) *Worker {
	w.logger = logger
	return w
}

// Run serves requests until ctx is done. In-flight searches are never interrupted.
// Run must be called at most once.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			resp := w.serve(req)
			select {
			case w.responses <- resp:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Worker) serve(req Request) Response {
	board, err := game.ParseBoard(req.Board)
	if err != nil {
		w.logger.Warn().Err(err).Uint64("id", req.ID).Msg("bad board")
		return Response{ID: req.ID, Err: err.Error()}
	}

	if req.Side != w.searcher.Side() {
		if err := w.searcher.SetSide(req.Side); err != nil {
			w.logger.Warn().Err(err).Uint64("id", req.ID).Msg("bad side")
			return Response{ID: req.ID, Err: err.Error()}
		}
		w.logger.Debug().Stringer("side", req.Side).Msg("side reassigned, caches cleared")
	}

	w.logger.Info().Uint64("id", req.ID).Msg("Computing next move...")
	result := w.searcher.ComputeMove(board)
	white, black := w.searcher.CacheSizes()
	w.logger.Info().
		Uint64("id", req.ID).
		Float64("score", result.Score).
		Dur("duration", w.searcher.LastDuration()).
		Int("cache-hits", w.searcher.CacheHits()).
		Int("white-cache", white).
		Int("black-cache", black).
		Msg("move computed")

	return Response{
		Action: result.Action,
		Score:  result.Score,
		ID:     req.ID,
		Metric: w.searcher.LastMetric(),
	}
}
