package engine

import (
	"context"
	"errors"
	"fmt"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/meta"
	"powerchess/player"
	"powerchess/searcher"
	"powerchess/utils"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *Local)

// Local runs a game between two players in process. White moves first.
type Local struct {
	board    *game.Board
	players  [2]player.Player // indexed by side
	ids      [2]int
	maxTurns int
	rand     *rand.Rand
	logger   zerolog.Logger
}

func WithBoard(board *game.Board) Option {
	return func(e *Local) {
		if board != nil {
			e.board = board
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithSeed fixes the source used to settle combats.
func WithSeed(seed uint64) Option {
	return func(e *Local) {
		e.rand = rand.New(rand.NewSource(seed))
	}
}

// WithPlayerIDs tags the game metric with the configurations of both players.
func WithPlayerIDs(white, black int) Option {
	return func(e *Local) {
		e.ids = [2]int{white, black}
	}
}

func NewLocal(white, black player.Player, options ...Option) *Local {
	e := &Local{
		board:    game.StartingBoard(),
		players:  [2]player.Player{white, black},
		maxTurns: meta.MaxTurns,
		rand:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		logger:   log.Logger.With().Str("component", "engine").Logger(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until there's a winner or the turn limit is reached.
func (e *Local) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	id := uuid.New()
	logger := e.logger.With().Stringer("game", id).Logger()
	start := time.Now()
	logger.Info().Msg("game started")

	var moveMetrics []metrics.MoveMetric
	side := game.White
	turn := 1
	for ; !e.board.IsOver() && turn <= e.maxTurns; turn++ {
		action, metric, err := e.players[side].FindMove(ctx, e.board, side)
		if errors.Is(err, player.ErrNoAction) {
			logger.Info().Stringer("side", side).Msg("no legal action left, game drawn")
			break
		}
		if err != nil {
			return "", metrics.GameMetric{}, moveMetrics, fmt.Errorf("turn %d: %s failed to move: %w", turn, side, err)
		}

		legal := e.board.Actions(side)
		if len(legal) == 0 {
			logger.Info().Stringer("side", side).Msg("no legal action left, game drawn")
			break
		}
		if utils.FindIndex(legal, action) == -1 {
			logger.Warn().Stringer("action", action).Stringer("side", side).Msg("illegal action, forcing the first legal one")
			action = legal[0]
		}

		e.board = e.play(action, side)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Side:         side,
			Action:       action,
			SearchMetric: metric,
		})
		logger.Debug().Int("turn", turn).Stringer("side", side).Stringer("action", action).Msg("played")
		side = side.Opponent()
	}

	winner := ""
	if w, ok := e.board.Status().Winner(); ok {
		winner = w.String()
		logger.Info().Str("winner", winner).Int("moves", len(moveMetrics)).Msg("game over")
	} else {
		logger.Info().Int("moves", len(moveMetrics)).Msg("game stopped without a winner")
	}

	end := time.Now()
	return winner, metrics.GameMetric{
		ID:         id.String(),
		White:      e.ids[game.White],
		Black:      e.ids[game.Black],
		Winner:     winner,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: len(moveMetrics),
	}, moveMetrics, nil
}

// play settles the action by drawing one of its outcomes. Promotions become the piece
// that evaluates best for the mover.
func (e *Local) play(action game.Action, side game.Side) *game.Board {
	outcomes := searcher.Expand(e.board, action)
	drawn := outcomes[len(outcomes)-1]
	sampled := e.rand.Float64()
	cumulative := 0.0
	for _, outcome := range outcomes {
		cumulative += outcome.Odds
		if sampled < cumulative {
			drawn = outcome
			break
		}
	}

	best := drawn.Boards[0]
	for _, b := range drawn.Boards[1:] {
		if game.Evaluate(b, side) > game.Evaluate(best, side) {
			best = b
		}
	}
	return best
}

// Board returns the current position.
func (e *Local) Board() *game.Board {
	return e.board
}

// Close releases both players.
func (e *Local) Close() error {
	return errors.Join(e.players[game.White].Close(), e.players[game.Black].Close())
}
