package searcher

import (
	"math"
	"powerchess/game"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// stepClock advances by step every time it is read.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// reference scores a position by plain expectimax, with neither pruning nor caching.
func reference(board *game.Board, side, toMove game.Side, depth, limit int) float64 {
	if board.IsOver() || depth > limit {
		return game.Evaluate(board, side)
	}
	actions := board.Actions(toMove)
	if len(actions) == 0 {
		return game.Evaluate(board, side)
	}

	best := worstScore(toMove == side)
	for _, action := range actions {
		score := referenceAction(board, action, side, toMove, depth, limit)
		if improves(toMove == side, score, best) {
			best = score
		}
	}
	return best
}

func referenceAction(board *game.Board, action game.Action, side, toMove game.Side, depth, limit int) float64 {
	score := 0.0
	for _, outcome := range Expand(board, action) {
		best := worstScore(toMove == side)
		for _, b := range outcome.Boards {
			v := reference(b, side, toMove.Opponent(), depth+1, limit)
			if improves(toMove == side, v, best) {
				best = v
			}
		}
		score += outcome.Odds * best
	}
	return score
}

func newTestSearcher(t *testing.T, maxDepth int, side game.Side, options ...Option) *Expectimax {
	t.Helper()
	options = append([]Option{WithTimeBudget(time.Hour)}, options...)
	e, err := New(maxDepth, side, options...)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	t.Run("negative depth", func(t *testing.T) {
		_, err := New(-1, game.White)
		require.ErrorIs(t, err, ErrInvalidDepth)
	})

	t.Run("unknown side", func(t *testing.T) {
		_, err := New(3, game.Side(7))
		require.ErrorIs(t, err, ErrInvalidSide)
	})

	t.Run("defaults", func(t *testing.T) {
		e, err := New(0, game.Black)
		require.NoError(t, err)
		require.Equal(t, game.Black, e.Side())
		require.Equal(t, 30*time.Second, e.timeBudget)
		require.Equal(t, 5000, e.caches[game.White].genSize)
	})

	t.Run("options ignore invalid values", func(t *testing.T) {
		e, err := New(0, game.White, WithTimeBudget(-time.Second), WithCacheCapacity(0), WithRand(nil), WithClock(nil))
		require.NoError(t, err)
		require.Equal(t, 30*time.Second, e.timeBudget)
		require.NotNil(t, e.rand)
		require.NotNil(t, e.now)
	})
}

func TestDepthLimit(t *testing.T) {
	tests := []struct {
		pieces int
		want   int
	}{
		{20, 3},
		{16, 3},
		{15, 3},
		{10, 4},
		{6, 4},
		{5, 4},
		{1, 4},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, depthLimit(3, tt.pieces), "%d pieces", tt.pieces)
	}
	require.Equal(t, 13, depthLimit(10, 3))
	require.Equal(t, 0, depthLimit(0, 3))
}

func TestComputeMoveMatchesFullEnumeration(t *testing.T) {
	boards := map[string]*game.Board{
		"knight and pawn against rook": game.NewBoard([][]*game.Piece{
			{piece(game.King, game.Black, 0), nil, piece(game.Rook, game.Black, 0)},
			{piece(game.Pawn, game.Black, 0), nil, nil},
			{nil, piece(game.Knight, game.White, 0), piece(game.Pawn, game.White, 0)},
			{piece(game.King, game.White, 0), nil, nil},
		}),
		"weakened king": game.NewBoard([][]*game.Piece{
			{piece(game.Rook, game.Black, 0), nil, nil},
			{nil, piece(game.King, game.Black, -4), nil},
			{piece(game.Pawn, game.White, 0), piece(game.King, game.White, 0), nil},
		}),
		"crowded corner": game.NewBoard([][]*game.Piece{
			{piece(game.King, game.Black, 0), nil, nil},
			{piece(game.Pawn, game.Black, 0), piece(game.Knight, game.Black, 0), piece(game.Knight, game.Black, 0)},
			{piece(game.King, game.White, 0), piece(game.Pawn, game.White, 0), nil},
		}),
		"pawns racing to promote": game.NewBoard([][]*game.Piece{
			{piece(game.King, game.Black, 0), nil, nil, nil},
			{nil, nil, piece(game.Pawn, game.White, 1), nil},
			{nil, piece(game.Pawn, game.Black, 1), nil, nil},
			{nil, nil, nil, piece(game.King, game.White, 0)},
		}),
	}

	for name, board := range boards {
		for _, side := range []game.Side{game.White, game.Black} {
			t.Run(name+" as "+side.String(), func(t *testing.T) {
				e := newTestSearcher(t, 1, side, WithRand(rand.New(rand.NewSource(7))))
				limit := depthLimit(1, board.PieceCount())
				want := reference(board, side, side, 0, limit)

				got := e.ComputeMove(board)

				require.NotNil(t, got.Action)
				require.InDelta(t, want, got.Score, 1e-9, "Pruned search should score like full enumeration")
				chosen := referenceAction(board, *got.Action, side, side, 0, limit)
				require.InDelta(t, want, chosen, 1e-9, "Chosen action %s should be a best action", got.Action)
			})
		}
	}
}

func TestComputeMoveCaching(t *testing.T) {
	e := newTestSearcher(t, 1, game.White)
	board := game.StartingBoard()

	first := e.ComputeMove(board)
	require.NotNil(t, first.Action)
	white, _ := e.CacheSizes()
	require.Greater(t, white, 0, "Root result should be cached")

	second := e.ComputeMove(board)

	require.Equal(t, 1, e.CacheHits(), "Second search should hit the cached root")
	require.Equal(t, first, second)
}

func TestComputeMoveCacheDepth(t *testing.T) {
	board := game.StartingBoard()
	hash := board.Hash().Key()

	t.Run("entries from a deeper ply are ignored", func(t *testing.T) {
		e := newTestSearcher(t, 1, game.White)
		e.caches[game.White].Set(hash, Result{Score: 999, Depth: 3})

		result := e.ComputeMove(board)

		require.Equal(t, 0, e.CacheHits())
		require.NotEqual(t, 999.0, result.Score)
		require.NotNil(t, result.Action)
	})

	t.Run("entries searched at least as deep are reused", func(t *testing.T) {
		e := newTestSearcher(t, 1, game.White)
		action := game.Action{Src: sq(0, 6), Dst: sq(0, 5), Kind: game.MoveAction}
		cached := Result{Score: 999, Action: &action, Depth: 0}
		e.caches[game.White].Set(hash, cached)

		result := e.ComputeMove(board)

		require.Equal(t, 1, e.CacheHits())
		require.Equal(t, cached, result)
	})
}

func TestComputeMoveObviousCapture(t *testing.T) {
	board := game.NewBoard([][]*game.Piece{
		{piece(game.King, game.Black, 0), nil, nil},
		{piece(game.Rook, game.White, 0), nil, nil},
		{nil, nil, piece(game.King, game.White, 0)},
	})
	capture := game.Action{Src: sq(0, 1), Dst: sq(0, 0), Kind: game.AttackAction}

	passes := 0
	for i := 0; i < 10; i++ {
		e := newTestSearcher(t, 1, game.White)
		result := e.ComputeMove(board)
		if result.Action != nil && *result.Action == capture {
			passes++
		}
	}
	require.GreaterOrEqual(t, passes, 6, "Engine should attack the exposed king")
}

func TestComputeMoveFinishedGame(t *testing.T) {
	e := newTestSearcher(t, 2, game.White)

	result := e.ComputeMove(game.StartingBoard().WithStatus(game.BlackWon))

	require.Nil(t, result.Action)
	require.Equal(t, -game.KingValue, result.Score)
}

func TestComputeMoveTimeBudget(t *testing.T) {
	t.Run("exhausted budget still returns an action", func(t *testing.T) {
		clock := &stepClock{step: time.Second}
		e, err := New(3, game.White, WithTimeBudget(time.Millisecond), WithClock(clock.now), WithMetrics())
		require.NoError(t, err)

		result := e.ComputeMove(game.StartingBoard())

		require.NotNil(t, result.Action)
		require.Equal(t, 0, result.Depth)
		metric := e.LastMetric()
		require.True(t, metric.TimedOut)
		require.Equal(t, 1, metric.DepthReached, "Only the root should be expanded")
		require.Equal(t, 21, metric.Nodes)
		require.Greater(t, e.LastDuration(), time.Duration(0))
	})

	t.Run("root actions share the remaining time", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := &stepClock{t: start}
		e := newTestSearcher(t, 1, game.White, WithClock(clock.now))
		e.deadline = start.Add(10 * time.Second)

		require.Equal(t, start.Add(2500*time.Millisecond), e.share(4))
		require.Equal(t, start.Add(10*time.Second), e.share(1))

		e.deadline = start.Add(-time.Second)
		require.Equal(t, start, e.share(3), "No time left")
	})
}

func TestSetSide(t *testing.T) {
	e := newTestSearcher(t, 1, game.White)
	e.ComputeMove(game.StartingBoard())

	require.NoError(t, e.SetSide(game.Black))

	white, black := e.CacheSizes()
	require.Equal(t, 0, white+black, "Changing sides should clear the caches")
	require.Equal(t, game.Black, e.Side())
	require.ErrorIs(t, e.SetSide(game.Side(-1)), ErrInvalidSide)

	result := e.ComputeMove(game.StartingBoard())
	require.NotNil(t, result.Action)
	src, ok := game.StartingBoard().At(result.Action.Src)
	require.True(t, ok)
	require.Equal(t, game.Black, src.Side)
}

func TestWindow(t *testing.T) {
	w := fullWindow()
	require.True(t, w.contains(0))
	require.False(t, w.closed())

	raised := w.raise(3)
	require.Equal(t, 3.0, raised.alpha)
	require.Equal(t, math.Inf(-1), w.alpha, "Windows are values")
	require.False(t, raised.contains(3))

	require.True(t, raised.lower(2).closed())
	require.True(t, raised.lower(3).closed())
	require.False(t, raised.lower(4).closed())
}
