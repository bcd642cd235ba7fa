package player

import (
	"context"
	"net/http/httptest"
	"powerchess/communication/server"
	"powerchess/game"
	"powerchess/searcher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func piece(t game.PieceType, side game.Side) *game.Piece {
	p := game.NewPiece(t, side, 0, 0, 0)
	return &p
}

// loneKing leaves white without a legal action.
func loneKing() *game.Board {
	return game.NewBoard([][]*game.Piece{{piece(game.King, game.White)}})
}

// exposedKing lets the white rook attack the black king.
func exposedKing() *game.Board {
	return game.NewBoard([][]*game.Piece{
		{piece(game.King, game.Black), nil, nil},
		{piece(game.Rook, game.White), nil, nil},
		{nil, nil, piece(game.King, game.White)},
	})
}

func TestRandom(t *testing.T) {
	ctx := context.Background()
	p := NewRandom(1)
	defer p.Close()

	t.Run("plays legal actions", func(t *testing.T) {
		board := game.StartingBoard()
		for _, side := range []game.Side{game.White, game.Black} {
			action, _, err := p.FindMove(ctx, board, side)
			require.NoError(t, err)
			require.Contains(t, board.Actions(side), action)
		}
	})

	t.Run("no legal action", func(t *testing.T) {
		_, _, err := p.FindMove(ctx, loneKing(), game.White)
		require.ErrorIs(t, err, ErrNoAction)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	p, err := NewSearch(1, game.White, searcher.WithTimeBudget(5*time.Second))
	require.NoError(t, err)
	defer p.Close()

	t.Run("plays legal actions for both sides", func(t *testing.T) {
		board := game.StartingBoard()
		for _, side := range []game.Side{game.White, game.Black} {
			action, metric, err := p.FindMove(ctx, board, side)
			require.NoError(t, err)
			require.Contains(t, board.Actions(side), action)
			require.Positive(t, metric.Nodes, "Search players should report metrics")
		}
	})

	t.Run("no legal action", func(t *testing.T) {
		_, _, err := p.FindMove(ctx, loneKing(), game.White)
		require.ErrorIs(t, err, ErrNoAction)
	})

	t.Run("invalid depth", func(t *testing.T) {
		_, err := NewSearch(-1, game.White)
		require.ErrorIs(t, err, searcher.ErrInvalidDepth)
	})
}

func TestRemote(t *testing.T) {
	srv := server.NewServer(1, searcher.WithTimeBudget(5*time.Second))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	p := NewRemote(ts.URL)
	board := game.StartingBoard()

	action, metric, err := p.FindMove(context.Background(), board, game.White)
	require.NoError(t, err)
	require.Contains(t, board.Actions(game.White), action)
	require.Positive(t, metric.Duration)

	require.NoError(t, p.Close())
	require.Equal(t, 0, srv.Sessions())
}

func TestSampling(t *testing.T) {
	ctx := context.Background()

	t.Run("greedy sampling attacks the exposed king", func(t *testing.T) {
		p := NewSampling(0.1, 3)
		capture := game.Action{Src: game.Square{X: 0, Y: 1}, Dst: game.Square{X: 0, Y: 0}, Kind: game.AttackAction}

		for i := 0; i < 5; i++ {
			action, metric, err := p.FindMove(ctx, exposedKing(), game.White)
			require.NoError(t, err)
			require.Equal(t, capture, action)
			require.Greater(t, metric.Score, 50.0)
		}
	})

	t.Run("plays legal actions", func(t *testing.T) {
		p := NewSampling(0, 5)
		board := game.StartingBoard()

		action, _, err := p.FindMove(ctx, board, game.Black)
		require.NoError(t, err)
		require.Contains(t, board.Actions(game.Black), action)
	})

	t.Run("no legal action", func(t *testing.T) {
		_, _, err := NewSampling(1, 1).FindMove(ctx, loneKing(), game.White)
		require.ErrorIs(t, err, ErrNoAction)
	})
}

func TestAdjustTemperature(t *testing.T) {
	t.Run("distribution sums to one", func(t *testing.T) {
		policy := adjustTemperature([]float64{1, 2, 3, 184}, 1)

		sum := 0.0
		for _, p := range policy {
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-9)
		require.Greater(t, policy[2], policy[1])
	})

	t.Run("equal scores are equally likely", func(t *testing.T) {
		policy := adjustTemperature([]float64{2, 2}, 0.5)
		require.InDelta(t, 0.5, policy[0], 1e-9)
	})

	t.Run("high temperature flattens", func(t *testing.T) {
		cold := adjustTemperature([]float64{0, 1}, 0.1)
		hot := adjustTemperature([]float64{0, 1}, 10)
		require.Greater(t, hot[0], cold[0])
	})
}

func TestSample(t *testing.T) {
	policy := []float64{0.25, 0.5, 0.25}

	require.Equal(t, 0, sample(policy, 0))
	require.Equal(t, 1, sample(policy, 0.25))
	require.Equal(t, 1, sample(policy, 0.74))
	require.Equal(t, 2, sample(policy, 0.75))
	require.Equal(t, 2, sample(policy, 1), "Rounding errors fall back to the last action")
}
