package communication

import (
	"context"
	"encoding/json"
	"powerchess/game"
	"powerchess/searcher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newWorker(t *testing.T, side game.Side) *Worker {
	t.Helper()
	s, err := searcher.New(1, side, searcher.WithTimeBudget(time.Minute), searcher.WithMetrics())
	require.NoError(t, err)
	return NewWorker(s)
}

func runWorker(t *testing.T, w *Worker) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)
}

func TestWorker(t *testing.T) {
	t.Run("computes a legal action", func(t *testing.T) {
		w := newWorker(t, game.White)
		runWorker(t, w)
		client := NewClient(w)
		board := game.StartingBoard()

		resp, err := client.RequestMove(context.Background(), board, game.White)

		require.NoError(t, err)
		require.NotNil(t, resp.Action)
		require.Equal(t, uint64(1), resp.ID)
		require.Contains(t, board.Actions(game.White), *resp.Action)
		require.Positive(t, resp.Metric.Nodes, "Worker should report search metrics")
	})

	t.Run("reassigns the side", func(t *testing.T) {
		w := newWorker(t, game.White)
		runWorker(t, w)
		client := NewClient(w)
		board := game.StartingBoard()

		resp, err := client.RequestMove(context.Background(), board, game.Black)

		require.NoError(t, err)
		require.Contains(t, board.Actions(game.Black), *resp.Action)
		require.Equal(t, game.Black, w.searcher.Side())
	})

	t.Run("reports malformed boards", func(t *testing.T) {
		w := newWorker(t, game.White)

		resp := w.serve(Request{Board: json.RawMessage(`{"squares":[[null],[]]}`), Side: game.White, ID: 4})

		require.Equal(t, uint64(4), resp.ID)
		require.NotEmpty(t, resp.Err)
		require.Nil(t, resp.Action)
	})
}

func TestClient(t *testing.T) {
	board := game.StartingBoard()
	action := game.Action{Src: game.Square{X: 0, Y: 6}, Dst: game.Square{X: 0, Y: 5}, Kind: game.MoveAction}

	t.Run("drops stale responses", func(t *testing.T) {
		w := newWorker(t, game.White)
		client := NewClient(w)
		go func() {
			req := <-w.requests
			w.responses <- Response{ID: req.ID + 7}
			w.responses <- Response{ID: req.ID, Action: &action}
		}()

		resp, err := client.RequestMove(context.Background(), board, game.White)

		require.NoError(t, err)
		require.Equal(t, &action, resp.Action)
	})

	t.Run("ignored requests are abandoned", func(t *testing.T) {
		w := newWorker(t, game.White)
		client := NewClient(w)
		received := make(chan Request, 1)
		go func() { received <- <-w.requests }()

		errs := make(chan error, 1)
		go func() {
			_, err := client.RequestMove(context.Background(), board, game.White)
			errs <- err
		}()
		first := <-received
		client.Ignore()

		require.ErrorIs(t, <-errs, ErrIgnored)
		require.Equal(t, uint64(2), client.LatestID())

		// The abandoned answer arrives while the next request is pending
		go func() {
			next := <-w.requests
			w.responses <- Response{ID: first.ID, Action: &game.Action{}}
			w.responses <- Response{ID: next.ID, Action: &action}
		}()
		resp, err := client.RequestMove(context.Background(), board, game.White)

		require.NoError(t, err)
		require.Equal(t, uint64(3), resp.ID)
		require.Equal(t, &action, resp.Action)
	})

	t.Run("failed searches", func(t *testing.T) {
		w := newWorker(t, game.White)
		client := NewClient(w)
		go func() {
			req := <-w.requests
			w.responses <- Response{ID: req.ID, Err: "boom"}
		}()

		_, err := client.RequestMove(context.Background(), board, game.White)

		require.ErrorIs(t, err, ErrSearchFailed)
	})

	t.Run("stopped worker", func(t *testing.T) {
		w := newWorker(t, game.White)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w.Run(ctx)
		client := NewClient(w)

		_, err := client.RequestMove(context.Background(), board, game.White)

		require.ErrorIs(t, err, ErrSearchFailed, "Requests to a stopped worker should fail instead of blocking")
	})

	t.Run("context cancellation", func(t *testing.T) {
		w := newWorker(t, game.White)
		client := NewClient(w)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := client.RequestMove(ctx, board, game.White)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestRequestJSON(t *testing.T) {
	data, err := json.Marshal(Request{Board: json.RawMessage(`{}`), Side: game.Black, ID: 3})
	require.NoError(t, err)
	require.JSONEq(t, `{"board":{},"side":"BLACK","id":3}`, string(data))
}
