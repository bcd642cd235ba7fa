package communication

import (
	"context"
	"encoding/json"
	"fmt"
	"powerchess/game"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Client talks to a Worker through its channels. Every request gets a new ID and only
// the response to the latest ID is delivered; anything else is dropped.
type Client struct {
	requests  chan<- Request
	responses <-chan Response
	done      <-chan struct{}
	logger    zerolog.Logger

	latest   atomic.Uint64
	inflight sync.Mutex // one request at a time

	mu     sync.Mutex
	cancel chan struct{}
}

func NewClient(w *Worker) *Client {
	return &Client{
		requests:  w.requests,
		responses: w.responses,
		done:      w.done,
		logger:    w.logger,
		cancel:    make(chan struct{}),
	}
}

// RequestMove asks the worker for side's next action on board and waits for the
// answer.
func (c *Client) RequestMove(ctx context.Context, board *game.Board, side game.Side) (Response, error) {
	c.inflight.Lock()
	defer c.inflight.Unlock()

	data, err := json.Marshal(board)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode board: %w", err)
	}

	c.mu.Lock()
	id := c.latest.Add(1)
	cancel := make(chan struct{})
	c.cancel = cancel
	c.mu.Unlock()

	select {
	case c.requests <- Request{Board: data, Side: side, ID: id}:
	case <-cancel:
		return Response{}, ErrIgnored
	case <-c.done:
		return Response{}, errWorkerStopped
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	for {
		select {
		case resp := <-c.responses:
			if resp.ID != c.latest.Load() {
				c.logger.Debug().Uint64("id", resp.ID).Uint64("expected", id).Msg("dropping stale response")
				continue
			}
			if resp.Err != "" {
				return resp, fmt.Errorf("%w: %s", ErrSearchFailed, resp.Err)
			}
			return resp, nil
		case <-cancel:
			return Response{}, ErrIgnored
		case <-c.done:
			return Response{}, errWorkerStopped
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
}

// Ignore abandons the pending request, if any. Its response will be dropped when it
// arrives.
func (c *Client) Ignore() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest.Add(1)
	close(c.cancel)
	c.cancel = make(chan struct{})
}

// LatestID returns the ID of the last request issued or ignored.
func (c *Client) LatestID() uint64 {
	return c.latest.Load()
}
