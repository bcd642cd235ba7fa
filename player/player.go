package player

import (
	"context"
	"errors"
	"powerchess/communication"
	"powerchess/communication/client"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/searcher"
	"time"

	"golang.org/x/exp/rand"
)

// ErrNoAction is returned when the side to move has no legal action.
var ErrNoAction = errors.New("no legal action")

// Player picks actions for one side of a game.
type Player interface {
	FindMove(ctx context.Context, board *game.Board, side game.Side) (game.Action, metrics.SearchMetric, error)
	Close() error
}

// Search plays the actions found by an expectimax searcher running on its own worker.
type Search struct {
	client *communication.Client
	stop   context.CancelFunc
}

func NewSearch(maxDepth int, side game.Side, options ...searcher.Option) (*Search, error) {
	s, err := searcher.New(maxDepth, side, append(options, searcher.WithMetrics())...)
	if err != nil {
		return nil, err
	}
	worker := communication.NewWorker(s)
	ctx, stop := context.WithCancel(context.Background())
	go worker.Run(ctx)

	return &Search{
		client: communication.NewClient(worker),
		stop:   stop,
	}, nil
}

func (p *Search) FindMove(ctx context.Context, board *game.Board, side game.Side) (game.Action, metrics.SearchMetric, error) {
	resp, err := p.client.RequestMove(ctx, board, side)
	if err != nil {
		return game.Action{}, metrics.SearchMetric{}, err
	}
	if resp.Action == nil {
		return game.Action{}, resp.Metric, ErrNoAction
	}
	return *resp.Action, resp.Metric, nil
}

// Close stops the worker. A search already running finishes in the background.
func (p *Search) Close() error {
	p.stop()
	return nil
}

// Remote asks a move server over HTTP.
type Remote struct {
	client *client.HTTPClient
}

func NewRemote(serverURL string) *Remote {
	return &Remote{client: client.NewHTTPClient(serverURL)}
}

func (p *Remote) FindMove(ctx context.Context, board *game.Board, side game.Side) (game.Action, metrics.SearchMetric, error) {
	start := time.Now()
	move, err := p.client.FindMove(ctx, board, side)
	if err != nil {
		return game.Action{}, metrics.SearchMetric{}, err
	}
	metric := metrics.SearchMetric{Duration: time.Since(start), Score: move.Score}
	if move.Action == nil {
		return game.Action{}, metric, ErrNoAction
	}
	return *move.Action, metric, nil
}

func (p *Remote) Close() error {
	return p.client.Close(context.Background())
}

// Random plays a uniformly random legal action.
type Random struct {
	rand *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rand: rand.New(rand.NewSource(seed))}
}

func (p *Random) FindMove(_ context.Context, board *game.Board, side game.Side) (game.Action, metrics.SearchMetric, error) {
	actions := board.Actions(side)
	if len(actions) == 0 {
		return game.Action{}, metrics.SearchMetric{}, ErrNoAction
	}
	return actions[p.rand.Intn(len(actions))], metrics.SearchMetric{}, nil
}

func (p *Random) Close() error {
	return nil
}
