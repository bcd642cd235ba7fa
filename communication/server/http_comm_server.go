package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"powerchess/communication"
	"powerchess/game"
	"powerchess/searcher"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FindMoveRequest is the body of POST /findmove. An empty GameID opens a new session.
type FindMoveRequest struct {
	GameID string          `json:"gameId,omitempty"`
	Board  json.RawMessage `json:"board"`
	Side   game.Side       `json:"side"`
}

type FindMoveResponse struct {
	GameID string       `json:"gameId"`
	Action *game.Action `json:"action"`
	Score  float64      `json:"score"`
}

type session struct {
	client *communication.Client
	stop   context.CancelFunc
}

// Server serves move searches over HTTP. Each game session gets its own worker and
// searcher, so concurrent games never share caches.
type Server struct {
	maxDepth int
	options  []searcher.Option
	logger   zerolog.Logger

	mutex    sync.Mutex
	sessions map[uuid.UUID]*session
}

func NewServer(maxDepth int, options ...searcher.Option) *Server {
	return &Server{
		maxDepth: maxDepth,
		options:  options,
		logger:   log.Logger.With().Str("component", "server").Logger(),
		sessions: make(map[uuid.UUID]*session),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /findmove", s.handleFindMove)
	mux.HandleFunc("DELETE /games/{id}", s.handleDeleteGame)
	return mux
}

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves on addr until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully and
// closes every session. Requests still waiting on a search see their context cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()
	httpServer := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info().Stringer("addr", ln.Addr()).Msg("Starting move server...")
	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down move server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	board, err := game.ParseBoard(payload.Board)
	if err != nil {
		http.Error(w, "bad board: "+err.Error(), http.StatusBadRequest)
		return
	}

	id, sess, err := s.session(payload.GameID, payload.Side)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUnknownSession) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp, err := sess.client.RequestMove(r.Context(), board, payload.Side)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("game", id).Msg("search failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(FindMoveResponse{GameID: id.String(), Action: resp.Action, Score: resp.Score})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad game id", http.StatusBadRequest)
		return
	}

	s.mutex.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mutex.Unlock()

	if !ok {
		http.Error(w, errUnknownSession.Error(), http.StatusNotFound)
		return
	}
	sess.stop()
	s.logger.Info().Stringer("game", id).Msg("session closed")
	w.WriteHeader(http.StatusNoContent)
}

var errUnknownSession = errors.New("unknown game session")

// session returns the session for gameID, opening a new one when gameID is empty.
func (s *Server) session(gameID string, side game.Side) (uuid.UUID, *session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if gameID != "" {
		id, err := uuid.Parse(gameID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		sess, ok := s.sessions[id]
		if !ok {
			return uuid.Nil, nil, errUnknownSession
		}
		return id, sess, nil
	}

	engine, err := searcher.New(s.maxDepth, side, s.options...)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id := uuid.New()
	worker := communication.NewWorker(engine).WithLogger(s.logger.With().Stringer("game", id).Logger())
	ctx, stop := context.WithCancel(context.Background())
	go worker.Run(ctx)

	sess := &session{client: communication.NewClient(worker), stop: stop}
	s.sessions[id] = sess
	s.logger.Info().Stringer("game", id).Msg("session opened")
	return id, sess, nil
}

// Sessions returns the number of open game sessions.
func (s *Server) Sessions() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

// Close stops every session's worker.
func (s *Server) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for id, sess := range s.sessions {
		sess.stop()
		delete(s.sessions, id)
	}
}
