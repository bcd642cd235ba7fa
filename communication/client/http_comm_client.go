package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"powerchess/communication/server"
	"powerchess/game"
)

// HTTPClient requests moves from a remote move server. The first request opens a game
// session that later requests reuse.
type HTTPClient struct {
	serverURL string
	http      *http.Client
	gameID    string
}

func NewHTTPClient(serverURL string) *HTTPClient {
	return &HTTPClient{
		serverURL: serverURL,
		http:      http.DefaultClient,
	}
}

func (c *HTTPClient) FindMove(ctx context.Context, board *game.Board, side game.Side) (server.FindMoveResponse, error) {
	data, err := json.Marshal(board)
	if err != nil {
		return server.FindMoveResponse{}, fmt.Errorf("failed to encode board: %w", err)
	}
	body, err := json.Marshal(server.FindMoveRequest{GameID: c.gameID, Board: data, Side: side})
	if err != nil {
		return server.FindMoveResponse{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/findmove", bytes.NewReader(body))
	if err != nil {
		return server.FindMoveResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return server.FindMoveResponse{}, fmt.Errorf("failed to reach move server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return server.FindMoveResponse{}, fmt.Errorf("move server returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var move server.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return server.FindMoveResponse{}, fmt.Errorf("failed to decode move: %w", err)
	}
	c.gameID = move.GameID
	return move, nil
}

// Close ends the game session on the server.
func (c *HTTPClient) Close(ctx context.Context) error {
	if c.gameID == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.serverURL+"/games/"+c.gameID, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach move server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("move server returned %s", resp.Status)
	}
	c.gameID = ""
	return nil
}

func (c *HTTPClient) GameID() string {
	return c.gameID
}
