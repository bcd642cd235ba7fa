package engine

import "powerchess/player"

// NewRemote plays a game between two move servers. Each side gets its own session, so
// both URLs may point at the same server.
func NewRemote(whiteURL, blackURL string, options ...Option) *Local {
	return NewLocal(player.NewRemote(whiteURL), player.NewRemote(blackURL), options...)
}
