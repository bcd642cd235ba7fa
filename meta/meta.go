// meta/meta.go
package meta

import "time"

// DefaultMaxDepth defines the search depth before endgame extensions.
const DefaultMaxDepth = 3

// DefaultTimeBudget defines how long a single move search may run.
const DefaultTimeBudget = 30 * time.Second

// DefaultCacheCapacity defines the number of positions cached per side.
const DefaultCacheCapacity = 20000

// MaxTurns defines the number of turns after which a game is abandoned as a draw.
const MaxTurns = 300

// Goroutines defines how many games an experiment plays concurrently.
const Goroutines = 8
