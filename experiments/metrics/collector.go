package metrics

import (
	"powerchess/game"
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	MaxDepth     int
	DepthLimit   int
	DepthReached int
	Nodes        int
	CacheHits    int
	CacheSize    int
	Score        float64
	TimedOut     bool
}

type MoveMetric struct {
	Step   int
	Side   game.Side
	Action game.Action
	SearchMetric
}

type GameMetric struct {
	ID         string
	White      int // AgentConfig.ID
	Black      int // AgentConfig.ID
	Winner     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector records statistics of one search at a time. Searches are single threaded,
// so implementations need no locking.
type Collector interface {
	Start(maxDepth, depthLimit int)
	AddNode(depth int)
	AddCacheHit()
	SetTimedOut()
	Complete(score float64, cacheSize int) SearchMetric
}

type collector struct {
	startTime    time.Time
	maxDepth     int
	depthLimit   int
	depthReached int
	nodes        int
	cacheHits    int
	timedOut     bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(maxDepth, depthLimit int) {
	*m = collector{
		startTime:  time.Now(),
		maxDepth:   maxDepth,
		depthLimit: depthLimit,
	}
}

func (m *collector) AddNode(depth int) {
	m.nodes++
	m.depthReached = max(m.depthReached, depth)
}

func (m *collector) AddCacheHit() {
	m.cacheHits++
}

func (m *collector) SetTimedOut() {
	m.timedOut = true
}

func (m *collector) Complete(score float64, cacheSize int) SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		MaxDepth:     m.maxDepth,
		DepthLimit:   m.depthLimit,
		DepthReached: m.depthReached,
		Nodes:        m.nodes,
		CacheHits:    m.cacheHits,
		CacheSize:    cacheSize,
		Score:        score,
		TimedOut:     m.timedOut,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(maxDepth, depthLimit int)                     {}
func (m *dummyCollector) AddNode(depth int)                                  {}
func (m *dummyCollector) AddCacheHit()                                       {}
func (m *dummyCollector) SetTimedOut()                                       {}
func (m *dummyCollector) Complete(score float64, cacheSize int) SearchMetric { return SearchMetric{} }
