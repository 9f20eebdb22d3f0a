package pipeline

import (
	"sync"
	"time"
)

// Simulated progress cadence per stage. The true duration of a remote agent
// call is unknown, so progress is a bounded heuristic: tick toward a
// ceiling below 100 while the call is in flight, then snap when it settles.
const (
	generationStart    = 10
	generationStep     = 2
	generationCeiling  = 45
	generationInterval = 800 * time.Millisecond
	generationSettled  = 50

	publishStep     = 3
	publishCeiling  = 90
	publishInterval = 600 * time.Millisecond
	publishSettled  = 100
)

// progressGauge is a monotonically non-decreasing 0-100 value shared
// between the coordinator and its stage tickers.
type progressGauge struct {
	mu    sync.Mutex
	value int
}

// reset starts a fresh run at the given value. The only non-monotonic
// transition, allowed between runs only.
func (g *progressGauge) reset(value int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
}

// advance bumps the value by step without exceeding ceiling. Never lowers it.
func (g *progressGauge) advance(step, ceiling int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := g.value + step
	if next > ceiling {
		next = ceiling
	}
	if next > g.value {
		g.value = next
	}
}

// settle snaps the value up to at least target when a stage completes.
func (g *progressGauge) settle(target int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if target > g.value {
		g.value = target
	}
}

func (g *progressGauge) current() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// stageTicker drives a progressGauge while one stage is in flight. It must
// be stopped the instant the stage settles; stop is idempotent so it can
// sit in a defer and in the main path.
type stageTicker struct {
	stopCh chan struct{}
	once   sync.Once
}

func startStageTicker(gauge *progressGauge, step, ceiling int, interval time.Duration) *stageTicker {
	st := &stageTicker{stopCh: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-st.stopCh:
				return
			case <-ticker.C:
				gauge.advance(step, ceiling)
			}
		}
	}()
	return st
}

func (st *stageTicker) stop() {
	st.once.Do(func() {
		close(st.stopCh)
	})
}
