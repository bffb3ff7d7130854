package inbox

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// ExportedSettler is an exported alias so _test packages can test the settler.
type ExportedSettler = settler

// NewExportedSettler builds a settler for _test packages.
func NewExportedSettler(quiet time.Duration, settle func(path string)) *ExportedSettler {
	return newSettler(quiet, settle)
}

// ─────────────────────────────────────────────────────────────
// settler: one delivery per path once writes stop
// ─────────────────────────────────────────────────────────────

// settler hands a path over once it has seen no events for quiet. Every
// Touch restarts the path's timer, so a file written in several chunks is
// delivered once, after the last chunk, and no event is ever dropped.
type settler struct {
	quiet  time.Duration
	settle func(path string)

	mu      sync.Mutex
	pending map[string]*pendingPath
	closed  bool
	wg      sync.WaitGroup // pending paths plus deliveries in flight
}

type pendingPath struct {
	debounced func(f func())
	gen       uint64
}

func newSettler(quiet time.Duration, settle func(path string)) *settler {
	return &settler{quiet: quiet, settle: settle, pending: make(map[string]*pendingPath)}
}

// Touch records activity on path and restarts its quiet period.
func (s *settler) Touch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	p, ok := s.pending[path]
	if !ok {
		p = &pendingPath{debounced: debounce.New(s.quiet)}
		s.pending[path] = p
		s.wg.Add(1)
	}
	p.gen++
	gen := p.gen
	p.debounced(func() { s.fire(path, gen) })
}

// Pending reports how many paths are waiting for their quiet period.
func (s *settler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *settler) fire(path string, gen uint64) {
	s.mu.Lock()
	p, ok := s.pending[path]
	// A stopped timer can still fire; only the latest one delivers.
	if !ok || p.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.pending, path)
	s.mu.Unlock()

	defer s.wg.Done()
	s.settle(path)
}

// Close drops paths still waiting and blocks until deliveries in flight
// finish or ctx is done.
func (s *settler) Close(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	// Their timers still fire, find nothing pending and return.
	for path := range s.pending {
		delete(s.pending, path)
		s.wg.Done()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
