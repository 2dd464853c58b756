package watch

import "sync"

// Coalescer runs at most one build at a time. A request made while a build
// is running schedules exactly one more pass after it, however many
// requests arrive in the meantime. Requests never cancel a running build.
type Coalescer struct {
	mu      sync.Mutex
	running bool
	pending bool
	run     func()
}

// NewCoalescer returns a coalescer for run.
func NewCoalescer(run func()) *Coalescer {
	return &Coalescer{run: run}
}

// Request runs builds on the calling goroutine until no pass is pending and
// reports true, or, when a build is already running, records the request
// and reports false immediately.
func (c *Coalescer) Request() bool {
	c.mu.Lock()
	if c.running {
		c.pending = true
		c.mu.Unlock()
		return false
	}
	c.running = true
	c.mu.Unlock()

	for {
		c.runOnce()
		c.mu.Lock()
		if !c.pending {
			c.running = false
			c.mu.Unlock()
			return true
		}
		c.pending = false
		c.mu.Unlock()
	}
}

func (c *Coalescer) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			c.mu.Lock()
			c.running, c.pending = false, false
			c.mu.Unlock()
			panic(r)
		}
	}()
	c.run()
}

// Running reports whether a build is in flight.
func (c *Coalescer) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
