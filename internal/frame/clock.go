package frame

import (
	"slices"
	"sync"
	"time"
)

// Handle identifies a pending frame request.
type Handle uint64

// Clock delivers frame callbacks, one per request.
type Clock interface {
	Request(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

// LoopClock queues requests until Fire is called. Render loops call Fire once
// per iteration; tests call it to step frames deterministically.
type LoopClock struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]func(time.Time)
}

func NewLoopClock() *LoopClock {
	return &LoopClock{pending: make(map[Handle]func(time.Time))}
}

func (c *LoopClock) Request(fn func(now time.Time)) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.pending[c.next] = fn
	return c.next
}

func (c *LoopClock) Cancel(h Handle) {
	c.mu.Lock()
	delete(c.pending, h)
	c.mu.Unlock()
}

// Pending reports how many requests wait for the next Fire.
func (c *LoopClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Fire runs the callbacks requested before the call, oldest first, and returns
// how many ran. Requests made by those callbacks wait for the next Fire, and a
// callback cancelled by an earlier one in the same batch does not run.
func (c *LoopClock) Fire(now time.Time) int {
	c.mu.Lock()
	batch := make([]Handle, 0, len(c.pending))
	for h := range c.pending {
		batch = append(batch, h)
	}
	c.mu.Unlock()
	slices.Sort(batch)

	ran := 0
	for _, h := range batch {
		c.mu.Lock()
		fn, ok := c.pending[h]
		delete(c.pending, h)
		c.mu.Unlock()
		if ok {
			fn(now)
			ran++
		}
	}
	return ran
}

// TickerClock fires its queued requests from its own goroutine at a fixed rate.
// Close must not be called from inside a frame callback.
type TickerClock struct {
	*LoopClock
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = 60
	}
	c := &TickerClock{
		LoopClock: NewLoopClock(),
		interval:  time.Second / time.Duration(fps),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *TickerClock) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.Fire(now)
		}
	}
}

// Close stops the ticker goroutine and waits for it to exit.
func (c *TickerClock) Close() {
	c.once.Do(func() { close(c.stop) })
	<-c.done
}
