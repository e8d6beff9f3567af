package app

import (
	"sync"
	"time"
)

const (
	// DefaultQuestionSeconds is the per-question countdown duration.
	DefaultQuestionSeconds = 30
	// warningThreshold marks the remaining time at which ticks carry the
	// audio-warning flag.
	warningThreshold = 5
)

// Countdown is a per-question timer. It decrements once per interval, skips
// ticks while paused, and fires the timeout callback exactly once per run.
// It knows nothing about quiz semantics; the engine decides what ticks and
// expiries mean.
type Countdown struct {
	duration int
	interval time.Duration
	enabled  bool

	onTick    func(remaining int, warning bool)
	onTimeout func()

	mu        sync.Mutex
	remaining int
	paused    bool
	running   bool
	stopc     chan struct{}
}

// NewCountdown builds a timer for one session. When enabled is false the
// timer never schedules anything and Start reports that no countdown is
// visible.
func NewCountdown(duration int, interval time.Duration, enabled bool) *Countdown {
	if duration <= 0 {
		duration = DefaultQuestionSeconds
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{duration: duration, interval: interval, enabled: enabled}
}

// SetTickCallback registers the per-tick observer. Must be set before Start.
func (c *Countdown) SetTickCallback(fn func(remaining int, warning bool)) {
	c.onTick = fn
}

// SetTimeoutCallback registers the expiry callback. One registration serves
// every question; the callback fires at most once per Start.
func (c *Countdown) SetTimeoutCallback(fn func()) {
	c.onTimeout = fn
}

// Start resets the remaining time and begins ticking. It returns false when
// timing is disabled for the session, in which case nothing is scheduled.
// Any previous run is cancelled.
func (c *Countdown) Start() bool {
	if !c.enabled {
		return false
	}
	c.mu.Lock()
	if c.running {
		close(c.stopc)
	}
	c.remaining = c.duration
	c.paused = false
	c.running = true
	stopc := make(chan struct{})
	c.stopc = stopc
	c.mu.Unlock()

	go c.run(stopc)
	return true
}

// Stop cancels any pending run. Safe to call repeatedly and whether or not a
// run is active.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		close(c.stopc)
		c.running = false
	}
}

// Pause makes subsequent ticks no-ops without advancing time.
func (c *Countdown) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume lets ticks apply again from the next interval.
func (c *Countdown) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

// Remaining reports the current countdown value.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Enabled reports whether this session runs with a visible countdown.
func (c *Countdown) Enabled() bool {
	return c.enabled
}

func (c *Countdown) run(stopc chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopc:
			return
		case <-ticker.C:
			remaining, expired, applied := c.applyTick(stopc)
			if !applied {
				if expired {
					return
				}
				continue
			}
			// Callbacks run outside the lock so the engine can call back
			// into Stop without deadlocking.
			if c.onTick != nil {
				c.onTick(remaining, remaining <= warningThreshold)
			}
			if expired {
				if c.onTimeout != nil {
					c.onTimeout()
				}
				return
			}
		}
	}
}

// applyTick advances the countdown by one unit. It reports applied=false for
// skipped ticks (paused, or the run was superseded) and expired=true exactly
// once, after which the run is marked finished.
func (c *Countdown) applyTick(stopc chan struct{}) (remaining int, expired, applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.stopc != stopc {
		return 0, true, false
	}
	if c.paused {
		return c.remaining, false, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		return 0, true, true
	}
	return c.remaining, false, true
}
