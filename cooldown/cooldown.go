// Package cooldown provides a restartable countdown used to rate limit
// chat commands.
package cooldown

import (
	"sync"
	"time"
)

// Cooldown answers whether an action may run again yet. It is created in
// the done state; starting it schedules a transition back to done after
// the configured duration.
type Cooldown struct {
	mu      sync.Mutex
	d       time.Duration
	timer   *time.Timer
	running bool
	// gen invalidates a fired-but-not-yet-delivered timer callback after a
	// reset or restart
	gen uint64
}

// New creates a cooldown with the given default duration, in the done state.
func New(d time.Duration) *Cooldown {
	return &Cooldown{d: d}
}

// Start begins the countdown with the default duration. It is a no-op
// while a countdown is already running: it neither shortens nor extends
// the remaining time.
func (c *Cooldown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(c.d)
}

// StartFor behaves like Start with an explicit duration, which also
// becomes the new default.
func (c *Cooldown) StartFor(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(d)
}

// Reset cancels any pending countdown and immediately marks the cooldown
// done. It is idempotent and safe to call after the timer has already
// fired.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Restart forces a fresh full-duration countdown even while one is running.
func (c *Cooldown) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.startLocked(c.d)
}

// RestartFor behaves like Restart with an explicit duration.
func (c *Cooldown) RestartFor(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.startLocked(d)
}

// Done reports whether no countdown is currently running.
func (c *Cooldown) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.running
}

func (c *Cooldown) startLocked(d time.Duration) {
	if c.running {
		return
	}

	c.d = d
	c.running = true
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(d, func() {
		c.finish(gen)
	})
}

func (c *Cooldown) resetLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.running = false
	c.gen++
}

func (c *Cooldown) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// stale fire: the countdown was reset or restarted after this
		// timer triggered
		return
	}
	c.running = false
	c.timer = nil
}
