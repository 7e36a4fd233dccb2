package game

import (
	"sync"
	"time"
)

// Countdown ticks once per second from a starting duration down to zero.
// OnTick fires once per whole-second decrement with the new remaining value;
// onExpire fires exactly once when the count reaches zero. Pause and Reset
// invalidate the running count so a superseded tick or expiry is never
// delivered.
type Countdown struct {
	mu        sync.Mutex
	interval  time.Duration
	remaining int
	gen       int
	running   bool
	onTick    func(secondsLeft int)
	onExpire  func()
}

// NewCountdown builds a countdown with the standard one-second tick.
func NewCountdown() *Countdown {
	return NewCountdownWithInterval(time.Second)
}

// NewCountdownWithInterval allows a shorter tick for tests.
func NewCountdownWithInterval(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start begins counting down from durationSeconds. Any previous count is
// cancelled first. A non-positive duration expires immediately without ticking.
func (c *Countdown) Start(durationSeconds int, onTick func(int), onExpire func()) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.onTick = onTick
	c.onExpire = onExpire
	c.remaining = durationSeconds
	if durationSeconds <= 0 {
		c.remaining = 0
		c.running = false
		c.mu.Unlock()
		if onExpire != nil {
			go onExpire()
		}
		return
	}
	c.running = true
	c.mu.Unlock()
	go c.run(gen)
}

// Pause stops ticking. No tick or expiry is delivered while paused.
func (c *Countdown) Pause() {
	c.mu.Lock()
	c.gen++
	c.running = false
	c.mu.Unlock()
}

// Reset cancels any pending tick and restarts the count from newDuration,
// keeping the callbacks from the previous Start.
func (c *Countdown) Reset(newDuration int) {
	c.mu.Lock()
	onTick, onExpire := c.onTick, c.onExpire
	c.mu.Unlock()
	c.Start(newDuration, onTick, onExpire)
}

// Remaining reports the seconds left on the current count.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) run(gen int) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		if gen != c.gen || !c.running {
			c.mu.Unlock()
			return
		}
		c.remaining--
		remaining := c.remaining
		onTick, onExpire := c.onTick, c.onExpire
		if remaining <= 0 {
			c.running = false
		}
		c.mu.Unlock()

		if !c.alive(gen) {
			return
		}
		if onTick != nil {
			onTick(remaining)
		}
		if remaining <= 0 {
			if onExpire != nil {
				onExpire()
			}
			return
		}
	}
}

func (c *Countdown) alive(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}
