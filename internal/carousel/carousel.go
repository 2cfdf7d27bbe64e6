// Package carousel implements the autoplay/navigation state machine behind
// the hero slider and the testimonials carousel.
package carousel

import (
	"sync"
	"time"
)

// Direction of the last transition, used by the templates to pick the
// slide-in animation class.
const (
	DirBackward = -1
	DirNone     = 0
	DirForward  = 1
)

// Carousel tracks the current position over a fixed number of items and
// advances itself after a fixed delay. A single-shot timer is re-armed after
// every index change. Manual navigation cancels the pending timer first, so
// timers never compound. With one item or none, no timer is ever armed.
type Carousel struct {
	mu        sync.Mutex
	count     int
	index     int
	direction int
	interval  time.Duration
	timer     *time.Timer
	stopped   bool
}

func New(count int, interval time.Duration) *Carousel {
	c := &Carousel{
		count:    count,
		interval: interval,
	}
	c.mu.Lock()
	c.rearm()
	c.mu.Unlock()
	return c
}

// SetCount replaces the item count, clamping the index back into range.
func (c *Carousel) SetCount(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = count
	if count <= 0 {
		c.index = 0
	} else if c.index >= count {
		c.index = 0
	}
	c.direction = DirNone
	c.rearm()
}

// Next advances one position, wrapping past the end.
func (c *Carousel) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
}

// Prev steps one position back, wrapping before the start.
func (c *Carousel) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count <= 1 {
		return
	}
	c.index = (c.index - 1 + c.count) % c.count
	c.direction = DirBackward
	c.rearm()
}

// GoTo jumps straight to an index. The direction comes from comparing the
// target with the current index and is deliberately not modulo-aware:
// jumping from the last slide to the first animates backward.
func (c *Carousel) GoTo(target int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target < 0 || target >= c.count || target == c.index {
		return
	}
	if target > c.index {
		c.direction = DirForward
	} else {
		c.direction = DirBackward
	}
	c.index = target
	c.rearm()
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Direction() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *Carousel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Stop cancels the pending timer. The carousel has no terminal state
// otherwise; it runs until stopped.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Armed reports whether an autoplay timer is pending.
func (c *Carousel) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

func (c *Carousel) autoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.advanceLocked()
}

// advanceLocked moves forward one slide and re-arms. Callers hold c.mu.
func (c *Carousel) advanceLocked() {
	if c.count <= 1 {
		return
	}
	c.index = (c.index + 1) % c.count
	c.direction = DirForward
	c.rearm()
}

// rearm cancels any pending timer and schedules the next autoplay advance.
// Autoplay is suspended entirely when there is at most one item. Callers
// hold c.mu.
func (c *Carousel) rearm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.stopped || c.count <= 1 {
		return
	}
	c.timer = time.AfterFunc(c.interval, c.autoplay)
}

// PageCount groups items into fixed-size pages; the testimonials carousel
// advances by page of 3, not by item.
func PageCount(items, perPage int) int {
	if items <= 0 || perPage <= 0 {
		return 0
	}
	return (items + perPage - 1) / perPage
}
