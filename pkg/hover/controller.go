// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package hover

import (
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Closed State = iota
	OpeningPending
	Open
	ClosingPending
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpeningPending:
		return "opening-pending"
	case Open:
		return "open"
	case ClosingPending:
		return "closing-pending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	DefaultOpenDelay  = 100 * time.Millisecond
	DefaultCloseDelay = 50 * time.Millisecond
)

type Opts struct {
	OpenDelay  time.Duration
	CloseDelay time.Duration
	Clock      Clock

	// OnChange is called with each new state after the transition happened.
	OnChange func(State)
}

// Controller decides when a disclosure panel for a token is shown.
// Inputs are whether the pointer is over the token and whether it is
// over the panel; the panel opens after OpenDelay and closes after
// CloseDelay once both are false.
type Controller struct {
	opts Opts

	mu         sync.Mutex
	state      State
	overToken  bool
	overPanel  bool
	generation uint64
	timer      Timer
}

func NewController(opts Opts) *Controller {
	if opts.OpenDelay <= 0 {
		opts.OpenDelay = DefaultOpenDelay
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = DefaultCloseDelay
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	return &Controller{opts: opts}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsVisible reports whether the panel is currently shown,
// including while a close is pending.
func (c *Controller) IsVisible() bool {
	state := c.State()
	return state == Open || state == ClosingPending
}

func (c *Controller) SetOverToken(over bool) {
	c.mu.Lock()
	c.overToken = over
	changed, state := c.reconcile()
	c.mu.Unlock()

	c.notify(changed, state)
}

func (c *Controller) SetOverPanel(over bool) {
	c.mu.Lock()
	c.overPanel = over
	changed, state := c.reconcile()
	c.mu.Unlock()

	c.notify(changed, state)
}

// ClickOutside closes the panel immediately and forgets pointer inputs.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	c.overToken = false
	c.overPanel = false
	changed := c.state != Closed
	c.transition(Closed)
	c.mu.Unlock()

	c.notify(changed, Closed)
}

// Stop cancels any pending timer without changing state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimer()
	c.generation++
}

func (c *Controller) reconcile() (bool, State) {
	active := c.overToken || c.overPanel

	switch {
	case c.state == Closed && active:
		c.transition(OpeningPending)
		c.schedule(c.opts.OpenDelay, OpeningPending, Open)
	case c.state == OpeningPending && !active:
		c.transition(Closed)
	case c.state == Open && !active:
		c.transition(ClosingPending)
		c.schedule(c.opts.CloseDelay, ClosingPending, Closed)
	case c.state == ClosingPending && active:
		c.transition(Open)
	default:
		return false, c.state
	}
	return true, c.state
}

// transition must be called with mu held.
func (c *Controller) transition(to State) {
	c.cancelTimer()
	c.generation++
	c.state = to
}

func (c *Controller) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) schedule(delay time.Duration, from, to State) {
	generation := c.generation

	c.timer = c.opts.Clock.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.generation != generation || c.state != from {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.transition(to)
		c.mu.Unlock()

		c.notify(true, to)
	})
}

func (c *Controller) notify(changed bool, state State) {
	if changed && c.opts.OnChange != nil {
		c.opts.OnChange(state)
	}
}
