// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package hover_test

import (
	"testing"
	"time"

	"carvel.dev/chartnote/pkg/hover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController() (*hover.Controller, *hover.ManualClock, *[]hover.State) {
	clock := hover.NewManualClock()
	var changes []hover.State
	ctrl := hover.NewController(hover.Opts{
		Clock:    clock,
		OnChange: func(s hover.State) { changes = append(changes, s) },
	})
	return ctrl, clock, &changes
}

func TestOpensAfterDelay(t *testing.T) {
	ctrl, clock, changes := newController()

	ctrl.SetOverToken(true)
	assert.Equal(t, hover.OpeningPending, ctrl.State())
	assert.False(t, ctrl.IsVisible())

	clock.Advance(99 * time.Millisecond)
	assert.Equal(t, hover.OpeningPending, ctrl.State())

	clock.Advance(time.Millisecond)
	assert.Equal(t, hover.Open, ctrl.State())
	assert.True(t, ctrl.IsVisible())

	assert.Equal(t, []hover.State{hover.OpeningPending, hover.Open}, *changes)
}

func TestNoFlickerOpen(t *testing.T) {
	ctrl, clock, _ := newController()

	ctrl.SetOverToken(true)
	clock.Advance(60 * time.Millisecond)
	ctrl.SetOverToken(false)
	assert.Equal(t, hover.Closed, ctrl.State())
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, hover.Closed, ctrl.State())
}

func TestStaleOpenTimerIsIgnored(t *testing.T) {
	ctrl, clock, _ := newController()

	// enter, leave, enter again: only the second timer may open
	ctrl.SetOverToken(true)
	clock.Advance(80 * time.Millisecond)
	ctrl.SetOverToken(false)
	ctrl.SetOverToken(true)

	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, hover.OpeningPending, ctrl.State())

	clock.Advance(79 * time.Millisecond)
	assert.Equal(t, hover.OpeningPending, ctrl.State())

	clock.Advance(time.Millisecond)
	assert.Equal(t, hover.Open, ctrl.State())
}

func TestMoveFromTokenToPanelKeepsOpen(t *testing.T) {
	ctrl, clock, _ := newController()

	ctrl.SetOverToken(true)
	clock.Advance(100 * time.Millisecond)
	require.Equal(t, hover.Open, ctrl.State())

	ctrl.SetOverToken(false)
	assert.Equal(t, hover.ClosingPending, ctrl.State())
	assert.True(t, ctrl.IsVisible())

	clock.Advance(30 * time.Millisecond)
	ctrl.SetOverPanel(true)
	assert.Equal(t, hover.Open, ctrl.State())

	clock.Advance(time.Second)
	assert.Equal(t, hover.Open, ctrl.State())
}

func TestNoFlickerClose(t *testing.T) {
	ctrl, clock, _ := newController()

	ctrl.SetOverToken(true)
	clock.Advance(100 * time.Millisecond)
	require.Equal(t, hover.Open, ctrl.State())

	// either input staying true keeps the panel open
	ctrl.SetOverPanel(true)
	ctrl.SetOverToken(false)
	clock.Advance(time.Second)
	assert.Equal(t, hover.Open, ctrl.State())

	ctrl.SetOverToken(true)
	ctrl.SetOverPanel(false)
	clock.Advance(time.Second)
	assert.Equal(t, hover.Open, ctrl.State())
}

func TestClosesAfterDelay(t *testing.T) {
	ctrl, clock, changes := newController()

	ctrl.SetOverToken(true)
	clock.Advance(100 * time.Millisecond)
	ctrl.SetOverToken(false)

	clock.Advance(49 * time.Millisecond)
	assert.Equal(t, hover.ClosingPending, ctrl.State())

	clock.Advance(time.Millisecond)
	assert.Equal(t, hover.Closed, ctrl.State())

	assert.Equal(t, []hover.State{
		hover.OpeningPending, hover.Open, hover.ClosingPending, hover.Closed,
	}, *changes)
}

func TestClickOutside(t *testing.T) {
	t.Run("while open", func(t *testing.T) {
		ctrl, clock, _ := newController()

		ctrl.SetOverToken(true)
		clock.Advance(100 * time.Millisecond)
		require.Equal(t, hover.Open, ctrl.State())

		ctrl.ClickOutside()
		assert.Equal(t, hover.Closed, ctrl.State())
	})

	t.Run("cancels pending open", func(t *testing.T) {
		ctrl, clock, _ := newController()

		ctrl.SetOverToken(true)
		ctrl.ClickOutside()
		assert.Equal(t, hover.Closed, ctrl.State())

		clock.Advance(time.Second)
		assert.Equal(t, hover.Closed, ctrl.State())
	})

	t.Run("resets inputs", func(t *testing.T) {
		ctrl, clock, _ := newController()

		ctrl.SetOverToken(true)
		clock.Advance(100 * time.Millisecond)
		ctrl.ClickOutside()

		// pointer input must be re-reported before anything opens
		ctrl.SetOverPanel(false)
		clock.Advance(time.Second)
		assert.Equal(t, hover.Closed, ctrl.State())
	})

	t.Run("when closed does not notify", func(t *testing.T) {
		ctrl, _, changes := newController()
		ctrl.ClickOutside()
		assert.Empty(t, *changes)
	})
}

func TestCustomDelays(t *testing.T) {
	clock := hover.NewManualClock()
	ctrl := hover.NewController(hover.Opts{
		Clock:      clock,
		OpenDelay:  10 * time.Millisecond,
		CloseDelay: 5 * time.Millisecond,
	})

	ctrl.SetOverPanel(true)
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, hover.Open, ctrl.State())

	ctrl.SetOverPanel(false)
	clock.Advance(5 * time.Millisecond)
	assert.Equal(t, hover.Closed, ctrl.State())
}

func TestRealClock(t *testing.T) {
	done := make(chan hover.State, 4)
	ctrl := hover.NewController(hover.Opts{
		OpenDelay: time.Millisecond,
		OnChange:  func(s hover.State) { done <- s },
	})

	ctrl.SetOverToken(true)
	assert.Equal(t, hover.OpeningPending, <-done)

	select {
	case s := <-done:
		assert.Equal(t, hover.Open, s)
	case <-time.After(5 * time.Second):
		t.Fatalf("Expected controller to open")
	}
	ctrl.Stop()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "opening-pending", hover.OpeningPending.String())
	assert.Equal(t, "state(9)", hover.State(9).String())
}
