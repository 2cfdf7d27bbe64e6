package carousel

import (
	"testing"
	"time"
)

// Long enough that autoplay never fires during a test.
const never = time.Hour

func TestNextPrevWrap(t *testing.T) {
	c := New(3, never)
	defer c.Stop()

	c.Next()
	c.Next()
	if got := c.Index(); got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	c.Next()
	if got := c.Index(); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
	if got := c.Direction(); got != DirForward {
		t.Fatalf("expected forward direction, got %d", got)
	}

	c.Prev()
	if got := c.Index(); got != 2 {
		t.Fatalf("expected wrap back to 2, got %d", got)
	}
	if got := c.Direction(); got != DirBackward {
		t.Fatalf("expected backward direction, got %d", got)
	}
}

func TestIndexStaysInRange(t *testing.T) {
	c := New(4, never)
	defer c.Stop()

	moves := []func(){c.Next, c.Prev, c.Prev, c.Next, c.Next, c.Next, c.Prev}
	for _, move := range moves {
		move()
		if got := c.Index(); got < 0 || got >= 4 {
			t.Fatalf("index %d escaped [0,4)", got)
		}
	}
}

func TestGoToDirectionNotModuloAware(t *testing.T) {
	c := New(5, never)
	defer c.Stop()

	// Jump forward from 0 to 4.
	c.GoTo(4)
	if got := c.Index(); got != 4 {
		t.Fatalf("expected index 4, got %d", got)
	}
	if got := c.Direction(); got != DirForward {
		t.Fatalf("expected forward, got %d", got)
	}

	// Last to first compares indexes, so it animates backward even though
	// Next would have wrapped forward.
	c.GoTo(0)
	if got := c.Direction(); got != DirBackward {
		t.Fatalf("expected backward on 4->0 jump, got %d", got)
	}
}

func TestGoToIgnoresInvalidTargets(t *testing.T) {
	c := New(3, never)
	defer c.Stop()
	c.Next() // index 1, forward

	c.GoTo(-1)
	c.GoTo(3)
	c.GoTo(1) // same index
	if got := c.Index(); got != 1 {
		t.Fatalf("expected index unchanged at 1, got %d", got)
	}
	if got := c.Direction(); got != DirForward {
		t.Fatalf("expected direction unchanged, got %d", got)
	}
}

func TestSingleItemNeverArms(t *testing.T) {
	for _, count := range []int{0, 1} {
		c := New(count, time.Millisecond)
		if c.Armed() {
			t.Fatalf("count=%d: timer armed", count)
		}
		c.Next()
		c.Prev()
		if got := c.Index(); got != 0 {
			t.Fatalf("count=%d: expected index pinned at 0, got %d", count, got)
		}
		if c.Armed() {
			t.Fatalf("count=%d: navigation armed a timer", count)
		}
		c.Stop()
	}
}

func TestSetCountClampsAndRearms(t *testing.T) {
	c := New(5, never)
	defer c.Stop()
	c.GoTo(4)

	c.SetCount(3)
	if got := c.Index(); got != 0 {
		t.Fatalf("expected out-of-range index reset to 0, got %d", got)
	}
	if got := c.Direction(); got != DirNone {
		t.Fatalf("expected direction reset, got %d", got)
	}
	if !c.Armed() {
		t.Fatal("expected timer armed with 3 items")
	}

	c.SetCount(1)
	if c.Armed() {
		t.Fatal("expected timer suspended with 1 item")
	}
}

func TestStopDisarms(t *testing.T) {
	c := New(3, never)
	c.Stop()
	if c.Armed() {
		t.Fatal("expected no timer after Stop")
	}
	c.Next()
	if got := c.Index(); got != 1 {
		t.Fatalf("manual navigation should still work after Stop, got %d", got)
	}
	if c.Armed() {
		t.Fatal("navigation after Stop must not re-arm")
	}
}

func TestAutoplayAdvances(t *testing.T) {
	c := New(3, 10*time.Millisecond)
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for c.Index() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("autoplay never advanced")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		items, perPage, want int
	}{
		{0, 3, 0},
		{1, 3, 1},
		{3, 3, 1},
		{4, 3, 2},
		{7, 3, 3},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := PageCount(tc.items, tc.perPage); got != tc.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tc.items, tc.perPage, got, tc.want)
		}
	}
}
