package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime for a zero start, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := ReferenceTime()
	clock := NewClock(start)

	updated := clock.Advance(45 * time.Minute)
	if !updated.Equal(start.Add(45 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	end := start.Add(2 * time.Hour)
	clock.Set(end)
	if got := clock.Current(); !got.Equal(end) {
		t.Fatalf("expected %v after Set, got %v", end, got)
	}
}

func TestClockNowFunc(t *testing.T) {
	clock := NewClock(ReferenceTime())
	nowFn := clock.NowFunc()

	if got := nowFn(); !got.Equal(clock.Current()) {
		t.Fatalf("expected %v from NowFunc, got %v", clock.Current(), got)
	}

	clock.Advance(time.Minute)
	if got := nowFn(); !got.Equal(clock.Current()) {
		t.Fatalf("NowFunc did not track the advanced clock: got %v", got)
	}
}
