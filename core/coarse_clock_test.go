package core

import (
	"testing"
	"time"
)

func TestCoarseNow_TracksWallClock(t *testing.T) {
	StartCoarseClock()

	deadline := time.Now().Add(time.Second)
	first := CoarseNow()
	for !CoarseNow().After(first) {
		if time.Now().After(deadline) {
			t.Fatal("coarse clock did not advance within a second")
		}
		time.Sleep(coarseResolution)
	}

	if d := time.Since(CoarseNow()); d < -coarseResolution || d > 50*time.Millisecond {
		t.Errorf("coarse clock is %v behind time.Now", d)
	}
}

func TestStartCoarseClock_Repeated(t *testing.T) {
	for i := 0; i < 3; i++ {
		StartCoarseClock()
	}
	if CoarseNow().IsZero() {
		t.Error("CoarseNow returned the zero time")
	}
}
