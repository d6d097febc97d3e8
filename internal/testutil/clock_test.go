package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSteppingClock_Advances(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewSteppingClock(start, time.Second)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Second), clock.Now())
	assert.Equal(t, start.Add(2*time.Second), clock.Now())
}

func TestSteppingClock_Reset(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewSteppingClock(start, time.Minute)

	clock.Now()
	clock.Now()
	clock.Reset()

	assert.Equal(t, start, clock.Now())
}

func TestSteppingClock_ConcurrentUse(t *testing.T) {
	clock := NewSteppingClock(time.Unix(0, 0).UTC(), time.Nanosecond)

	var wg sync.WaitGroup
	seen := make(chan time.Time, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, 100, "every Now call should yield a distinct timestamp")
}
