package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicFollowsClock(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	g := NewMonotonicWithClock(func() time.Time { return base })

	id, at := g.Next()
	assert.Equal(t, base.UnixMilli(), id)
	assert.Equal(t, base, at)
}

func TestMonotonicSameTick(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	g := NewMonotonicWithClock(func() time.Time { return base })

	first, _ := g.Next()
	second, _ := g.Next()
	third, _ := g.Next()
	assert.Equal(t, first+1, second)
	assert.Equal(t, second+1, third)
}

func TestMonotonicClockGoesBackwards(t *testing.T) {
	clock := time.UnixMilli(1_700_000_000_000)
	g := NewMonotonicWithClock(func() time.Time { return clock })

	first, _ := g.Next()
	clock = clock.Add(-time.Minute)
	second, _ := g.Next()
	assert.Greater(t, second, first)
}

func TestMonotonicConcurrent(t *testing.T) {
	g := NewMonotonic()

	const workers, perWorker = 8, 200
	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id, _ := g.Next()
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers*perWorker)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
}
