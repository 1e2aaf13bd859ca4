package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowsUpToLimitWithinWindow(t *testing.T) {
	l := New(time.Minute)
	for i := 0; i < 5; i++ {
		d := l.Allow("p1", 5)
		assert.True(t, d.Allowed, "request %d should be allowed", i)
	}
	d := l.Allow("p1", 5)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestRemainingDecrementsPerRequest(t *testing.T) {
	l := New(time.Minute)
	d := l.Allow("p2", 10)
	assert.Equal(t, 9, d.Remaining)
	d = l.Allow("p2", 10)
	assert.Equal(t, 8, d.Remaining)
}

func TestDistinctKeysHaveIndependentWindows(t *testing.T) {
	l := New(time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("a", 3).Allowed)
	}
	assert.False(t, l.Allow("a", 3).Allowed)
	assert.True(t, l.Allow("b", 3).Allowed)
}

func TestWindowResetsAfterElapsed(t *testing.T) {
	l := New(10 * time.Millisecond)
	require.True(t, l.Allow("p3", 1).Allowed)
	assert.False(t, l.Allow("p3", 1).Allowed)

	time.Sleep(20 * time.Millisecond)
	assert.True(t, l.Allow("p3", 1).Allowed, "window should have reset")
}

func TestResetUnixIsInTheFuture(t *testing.T) {
	l := New(time.Minute)
	d := l.Allow("p4", 5)
	assert.Greater(t, d.ResetUnix, time.Now().Unix()-1)
}

func TestConcurrentAllowAdmitsExactlyLimit(t *testing.T) {
	l := New(time.Minute)
	const limit = 20
	const callers = 100

	var wg sync.WaitGroup
	allowed := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			allowed[idx] = l.Allow("hot-key", limit).Allowed
		}(i)
	}
	wg.Wait()

	count := 0
	for _, a := range allowed {
		if a {
			count++
		}
	}
	assert.Equal(t, limit, count, "exactly the window budget should be allowed")
}
