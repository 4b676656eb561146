package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[int]()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(time.Hour)
	_, ok = c.Get("a")
	assert.False(t, ok)
	v, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMemoize(t *testing.T) {
	m := NewMemoize[string](time.Minute)
	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "report", nil
	}

	v, cached, err := m.Do(context.Background(), "k", false, load)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "report", v)

	_, cached, err = m.Do(context.Background(), "k", false, load)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, calls)

	_, cached, err = m.Do(context.Background(), "k", true, load)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, calls)
}

func TestMemoize_ErrorsNotCached(t *testing.T) {
	m := NewMemoize[int](time.Minute)
	boom := errors.New("boom")
	_, _, err := m.Do(context.Background(), "k", false, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, cached, err := m.Do(context.Background(), "k", false, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 7, v)
}

func TestMemoize_ZeroTTLAlwaysLoads(t *testing.T) {
	m := NewMemoize[int](0)
	calls := 0
	load := func(context.Context) (int, error) { calls++; return calls, nil }
	_, _, _ = m.Do(context.Background(), "k", false, load)
	_, _, _ = m.Do(context.Background(), "k", false, load)
	assert.Equal(t, 2, calls)
}

func TestMemoize_KeysLoadIndependently(t *testing.T) {
	m := NewMemoize[string](time.Minute)
	slowStarted := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, _, err := m.Do(context.Background(), "10y", false, func(context.Context) (string, error) {
			close(slowStarted)
			<-release
			return "slow", nil
		})
		done <- err
	}()
	<-slowStarted

	fast := make(chan string, 1)
	go func() {
		v, _, _ := m.Do(context.Background(), "6mo", false, func(context.Context) (string, error) { return "fast", nil })
		fast <- v
	}()

	select {
	case v := <-fast:
		assert.Equal(t, "fast", v)
	case <-time.After(2 * time.Second):
		t.Fatal("load for another key waited on the in-flight one")
	}
	close(release)
	require.NoError(t, <-done)
}

func TestMemoize_SameKeySharesLoad(t *testing.T) {
	m := NewMemoize[int](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	load := func(context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, _ = m.Do(context.Background(), "k", false, load)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, _, err := m.Do(context.Background(), "k", false, load)
		assert.NoError(t, err)
		assert.Equal(t, 42, v)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
