package loader

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCompletesOnlyWhenEveryItemResolved(t *testing.T) {
	m := NewManager(nil)
	loads := 0
	m.OnLoad = func() { loads++ }

	m.Begin("env.hdr", "model.glb")
	m.End("model.glb")

	assert.Equal(t, 0, loads, "partial completion must not fire")
	assert.Equal(t, Progress{Loaded: 1, Total: 2}, m.Progress())
	assert.Equal(t, float32(0.5), m.Progress().Ratio())

	m.End("env.hdr")

	assert.Equal(t, 1, loads)
	assert.True(t, m.Progress().Done)
}

func TestManagerCompletionIsOrderIndependent(t *testing.T) {
	for _, order := range [][]string{{"a", "b"}, {"b", "a"}} {
		m := NewManager(nil)
		loads := 0
		m.OnLoad = func() { loads++ }
		m.Begin("a", "b")

		for _, url := range order {
			m.End(url)
		}

		assert.Equal(t, 1, loads, "order %v", order)
	}
}

func TestManagerFiresLoadOnce(t *testing.T) {
	m := NewManager(nil)
	loads := 0
	m.OnLoad = func() { loads++ }
	m.Begin("a")

	m.End("a")
	m.End("a")
	m.Begin("b")
	m.End("b")

	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, m.Progress().Total, "registering after completion is ignored")
}

func TestManagerFailureLatches(t *testing.T) {
	m := NewManager(nil)
	var errs []error
	loads := 0
	m.OnLoad = func() { loads++ }
	m.OnError = func(url string, err error) { errs = append(errs, err) }
	m.Begin("env.hdr", "model.glb")

	m.Fail("model.glb", errors.New("404"))
	m.Fail("env.hdr", errors.New("timeout"))
	m.End("env.hdr")

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrAssetFailed)
	assert.Contains(t, errs[0].Error(), "model.glb")
	assert.Equal(t, 0, loads)
	assert.True(t, m.Progress().Failed)
	assert.False(t, m.Progress().Done)
	assert.ErrorIs(t, m.Err(), ErrAssetFailed)
}

func TestManagerProgressAndStartCallbacks(t *testing.T) {
	m := NewManager(nil)
	var starts, progress []string
	m.OnStart = func(url string, loaded, total int) { starts = append(starts, url) }
	m.OnProgress = func(url string, loaded, total int) {
		progress = append(progress, fmt.Sprintf("%s %d/%d", url, loaded, total))
	}

	m.Begin("a", "b")
	m.Begin("a")
	m.End("b")
	m.End("a")
	m.End("unknown")

	assert.Equal(t, []string{"a"}, starts)
	assert.Equal(t, []string{"b 1/2", "a 2/2"}, progress)
}

func TestManagerPostsCallbacks(t *testing.T) {
	var queue []func()
	m := NewManager(func(fn func()) { queue = append(queue, fn) })
	loaded := false
	m.OnLoad = func() { loaded = true }
	m.Begin("a")

	m.End("a")

	assert.False(t, loaded, "callbacks wait for the owner to run them")
	for _, fn := range queue {
		fn()
	}
	assert.True(t, loaded)
}

func TestManagerConcurrentEnds(t *testing.T) {
	m := NewManager(nil)
	var mu sync.Mutex
	loads := 0
	m.OnLoad = func() {
		mu.Lock()
		loads++
		mu.Unlock()
	}

	urls := make([]string, 64)
	for i := range urls {
		urls[i] = fmt.Sprintf("asset-%d", i)
	}
	m.Begin(urls...)

	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			m.End(u)
		}(url)
	}
	wg.Wait()

	assert.Equal(t, 1, loads)
	assert.Equal(t, Progress{Loaded: 64, Total: 64, Done: true}, m.Progress())
}
