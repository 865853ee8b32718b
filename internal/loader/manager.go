package loader

import (
	"errors"
	"fmt"
	"sync"

	"RoboticArm/internal/logger"

	"go.uber.org/zap"
)

var ErrAssetFailed = errors.New("asset failed to load")

// Progress is a snapshot of a Manager's counters.
type Progress struct {
	Loaded int
	Total  int
	Done   bool
	Failed bool
}

// Ratio is Loaded/Total, 0 when nothing is registered.
func (p Progress) Ratio() float32 {
	if p.Total == 0 {
		return 0
	}
	return float32(p.Loaded) / float32(p.Total)
}

// Manager tracks a group of asynchronous loads and reports aggregate completion.
// Items are registered with Begin before any of them can finish, so completion means
// every registered item resolved, in whatever order. The first failure latches the
// manager: OnLoad can no longer fire.
//
// Callbacks run through post, which lets the caller marshal them onto its own
// goroutine. A nil post calls them directly.
type Manager struct {
	OnStart    func(url string, loaded, total int)
	OnProgress func(url string, loaded, total int)
	OnLoad     func()
	OnError    func(url string, err error)

	mu      sync.Mutex
	post    func(func())
	pending map[string]bool
	loaded  int
	total   int
	done    bool
	failed  error
	started bool
}

func NewManager(post func(func())) *Manager {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Manager{post: post, pending: make(map[string]bool)}
}

// Post runs fn the way callbacks are delivered.
func (m *Manager) Post(fn func()) {
	m.post(fn)
}

// Begin registers items. Registering after completion or failure is ignored.
func (m *Manager) Begin(urls ...string) {
	m.mu.Lock()
	if m.done || m.failed != nil {
		m.mu.Unlock()
		return
	}
	var added []string
	for _, url := range urls {
		if m.pending[url] {
			continue
		}
		m.pending[url] = true
		m.total++
		added = append(added, url)
	}
	first := !m.started && len(added) > 0
	m.started = m.started || first
	loaded, total := m.loaded, m.total
	m.mu.Unlock()

	if first && m.OnStart != nil {
		url := added[0]
		m.post(func() { m.OnStart(url, loaded, total) })
	}
}

// End marks url resolved.
func (m *Manager) End(url string) {
	m.mu.Lock()
	if m.failed != nil || !m.pending[url] {
		m.mu.Unlock()
		return
	}
	delete(m.pending, url)
	m.loaded++
	loaded, total := m.loaded, m.total
	complete := loaded == total && !m.done
	if complete {
		m.done = true
	}
	m.mu.Unlock()

	logger.Log.Debug("Asset loaded",
		zap.String("url", url),
		zap.Int("loaded", loaded),
		zap.Int("total", total))

	if m.OnProgress != nil {
		m.post(func() { m.OnProgress(url, loaded, total) })
	}
	if complete && m.OnLoad != nil {
		m.post(m.OnLoad)
	}
}

// Fail marks url failed. Only the first failure is reported.
func (m *Manager) Fail(url string, err error) {
	m.mu.Lock()
	if m.failed != nil || m.done {
		m.mu.Unlock()
		return
	}
	delete(m.pending, url)
	m.failed = fmt.Errorf("%w: %s: %w", ErrAssetFailed, url, err)
	failure := m.failed
	m.mu.Unlock()

	logger.Log.Error("Asset failed", zap.String("url", url), zap.Error(err))

	if m.OnError != nil {
		m.post(func() { m.OnError(url, failure) })
	}
}

func (m *Manager) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Progress{Loaded: m.loaded, Total: m.total, Done: m.done, Failed: m.failed != nil}
}

// Err returns the latched failure, if any.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed
}
