// SPDX-License-Identifier: MIT

// Package memwatch runs registered cleanup hooks on a background interval.
// Long-lived caches (color ramps, history buffers) register an idempotent
// hook; a misbehaving hook never takes down its neighbors.
package memwatch

import (
	"sync"
	"time"

	applog "github.com/escanorganic/music-viz1/internal/log"
)

// CleanupFunc is an idempotent cleanup hook. It must tolerate being
// called at any time, including concurrently with normal cache use.
type CleanupFunc func() error

type hook struct {
	name string
	fn   CleanupFunc
}

// Manager owns the hook registry and the background sweep goroutine.
type Manager struct {
	mu    sync.Mutex
	hooks []hook

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates an empty Manager. Hooks are registered before or
// after Start; the next sweep picks them up either way.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a named cleanup hook. Names are for log attribution only
// and need not be unique.
func (m *Manager) Register(name string, fn CleanupFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
	m.mu.Unlock()
}

// RunAll invokes every registered hook once. A hook that panics or
// returns an error is logged and the sweep continues with the rest.
func (m *Manager) RunAll() {
	m.mu.Lock()
	hooks := make([]hook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	for _, h := range hooks {
		m.runOne(h)
	}
}

func (m *Manager) runOne(h hook) {
	defer func() {
		if r := recover(); r != nil {
			applog.Errorf("Memwatch: hook %q panicked: %v", h.name, r)
		}
	}()
	if err := h.fn(); err != nil {
		applog.Warnf("Memwatch: hook %q failed: %v", h.name, err)
	}
}

// Start launches the background sweep at the given interval. Safe to
// call multiple times; subsequent calls are no-ops while running.
func (m *Manager) Start(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	m.mu.Lock()
	if m.ticker != nil {
		m.mu.Unlock()
		return
	}
	m.ticker = time.NewTicker(interval)
	m.doneChan = make(chan struct{})
	m.stopOnce = sync.Once{}

	ticker := m.ticker
	doneChan := m.doneChan
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		applog.Debugf("Memwatch: sweep started (interval: %s)", interval)
		for {
			select {
			case <-ticker.C:
				m.RunAll()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop ends the background sweep and waits for the goroutine to exit.
// Registered hooks survive Stop; RunAll still works afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.ticker == nil {
		m.mu.Unlock()
		return
	}
	m.stopOnce.Do(func() {
		close(m.doneChan)
		m.ticker.Stop()
		m.ticker = nil
	})
	m.mu.Unlock()

	m.wg.Wait()
}
