// SPDX-License-Identifier: MIT
package transport

import (
	"fmt"
	"sync"
	"time"

	applog "github.com/escanorganic/music-viz1/internal/log"
)

// DefaultPublishInterval is used when configuration supplies a
// non-positive interval (~30Hz).
const DefaultPublishInterval = 33 * time.Millisecond

// Publisher periodically sends the most recent analysis snapshot over a
// Transport. The analysis loop stays the single writer of analyzer state:
// it pushes finished snapshots via Update, and the publisher goroutine
// only ever reads its own latest copy.
type Publisher struct {
	transport Transport
	interval  time.Duration

	latestMu sync.Mutex
	latest   Snapshot
	fresh    bool

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // guards ticker and doneChan across Start/Stop

	sequenceNum uint32
}

// NewPublisher creates a Publisher over the given transport. A
// non-positive interval falls back to DefaultPublishInterval.
func NewPublisher(interval time.Duration, transport Transport) (*Publisher, error) {
	if transport == nil {
		return nil, fmt.Errorf("publisher: transport cannot be nil")
	}
	if interval <= 0 {
		applog.Warnf("Publisher: invalid interval, defaulting to %s", DefaultPublishInterval)
		interval = DefaultPublishInterval
	}

	return &Publisher{
		transport: transport,
		interval:  interval,
	}, nil
}

// Update stores the latest snapshot for the next publish tick. Called
// once per analysis cycle from the frame loop.
func (p *Publisher) Update(snap Snapshot) {
	p.latestMu.Lock()
	p.latest = snap
	p.fresh = true
	p.latestMu.Unlock()
}

// Start launches the publishing goroutine. Safe to call multiple times;
// subsequent calls are no-ops while running.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("Publisher: Start called but already running")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("Publisher: started (interval: %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				applog.Debugf("Publisher: stop signal received")
				return
			}
		}
	}()
}

// publish sends the latest snapshot, skipping ticks where no new cycle
// has completed since the previous send.
func (p *Publisher) publish() {
	p.latestMu.Lock()
	if !p.fresh {
		p.latestMu.Unlock()
		return
	}
	snap := p.latest
	p.fresh = false
	p.latestMu.Unlock()

	p.sequenceNum++
	snap.Sequence = p.sequenceNum

	if err := p.transport.Send(snap); err != nil {
		applog.Errorf("Publisher: send failed: %v", err)
	}
}

// Stop signals the publishing goroutine to terminate and waits for it to
// exit. Safe to call multiple times.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("Publisher: stopped")
	return nil
}

// Close stops the publisher and closes the underlying transport.
func (p *Publisher) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	return p.transport.Close()
}
