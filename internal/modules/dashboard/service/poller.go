package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"revcam-dashboard/internal/device"
)

const DefaultPollInterval = 2 * time.Second

// DefaultDrainTimeout is how long Run waits for in-flight fetches after its
// context is done before canceling them.
const DefaultDrainTimeout = 2 * time.Second

// DefaultMaxInflight caps concurrent fetches; ticks beyond it are skipped.
const DefaultMaxInflight = 8

type StatsSource interface {
	GetStats(ctx context.Context) (device.StatusSnapshot, error)
}

// StatsPoller fetches a snapshot every interval and renders it. Ticks do
// not wait for each other: whichever fetch resolves last wins. Failed
// fetches leave the board as it was.
type StatsPoller struct {
	source   StatsSource
	board    SlotWriter
	interval time.Duration

	drainTimeout time.Duration
	maxInflight  int32
	inflight     atomic.Int32
}

func NewStatsPoller(source StatsSource, board SlotWriter, interval time.Duration) *StatsPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatsPoller{
		source:       source,
		board:        board,
		interval:     interval,
		drainTimeout: DefaultDrainTimeout,
		maxInflight:  DefaultMaxInflight,
	}
}

// Run polls once immediately and then on every tick until ctx is done.
// Canceling ctx does not cancel fetches already started. Run waits up to the
// drain timeout for them, then cancels the rest and returns once they exit.
func (p *StatsPoller) Run(ctx context.Context) error {
	fetchCtx, cancelFetches := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelFetches()

	var wg sync.WaitGroup
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(fetchCtx, &wg)
	for {
		select {
		case <-ctx.Done():
			p.drain(&wg, cancelFetches)
			return ctx.Err()
		case <-ticker.C:
			p.tick(fetchCtx, &wg)
		}
	}
}

func (p *StatsPoller) tick(ctx context.Context, wg *sync.WaitGroup) {
	if p.inflight.Add(1) > p.maxInflight {
		p.inflight.Add(-1)
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.inflight.Add(-1)
		_ = p.PollOnce(ctx)
	}()
}

func (p *StatsPoller) drain(wg *sync.WaitGroup, cancel context.CancelFunc) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	timer := time.NewTimer(p.drainTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		cancel()
		<-done
	}
}

// PollOnce fetches and renders a single snapshot.
func (p *StatsPoller) PollOnce(ctx context.Context) error {
	s, err := p.source.GetStats(ctx)
	if err != nil {
		return err
	}
	RenderStats(p.board, s)
	return nil
}
