package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Prober checks remote reachability. *remote.Client satisfies it.
type Prober interface {
	Ping(ctx context.Context) error
}

// Watcher is the host-environment connectivity signal: it probes the remote
// store on an interval and forwards online/offline transitions to the sync
// service. The service itself only ever consumes SetOnline events.
type Watcher struct {
	log      zerolog.Logger
	probe    Prober
	target   interface{ SetOnline(bool) }
	clock    Clock
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewWatcher(log zerolog.Logger, probe Prober, target interface{ SetOnline(bool) }, clock Clock, interval time.Duration) *Watcher {
	return &Watcher{log: log, probe: probe, target: target, clock: clock, interval: interval}
}

func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	w.probeOnce(ctx)

	tick, stop := w.clock.Tick(w.interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			w.probeOnce(ctx)
		}
	}
}

func (w *Watcher) probeOnce(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := w.probe.Ping(probeCtx)
	if err != nil {
		w.log.Debug().Err(err).Msg("watcher: probe failed")
	}
	// SetOnline deduplicates: only transitions have an effect.
	w.target.SetOnline(err == nil)
}
