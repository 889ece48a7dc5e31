package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

// Status is the sync state surfaced to UI collaborators.
type Status struct {
	Online       bool       `json:"online"`
	Syncing      bool       `json:"syncing"`
	LastSyncTime *time.Time `json:"last_sync_time"`
	PendingCount int64      `json:"pending_count"`
}

// Service is the sync scheduler: a two-state machine (idle/syncing) gated by a
// single flag so at most one cycle runs at a time. It is the only component
// that decides when push and pull execute. Explicit Start/Stop lifecycle,
// injectable clock and connectivity signal, no ambient globals.
type Service struct {
	log      zerolog.Logger
	pusher   *Pusher
	puller   *Puller
	outbox   store.OutboxRepository
	notifier *store.Notifier
	clock    Clock
	interval time.Duration

	mu       sync.Mutex
	online   bool
	syncing  bool
	lastSync *time.Time
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// kick coalesces full-cycle triggers; capacity 1 so a trigger arriving
	// mid-cycle schedules exactly one follow-up.
	kick chan struct{}
}

func NewService(
	log zerolog.Logger,
	pusher *Pusher,
	puller *Puller,
	outbox store.OutboxRepository,
	notifier *store.Notifier,
	clock Clock,
	interval time.Duration,
) *Service {
	return &Service{
		log:      log,
		pusher:   pusher,
		puller:   puller,
		outbox:   outbox,
		notifier: notifier,
		clock:    clock,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the scheduler loop. If the device is already online, a full
// startup cycle is triggered immediately.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	online := s.online
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	if online {
		s.trigger()
	}
	s.log.Info().Dur("interval", s.interval).Msg("syncer: started")
	return nil
}

// Stop tears down the loop. An in-flight push or pull call is not cancelled;
// the loop exits once the current cycle completes.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.log.Info().Msg("syncer: stopped")
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	tick, stopTick := s.clock.Tick(s.interval)
	defer stopTick()

	// Any local mutation implies a freshly enqueued outbox entry; a change
	// event on a synced table while online means the queue needs draining.
	changes, unsubscribe := s.notifier.Subscribe(
		model.TableReferences, model.TableInventoryLog, model.TableProduction)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			s.runCycle(ctx)
		case <-tick:
			// Lighter-weight periodic refresh: pull only, never a full cycle.
			if s.IsOnline() {
				s.runPull(ctx)
			}
		case <-changes:
			if !s.IsOnline() {
				continue
			}
			n, err := s.outbox.CountPending(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("syncer: count pending")
				continue
			}
			if n > 0 {
				s.runCycle(ctx)
			}
		}
	}
}

// SetOnline consumes a connectivity transition from the host environment.
// Regaining connectivity triggers a full cycle; losing it only flips the flag
// and never aborts an in-flight cycle.
func (s *Service) SetOnline(online bool) {
	s.mu.Lock()
	wasOnline := s.online
	s.online = online
	running := s.running
	s.mu.Unlock()

	if online && !wasOnline {
		s.log.Info().Msg("syncer: device online")
		if running {
			s.trigger()
		}
	} else if !online && wasOnline {
		s.log.Warn().Msg("syncer: device offline")
	}
}

func (s *Service) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// SyncNow runs one full cycle synchronously, subject to the same gate as
// every other trigger. It reports whether a cycle actually ran.
func (s *Service) SyncNow(ctx context.Context) bool {
	return s.runCycle(ctx)
}

// Status snapshots the scheduler state plus the outbox backlog.
func (s *Service) Status(ctx context.Context) Status {
	pending, err := s.outbox.CountPending(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("syncer: count pending")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Online:       s.online,
		Syncing:      s.syncing,
		LastSyncTime: s.lastSync,
		PendingCount: pending,
	}
}

func (s *Service) trigger() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// beginCycle is the mutual-exclusion gate: a trigger arriving while a cycle
// is active is dropped, so overlapping push/pull executions cannot happen.
func (s *Service) beginCycle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing || !s.online {
		return false
	}
	s.syncing = true
	return true
}

func (s *Service) endCycle(completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
	if completed {
		now := s.clock.Now()
		s.lastSync = &now
	}
}

// runCycle executes push then pull, in that order, so local changes land
// remotely before the pull can overwrite them in the same cycle. A failed
// cycle is logged and left for the next trigger; it never stops the loop.
func (s *Service) runCycle(ctx context.Context) bool {
	if !s.beginCycle() {
		return false
	}
	completed := false
	defer func() { s.endCycle(completed) }()

	pushed, err := s.pusher.Push(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("syncer: push failed")
		return false
	}
	if err := s.puller.Pull(ctx); err != nil {
		s.log.Error().Err(err).Msg("syncer: pull failed")
		return false
	}

	completed = true
	s.log.Info().Int("pushed", pushed).Msg("syncer: cycle completed")
	return true
}

func (s *Service) runPull(ctx context.Context) {
	if !s.beginCycle() {
		return
	}
	completed := false
	defer func() { s.endCycle(completed) }()

	if err := s.puller.Pull(ctx); err != nil {
		s.log.Error().Err(err).Msg("syncer: periodic pull failed")
		return
	}
	completed = true
}
