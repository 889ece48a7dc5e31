package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

type serviceFixture struct {
	refs     *memRefs
	inv      *memInventory
	prod     *memProduction
	outbox   *memOutbox
	rem      *fakeRemote
	notifier *store.Notifier
	clock    *fakeClock
	svc      *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		refs:     newMemRefs(),
		inv:      newMemInventory(),
		prod:     newMemProduction(),
		outbox:   newMemOutbox(),
		rem:      newFakeRemote(),
		notifier: store.NewNotifier(),
		clock:    newFakeClock(),
	}
	pusher := NewPusher(zerolog.Nop(), f.outbox, f.rem)
	puller := NewPuller(zerolog.Nop(), f.refs, f.inv, f.prod, f.outbox, f.rem)
	f.svc = NewService(zerolog.Nop(), pusher, puller, f.outbox, f.notifier, f.clock, time.Minute)
	return f
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSyncNowOfflineDoesNothing(t *testing.T) {
	f := newServiceFixture()
	enqueueRef(t, f.outbox, model.OpInsert, "REF1")

	assert.False(t, f.svc.SyncNow(context.Background()))
	assert.Empty(t, f.rem.callLog())

	n, _ := f.outbox.CountPending(context.Background())
	assert.Equal(t, int64(1), n)
}

func TestSyncNowPushesBeforePull(t *testing.T) {
	f := newServiceFixture()
	f.svc.SetOnline(true)
	enqueueRef(t, f.outbox, model.OpInsert, "REF1")

	require.True(t, f.svc.SyncNow(context.Background()))

	calls := f.rem.callLog()
	require.Len(t, calls, 4)
	// Local changes land remotely before the merged snapshot comes back.
	assert.Equal(t, "upsert:part_references:REF1", calls[0])
	assert.Equal(t, "fetch:"+model.TableReferences, calls[1])
	assert.Equal(t, "fetch:"+model.TableInventoryLog, calls[2])
	assert.Equal(t, "fetch:"+model.TableProduction, calls[3])

	status := f.svc.Status(context.Background())
	assert.True(t, status.Online)
	assert.False(t, status.Syncing)
	require.NotNil(t, status.LastSyncTime)
	assert.Equal(t, f.clock.Now(), *status.LastSyncTime)
	assert.Zero(t, status.PendingCount)
}

func TestCycleGateDropsOverlappingTrigger(t *testing.T) {
	f := newServiceFixture()
	f.svc.SetOnline(true)

	// Simulate an in-flight cycle holding the gate.
	require.True(t, f.svc.beginCycle())
	assert.False(t, f.svc.SyncNow(context.Background()))
	f.svc.endCycle(false)

	// Gate released: the next trigger runs.
	assert.True(t, f.svc.SyncNow(context.Background()))
}

func TestReconnectTriggersFullCycle(t *testing.T) {
	f := newServiceFixture()
	require.NoError(t, f.svc.Start(context.Background()))
	defer f.svc.Stop()

	enqueueRef(t, f.outbox, model.OpInsert, "REF1")
	f.svc.SetOnline(true)

	waitFor(t, func() bool {
		n, _ := f.outbox.CountPending(context.Background())
		return n == 0
	})
}

func TestGoingOfflineDoesNotTrigger(t *testing.T) {
	f := newServiceFixture()
	f.svc.SetOnline(true)
	require.NoError(t, f.svc.Start(context.Background()))
	defer f.svc.Stop()

	// Let the startup cycle finish before queueing anything.
	waitFor(t, func() bool { return len(f.rem.callLog()) >= 3 })

	enqueueRef(t, f.outbox, model.OpInsert, "REF1")
	f.svc.SetOnline(false)

	// Nothing drains the queue while offline.
	time.Sleep(50 * time.Millisecond)
	n, _ := f.outbox.CountPending(context.Background())
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, f.rem.callLog(), "upsert:part_references:REF1")
}

func TestPeriodicTickPullsWithoutPushing(t *testing.T) {
	f := newServiceFixture()
	f.svc.SetOnline(true)
	require.NoError(t, f.svc.Start(context.Background()))
	defer f.svc.Stop()

	// Let the startup cycle finish, then queue an operation without
	// publishing a change event.
	waitFor(t, func() bool { return len(f.rem.callLog()) >= 3 })
	enqueueRef(t, f.outbox, model.OpInsert, "REF1")

	f.clock.fire()
	waitFor(t, func() bool {
		return len(f.rem.callLog()) >= 6
	})

	// The tick pulled all three tables but pushed nothing.
	for _, call := range f.rem.callLog() {
		assert.Contains(t, call, "fetch:")
	}
	n, _ := f.outbox.CountPending(context.Background())
	assert.Equal(t, int64(1), n)
}

func TestChangeEventWhileOnlineDrainsQueue(t *testing.T) {
	f := newServiceFixture()
	f.svc.SetOnline(true)
	require.NoError(t, f.svc.Start(context.Background()))
	defer f.svc.Stop()

	enqueueRef(t, f.outbox, model.OpUpdate, "REF1")
	f.notifier.Publish(store.ChangeEvent{Table: model.TableReferences})

	waitFor(t, func() bool {
		n, _ := f.outbox.CountPending(context.Background())
		return n == 0
	})
	assert.Contains(t, f.rem.callLog(), "update:part_references:REF1")
}

func TestMutationPushPullRoundTrip(t *testing.T) {
	// A locally created reference is pushed, then a pull of the same remote
	// snapshot leaves the local copy intact.
	f := newServiceFixture()
	f.svc.SetOnline(true)

	ref := &model.PartReference{Code: "REF1", Description: "bracket",
		PiecesPerUA: 12, ConsumptionCoef: decimal.RequireFromString("1.5")}
	require.NoError(t, f.refs.Save(context.Background(), ref))
	qop, err := model.NewOutboxOperation(model.OpInsert, ref)
	require.NoError(t, err)
	require.NoError(t, f.outbox.Enqueue(context.Background(), qop))

	// The remote echoes back what was pushed.
	f.rem.refs = []model.PartReference{*ref}

	require.True(t, f.svc.SyncNow(context.Background()))

	got, err := f.refs.FindByCode(context.Background(), "REF1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bracket", got.Description)
	assert.Equal(t, 12, got.PiecesPerUA)
	assert.True(t, got.ConsumptionCoef.Equal(decimal.RequireFromString("1.5")))

	n, _ := f.outbox.CountPending(context.Background())
	assert.Zero(t, n)
}
