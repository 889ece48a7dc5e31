package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froma1976/ailogistic/internal/model"
)

type pullerFixture struct {
	refs   *memRefs
	inv    *memInventory
	prod   *memProduction
	outbox *memOutbox
	rem    *fakeRemote
	puller *Puller
}

func newPullerFixture() *pullerFixture {
	f := &pullerFixture{
		refs:   newMemRefs(),
		inv:    newMemInventory(),
		prod:   newMemProduction(),
		outbox: newMemOutbox(),
		rem:    newFakeRemote(),
	}
	f.puller = NewPuller(zerolog.Nop(), f.refs, f.inv, f.prod, f.outbox, f.rem)
	return f
}

func TestPullMergesAllThreeTables(t *testing.T) {
	f := newPullerFixture()
	id := uuid.New()
	f.rem.refs = []model.PartReference{{Code: "REF1", PiecesPerUA: 10}}
	f.rem.entries = []model.InventoryLogEntry{{ID: id, Date: "2026-08-30", ReferenceCode: "REF1", Total: 40}}
	f.rem.records = []model.ProductionRecord{{Date: "2026-08-30", Quantity: 50}}

	require.NoError(t, f.puller.Pull(context.Background()))

	ref, err := f.refs.FindByCode(context.Background(), "REF1")
	require.NoError(t, err)
	require.NotNil(t, ref)

	entry, err := f.inv.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 40, entry.Total)

	record, err := f.prod.FindByDate(context.Background(), "2026-08-30")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 50, record.Quantity)
}

func TestPullOverwritesLocalCopy(t *testing.T) {
	f := newPullerFixture()
	require.NoError(t, f.refs.Save(context.Background(), &model.PartReference{
		Code: "REF1", Description: "stale local", PiecesPerUA: 5,
	}))
	f.rem.refs = []model.PartReference{{Code: "REF1", Description: "remote wins", PiecesPerUA: 10}}

	require.NoError(t, f.puller.Pull(context.Background()))

	ref, err := f.refs.FindByCode(context.Background(), "REF1")
	require.NoError(t, err)
	assert.Equal(t, "remote wins", ref.Description)
	assert.Equal(t, 10, ref.PiecesPerUA)
}

func TestPullSkipsRowsWithPendingOutboxEntries(t *testing.T) {
	f := newPullerFixture()

	// Unpushed local edit for REF1.
	local := &model.PartReference{Code: "REF1", Description: "local edit", PiecesPerUA: 24,
		ConsumptionCoef: decimal.NewFromInt(2)}
	require.NoError(t, f.refs.Save(context.Background(), local))
	qop, err := model.NewOutboxOperation(model.OpUpdate, local)
	require.NoError(t, err)
	require.NoError(t, f.outbox.Enqueue(context.Background(), qop))

	f.rem.refs = []model.PartReference{
		{Code: "REF1", Description: "stale remote", PiecesPerUA: 10},
		{Code: "REF2", Description: "new remote", PiecesPerUA: 6},
	}

	require.NoError(t, f.puller.Pull(context.Background()))

	// REF1 keeps the local edit; REF2 lands normally.
	ref1, err := f.refs.FindByCode(context.Background(), "REF1")
	require.NoError(t, err)
	assert.Equal(t, "local edit", ref1.Description)
	assert.Equal(t, 24, ref1.PiecesPerUA)

	ref2, err := f.refs.FindByCode(context.Background(), "REF2")
	require.NoError(t, err)
	require.NotNil(t, ref2)
	assert.Equal(t, "new remote", ref2.Description)
}

func TestPullStopsOnFetchError(t *testing.T) {
	f := newPullerFixture()
	f.rem.errOn["fetch:"+model.TableReferences] = errors.New("remote unavailable")

	err := f.puller.Pull(context.Background())
	assert.Error(t, err)
}

func TestPullSyncedEntriesDoNotShadow(t *testing.T) {
	f := newPullerFixture()

	// A SYNCED leftover (crash between mark and dequeue) must not block the pull.
	local := &model.PartReference{Code: "REF1", Description: "pushed already"}
	qop, err := model.NewOutboxOperation(model.OpUpdate, local)
	require.NoError(t, err)
	require.NoError(t, f.outbox.Enqueue(context.Background(), qop))
	require.NoError(t, f.outbox.MarkSynced(context.Background(), qop.ID))

	f.rem.refs = []model.PartReference{{Code: "REF1", Description: "remote copy", PiecesPerUA: 10}}

	require.NoError(t, f.puller.Pull(context.Background()))

	ref, err := f.refs.FindByCode(context.Background(), "REF1")
	require.NoError(t, err)
	assert.Equal(t, "remote copy", ref.Description)
}
