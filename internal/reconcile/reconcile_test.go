package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncedSnapshotAccepted(t *testing.T) {
	r := New()

	accepted := r.ReceiveServerSnapshot("doing", []int64{1, 2, 3})
	assert.True(t, accepted)
	assert.Equal(t, Synced, r.StateOf("doing"))
	assert.Equal(t, []int64{1, 2, 3}, r.CurrentView("doing"))
}

func TestLocalMoveWinsOverStaleSnapshot(t *testing.T) {
	r := New()
	r.ReceiveServerSnapshot("doing", []int64{1, 2})

	// User drags task 2 to the front.
	r.ApplyLocalMove("doing", []int64{2, 1})
	assert.Equal(t, PendingLocal, r.StateOf("doing"))
	assert.Equal(t, []int64{2, 1}, r.CurrentView("doing"))

	// A read that raced the write still carries the old ordering; rendering
	// it would snap the dragged task back.
	accepted := r.ReceiveServerSnapshot("doing", []int64{1, 2})
	assert.False(t, accepted)
	assert.Equal(t, PendingLocal, r.StateOf("doing"))
	assert.Equal(t, []int64{2, 1}, r.CurrentView("doing"))
}

func TestMatchingSnapshotConfirmsPendingMove(t *testing.T) {
	r := New()
	r.ReceiveServerSnapshot("doing", []int64{1, 2})
	r.ApplyLocalMove("doing", []int64{2, 1})

	accepted := r.ReceiveServerSnapshot("doing", []int64{2, 1})
	assert.True(t, accepted)
	assert.Equal(t, Synced, r.StateOf("doing"))
	assert.Equal(t, []int64{2, 1}, r.CurrentView("doing"))
}

func TestSecondMoveReArmsPendingOrdering(t *testing.T) {
	r := New()
	r.ReceiveServerSnapshot("doing", []int64{1, 2, 3})

	r.ApplyLocalMove("doing", []int64{2, 1, 3})
	r.ApplyLocalMove("doing", []int64{3, 2, 1})

	// A snapshot matching only the first move is stale against the newer one.
	assert.False(t, r.ReceiveServerSnapshot("doing", []int64{2, 1, 3}))
	assert.Equal(t, []int64{3, 2, 1}, r.CurrentView("doing"))

	assert.True(t, r.ReceiveServerSnapshot("doing", []int64{3, 2, 1}))
	assert.Equal(t, Synced, r.StateOf("doing"))
}

func TestCollectionsAreIndependent(t *testing.T) {
	r := New()
	r.ReceiveServerSnapshot("todo", []int64{1, 2})
	r.ReceiveServerSnapshot("doing", []int64{3, 4})

	r.ApplyLocalMove("doing", []int64{4, 3})

	assert.Equal(t, Synced, r.StateOf("todo"))
	assert.Equal(t, PendingLocal, r.StateOf("doing"))
	assert.Equal(t, []int64{1, 2}, r.CurrentView("todo"))
}

func TestUnknownCollection(t *testing.T) {
	r := New()

	assert.Equal(t, Synced, r.StateOf("backlog"))
	assert.Nil(t, r.CurrentView("backlog"))
}

func TestCurrentViewReturnsCopy(t *testing.T) {
	r := New()
	r.ReceiveServerSnapshot("doing", []int64{1, 2, 3})

	view := r.CurrentView("doing")
	view[0] = 99

	assert.Equal(t, []int64{1, 2, 3}, r.CurrentView("doing"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "synced", Synced.String())
	assert.Equal(t, "pending_local", PendingLocal.String())
	assert.Equal(t, "unknown", State(42).String())
}
