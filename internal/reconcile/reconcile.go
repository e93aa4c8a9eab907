// Package reconcile merges authoritative server-side task orderings with
// pending local moves so a just-dragged task is never visually snapped back
// by a stale read. Each collection (board column) runs a two-state machine:
// Synced, where the server ordering is rendered directly, and PendingLocal,
// where the local ordering wins until a server snapshot agrees with it.
// There is no timeout-based forced resync; staleness resolves only by
// eventual agreement.
package reconcile

import (
	"sync"
)

// State is the reconciliation state of one collection.
type State int

const (
	// Synced means the local view mirrors the last known server state.
	Synced State = iota
	// PendingLocal means a local move is applied but not yet confirmed by
	// a matching server snapshot.
	PendingLocal
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Synced:
		return "synced"
	case PendingLocal:
		return "pending_local"
	default:
		return "unknown"
	}
}

type collection struct {
	state        State
	pendingOrder []int64
	serverOrder  []int64
}

// Reconciler tracks the ordering of every collection on the board.
type Reconciler struct {
	mu          sync.Mutex
	collections map[string]*collection
}

// New creates an empty reconciler.
func New() *Reconciler {
	return &Reconciler{
		collections: make(map[string]*collection),
	}
}

// ApplyLocalMove records a user-initiated reordering for key. The local view
// updates immediately; a later move while still pending simply re-arms the
// pending state with the newer expected ordering.
func (r *Reconciler) ApplyLocalMove(key string, ordering []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	col := r.collection(key)
	col.state = PendingLocal
	col.pendingOrder = cloneIDs(ordering)
}

// ReceiveServerSnapshot feeds an authoritative ordering for key. While the
// collection is pending, a snapshot that does not match the expected
// ordering is presumed stale relative to the user's newer action and is
// ignored. A matching snapshot confirms the server caught up and returns
// the collection to Synced. The return value reports whether the snapshot
// was accepted as the new authoritative view.
func (r *Reconciler) ReceiveServerSnapshot(key string, ordering []int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	col := r.collection(key)
	if col.state == PendingLocal && !orderingsEqual(col.pendingOrder, ordering) {
		return false
	}

	col.state = Synced
	col.serverOrder = cloneIDs(ordering)
	col.pendingOrder = nil
	return true
}

// CurrentView returns the ordering to render for key: the pending local
// ordering while unconfirmed, otherwise the last server ordering.
func (r *Reconciler) CurrentView(key string) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, exists := r.collections[key]
	if !exists {
		return nil
	}
	if col.state == PendingLocal {
		return cloneIDs(col.pendingOrder)
	}
	return cloneIDs(col.serverOrder)
}

// StateOf returns the reconciliation state of key.
func (r *Reconciler) StateOf(key string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, exists := r.collections[key]
	if !exists {
		return Synced
	}
	return col.state
}

// collection returns the tracked collection for key, creating it in the
// Synced state on first touch. Caller holds r.mu.
func (r *Reconciler) collection(key string) *collection {
	col, exists := r.collections[key]
	if !exists {
		col = &collection{state: Synced}
		r.collections[key] = col
	}
	return col
}

func orderingsEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
