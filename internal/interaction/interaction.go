// Package interaction tracks optimistic like state per user and entity
// id. The tracker is derived, disposable state: it is rebuilt from
// server truth on every screen mount and never treated as a source of
// record. State is scoped per user; one caller's in-flight toggle is
// never visible in another caller's snapshot.
package interaction

import "sync"

// State is the displayable interaction state for one entity.
type State struct {
	Liked bool `json:"isLiked"`
	Count int  `json:"count"`
}

// Op is one locally applied toggle that has not been confirmed by the
// server yet. Liked is the state the user toggled INTO.
type Op struct {
	TargetID string
	Liked    bool
}

// entry is one user's tracked state and unconfirmed ops.
type entry struct {
	state   map[string]State
	pending map[string]Op
}

// Tracker holds optimistic state keyed by user id, then entity id.
// Writers are the toggle handlers; rapid repeated toggles on one id are
// serialized by the mutex, last writer wins.
type Tracker struct {
	mu    sync.Mutex
	users map[string]*entry
}

func NewTracker() *Tracker {
	return &Tracker{users: make(map[string]*entry)}
}

// user returns the entry for userID, creating it on first use.
// Callers must hold t.mu.
func (t *Tracker) user(userID string) *entry {
	e, ok := t.users[userID]
	if !ok {
		e = &entry{
			state:   make(map[string]State),
			pending: make(map[string]Op),
		}
		t.users[userID] = e
	}
	return e
}

// Get returns the tracked state for id as seen by userID. ok is false
// when the id has never been seen, meaning the caller should fall back
// to server truth.
func (t *Tracker) Get(userID, id string) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.user(userID).state[id]
	return s, ok
}

// Apply records a toggle optimistically for userID and returns the new
// display state for the id.
func (t *Tracker) Apply(userID string, op Op) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.user(userID)
	s := e.state[op.TargetID]
	if s.Liked != op.Liked {
		if op.Liked {
			s.Count++
		} else if s.Count > 0 {
			s.Count--
		}
	}
	s.Liked = op.Liked
	e.state[op.TargetID] = s
	e.pending[op.TargetID] = op
	return s
}

// Confirm drops userID's pending op for id once the server acknowledged
// it (or the toggle was rolled back).
func (t *Tracker) Confirm(userID, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.user(userID).pending, id)
}

// Resolve replaces userID's tracked state with the reconciliation of
// fresh server truth against that user's still-pending local ops, and
// returns a copy of the result.
func (t *Tracker) Resolve(userID string, server map[string]State) map[string]State {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.user(userID)
	pending := make([]Op, 0, len(e.pending))
	for _, op := range e.pending {
		pending = append(pending, op)
	}
	e.state = Reconcile(server, pending)

	out := make(map[string]State, len(e.state))
	for id, s := range e.state {
		out[id] = s
	}
	return out
}
