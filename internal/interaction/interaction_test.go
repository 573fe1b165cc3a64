package interaction

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		server   map[string]State
		pending  []Op
		expected map[string]State
	}{
		{
			name:     "Server Truth Passes Through",
			server:   map[string]State{"p1": {Liked: true, Count: 3}},
			pending:  nil,
			expected: map[string]State{"p1": {Liked: true, Count: 3}},
		},
		{
			name:     "Pending Like Overrides And Bumps Count",
			server:   map[string]State{"r1": {Liked: false, Count: 2}},
			pending:  []Op{{TargetID: "r1", Liked: true}},
			expected: map[string]State{"r1": {Liked: true, Count: 3}},
		},
		{
			name:     "Pending Unlike Reduces Count",
			server:   map[string]State{"r1": {Liked: true, Count: 2}},
			pending:  []Op{{TargetID: "r1", Liked: false}},
			expected: map[string]State{"r1": {Liked: false, Count: 1}},
		},
		{
			name:     "Agreeing Op Does Not Double Count",
			server:   map[string]State{"r1": {Liked: true, Count: 5}},
			pending:  []Op{{TargetID: "r1", Liked: true}},
			expected: map[string]State{"r1": {Liked: true, Count: 5}},
		},
		{
			name:     "Unlike Never Goes Negative",
			server:   map[string]State{"r1": {Liked: true, Count: 0}},
			pending:  []Op{{TargetID: "r1", Liked: false}},
			expected: map[string]State{"r1": {Liked: false, Count: 0}},
		},
		{
			name:     "Op For Unknown Id Creates Entry",
			server:   map[string]State{},
			pending:  []Op{{TargetID: "new", Liked: true}},
			expected: map[string]State{"new": {Liked: true, Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reconcile(tt.server, tt.pending))
		})
	}
}

func TestReconcile_DoesNotMutateServerMap(t *testing.T) {
	server := map[string]State{"p1": {Liked: false, Count: 1}}
	Reconcile(server, []Op{{TargetID: "p1", Liked: true}})
	assert.Equal(t, State{Liked: false, Count: 1}, server["p1"])
}

func TestTracker_ToggleCycle(t *testing.T) {
	tr := NewTracker()
	tr.Resolve("u1", map[string]State{"r1": {Liked: false, Count: 4}})

	s := tr.Apply("u1", Op{TargetID: "r1", Liked: true})
	assert.Equal(t, State{Liked: true, Count: 5}, s)

	s = tr.Apply("u1", Op{TargetID: "r1", Liked: false})
	assert.Equal(t, State{Liked: false, Count: 4}, s)
}

func TestTracker_ResolveKeepsPendingOps(t *testing.T) {
	tr := NewTracker()
	tr.Apply("u1", Op{TargetID: "r1", Liked: true})

	// A stale server snapshot arrives before the toggle was confirmed.
	tr.Resolve("u1", map[string]State{"r1": {Liked: false, Count: 2}})

	s, ok := tr.Get("u1", "r1")
	assert.True(t, ok)
	assert.Equal(t, State{Liked: true, Count: 3}, s)

	// Once confirmed, fresh server truth wins outright.
	tr.Confirm("u1", "r1")
	tr.Resolve("u1", map[string]State{"r1": {Liked: true, Count: 3}})
	s, _ = tr.Get("u1", "r1")
	assert.Equal(t, State{Liked: true, Count: 3}, s)
}

func TestTracker_Get_UnseenID(t *testing.T) {
	tr := NewTracker()
	_, ok := tr.Get("u1", "missing")
	assert.False(t, ok)
}

func TestTracker_ScopedPerUser(t *testing.T) {
	tr := NewTracker()

	// u1 toggles a like that the server has not confirmed yet.
	tr.Apply("u1", Op{TargetID: "p1", Liked: true})

	// u2's resolve of the same target sees pure server truth.
	got := tr.Resolve("u2", map[string]State{"p1": {Liked: false, Count: 2}})
	assert.Equal(t, State{Liked: false, Count: 2}, got["p1"])

	// u1's own resolve still folds the pending toggle in.
	got = tr.Resolve("u1", map[string]State{"p1": {Liked: false, Count: 2}})
	assert.Equal(t, State{Liked: true, Count: 3}, got["p1"])

	_, ok := tr.Get("u2", "p1")
	assert.True(t, ok)
	s, _ := tr.Get("u2", "p1")
	assert.False(t, s.Liked)
}

func TestTracker_ConfirmClearsOnlyOwnPending(t *testing.T) {
	tr := NewTracker()
	tr.Apply("u1", Op{TargetID: "p1", Liked: true})
	tr.Apply("u2", Op{TargetID: "p1", Liked: true})

	tr.Confirm("u1", "p1")

	// u2's pending op still wins over stale server truth.
	got := tr.Resolve("u2", map[string]State{"p1": {Liked: false, Count: 0}})
	assert.True(t, got["p1"].Liked)

	// u1's was confirmed, so server truth passes through.
	got = tr.Resolve("u1", map[string]State{"p1": {Liked: false, Count: 0}})
	assert.False(t, got["p1"].Liked)
}

func TestTracker_ConcurrentToggles(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(liked bool) {
			defer wg.Done()
			tr.Apply("u1", Op{TargetID: "p1", Liked: liked})
		}(i%2 == 0)
	}
	wg.Wait()

	s, ok := tr.Get("u1", "p1")
	assert.True(t, ok)
	// last writer wins; count stays within a single toggle of the base
	assert.LessOrEqual(t, s.Count, 1)
	assert.GreaterOrEqual(t, s.Count, 0)
}
