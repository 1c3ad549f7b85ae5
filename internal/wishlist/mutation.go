package wishlist

import (
	"context" // Bounded waits
	"sync"    // State guard
)

// State is the phase of an optimistic mutation
type State int

const (
	// Tentative: applied locally, durable write in flight
	Tentative State = iota
	// Committed: the durable write succeeded and the local value stands
	Committed
	// RolledBack: the durable write failed and the local value was restored
	RolledBack
	// Failed: the durable write failed and there was nothing to restore
	Failed
)

func (s State) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Kind tells which operation produced a mutation
type Kind int

const (
	KindToggle Kind = iota
	KindBudget
)

// Mutation is one optimistic local change awaiting its durable write.
// The data needed to undo it lives on the mutation itself.
type Mutation struct {
	Kind     Kind    // Toggle or budget
	ShoeID   ShoeID  // Toggled shoe
	WasLiked bool    // Membership before the toggle
	Limit    float64 // Budget limit after coercion

	rollback func(*Mutation) // Restores the pre-mutation local state; nil when there is none

	mu    sync.Mutex    // Guards state and err
	state State         // Tentative until settled
	err   error         // Cause of a rollback or failure
	done  chan struct{} // Closed on settle
}

func newMutation(kind Kind, rollback func(*Mutation)) *Mutation {
	return &Mutation{Kind: kind, rollback: rollback, state: Tentative, done: make(chan struct{})}
}

// settle moves the mutation out of Tentative, undoing the local change on failure
func (m *Mutation) settle(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Tentative {
		return
	}
	switch {
	case err == nil:
		m.state = Committed
	case m.rollback != nil:
		m.rollback(m)
		m.state = RolledBack
	default:
		m.state = Failed
	}
	m.err = err
	close(m.done)
}

// State returns the current phase
func (m *Mutation) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the durable write error once settled
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Done is closed when the mutation settles
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles or ctx ends. It returns the
// durable write error, or ctx.Err() when the caller gave up first; giving up
// does not cancel the write.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
