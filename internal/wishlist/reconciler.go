// Package wishlist owns the client-visible wishlist of a session: the working set of
// liked shoes, optimistic toggles reconciled against the API, and budget metrics.
package wishlist

import (
	"context" // Request scoping
	"sort"    // Ordered snapshots
	"sync"    // Working set guard

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient" // Identities and client errors
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"    // Shared models

	"github.com/sirupsen/logrus" // Logging library
)

// Backend is the durable side of the wishlist and budget
type Backend interface {
	Wishlist(ctx context.Context, token string) ([]uint, error)
	ToggleWishlist(ctx context.Context, token string, shoeID uint) (bool, error)
	SetBudget(ctx context.Context, token string, limit float64) error
}

// LocalCache keeps the last known wishlist per user and the guest budget
type LocalCache interface {
	Wishlist(userID uint) ([]uint, error)
	SaveWishlist(userID uint, ids []uint) error
	GuestBudget() (float64, bool)
	SetGuestBudget(limit float64) error
}

// Options tune failure handling
type Options struct {
	// ClearOnLoadFailure empties the working set when a load fails instead of
	// keeping the current or last cached set.
	ClearOnLoadFailure bool
}

// Diff is the change a load applied to the working set
type Diff struct {
	Added   []ShoeID // Liked on the server, not locally
	Removed []ShoeID // Liked locally, not on the server
}

// IsEmpty reports whether the load changed nothing
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Reconciler holds the working set for one session. Safe for concurrent use:
// durable writes settle on their own goroutines.
type Reconciler struct {
	backend Backend    // Durable wishlist and budget
	cache   LocalCache // Optional
	opts    Options    // Failure handling

	mu      sync.Mutex          // Guards the fields below
	set     map[ShoeID]struct{} // Working set
	owner   uint                // User the set belongs to; 0 for a guest
	limit   float64             // Budget limit in effect
	seq     uint64              // Toggles started so far
	touched map[ShoeID]touch    // Latest toggle per shoe, pruned by loads

	pending sync.WaitGroup // Durable writes in flight
}

// touch records the latest toggle of one shoe
type touch struct {
	owner    uint   // User who toggled
	seq      uint64 // Value of seq when the toggle started
	inflight int    // Toggles not yet settled
}

// New creates an empty reconciler; cache may be nil
func New(backend Backend, cache LocalCache, opts Options) *Reconciler {
	return &Reconciler{
		backend: backend,
		cache:   cache,
		opts:    opts,
		set:     make(map[ShoeID]struct{}),
		touched: make(map[ShoeID]touch),
		limit:   domain.DefaultMonthlyBudget,
	}
}

// Load replaces the working set with the durable set of user. A nil user gets
// an empty set and the guest budget. A failed fetch keeps or clears the set per
// Options and returns the error; the reconciler stays usable either way.
// Shoes toggled while the fetch was in flight keep their local membership,
// since the read may predate the write.
func (r *Reconciler) Load(ctx context.Context, user *apiclient.Identity) (Diff, error) {
	if user == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		diff := r.replaceLocked(0, nil)
		r.limit = r.guestLimit()
		return diff, nil
	}

	r.mu.Lock()
	start := r.seq
	r.mu.Unlock()

	ids, err := r.backend.Wishlist(ctx, user.Token)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = user.MonthlyBudget
	if err == nil {
		diff := r.replaceLocked(user.ID, r.overlayLocked(user.ID, toShoeIDs(ids), start))
		r.persistLocked()
		return diff, nil
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"error":   err.Error(),
	}).Warn("Wishlist load failed")
	switch {
	case r.opts.ClearOnLoadFailure:
		return r.replaceLocked(user.ID, nil), err
	case r.owner != user.ID || len(r.set) == 0:
		// Nothing usable in memory for this user; fall back to the local copy
		return r.replaceLocked(user.ID, r.cachedLocked(user.ID)), err
	}
	return Diff{}, err
}

// Toggle flips membership of shoeID locally and writes it through in the
// background. The returned mutation is Tentative; it settles Committed, or
// RolledBack with the local flip undone. A nil user is rejected with
// apiclient.ErrNotAuthenticated and nothing changes.
func (r *Reconciler) Toggle(ctx context.Context, user *apiclient.Identity, shoeID any) (*Mutation, error) {
	if user == nil || user.Token == "" {
		return nil, apiclient.ErrNotAuthenticated
	}
	id, err := ParseShoeID(shoeID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	_, wasLiked := r.set[id]
	r.setLocked(id, !wasLiked)
	r.persistLocked()
	r.seq++
	t := r.touched[id]
	if t.owner != user.ID {
		t = touch{owner: user.ID}
	}
	t.seq = r.seq
	t.inflight++
	r.touched[id] = t
	r.mu.Unlock()

	m := newMutation(KindToggle, r.undoToggle)
	m.ShoeID = id
	m.WasLiked = wasLiked

	r.pending.Add(1)
	go func(ctx context.Context) {
		defer r.pending.Done()
		_, err := r.backend.ToggleWishlist(ctx, user.Token, uint(id))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"shoe_id": id,
				"error":   err.Error(),
			}).Warn("Wishlist toggle rolled back")
		}
		m.settle(err)
		r.finishToggle(user.ID, id)
	}(context.WithoutCancel(ctx))

	return m, nil
}

// undoToggle restores the membership recorded on a toggle mutation
func (r *Reconciler) undoToggle(m *Mutation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setLocked(m.ShoeID, m.WasLiked)
	r.persistLocked()
}

// finishToggle marks one toggle of id by owner as settled
func (r *Reconciler) finishToggle(owner uint, id ShoeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.touched[id]; ok && t.owner == owner && t.inflight > 0 {
		t.inflight--
		r.touched[id] = t
	}
}

// overlayLocked keeps the local membership of every shoe owner toggled after
// start or still has in flight, and forgets toggles the read already covers.
func (r *Reconciler) overlayLocked(owner uint, ids []ShoeID, start uint64) []ShoeID {
	next := make(map[ShoeID]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	for id, t := range r.touched {
		if t.inflight == 0 && t.seq <= start {
			delete(r.touched, id) // Settled before the read began
			continue
		}
		if t.owner != owner || r.owner != owner {
			continue
		}
		if _, liked := r.set[id]; liked {
			next[id] = struct{}{}
		} else {
			delete(next, id)
		}
	}
	out := make([]ShoeID, 0, len(next))
	for id := range next {
		out = append(out, id)
	}
	return out
}

// IsLiked reports membership; ids that do not parse are never liked
func (r *Reconciler) IsLiked(shoeID any) bool {
	id, err := ParseShoeID(shoeID)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.set[id]
	return ok
}

// Snapshot returns the working set in ascending order
func (r *Reconciler) Snapshot() []ShoeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the size of the working set
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.set)
}

// Items returns the liked shoes of catalog in catalog order
func (r *Reconciler) Items(catalog []domain.ShoeView) []domain.ShoeView {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []domain.ShoeView
	for _, s := range catalog {
		if _, ok := r.set[ShoeID(s.ID)]; ok {
			items = append(items, s)
		}
	}
	return items
}

// Reset empties the working set and forgets its owner, as on sign-out
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceLocked(0, nil)
	r.limit = r.guestLimit()
}

// Wait blocks until every durable write started so far has settled
func (r *Reconciler) Wait() {
	r.pending.Wait()
}

func (r *Reconciler) setLocked(id ShoeID, liked bool) {
	if liked {
		r.set[id] = struct{}{}
		return
	}
	delete(r.set, id)
}

// replaceLocked swaps in a new set for owner and returns what changed
func (r *Reconciler) replaceLocked(owner uint, ids []ShoeID) Diff {
	next := make(map[ShoeID]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	var diff Diff
	for id := range next {
		if _, ok := r.set[id]; !ok {
			diff.Added = append(diff.Added, id)
		}
	}
	for id := range r.set {
		if _, ok := next[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}
	sortIDs(diff.Added)
	sortIDs(diff.Removed)
	r.set = next
	r.owner = owner
	return diff
}

func (r *Reconciler) snapshotLocked() []ShoeID {
	ids := make([]ShoeID, 0, len(r.set))
	for id := range r.set {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// persistLocked writes the working set of a signed-in owner to the local cache
func (r *Reconciler) persistLocked() {
	if r.cache == nil || r.owner == 0 {
		return
	}
	ids := r.snapshotLocked()
	raw := make([]uint, len(ids))
	for i, id := range ids {
		raw[i] = uint(id)
	}
	if err := r.cache.SaveWishlist(r.owner, raw); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": r.owner, "error": err.Error()}).Warn("Cache wishlist failed")
	}
}

func (r *Reconciler) cachedLocked(userID uint) []ShoeID {
	if r.cache == nil {
		return nil
	}
	ids, err := r.cache.Wishlist(userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Read cached wishlist failed")
		return nil
	}
	return toShoeIDs(ids)
}

func toShoeIDs(ids []uint) []ShoeID {
	out := make([]ShoeID, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, ShoeID(id))
		}
	}
	return out
}

func sortIDs(ids []ShoeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
