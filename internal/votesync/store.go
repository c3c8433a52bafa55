// Package votesync keeps a client-visible view of vote state consistent
// across every concurrently-mounted surface rendering the same confession.
// It is an observable keyed store with optimistic updates: a vote is applied
// locally first, marked pending, and later committed or rolled back against
// the server result. All surfaces subscribe, so two lists showing the same
// confession can never display divergent counts.
package votesync

import (
	"errors"
	"sync"
	"time"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
)

var (
	// ErrMutationPending rejects a duplicate in-flight (confession, type)
	// mutation, e.g. rapid repeated clicks on the same button.
	ErrMutationPending = errors.New("vote mutation already pending")
	// ErrUnknownConfession rejects a vote on a confession the store has
	// never been seeded with server state for.
	ErrUnknownConfession = errors.New("no known state for confession")
	// ErrNoPendingMutation rejects completing a mutation that was never begun.
	ErrNoPendingMutation = errors.New("no pending mutation to complete")
)

// Snapshot is the observable state of one confession's votes.
type Snapshot struct {
	UserVote     *model.VoteType
	BelieveCount int
	DoubtCount   int
	Pending      bool
	LastUpdated  time.Time
}

// Subscriber receives every state transition for a subscribed confession.
// Callbacks run synchronously after the transition is fully applied, so a
// re-entrant call from inside a callback observes consistent state and can
// never interleave with an update in progress.
type Subscriber func(confessionID string, snap Snapshot)

type pendingKey struct {
	confessionID string
	voteType     model.VoteType
}

type subscription struct {
	id int
	fn Subscriber
}

// Store is the process-wide vote synchronization store.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*Snapshot
	subs      map[string][]subscription
	nextSubID int
	// pending maps an in-flight mutation to the exact pre-optimistic
	// snapshot used for rollback.
	pending   map[pendingKey]Snapshot
	freshness time.Duration
	now       func() time.Time
}

// DefaultFreshness is how long a snapshot stays authoritative without a
// server refresh.
const DefaultFreshness = 60 * time.Second

// New creates a store whose entries stop being authoritative after the
// freshness window. Pass DefaultFreshness unless the embedding client has a
// reason to deviate.
func New(freshness time.Duration) *Store {
	return &Store{
		entries:   make(map[string]*Snapshot),
		subs:      make(map[string][]subscription),
		pending:   make(map[pendingKey]Snapshot),
		freshness: freshness,
		now:       time.Now,
	}
}

// Subscribe registers a callback for one confession's transitions and
// returns an unsubscribe function.
func (s *Store) Subscribe(confessionID string, fn Subscriber) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[confessionID] = append(s.subs[confessionID], subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[confessionID]
		for i, sub := range list {
			if sub.id == id {
				s.subs[confessionID] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Get returns the current snapshot. ok is false when the confession is
// unknown or the entry aged out of the freshness window — the caller should
// fetch server truth and seed it back.
func (s *Store) Get(confessionID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[confessionID]
	if !ok {
		return Snapshot{}, false
	}
	if !entry.Pending && s.now().Sub(entry.LastUpdated) > s.freshness {
		return *entry, false
	}
	return *entry, true
}

// SetServerState seeds or refreshes a confession from server truth. A
// pending entry is left untouched; the in-flight mutation reconciles it.
func (s *Store) SetServerState(confessionID string, believeCount, doubtCount int, userVote *model.VoteType) {
	s.mu.Lock()
	entry, ok := s.entries[confessionID]
	if ok && entry.Pending {
		s.mu.Unlock()
		return
	}
	snap := Snapshot{
		UserVote:     copyVote(userVote),
		BelieveCount: believeCount,
		DoubtCount:   doubtCount,
		LastUpdated:  s.now(),
	}
	s.entries[confessionID] = &snap
	subs := s.subscribersLocked(confessionID)
	s.mu.Unlock()

	notify(subs, confessionID, snap)
}

// BeginVote computes the vote/switch/undo transition against the local
// state, applies it optimistically, and marks the mutation pending. It
// rejects a duplicate in-flight (confession, type) pair. Subscribers are
// notified synchronously with the optimistic state before any server
// round-trip happens.
func (s *Store) BeginVote(confessionID string, voteType model.VoteType) (Snapshot, error) {
	s.mu.Lock()
	entry, ok := s.entries[confessionID]
	if !ok {
		s.mu.Unlock()
		return Snapshot{}, ErrUnknownConfession
	}

	key := pendingKey{confessionID: confessionID, voteType: voteType}
	if _, inFlight := s.pending[key]; inFlight {
		s.mu.Unlock()
		return Snapshot{}, ErrMutationPending
	}

	// Keep the exact pre-optimistic state for rollback.
	s.pending[key] = *entry

	tr := repository.ResolveTransition(entry.UserVote, voteType)
	believeDelta, doubtDelta := repository.CounterDeltas(tr, entry.UserVote, voteType)
	entry.BelieveCount += believeDelta
	entry.DoubtCount += doubtDelta
	if tr == repository.TransitionUnvote {
		entry.UserVote = nil
	} else {
		v := voteType
		entry.UserVote = &v
	}
	entry.Pending = true
	entry.LastUpdated = s.now()

	snap := *entry
	subs := s.subscribersLocked(confessionID)
	s.mu.Unlock()

	notify(subs, confessionID, snap)
	return snap, nil
}

// CompleteVote resolves a pending mutation. On success the optimistic state
// is committed; on failure the exact pre-optimistic snapshot is restored so
// the next read falls back to server truth. There is no cancel path: a
// failed request always lands here as a rollback, never stays pending.
func (s *Store) CompleteVote(confessionID string, voteType model.VoteType, success bool) (Snapshot, error) {
	s.mu.Lock()
	key := pendingKey{confessionID: confessionID, voteType: voteType}
	rollback, inFlight := s.pending[key]
	if !inFlight {
		s.mu.Unlock()
		return Snapshot{}, ErrNoPendingMutation
	}
	delete(s.pending, key)

	entry := s.entries[confessionID]
	if success {
		entry.Pending = s.hasPendingLocked(confessionID)
		// A sibling mutation's rollback may have replaced the entry since
		// this one began; its aged-out timestamp must survive the commit so
		// the next read re-fetches server truth instead of serving the
		// rolled-back counts as authoritative.
		if s.now().Sub(entry.LastUpdated) <= s.freshness {
			entry.LastUpdated = s.now()
		}
	} else {
		restored := rollback
		restored.Pending = s.hasPendingLocked(confessionID)
		// Aged-out timestamp: the rollback state is not authoritative, the
		// next Get misses and re-fetches server truth.
		restored.LastUpdated = s.now().Add(-s.freshness - time.Second)
		*entry = restored
	}

	snap := *entry
	subs := s.subscribersLocked(confessionID)
	s.mu.Unlock()

	notify(subs, confessionID, snap)
	return snap, nil
}

// PendingCount reports in-flight mutations (for tests and diagnostics).
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Store) hasPendingLocked(confessionID string) bool {
	for key := range s.pending {
		if key.confessionID == confessionID {
			return true
		}
	}
	return false
}

// subscribersLocked copies the subscriber list so callbacks run outside the
// lock; notification stays synchronous with respect to the caller.
func (s *Store) subscribersLocked(confessionID string) []subscription {
	list := s.subs[confessionID]
	if len(list) == 0 {
		return nil
	}
	out := make([]subscription, len(list))
	copy(out, list)
	return out
}

func notify(subs []subscription, confessionID string, snap Snapshot) {
	for _, sub := range subs {
		sub.fn(confessionID, snap)
	}
}

func copyVote(v *model.VoteType) *model.VoteType {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
