// Package memstore keeps every repository in process memory. Write
// transactions run one at a time on a private copy that is published on
// commit, so they behave as serializable and readers only see committed
// rows. It backs DB_DRIVER=memory and the service
// tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/internal/waitlist"
)

type state struct {
	ids           map[string]uint
	games         map[uint]game.Game
	participants  map[uint]game.Participant
	ratings       map[ratingKey]profile.PlayerRating
	requests      map[uint]pairing.MatchRequest
	entries       map[uint]waitlist.Entry
	registrations map[uint]waitlist.Registration
}

type ratingKey struct {
	userID uint
	format string
}

func newState() *state {
	return &state{
		ids:           map[string]uint{},
		games:         map[uint]game.Game{},
		participants:  map[uint]game.Participant{},
		ratings:       map[ratingKey]profile.PlayerRating{},
		requests:      map[uint]pairing.MatchRequest{},
		entries:       map[uint]waitlist.Entry{},
		registrations: map[uint]waitlist.Registration{},
	}
}

func (st *state) nextID(table string) uint {
	st.ids[table]++
	return st.ids[table]
}

// clone copies every row. Rows are stored by value and pointer fields are
// replaced rather than mutated, so a shallow copy per row suffices.
func (st *state) clone() *state {
	c := newState()
	for k, v := range st.ids {
		c.ids[k] = v
	}
	for k, v := range st.games {
		c.games[k] = v
	}
	for k, v := range st.participants {
		c.participants[k] = v
	}
	for k, v := range st.ratings {
		c.ratings[k] = v
	}
	for k, v := range st.requests {
		c.requests[k] = v
	}
	for k, v := range st.entries {
		c.entries[k] = v
	}
	for k, v := range st.registrations {
		c.registrations[k] = v
	}
	return c
}

// Store is the shared in-memory database.
type Store struct {
	// txMu is held for the whole of a write transaction.
	txMu sync.Mutex
	// mu guards the committed state pointer and the clock.
	mu    sync.RWMutex
	state *state
	now   func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState(), now: time.Now}
}

// SetClock overrides the time source used for row timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Games returns the game repository.
func (s *Store) Games() *GameRepository {
	return &GameRepository{view{store: s}}
}

// Requests returns the match request repository.
func (s *Store) Requests() *RequestRepository {
	return &RequestRepository{view{store: s}}
}

// Waitlist returns the waitlist repository.
func (s *Store) Waitlist() *WaitlistRepository {
	return &WaitlistRepository{view{store: s}}
}

// Profiles returns the profile store.
func (s *Store) Profiles() *ProfileStore {
	return &ProfileStore{view{store: s}}
}

// view is a handle on the store. Inside a transaction it works on the
// transaction's private copy, which is published only on commit, so other
// readers never see uncommitted rows.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.state)
}

// write runs one mutation. Outside a transaction it waits for any running
// transaction to finish, then commits on its own copy.
func (v view) write(fn func(st *state, now time.Time) error) error {
	now := v.clock()
	if v.tx != nil {
		return fn(v.tx, now)
	}
	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()
	return v.store.commit(func(st *state) error { return fn(st, now) })
}

func (v view) clock() time.Time {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return v.store.now()
}

// commit applies fn to a copy of the committed state and publishes the
// copy when fn succeeds. The caller holds txMu.
func (s *Store) commit(fn func(st *state) error) error {
	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

// transaction runs fn on a private copy of the state. The copy replaces
// the committed state when fn succeeds and is dropped otherwise. Nested
// calls copy their parent's work and hand it back on success.
func (v view) transaction(ctx context.Context, fn func(view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		work := v.tx.clone()
		if err := fn(view{store: v.store, tx: work}); err != nil {
			return err
		}
		*v.tx = *work
		return nil
	}

	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()
	return v.store.commit(func(st *state) error {
		return fn(view{store: v.store, tx: st})
	})
}
