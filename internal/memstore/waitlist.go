package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/waitlist"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
)

// WaitlistRepository implements waitlist.Repository.
type WaitlistRepository struct {
	view
}

var _ waitlist.Repository = (*WaitlistRepository)(nil)

func (r *WaitlistRepository) WithTransaction(ctx context.Context, txFunc func(waitlist.Repository) error) error {
	return r.transaction(ctx, func(v view) error {
		return txFunc(&WaitlistRepository{v})
	})
}

func (r *WaitlistRepository) Registrar() waitlist.Registrar {
	return &registrar{r.view}
}

func (r *WaitlistRepository) CreateEntry(_ context.Context, e *waitlist.Entry) error {
	return r.write(func(st *state, now time.Time) error {
		for _, other := range st.entries {
			if other.UserID == e.UserID && other.EventType == e.EventType && other.EventID == e.EventID && other.Status.Active() {
				return apperrors.Conflict("user %d is already on the waitlist for %s %d", e.UserID, e.EventType, e.EventID)
			}
		}
		e.ID = st.nextID("waitlist_entries")
		e.CreatedAt, e.UpdatedAt = now, now
		st.entries[e.ID] = *e
		return nil
	})
}

// LockEvent is a no-op; the transaction already excludes other writers.
func (r *WaitlistRepository) LockEvent(context.Context, waitlist.EventType, uint) error {
	return nil
}

func (r *WaitlistRepository) GetActiveEntry(_ context.Context, userID uint, eventType waitlist.EventType, eventID uint, _ bool) (*waitlist.Entry, error) {
	var out *waitlist.Entry
	r.read(func(st *state) {
		for _, e := range st.entries {
			if e.UserID == userID && e.EventType == eventType && e.EventID == eventID && e.Status.Active() {
				e := e
				out = &e
				return
			}
		}
	})
	return out, nil
}

func (r *WaitlistRepository) UpdateEntry(_ context.Context, e *waitlist.Entry) error {
	return r.write(func(st *state, now time.Time) error {
		if _, ok := st.entries[e.ID]; !ok {
			return apperrors.NotFound("waitlist entry %d not found", e.ID)
		}
		e.UpdatedAt = now
		st.entries[e.ID] = *e
		return nil
	})
}

// eventEntries returns the event's entries in queue order.
func eventEntries(st *state, eventType waitlist.EventType, eventID uint, statuses []waitlist.EntryStatus) []waitlist.Entry {
	var out []waitlist.Entry
	for _, e := range st.entries {
		if e.EventType != eventType || e.EventID != eventID {
			continue
		}
		if len(statuses) > 0 && !hasStatus(statuses, e.Status) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func hasStatus(statuses []waitlist.EntryStatus, s waitlist.EntryStatus) bool {
	for _, want := range statuses {
		if want == s {
			return true
		}
	}
	return false
}

func (r *WaitlistRepository) Rank(_ context.Context, e *waitlist.Entry) (int64, error) {
	if e.Status != waitlist.StatusWaiting {
		return 0, nil
	}
	var n int64
	r.read(func(st *state) {
		waiting := eventEntries(st, e.EventType, e.EventID, []waitlist.EntryStatus{waitlist.StatusWaiting})
		for _, other := range waiting {
			n++
			if other.ID == e.ID {
				return
			}
		}
	})
	return n, nil
}

func (r *WaitlistRepository) CountByStatus(_ context.Context, eventType waitlist.EventType, eventID uint, statuses ...waitlist.EntryStatus) (int64, error) {
	var n int64
	r.read(func(st *state) {
		n = int64(len(eventEntries(st, eventType, eventID, statuses)))
	})
	return n, nil
}

func (r *WaitlistRepository) NextWaiting(_ context.Context, eventType waitlist.EventType, eventID uint) (*waitlist.Entry, error) {
	var out *waitlist.Entry
	r.read(func(st *state) {
		if waiting := eventEntries(st, eventType, eventID, []waitlist.EntryStatus{waitlist.StatusWaiting}); len(waiting) > 0 {
			out = &waiting[0]
		}
	})
	return out, nil
}

func (r *WaitlistRepository) ListEntries(_ context.Context, eventType waitlist.EventType, eventID uint, statuses ...waitlist.EntryStatus) ([]waitlist.Entry, error) {
	var out []waitlist.Entry
	r.read(func(st *state) {
		out = eventEntries(st, eventType, eventID, statuses)
	})
	return out, nil
}

func (r *WaitlistRepository) RecentOfferTimes(_ context.Context, eventType waitlist.EventType, eventID uint, limit int) ([]time.Time, error) {
	var times []time.Time
	r.read(func(st *state) {
		for _, e := range eventEntries(st, eventType, eventID, nil) {
			if e.SpotOfferedAt != nil {
				times = append(times, *e.SpotOfferedAt)
			}
		}
	})
	sort.Slice(times, func(i, j int) bool { return times[i].After(times[j]) })
	if len(times) > limit {
		times = times[:limit]
	}
	return times, nil
}

func (r *WaitlistRepository) ExpireOffers(_ context.Context, eventType waitlist.EventType, eventID uint, now time.Time) ([]waitlist.Entry, error) {
	var lapsed []waitlist.Entry
	err := r.write(func(st *state, at time.Time) error {
		for _, e := range eventEntries(st, eventType, eventID, []waitlist.EntryStatus{waitlist.StatusOffered}) {
			if !e.OfferExpired(now) {
				continue
			}
			e.Status = waitlist.StatusExpired
			e.UpdatedAt = at
			st.entries[e.ID] = e
			lapsed = append(lapsed, e)
		}
		return nil
	})
	return lapsed, err
}

func (r *WaitlistRepository) EventsWithLapsedOffers(_ context.Context, now time.Time) ([]waitlist.EventKey, error) {
	seen := map[waitlist.EventKey]bool{}
	var keys []waitlist.EventKey
	r.read(func(st *state) {
		for _, e := range st.entries {
			key := waitlist.EventKey{EventType: e.EventType, EventID: e.EventID}
			if e.OfferExpired(now) && !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	})
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].EventType != keys[j].EventType {
			return keys[i].EventType < keys[j].EventType
		}
		return keys[i].EventID < keys[j].EventID
	})
	return keys, nil
}

func (r *WaitlistRepository) CountRegistrations(_ context.Context, eventType waitlist.EventType, eventID uint) (int64, error) {
	var n int64
	r.read(func(st *state) {
		for _, reg := range st.registrations {
			if reg.EventType == eventType && reg.EventID == eventID {
				n++
			}
		}
	})
	return n, nil
}

// Registrations lists the finalized registrations for an event.
func (r *WaitlistRepository) Registrations(eventType waitlist.EventType, eventID uint) []waitlist.Registration {
	var out []waitlist.Registration
	r.read(func(st *state) {
		for _, reg := range st.registrations {
			if reg.EventType == eventType && reg.EventID == eventID {
				out = append(out, reg)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *WaitlistRepository) CreateRegistration(_ context.Context, reg *waitlist.Registration) error {
	return r.write(func(st *state, now time.Time) error {
		return insertRegistration(st, now, reg)
	})
}

func (r *WaitlistRepository) DeleteRegistration(_ context.Context, userID uint, eventType waitlist.EventType, eventID uint) (bool, error) {
	var deleted bool
	err := r.write(func(st *state, _ time.Time) error {
		for id, reg := range st.registrations {
			if reg.UserID == userID && reg.EventType == eventType && reg.EventID == eventID {
				delete(st.registrations, id)
				deleted = true
			}
		}
		return nil
	})
	return deleted, err
}

func insertRegistration(st *state, now time.Time, reg *waitlist.Registration) error {
	for _, other := range st.registrations {
		if other.UserID == reg.UserID && other.EventType == reg.EventType && other.EventID == reg.EventID {
			return apperrors.Conflict("user %d is already registered for %s %d", reg.UserID, reg.EventType, reg.EventID)
		}
	}
	reg.ID = st.nextID("event_registrations")
	reg.CreatedAt, reg.UpdatedAt = now, now
	st.registrations[reg.ID] = *reg
	return nil
}

type registrar struct {
	view
}

func (g *registrar) Finalize(_ context.Context, userID uint, eventType waitlist.EventType, eventID uint, eventSubID *uint) error {
	return g.write(func(st *state, now time.Time) error {
		return insertRegistration(st, now, &waitlist.Registration{
			UserID:     userID,
			EventType:  eventType,
			EventID:    eventID,
			EventSubID: eventSubID,
			Source:     waitlist.SourceWaitlist,
		})
	})
}
