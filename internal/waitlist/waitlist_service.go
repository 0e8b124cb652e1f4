package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/metrics"
	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultOfferTTL = 24 * time.Hour
	// estimateWindow is how many recent offers feed the wait estimate.
	estimateWindow = 10
)

// Service admits waitlisted users into full events. Offers for one event
// are serialized so a vacancy is never offered twice.
type Service struct {
	repo      Repository
	capacity  CapacityProvider
	registrar Registrar
	offerTTL  time.Duration
	events    *notify.Dispatcher
	metrics   *metrics.Metrics
	log       *logrus.Entry
	now       func() time.Time
}

// NewService creates a new waitlist service
func NewService(repo Repository, capacity CapacityProvider, offerTTL time.Duration, events *notify.Dispatcher, m *metrics.Metrics, log *logrus.Entry) *Service {
	if offerTTL <= 0 {
		offerTTL = DefaultOfferTTL
	}
	if events == nil {
		events = notify.NewDispatcher(nil, nil, log)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		repo:     repo,
		capacity: capacity,
		offerTTL: offerTTL,
		events:   events,
		metrics:  m,
		log:      log.WithField("component", "waitlist"),
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetRegistrar replaces the repository's transactional registrar with an
// external one.
func (s *Service) SetRegistrar(r Registrar) {
	s.registrar = r
}

func validEvent(eventType EventType, eventID uint) error {
	if !eventType.Valid() {
		return apperrors.Validation("unknown event type %q", eventType)
	}
	if eventID == 0 {
		return apperrors.Validation("event id is required")
	}
	return nil
}

// AddToWaitlist queues the user for a full event and returns their place.
// An event counts as full while every seat is registered or held by an
// offer, or while others are already waiting.
func (s *Service) AddToWaitlist(ctx context.Context, userID uint, eventType EventType, eventID uint, eventSubID *uint) (*Position, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}

	entry := &Entry{
		UserID:     userID,
		EventType:  eventType,
		EventID:    eventID,
		EventSubID: eventSubID,
		Status:     StatusWaiting,
	}
	var pos *Position
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.LockEvent(ctx, eventType, eventID); err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		free, waiting, err := s.vacancies(ctx, tx, eventType, eventID)
		if err != nil {
			return err
		}
		if free > 0 && waiting == 0 {
			return apperrors.InvalidState("event has open spots")
		}
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		pos, err = s.positionOf(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"event_type": eventType,
		"event_id":   eventID,
		"position":   pos.Position,
	}).Info("joined waitlist")
	return pos, nil
}

// vacancies returns the seats neither registered nor held by an offer, and
// how many entries are waiting. It must run inside a transaction.
func (s *Service) vacancies(ctx context.Context, tx Repository, eventType EventType, eventID uint) (int64, int64, error) {
	provider := s.capacity
	if scoped, ok := provider.(ScopedCapacity); ok {
		provider = scoped.Within(tx)
	}
	capacity, err := provider.IsFull(ctx, eventType, eventID)
	if err != nil {
		return 0, 0, fmt.Errorf("check capacity: %w", err)
	}
	offered, err := tx.CountByStatus(ctx, eventType, eventID, StatusOffered)
	if err != nil {
		return 0, 0, err
	}
	waiting, err := tx.CountByStatus(ctx, eventType, eventID, StatusWaiting)
	if err != nil {
		return 0, 0, err
	}
	return int64(capacity.Max-capacity.Current) - offered, waiting, nil
}

// Register takes a free seat directly. Users already waiting and
// outstanding offers come first, so a direct registration only succeeds
// while the waitlist is empty.
func (s *Service) Register(ctx context.Context, userID uint, eventType EventType, eventID uint, eventSubID *uint) (*Registration, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	reg := &Registration{
		UserID:     userID,
		EventType:  eventType,
		EventID:    eventID,
		EventSubID: eventSubID,
		Source:     SourceDirect,
	}
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.LockEvent(ctx, eventType, eventID); err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		entry, err := tx.GetActiveEntry(ctx, userID, eventType, eventID, false)
		if err != nil {
			return err
		}
		if entry != nil {
			return apperrors.InvalidState("user is on the waitlist; accept an offered spot instead")
		}
		free, waiting, err := s.vacancies(ctx, tx, eventType, eventID)
		if err != nil {
			return err
		}
		if free <= 0 || waiting > 0 {
			return apperrors.InvalidState("event is full; join the waitlist")
		}
		return tx.CreateRegistration(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"event_type": eventType,
		"event_id":   eventID,
	}).Info("registered for event")
	return reg, nil
}

// Withdraw releases the user's seat and offers it to the next waiting
// user. It returns the new offer, or nil when nobody is waiting.
func (s *Service) Withdraw(ctx context.Context, userID uint, eventType EventType, eventID uint) (*Entry, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	var res *processResult
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.LockEvent(ctx, eventType, eventID); err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		released, err := tx.DeleteRegistration(ctx, userID, eventType, eventID)
		if err != nil {
			return err
		}
		if !released {
			return apperrors.NotFound("registration not found")
		}
		res, err = s.process(ctx, tx, eventType, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"event_type": eventType,
		"event_id":   eventID,
	}).Info("registration withdrawn")
	s.announce(ctx, res)
	return res.offered, nil
}

// GetWaitlistPosition reports the user's standing, or nil when they hold no
// active entry. A lapsed offer no longer counts as active.
func (s *Service) GetWaitlistPosition(ctx context.Context, userID uint, eventType EventType, eventID uint) (*Position, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	entry, err := s.repo.GetActiveEntry(ctx, userID, eventType, eventID, false)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.OfferExpired(s.now()) {
		return nil, nil
	}
	return s.positionOf(ctx, s.repo, entry)
}

func (s *Service) positionOf(ctx context.Context, repo Repository, entry *Entry) (*Position, error) {
	rank, err := repo.Rank(ctx, entry)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountByStatus(ctx, entry.EventType, entry.EventID, StatusWaiting)
	if err != nil {
		return nil, err
	}
	pos := &Position{
		EntryID:       entry.ID,
		Position:      rank,
		Total:         total,
		Status:        entry.Status,
		SpotOfferedAt: entry.SpotOfferedAt,
		SpotExpiresAt: entry.SpotExpiresAt,
	}
	if entry.Status == StatusWaiting {
		offers, err := repo.RecentOfferTimes(ctx, entry.EventType, entry.EventID, estimateWindow)
		if err != nil {
			return nil, err
		}
		pos.EstimatedWait = int64(EstimateWait(rank, offers, s.offerTTL).Seconds())
	}
	return pos, nil
}

// EstimateWait is position times the mean gap between recent offers
// (newest first), or position times the offer TTL with fewer than two
// offers on record. It never decreases as position grows.
func EstimateWait(position int64, recentOffers []time.Time, offerTTL time.Duration) time.Duration {
	if position <= 0 {
		return 0
	}
	interval := offerTTL
	if n := len(recentOffers); n >= 2 {
		span := recentOffers[0].Sub(recentOffers[n-1])
		if mean := span / time.Duration(n-1); mean > 0 {
			interval = mean
		}
	}
	return time.Duration(position) * interval
}

// processResult collects what one locked pass over an event changed.
type processResult struct {
	offered *Entry
	lapsed  []Entry
}

// process must run inside a transaction. It expires lapsed offers and
// offers the earliest waiting entry a seat when one is free.
func (s *Service) process(ctx context.Context, tx Repository, eventType EventType, eventID uint) (*processResult, error) {
	if err := tx.LockEvent(ctx, eventType, eventID); err != nil {
		return nil, fmt.Errorf("lock event: %w", err)
	}
	now := s.now()
	res := &processResult{}

	var err error
	res.lapsed, err = tx.ExpireOffers(ctx, eventType, eventID, now)
	if err != nil {
		return nil, err
	}

	free, waiting, err := s.vacancies(ctx, tx, eventType, eventID)
	if err != nil {
		return nil, err
	}
	if free <= 0 || waiting == 0 {
		return res, nil
	}

	next, err := tx.NextWaiting(ctx, eventType, eventID)
	if err != nil || next == nil {
		return res, err
	}
	expires := now.Add(s.offerTTL)
	next.Status = StatusOffered
	next.SpotOfferedAt = &now
	next.SpotExpiresAt = &expires
	if err := tx.UpdateEntry(ctx, next); err != nil {
		return nil, err
	}
	res.offered = next
	return res, nil
}

// announce sends the best-effort notifications for a committed pass.
func (s *Service) announce(ctx context.Context, res *processResult) {
	if res == nil {
		return
	}
	for _, e := range res.lapsed {
		s.metrics.WaitlistOutcome(string(StatusExpired))
		s.events.Notify(ctx, []uint{e.UserID}, notify.TypeWaitlistExpiry,
			"Waitlist offer expired",
			fmt.Sprintf("Your spot offer for %s #%d has expired.", e.EventType, e.EventID),
			map[string]interface{}{"event_type": e.EventType, "event_id": e.EventID, "entry_id": e.ID})
	}
	if e := res.offered; e != nil {
		s.metrics.WaitlistOffer(string(e.EventType))
		data := map[string]interface{}{
			"event_type":      e.EventType,
			"event_id":        e.EventID,
			"entry_id":        e.ID,
			"user_id":         e.UserID,
			"spot_expires_at": e.SpotExpiresAt,
		}
		s.events.Notify(ctx, []uint{e.UserID}, notify.TypeWaitlistOffer,
			"A spot opened up",
			fmt.Sprintf("A spot is available in %s #%d. Accept it before %s.", e.EventType, e.EventID, e.SpotExpiresAt.Format(time.RFC1123)),
			data)
		s.events.Emit(ctx, notify.EventSpotOffered, data)
		s.log.WithFields(logrus.Fields{
			"entry_id":   e.ID,
			"user_id":    e.UserID,
			"event_type": e.EventType,
			"event_id":   e.EventID,
		}).Info("waitlist spot offered")
	}
}

// ProcessWaitlist offers the next waiting user a free seat. It returns nil
// when nobody is waiting or no seat is free.
func (s *Service) ProcessWaitlist(ctx context.Context, eventType EventType, eventID uint) (*Entry, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	var res *processResult
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		var err error
		res, err = s.process(ctx, tx, eventType, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, res)
	return res.offered, nil
}

// resolveOffer locks the user's offered entry. When the offer has lapsed
// it is expired and the seat re-offered in the same transaction; the
// returned result is then non-nil and the entry nil.
func (s *Service) resolveOffer(ctx context.Context, tx Repository, userID uint, eventType EventType, eventID uint) (*Entry, *processResult, error) {
	if err := tx.LockEvent(ctx, eventType, eventID); err != nil {
		return nil, nil, fmt.Errorf("lock event: %w", err)
	}
	entry, err := tx.GetActiveEntry(ctx, userID, eventType, eventID, true)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, nil, apperrors.NotFound("waitlist entry not found")
	}
	if entry.Status != StatusOffered {
		return nil, nil, apperrors.InvalidState("no spot has been offered yet")
	}
	if entry.OfferExpired(s.now()) {
		res, err := s.process(ctx, tx, eventType, eventID)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	}
	return entry, nil, nil
}

// AcceptWaitlistSpot takes the offered seat. The status change and the
// registration commit together.
func (s *Service) AcceptWaitlistSpot(ctx context.Context, userID uint, eventType EventType, eventID uint) (*Entry, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	var entry *Entry
	var lapsed *processResult
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		var err error
		entry, lapsed, err = s.resolveOffer(ctx, tx, userID, eventType, eventID)
		if err != nil || lapsed != nil {
			return err
		}
		entry.Status = StatusAccepted
		if err := tx.UpdateEntry(ctx, entry); err != nil {
			return err
		}
		registrar := s.registrar
		if registrar == nil {
			registrar = tx.Registrar()
		}
		if err := registrar.Finalize(ctx, userID, eventType, eventID, entry.EventSubID); err != nil {
			return fmt.Errorf("finalize registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if lapsed != nil {
		s.announce(ctx, lapsed)
		return nil, apperrors.InvalidState("the spot offer has expired")
	}

	s.metrics.WaitlistOutcome(string(StatusAccepted))
	s.log.WithFields(logrus.Fields{
		"entry_id":   entry.ID,
		"user_id":    userID,
		"event_type": eventType,
		"event_id":   eventID,
	}).Info("waitlist spot accepted")
	return entry, nil
}

// DeclineWaitlistSpot gives the offered seat back and offers it onward.
func (s *Service) DeclineWaitlistSpot(ctx context.Context, userID uint, eventType EventType, eventID uint) (*Entry, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	var entry *Entry
	var res *processResult
	var lapsed bool
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		var err error
		entry, res, err = s.resolveOffer(ctx, tx, userID, eventType, eventID)
		if err != nil {
			return err
		}
		if res != nil {
			lapsed = true
			return nil
		}
		entry.Status = StatusDeclined
		if err := tx.UpdateEntry(ctx, entry); err != nil {
			return err
		}
		res, err = s.process(ctx, tx, eventType, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, res)
	if lapsed {
		return nil, apperrors.InvalidState("the spot offer has expired")
	}
	s.metrics.WaitlistOutcome(string(StatusDeclined))
	return entry, nil
}

// Leave drops the user from the waitlist. Leaving with an open offer is a
// decline.
func (s *Service) Leave(ctx context.Context, userID uint, eventType EventType, eventID uint) error {
	if err := validEvent(eventType, eventID); err != nil {
		return err
	}
	entry, err := s.repo.GetActiveEntry(ctx, userID, eventType, eventID, false)
	if err != nil {
		return err
	}
	if entry == nil {
		return apperrors.NotFound("waitlist entry not found")
	}
	if entry.Status == StatusOffered {
		_, err := s.DeclineWaitlistSpot(ctx, userID, eventType, eventID)
		return err
	}

	return s.repo.WithTransaction(ctx, func(tx Repository) error {
		entry, err := tx.GetActiveEntry(ctx, userID, eventType, eventID, true)
		if err != nil {
			return err
		}
		if entry == nil || entry.Status != StatusWaiting {
			return apperrors.Conflict("waitlist entry changed, try again")
		}
		entry.Status = StatusDeclined
		return tx.UpdateEntry(ctx, entry)
	})
}

// ListEntries returns an event's entries in queue order, optionally
// filtered by status.
func (s *Service) ListEntries(ctx context.Context, eventType EventType, eventID uint, status EntryStatus) ([]Entry, error) {
	if err := validEvent(eventType, eventID); err != nil {
		return nil, err
	}
	if status == "" {
		return s.repo.ListEntries(ctx, eventType, eventID)
	}
	return s.repo.ListEntries(ctx, eventType, eventID, status)
}

// SweepExpiredOffers expires every lapsed offer and re-offers the freed
// seats. It returns how many offers expired.
func (s *Service) SweepExpiredOffers(ctx context.Context) (int64, error) {
	keys, err := s.repo.EventsWithLapsedOffers(ctx, s.now())
	if err != nil {
		return 0, err
	}
	var expired int64
	for _, k := range keys {
		var res *processResult
		err := s.repo.WithTransaction(ctx, func(tx Repository) error {
			var err error
			res, err = s.process(ctx, tx, k.EventType, k.EventID)
			return err
		})
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"event_type": k.EventType,
				"event_id":   k.EventID,
			}).Error("waitlist sweep failed")
			continue
		}
		expired += int64(len(res.lapsed))
		s.announce(ctx, res)
	}
	s.metrics.SweepExpired("waitlist_offer", expired)
	return expired, nil
}
