package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/DhavalSuthar-24/rally/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventKey identifies one event's waitlist.
type EventKey struct {
	EventType EventType `json:"event_type"`
	EventID   uint      `json:"event_id"`
}

// Repository defines methods to interact with waitlist data. Get methods
// return (nil, nil) when the row does not exist.
type Repository interface {
	// CreateEntry returns an apperrors Conflict when the user already holds
	// an active entry for the event.
	CreateEntry(ctx context.Context, e *Entry) error
	// LockEvent serializes waitlist changes for one event until the
	// transaction ends.
	LockEvent(ctx context.Context, eventType EventType, eventID uint) error
	GetActiveEntry(ctx context.Context, userID uint, eventType EventType, eventID uint, forUpdate bool) (*Entry, error)
	UpdateEntry(ctx context.Context, e *Entry) error

	// Rank is the entry's 1-indexed place among the event's waiting
	// entries, ordered by creation, or 0 when the entry is not waiting.
	Rank(ctx context.Context, e *Entry) (int64, error)
	CountByStatus(ctx context.Context, eventType EventType, eventID uint, statuses ...EntryStatus) (int64, error)
	NextWaiting(ctx context.Context, eventType EventType, eventID uint) (*Entry, error)
	ListEntries(ctx context.Context, eventType EventType, eventID uint, statuses ...EntryStatus) ([]Entry, error)
	// RecentOfferTimes returns the latest offer times, newest first.
	RecentOfferTimes(ctx context.Context, eventType EventType, eventID uint, limit int) ([]time.Time, error)

	// ExpireOffers marks the event's lapsed offers expired and returns them.
	ExpireOffers(ctx context.Context, eventType EventType, eventID uint, now time.Time) ([]Entry, error)
	// EventsWithLapsedOffers lists events holding offers past their deadline.
	EventsWithLapsedOffers(ctx context.Context, now time.Time) ([]EventKey, error)

	CountRegistrations(ctx context.Context, eventType EventType, eventID uint) (int64, error)
	// CreateRegistration returns an apperrors Conflict when the user already
	// holds a seat.
	CreateRegistration(ctx context.Context, reg *Registration) error
	// DeleteRegistration reports whether a seat was released.
	DeleteRegistration(ctx context.Context, userID uint, eventType EventType, eventID uint) (bool, error)
	// Registrar is bound to the same transaction.
	Registrar() Registrar

	WithTransaction(ctx context.Context, txFunc func(Repository) error) error
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates the waitlist tables and the one-active-entry index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entry{}, &Registration{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_waitlist_entries_one_active
		ON waitlist_entries (user_id, event_type, event_id)
		WHERE status IN ('waiting', 'offered') AND deleted_at IS NULL`).Error
}

func (r *GormRepository) WithTransaction(ctx context.Context, txFunc func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormRepository{db: tx})
	})
}

func (r *GormRepository) Registrar() Registrar {
	return &GormRegistrar{db: r.db}
}

func (r *GormRepository) CreateEntry(ctx context.Context, e *Entry) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if utils.IsUniqueViolation(err) {
		return apperrors.Conflict("user %d is already on the waitlist for %s %d", e.UserID, e.EventType, e.EventID)
	}
	return err
}

func (r *GormRepository) LockEvent(ctx context.Context, eventType EventType, eventID uint) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", LimitKey(eventType, eventID)).Error
}

func (r *GormRepository) GetActiveEntry(ctx context.Context, userID uint, eventType EventType, eventID uint, forUpdate bool) (*Entry, error) {
	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var e Entry
	err := db.Where("user_id = ? AND event_type = ? AND event_id = ? AND status IN ?",
		userID, eventType, eventID, []EntryStatus{StatusWaiting, StatusOffered}).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *GormRepository) UpdateEntry(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *GormRepository) eventScope(ctx context.Context, eventType EventType, eventID uint, statuses []EntryStatus) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&Entry{}).Where("event_type = ? AND event_id = ?", eventType, eventID)
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	return db
}

func (r *GormRepository) Rank(ctx context.Context, e *Entry) (int64, error) {
	if e.Status != StatusWaiting {
		return 0, nil
	}
	var n int64
	err := r.eventScope(ctx, e.EventType, e.EventID, []EntryStatus{StatusWaiting}).
		Where("created_at < ? OR (created_at = ? AND id <= ?)", e.CreatedAt, e.CreatedAt, e.ID).
		Count(&n).Error
	return n, err
}

func (r *GormRepository) CountByStatus(ctx context.Context, eventType EventType, eventID uint, statuses ...EntryStatus) (int64, error) {
	var n int64
	err := r.eventScope(ctx, eventType, eventID, statuses).Count(&n).Error
	return n, err
}

func (r *GormRepository) NextWaiting(ctx context.Context, eventType EventType, eventID uint) (*Entry, error) {
	var e Entry
	err := r.eventScope(ctx, eventType, eventID, []EntryStatus{StatusWaiting}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("created_at ASC, id ASC").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *GormRepository) ListEntries(ctx context.Context, eventType EventType, eventID uint, statuses ...EntryStatus) ([]Entry, error) {
	var entries []Entry
	err := r.eventScope(ctx, eventType, eventID, statuses).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *GormRepository) RecentOfferTimes(ctx context.Context, eventType EventType, eventID uint, limit int) ([]time.Time, error) {
	var times []time.Time
	err := r.eventScope(ctx, eventType, eventID, nil).
		Where("spot_offered_at IS NOT NULL").
		Order("spot_offered_at DESC").
		Limit(limit).
		Pluck("spot_offered_at", &times).Error
	return times, err
}

func (r *GormRepository) ExpireOffers(ctx context.Context, eventType EventType, eventID uint, now time.Time) ([]Entry, error) {
	var lapsed []Entry
	err := r.eventScope(ctx, eventType, eventID, []EntryStatus{StatusOffered}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("spot_expires_at <= ?", now).
		Find(&lapsed).Error
	if err != nil || len(lapsed) == 0 {
		return nil, err
	}

	ids := make([]uint, 0, len(lapsed))
	for i := range lapsed {
		ids = append(ids, lapsed[i].ID)
		lapsed[i].Status = StatusExpired
	}
	err = r.db.WithContext(ctx).Model(&Entry{}).
		Where("id IN ? AND status = ?", ids, StatusOffered).
		Update("status", StatusExpired).Error
	return lapsed, err
}

func (r *GormRepository) EventsWithLapsedOffers(ctx context.Context, now time.Time) ([]EventKey, error) {
	var keys []EventKey
	err := r.db.WithContext(ctx).Model(&Entry{}).
		Distinct("event_type", "event_id").
		Where("status = ? AND spot_expires_at <= ?", StatusOffered, now).
		Order("event_type, event_id").
		Scan(&keys).Error
	return keys, err
}

func (r *GormRepository) CountRegistrations(ctx context.Context, eventType EventType, eventID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Registration{}).
		Where("event_type = ? AND event_id = ?", eventType, eventID).
		Count(&n).Error
	return n, err
}

func (r *GormRepository) CreateRegistration(ctx context.Context, reg *Registration) error {
	return createRegistration(r.db.WithContext(ctx), reg)
}

// DeleteRegistration removes the row outright so the user can register
// again under the unique index.
func (r *GormRepository) DeleteRegistration(ctx context.Context, userID uint, eventType EventType, eventID uint) (bool, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND event_type = ? AND event_id = ?", userID, eventType, eventID).
		Delete(&Registration{})
	return res.RowsAffected > 0, res.Error
}

func createRegistration(db *gorm.DB, reg *Registration) error {
	err := db.Create(reg).Error
	if utils.IsUniqueViolation(err) {
		return apperrors.Conflict("user %d is already registered for %s %d", reg.UserID, reg.EventType, reg.EventID)
	}
	return err
}

// GormRegistrar writes event_registrations rows. It is the default
// Registrar when no registration service is wired in.
type GormRegistrar struct {
	db *gorm.DB
}

// NewGormRegistrar creates a new GormRegistrar
func NewGormRegistrar(db *gorm.DB) *GormRegistrar {
	return &GormRegistrar{db: db}
}

func (g *GormRegistrar) Finalize(ctx context.Context, userID uint, eventType EventType, eventID uint, eventSubID *uint) error {
	return createRegistration(g.db.WithContext(ctx), &Registration{
		UserID:     userID,
		EventType:  eventType,
		EventID:    eventID,
		EventSubID: eventSubID,
		Source:     SourceWaitlist,
	})
}
