package waitlist

import (
	"time"

	"gorm.io/gorm"
)

type EventType string

const (
	EventTournament EventType = "tournament"
	EventLeague     EventType = "league"
)

func (t EventType) Valid() bool {
	return t == EventTournament || t == EventLeague
}

type EntryStatus string

const (
	StatusWaiting  EntryStatus = "waiting"
	StatusOffered  EntryStatus = "offered"
	StatusAccepted EntryStatus = "accepted"
	StatusDeclined EntryStatus = "declined"
	StatusExpired  EntryStatus = "expired"
)

// Active reports whether the entry still holds a place in line.
func (s EntryStatus) Active() bool {
	return s == StatusWaiting || s == StatusOffered
}

// Entry is one user's place in an event's waitlist. A user holds at most
// one active entry per event.
type Entry struct {
	gorm.Model
	UserID        uint        `json:"user_id" gorm:"not null;index"`
	EventType     EventType   `json:"event_type" gorm:"not null;index:idx_waitlist_event"`
	EventID       uint        `json:"event_id" gorm:"not null;index:idx_waitlist_event"`
	EventSubID    *uint       `json:"event_sub_id,omitempty"`
	Status        EntryStatus `json:"status" gorm:"not null;index"`
	SpotOfferedAt *time.Time  `json:"spot_offered_at,omitempty"`
	SpotExpiresAt *time.Time  `json:"spot_expires_at,omitempty" gorm:"index"`
}

func (Entry) TableName() string {
	return "waitlist_entries"
}

// OfferExpired reports whether an offered entry is past its deadline.
func (e *Entry) OfferExpired(now time.Time) bool {
	return e.Status == StatusOffered && e.SpotExpiresAt != nil && !now.Before(*e.SpotExpiresAt)
}

// Registration sources.
const (
	SourceDirect   = "direct"
	SourceWaitlist = "waitlist"
)

// Registration is a finalized seat in an event.
type Registration struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_event_registration"`
	EventType  EventType `json:"event_type" gorm:"not null;uniqueIndex:idx_event_registration"`
	EventID    uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_registration"`
	EventSubID *uint     `json:"event_sub_id,omitempty"`
	Source     string    `json:"source" gorm:"not null;default:'waitlist'"`
}

func (Registration) TableName() string {
	return "event_registrations"
}

// Position is a user's standing in an event's waitlist.
type Position struct {
	EntryID uint `json:"entry_id"`
	// Position is the rank among waiting entries, 0 once a spot is offered.
	Position int64 `json:"position"`
	// Total counts the entries still waiting.
	Total         int64       `json:"total"`
	Status        EntryStatus `json:"status"`
	SpotOfferedAt *time.Time  `json:"spot_offered_at,omitempty"`
	SpotExpiresAt *time.Time  `json:"spot_expires_at,omitempty"`
	// EstimatedWait is a rough figure in seconds; zero once offered.
	EstimatedWait int64 `json:"estimated_wait_seconds"`
}
