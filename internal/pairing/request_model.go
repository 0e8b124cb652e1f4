package pairing

import (
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusMatched   RequestStatus = "matched"
	StatusCancelled RequestStatus = "cancelled"
	StatusExpired   RequestStatus = "expired"
)

// MatchRequest is a user's open ask for an opponent. A user holds at most
// one pending request; the partial unique index enforces it.
type MatchRequest struct {
	gorm.Model
	RequesterID   uint            `json:"requester_id" gorm:"not null;index"`
	GameType      game.GameType   `json:"game_type" gorm:"not null;index"`
	GameFormat    game.GameFormat `json:"game_format" gorm:"not null;default:'singles'"`
	MinSkill      *float64        `json:"min_skill,omitempty" gorm:"type:numeric(7,2)"`
	MaxSkill      *float64        `json:"max_skill,omitempty" gorm:"type:numeric(7,2)"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	MaxDistanceKm *float64        `json:"max_distance_km,omitempty"`
	Status        RequestStatus   `json:"status" gorm:"not null;index"`
	ExpiresAt     time.Time       `json:"expires_at" gorm:"not null;index"`

	MatchedGameID    *uint `json:"matched_game_id,omitempty"`
	MatchedRequestID *uint `json:"matched_request_id,omitempty"`
}

func (MatchRequest) TableName() string {
	return "match_requests"
}

// HasGeo reports whether the request carries a location.
func (r *MatchRequest) HasGeo() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// ActiveAt reports whether the request is pending and unexpired at now.
func (r *MatchRequest) ActiveAt(now time.Time) bool {
	return r.Status == StatusPending && now.Before(r.ExpiresAt)
}

// Accepts reports whether a player rated r falls inside the request's
// declared skill range. Open bounds accept anything.
func (r *MatchRequest) Accepts(rating float64) bool {
	if r.MinSkill != nil && rating < *r.MinSkill {
		return false
	}
	if r.MaxSkill != nil && rating > *r.MaxSkill {
		return false
	}
	return true
}

// Compatible reports whether two requests can be paired into one game.
func (r *MatchRequest) Compatible(other *MatchRequest) bool {
	return r.GameType == other.GameType && r.GameFormat == other.GameFormat
}
