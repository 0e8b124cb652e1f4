// Package profile is the user-profile collaborator: per-format ratings and
// win/loss counters. Games read it to snapshot ratings and write it when
// ratings are applied.
package profile

import (
	"context"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/rating"
	"gorm.io/gorm"
)

// PlayerRating is one user's standing in one game format.
type PlayerRating struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_player_rating_user_format"`
	GameFormat   string     `json:"game_format" gorm:"not null;uniqueIndex:idx_player_rating_user_format"`
	Rating       float64    `json:"rating" gorm:"type:numeric(7,2);not null;default:1500"`
	GamesPlayed  int        `json:"games_played" gorm:"not null;default:0"`
	Wins         int        `json:"wins" gorm:"not null;default:0"`
	Losses       int        `json:"losses" gorm:"not null;default:0"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}

// Profile is the read view handed to the rating code.
type Profile struct {
	UserID       uint       `json:"user_id"`
	GameFormat   string     `json:"game_format"`
	Rating       float64    `json:"rating"`
	GamesPlayed  int        `json:"games_played"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
	Confidence   float64    `json:"confidence"`
	Deviation    float64    `json:"deviation"`
}

// Store reads and writes player ratings. GetRating and GetProfile return
// defaults, not errors, for users with no row yet.
type Store interface {
	GetRating(ctx context.Context, userID uint, format string) (float64, error)
	GetProfile(ctx context.Context, userID uint, format string) (*Profile, error)
	ApplyRatingChange(ctx context.Context, userID uint, format string, newRating float64) error
	IncrementStats(ctx context.Context, userID uint, format string, won bool) error
}

// Default is the profile of a user who has never played the format.
func Default(userID uint, format string) *Profile {
	return &Profile{
		UserID:     userID,
		GameFormat: format,
		Rating:     rating.DefaultRating,
		Deviation:  rating.RatingDeviation(0, 0),
	}
}

// FromRow builds the read view, deriving confidence and deviation as of now.
func FromRow(row *PlayerRating, now time.Time) *Profile {
	p := &Profile{
		UserID:       row.UserID,
		GameFormat:   row.GameFormat,
		Rating:       row.Rating,
		GamesPlayed:  row.GamesPlayed,
		Wins:         row.Wins,
		Losses:       row.Losses,
		LastPlayedAt: row.LastPlayedAt,
		Confidence:   rating.RatingConfidence(row.GamesPlayed),
	}
	idleDays := 0.0
	if row.LastPlayedAt != nil {
		idleDays = now.Sub(*row.LastPlayedAt).Hours() / 24
	}
	p.Deviation = rating.RatingDeviation(row.GamesPlayed, idleDays)
	return p
}
