package memstore

import (
	"context"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/internal/rating"
)

// ProfileStore implements profile.Store.
type ProfileStore struct {
	view
}

var _ profile.Store = (*ProfileStore)(nil)

func (s *ProfileStore) row(userID uint, format string) (profile.PlayerRating, bool) {
	var row profile.PlayerRating
	var ok bool
	s.read(func(st *state) {
		row, ok = st.ratings[ratingKey{userID, format}]
	})
	return row, ok
}

func (s *ProfileStore) GetRating(_ context.Context, userID uint, format string) (float64, error) {
	if row, ok := s.row(userID, format); ok {
		return row.Rating, nil
	}
	return rating.DefaultRating, nil
}

func (s *ProfileStore) GetProfile(_ context.Context, userID uint, format string) (*profile.Profile, error) {
	if row, ok := s.row(userID, format); ok {
		return profile.FromRow(&row, s.clock()), nil
	}
	return profile.Default(userID, format), nil
}

// upsert loads or seeds the row, applies fn and stores it back.
func (s *ProfileStore) upsert(userID uint, format string, fn func(row *profile.PlayerRating, now time.Time)) error {
	return s.write(func(st *state, now time.Time) error {
		key := ratingKey{userID, format}
		row, ok := st.ratings[key]
		if !ok {
			row = profile.PlayerRating{UserID: userID, GameFormat: format, Rating: rating.DefaultRating}
			row.ID = st.nextID("player_ratings")
			row.CreatedAt = now
		}
		fn(&row, now)
		row.UpdatedAt = now
		st.ratings[key] = row
		return nil
	})
}

func (s *ProfileStore) ApplyRatingChange(_ context.Context, userID uint, format string, newRating float64) error {
	return s.upsert(userID, format, func(row *profile.PlayerRating, _ time.Time) {
		row.Rating = rating.Round2(rating.Clamp(newRating))
	})
}

func (s *ProfileStore) IncrementStats(_ context.Context, userID uint, format string, won bool) error {
	return s.upsert(userID, format, func(row *profile.PlayerRating, now time.Time) {
		row.GamesPlayed++
		if won {
			row.Wins++
		} else {
			row.Losses++
		}
		played := now
		row.LastPlayedAt = &played
	})
}

// SetRating seeds a user's rating.
func (s *ProfileStore) SetRating(userID uint, format string, r float64, gamesPlayed int) {
	_ = s.upsert(userID, format, func(row *profile.PlayerRating, _ time.Time) {
		row.Rating = r
		row.GamesPlayed = gamesPlayed
	})
}
