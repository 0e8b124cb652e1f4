package profile

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/rating"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on the player_ratings table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) find(ctx context.Context, userID uint, format string) (*PlayerRating, error) {
	var row PlayerRating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game_format = ?", userID, format).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) GetRating(ctx context.Context, userID uint, format string) (float64, error) {
	row, err := s.find(ctx, userID, format)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return rating.DefaultRating, nil
	}
	return row.Rating, nil
}

func (s *GormStore) GetProfile(ctx context.Context, userID uint, format string) (*Profile, error) {
	row, err := s.find(ctx, userID, format)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return Default(userID, format), nil
	}
	return FromRow(row, time.Now()), nil
}

// ApplyRatingChange upserts the user's rating for the format.
func (s *GormStore) ApplyRatingChange(ctx context.Context, userID uint, format string, newRating float64) error {
	row := PlayerRating{
		UserID:     userID,
		GameFormat: format,
		Rating:     rating.Round2(rating.Clamp(newRating)),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_format"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&row).Error
}

// IncrementStats bumps games played and the win or loss counter.
func (s *GormStore) IncrementStats(ctx context.Context, userID uint, format string, won bool) error {
	db := s.db.WithContext(ctx)
	seed := PlayerRating{UserID: userID, GameFormat: format, Rating: rating.DefaultRating}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return err
	}

	counter := "losses"
	if won {
		counter = "wins"
	}
	return db.Model(&PlayerRating{}).
		Where("user_id = ? AND game_format = ?", userID, format).
		Updates(map[string]interface{}{
			"games_played":   gorm.Expr("games_played + 1"),
			counter:          gorm.Expr(counter + " + 1"),
			"last_played_at": time.Now(),
		}).Error
}
