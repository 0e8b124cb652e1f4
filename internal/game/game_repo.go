package game

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/DhavalSuthar-24/rally/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines methods to interact with game data. Get/Lock methods
// return (nil, nil) when the row does not exist.
type Repository interface {
	CreateGame(ctx context.Context, game *Game) error
	GetGame(ctx context.Context, id uint) (*Game, error)
	// LockGame loads the game and holds its row lock until the transaction ends.
	LockGame(ctx context.Context, id uint) (*Game, error)
	UpdateGame(ctx context.Context, game *Game) error
	ListUserGames(ctx context.Context, userID uint, status GameStatus, page, pageSize int) ([]Game, int64, error)

	// AddParticipant returns an apperrors Conflict when the user is already in the game.
	AddParticipant(ctx context.Context, p *Participant) error
	ListParticipants(ctx context.Context, gameID uint, forUpdate bool) ([]Participant, error)
	SetRatingChange(ctx context.Context, participantID uint, delta float64) error
	// ConfirmParticipant confirms an unconfirmed participant and reports
	// whether a row changed.
	ConfirmParticipant(ctx context.Context, gameID, userID uint, at time.Time) (bool, error)
	CountConfirmed(ctx context.Context, gameID uint) (int64, error)

	// Profiles returns the profile store bound to the same transaction.
	Profiles() profile.Store

	// Transaction support
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

// WithTransaction runs txFunc in a transaction; nested calls use savepoints.
func (r *GormRepository) WithTransaction(ctx context.Context, txFunc func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormRepository{db: tx})
	})
}

func (r *GormRepository) Profiles() profile.Store {
	return profile.NewGormStore(r.db)
}

func (r *GormRepository) CreateGame(ctx context.Context, game *Game) error {
	return r.db.WithContext(ctx).Omit("Participants").Create(game).Error
}

func (r *GormRepository) GetGame(ctx context.Context, id uint) (*Game, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *GormRepository) LockGame(ctx context.Context, id uint) (*Game, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormRepository) first(db *gorm.DB, id uint) (*Game, error) {
	var game Game
	if err := db.First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

func (r *GormRepository) UpdateGame(ctx context.Context, game *Game) error {
	return r.db.WithContext(ctx).Omit("Participants").Save(game).Error
}

// ListUserGames returns the games a user played in, newest first.
func (r *GormRepository) ListUserGames(ctx context.Context, userID uint, status GameStatus, page, pageSize int) ([]Game, int64, error) {
	_, pageSize, offset := utils.NormalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&Game{}).
		Joins("JOIN game_participants ON game_participants.game_id = games.id AND game_participants.deleted_at IS NULL").
		Where("game_participants.user_id = ?", userID)
	if status != "" {
		query = query.Where("games.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var games []Game
	err := query.Preload("Participants").
		Order("games.created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&games).Error
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func (r *GormRepository) AddParticipant(ctx context.Context, p *Participant) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if utils.IsUniqueViolation(err) {
		return apperrors.Conflict("user %d is already in game %d", p.UserID, p.GameID)
	}
	return err
}

func (r *GormRepository) ListParticipants(ctx context.Context, gameID uint, forUpdate bool) ([]Participant, error) {
	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var parts []Participant
	err := db.Where("game_id = ?", gameID).Order("team ASC, id ASC").Find(&parts).Error
	return parts, err
}

func (r *GormRepository) SetRatingChange(ctx context.Context, participantID uint, delta float64) error {
	return r.db.WithContext(ctx).Model(&Participant{}).
		Where("id = ? AND rating_change IS NULL", participantID).
		Update("rating_change", delta).Error
}

func (r *GormRepository) ConfirmParticipant(ctx context.Context, gameID, userID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Participant{}).
		Where("game_id = ? AND user_id = ? AND is_confirmed = ?", gameID, userID, false).
		Updates(map[string]interface{}{
			"is_confirmed": true,
			"confirmed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepository) CountConfirmed(ctx context.Context, gameID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Participant{}).
		Where("game_id = ? AND is_confirmed = ?", gameID, true).
		Count(&n).Error
	return n, err
}
