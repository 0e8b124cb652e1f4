package pairing

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/DhavalSuthar-24/rally/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines methods to interact with match requests. Get methods
// return (nil, nil) when the row does not exist.
type Repository interface {
	// CreateRequest returns an apperrors Conflict when the requester already
	// holds a pending request.
	CreateRequest(ctx context.Context, req *MatchRequest) error
	GetRequest(ctx context.Context, id uint) (*MatchRequest, error)
	GetPendingForUser(ctx context.Context, userID uint) (*MatchRequest, error)
	// LockRequests loads the requests in id order and holds their row locks
	// until the transaction ends.
	LockRequests(ctx context.Context, ids ...uint) ([]MatchRequest, error)
	// ListCandidates returns other users' live pending requests of the same
	// type and format, oldest first.
	ListCandidates(ctx context.Context, gameType game.GameType, format game.GameFormat, excludeUser uint, now time.Time) ([]MatchRequest, error)

	// MarkMatched moves a pending request to matched and reports whether it
	// changed. A false result means another caller consumed it first.
	MarkMatched(ctx context.Context, id, gameID, otherRequestID uint) (bool, error)
	// SetStatus moves a request from one status to another, conditionally.
	SetStatus(ctx context.Context, id uint, from, to RequestStatus) (bool, error)
	// ExpireStale expires pending requests past their expiry. A non-zero
	// userID limits the sweep to that user.
	ExpireStale(ctx context.Context, userID uint, now time.Time) (int64, error)

	// Games and Profiles are bound to the same transaction.
	Games() game.Repository
	Profiles() profile.Store

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

// Migrate creates the match_requests table and its one-pending-per-user index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&MatchRequest{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_match_requests_one_pending
		ON match_requests (requester_id) WHERE status = 'pending' AND deleted_at IS NULL`).Error
}

func (r *GormRepository) WithTransaction(ctx context.Context, txFunc func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormRepository{db: tx})
	})
}

func (r *GormRepository) Games() game.Repository {
	return game.NewGormRepository(r.db)
}

func (r *GormRepository) Profiles() profile.Store {
	return profile.NewGormStore(r.db)
}

func (r *GormRepository) CreateRequest(ctx context.Context, req *MatchRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if utils.IsUniqueViolation(err) {
		return apperrors.Conflict("user %d already has a pending match request", req.RequesterID)
	}
	return err
}

func (r *GormRepository) GetRequest(ctx context.Context, id uint) (*MatchRequest, error) {
	var req MatchRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *GormRepository) GetPendingForUser(ctx context.Context, userID uint) (*MatchRequest, error) {
	var req MatchRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, StatusPending).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *GormRepository) LockRequests(ctx context.Context, ids ...uint) ([]MatchRequest, error) {
	var reqs []MatchRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *GormRepository) ListCandidates(ctx context.Context, gameType game.GameType, format game.GameFormat, excludeUser uint, now time.Time) ([]MatchRequest, error) {
	var reqs []MatchRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND game_type = ? AND game_format = ? AND requester_id <> ? AND expires_at > ?",
			StatusPending, gameType, format, excludeUser, now).
		Order("created_at ASC, id ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *GormRepository) MarkMatched(ctx context.Context, id, gameID, otherRequestID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&MatchRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":             StatusMatched,
			"matched_game_id":    gameID,
			"matched_request_id": otherRequestID,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepository) SetStatus(ctx context.Context, id uint, from, to RequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&MatchRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepository) ExpireStale(ctx context.Context, userID uint, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&MatchRequest{}).
		Where("status = ? AND expires_at <= ?", StatusPending, now)
	if userID != 0 {
		query = query.Where("requester_id = ?", userID)
	}
	res := query.Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}
