package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/DhavalSuthar-24/rally/pkg/utils"
)

// GameRepository implements game.Repository.
type GameRepository struct {
	view
}

var _ game.Repository = (*GameRepository)(nil)

func (r *GameRepository) WithTransaction(ctx context.Context, txFunc func(game.Repository) error) error {
	return r.transaction(ctx, func(v view) error {
		return txFunc(&GameRepository{v})
	})
}

func (r *GameRepository) Profiles() profile.Store {
	return &ProfileStore{r.view}
}

func (r *GameRepository) CreateGame(_ context.Context, g *game.Game) error {
	return r.write(func(st *state, now time.Time) error {
		g.ID = st.nextID("games")
		g.CreatedAt, g.UpdatedAt = now, now
		row := *g
		row.Participants = nil
		st.games[g.ID] = row
		return nil
	})
}

func (r *GameRepository) GetGame(_ context.Context, id uint) (*game.Game, error) {
	var out *game.Game
	r.read(func(st *state) {
		if row, ok := st.games[id]; ok {
			out = &row
		}
	})
	return out, nil
}

// LockGame is GetGame; the transaction already excludes other writers.
func (r *GameRepository) LockGame(ctx context.Context, id uint) (*game.Game, error) {
	return r.GetGame(ctx, id)
}

func (r *GameRepository) UpdateGame(_ context.Context, g *game.Game) error {
	return r.write(func(st *state, now time.Time) error {
		if _, ok := st.games[g.ID]; !ok {
			return apperrors.NotFound("game %d not found", g.ID)
		}
		g.UpdatedAt = now
		row := *g
		row.Participants = nil
		st.games[g.ID] = row
		return nil
	})
}

func (r *GameRepository) ListUserGames(_ context.Context, userID uint, status game.GameStatus, page, pageSize int) ([]game.Game, int64, error) {
	_, pageSize, offset := utils.NormalizePage(page, pageSize)

	var games []game.Game
	r.read(func(st *state) {
		mine := map[uint]bool{}
		for _, p := range st.participants {
			if p.UserID == userID {
				mine[p.GameID] = true
			}
		}
		for id := range mine {
			g := st.games[id]
			if status == "" || g.Status == status {
				g.Participants = participantsOf(st, id)
				games = append(games, g)
			}
		}
	})

	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.After(games[j].CreatedAt)
		}
		return games[i].ID > games[j].ID
	})
	total := int64(len(games))
	if offset >= len(games) {
		return []game.Game{}, total, nil
	}
	end := offset + pageSize
	if end > len(games) {
		end = len(games)
	}
	return games[offset:end], total, nil
}

func participantsOf(st *state, gameID uint) []game.Participant {
	var parts []game.Participant
	for _, p := range st.participants {
		if p.GameID == gameID {
			parts = append(parts, p)
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Team != parts[j].Team {
			return parts[i].Team < parts[j].Team
		}
		return parts[i].ID < parts[j].ID
	})
	return parts
}

func (r *GameRepository) AddParticipant(_ context.Context, p *game.Participant) error {
	return r.write(func(st *state, now time.Time) error {
		for _, existing := range st.participants {
			if existing.GameID == p.GameID && existing.UserID == p.UserID {
				return apperrors.Conflict("user %d is already in game %d", p.UserID, p.GameID)
			}
		}
		p.ID = st.nextID("game_participants")
		p.CreatedAt, p.UpdatedAt = now, now
		st.participants[p.ID] = *p
		return nil
	})
}

func (r *GameRepository) ListParticipants(_ context.Context, gameID uint, _ bool) ([]game.Participant, error) {
	var parts []game.Participant
	r.read(func(st *state) {
		parts = participantsOf(st, gameID)
	})
	return parts, nil
}

func (r *GameRepository) SetRatingChange(_ context.Context, participantID uint, delta float64) error {
	return r.write(func(st *state, now time.Time) error {
		p, ok := st.participants[participantID]
		if !ok || p.RatingChange != nil {
			return nil
		}
		d := delta
		p.RatingChange = &d
		p.UpdatedAt = now
		st.participants[participantID] = p
		return nil
	})
}

func (r *GameRepository) ConfirmParticipant(_ context.Context, gameID, userID uint, at time.Time) (bool, error) {
	changed := false
	err := r.write(func(st *state, now time.Time) error {
		for id, p := range st.participants {
			if p.GameID == gameID && p.UserID == userID && !p.IsConfirmed {
				confirmedAt := at
				p.IsConfirmed = true
				p.ConfirmedAt = &confirmedAt
				p.UpdatedAt = now
				st.participants[id] = p
				changed = true
			}
		}
		return nil
	})
	return changed, err
}

func (r *GameRepository) CountConfirmed(_ context.Context, gameID uint) (int64, error) {
	var n int64
	r.read(func(st *state) {
		for _, p := range st.participants {
			if p.GameID == gameID && p.IsConfirmed {
				n++
			}
		}
	})
	return n, nil
}
