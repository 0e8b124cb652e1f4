package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
)

// RequestRepository implements pairing.Repository.
type RequestRepository struct {
	view
}

var _ pairing.Repository = (*RequestRepository)(nil)

func (r *RequestRepository) WithTransaction(ctx context.Context, txFunc func(pairing.Repository) error) error {
	return r.transaction(ctx, func(v view) error {
		return txFunc(&RequestRepository{v})
	})
}

func (r *RequestRepository) Games() game.Repository {
	return &GameRepository{r.view}
}

func (r *RequestRepository) Profiles() profile.Store {
	return &ProfileStore{r.view}
}

func (r *RequestRepository) CreateRequest(_ context.Context, req *pairing.MatchRequest) error {
	return r.write(func(st *state, now time.Time) error {
		if req.Status == pairing.StatusPending {
			for _, other := range st.requests {
				if other.RequesterID == req.RequesterID && other.Status == pairing.StatusPending {
					return apperrors.Conflict("user %d already has a pending match request", req.RequesterID)
				}
			}
		}
		req.ID = st.nextID("match_requests")
		req.CreatedAt, req.UpdatedAt = now, now
		st.requests[req.ID] = *req
		return nil
	})
}

func (r *RequestRepository) GetRequest(_ context.Context, id uint) (*pairing.MatchRequest, error) {
	var out *pairing.MatchRequest
	r.read(func(st *state) {
		if row, ok := st.requests[id]; ok {
			out = &row
		}
	})
	return out, nil
}

func (r *RequestRepository) GetPendingForUser(_ context.Context, userID uint) (*pairing.MatchRequest, error) {
	var out *pairing.MatchRequest
	r.read(func(st *state) {
		for _, row := range st.requests {
			if row.RequesterID == userID && row.Status == pairing.StatusPending {
				row := row
				out = &row
				return
			}
		}
	})
	return out, nil
}

func (r *RequestRepository) LockRequests(_ context.Context, ids ...uint) ([]pairing.MatchRequest, error) {
	var out []pairing.MatchRequest
	r.read(func(st *state) {
		for _, id := range ids {
			if row, ok := st.requests[id]; ok {
				out = append(out, row)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RequestRepository) ListCandidates(_ context.Context, gameType game.GameType, format game.GameFormat, excludeUser uint, now time.Time) ([]pairing.MatchRequest, error) {
	var out []pairing.MatchRequest
	r.read(func(st *state) {
		for _, row := range st.requests {
			if row.Status == pairing.StatusPending && row.GameType == gameType && row.GameFormat == format &&
				row.RequesterID != excludeUser && row.ExpiresAt.After(now) {
				out = append(out, row)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *RequestRepository) MarkMatched(_ context.Context, id, gameID, otherRequestID uint) (bool, error) {
	changed := false
	err := r.write(func(st *state, now time.Time) error {
		row, ok := st.requests[id]
		if !ok || row.Status != pairing.StatusPending {
			return nil
		}
		g, other := gameID, otherRequestID
		row.Status = pairing.StatusMatched
		row.MatchedGameID = &g
		row.MatchedRequestID = &other
		row.UpdatedAt = now
		st.requests[id] = row
		changed = true
		return nil
	})
	return changed, err
}

func (r *RequestRepository) SetStatus(_ context.Context, id uint, from, to pairing.RequestStatus) (bool, error) {
	changed := false
	err := r.write(func(st *state, now time.Time) error {
		row, ok := st.requests[id]
		if !ok || row.Status != from {
			return nil
		}
		row.Status = to
		row.UpdatedAt = now
		st.requests[id] = row
		changed = true
		return nil
	})
	return changed, err
}

func (r *RequestRepository) ExpireStale(_ context.Context, userID uint, now time.Time) (int64, error) {
	var n int64
	err := r.write(func(st *state, at time.Time) error {
		for id, row := range st.requests {
			if row.Status != pairing.StatusPending || row.ExpiresAt.After(now) {
				continue
			}
			if userID != 0 && row.RequesterID != userID {
				continue
			}
			row.Status = pairing.StatusExpired
			row.UpdatedAt = at
			st.requests[id] = row
			n++
		}
		return nil
	})
	return n, err
}
