package pairing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/metrics"
	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/internal/rating"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultExpiresInHours = 24
	MaxExpiresInHours     = 168
)

// Service pairs players holding compatible match requests.
type Service struct {
	repo    Repository
	games   *game.Service
	events  *notify.Dispatcher
	metrics *metrics.Metrics
	log     *logrus.Entry
	now     func() time.Time
}

// NewService creates a new pairing service. Games are created through the
// game service inside the pairing transaction.
func NewService(repo Repository, games *game.Service, events *notify.Dispatcher, m *metrics.Metrics, log *logrus.Entry) *Service {
	if events == nil {
		events = notify.NewDispatcher(nil, nil, log)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		repo:    repo,
		games:   games,
		events:  events,
		metrics: m,
		log:     log.WithField("component", "pairing"),
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateRequestInput describes a new match request. Skill bounds and
// location are optional.
type CreateRequestInput struct {
	UserID         uint
	GameType       game.GameType
	GameFormat     game.GameFormat
	MinSkill       *float64
	MaxSkill       *float64
	Latitude       *float64
	Longitude      *float64
	MaxDistanceKm  *float64
	ExpiresInHours int
}

func (in *CreateRequestInput) normalize() error {
	if in.UserID == 0 {
		return apperrors.Validation("user id is required")
	}
	if in.GameType == "" {
		in.GameType = game.TypeCasual
	}
	if in.GameFormat == "" {
		in.GameFormat = game.FormatSingles
	}
	if !in.GameType.Valid() {
		return apperrors.Validation("unknown game type %q", in.GameType)
	}
	if !in.GameFormat.Valid() {
		return apperrors.Validation("unknown game format %q", in.GameFormat)
	}
	if in.ExpiresInHours == 0 {
		in.ExpiresInHours = DefaultExpiresInHours
	}
	if in.ExpiresInHours < 0 || in.ExpiresInHours > MaxExpiresInHours {
		return apperrors.Validation("expires_in_hours must be between 1 and %d", MaxExpiresInHours)
	}

	for _, v := range []*float64{in.MinSkill, in.MaxSkill} {
		if v != nil && !rating.InRange(*v) {
			return apperrors.Validation("skill bounds must lie in [%.0f, %.0f]", rating.MinRating, rating.MaxRating)
		}
	}
	if in.MinSkill != nil && in.MaxSkill != nil && *in.MinSkill > *in.MaxSkill {
		return apperrors.Validation("min_skill cannot exceed max_skill")
	}

	if (in.Latitude == nil) != (in.Longitude == nil) {
		return apperrors.Validation("latitude and longitude must be given together")
	}
	if in.Latitude != nil {
		if math.IsNaN(*in.Latitude) || *in.Latitude < -90 || *in.Latitude > 90 {
			return apperrors.Validation("latitude must be between -90 and 90")
		}
		if math.IsNaN(*in.Longitude) || *in.Longitude < -180 || *in.Longitude > 180 {
			return apperrors.Validation("longitude must be between -180 and 180")
		}
	}
	if in.MaxDistanceKm != nil && !(*in.MaxDistanceKm > 0) {
		return apperrors.Validation("max_distance_km must be positive")
	}
	return nil
}

// CreateRequest opens a match request. A user's stale pending request is
// expired first; a live one makes this a Conflict.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*MatchRequest, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	req := &MatchRequest{
		RequesterID:   in.UserID,
		GameType:      in.GameType,
		GameFormat:    in.GameFormat,
		MinSkill:      in.MinSkill,
		MaxSkill:      in.MaxSkill,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		MaxDistanceKm: in.MaxDistanceKm,
		Status:        StatusPending,
		ExpiresAt:     now.Add(time.Duration(in.ExpiresInHours) * time.Hour),
	}
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		if _, err := tx.ExpireStale(ctx, in.UserID, now); err != nil {
			return err
		}
		return tx.CreateRequest(ctx, req)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.metrics.MatchRequest("conflict")
		}
		return nil, err
	}

	s.metrics.MatchRequest("created")
	s.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"user_id":    in.UserID,
		"game_type":  in.GameType,
	}).Info("match request created")
	return req, nil
}

// GetMyRequest returns the user's live pending request.
func (s *Service) GetMyRequest(ctx context.Context, userID uint) (*MatchRequest, error) {
	req, err := s.repo.GetPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NotFound("no pending match request")
	}
	if !req.ActiveAt(s.now()) {
		if _, err := s.repo.SetStatus(ctx, req.ID, StatusPending, StatusExpired); err != nil {
			return nil, err
		}
		return nil, apperrors.NotFound("no pending match request")
	}
	return req, nil
}

// GetSuggestions ranks other pending requests against the caller's.
// Candidates must accept each other's current rating and, when both sides
// have a location, be within the tighter of their distance limits.
func (s *Service) GetSuggestions(ctx context.Context, userID uint) ([]Suggestion, error) {
	own, err := s.GetMyRequest(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidates, err := s.repo.ListCandidates(ctx, own.GameType, own.GameFormat, userID, now)
	if err != nil {
		return nil, err
	}

	profiles := s.repo.Profiles()
	format := string(own.GameFormat)
	mine, err := profiles.GetRating(ctx, userID, format)
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		theirs, err := profiles.GetRating(ctx, c.RequesterID, format)
		if err != nil {
			return nil, err
		}
		if !own.Accepts(theirs) || !c.Accepts(mine) {
			continue
		}

		var dist *float64
		if own.HasGeo() && c.HasGeo() {
			d := HaversineKm(*own.Latitude, *own.Longitude, *c.Latitude, *c.Longitude)
			if limit := distanceLimit(own, c); limit != nil && d > *limit {
				continue
			}
			d = math.Round(d*100) / 100
			dist = &d
		}

		out = append(out, Suggestion{
			Request:      *c,
			Rating:       theirs,
			MatchQuality: rating.MatchQuality([]float64{mine}, []float64{theirs}),
			DistanceKm:   dist,
			Score:        CompositeScore(mine, theirs, dist),
		})
	}
	rank(out)
	return out, nil
}

// AcceptResult is the outcome of a successful pairing.
type AcceptResult struct {
	Game     *game.Game     `json:"game"`
	Requests []MatchRequest `json:"requests"`
}

// AcceptMatch pairs two pending requests into a new game. The caller must
// own one of them. Of several concurrent calls on the same pair exactly one
// succeeds; the others get a Conflict.
func (s *Service) AcceptMatch(ctx context.Context, userID, requestID, matchedRequestID uint) (*AcceptResult, error) {
	if requestID == matchedRequestID {
		return nil, apperrors.Validation("cannot match a request with itself")
	}

	res := &AcceptResult{}
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		reqs, err := tx.LockRequests(ctx, requestID, matchedRequestID)
		if err != nil {
			return err
		}
		if len(reqs) != 2 {
			return apperrors.NotFound("match request not found")
		}
		first, second := &reqs[0], &reqs[1]
		if first.ID != requestID {
			first, second = second, first
		}
		if first.RequesterID != userID && second.RequesterID != userID {
			return apperrors.NotFound("match request not found")
		}
		if first.RequesterID == second.RequesterID {
			return apperrors.Validation("cannot match two requests from the same user")
		}

		now := s.now()
		for _, r := range []*MatchRequest{first, second} {
			switch {
			case r.Status == StatusMatched:
				return apperrors.Conflict("match request %d was already matched", r.ID)
			case r.Status != StatusPending:
				return apperrors.InvalidState("match request %d is %s", r.ID, r.Status)
			case !r.ActiveAt(now):
				return apperrors.InvalidState("match request %d has expired", r.ID)
			}
		}
		if !first.Compatible(second) {
			return apperrors.Validation("match requests are for different game types")
		}

		g, err := s.games.CreateInTx(ctx, tx.Games(), game.CreateInput{
			GameFormat: first.GameFormat,
			GameType:   first.GameType,
			IsRated:    true,
			Team1:      []uint{first.RequesterID},
			Team2:      []uint{second.RequesterID},
			CreatedBy:  userID,
		})
		if err != nil {
			return fmt.Errorf("create game: %w", err)
		}

		for _, pair := range [][2]*MatchRequest{{first, second}, {second, first}} {
			ok, err := tx.MarkMatched(ctx, pair[0].ID, g.ID, pair[1].ID)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.Conflict("match request %d was already matched", pair[0].ID)
			}
			pair[0].Status = StatusMatched
			pair[0].MatchedGameID = &g.ID
			pair[0].MatchedRequestID = &pair[1].ID
		}
		res.Game = g
		res.Requests = []MatchRequest{*first, *second}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.metrics.AcceptConflict()
		}
		return nil, err
	}

	s.games.AfterCreate(ctx, res.Game)
	s.metrics.MatchAccepted()

	players := []uint{res.Requests[0].RequesterID, res.Requests[1].RequesterID}
	data := map[string]interface{}{
		"game_id":     res.Game.ID,
		"request_ids": []uint{res.Requests[0].ID, res.Requests[1].ID},
		"players":     players,
	}
	s.events.Notify(ctx, players, notify.TypeMatchFound, "Match found",
		fmt.Sprintf("You have been matched for a %s game.", res.Game.GameType), data)
	s.events.Emit(ctx, notify.EventMatchFound, data)
	s.log.WithFields(logrus.Fields{
		"game_id":  res.Game.ID,
		"requests": data["request_ids"],
	}).Info("match accepted")
	return res, nil
}

// Cancel withdraws the user's pending request. A request already past its
// expiry is marked expired instead and reported as not found.
func (s *Service) Cancel(ctx context.Context, requestID, userID uint) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.RequesterID != userID || req.Status != StatusPending {
		return apperrors.NotFound("pending match request %d not found", requestID)
	}
	if !req.ActiveAt(s.now()) {
		if _, err := s.repo.SetStatus(ctx, requestID, StatusPending, StatusExpired); err != nil {
			return err
		}
		return apperrors.NotFound("pending match request %d not found", requestID)
	}
	ok, err := s.repo.SetStatus(ctx, requestID, StatusPending, StatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("pending match request %d not found", requestID)
	}
	s.metrics.MatchRequest("cancelled")
	return nil
}

// ExpireStale marks every pending request past its expiry as expired.
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireStale(ctx, 0, s.now())
	if err != nil {
		return 0, err
	}
	s.metrics.SweepExpired("match_request", n)
	return n, nil
}
