package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/metrics"
	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/internal/rating"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

// Service owns the game state machine:
//
//	scheduled -> in_progress -> completed
//	scheduled | in_progress | completed -> cancelled (dispute)
//
// Cancelled is terminal.
type Service struct {
	repo    Repository
	events  *notify.Dispatcher
	metrics *metrics.Metrics
	log     *logrus.Entry
	now     func() time.Time
}

// NewService creates a new game service
func NewService(repo Repository, events *notify.Dispatcher, m *metrics.Metrics, log *logrus.Entry) *Service {
	if events == nil {
		events = notify.NewDispatcher(nil, nil, log)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		repo:    repo,
		events:  events,
		metrics: m,
		log:     log.WithField("component", "game"),
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateInput describes a new game.
type CreateInput struct {
	GameFormat  GameFormat
	GameType    GameType
	CourtID     *uint
	ScheduledAt *time.Time
	IsRated     bool
	Team1       []uint
	Team2       []uint
	CreatedBy   uint
}

func (in *CreateInput) normalize() error {
	if in.GameFormat == "" {
		in.GameFormat = FormatSingles
	}
	if in.GameType == "" {
		in.GameType = TypeCasual
	}
	if !in.GameFormat.Valid() {
		return apperrors.Validation("unknown game format %q", in.GameFormat)
	}
	if !in.GameType.Valid() {
		return apperrors.Validation("unknown game type %q", in.GameType)
	}
	if len(in.Team1) == 0 || len(in.Team2) == 0 {
		return apperrors.Validation("both teams need at least one player")
	}
	size := in.GameFormat.TeamSize()
	if len(in.Team1) > size || len(in.Team2) > size {
		return apperrors.Validation("%s allows at most %d players per team", in.GameFormat, size)
	}
	seen := make(map[uint]bool, len(in.Team1)+len(in.Team2))
	for _, id := range append(append([]uint{}, in.Team1...), in.Team2...) {
		if id == 0 {
			return apperrors.Validation("player id is required")
		}
		if seen[id] {
			return apperrors.Validation("player %d appears more than once", id)
		}
		seen[id] = true
	}
	return nil
}

// Create inserts the game and its participants in one transaction, then
// invites every player except the creator.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Game, error) {
	var game *Game
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		var err error
		game, err = s.CreateInTx(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.AfterCreate(ctx, game)
	return game, nil
}

// CreateInTx does the transactional part of Create on a repository the
// caller already opened a transaction on. The caller must invoke
// AfterCreate once the transaction commits.
func (s *Service) CreateInTx(ctx context.Context, tx Repository, in CreateInput) (*Game, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	status := StatusInProgress
	if in.ScheduledAt != nil {
		status = StatusScheduled
	}
	game := &Game{
		GameFormat:      in.GameFormat,
		GameType:        in.GameType,
		CourtID:         in.CourtID,
		ScheduledAt:     in.ScheduledAt,
		Status:          status,
		IsRated:         in.IsRated,
		CreatedByUserID: in.CreatedBy,
	}
	if err := tx.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	now := s.now()
	profiles := tx.Profiles()
	add := func(userID uint, team int) error {
		snapshot, err := profiles.GetRating(ctx, userID, string(in.GameFormat))
		if err != nil {
			return fmt.Errorf("read rating for user %d: %w", userID, err)
		}
		p := Participant{
			GameID:       game.ID,
			UserID:       userID,
			Team:         team,
			RatingAtGame: rating.Round2(snapshot),
		}
		if userID == in.CreatedBy {
			p.IsConfirmed = true
			p.ConfirmedAt = &now
		}
		if err := tx.AddParticipant(ctx, &p); err != nil {
			return err
		}
		game.Participants = append(game.Participants, p)
		return nil
	}
	for _, id := range in.Team1 {
		if err := add(id, 1); err != nil {
			return nil, err
		}
	}
	for _, id := range in.Team2 {
		if err := add(id, 2); err != nil {
			return nil, err
		}
	}
	return game, nil
}

// AfterCreate sends the best-effort invitations for a committed game.
func (s *Service) AfterCreate(ctx context.Context, game *Game) {
	s.metrics.GameCreated(string(game.GameFormat))

	var invited []uint
	for _, p := range game.Participants {
		if p.UserID != game.CreatedByUserID {
			invited = append(invited, p.UserID)
		}
	}
	s.events.Notify(ctx, invited, notify.TypeGameInvite,
		"You've been invited to a game",
		fmt.Sprintf("You have been added to a %s %s game.", game.GameType, game.GameFormat),
		map[string]interface{}{"game_id": game.ID, "created_by": game.CreatedByUserID})

	s.log.WithFields(logrus.Fields{
		"game_id": game.ID,
		"format":  game.GameFormat,
		"players": len(game.Participants),
	}).Info("game created")
}

// Get returns a game with its participants.
func (s *Service) Get(ctx context.Context, gameID uint) (*Game, error) {
	game, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperrors.NotFound("game %d not found", gameID)
	}
	game.Participants, err = s.repo.ListParticipants(ctx, gameID, false)
	if err != nil {
		return nil, err
	}
	return game, nil
}

// ListForUser returns a page of the user's games, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint, status GameStatus, page, pageSize int) ([]Game, int64, error) {
	return s.repo.ListUserGames(ctx, userID, status, page, pageSize)
}

// ScoreInput is the final result of a game. Sets is optional detail; when
// present the totals must be either the sets won or the summed points.
type ScoreInput struct {
	Team1Score int
	Team2Score int
	Sets       []SetScore
}

func checkSets(sets []SetScore, team1, team2 int) error {
	if len(sets) == 0 {
		return nil
	}
	var won1, won2, points1, points2 int
	for i, set := range sets {
		if set.Team1 < 0 || set.Team2 < 0 {
			return apperrors.Validation("set %d has a negative score", i+1)
		}
		if set.Team1 == set.Team2 {
			return apperrors.Validation("set %d is tied", i+1)
		}
		if set.Team1 > set.Team2 {
			won1++
		} else {
			won2++
		}
		points1 += set.Team1
		points2 += set.Team2
	}
	if (won1 > won2) != (team1 > team2) || won1 == won2 {
		return apperrors.Validation("sets won %d-%d disagree with the final score %d-%d", won1, won2, team1, team2)
	}
	bySets := team1 == won1 && team2 == won2
	byPoints := team1 == points1 && team2 == points2
	if !bySets && !byPoints {
		return apperrors.Validation("final score %d-%d matches neither sets won nor total points", team1, team2)
	}
	return nil
}

// RecordScore completes the game and, for rated games, applies rating
// changes in the same transaction.
func (s *Service) RecordScore(ctx context.Context, gameID uint, in ScoreInput, byUserID uint) (*Game, error) {
	if in.Team1Score < 0 || in.Team2Score < 0 {
		return nil, apperrors.Validation("scores cannot be negative")
	}
	if in.Team1Score == in.Team2Score {
		return nil, apperrors.Validation("tied scores are not allowed")
	}
	if err := checkSets(in.Sets, in.Team1Score, in.Team2Score); err != nil {
		return nil, err
	}
	winner := 2
	if in.Team1Score > in.Team2Score {
		winner = 1
	}

	var game *Game
	var applied bool
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		var err error
		game, err = tx.LockGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return apperrors.NotFound("game %d not found", gameID)
		}
		if !game.Status.Open() {
			return apperrors.InvalidState("game %d is already %s", gameID, game.Status)
		}
		parts, err := tx.ListParticipants(ctx, gameID, false)
		if err != nil {
			return err
		}
		if findParticipant(parts, byUserID) == nil {
			return apperrors.NotFound("participant not found")
		}

		now := s.now()
		sets := SetScores(in.Sets)
		if len(sets) == 0 {
			sets = SetScores{{Team1: in.Team1Score, Team2: in.Team2Score}}
		}
		t1, t2 := in.Team1Score, in.Team2Score
		game.Scores = sets
		game.Team1Score = &t1
		game.Team2Score = &t2
		game.WinningTeam = &winner
		game.ScoredByUserID = &byUserID
		game.Status = StatusCompleted
		game.CompletedAt = &now
		if err := tx.UpdateGame(ctx, game); err != nil {
			return fmt.Errorf("update game: %w", err)
		}

		if game.IsRated {
			applied, err = s.applyRatings(ctx, tx, game, winner)
			if err != nil {
				return fmt.Errorf("apply ratings: %w", err)
			}
		}
		game.Participants, err = tx.ListParticipants(ctx, gameID, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GameFinished(string(StatusCompleted))
	if applied {
		s.metrics.RatingsApplied()
	}
	payload := map[string]interface{}{
		"game_id":      game.ID,
		"team1_score":  in.Team1Score,
		"team2_score":  in.Team2Score,
		"winning_team": winner,
	}
	s.events.Emit(ctx, notify.EventScoreUpdated, payload)
	s.events.Emit(ctx, notify.EventGameEnded, payload)
	return game, nil
}

// UpdateRatings applies rating changes for a completed game. It is
// idempotent: it reports false without changing anything when the game's
// ratings were already applied.
func (s *Service) UpdateRatings(ctx context.Context, gameID uint, winningTeam int) (bool, error) {
	if winningTeam != 1 && winningTeam != 2 {
		return false, apperrors.Validation("winning team must be 1 or 2")
	}
	var applied bool
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		game, err := tx.LockGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return apperrors.NotFound("game %d not found", gameID)
		}
		if game.Status != StatusCompleted || game.WinningTeam == nil {
			return apperrors.InvalidState("game %d is %s, not completed", gameID, game.Status)
		}
		if *game.WinningTeam != winningTeam {
			return apperrors.Validation("game %d was won by team %d", gameID, *game.WinningTeam)
		}
		if !game.IsRated {
			return apperrors.InvalidState("game %d is not rated", gameID)
		}
		applied, err = s.applyRatings(ctx, tx, game, winningTeam)
		return err
	})
	if err != nil {
		return false, err
	}
	if applied {
		s.metrics.RatingsApplied()
	}
	return applied, nil
}

// applyRatings must run inside a transaction that holds the game's row lock.
func (s *Service) applyRatings(ctx context.Context, tx Repository, game *Game, winningTeam int) (bool, error) {
	if game.RatingsApplied {
		return false, nil
	}
	parts, err := tx.ListParticipants(ctx, game.ID, true)
	if err != nil {
		return false, err
	}
	for _, p := range parts {
		if p.RatingChange != nil {
			game.RatingsApplied = true
			return false, tx.UpdateGame(ctx, game)
		}
	}

	team1, team2 := TeamRatings(parts)
	if err := rating.Validate(team1...); err != nil {
		return false, fmt.Errorf("game %d team 1 snapshot: %w", game.ID, err)
	}
	if err := rating.Validate(team2...); err != nil {
		return false, fmt.Errorf("game %d team 2 snapshot: %w", game.ID, err)
	}
	avg := map[int]float64{1: rating.TeamRating(team1), 2: rating.TeamRating(team2)}
	format := string(game.GameFormat)
	profiles := tx.Profiles()

	for _, p := range parts {
		prof, err := profiles.GetProfile(ctx, p.UserID, format)
		if err != nil {
			return false, err
		}
		won := p.Team == winningTeam
		opponents := avg[3-p.Team]
		k := rating.KFactor(prof.GamesPlayed)
		delta := rating.Round2(rating.NewRating(p.RatingAtGame, opponents, won, k) - p.RatingAtGame)

		if err := tx.SetRatingChange(ctx, p.ID, delta); err != nil {
			return false, err
		}
		updated := rating.Round2(rating.Clamp(prof.Rating + delta))
		if err := profiles.ApplyRatingChange(ctx, p.UserID, format, updated); err != nil {
			return false, err
		}
		if err := profiles.IncrementStats(ctx, p.UserID, format, won); err != nil {
			return false, err
		}
		s.log.WithFields(logrus.Fields{
			"game_id":  game.ID,
			"user_id":  p.UserID,
			"snapshot": p.RatingAtGame,
			"delta":    delta,
			"rating":   updated,
		}).Debug("rating applied")
	}

	game.RatingsApplied = true
	if err := tx.UpdateGame(ctx, game); err != nil {
		return false, err
	}
	return true, nil
}

// VerifyResult reports a participant's confirmation. AlreadyConfirmed marks
// the idempotent repeat call.
type VerifyResult struct {
	GameID           uint  `json:"game_id"`
	Confirmed        int64 `json:"confirmed"`
	Total            int   `json:"total"`
	AlreadyConfirmed bool  `json:"already_confirmed"`
	FullyVerified    bool  `json:"fully_verified"`
}

// Verify confirms the user's participation. Repeat calls leave
// confirmed_at and the count unchanged.
func (s *Service) Verify(ctx context.Context, gameID, userID uint) (*VerifyResult, error) {
	res := &VerifyResult{GameID: gameID}
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		game, err := tx.LockGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return apperrors.NotFound("game %d not found", gameID)
		}
		if game.Status == StatusCancelled {
			return apperrors.InvalidState("game %d is cancelled", gameID)
		}
		parts, err := tx.ListParticipants(ctx, gameID, false)
		if err != nil {
			return err
		}
		if findParticipant(parts, userID) == nil {
			return apperrors.NotFound("participant not found")
		}
		changed, err := tx.ConfirmParticipant(ctx, gameID, userID, s.now())
		if err != nil {
			return err
		}
		res.AlreadyConfirmed = !changed
		res.Total = len(parts)
		res.Confirmed, err = tx.CountConfirmed(ctx, gameID)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.FullyVerified = res.Confirmed == int64(res.Total)

	if !res.AlreadyConfirmed {
		s.events.Emit(ctx, notify.EventVerified, map[string]interface{}{
			"game_id":   gameID,
			"user_id":   userID,
			"confirmed": res.Confirmed,
			"total":     res.Total,
		})
	}
	return res, nil
}

// Dispute cancels the game and records why. Applied rating changes are
// kept; the dispute annotation is what reviewers act on.
func (s *Service) Dispute(ctx context.Context, gameID, userID uint, reason string) (*Game, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation("a dispute reason is required")
	}

	var game *Game
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		var err error
		game, err = tx.LockGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return apperrors.NotFound("game %d not found", gameID)
		}
		if game.Status == StatusCancelled {
			return apperrors.InvalidState("game %d is already cancelled", gameID)
		}
		game.Participants, err = tx.ListParticipants(ctx, gameID, false)
		if err != nil {
			return err
		}
		if findParticipant(game.Participants, userID) == nil {
			return apperrors.NotFound("participant not found")
		}

		now := s.now()
		game.Status = StatusCancelled
		game.DisputeReason = reason
		game.DisputedByUserID = &userID
		game.DisputedAt = &now
		return tx.UpdateGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GameFinished(string(StatusCancelled))
	data := map[string]interface{}{"game_id": gameID, "disputed_by": userID, "reason": reason}
	s.events.Notify(ctx, userIDs(game.Participants), notify.TypeGameDisputed,
		"Game disputed", fmt.Sprintf("Game #%d was disputed: %s", gameID, reason), data)
	s.events.Emit(ctx, notify.EventDisputed, data)
	s.log.WithFields(logrus.Fields{"game_id": gameID, "user_id": userID}).Info("game disputed")
	return game, nil
}

// JoinGame adds the user to an open game as a confirmed participant.
func (s *Service) JoinGame(ctx context.Context, gameID, userID uint, team int) (*Participant, error) {
	if team != 1 && team != 2 {
		return nil, apperrors.Validation("team must be 1 or 2")
	}

	var joined Participant
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		game, err := tx.LockGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return apperrors.NotFound("game %d not found", gameID)
		}
		if !game.Status.Open() {
			return apperrors.InvalidState("game %d is %s", gameID, game.Status)
		}
		parts, err := tx.ListParticipants(ctx, gameID, false)
		if err != nil {
			return err
		}
		if findParticipant(parts, userID) != nil {
			return apperrors.Conflict("user %d is already in game %d", userID, gameID)
		}
		onTeam := 0
		for _, p := range parts {
			if p.Team == team {
				onTeam++
			}
		}
		if onTeam >= game.GameFormat.TeamSize() {
			return apperrors.InvalidState("team %d is full", team)
		}

		snapshot, err := tx.Profiles().GetRating(ctx, userID, string(game.GameFormat))
		if err != nil {
			return err
		}
		now := s.now()
		joined = Participant{
			GameID:       gameID,
			UserID:       userID,
			Team:         team,
			RatingAtGame: rating.Round2(snapshot),
			IsConfirmed:  true,
			ConfirmedAt:  &now,
		}
		return tx.AddParticipant(ctx, &joined)
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, notify.EventPlayerJoined, map[string]interface{}{
		"game_id": gameID,
		"user_id": userID,
		"team":    team,
	})
	return &joined, nil
}

// Preview describes how balanced a prospective game would be.
type Preview struct {
	Team1Rating   float64          `json:"team1_rating"`
	Team2Rating   float64          `json:"team2_rating"`
	Team1WinProb  float64          `json:"team1_win_probability"`
	MatchQuality  float64          `json:"match_quality"`
	Handicap      *rating.Handicap `json:"handicap,omitempty"`
	PlayerRatings map[uint]float64 `json:"player_ratings"`
}

// Preview scores a prospective matchup from current ratings.
func (s *Service) Preview(ctx context.Context, format GameFormat, team1, team2 []uint) (*Preview, error) {
	if format == "" {
		format = FormatSingles
	}
	if !format.Valid() {
		return nil, apperrors.Validation("unknown game format %q", format)
	}
	if len(team1) == 0 || len(team2) == 0 {
		return nil, apperrors.Validation("both teams need at least one player")
	}

	profiles := s.repo.Profiles()
	ratings := make(map[uint]float64, len(team1)+len(team2))
	collect := func(ids []uint) ([]float64, error) {
		out := make([]float64, 0, len(ids))
		for _, id := range ids {
			r, err := profiles.GetRating(ctx, id, string(format))
			if err != nil {
				return nil, err
			}
			ratings[id] = r
			out = append(out, r)
		}
		return out, nil
	}
	r1, err := collect(team1)
	if err != nil {
		return nil, err
	}
	r2, err := collect(team2)
	if err != nil {
		return nil, err
	}

	avg1, avg2 := rating.TeamRating(r1), rating.TeamRating(r2)
	return &Preview{
		Team1Rating:   rating.Round2(avg1),
		Team2Rating:   rating.Round2(avg2),
		Team1WinProb:  rating.ExpectedScore(avg1, avg2),
		MatchQuality:  rating.MatchQuality(r1, r2),
		Handicap:      rating.SuggestHandicap(r1, r2),
		PlayerRatings: ratings,
	}, nil
}
