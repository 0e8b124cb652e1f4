package pairing_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/memstore"
	"github.com/DhavalSuthar-24/rally/internal/metrics"
	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memstore.Store
	svc     *pairing.Service
	rec     *notify.Recorder
	metrics *metrics.Metrics
	reg     *prometheus.Registry
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	f := &fixture{
		store:   memstore.New(),
		rec:     &notify.Recorder{},
		metrics: metrics.New(reg),
		reg:     reg,
		now:     time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.store.SetClock(clock)
	events := notify.NewDispatcher(f.rec, f.rec, nil)
	games := game.NewService(f.store.Games(), events, f.metrics, nil)
	games.SetClock(clock)
	f.svc = pairing.NewService(f.store.Requests(), games, events, f.metrics, nil)
	f.svc.SetClock(clock)
	return f
}

func ptr(v float64) *float64 { return &v }

func (f *fixture) request(t *testing.T, in pairing.CreateRequestInput) *pairing.MatchRequest {
	t.Helper()
	if in.GameType == "" {
		in.GameType = game.TypeCompetitive
	}
	req, err := f.svc.CreateRequest(context.Background(), in)
	require.NoError(t, err)
	return req
}

func (f *fixture) countGames(t *testing.T) int {
	t.Helper()
	n := 0
	for id := uint(1); id <= 20; id++ {
		g, err := f.store.Games().GetGame(context.Background(), id)
		require.NoError(t, err)
		if g != nil {
			n++
		}
	}
	return n
}

func TestCreateRequestValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		in   pairing.CreateRequestInput
	}{
		{"min above max", pairing.CreateRequestInput{UserID: 1, MinSkill: ptr(1800), MaxSkill: ptr(1200)}},
		{"skill off scale", pairing.CreateRequestInput{UserID: 1, MaxSkill: ptr(5000)}},
		{"latitude without longitude", pairing.CreateRequestInput{UserID: 1, Latitude: ptr(10)}},
		{"latitude out of range", pairing.CreateRequestInput{UserID: 1, Latitude: ptr(91), Longitude: ptr(0)}},
		{"non-positive distance", pairing.CreateRequestInput{UserID: 1, MaxDistanceKm: ptr(0)}},
		{"expiry too long", pairing.CreateRequestInput{UserID: 1, ExpiresInHours: pairing.MaxExpiresInHours + 1}},
		{"unknown type", pairing.CreateRequestInput{UserID: 1, GameType: "friendly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(context.Background(), tt.in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateRequestOnePendingPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.request(t, pairing.CreateRequestInput{UserID: 1, ExpiresInHours: 1})
	assert.Equal(t, pairing.StatusPending, first.Status)
	assert.Equal(t, f.now.Add(time.Hour), first.ExpiresAt)

	_, err := f.svc.CreateRequest(ctx, pairing.CreateRequestInput{UserID: 1})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// A stale request no longer blocks a new one.
	f.now = f.now.Add(2 * time.Hour)
	second := f.request(t, pairing.CreateRequestInput{UserID: 1})
	assert.NotEqual(t, first.ID, second.ID)

	old, err := f.store.Requests().GetRequest(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, pairing.StatusExpired, old.Status)

	expected := `
# HELP rally_pairing_requests_total Match requests by outcome.
# TYPE rally_pairing_requests_total counter
rally_pairing_requests_total{outcome="conflict"} 1
rally_pairing_requests_total{outcome="created"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "rally_pairing_requests_total"))
}

func TestGetMyRequestExpiresLazily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, pairing.CreateRequestInput{UserID: 3, ExpiresInHours: 2})

	got, err := f.svc.GetMyRequest(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	f.now = f.now.Add(3 * time.Hour)
	_, err = f.svc.GetMyRequest(ctx, 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	stored, err := f.store.Requests().GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, pairing.StatusExpired, stored.Status)
}

func TestSuggestionsFilterAndRank(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	profiles := f.store.Profiles()
	profiles.SetRating(2, "singles", 1520, 10)
	profiles.SetRating(3, "singles", 1900, 10)
	profiles.SetRating(4, "singles", 1510, 10)
	profiles.SetRating(5, "singles", 1500, 10)
	profiles.SetRating(6, "singles", 1500, 10)

	f.request(t, pairing.CreateRequestInput{UserID: 1, Latitude: ptr(40.0), Longitude: ptr(-74.0), MaxDistanceKm: ptr(50)})
	f.request(t, pairing.CreateRequestInput{UserID: 2, Latitude: ptr(40.05), Longitude: ptr(-74.0)})
	f.request(t, pairing.CreateRequestInput{UserID: 3})
	f.request(t, pairing.CreateRequestInput{UserID: 4, MaxSkill: ptr(1400)})
	f.request(t, pairing.CreateRequestInput{UserID: 5, Latitude: ptr(45.0), Longitude: ptr(-74.0)})
	f.request(t, pairing.CreateRequestInput{UserID: 6, GameType: game.TypeCasual})
	f.request(t, pairing.CreateRequestInput{UserID: 7, GameFormat: game.FormatDoubles})

	got, err := f.svc.GetSuggestions(ctx, 1)
	require.NoError(t, err)

	var users []uint
	for _, s := range got {
		users = append(users, s.Request.RequesterID)
	}
	// 4 excludes user 1 by skill, 5 is too far, 6 and 7 want another game.
	assert.Equal(t, []uint{2, 3}, users)
	require.NotNil(t, got[0].DistanceKm)
	assert.InDelta(t, 5.56, *got[0].DistanceKm, 0.01)
	assert.Nil(t, got[1].DistanceKm)
	assert.Greater(t, got[0].Score, got[1].Score)
	assert.Equal(t, 1520.0, got[0].Rating)

	_, err = f.svc.GetSuggestions(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptMatchCreatesOneGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Profiles().SetRating(2, "singles", 1620, 5)

	mine := f.request(t, pairing.CreateRequestInput{UserID: 1, MinSkill: ptr(1400), MaxSkill: ptr(1700)})
	theirs := f.request(t, pairing.CreateRequestInput{UserID: 2, MinSkill: ptr(1300)})

	res, err := f.svc.AcceptMatch(ctx, 1, mine.ID, theirs.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Game)
	assert.True(t, res.Game.IsRated)
	assert.Equal(t, game.TypeCompetitive, res.Game.GameType)
	assert.Equal(t, uint(1), res.Game.CreatedByUserID)

	teams := map[uint]int{}
	for _, p := range res.Game.Participants {
		teams[p.UserID] = p.Team
	}
	assert.Equal(t, map[uint]int{1: 1, 2: 2}, teams)

	for _, id := range []uint{mine.ID, theirs.ID} {
		r, err := f.store.Requests().GetRequest(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, pairing.StatusMatched, r.Status)
		require.NotNil(t, r.MatchedGameID)
		assert.Equal(t, res.Game.ID, *r.MatchedGameID)
	}
	assert.Equal(t, 1, f.countGames(t))

	_, err = f.svc.AcceptMatch(ctx, 1, mine.ID, theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = f.svc.AcceptMatch(ctx, 2, theirs.ID, mine.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, f.countGames(t))

	var found []uint
	for _, n := range f.rec.Notifications() {
		if n.Type == notify.TypeMatchFound {
			found = append(found, n.UserID)
		}
	}
	assert.ElementsMatch(t, []uint{1, 2}, found)
	assert.Contains(t, f.rec.EventNames(), notify.EventMatchFound)
}

func TestConcurrentAcceptCreatesOneGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.request(t, pairing.CreateRequestInput{UserID: 1})
	b := f.request(t, pairing.CreateRequestInput{UserID: 2})

	const callers = 6
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = f.svc.AcceptMatch(ctx, 1, a.ID, b.ID)
			} else {
				_, err = f.svc.AcceptMatch(ctx, 2, b.ID, a.ID)
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, 1, f.countGames(t))
	expected := fmt.Sprintf(`
# HELP rally_pairing_accept_conflicts_total Match acceptances lost to a concurrent caller.
# TYPE rally_pairing_accept_conflicts_total counter
rally_pairing_accept_conflicts_total %d
`, callers-1)
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "rally_pairing_accept_conflicts_total"))
}

func TestAcceptMatchRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.request(t, pairing.CreateRequestInput{UserID: 1, ExpiresInHours: 1})
	b := f.request(t, pairing.CreateRequestInput{UserID: 2})
	doubles := f.request(t, pairing.CreateRequestInput{UserID: 3, GameFormat: game.FormatDoubles})

	_, err := f.svc.AcceptMatch(ctx, 1, a.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.AcceptMatch(ctx, 9, a.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.AcceptMatch(ctx, 1, a.ID, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.AcceptMatch(ctx, 1, a.ID, doubles.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	f.now = f.now.Add(90 * time.Minute)
	_, err = f.svc.AcceptMatch(ctx, 2, b.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, 0, f.countGames(t))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, pairing.CreateRequestInput{UserID: 1})

	assert.ErrorIs(t, f.svc.Cancel(ctx, req.ID, 2), apperrors.ErrNotFound)
	require.NoError(t, f.svc.Cancel(ctx, req.ID, 1))
	assert.ErrorIs(t, f.svc.Cancel(ctx, req.ID, 1), apperrors.ErrNotFound)

	_, err := f.svc.GetMyRequest(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.request(t, pairing.CreateRequestInput{UserID: 1})
}

func TestCancelAfterExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, pairing.CreateRequestInput{UserID: 4, ExpiresInHours: 1})

	f.now = f.now.Add(90 * time.Minute)
	assert.ErrorIs(t, f.svc.Cancel(ctx, req.ID, 4), apperrors.ErrNotFound)

	stored, err := f.store.Requests().GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, pairing.StatusExpired, stored.Status)

	n, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpireStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.request(t, pairing.CreateRequestInput{UserID: 1, ExpiresInHours: 1})
	f.request(t, pairing.CreateRequestInput{UserID: 2, ExpiresInHours: 5})
	f.request(t, pairing.CreateRequestInput{UserID: 3, ExpiresInHours: 1})

	f.now = f.now.Add(2 * time.Hour)
	n, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.GetMyRequest(ctx, 2)
	assert.NoError(t, err)
}
