package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/internal/waitlist"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	games := s.Games()

	boom := errors.New("boom")
	err := games.WithTransaction(ctx, func(tx game.Repository) error {
		g := &game.Game{GameFormat: game.FormatSingles, Status: game.StatusInProgress}
		require.NoError(t, tx.CreateGame(ctx, g))
		require.NoError(t, tx.AddParticipant(ctx, &game.Participant{GameID: g.ID, UserID: 1, Team: 1}))
		require.NoError(t, tx.Profiles().ApplyRatingChange(ctx, 1, "singles", 1600))
		return boom
	})
	require.ErrorIs(t, err, boom)

	g, err := games.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, g)
	r, err := s.Profiles().GetRating(ctx, 1, "singles")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, r)
}

func TestNestedTransactionRestoresOnlyItsOwnWork(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Games().WithTransaction(ctx, func(tx game.Repository) error {
		require.NoError(t, tx.CreateGame(ctx, &game.Game{Status: game.StatusScheduled}))
		inner := tx.WithTransaction(ctx, func(tx game.Repository) error {
			require.NoError(t, tx.CreateGame(ctx, &game.Game{Status: game.StatusScheduled}))
			return errors.New("inner")
		})
		assert.Error(t, inner)
		return nil
	})
	require.NoError(t, err)

	first, _ := s.Games().GetGame(ctx, 1)
	second, _ := s.Games().GetGame(ctx, 2)
	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestReadersSeeOnlyCommittedRows(t *testing.T) {
	ctx := context.Background()
	s := New()
	games := s.Games()

	written := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- games.WithTransaction(ctx, func(tx game.Repository) error {
			if err := tx.CreateGame(ctx, &game.Game{Status: game.StatusScheduled}); err != nil {
				return err
			}
			close(written)
			<-release
			return errors.New("abort")
		})
	}()

	<-written
	g, err := games.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, g, "uncommitted game visible outside its transaction")

	close(release)
	assert.Error(t, <-done)
	g, err = games.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, g)

	require.NoError(t, games.WithTransaction(ctx, func(tx game.Repository) error {
		return tx.CreateGame(ctx, &game.Game{Status: game.StatusScheduled})
	}))
	g, err = games.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestDuplicateParticipantConflicts(t *testing.T) {
	ctx := context.Background()
	repo := New().Games()
	require.NoError(t, repo.AddParticipant(ctx, &game.Participant{GameID: 1, UserID: 5, Team: 1}))
	err := repo.AddParticipant(ctx, &game.Participant{GameID: 1, UserID: 5, Team: 2})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOnePendingRequestPerUser(t *testing.T) {
	ctx := context.Background()
	repo := New().Requests()
	expires := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.CreateRequest(ctx, &pairing.MatchRequest{
				RequesterID: 9, GameType: game.TypeCasual, GameFormat: game.FormatSingles,
				Status: pairing.StatusPending, ExpiresAt: expires,
			})
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		if err == nil {
			ok++
		} else if errors.Is(err, apperrors.ErrConflict) {
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, conflicts)
}

func TestWaitlistRankAndRegistrar(t *testing.T) {
	ctx := context.Background()
	s := New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return at })
	repo := s.Waitlist()

	var entries []*waitlist.Entry
	for user := uint(1); user <= 3; user++ {
		e := &waitlist.Entry{UserID: user, EventType: waitlist.EventLeague, EventID: 4, Status: waitlist.StatusWaiting}
		require.NoError(t, repo.CreateEntry(ctx, e))
		entries = append(entries, e)
	}
	dup := &waitlist.Entry{UserID: 2, EventType: waitlist.EventLeague, EventID: 4, Status: waitlist.StatusWaiting}
	assert.ErrorIs(t, repo.CreateEntry(ctx, dup), apperrors.ErrConflict)

	rank, err := repo.Rank(ctx, entries[2])
	require.NoError(t, err)
	assert.Equal(t, int64(3), rank)

	entries[1].Status = waitlist.StatusOffered
	require.NoError(t, repo.UpdateEntry(ctx, entries[1]))
	rank, err = repo.Rank(ctx, entries[2])
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)
	rank, err = repo.Rank(ctx, entries[1])
	require.NoError(t, err)
	assert.Zero(t, rank)

	entries[0].Status = waitlist.StatusDeclined
	require.NoError(t, repo.UpdateEntry(ctx, entries[0]))
	rank, err = repo.Rank(ctx, entries[2])
	require.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	reg := repo.Registrar()
	require.NoError(t, reg.Finalize(ctx, 2, waitlist.EventLeague, 4, nil))
	assert.ErrorIs(t, reg.Finalize(ctx, 2, waitlist.EventLeague, 4, nil), apperrors.ErrConflict)
	n, err := repo.CountRegistrations(ctx, waitlist.EventLeague, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	released, err := repo.DeleteRegistration(ctx, 2, waitlist.EventLeague, 4)
	require.NoError(t, err)
	assert.True(t, released)
	released, err = repo.DeleteRegistration(ctx, 2, waitlist.EventLeague, 4)
	require.NoError(t, err)
	assert.False(t, released)
	require.NoError(t, repo.CreateRegistration(ctx, &waitlist.Registration{
		UserID: 2, EventType: waitlist.EventLeague, EventID: 4, Source: waitlist.SourceDirect,
	}))
}
