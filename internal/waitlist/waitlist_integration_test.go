//go:build integration

package waitlist_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/internal/waitlist"
	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
)

// Run with: RALLY_TEST_DSN=postgres://... go test -tags integration ./internal/waitlist/
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("RALLY_TEST_DSN")
	if dsn == "" {
		t.Skip("RALLY_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, waitlist.Migrate(db))
	return db
}

// uniqueEvent keeps runs against a shared database apart.
func uniqueEvent() uint {
	return uint(time.Now().UnixNano()%1_000_000_000) + 1
}

func TestPostgresConcurrentRegisterTakesOneSeat(t *testing.T) {
	db := openPostgres(t)
	ctx := context.Background()
	repo := waitlist.NewGormRepository(db)
	capacity := &waitlist.StaticCapacity{Default: 1, Counter: repo}
	svc := waitlist.NewService(repo, capacity, time.Hour, notify.NewDispatcher(nil, nil, nil), nil, nil)
	event := uniqueEvent()

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(user uint) {
			defer wg.Done()
			_, err := svc.Register(ctx, user, waitlist.EventLeague, event, nil)
			errs <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(errs)

	var ok, full int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrInvalidState):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, full)

	n, err := repo.CountRegistrations(ctx, waitlist.EventLeague, event)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPostgresOneActiveEntryPerUser(t *testing.T) {
	db := openPostgres(t)
	ctx := context.Background()
	repo := waitlist.NewGormRepository(db)
	event := uniqueEvent()

	first := &waitlist.Entry{UserID: 5, EventType: waitlist.EventTournament, EventID: event, Status: waitlist.StatusWaiting}
	require.NoError(t, repo.CreateEntry(ctx, first))

	dup := &waitlist.Entry{UserID: 5, EventType: waitlist.EventTournament, EventID: event, Status: waitlist.StatusWaiting}
	assert.ErrorIs(t, repo.CreateEntry(ctx, dup), apperrors.ErrConflict)

	first.Status = waitlist.StatusDeclined
	require.NoError(t, repo.UpdateEntry(ctx, first))

	again := &waitlist.Entry{UserID: 5, EventType: waitlist.EventTournament, EventID: event, Status: waitlist.StatusWaiting}
	assert.NoError(t, repo.CreateEntry(ctx, again))
}
