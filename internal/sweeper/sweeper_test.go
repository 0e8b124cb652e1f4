package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	var ran []string
	s := New(time.Minute, logrus.NewEntry(logger),
		Job{Name: "broken", Run: func(context.Context) (int64, error) {
			ran = append(ran, "broken")
			return 0, errors.New("db down")
		}},
		Job{Name: "match_request", Run: func(context.Context) (int64, error) {
			ran = append(ran, "match_request")
			return 3, nil
		}},
	)

	counts := s.RunOnce(context.Background())
	assert.Equal(t, []string{"broken", "match_request"}, ran)
	assert.Equal(t, map[string]int64{"match_request": 3}, counts)

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.ErrorLevel, hook.AllEntries()[0].Level)
	assert.Equal(t, "broken", hook.AllEntries()[0].Data["job"])
}

func TestStartStopsOnCancel(t *testing.T) {
	logger, _ := test.NewNullLogger()
	var runs atomic.Int32
	s := New(5*time.Millisecond, logrus.NewEntry(logger), Job{Name: "tick", Run: func(context.Context) (int64, error) {
		runs.Add(1)
		return 0, nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
