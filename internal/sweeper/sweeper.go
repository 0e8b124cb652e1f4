// Package sweeper runs the periodic expiry jobs no user request triggers:
// stale match requests and lapsed waitlist offers.
package sweeper

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Job expires one kind of record and reports how many it touched.
type Job struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Sweeper runs every job once per interval.
type Sweeper struct {
	jobs     []Job
	interval time.Duration
	log      *logrus.Entry
}

func New(interval time.Duration, log *logrus.Entry, jobs ...Job) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Sweeper{jobs: jobs, interval: interval, log: log.WithField("component", "sweeper")}
}

// Start runs a first sweep immediately, then one per interval until ctx is
// cancelled. It blocks.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.WithField("interval", s.interval).Info("starting expiry sweeper")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			s.log.Info("stopping expiry sweeper")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce runs each job in order. A failing job is logged and does not stop
// the others.
func (s *Sweeper) RunOnce(ctx context.Context) map[string]int64 {
	counts := make(map[string]int64, len(s.jobs))
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return counts
		}
		started := time.Now()
		n, err := job.Run(ctx)
		if err != nil {
			s.log.WithError(err).WithField("job", job.Name).Error("sweep failed")
			continue
		}
		counts[job.Name] = n
		if n > 0 {
			s.log.WithFields(logrus.Fields{
				"job":      job.Name,
				"expired":  n,
				"duration": time.Since(started),
			}).Info("sweep expired records")
		}
	}
	return counts
}
