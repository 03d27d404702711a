// Package scheduler runs the periodic investor recompute so cached balances never drift
// for long after a borrower changes state.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"allgroub-ledger/internal/usecase/investor"
)

type Recomputer interface {
	RecomputeOffice(ctx context.Context, officeID string) (investor.RecomputeSummary, error)
}

type Scheduler struct {
	cron    *cron.Cron
	job     Recomputer
	log     *logrus.Logger
	timeout time.Duration
}

// New registers the recompute job under spec (standard 5-field cron syntax or a
// descriptor such as "@daily"), evaluated in loc.
func New(spec string, job Recomputer, loc *time.Location, log *logrus.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		job:     job,
		log:     log,
		timeout: 30 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop prevents new runs and waits for a running one until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler: stop timed out with a recompute still running")
	}
}

// Next is when the job fires next; zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce recomputes every office's investors.
func (s *Scheduler) RunOnce(ctx context.Context) investor.RecomputeSummary {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	sum, err := s.job.RecomputeOffice(ctx, "")
	fields := logrus.Fields{
		"scanned":  sum.Scanned,
		"updated":  sum.Updated,
		"failed":   sum.Failed,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		s.log.WithError(err).WithFields(fields).Error("scheduler: recompute failed")
		return sum
	}
	s.log.WithFields(fields).Info("scheduler: recompute finished")
	return sum
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct{ log *logrus.Logger }

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.WithFields(toFields(kv)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.WithError(err).WithFields(toFields(kv)).Error("cron: " + msg)
}

func toFields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
