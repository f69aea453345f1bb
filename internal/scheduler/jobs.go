package scheduler

import (
	"context"
	"time"

	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	obsmetrics "github.com/smallbiznis/estate/internal/observability/metrics"
	"go.uber.org/zap"
)

const lockKeyPrefix = "estate:scheduler:"

func (s *Scheduler) PaymentsOverdueJob(ctx context.Context) error {
	return s.sweepJob(ctx, JobPaymentsOverdue, billingdomain.KindPayments)
}

func (s *Scheduler) UtilitiesOverdueJob(ctx context.Context) error {
	return s.sweepJob(ctx, JobUtilitiesOverdue, billingdomain.KindUtilityBills)
}

func (s *Scheduler) sweepJob(ctx context.Context, job string, kind billingdomain.Kind) error {
	return s.withJobLock(ctx, job, func(ctx context.Context) error {
		res, err := s.billingSvc.Sweep(ctx, kind)
		if err != nil {
			s.logSchedulerError(ctx, jobRunFromContext(ctx), "scheduler.sweep.failed", job, err,
				zap.String("kind", string(kind)),
			)
			return err
		}

		jobRunFromContext(ctx).AddProcessed(int(res.Count))
		s.logSweepResult(ctx, job, res)
		obsmetrics.Scheduler().AddRecordsProcessed(job, string(kind), res.Count)
		return nil
	})
}

// withJobLock runs fn while holding the job's cross-replica lease. Without a
// locker, or when Redis cannot be reached, fn still runs.
func (s *Scheduler) withJobLock(ctx context.Context, job string, fn func(context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}

	key := lockKeyPrefix + job
	token, acquired, err := s.locker.TryLock(ctx, key, s.lockTTL())
	if err != nil {
		obsmetrics.Scheduler().IncJobSkipped(job, obsmetrics.SchedulerSkipReasonLockUnavailable)
		s.logger(ctx).Warn("scheduler.lock.unavailable", zap.String("job", job), zap.Error(err))
		return fn(ctx)
	}
	if !acquired {
		obsmetrics.Scheduler().IncJobSkipped(job, obsmetrics.SchedulerSkipReasonLockHeld)
		s.logger(ctx).Debug("scheduler.lock.held", zap.String("job", job))
		return nil
	}
	defer func() {
		// The job context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.locker.Release(releaseCtx, key, token); err != nil {
			s.logger(ctx).Warn("scheduler.lock.release_failed", zap.String("job", job), zap.Error(err))
		}
	}()

	return fn(ctx)
}

func (s *Scheduler) lockTTL() time.Duration {
	return s.cfg.JobTimeout + 5*time.Second
}
