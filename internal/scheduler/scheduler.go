package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/clock"
	metricsdomain "github.com/smallbiznis/procura/internal/metrics/domain"
	obsmetrics "github.com/smallbiznis/procura/internal/observability/metrics"
	"github.com/smallbiznis/procura/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recomputeJob = "metrics_recompute"

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	MetricsSvc metricsdomain.Service
	Clock      clock.Clock
	Locker     *ratelimit.Locker `optional:"true"`
	Config     Config            `optional:"true"`
}

// Scheduler periodically rebuilds the scorecards for every organization.
type Scheduler struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	metricsSvc metricsdomain.Service
	locker     *ratelimit.Locker
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.MetricsSvc == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:         p.DB,
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		metricsSvc: p.MetricsSvc,
		locker:     p.Locker,
	}, nil
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, recomputeJob, s.cfg.JobTimeout, s.MetricsRecomputeJob)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		if lag := time.Since(nextRun); lag > 0 {
			schedMetrics.ObserveRunLoopLag(lag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	schedMetrics.IncJobError(name, err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		// Soft timeout: the next tick picks up where this one stopped.
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// MetricsRecomputeJob walks every organization in id order and rebuilds
// its supplier and customer scorecards.
func (s *Scheduler) MetricsRecomputeJob(ctx context.Context) error {
	var jobErr error
	var lastID snowflake.ID

	for {
		if ctx.Err() != nil {
			return errors.Join(jobErr, ctx.Err())
		}

		var orgIDs []snowflake.ID
		err := s.db.WithContext(ctx).Raw(
			`SELECT id FROM organizations WHERE id > ? ORDER BY id ASC LIMIT ?`,
			lastID,
			s.cfg.BatchSize,
		).Scan(&orgIDs).Error
		if err != nil {
			return errors.Join(jobErr, err)
		}
		if len(orgIDs) == 0 {
			break
		}

		for _, orgID := range orgIDs {
			if ctx.Err() != nil {
				return errors.Join(jobErr, ctx.Err())
			}
			jobErr = errors.Join(jobErr, s.recomputeOrg(ctx, orgID))
		}

		lastID = orgIDs[len(orgIDs)-1]
		if len(orgIDs) < s.cfg.BatchSize {
			break
		}
	}

	return jobErr
}

func (s *Scheduler) recomputeOrg(ctx context.Context, orgID snowflake.ID) error {
	if s.locker != nil {
		key := "metrics:recompute:lock:" + orgID.String()
		token, ok, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
		if err != nil {
			// A broken lock backend must not stop scoring; proceed unlocked.
			s.log.Warn("recompute lock unavailable",
				zap.String("org_id", orgID.String()),
				zap.Error(err),
			)
		} else if !ok {
			s.log.Debug("recompute already running elsewhere",
				zap.String("org_id", orgID.String()),
			)
			return nil
		} else {
			defer func() {
				if err := s.locker.Release(ctx, key, token); err != nil {
					s.log.Warn("recompute lock release failed",
						zap.String("org_id", orgID.String()),
						zap.Error(err),
					)
				}
			}()
		}
	}

	summary, err := s.metricsSvc.RecomputeOrg(ctx, orgID)
	if err != nil {
		s.log.Warn("org recompute failed",
			zap.String("org_id", orgID.String()),
			zap.Error(err),
		)
		return err
	}

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.AddEntitiesScored(recomputeJob, "supplier", summary.SuppliersProcessed)
	schedMetrics.AddEntitiesScored(recomputeJob, "customer", summary.CustomersProcessed)
	schedMetrics.AddEntitiesFailed(recomputeJob, "supplier", summary.SuppliersFailed)
	schedMetrics.AddEntitiesFailed(recomputeJob, "customer", summary.CustomersFailed)
	return nil
}
