package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bizcore/internal/clock"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/SscSPs/bizcore/internal/observability/metrics"
)

var ErrInvalidConfig = errors.New("scheduler: no job configured")

// RevenueSweeper generates revenue for every active business.
type RevenueSweeper interface {
	GenerateAll(ctx context.Context) (domain.RevenueBatchResult, error)
}

// PayrollSweeper pays every active business's employees.
type PayrollSweeper interface {
	ProcessPayroll(ctx context.Context) (domain.PayrollBatchResult, error)
}

// HiringSweeper marks stale pending hiring requests as expired.
type HiringSweeper interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// RollupRefresher recomputes the revenue projections of every business.
type RollupRefresher interface {
	RefreshRollups(ctx context.Context) (int, error)
}

// Params wires the scheduler. A nil sweeper disables its job.
type Params struct {
	Log     *slog.Logger
	Clock   clock.Clock
	IDs     portssvc.IDGenerator
	Revenue RevenueSweeper
	Payroll PayrollSweeper
	Hiring  HiringSweeper
	Rollups RollupRefresher
	Config  Config
}

type job struct {
	name     string
	interval time.Duration
	// atStart runs the job on the first cycle instead of one interval later.
	atStart bool
	run     func(ctx context.Context) (int, error)
	next    time.Time
}

// Scheduler runs the periodic economy jobs of one process.
type Scheduler struct {
	log   *slog.Logger
	cfg   Config
	clock clock.Clock
	ids   portssvc.IDGenerator

	mu   sync.Mutex
	jobs []*job
}

func New(p Params) (*Scheduler, error) {
	cfg := p.Config.withDefaults()
	if p.Log == nil {
		p.Log = slog.Default()
	}
	if p.Clock == nil {
		p.Clock = clock.Real()
	}

	s := &Scheduler{
		log:   p.Log.With(slog.String("component", "scheduler")),
		cfg:   cfg,
		clock: p.Clock,
		ids:   p.IDs,
	}

	if p.Revenue != nil {
		s.add(JobRevenue, cfg.RevenueInterval, true, func(ctx context.Context) (int, error) {
			batch, err := p.Revenue.GenerateAll(ctx)
			return batch.Credited, err
		})
	}
	if p.Payroll != nil {
		s.add(JobPayroll, cfg.PayrollInterval, false, func(ctx context.Context) (int, error) {
			batch, err := p.Payroll.ProcessPayroll(ctx)
			return batch.Paid + batch.Partial, err
		})
	}
	if p.Hiring != nil {
		s.add(JobHiringExpiry, cfg.HiringExpiryInterval, true, func(ctx context.Context) (int, error) {
			n, err := p.Hiring.ExpireStale(ctx)
			return int(n), err
		})
	}
	if p.Rollups != nil {
		s.add(JobRollups, cfg.RollupInterval, true, p.Rollups.RefreshRollups)
	}

	if len(s.jobs) == 0 {
		return nil, ErrInvalidConfig
	}
	return s, nil
}

func (s *Scheduler) add(name string, interval time.Duration, atStart bool, run func(ctx context.Context) (int, error)) {
	if !s.isJobEnabled(name) {
		return
	}
	s.jobs = append(s.jobs, &job{name: name, interval: interval, atStart: atStart, run: run})
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(strings.TrimSpace(enabled), jobName) {
			return true
		}
	}
	return false
}

// Jobs lists the names of the configured jobs.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, j := range s.jobs {
		names[i] = j.name
	}
	return names
}

func (s *Scheduler) runID() string {
	if s.ids != nil {
		return strconv.FormatInt(s.ids.NextID(), 10)
	}
	return strconv.FormatInt(s.clock.Now().UnixNano(), 36)
}

func (s *Scheduler) runJob(parent context.Context, j *job) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	log := s.log.With(
		slog.String("job", j.name),
		slog.String("run_id", s.runID()),
	)
	ctx = middleware.WithLogger(ctx, log)
	jobMetrics := metrics.Economy()
	jobMetrics.IncJobRun(j.name)
	log.Info("scheduler.job.start")

	processed, err := j.run(ctx)
	elapsed := time.Since(start)
	jobMetrics.ObserveJobDuration(j.name, elapsed)

	if err == nil {
		log.Info("scheduler.job.finish",
			slog.Int64("duration_ms", elapsed.Milliseconds()),
			slog.Int("processed_count", processed))
		return nil
	}

	jobMetrics.IncJobError(j.name, err)
	if errors.Is(err, context.DeadlineExceeded) {
		jobMetrics.IncJobTimeout(j.name)
		log.Warn("scheduler.job.timeout",
			slog.Duration("timeout", s.cfg.JobTimeout),
			slog.Int("processed_count", processed),
			slog.String("error", err.Error()))
		return nil
	}
	log.Warn("scheduler.job.finish",
		slog.Int64("duration_ms", elapsed.Milliseconds()),
		slog.Int("processed_count", processed),
		slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", j.name, err)
}

// RunOnce runs every job that is due. A job's first due time is set on the first
// call: immediately for jobs that run at start, one interval later otherwise.
// Jobs already started are allowed to finish when ctx is cancelled.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for _, j := range s.jobs {
		if ctx.Err() != nil {
			break
		}
		now := s.clock.Now()
		if j.next.IsZero() {
			j.next = now
			if !j.atStart {
				j.next = now.Add(j.interval)
			}
		}
		if now.Before(j.next) {
			continue
		}
		err = errors.Join(err, s.runJob(context.WithoutCancel(ctx), j))
		j.next = s.clock.Now().Add(j.interval)
	}
	return err
}

// NextRuns reports when each job is next due. Jobs not yet scheduled are omitted.
func (s *Scheduler) NextRuns() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.jobs))
	for _, j := range s.jobs {
		if !j.next.IsZero() {
			out[j.name] = j.next
		}
	}
	return out
}

// RunForever waits for the warm-up delay, then checks for due jobs every tick
// until ctx is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	s.log.Info("Scheduler started",
		slog.Any("jobs", s.Jobs()),
		slog.Duration("warmup", s.cfg.Warmup),
		slog.Duration("tick", s.cfg.TickInterval))

	if s.cfg.Warmup > 0 {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped during warm-up")
			return
		case <-time.After(s.cfg.Warmup):
		}
	}

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}
