package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	directorydomain "github.com/smallbiznis/feedbackrelay/internal/directory/domain"
	obsmetrics "github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	"github.com/smallbiznis/feedbackrelay/internal/ratelimit"
	reminderdomain "github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lockSlack keeps the shared lease alive a little past the job timeout.
const lockSlack = 30 * time.Second

var ErrUnknownJob = errors.New("unknown_job")

// Job is one periodic unit of work. Run reports how many items it handled.
type Job struct {
	Name     string
	Resource string
	Run      func(ctx context.Context) (processed, failed int, err error)
}

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Runtime   *config.RuntimeConfigHolder
	Locker    *ratelimit.Locker `optional:"true"`
	Reminders reminderdomain.Dispatcher
	Catalog   catalogdomain.Service
	Directory directorydomain.Service
}

type Scheduler struct {
	log     *zap.Logger
	genID   *snowflake.Node
	runtime *config.RuntimeConfigHolder
	locker  *ratelimit.Locker

	jobs    map[string]Job
	order   []string
	running map[string]*atomic.Bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.GenID == nil || p.Runtime == nil ||
		p.Reminders == nil || p.Catalog == nil || p.Directory == nil {
		return nil, ErrInvalidConfig
	}
	return newScheduler(p.Log, p.GenID, p.Runtime, p.Locker, relayJobs(p)), nil
}

func newScheduler(log *zap.Logger, genID *snowflake.Node, runtime *config.RuntimeConfigHolder, locker *ratelimit.Locker, jobs []Job) *Scheduler {
	s := &Scheduler{
		log:     log.Named("scheduler").With(zap.String("component", "scheduler")),
		genID:   genID,
		runtime: runtime,
		locker:  locker,
		jobs:    make(map[string]Job, len(jobs)),
		running: make(map[string]*atomic.Bool, len(jobs)),
	}
	for _, job := range jobs {
		s.jobs[job.Name] = job
		s.order = append(s.order, job.Name)
		s.running[job.Name] = &atomic.Bool{}
	}
	return s
}

func relayJobs(p Params) []Job {
	return []Job{
		{
			Name:     config.JobFeedbackReminders,
			Resource: "reminders",
			Run: func(ctx context.Context) (int, int, error) {
				res, err := p.Reminders.SendDueReminders(ctx)
				return res.Sent + res.Duplicate, res.Failed, err
			},
		},
		{
			Name:     config.JobFormDefinitionsSync,
			Resource: "form_definitions",
			Run: func(ctx context.Context) (int, int, error) {
				n, err := p.Catalog.SyncFormDefinitions(ctx)
				return n, 0, err
			},
		},
		{
			Name:     config.JobInterviewTypesSync,
			Resource: "interviews",
			Run: func(ctx context.Context) (int, int, error) {
				n, err := p.Catalog.SyncInterviewTypes(ctx)
				return n, 0, err
			},
		},
		{
			Name:     config.JobSlackUsersSync,
			Resource: "slack_users",
			Run: func(ctx context.Context) (int, int, error) {
				res, err := p.Directory.Sync(ctx)
				return res.Stored, 0, err
			},
		},
	}
}

// TryRun runs the job now unless it is disabled, already running here, or
// leased by another process. It reports whether the job ran.
func (s *Scheduler) TryRun(ctx context.Context, name string) (bool, error) {
	job, ok := s.jobs[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	cfg := s.runtime.Get().Job(name)
	schedMetrics := obsmetrics.Scheduler()

	if !cfg.Enabled {
		schedMetrics.IncJobSkipped(name, obsmetrics.SchedulerSkipReasonDisabled)
		return false, nil
	}

	flag := s.running[name]
	if !flag.CompareAndSwap(false, true) {
		schedMetrics.IncJobSkipped(name, obsmetrics.SchedulerSkipReasonStillRunning)
		s.log.Info("scheduler.job.skipped", zap.String("job", name), zap.String("reason", obsmetrics.SchedulerSkipReasonStillRunning))
		return false, nil
	}
	defer flag.Store(false)

	release, held := s.acquireLease(ctx, name, cfg.Timeout+lockSlack)
	if !held {
		schedMetrics.IncJobSkipped(name, obsmetrics.SchedulerSkipReasonLockHeld)
		s.log.Info("scheduler.job.skipped", zap.String("job", name), zap.String("reason", obsmetrics.SchedulerSkipReasonLockHeld))
		return false, nil
	}
	defer release()

	return true, s.runJob(ctx, job, cfg.Timeout)
}

// acquireLease takes the shared lease when redis is configured. Redis
// errors do not block the job.
func (s *Scheduler) acquireLease(ctx context.Context, name string, ttl time.Duration) (func(), bool) {
	if s.locker == nil {
		return func() {}, true
	}
	key := "scheduler:" + name
	token, ok, err := s.locker.TryLock(ctx, key, ttl)
	if err != nil {
		s.log.Warn("scheduler lease unavailable, running without it", zap.String("job", name), zap.Error(err))
		return func() {}, true
	}
	if !ok {
		if holder, err := s.locker.Holder(ctx, key); err == nil && holder != "" {
			s.log.Debug("scheduler lease held by another replica", zap.String("job", name), zap.String("holder", holder))
		}
		return func() {}, false
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.locker.Release(releaseCtx, key, token); err != nil {
			s.log.Warn("failed to release scheduler lease", zap.String("job", name), zap.Error(err))
		}
	}, true
}

func (s *Scheduler) runJob(parent context.Context, job Job, timeout time.Duration) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run := s.startJobRun(ctx, job.Name)
	s.logJobStart(ctx, run)
	log := s.logger(ctx).With(
		zap.String("job", job.Name),
		zap.String("run_id", run.runID),
	)
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(job.Name)

	processed, failed, err := s.safeRun(ctx, job)
	run.AddProcessed(processed)
	run.AddFailed(failed)
	schedMetrics.AddBatchProcessed(job.Name, job.Resource, processed)
	schedMetrics.AddBatchFailed(job.Name, job.Resource, failed)
	schedMetrics.ObserveJobDuration(job.Name, time.Since(start))
	if err != nil {
		run.IncError()
	}
	s.logJobFinish(ctx, run)
	if err == nil {
		return nil
	}

	// a deadline is a soft timeout; the next tick tries again
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	schedMetrics.IncJobError(job.Name, err)
	if isTimeout {
		schedMetrics.IncJobTimeout(job.Name)
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}
	s.logSchedulerError(ctx, run, "scheduler.job.failed", err)
	return fmt.Errorf("%s: %w", job.Name, err)
}

// InitialSync refreshes the reference data once, concurrently.
func (s *Scheduler) InitialSync(ctx context.Context) error {
	if !s.runtime.Get().Scheduler.InitialSync {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range []string{config.JobFormDefinitionsSync, config.JobInterviewTypesSync, config.JobSlackUsersSync} {
		if _, ok := s.jobs[name]; !ok {
			continue
		}
		g.Go(func() error {
			_, err := s.TryRun(gctx, name)
			return err
		})
	}
	return g.Wait()
}

// Start launches the initial sync and one loop per job.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.InitialSync(ctx); err != nil {
			s.log.Warn("initial sync incomplete", zap.Error(err))
		}
	}()
	for _, name := range s.order {
		s.wg.Add(1)
		go s.loop(ctx, name)
	}
}

// Stop cancels running jobs and waits for them until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loop fires the job every interval. Ticks run in their own goroutine so a
// slow run makes later ticks skip instead of queueing.
func (s *Scheduler) loop(ctx context.Context, name string) {
	defer s.wg.Done()
	schedMetrics := obsmetrics.Scheduler()

	for {
		interval := s.runtime.Get().Job(name).Interval
		if interval <= 0 {
			interval = time.Minute
		}
		due := time.Now().Add(interval)
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if lag := time.Since(due); lag > 0 {
			schedMetrics.ObserveRunLoopLag(name, lag)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if _, err := s.TryRun(ctx, name); err != nil {
				s.log.Warn("scheduler run failed", zap.String("job", name), zap.Error(err))
			}
		}()
	}
}
