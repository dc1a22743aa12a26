package scheduler

import (
	"context"
	"time"

	"github.com/smallbiznis/feedbackrelay/pkg/telemetry/correlation"
	obscontext "github.com/smallbiznis/feedbackrelay/internal/observability/context"
	obslogger "github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	"go.uber.org/zap"
)

const systemActor = "system:scheduler"

type jobRun struct {
	job            string
	runID          string
	startedAt      time.Time
	processedCount int
	failedCount    int
	errorCount     int
}

func (r *jobRun) AddProcessed(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.processedCount += count
}

func (r *jobRun) AddFailed(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.failedCount += count
}

func (r *jobRun) IncError() {
	if r == nil {
		return
	}
	r.errorCount++
}

// startJobRun tags ctx with a fresh run id, which doubles as the
// correlation id for everything the job logs downstream.
func (s *Scheduler) startJobRun(ctx context.Context, job string) (context.Context, *jobRun) {
	if ctx == nil {
		ctx = context.Background()
	}
	run := &jobRun{
		job:       job,
		runID:     s.genID.Generate().String(),
		startedAt: time.Now(),
	}
	ctx = obscontext.WithActor(ctx, systemActor)
	ctx = correlation.ContextWithCorrelationID(ctx, run.runID)
	return ctx, run
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}

func (s *Scheduler) logJobStart(ctx context.Context, run *jobRun) {
	if run == nil {
		return
	}
	s.logger(ctx).Info("scheduler.job.start",
		zap.String("job", run.job),
		zap.String("run_id", run.runID),
	)
}

func (s *Scheduler) logJobFinish(ctx context.Context, run *jobRun) {
	if run == nil {
		return
	}
	fields := []zap.Field{
		zap.String("job", run.job),
		zap.String("run_id", run.runID),
		zap.Int64("duration_ms", time.Since(run.startedAt).Milliseconds()),
		zap.Int("processed_count", run.processedCount),
		zap.Int("failed_count", run.failedCount),
		zap.Int("error_count", run.errorCount),
	}
	log := s.logger(ctx)
	if run.errorCount > 0 || run.failedCount > 0 {
		log.Warn("scheduler.job.finish", fields...)
		return
	}
	log.Info("scheduler.job.finish", fields...)
}

func (s *Scheduler) logSchedulerError(ctx context.Context, run *jobRun, msg string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	job := ""
	if run != nil {
		job = run.job
	}
	baseFields := []zap.Field{
		zap.String("job", job),
		zap.String("error_type", obsmetrics.ClassifySchedulerErrorType(err)),
		zap.String("error", err.Error()),
		zap.Bool("retryable", obsmetrics.IsSchedulerErrorRetryable(err)),
	}
	s.logger(ctx).Error(msg, append(baseFields, fields...)...)
}
