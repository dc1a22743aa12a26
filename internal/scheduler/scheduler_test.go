package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	redis "github.com/redis/go-redis/v9"
	catalogmocks "github.com/smallbiznis/feedbackrelay/internal/catalog/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	directorydomain "github.com/smallbiznis/feedbackrelay/internal/directory/domain"
	directorymocks "github.com/smallbiznis/feedbackrelay/internal/directory/mocks"
	obsmetrics "github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	"github.com/smallbiznis/feedbackrelay/internal/ratelimit"
	reminderdomain "github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	remindermocks "github.com/smallbiznis/feedbackrelay/internal/reminder/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestRunJobTimeoutDoesNotReturnErrorAndIncrementsTimeout(t *testing.T) {
	registry := withTestRegistry(t)

	job := Job{Name: "timeout_job", Resource: "items", Run: func(ctx context.Context) (int, int, error) {
		<-ctx.Done()
		return 0, 0, ctx.Err()
	}}
	s := newTestScheduler(t, runtimeWith("timeout_job", config.JobConfig{Enabled: true, Interval: time.Minute, Timeout: 5 * time.Millisecond}), job)

	ran, err := s.TryRun(context.Background(), "timeout_job")
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, float64(1), getCounterValue(t, registry, "feedbackrelay_scheduler_job_timeouts_total", map[string]string{
		"service": "feedbackrelay",
		"env":     "test",
		"job":     "timeout_job",
	}))
	assert.Equal(t, float64(1), getCounterValue(t, registry, "feedbackrelay_scheduler_job_errors_total", map[string]string{
		"service": "feedbackrelay",
		"env":     "test",
		"job":     "timeout_job",
		"reason":  obsmetrics.SchedulerJobReasonDeadlineExceeded,
	}))
}

func TestTryRunReturnsJobError(t *testing.T) {
	withTestRegistry(t)
	boom := errors.New("boom")
	job := Job{Name: "failing", Resource: "items", Run: func(context.Context) (int, int, error) {
		return 1, 2, boom
	}}
	s := newTestScheduler(t, runtimeWith("failing", config.JobConfig{Enabled: true, Interval: time.Minute, Timeout: time.Second}), job)

	ran, err := s.TryRun(context.Background(), "failing")
	assert.True(t, ran)
	require.ErrorIs(t, err, boom)
}

func TestTryRunRunsWhenLeaseStoreUnavailable(t *testing.T) {
	withTestRegistry(t)
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	var calls atomic.Int32
	job := Job{Name: "leased", Resource: "items", Run: func(context.Context) (int, int, error) {
		calls.Add(1)
		return 1, 0, nil
	}}
	s := newTestScheduler(t, runtimeWith("leased", config.JobConfig{Enabled: true, Interval: time.Minute, Timeout: time.Second}), job)
	s.locker = ratelimit.NewLocker(client)

	ran, err := s.TryRun(context.Background(), "leased")
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTryRunRecoversPanics(t *testing.T) {
	withTestRegistry(t)
	job := Job{Name: "panics", Resource: "items", Run: func(context.Context) (int, int, error) {
		panic("unexpected")
	}}
	s := newTestScheduler(t, runtimeWith("panics", config.JobConfig{Enabled: true, Interval: time.Minute, Timeout: time.Second}), job)

	_, err := s.TryRun(context.Background(), "panics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job panicked")

	// the running flag is released after a panic
	_, err = s.TryRun(context.Background(), "panics")
	require.Error(t, err)
}

func TestTryRunSkipsWhileRunning(t *testing.T) {
	registry := withTestRegistry(t)

	started := make(chan struct{})
	release := make(chan struct{})
	job := Job{Name: "slow", Resource: "items", Run: func(context.Context) (int, int, error) {
		close(started)
		<-release
		return 3, 0, nil
	}}
	s := newTestScheduler(t, runtimeWith("slow", config.JobConfig{Enabled: true, Interval: time.Minute, Timeout: time.Second}), job)

	done := make(chan bool, 1)
	go func() {
		ran, _ := s.TryRun(context.Background(), "slow")
		done <- ran
	}()
	<-started

	ran, err := s.TryRun(context.Background(), "slow")
	require.NoError(t, err)
	assert.False(t, ran)

	close(release)
	assert.True(t, <-done)

	assert.Equal(t, float64(1), getCounterValue(t, registry, "feedbackrelay_scheduler_job_skipped_total", map[string]string{
		"service": "feedbackrelay",
		"env":     "test",
		"job":     "slow",
		"reason":  obsmetrics.SchedulerSkipReasonStillRunning,
	}))
	assert.Equal(t, float64(3), getCounterValue(t, registry, "feedbackrelay_scheduler_batch_processed_total", map[string]string{
		"service":  "feedbackrelay",
		"env":      "test",
		"job":      "slow",
		"resource": "items",
	}))
}

func TestTryRunSkipsDisabledJob(t *testing.T) {
	registry := withTestRegistry(t)
	var calls atomic.Int32
	job := Job{Name: "off", Resource: "items", Run: func(context.Context) (int, int, error) {
		calls.Add(1)
		return 0, 0, nil
	}}
	s := newTestScheduler(t, runtimeWith("off", config.JobConfig{Enabled: false, Interval: time.Minute, Timeout: time.Second}), job)

	ran, err := s.TryRun(context.Background(), "off")
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, calls.Load())
	assert.Equal(t, float64(1), getCounterValue(t, registry, "feedbackrelay_scheduler_job_skipped_total", map[string]string{
		"service": "feedbackrelay",
		"env":     "test",
		"job":     "off",
		"reason":  obsmetrics.SchedulerSkipReasonDisabled,
	}))
}

func TestTryRunUnknownJob(t *testing.T) {
	withTestRegistry(t)
	s := newTestScheduler(t, config.DefaultRuntimeConfig())

	_, err := s.TryRun(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownJob)
}

func TestRelayJobsDelegateToServices(t *testing.T) {
	registry := withTestRegistry(t)
	ctrl := gomock.NewController(t)

	reminders := remindermocks.NewMockDispatcher(ctrl)
	catalog := catalogmocks.NewMockService(ctrl)
	directory := directorymocks.NewMockService(ctrl)

	reminders.EXPECT().SendDueReminders(gomock.Any()).Return(reminderdomain.BatchResult{Sent: 2, Duplicate: 1, Failed: 1}, nil)
	catalog.EXPECT().SyncFormDefinitions(gomock.Any()).Return(4, nil)
	catalog.EXPECT().SyncInterviewTypes(gomock.Any()).Return(5, nil)
	directory.EXPECT().Sync(gomock.Any()).Return(directorydomain.SyncResult{Seen: 9, Stored: 6, Skipped: 3}, nil)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	s, err := New(Params{
		Log:       zap.NewNop(),
		GenID:     node,
		Runtime:   config.NewStaticRuntimeConfigHolder(config.DefaultRuntimeConfig()),
		Reminders: reminders,
		Catalog:   catalog,
		Directory: directory,
	})
	require.NoError(t, err)

	for _, name := range []string{config.JobFeedbackReminders, config.JobFormDefinitionsSync, config.JobInterviewTypesSync, config.JobSlackUsersSync} {
		ran, err := s.TryRun(context.Background(), name)
		require.NoError(t, err, name)
		assert.True(t, ran, name)
	}

	batch := func(job, resource string) map[string]string {
		return map[string]string{"service": "feedbackrelay", "env": "test", "job": job, "resource": resource}
	}
	assert.Equal(t, float64(3), getCounterValue(t, registry, "feedbackrelay_scheduler_batch_processed_total", batch(config.JobFeedbackReminders, "reminders")))
	assert.Equal(t, float64(1), getCounterValue(t, registry, "feedbackrelay_scheduler_batch_failed_total", batch(config.JobFeedbackReminders, "reminders")))
	assert.Equal(t, float64(4), getCounterValue(t, registry, "feedbackrelay_scheduler_batch_processed_total", batch(config.JobFormDefinitionsSync, "form_definitions")))
	assert.Equal(t, float64(5), getCounterValue(t, registry, "feedbackrelay_scheduler_batch_processed_total", batch(config.JobInterviewTypesSync, "interviews")))
	assert.Equal(t, float64(6), getCounterValue(t, registry, "feedbackrelay_scheduler_batch_processed_total", batch(config.JobSlackUsersSync, "slack_users")))
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInitialSyncRunsReferenceJobs(t *testing.T) {
	withTestRegistry(t)
	var forms, types, users, reminders atomic.Int32
	counter := func(c *atomic.Int32) func(context.Context) (int, int, error) {
		return func(context.Context) (int, int, error) {
			c.Add(1)
			return 1, 0, nil
		}
	}
	s := newTestScheduler(t, config.DefaultRuntimeConfig(),
		Job{Name: config.JobFeedbackReminders, Resource: "reminders", Run: counter(&reminders)},
		Job{Name: config.JobFormDefinitionsSync, Resource: "form_definitions", Run: counter(&forms)},
		Job{Name: config.JobInterviewTypesSync, Resource: "interviews", Run: counter(&types)},
		Job{Name: config.JobSlackUsersSync, Resource: "slack_users", Run: counter(&users)},
	)

	require.NoError(t, s.InitialSync(context.Background()))
	assert.Equal(t, int32(1), forms.Load())
	assert.Equal(t, int32(1), types.Load())
	assert.Equal(t, int32(1), users.Load())
	assert.Zero(t, reminders.Load())
}

func TestInitialSyncCanBeDisabled(t *testing.T) {
	withTestRegistry(t)
	var calls atomic.Int32
	cfg := config.DefaultRuntimeConfig()
	cfg.Scheduler.InitialSync = false
	s := newTestScheduler(t, cfg, Job{Name: config.JobFormDefinitionsSync, Resource: "form_definitions", Run: func(context.Context) (int, int, error) {
		calls.Add(1)
		return 0, 0, nil
	}})

	require.NoError(t, s.InitialSync(context.Background()))
	assert.Zero(t, calls.Load())
}

func TestStartRunsJobsUntilStopped(t *testing.T) {
	withTestRegistry(t)
	var calls atomic.Int32
	cfg := runtimeWith("tick", config.JobConfig{Enabled: true, Interval: 5 * time.Millisecond, Timeout: time.Second})
	cfg.Scheduler.InitialSync = false
	s := newTestScheduler(t, cfg, Job{Name: "tick", Resource: "items", Run: func(context.Context) (int, int, error) {
		calls.Add(1)
		return 1, 0, nil
	}})

	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func newTestScheduler(t *testing.T, cfg config.RuntimeConfig, jobs ...Job) *Scheduler {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return newScheduler(
		zap.NewNop(),
		node,
		config.NewStaticRuntimeConfigHolder(cfg),
		nil,
		jobs,
	)
}

func runtimeWith(name string, job config.JobConfig) config.RuntimeConfig {
	cfg := config.DefaultRuntimeConfig()
	cfg.Scheduler.Jobs[name] = job
	return cfg
}

// withTestRegistry points the scheduler metrics at a private registry.
func withTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	registry := prometheus.NewRegistry()
	oldRegisterer := prometheus.DefaultRegisterer
	oldGatherer := prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{
		ServiceName: "feedbackrelay",
		Environment: "test",
	})

	t.Cleanup(func() {
		prometheus.DefaultRegisterer = oldRegisterer
		prometheus.DefaultGatherer = oldGatherer
		obsmetrics.ResetSchedulerMetricsForTest()
	})
	return registry
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if !labelsMatch(metric, labels) {
				continue
			}
			require.NotNil(t, metric.Counter, "metric %s is not a counter", name)
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
