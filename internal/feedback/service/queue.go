package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/config"
	"github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultWorkers    = 4
	defaultQueueSize  = 64
	submissionTimeout = 60 * time.Second
)

type QueueParams struct {
	fx.In

	Lifecycle fx.Lifecycle `optional:"true"`
	Log       *zap.Logger
	Config    config.Config
	Processor domain.Processor
}

// Queue hands submissions to a fixed pool of workers so the interaction
// endpoint can acknowledge immediately.
type Queue struct {
	log       *zap.Logger
	processor domain.Processor
	workers   int
	timeout   time.Duration

	mu      sync.RWMutex
	jobs    chan domain.Submission
	closed  bool
	started bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewQueue(p QueueParams) domain.Queue {
	q := newQueue(p.Log, p.Processor, p.Config.SubmissionWorkers, p.Config.SubmissionQueueSize)
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(context.Context) error {
				q.Start()
				return nil
			},
			OnStop: q.Drain,
		})
	}
	return q
}

func newQueue(log *zap.Logger, processor domain.Processor, workers, size int) *Queue {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if size <= 0 {
		size = defaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		log:       log.Named("feedback.queue"),
		processor: processor,
		workers:   workers,
		timeout:   submissionTimeout,
		jobs:      make(chan domain.Submission, size),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.startLocked()
}

func (q *Queue) startLocked() {
	if q.started {
		return
	}
	q.started = true
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run(i)
	}
	q.log.Info("submission workers started", zap.Int("workers", q.workers), zap.Int("capacity", cap(q.jobs)))
}

// Enqueue never blocks. A full queue is reported to the caller.
func (q *Queue) Enqueue(ctx context.Context, sub domain.Submission) error {
	if sub.CorrelationID == "" {
		sub.CorrelationID = correlation.ExtractCorrelationID(ctx)
	}
	if sub.CorrelationID == "" {
		sub.CorrelationID = correlation.NewID()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return domain.ErrQueueClosed
	}
	select {
	case q.jobs <- sub:
		return nil
	default:
		logger.WithContext(ctx, q.log).Warn("submission queue full",
			zap.String("event_id", sub.Context.EventID),
			zap.String("interviewer_id", sub.Context.InterviewerID),
		)
		return domain.ErrQueueFull
	}
}

// Drain stops intake and waits for queued submissions to finish. When ctx
// expires first, in-flight work is cancelled.
func (q *Queue) Drain(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.startLocked()
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		q.log.Info("submission queue drained")
		return nil
	case <-ctx.Done():
		q.cancel()
		q.log.Warn("submission queue drain interrupted", zap.Int("pending", len(q.jobs)))
		return ctx.Err()
	}
}

func (q *Queue) run(worker int) {
	defer q.wg.Done()
	for sub := range q.jobs {
		q.process(worker, sub)
	}
}

func (q *Queue) process(worker int, sub domain.Submission) {
	ctx := correlation.ContextWithCorrelationID(q.ctx, sub.CorrelationID)
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			q.log.Error("submission worker panic",
				zap.Int("worker", worker),
				zap.String("correlation_id", sub.CorrelationID),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := q.processor.Process(ctx, sub); err != nil {
		q.log.Debug("submission finished with error",
			zap.Int("worker", worker),
			zap.String("correlation_id", sub.CorrelationID),
			zap.Error(err),
		)
	}
}
