package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// safeRun keeps a panicking job from taking the loop down with it.
func (s *Scheduler) safeRun(ctx context.Context, job Job) (processed, failed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger(ctx).Error("scheduler.job.panic",
				zap.String("job", job.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Run(ctx)
}
