package stats

import (
	"context"
	"reflect"

	"github.com/zhenzou/executors"

	"github.com/looplj/llmsim/internal/log"
)

// errorHandler and rejectionHandler adapt the simulator's logger into the
// executors.ScheduledExecutor's error/rejection callbacks.
type errorHandler struct{}

func (h *errorHandler) CatchError(runnable executors.Runnable, err error) {
	log.Error(context.Background(), "stats pruner task error", log.Cause(err))
}

type rejectionHandler struct{}

func (h *rejectionHandler) RejectExecution(runnable executors.Runnable, e executors.Executor) error {
	log.Error(context.Background(), "stats pruner task rejected", log.String("runnable", reflect.ValueOf(runnable).String()))
	return nil
}

// Pruner periodically sweeps Stats' rolling request-time window so memory
// stays bounded even through long idle periods, when no new request would
// otherwise trigger the inline eviction in RecordRequestStart.
type Pruner struct {
	stats    *Stats
	executor executors.ScheduledExecutor
	cancel   context.CancelFunc
}

// NewPruner builds a single-worker scheduled executor dedicated to pruning.
func NewPruner(s *Stats, logger *log.Logger) *Pruner {
	executor := executors.NewPoolScheduleExecutor(
		executors.WithMaxConcurrent(1),
		executors.WithMaxBlockingTasks(1),
		executors.WithErrorHandler(&errorHandler{}),
		executors.WithRejectionHandler(&rejectionHandler{}),
		executors.WithLogger(logger.AsSlog()),
	)

	return &Pruner{stats: s, executor: executor}
}

// Start schedules the pruning sweep to run once a minute, the finest
// granularity standard cron expressions support.
func (p *Pruner) Start(ctx context.Context) error {
	cancel, err := p.executor.ScheduleFuncAtCronRate(p.prune, executors.CRONRule{Expr: "* * * * *"})
	if err != nil {
		return err
	}

	p.cancel = cancel

	return nil
}

func (p *Pruner) prune(ctx context.Context) {
	before := p.stats.windowLen()
	p.stats.pruneWindow()
	after := p.stats.windowLen()
	logDroppedPrune(ctx, before-after)
}

// Stop cancels the scheduled sweep and shuts down the executor.
func (p *Pruner) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	return p.executor.Shutdown(ctx)
}

func (s *Stats) windowLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requestTimes)
}
