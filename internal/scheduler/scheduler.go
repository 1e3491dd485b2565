// Package scheduler drives periodic generation of recurring transactions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"go.uber.org/zap"
)

// Runner generates due transactions for every company.
type Runner interface {
	GenerateAll(ctx context.Context, asOf time.Time) ([]application.GenerationRun, error)
}

type Scheduler struct {
	runner   Runner
	cron     *cron.Cron
	notifyCh chan struct{}
	logger   *zap.Logger
	now      func() time.Time

	// mu serialises runs coming from cron, Notify and RunNow.
	mu     sync.Mutex
	runCtx context.Context
}

// New validates spec (standard cron syntax or descriptors such as "@every 1h") and
// registers the generation job. Nothing runs until Start.
func New(runner Runner, spec string, logger *zap.Logger) (*Scheduler, error) {
	logger = logger.Named("scheduler")
	s := &Scheduler{
		runner:   runner,
		notifyCh: make(chan struct{}, 1),
		logger:   logger,
		now:      time.Now,
		runCtx:   context.Background(),
	}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(zap.NewStdLog(logger))),
		cron.SkipIfStillRunning(cron.PrintfLogger(zap.NewStdLog(logger))),
	))
	if _, err := s.cron.AddFunc(spec, func() { s.run(s.runCtx, "cron") }); err != nil {
		return nil, fmt.Errorf("invalid recurring schedule %q: %w", spec, err)
	}
	return s, nil
}

// Notify triggers an immediate run. Non-blocking if a run is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// RunNow generates synchronously, waiting for a run already in progress to finish first.
func (s *Scheduler) RunNow(ctx context.Context) ([]application.GenerationRun, error) {
	return s.run(ctx, "manual")
}

// Start runs once, then serves cron ticks and Notify calls until ctx is cancelled.
// It blocks; the cron goroutine is stopped and drained before it returns.
func (s *Scheduler) Start(ctx context.Context) {
	s.runCtx = ctx
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
		s.logger.Info("Scheduler stopped")
	}()

	s.run(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notifyCh:
			s.run(ctx, "notify")
		}
	}
}

func (s *Scheduler) run(ctx context.Context, trigger string) ([]application.GenerationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	started := time.Now()
	runs, err := s.runner.GenerateAll(ctx, s.now())

	created, skipped := 0, 0
	for _, r := range runs {
		created += r.Created
		skipped += r.Skipped
	}
	fields := []zap.Field{
		zap.String("trigger", trigger),
		zap.Int("companies", len(runs)),
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(started)),
	}
	if err != nil {
		s.logger.Error("Recurring generation finished with errors", append(fields, zap.Error(err))...)
		return runs, err
	}
	s.logger.Info("Recurring generation finished", fields...)
	return runs, nil
}
