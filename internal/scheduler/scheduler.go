// Package scheduler runs the engine's periodic tasks (dataset reload,
// idle session sweep) on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron. Runs of the same task never overlap.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger

	mu    sync.Mutex
	ctx   context.Context
	names []string
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: logger,
		ctx: context.Background(),
	}
}

// Add registers task under spec ("@every 1m", "0 */6 * * *"). An empty
// spec disables the task and is not an error.
func (s *Scheduler) Add(spec, name string, task Task) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		s.log.Info("task disabled", "task", name)
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("cron.AddFunc %s %q: %w", name, spec, err)
	}
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	return nil
}

// Tasks lists the names of registered tasks.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Start begins firing tasks. ctx is handed to every run.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.cron.Start()
	s.log.Info("cron started", "tasks", len(s.Tasks()))
}

// Stop stops firing and waits for running tasks to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

func (s *Scheduler) run(name string, task Task) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if err := task(ctx); err != nil {
		s.log.Error("task failed", "task", name, "err", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, kv ...any) { c.l.Debug(msg, kv...) }

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error(msg, append(kv, "err", err)...)
}
