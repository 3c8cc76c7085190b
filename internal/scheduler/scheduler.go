package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"EquityScreener/internal/metrics"
	"EquityScreener/internal/model"
	"EquityScreener/internal/notifier"
)

// Runner runs one screening pass.
type Runner interface {
	Run(ctx context.Context, kind model.Strategy, live bool) (*model.Run, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron-driven screening runs.
type Scheduler struct {
	Cron       *cron.Cron
	Runner     Runner
	Notifier   Sender
	Metrics    *metrics.Metrics
	Strategies []model.Strategy
	TopN       int
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. sender and m may be nil.
func NewScheduler(ctx context.Context, runner Runner, sender Sender, m *metrics.Metrics, strategies []model.Strategy, topN int) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Runner:     runner,
		Notifier:   sender,
		Metrics:    m,
		Strategies: strategies,
		TopN:       topN,
		Ctx:        ctx,
	}
}

// RegisterAll registers the close-of-day run (prior close) and the intraday
// run (current session close). An empty spec skips that job.
func (s *Scheduler) RegisterAll(closeCron, intradayCron string) error {
	if closeCron != "" {
		if _, err := s.Cron.AddFunc(closeCron, func() { s.runAll(false) }); err != nil {
			return fmt.Errorf("register close task: %w", err)
		}
	}
	if intradayCron != "" {
		if _, err := s.Cron.AddFunc(intradayCron, func() { s.runAll(true) }); err != nil {
			return fmt.Errorf("register intraday task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow runs every configured strategy immediately.
func (s *Scheduler) RunNow(live bool) {
	s.runAll(live)
}

func (s *Scheduler) runAll(live bool) {
	log.Printf("[INFO] running %d strategies (live=%v)", len(s.Strategies), live)
	for _, kind := range s.Strategies {
		if s.Ctx.Err() != nil {
			return
		}
		run, err := s.Runner.Run(s.Ctx, kind, live)
		if err != nil {
			log.Printf("[ERROR] %s run: %v", kind, err)
			s.trySend(notifier.FormatError(kind, err))
			continue
		}
		s.trySend(notifier.FormatDigest(run, s.TopN))
	}
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(command string) string {
	kind, live, ok := notifier.ParseCommand(command)
	if !ok {
		return notifier.FormatHelp()
	}
	run, err := s.Runner.Run(s.Ctx, kind, live)
	if err != nil {
		log.Printf("[ERROR] %s command: %v", kind, err)
		return notifier.FormatError(kind, err)
	}
	return notifier.FormatDigest(run, s.TopN)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	err := s.Notifier.SendWithRetry(s.Ctx, text, 3)
	if err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
	if s.Metrics != nil {
		s.Metrics.ObserveNotification(err)
	}
}
