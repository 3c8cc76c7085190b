package screener

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"EquityScreener/internal/feed"
	"EquityScreener/internal/metrics"
	"EquityScreener/internal/model"
	"EquityScreener/internal/recorder"
	"EquityScreener/internal/strategy"
)

// Service runs one strategy end to end: load, score, rank, record.
type Service struct {
	Source       feed.Source
	Recorder     recorder.Recorder
	Metrics      *metrics.Metrics
	SwingWeights map[string]float64

	now func() time.Time
}

// NewService creates a Service. rec and m may be nil.
func NewService(src feed.Source, rec recorder.Recorder, m *metrics.Metrics, swingWeights map[string]float64) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		Source:       src,
		Recorder:     rec,
		Metrics:      m,
		SwingWeights: swingWeights,
		now:          time.Now,
	}
}

// Run screens a freshly loaded universe. A failure to record the run is
// logged and does not fail it.
func (s *Service) Run(ctx context.Context, kind model.Strategy, live bool) (*model.Run, error) {
	started := s.now()
	run := &model.Run{
		ID:        uuid.NewString(),
		Strategy:  kind,
		Live:      live,
		StartedAt: started,
	}

	u, err := s.Source.Load(ctx)
	if err != nil {
		s.observeError(kind, "load")
		return nil, fmt.Errorf("load %s: %w", s.Source.Name(), err)
	}
	run.UniverseSize = len(u)

	cands, err := strategy.Screen(kind, u, strategy.Options{Live: live, SwingWeights: s.SwingWeights})
	if err != nil {
		s.observeError(kind, "score")
		return nil, err
	}
	run.Candidates = cands
	run.Duration = s.now().Sub(started)

	if err := s.Recorder.RecordRun(run); err != nil {
		log.Printf("[ERROR] record run %s: %v", run.ID, err)
		s.observeError(kind, "record")
	}
	if s.Metrics != nil {
		s.Metrics.ObserveRun(run)
	}
	log.Printf("[INFO] %s run %s: %d of %d records ranked (live=%v, %v)",
		kind, run.ID, len(cands), run.UniverseSize, live, run.Duration)
	return run, nil
}

func (s *Service) observeError(kind model.Strategy, stage string) {
	if s.Metrics != nil {
		s.Metrics.ObserveError(kind, stage)
	}
}
