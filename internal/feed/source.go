package feed

import (
	"context"
	"fmt"
	"log"

	"EquityScreener/internal/calculator"
	"EquityScreener/internal/model"
)

// Source produces the universe for one screening run.
type Source interface {
	Name() string
	Load(ctx context.Context) (model.Universe, error)
}

// FileSource loads a snapshot file, merges per-metric files and an optional
// HAR capture on top, then fills in derived data.
type FileSource struct {
	SnapshotPath string
	MetricPaths  []string
	HARPath      string

	// DerivePivots computes floor pivots from the last bar for records that
	// carry no pivot data.
	DerivePivots bool

	// Fetcher, when set, supplies BarDays of history for records without bars.
	Fetcher BarFetcher
	BarDays int
}

func (s *FileSource) Name() string { return "file:" + s.SnapshotPath }

// Load reads and merges every configured file. The files are re-read on each
// call so a refreshed snapshot is picked up by the next run.
func (s *FileSource) Load(ctx context.Context) (model.Universe, error) {
	raw, err := LoadSnapshot(s.SnapshotPath)
	if err != nil {
		return nil, err
	}
	if s.HARPath != "" {
		har, err := ExtractHAR(s.HARPath)
		if err != nil {
			return nil, err
		}
		for symbol, fields := range har {
			for k, v := range fields {
				raw.set(symbol, k, v)
			}
		}
	}
	for _, path := range s.MetricPaths {
		n, err := MergeMetricFile(raw, path)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] merged %d values from %s", n, path)
	}

	u := Decode(raw)
	if s.Fetcher != nil {
		if err := s.enrichBars(ctx, u); err != nil {
			return nil, err
		}
	}
	if s.DerivePivots {
		DerivePivots(u)
	}
	return u, nil
}

func (s *FileSource) enrichBars(ctx context.Context, u model.Universe) error {
	days := s.BarDays
	if days <= 0 {
		days = 120
	}
	for _, symbol := range u.Symbols() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("enrich bars: %w", err)
		}
		rec := u[symbol]
		if len(rec.Bars) > 0 {
			continue
		}
		bars, err := s.Fetcher.FetchDailyBars(ctx, symbol, days)
		if err != nil {
			log.Printf("[WARN] %s bars for %s: %v", s.Fetcher.Name(), symbol, err)
			continue
		}
		rec.Bars = bars
		u[symbol] = rec
	}
	return nil
}

// DerivePivots fills pivot levels from the most recent bar for records
// without them.
func DerivePivots(u model.Universe) {
	for symbol, rec := range u {
		if rec.Pivots != nil || len(rec.Bars) == 0 {
			continue
		}
		levels, ok := calculator.PivotLevels(rec.Bars[len(rec.Bars)-1])
		if !ok {
			continue
		}
		rec.Pivots = &levels
		u[symbol] = rec
	}
}

// StaticSource serves a fixed universe.
type StaticSource struct {
	Universe model.Universe
}

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Load(_ context.Context) (model.Universe, error) {
	return s.Universe, nil
}
