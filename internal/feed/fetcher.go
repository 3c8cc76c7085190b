package feed

import (
	"context"
	"time"

	"EquityScreener/internal/model"
)

// BarFetcher supplies daily bar history for symbols the feed carries none for.
type BarFetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	Name() string
}

// MockFetcher returns fixed bars for development and testing.
type MockFetcher struct {
	Bars  map[string][]model.Bar
	Err   error
	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.Bar, error) {
	m.Calls = append(m.Calls, symbol)
	if m.Err != nil {
		return nil, m.Err
	}
	bars := m.Bars[symbol]
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// GenerateBars builds count daily bars drifting from base by step per day.
func GenerateBars(base, step float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		p := base + float64(i)*step
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
