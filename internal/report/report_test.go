package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EquityScreener/internal/model"
	"EquityScreener/internal/strategy"
)

func dayCandidates() []model.Candidate {
	return []model.Candidate{
		{
			Symbol: "ABC", Name: "Alpha, Ltd", Price: 100, Score: 8, NearLevel: "R1",
			Reasons: []string{"first", "second"},
			Metrics: []model.Metric{
				{Name: strategy.MetricPch, Value: model.Some(3)},
				{Name: strategy.MetricRelVol, Value: model.Some(3)},
				{Name: strategy.MetricRSI, Value: model.Num{}},
				{Name: strategy.MetricVolatility, Value: model.Some(20)},
			},
		},
	}
}

func TestWriteCSV_Day(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.StrategyDay, dayCandidates()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"symbol", "name", "price", "pch", "volume", "rel_vol", "rsi", "volatility_%", "near_level", "score"}, rows[0])
	assert.Equal(t, []string{"ABC", "Alpha, Ltd", "100", "3", "", "3", "", "20", "R1", "8"}, rows[1])
}

func TestWriteCSV_ReasonsJoined(t *testing.T) {
	var buf bytes.Buffer
	cands := []model.Candidate{{Symbol: "X", Score: 4, Reasons: []string{"EPS positive", "PAT positive"}}}
	require.NoError(t, WriteCSV(&buf, model.StrategyLongTerm, cands))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	last := len(rows[0]) - 1
	assert.Equal(t, "reasons", rows[0][last])
	assert.Equal(t, "EPS positive; PAT positive", rows[1][last])
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.StrategyUndervalued, nil))
	assert.Equal(t, "symbol,name,price,eps,roe,pat,pe_ratio,book_value,score\n", buf.String())
}

func TestTable(t *testing.T) {
	out := strings.ToUpper(Table(dayCandidates(), model.StrategyDay))
	assert.Contains(t, out, "DAY TRADING RECOMMENDATIONS")
	assert.Contains(t, out, "VOLATILITY_%")
	assert.Contains(t, out, "ALPHA, LTD")
	assert.Contains(t, out, "1 CANDIDATES")
}

func TestColumnsCoverEveryStrategy(t *testing.T) {
	for _, kind := range model.AllStrategies {
		cols := Columns(kind)
		assert.Equal(t, "symbol", cols[0].Header, kind)
		assert.NotEmpty(t, DefaultFilename(kind))
	}
	assert.Equal(t, "undervalued.csv", DefaultFilename(model.StrategyUndervalued))
}
