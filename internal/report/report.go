package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"EquityScreener/internal/model"
	"EquityScreener/internal/strategy"
)

// Column is one exported field of a candidate.
type Column struct {
	Header string
	Value  func(c model.Candidate) string
}

func fixed(header string, value func(c model.Candidate) string) Column {
	return Column{Header: header, Value: value}
}

func metric(header, name string) Column {
	return Column{Header: header, Value: func(c model.Candidate) string {
		v := c.Metric(name)
		if !v.Valid {
			return ""
		}
		return v.String()
	}}
}

var (
	colSymbol = fixed("symbol", func(c model.Candidate) string { return c.Symbol })
	colName   = fixed("name", func(c model.Candidate) string { return c.Name })
	colPrice  = fixed("price", func(c model.Candidate) string { return formatFloat(c.Price) })
	colScore  = fixed("score", func(c model.Candidate) string { return formatFloat(c.Score) })
	colNear   = fixed("near_level", func(c model.Candidate) string { return c.NearLevel })
	colReason = fixed("reasons", func(c model.Candidate) string { return strings.Join(c.Reasons, "; ") })
)

// Columns returns the export column set for a strategy.
func Columns(kind model.Strategy) []Column {
	switch kind {
	case model.StrategyDay:
		return []Column{colSymbol, colName, colPrice,
			metric("pch", strategy.MetricPch),
			metric("volume", strategy.MetricVolume),
			metric("rel_vol", strategy.MetricRelVol),
			metric("rsi", strategy.MetricRSI),
			metric("volatility_%", strategy.MetricVolatility),
			colNear, colScore}
	case model.StrategySwing:
		return []Column{colSymbol, colName, colPrice,
			metric("pch", strategy.MetricPch),
			metric("rsi", strategy.MetricRSI),
			metric("p1m", strategy.MetricPrice1Month),
			metric("p3m", strategy.MetricPrice3Month),
			colScore}
	case model.StrategyLongTerm:
		return []Column{colSymbol, colName, colPrice,
			metric("eps", strategy.MetricEPS),
			metric("roe", strategy.MetricROE),
			metric("roa", strategy.MetricROA),
			metric("pat", strategy.MetricPAT),
			metric("per", strategy.MetricPER),
			metric("pbr", strategy.MetricPBR),
			metric("dy", strategy.MetricDividendYield),
			metric("debt_equity", strategy.MetricDebtEquity),
			metric("int_cover", strategy.MetricIntCover),
			metric("current_ratio", strategy.MetricCurrentRatio),
			metric("quick_ratio", strategy.MetricQuickRatio),
			metric("fcf", strategy.MetricFCF),
			colScore, colReason}
	case model.StrategyUndervalued:
		return []Column{colSymbol, colName, colPrice,
			metric("eps", strategy.MetricEPS),
			metric("roe", strategy.MetricROE),
			metric("pat", strategy.MetricPAT),
			metric("pe_ratio", strategy.MetricPERatio),
			metric("book_value", strategy.MetricBookValue),
			colScore}
	case model.StrategyStrong:
		return []Column{colSymbol, colName, colPrice,
			metric("eps", strategy.MetricEPS),
			metric("roe", strategy.MetricROE),
			metric("roce", strategy.MetricROCE),
			metric("pe_ratio", strategy.MetricPERatio),
			metric("pbr", strategy.MetricPBR),
			metric("debt_equity", strategy.MetricDebtEquity),
			metric("rsi", strategy.MetricRSI),
			metric("macd", strategy.MetricMACD),
			metric("macd_signal", strategy.MetricMACDSignal),
			metric("sma50", strategy.MetricSMA50),
			colScore, colReason}
	default:
		return []Column{colSymbol, colName, colPrice, colScore}
	}
}

// DefaultFilename is the CSV name used when the caller gives none.
func DefaultFilename(kind model.Strategy) string {
	switch kind {
	case model.StrategyDay:
		return "day_trade.csv"
	case model.StrategySwing:
		return "swing_trade.csv"
	case model.StrategyLongTerm:
		return "long_term.csv"
	default:
		return string(kind) + ".csv"
	}
}

// WriteCSV writes a header row and one row per candidate in rank order.
func WriteCSV(w io.Writer, kind model.Strategy, cands []model.Candidate) error {
	cols := Columns(kind)
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range cands {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = col.Value(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Table renders candidates as a boxed text table titled for the strategy.
func Table(cands []model.Candidate, kind model.Strategy) string {
	cols := Columns(kind)
	t := table.NewWriter()
	t.SetTitle(kind.Title())
	t.SetStyle(table.StyleLight)

	header := table.Row{"#"}
	for _, col := range cols {
		header = append(header, col.Header)
	}
	t.AppendHeader(header)

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for i, col := range cols {
		if col.Header == "reasons" {
			configs = append(configs, table.ColumnConfig{Number: i + 2, WidthMax: 60})
		}
	}
	t.SetColumnConfigs(configs)

	for i, c := range cands {
		row := table.Row{i + 1}
		for _, col := range cols {
			row = append(row, col.Value(c))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d candidates", len(cands))})
	return t.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
