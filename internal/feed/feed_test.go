package feed

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EquityScreener/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const snapshotEq = `{"data":{"eq":{
	"ABC":{"nm":"Alpha","ldcp":100,"pch":"3.5","v":300000,"vm":100000,"rsi":25,"pp":{"pp":101,"r1":102}},
	"XYZ":{"nm":"Xylo","ldcp":"n/a","eps":2}
}}}`

func TestLoadSnapshot_EqAndFlat(t *testing.T) {
	dir := t.TempDir()

	raw, err := LoadSnapshot(writeFile(t, dir, "stocks.json", snapshotEq))
	require.NoError(t, err)
	assert.Len(t, raw, 2)

	flat, err := LoadSnapshot(writeFile(t, dir, "merged.json", `{"ABC":{"ldcp":10},"BAD":5}`))
	require.NoError(t, err)
	assert.Len(t, flat, 1)
	assert.Contains(t, flat, "ABC")

	_, err = LoadSnapshot(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestMergeMetricFile(t *testing.T) {
	dir := t.TempDir()
	raw, err := LoadSnapshot(writeFile(t, dir, "stocks.json", snapshotEq))
	require.NoError(t, err)

	metrics := `{"data":[
		{"symbol":"ABC","name":"roe","value":18.5},
		{"symbol":"ABC","name":"bv","value":"120"},
		{"symbol":"NEW","name":"roe","value":9},
		{"symbol":"","name":"roe","value":1}
	]}`
	n, err := MergeMetricFile(raw, writeFile(t, dir, "roe.json", metrics))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotContains(t, raw, "NEW")

	u := Decode(raw)
	abc := u["ABC"]
	assert.Equal(t, "ABC", abc.Symbol)
	assert.Equal(t, model.Some(18.5), abc.ROE)
	assert.Equal(t, model.Some(120), abc.BookValue)
	assert.Equal(t, model.Some(3.5), abc.PercentChange)
	require.NotNil(t, abc.Pivots)
	assert.Equal(t, model.Some(102), abc.Pivots.R1)

	xyz := u["XYZ"]
	assert.False(t, xyz.LastClose.Valid)
	assert.False(t, xyz.Eligible(false))
}

func TestExtractHAR(t *testing.T) {
	har := `{"log":{"entries":[
		{"request":{"url":"https://example.test/api/req"},
		 "response":{"content":{"text":"{\"data\":{\"eq\":{\"ABC\":{\"ldcp\":50,\"nm\":\"Alpha\"}}}}"}}},
		{"request":{"url":"https://example.test/api/req"},
		 "response":{"content":{"text":"{\"data\":[{\"symbol\":\"ABC\",\"name\":\"roa\",\"value\":7}]}"}}},
		{"request":{"url":"https://example.test/api/other"},
		 "response":{"content":{"text":"{\"data\":{\"eq\":{\"SKIP\":{\"ldcp\":1}}}}"}}},
		{"request":{"url":"https://example.test/api/req"},
		 "response":{"content":{"text":"not json"}}}
	]}}`
	raw, err := ExtractHAR(writeFile(t, t.TempDir(), "capture.har", har))
	require.NoError(t, err)
	assert.Len(t, raw, 1)

	u := Decode(raw)
	assert.Equal(t, model.Some(50), u["ABC"].LastClose)
	assert.Equal(t, model.Some(7), u["ABC"].ROA)
}

func TestDecode_KeepsMalformedFields(t *testing.T) {
	raw := make(Raw)
	raw.set("OK", "ldcp", []byte(`10`))
	raw.set("ABC", "ldcp", []byte(`100`))
	raw.set("ABC", "eps", []byte(`5`))
	raw.set("ABC", "pp", []byte(`"not an object"`))
	raw.set("ABC", "nm", []byte(`123`))
	raw.set("ABC", "bars", []byte(`[[1,1,1,1,2,1],"junk"]`))

	u := Decode(raw)
	require.Contains(t, u, "OK")
	require.Contains(t, u, "ABC")
	rec := u["ABC"]
	assert.Nil(t, rec.Pivots)
	assert.Equal(t, "123", rec.Name)
	assert.Equal(t, model.Some(5), rec.EPS)
	assert.Len(t, rec.Bars, 2)
}

func TestMergeEq_CanonicalKeyWins(t *testing.T) {
	for i := 0; i < 20; i++ {
		raw := make(Raw)
		raw.mergeEq(map[string]map[string]json.RawMessage{
			"ABC": {"bv": json.RawMessage(`1`), "bval": json.RawMessage(`2`)},
		})
		require.Equal(t, json.RawMessage(`2`), raw["ABC"]["bval"])
	}
	raw := make(Raw)
	raw.mergeEq(map[string]map[string]json.RawMessage{"ABC": {"bv": json.RawMessage(`1`)}})
	assert.Equal(t, json.RawMessage(`1`), raw["ABC"]["bval"])
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	snap := writeFile(t, dir, "stocks.json", `{"ABC":{"ldcp":100},"DEF":{"ldcp":20,"bars":[[1,10,12,8,11,100]]}}`)
	roe := writeFile(t, dir, "roe.json", `{"data":[{"symbol":"DEF","name":"roe","value":14}]}`)

	fetcher := &MockFetcher{Bars: map[string][]model.Bar{"ABC": GenerateBars(90, 0.5, 40)}}
	src := &FileSource{
		SnapshotPath: snap,
		MetricPaths:  []string{roe},
		DerivePivots: true,
		Fetcher:      fetcher,
		BarDays:      30,
	}
	u, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ABC"}, fetcher.Calls)
	assert.Len(t, u["ABC"].Bars, 30)
	require.NotNil(t, u["ABC"].Pivots)

	def := u["DEF"]
	assert.Equal(t, model.Some(14), def.ROE)
	require.NotNil(t, def.Pivots)
	// (12 + 8 + 11) / 3
	assert.Equal(t, model.Some(10.33), def.Pivots.Pivot)
}

func TestFileSource_FetchErrorsAreSkipped(t *testing.T) {
	snap := writeFile(t, t.TempDir(), "stocks.json", `{"ABC":{"ldcp":100}}`)
	src := &FileSource{SnapshotPath: snap, Fetcher: &MockFetcher{Err: errors.New("offline")}}
	u, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, u["ABC"].Bars)
	assert.Nil(t, u["ABC"].Pivots)
}

func TestFileSource_Cancelled(t *testing.T) {
	snap := writeFile(t, t.TempDir(), "stocks.json", `{"ABC":{"ldcp":100}}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &FileSource{SnapshotPath: snap, Fetcher: &MockFetcher{}}
	_, err := src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestYahooFetcher(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1700172800,1700086400,1700259200],
		"indicators":{"quote":[{"open":[2,1,null],"high":[2.5,1.5,null],"low":[1.5,0.5,null],
		"close":[2.2,1.2,null],"volume":[200,100,null]}]}}],"error":null}}`
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", ".KA")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "ABC", 10)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/ABC.KA", <-paths)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.2, bars[0].Close)
	assert.Equal(t, 2.2, bars[1].Close)
}

func TestYahooFetcher_NullPricesAreNaN(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1700086400],
		"indicators":{"quote":[{"open":[null],"high":[null],"low":[1.5],
		"close":[2.2],"volume":[null]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", "")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "ABC", 10)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.True(t, math.IsNaN(bars[0].High))
	assert.True(t, math.IsNaN(bars[0].Open))
	assert.Equal(t, 0.0, bars[0].Volume)

	u := model.Universe{"ABC": {LastClose: model.Some(2.2), Bars: bars}}
	DerivePivots(u)
	assert.Nil(t, u["ABC"].Pivots)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", "")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "NOPE", 10)
	assert.ErrorContains(t, err, "No data found")
}
