package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"EquityScreener/internal/model"
)

// Raw is the merged feed before decoding: symbol -> field -> raw JSON value.
// Later sources overwrite earlier ones field by field.
type Raw map[string]map[string]json.RawMessage

// fieldAliases maps provider field names onto the record keys.
var fieldAliases = map[string]string{
	"bv": "bval",
}

func canonicalField(name string) string {
	if alias, ok := fieldAliases[name]; ok {
		return alias
	}
	return name
}

func (r Raw) set(symbol, field string, value json.RawMessage) {
	fields, ok := r[symbol]
	if !ok {
		fields = make(map[string]json.RawMessage)
		r[symbol] = fields
	}
	fields[canonicalField(field)] = value
}

type eqPayload struct {
	Data struct {
		Eq map[string]map[string]json.RawMessage `json:"eq"`
	} `json:"data"`
}

type metricPayload struct {
	Data []struct {
		Symbol string          `json:"symbol"`
		Name   string          `json:"name"`
		Value  json.RawMessage `json:"value"`
	} `json:"data"`
}

// LoadSnapshot reads a base snapshot. Both {"data":{"eq":{...}}} and a flat
// {symbol: {...}} map are accepted.
func LoadSnapshot(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	raw := make(Raw)
	if err := raw.mergeSnapshot(data); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return raw, nil
}

func (r Raw) mergeSnapshot(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["data"]; ok {
		var p eqPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		r.mergeEq(p.Data.Eq)
		return nil
	}
	flat := make(map[string]map[string]json.RawMessage, len(probe))
	for symbol, body := range probe {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			log.Printf("[WARN] snapshot entry %s is not an object, skipped", symbol)
			continue
		}
		flat[symbol] = fields
	}
	r.mergeEq(flat)
	return nil
}

func (r Raw) mergeEq(eq map[string]map[string]json.RawMessage) {
	for symbol, fields := range eq {
		if symbol == "" {
			continue
		}
		// Aliases go first so the canonical key wins when both are present.
		for k, v := range fields {
			if _, aliased := fieldAliases[k]; aliased {
				r.set(symbol, k, v)
			}
		}
		for k, v := range fields {
			if _, aliased := fieldAliases[k]; !aliased {
				r.set(symbol, k, v)
			}
		}
	}
}

// mergeMetrics applies a {"data":[{"symbol","name","value"}]} list. With
// onlyKnown set, symbols missing from r are ignored.
func (r Raw) mergeMetrics(p metricPayload, onlyKnown bool) int {
	merged := 0
	for _, item := range p.Data {
		if item.Symbol == "" || item.Name == "" {
			continue
		}
		if _, ok := r[item.Symbol]; onlyKnown && !ok {
			continue
		}
		r.set(item.Symbol, item.Name, item.Value)
		merged++
	}
	return merged
}

// MergeMetricFile merges a per-metric provider file into the symbols already
// in raw and returns how many values were applied.
func MergeMetricFile(raw Raw, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read metric file: %w", err)
	}
	var p metricPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return 0, fmt.Errorf("parse metric file %s: %w", path, err)
	}
	return raw.mergeMetrics(p, true), nil
}

type harFile struct {
	Log struct {
		Entries []struct {
			Request struct {
				URL string `json:"url"`
			} `json:"request"`
			Response struct {
				Content struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"response"`
		} `json:"entries"`
	} `json:"log"`
}

// ExtractHAR merges every ".../req" response body of a browser HAR capture.
// Bodies may be an eq map or a metric list; anything else is skipped.
func ExtractHAR(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read har: %w", err)
	}
	var har harFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("parse har %s: %w", path, err)
	}

	raw := make(Raw)
	for _, entry := range har.Log.Entries {
		if !strings.HasSuffix(entry.Request.URL, "/req") {
			continue
		}
		text := entry.Response.Content.Text
		if text == "" {
			continue
		}
		var probe struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(text), &probe); err != nil {
			continue
		}
		body := strings.TrimSpace(string(probe.Data))
		switch {
		case strings.HasPrefix(body, "{"):
			var p eqPayload
			if err := json.Unmarshal([]byte(text), &p); err == nil && p.Data.Eq != nil {
				raw.mergeEq(p.Data.Eq)
			}
		case strings.HasPrefix(body, "["):
			var p metricPayload
			if err := json.Unmarshal([]byte(text), &p); err == nil {
				raw.mergeMetrics(p, false)
			}
		}
	}
	return raw, nil
}

// Decode turns the merged feed into typed records. Missing or malformed
// fields never fail a record; only a body that is not an object is left out.
func Decode(raw Raw) model.Universe {
	u := make(model.Universe, len(raw))
	for symbol, fields := range raw {
		body, err := json.Marshal(fields)
		if err != nil {
			log.Printf("[WARN] feed record %s: %v, skipped", symbol, err)
			continue
		}
		var rec model.EquityRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			log.Printf("[WARN] feed record %s: %v, skipped", symbol, err)
			continue
		}
		rec.Symbol = symbol
		u[symbol] = rec
	}
	return u
}
