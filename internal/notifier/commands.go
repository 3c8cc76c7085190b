package notifier

import (
	"strings"

	"EquityScreener/internal/model"
)

var commands = []struct {
	name     string
	strategy model.Strategy
}{
	{"/day", model.StrategyDay},
	{"/swing", model.StrategySwing},
	{"/long", model.StrategyLongTerm},
	{"/value", model.StrategyUndervalued},
	{"/strong", model.StrategyStrong},
}

// ParseCommand reads "/day", "/swing live" and so on. Bot-name suffixes such
// as "/day@screener_bot" are accepted.
func ParseCommand(text string) (kind model.Strategy, live bool, ok bool) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 || len(fields) > 2 {
		return "", false, false
	}
	name, _, _ := strings.Cut(fields[0], "@")
	if len(fields) == 2 {
		if fields[1] != "live" {
			return "", false, false
		}
		live = true
	}
	for _, c := range commands {
		if c.name == name {
			return c.strategy, live, true
		}
	}
	return "", false, false
}
