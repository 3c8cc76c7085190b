package notifier

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"EquityScreener/internal/model"
)

// FormatDigest formats the top n candidates of a run as a Telegram message.
func FormatDigest(run *model.Run, n int) string {
	var b strings.Builder

	mode := "close"
	if run.Live {
		mode = "live"
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s (%s)\n",
		run.Strategy.Title(), run.StartedAt.Format("2006-01-02 15:04"), mode))
	b.WriteString(fmt.Sprintf("%d of %d records ranked\n\n", len(run.Candidates), run.UniverseSize))

	top := run.Top(n)
	if len(top) == 0 {
		b.WriteString("No candidates.")
		return b.String()
	}
	for i, c := range top {
		b.WriteString(fmt.Sprintf("%d. <b>%s</b>", i+1, html.EscapeString(c.Symbol)))
		if c.Name != "" {
			b.WriteString(" " + html.EscapeString(c.Name))
		}
		b.WriteString(fmt.Sprintf(" | %s | score %s",
			strconv.FormatFloat(c.Price, 'f', -1, 64), strconv.FormatFloat(c.Score, 'f', -1, 64)))
		if c.NearLevel != "" {
			b.WriteString(" | near " + c.NearLevel)
		}
		b.WriteString("\n")
		if len(c.Reasons) > 0 {
			b.WriteString("   " + html.EscapeString(strings.Join(c.Reasons, "; ")) + "\n")
		}
	}
	return b.String()
}

// FormatError formats a failed run for the chat.
func FormatError(kind model.Strategy, err error) string {
	return fmt.Sprintf("❌ <b>%s</b> failed: %s", kind.Title(), html.EscapeString(err.Error()))
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("Available commands (append <code>live</code> for current session prices):\n")
	for _, c := range commands {
		b.WriteString(fmt.Sprintf("• %s  %s\n", c.name, c.strategy.Title()))
	}
	return b.String()
}
