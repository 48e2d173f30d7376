package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"MTFSentinel/internal/model"
)

// FormatPrice renders a price with 2 decimals, or 6 for sub-unit prices.
func FormatPrice(p float64) string {
	d := decimal.NewFromFloat(p)
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		return d.StringFixed(6)
	}
	return d.StringFixed(2)
}

func actionIcon(a model.Action) string {
	switch a.Side() {
	case "BUY":
		return "🟢"
	case "SELL":
		return "🔴"
	default:
		return "🟠"
	}
}

// FormatSignalReport formats a signal into a Telegram HTML message.
func FormatSignalReport(symbol, execRule, filterRule string, res *model.SignalResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>MTF signal</b> | %s\n", html.EscapeString(symbol)))
	if !res.Time.IsZero() {
		b.WriteString(fmt.Sprintf("Bar: %s UTC\n", res.Time.UTC().Format("2006-01-02 15:04")))
	}
	b.WriteString(fmt.Sprintf("Close (%s): %s\n\n", html.EscapeString(execRule), FormatPrice(res.Price)))

	b.WriteString(fmt.Sprintf("%s <b>%s</b>\n", actionIcon(res.Action), html.EscapeString(string(res.Action))))
	b.WriteString(fmt.Sprintf("Confirms %s (buy/sell): %d / %d\n", html.EscapeString(execRule), res.BuyScore, res.SellScore))
	if len(res.Reasons) > 0 {
		b.WriteString(fmt.Sprintf("Reasons: %s\n", html.EscapeString(strings.Join(res.Reasons, " | "))))
	}

	if len(res.HTFDetails) > 0 {
		b.WriteString(fmt.Sprintf("\n<b>HTF filter (%s)</b>\n", html.EscapeString(filterRule)))
		for _, k := range sortedKeys(res.HTFDetails) {
			b.WriteString(fmt.Sprintf("  %s %s\n", check(res.HTFDetails[k]), k))
		}
	}
	if len(res.MMCDetails) > 0 {
		b.WriteString(fmt.Sprintf("\n<b>3-confirm (%s)</b>\n", html.EscapeString(execRule)))
		for _, k := range sortedKeys(res.MMCDetails) {
			b.WriteString(fmt.Sprintf("  %s\n", detailLine(k, res.MMCDetails[k])))
		}
	}
	if len(res.DivergenceDetails) > 0 {
		b.WriteString("\n<b>Hidden divergence</b>\n")
		for _, k := range sortedKeys(res.DivergenceDetails) {
			b.WriteString(fmt.Sprintf("  %s\n", detailLine(k, res.DivergenceDetails[k])))
		}
	}
	return b.String()
}

// FormatChange prefixes a report with the previous action when the action flipped.
func FormatChange(prev model.Action, report string) string {
	if prev == "" {
		return report
	}
	return fmt.Sprintf("🔔 Action changed from <i>%s</i>\n\n%s", html.EscapeString(string(prev)), report)
}

// Status is what /status reports.
type Status struct {
	Symbol      string
	Source      string
	MonitorCron string
	LastRun     time.Time
	LastAction  model.Action
	LastError   string
}

// FormatStatus formats the monitor state for display.
func FormatStatus(s Status) string {
	var b strings.Builder
	b.WriteString("📦 <b>Monitor status</b>\n\n")
	b.WriteString(fmt.Sprintf("Symbol: %s\n", html.EscapeString(s.Symbol)))
	b.WriteString(fmt.Sprintf("Source: %s\n", html.EscapeString(s.Source)))
	b.WriteString(fmt.Sprintf("Schedule: <code>%s</code>\n", html.EscapeString(s.MonitorCron)))
	if s.LastRun.IsZero() {
		b.WriteString("Last run: never\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Last run: %s\n", s.LastRun.UTC().Format("2006-01-02 15:04:05")))
	if s.LastAction != "" {
		b.WriteString(fmt.Sprintf("Last action: %s\n", html.EscapeString(string(s.LastAction))))
	}
	if s.LastError != "" {
		b.WriteString(fmt.Sprintf("Last error: %s\n", html.EscapeString(s.LastError)))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "🤖 <b>MTFSentinel commands</b>\n\n" +
		"/signal [SYMBOL] - run the multi-timeframe analysis now\n" +
		"/status - monitor state\n" +
		"/help - this message\n"
}

// FormatError formats a failed analysis.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("⚠️ analysis for %s failed: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

func check(ok bool) string {
	if ok {
		return "✅"
	}
	return "▫️"
}

func detailLine(k string, v any) string {
	switch x := v.(type) {
	case bool:
		return check(x) + " " + k
	case nil:
		return "· " + k + ": none"
	default:
		return fmt.Sprintf("· %s: %v", k, x)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
