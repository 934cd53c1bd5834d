// Package output renders terminal output for the journal subcommand.
//
// Table rendering uses ASCII characters and ANSI color codes; color is
// suppressed when stdout is not a TTY or NO_COLOR is set. The event stream
// itself never goes through this package — its format is fixed by the wire
// protocol.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/watchmux/internal/journal"
)

// ANSI color codes for per-kind counters
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderJournalTable renders one row per subscription id with its delivered
// event counts. Summaries arrive pre-sorted by id from the journal.
func RenderJournalTable(summaries []journal.Summary) string {
	if len(summaries) == 0 {
		return "No delivered events recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-6s %-8s %-8s %-8s %-8s %-8s %s\n",
		"ID", "Total", "Creates", "Changes", "Deletes", "Batches", "Last Delivered"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%-6d %-8d %-8d %-8d %-8d %-8d %s\n",
			s.UID,
			s.Total(),
			s.Creates,
			s.Changes,
			s.Deletes,
			s.Batches,
			formatRelativeTime(s.LastDelivered)))
	}

	return sb.String()
}

// RenderJournalFooter renders a colored one-line total across all
// subscriptions.
// Format: "3 subscriptions · 12 creates · 40 changes · 5 deletes"
func RenderJournalFooter(summaries []journal.Summary) string {
	var creates, changes, deletes int
	for _, s := range summaries {
		creates += s.Creates
		changes += s.Changes
		deletes += s.Deletes
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d %s", len(summaries), pluralize("subscription", len(summaries))))
	sb.WriteString(" · ")
	sb.WriteString(colorize(colorGreen, fmt.Sprintf("%d creates", creates)))
	sb.WriteString(" · ")
	sb.WriteString(colorize(colorYellow, fmt.Sprintf("%d changes", changes)))
	sb.WriteString(" · ")
	sb.WriteString(colorize(colorRed, fmt.Sprintf("%d deletes", deletes)))
	return sb.String()
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}
}
