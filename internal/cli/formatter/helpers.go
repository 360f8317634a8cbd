package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// StatCard renders a small bordered card with a large value and a caption,
// accented on the left edge with color.
func StatCard(title, value string, color lipgloss.Color, width int) string {
	if width < 12 {
		width = 12
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1).
		Width(width)
	return card.Render(
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(value) + "\n" + Dim(title),
	)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// DisplayDate renders an API date as "Jun 4, 2025", or "--" when absent.
// Dates that cannot be parsed are shown as sent.
func DisplayDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "--"
	}
	t, ok := domain.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.ProjectPlanning:
		return StyleBlue.Render("○ Planning")
	case domain.ProjectCompleted:
		return StyleGreen.Render("✔ Completed")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render(string(status))
	}
}

// DelayText describes a task delay, e.g. "3 days delay". Zero or negative
// delays render as an empty string.
func DelayText(days int) string {
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return "1 day delay"
	default:
		return fmt.Sprintf("%d days delay", days)
	}
}

// Rupees formats an amount with the rupee sign and thousands separators,
// keeping up to two decimals: 45000 → "₹45,000", 1250.5 → "₹1,250.5".
func Rupees(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	amount = math.Round(amount*100) / 100
	whole := math.Floor(amount)
	frac := strconv.FormatFloat(amount-whole, 'f', 2, 64)
	frac = strings.TrimRight(strings.TrimPrefix(frac, "0"), "0")
	frac = strings.TrimSuffix(frac, ".")
	return sign + "₹" + Thousands(int64(whole)) + frac
}

// Thousands inserts comma separators: 1234567 → "1,234,567".
func Thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Truncate shortens s to at most width visible cells, ending with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if lipgloss.Width(s) <= width {
		return s
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// PadRight pads s with spaces to the given visible width.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
