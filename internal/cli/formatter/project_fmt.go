package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectCard renders one project as a bordered card: name and status
// pill, progress bar, dates, financials and the task breakdown. The
// selected card gets an accent border.
func FormatProjectCard(p *domain.Project, width int, selected bool) string {
	if width < 30 {
		width = 30
	}
	border := ColorDim
	if selected {
		border = ColorHeader
	}

	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "  " + StatusPill(p.Status) + "\n")
	b.WriteString(RenderPercent(domain.ClampProgress(p.Progress), min(width-14, 30)) + "\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
		StyleDim.Render("START"), DisplayDate(p.StartDate),
		StyleDim.Render("END"), DisplayDate(p.EndDate)))
	earned := Rupees(p.Financials.EarnedValue)
	if r := p.EarnedRatio(); r > 0 {
		earned += StyleDim.Render(fmt.Sprintf(" (%.0f%%)", r*100))
	}
	b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
		StyleDim.Render("PRICE"), Rupees(p.Financials.PriceValue),
		StyleDim.Render("EARNED"), earned))
	b.WriteString(FormatBreakdown(p.Breakdown()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

// FormatBreakdown renders task counts per status on one line.
func FormatBreakdown(c domain.TaskCounts) string {
	return fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
		StyleDim.Render("TASKS"), c.Total,
		StyleDim.Render("○"), c.NotStarted,
		StyleYellow.Render("●"), c.InProgress,
		StyleGreen.Render("✔"), c.Completed)
}

// FormatHealthTable renders the project health report.
func FormatHealthTable(rows []domain.ProjectHealth) string {
	if len(rows) == 0 {
		return StyleDim.Render("No projects to report on.")
	}
	headers := []string{"PROJECT", "STATUS", "PROGRESS", "DELAY", "HEALTH"}
	cells := make([][]string, 0, len(rows))
	for _, h := range rows {
		delay := DelayText(h.Delay)
		if delay == "" {
			delay = StyleDim.Render("on track")
		} else {
			delay = StyleRed.Render(delay)
		}
		cells = append(cells, []string{
			h.Name,
			StatusPill(h.Status),
			RenderPercent(domain.ClampProgress(h.Progress), 12),
			delay,
			HealthBadge(h.Health),
		})
	}
	return RenderTableMax(headers, cells, 40)
}

// HealthBadge colors a server-reported health label. Labels other than the
// known ones are shown as sent.
func HealthBadge(health string) string {
	switch strings.ToLower(strings.TrimSpace(health)) {
	case "":
		return StyleDim.Render("--")
	case "good", "healthy", "on track", "on_track":
		return StyleGreen.Render(health)
	case "warning", "at risk", "at_risk":
		return StyleYellow.Render(health)
	case "critical", "delayed", "poor":
		return StyleRed.Render(health)
	default:
		return StyleFg.Render(health)
	}
}
