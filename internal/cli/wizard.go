package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// buildtrackHuhTheme returns a huh theme matching the formatter palette.
func buildtrackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: green accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorPanel).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themedForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(buildtrackHuhTheme()).WithShowHelp(false)
}

// projectFormValues backs the create-project form.
type projectFormValues struct {
	Name   string
	Start  string
	End    string
	Status domain.ProjectStatus
}

func (v projectFormValues) input() domain.ProjectInput {
	return domain.ProjectInput{
		Name:      strings.TrimSpace(v.Name),
		StartDate: strings.TrimSpace(v.Start),
		EndDate:   strings.TrimSpace(v.End),
		Status:    v.Status,
	}
}

func projectForm(values *projectFormValues) *huh.Form {
	if values.Status == "" {
		values.Status = domain.ProjectPlanning
	}
	options := make([]huh.Option[domain.ProjectStatus], 0, len(domain.ProjectStatuses))
	for _, s := range domain.ProjectStatuses {
		options = append(options, huh.NewOption(string(s), s))
	}
	return themedForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Name").
				Placeholder("Tower A").
				Value(&values.Name).
				Validate(validateRequired),
			dateInput("Start Date (YYYY-MM-DD, blank for none)", &values.Start),
			dateInput("End Date (YYYY-MM-DD, blank for none)", &values.End),
			huh.NewSelect[domain.ProjectStatus]().
				Title("Status").
				Options(options...).
				Value(&values.Status),
		),
	)
}

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2025-06-30").
		Value(value).
		Validate(validateOptionalDate)
}

func progressForm(name string, value *string) *huh.Form {
	return themedForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Progress for %s (0-100)", name)).
				Value(value).
				Validate(validatePercent),
		),
	)
}

func quantityForm(title string, value *string) *huh.Form {
	return themedForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("10").
				Value(value).
				Validate(validateNonNegativeNumber),
		),
	)
}

// recordForm collects one text value per field. Values are sent as
// numbers when they parse as numbers.
func recordForm(fields []recordField, values map[string]*string) *huh.Form {
	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		if values[f.key] == nil {
			values[f.key] = new(string)
		}
		in := huh.NewInput().
			Title(f.label).
			Placeholder(f.placeholder).
			Value(values[f.key])
		if f.required {
			in = in.Validate(validateRequired)
		}
		inputs = append(inputs, in)
	}
	return themedForm(huh.NewGroup(inputs...))
}

// recordBody converts form values into a request body.
func recordBody(fields []recordField, values map[string]*string) map[string]any {
	body := make(map[string]any, len(fields))
	for _, f := range fields {
		p := values[f.key]
		if p == nil {
			continue
		}
		s := strings.TrimSpace(*p)
		if s == "" {
			continue
		}
		if f.numeric {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				body[f.key] = n
				continue
			}
		}
		body[f.key] = s
	}
	return body
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return themedForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Keep").
				Value(result),
		),
	)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validatePercent(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("enter a number from 0 to 100")
	}
	return nil
}

func validateNonNegativeNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
