package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/alexanderramin/buildtrack/internal/loader"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// recordField is one input of a create form. Numeric values are sent as
// JSON numbers when they parse.
type recordField struct {
	key         string
	label       string
	placeholder string
	required    bool
	numeric     bool
}

// resourceScreen describes a list screen over one opaque resource group.
type resourceScreen struct {
	id     ViewID
	title  string
	noun   string
	group  func(c *api.Client) api.CRUD
	fields []recordField

	// extras loads the group's side panel (categories, roles, stats).
	extrasTitle string
	extras      func(ctx context.Context, c *api.Client) (*api.Response, error)
	// moneyExtras shows numeric side-panel figures as rupee amounts.
	moneyExtras bool
}

var (
	materialsScreen = resourceScreen{
		id:    ViewMaterials,
		title: "Materials",
		noun:  "material",
		group: func(c *api.Client) api.CRUD { return c.Materials },
		fields: []recordField{
			{key: "name", label: "Name", placeholder: "Cement", required: true},
			{key: "category", label: "Category", placeholder: "Binding"},
			{key: "quantity", label: "Quantity", placeholder: "100", numeric: true},
			{key: "unit", label: "Unit", placeholder: "bags"},
			{key: "unitPrice", label: "Unit Price (₹)", placeholder: "450", numeric: true},
		},
		extrasTitle: "Categories",
		extras: func(ctx context.Context, c *api.Client) (*api.Response, error) {
			return c.Materials.Categories(ctx)
		},
	}
	labourScreen = resourceScreen{
		id:    ViewLabour,
		title: "Labour",
		noun:  "labour record",
		group: func(c *api.Client) api.CRUD { return c.Labour },
		fields: []recordField{
			{key: "name", label: "Name", placeholder: "Ravi Kumar", required: true},
			{key: "role", label: "Role", placeholder: "Mason"},
			{key: "dailyWage", label: "Daily Wage (₹)", placeholder: "800", numeric: true},
			{key: "phone", label: "Phone"},
		},
		extrasTitle: "Roles",
		extras: func(ctx context.Context, c *api.Client) (*api.Response, error) {
			return c.Labour.Roles(ctx)
		},
	}
	issuesScreen = resourceScreen{
		id:    ViewIssues,
		title: "Issues",
		noun:  "issue",
		group: func(c *api.Client) api.CRUD { return c.Issues },
		fields: []recordField{
			{key: "title", label: "Title", placeholder: "Water leakage in B block", required: true},
			{key: "description", label: "Description"},
			{key: "priority", label: "Priority", placeholder: "high"},
		},
		extrasTitle: "Summary",
		extras: func(ctx context.Context, c *api.Client) (*api.Response, error) {
			return c.Issues.Stats(ctx)
		},
	}
	pettyCashScreen = resourceScreen{
		id:    ViewPettyCash,
		title: "Petty Cash",
		noun:  "expense",
		group: func(c *api.Client) api.CRUD { return c.Expenses },
		fields: []recordField{
			{key: "description", label: "Description", placeholder: "Site tea and snacks", required: true},
			{key: "category", label: "Category", placeholder: "Miscellaneous"},
			{key: "amount", label: "Amount (₹)", placeholder: "250", required: true, numeric: true},
			{key: "date", label: "Date (YYYY-MM-DD)"},
		},
		extrasTitle: "Summary",
		extras: func(ctx context.Context, c *api.Client) (*api.Response, error) {
			return c.Expenses.Stats(ctx, nil)
		},
		moneyExtras: true,
	}
)

// resourceData is what a resource screen loads. The side panel is loaded
// with the records; its failure only affects its own section.
type resourceData struct {
	records   []domain.Record
	extras    json.RawMessage
	extrasErr error
}

const maxRecordColumns = 7

// resourceView lists the records of one resource group.
type resourceView struct {
	state  *SharedState
	def    resourceScreen
	data   *loader.Loader[resourceData]
	cursor int
	intent intent
}

func newResourceView(state *SharedState, def resourceScreen, in intent) *resourceView {
	return &resourceView{
		state:  state,
		def:    def,
		data:   loader.New[resourceData](state.Ctx),
		intent: in,
	}
}

func (v *resourceView) ID() ViewID    { return v.def.id }
func (v *resourceView) Title() string { return v.def.title }
func (v *resourceView) Close()        { v.data.Close() }

func (v *resourceView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	}
	switch v.def.id {
	case ViewMaterials:
		bindings = append(bindings,
			key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "qty")),
			key.NewBinding(key.WithKeys("="), key.WithHelp("=", "set qty")),
		)
	case ViewIssues:
		bindings = append(bindings, key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")))
	}
	return append(bindings, key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")))
}

func (v *resourceView) Init() tea.Cmd {
	load := v.load()
	if v.intent == intentCreate {
		return tea.Batch(load, v.createForm())
	}
	return load
}

func (v *resourceView) load() tea.Cmd {
	client := v.state.App.Client
	def := v.def
	return fetch(v.data, func(ctx context.Context) (resourceData, error) {
		resp, err := def.group(client).List(ctx, nil)
		if err != nil {
			return resourceData{}, err
		}
		records, err := decodeList[domain.Record](resp)
		if err != nil {
			return resourceData{}, err
		}
		data := resourceData{records: records}
		if def.extras != nil {
			extra, err := def.extras(ctx, client)
			if err != nil {
				data.extrasErr = err
			} else {
				data.extras = extra.Body
			}
		}
		return data, nil
	})
}

func (v *resourceView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[resourceData]:
		if v.data.Apply(msg.ticket, msg.data, msg.err) {
			v.clampCursor()
		}
		return v, nil

	case mutatedMsg:
		if msg.owner != v.data.ID() {
			return v, nil
		}
		if msg.err != nil {
			return v, flash(fmt.Sprintf("%s failed: %s", msg.what, describeErr(msg.err)), true)
		}
		return v, tea.Batch(flash(msg.what+" done.", false), v.load())

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *resourceView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	records := v.data.State().Data.records

	switch s := msg.String(); s {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(records)-1 {
			v.cursor++
		}
	case "r":
		return v, v.load()
	case "n":
		return v, v.createForm()
	case "x":
		if rec, ok := v.selected(); ok {
			return v, v.deleteForm(rec)
		}
	case "+", "-":
		if v.def.id != ViewMaterials {
			break
		}
		if rec, ok := v.selected(); ok {
			op := domain.QuantityAdd
			if s == "-" {
				op = domain.QuantitySubtract
			}
			return v, v.updateQuantity(rec.ID(), 1, op)
		}
	case "=":
		if v.def.id != ViewMaterials {
			break
		}
		if rec, ok := v.selected(); ok {
			return v, v.setQuantityForm(rec)
		}
	case "s":
		if v.def.id != ViewIssues {
			break
		}
		if rec, ok := v.selected(); ok {
			return v, v.updateStatus(rec.ID(), domain.NextIssueStatus(rec.Field("status")))
		}
	}
	return v, nil
}

func (v *resourceView) selected() (domain.Record, bool) {
	records := v.data.State().Data.records
	if v.cursor < 0 || v.cursor >= len(records) {
		return nil, false
	}
	rec := records[v.cursor]
	return rec, rec.ID() != ""
}

func (v *resourceView) clampCursor() {
	n := len(v.data.State().Data.records)
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// ── mutations ────────────────────────────────────────────────────────────────

func (v *resourceView) createForm() tea.Cmd {
	values := map[string]*string{}
	form := recordForm(v.def.fields, values)
	return startWizardCmd("New "+v.def.noun, form, func() tea.Cmd {
		return v.create(recordBody(v.def.fields, values))
	})
}

func (v *resourceView) create(body map[string]any) tea.Cmd {
	client := v.state.App.Client
	group := v.def.group
	return mutate(v.data, "Create "+v.def.noun, func(ctx context.Context) error {
		_, err := group(client).Create(ctx, body)
		return err
	})
}

func (v *resourceView) deleteForm(rec domain.Record) tea.Cmd {
	var confirmed bool
	label := recordLabel(rec)
	return startWizardCmd("Delete "+v.def.noun, wizardConfirm(fmt.Sprintf("Delete %q?", label), &confirmed), func() tea.Cmd {
		if !confirmed {
			return flash("Kept "+label+".", false)
		}
		return v.remove(rec.ID())
	})
}

func (v *resourceView) remove(id string) tea.Cmd {
	client := v.state.App.Client
	group := v.def.group
	return mutate(v.data, "Delete "+v.def.noun, func(ctx context.Context) error {
		_, err := group(client).Delete(ctx, id)
		return err
	})
}

func (v *resourceView) updateQuantity(id string, qty float64, op domain.QuantityOperation) tea.Cmd {
	client := v.state.App.Client
	return mutate(v.data, "Update quantity", func(ctx context.Context) error {
		_, err := client.Materials.UpdateQuantity(ctx, id, qty, op)
		return err
	})
}

func (v *resourceView) setQuantityForm(rec domain.Record) tea.Cmd {
	value := rec.Field("quantity")
	title := fmt.Sprintf("Quantity of %s", recordLabel(rec))
	return startWizardCmd("Set Quantity", quantityForm(title, &value), func() tea.Cmd {
		qty, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return flash("Quantity must be a number.", true)
		}
		return v.updateQuantity(rec.ID(), qty, domain.QuantitySet)
	})
}

func (v *resourceView) updateStatus(id, status string) tea.Cmd {
	client := v.state.App.Client
	return mutate(v.data, "Set status to "+status, func(ctx context.Context) error {
		_, err := client.Issues.UpdateStatus(ctx, id, status)
		return err
	})
}

// recordLabel is the human name of a record for prompts.
func recordLabel(rec domain.Record) string {
	for _, k := range []string{"name", "title", "description"} {
		if s := rec.Field(k); s != "" {
			return s
		}
	}
	return "#" + rec.ID()
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *resourceView) View() string {
	snap := v.data.State()
	what := strings.ToLower(v.def.title)

	if snap.Loading {
		return "\n  " + loadingLine(snap, what)
	}
	if !snap.HasData {
		if snap.Err != nil {
			return "\n" + errorPanel("Could not load "+what, snap.Err)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(v.def.title) + "  " + loadingLine(snap, what) + "\n")
	if snap.Err != nil {
		b.WriteString(staleNote(snap.Err))
	}
	b.WriteString("\n")

	if v.def.extras != nil {
		b.WriteString(formatter.Header(v.def.extrasTitle) + "\n")
		b.WriteString(renderExtras(snap.Data, v.def.moneyExtras) + "\n\n")
	}

	records := snap.Data.records
	if len(records) == 0 {
		b.WriteString(formatter.Dim(fmt.Sprintf("No %s yet. Press n to add one.", what)) + "\n")
		return b.String()
	}
	b.WriteString(renderRecordList(records, v.cursor, v.state.ContentWidth()))
	return b.String()
}

// renderRecordList is the record table with a cursor marker column.
func renderRecordList(records []domain.Record, cursor, width int) string {
	keys := domain.UnionKeys(records)
	if len(keys) > maxRecordColumns {
		keys = keys[:maxRecordColumns]
	}
	headers := make([]string, 0, len(keys)+1)
	headers = append(headers, " ")
	for _, k := range keys {
		headers = append(headers, strings.ToUpper(k))
	}
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		marker := " "
		if i == cursor {
			marker = formatter.StyleGreen.Render("▸")
		}
		row := []string{marker}
		for _, k := range keys {
			row = append(row, rec.Field(k))
		}
		rows = append(rows, row)
	}
	maxCol := max(width/max(len(keys), 1)-2, 8)
	return formatter.RenderTableMax(headers, rows, maxCol)
}

// renderExtras draws the side panel payload: a list becomes a comma list,
// an object becomes key/value lines.
func renderExtras(d resourceData, money bool) string {
	if d.extrasErr != nil {
		return formatter.StyleRed.Render("Could not load: " + describeErr(d.extrasErr))
	}
	if len(d.extras) == 0 {
		return formatter.Dim("--")
	}

	raw := d.extras
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope) == 1 && envelope["data"] != nil {
		raw = envelope["data"]
	}

	var list []any
	if err := decodeJSON(raw, &list); err == nil {
		if len(list) == 0 {
			return formatter.Dim("none")
		}
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if rec, ok := item.(map[string]any); ok {
				parts = append(parts, recordLabel(domain.Record(rec)))
				continue
			}
			parts = append(parts, domain.FormatValue(item))
		}
		return strings.Join(parts, ", ")
	}

	var obj domain.Record
	if err := decodeJSON(raw, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, formatter.StyleDim.Render(k)+"  "+formatExtraValue(obj, k, money))
		}
		return strings.Join(lines, "\n")
	}

	return formatter.Dim(string(raw))
}

// formatExtraValue renders one summary figure. With money set, numbers
// other than counts are shown in rupees.
func formatExtraValue(obj domain.Record, key string, money bool) string {
	n, ok := obj.Number(key)
	if _, isText := obj[key].(string); !ok || isText {
		return obj.Field(key)
	}
	if money && !strings.Contains(strings.ToLower(key), "count") {
		return formatter.Rupees(n)
	}
	if n == float64(int64(n)) {
		return formatter.Thousands(int64(n))
	}
	return obj.Field(key)
}
