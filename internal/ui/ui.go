package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/desertthunder/artx/internal/transform"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FieldListView ViewState = iota
	ConfirmView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	records    []any
	sourcePath string
	outputPath string
	width      int
	height     int
	schema     transform.Schema
	fieldList  list.Model
	written    int
	err        error
	help       help.Model
	keys       keyMap
}

type schemaAnalyzedMsg struct {
	schema transform.Schema
}

type projectionAppliedMsg struct {
	written int
	err     error
}

// NewModel creates a new TUI model over an in-memory dataset.
// The projected records are written to outputPath when the user confirms.
func NewModel(ctx context.Context, records []any, sourcePath, outputPath string) *Model {
	return &Model{
		ctx:        ctx,
		view:       FieldListView,
		records:    records,
		sourcePath: sourcePath,
		outputPath: outputPath,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init kicks off schema analysis of the loaded dataset.
func (m *Model) Init() tea.Cmd {
	return m.analyzeSchema()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.fieldList.Width() == 0 {
			m.fieldList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FieldListView:
			return m.handleFieldListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case schemaAnalyzedMsg:
		m.schema = msg.schema
		items := make([]list.Item, len(msg.schema.Fields))
		for i, field := range msg.schema.Fields {
			items[i] = fieldItem{field: field}
		}
		m.fieldList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.fieldList.Title = fmt.Sprintf("Fields in %s (%d records, ~%s)",
			m.sourcePath, msg.schema.RecordCount, msg.schema.SizeEstimate)
		m.fieldList.SetSize(m.width-4, m.height-8)
		return m, nil

	case projectionAppliedMsg:
		m.written = msg.written
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case FieldListView:
		return m.renderFieldList()
	case ConfirmView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFieldListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// plain keys pass through to the list while the user is filtering
	if m.fieldList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.toggleCurrent()
		return m, nil
	case "a":
		m.setAll(true)
		return m, nil
	case "n":
		m.setAll(false)
		return m, nil
	case "enter":
		if m.selectedCount() == 0 {
			return m, nil
		}
		m.view = ConfirmView
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = FieldListView
		return m, nil
	case "y":
		return m, m.applyProjection()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	case "r":
		m.view = FieldListView
		m.written = 0
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == FieldListView {
		m.fieldList, cmd = m.fieldList.Update(msg)
	}
	return m, cmd
}

// toggleCurrent flips the selection state of the highlighted field.
func (m *Model) toggleCurrent() {
	idx := m.fieldList.Index()
	item, ok := m.fieldList.SelectedItem().(fieldItem)
	if !ok {
		return
	}
	item.field.Selected = !item.field.Selected
	m.fieldList.SetItem(idx, item)
}

func (m *Model) setAll(selected bool) {
	for idx, raw := range m.fieldList.Items() {
		item, ok := raw.(fieldItem)
		if !ok {
			continue
		}
		item.field.Selected = selected
		m.fieldList.SetItem(idx, item)
	}
}

func (m *Model) selectedCount() int {
	count := 0
	for _, raw := range m.fieldList.Items() {
		if item, ok := raw.(fieldItem); ok && item.field.Selected {
			count++
		}
	}
	return count
}

func (m *Model) selectedPaths() map[string]bool {
	selected := make(map[string]bool)
	for _, raw := range m.fieldList.Items() {
		if item, ok := raw.(fieldItem); ok && item.field.Selected {
			selected[item.field.Path] = true
		}
	}
	return selected
}

func (m *Model) analyzeSchema() tea.Cmd {
	return func() tea.Msg {
		return schemaAnalyzedMsg{schema: transform.Analyze(m.records)}
	}
}

func (m *Model) applyProjection() tea.Cmd {
	selected := m.selectedPaths()

	return func() tea.Msg {
		projected := transform.ProjectSelected(m.records, selected)
		if err := shared.WriteRecords(m.outputPath, projected); err != nil {
			return projectionAppliedMsg{err: err}
		}
		return projectionAppliedMsg{written: len(projected)}
	}
}

func (m *Model) renderFieldList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.none, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	status := styles.help.Render(fmt.Sprintf("%d/%d fields selected", m.selectedCount(), len(m.fieldList.Items())))
	return fmt.Sprintf("%s\n%s\n\n%s", m.fieldList.View(), status, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Keep %d of %d fields?", m.selectedCount(), len(m.fieldList.Items())))
	info := fmt.Sprintf("\nRecords: %d\nOutput: %s\n", m.schema.RecordCount, m.outputPath)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Projection failed: %v\n\nPress r to reselect, q to quit", m.err))
	}

	title := styles.ok.Render("✓ Projection Written")
	info := fmt.Sprintf("\nRecords: %d\nFields: %d\nOutput: %s", m.written, m.selectedCount(), m.outputPath)

	helpKeys := []key.Binding{m.keys.retry, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
