// Package tui provides the interactive inventory browser.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	reflowtruncate "github.com/muesli/reflow/truncate"

	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/furniture"
)

const (
	defaultListWidth  = 40
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// Store is the subset of the inventory store the browser edits.
type Store interface {
	ReadAll() ([]furniture.Furniture, error)
	Add(name, description string, price float64, height, width, length int) error
	Update(f furniture.Furniture) (int64, error)
	DeleteByName(name string) (int64, error)
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type furnitureItem struct {
	furniture.Furniture
}

func (i furnitureItem) Title() string       { return i.Name }
func (i furnitureItem) FilterValue() string { return i.Name }
func (i furnitureItem) Description() string {
	return fmt.Sprintf("%s | %dx%dx%d", furniture.FormatPrice(i.Price), i.Height, i.Width, i.Length)
}

type itemStyles struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	meta     lipgloss.Style
}

func newItemStyles() itemStyles {
	return itemStyles{
		normal: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("252")),
		selected: lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("230")).
			Bold(true),
		meta: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type furnitureDelegate struct {
	styles itemStyles
}

func (d furnitureDelegate) Height() int                         { return 2 }
func (d furnitureDelegate) Spacing() int                        { return 0 }
func (d furnitureDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d furnitureDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	entry, ok := item.(furnitureItem)
	if !ok {
		return
	}

	title := d.styles.normal.Render(truncate(entry.Title(), m.Width()-4))
	if idx == m.Index() {
		title = d.styles.selected.Render(truncate(entry.Title(), m.Width()-4))
	}
	meta := d.styles.meta.Render(truncate(entry.Description(), m.Width()-4))
	_, _ = fmt.Fprint(w, lipgloss.JoinVertical(lipgloss.Left, title, meta))
}

type model struct {
	store  Store
	list   list.Model
	form   *form
	mode   mode
	status string
	failed bool
}

func newModel(store Store) *model {
	l := list.New(nil, furnitureDelegate{styles: newItemStyles()}, defaultListWidth, defaultListHeight)
	l.Title = "Furniture"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle

	return &model{
		store: store,
		list:  l,
		mode:  modeList,
	}
}

// reload replaces the visible list with the current store contents and keeps
// the cursor on focus when it still exists.
func (m *model) reload(focus string) error {
	items, err := m.store.ReadAll()
	if err != nil {
		return err
	}

	listItems := make([]list.Item, len(items))
	selected := m.list.Index()
	for i, item := range items {
		listItems[i] = furnitureItem{Furniture: item}
		if item.Name == focus {
			selected = i
		}
	}
	m.list.SetItems(listItems)

	if selected >= len(listItems) {
		selected = len(listItems) - 1
	}
	if selected >= 0 {
		m.list.Select(selected)
	}
	return nil
}

func (m *model) selected() (furniture.Furniture, bool) {
	item, ok := m.list.SelectedItem().(furnitureItem)
	if !ok {
		return furniture.Furniture{}, false
	}
	return item.Furniture, true
}

func (m *model) setStatus(text string) {
	m.status = text
	m.failed = false
}

func (m *model) setError(err error) {
	m.status = describeError(err)
	m.failed = true
}

// refresh reloads after a mutation and reports a failed reload in the status line.
func (m *model) refresh(focus string) {
	if err := m.reload(focus); err != nil {
		m.setError(err)
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width/2, 20)
		height := clamp(defaultListHeight, msg.Height-4, 5)
		m.list.SetSize(width, height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			if cmd, handled := m.updateListKeys(msg); handled {
				return m, cmd
			}
		}
	}

	if m.mode == modeForm {
		return m, m.form.update(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) updateListKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit, true
	case "a":
		m.form = newForm(nil)
		m.mode = modeForm
		return m.form.focus(), true
	case "e":
		current, ok := m.selected()
		if !ok {
			m.setStatus("Nothing to edit")
			return nil, true
		}
		m.form = newForm(&current)
		m.mode = modeForm
		return m.form.focus(), true
	case "d":
		if _, ok := m.selected(); !ok {
			m.setStatus("Nothing to delete")
			return nil, true
		}
		m.mode = modeConfirmDelete
		return nil, true
	case "r":
		if err := m.reload(""); err != nil {
			m.setError(err)
			return nil, true
		}
		m.setStatus(fmt.Sprintf("Loaded %d items", len(m.list.Items())))
		return nil, true
	}
	return nil, false
}

func (m *model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	current, ok := m.selected()
	if !ok || msg.String() != "y" {
		m.setStatus("Delete cancelled")
		return m, nil
	}

	affected, err := m.store.DeleteByName(current.Name)
	switch {
	case err != nil:
		m.setError(err)
	case affected == 0:
		m.setStatus(fmt.Sprintf("%s was already gone", current.Name))
	default:
		m.setStatus(fmt.Sprintf("Deleted %s", current.Name))
	}
	m.refresh("")
	return m, nil
}

func (m *model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = modeList
		m.setStatus("Edit cancelled")
		return m, nil
	case "tab", "down":
		return m, m.form.next()
	case "shift+tab", "up":
		return m, m.form.prev()
	case "enter":
		return m, m.submit()
	}
	return m, m.form.update(msg)
}

// submit validates the form and writes it. Validation and store errors keep
// the form open so the input can be corrected.
func (m *model) submit() tea.Cmd {
	f, err := m.form.value()
	if err != nil {
		m.form.err = err.Error()
		return nil
	}

	if m.form.editing {
		affected, err := m.store.Update(f)
		if err != nil {
			m.form.err = describeError(err)
			return nil
		}
		if affected == 0 {
			m.setStatus(fmt.Sprintf("%s no longer exists, nothing updated", f.Name))
		} else {
			m.setStatus(fmt.Sprintf("Updated %s", f.Name))
		}
	} else {
		if err := m.store.Add(f.Name, f.Description, f.Price, f.Height, f.Width, f.Length); err != nil {
			m.form.err = describeError(err)
			return nil
		}
		m.setStatus(fmt.Sprintf("Added %s", f.Name))
	}

	m.form = nil
	m.mode = modeList
	m.refresh(f.Name)
	return nil
}

func (m *model) View() string {
	if m.mode == modeForm {
		return lipgloss.JoinVertical(lipgloss.Left, m.form.view(), m.statusLine(), helpStyle.Render("Tab next field | Enter save | Esc cancel"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), m.detailView())
	help := helpStyle.Render("a add | e edit | d delete | r reload | q quit")
	if m.mode == modeConfirmDelete {
		current, _ := m.selected()
		help = confirmStyle.Render(fmt.Sprintf("Delete %s? y to confirm, any other key to cancel", current.Name))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine(), help)
}

func (m *model) detailView() string {
	current, ok := m.selected()
	if !ok {
		return detailStyle.Render("No furniture yet. Press a to add.")
	}

	values := current.Fields()
	lines := make([]string, len(furniture.Columns))
	for i, column := range furniture.Columns {
		lines[i] = labelStyle.Render(fmt.Sprintf("%-12s", column)) + values[i]
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return errorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginLeft(2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110"))

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("78"))

	errorStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("161")).
			Bold(true)

	confirmStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("214")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Browse runs the interactive browser until the user quits.
func Browse(store Store) error {
	m := newModel(store)
	if err := m.reload(""); err != nil {
		return err
	}

	_, err := runProgram(m)
	return err
}

// describeError prefixes store errors with their category for the status line.
func describeError(err error) string {
	switch {
	case errors.IsNotFoundError(err):
		return "Not found: " + err.Error()
	case errors.IsUniqueConstraintError(err):
		return "Already exists: " + err.Error()
	case errors.IsValidationError(err):
		return "Invalid input: " + err.Error()
	case errors.IsStorageUnavailableError(err):
		return "Storage unavailable: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func truncate(value string, width int) string {
	if width <= 0 || ansi.PrintableRuneWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return reflowtruncate.String(value, uint(width))
	}
	return reflowtruncate.StringWithTail(value, uint(width), "...")
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
