package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/furnish/internal/furniture"
)

// form edits one record. When editing, the name input is locked because the
// name is the key the update is matched on.
type form struct {
	inputs  []textinput.Model
	focused int
	editing bool
	err     string
}

func newForm(current *furniture.Furniture) *form {
	f := &form{
		inputs:  make([]textinput.Model, len(furniture.Columns)),
		editing: current != nil,
	}

	for i, column := range furniture.Columns {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = strings.ToLower(column)
		input.CharLimit = 0
		input.Width = 40
		f.inputs[i] = input
	}

	if current != nil {
		for i, value := range current.Fields() {
			f.inputs[i].SetValue(value)
		}
		f.focused = 1
	}

	return f
}

func (f *form) firstEditable() int {
	if f.editing {
		return 1
	}
	return 0
}

func (f *form) focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focused].Focus()
}

func (f *form) next() tea.Cmd {
	f.focused++
	if f.focused >= len(f.inputs) {
		f.focused = f.firstEditable()
	}
	return f.focus()
}

func (f *form) prev() tea.Cmd {
	f.focused--
	if f.focused < f.firstEditable() {
		f.focused = len(f.inputs) - 1
	}
	return f.focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *form) values() []string {
	values := make([]string, len(f.inputs))
	for i, input := range f.inputs {
		values[i] = input.Value()
	}
	return values
}

// value parses and validates the inputs. The first failing field is reported.
func (f *form) value() (furniture.Furniture, error) {
	item, err := furniture.ParseFields(f.values())
	if err != nil {
		return furniture.Furniture{}, err
	}
	if err := item.Validate(); err != nil {
		return furniture.Furniture{}, err
	}
	return item, nil
}

func (f *form) view() string {
	title := "Add furniture"
	if f.editing {
		title = "Edit " + f.inputs[0].Value()
	}

	lines := []string{titleStyle.Render(title), ""}
	for i, column := range furniture.Columns {
		label := labelStyle.Render(fmt.Sprintf("%-12s", column))
		field := f.inputs[i].View()
		if f.editing && i == 0 {
			field = lockedStyle.Render(f.inputs[i].Value())
		}
		lines = append(lines, label+field)
	}

	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

var lockedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("244")).
	Italic(true)
