// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
)

// FieldKind selects the input widget of a form field.
type FieldKind int

const (
	// FieldText is a single-line text input.
	FieldText FieldKind = iota
	// FieldSelect cycles through a fixed list of options.
	FieldSelect
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// FieldSpec describes one form field.
type FieldSpec struct {
	// Key identifies the field in Values and SetErrors.
	Key         string
	Label       string
	Placeholder string
	Kind        FieldKind
	Options     []Option
	CharLimit   int
}

type formField struct {
	spec     FieldSpec
	input    textinput.Model
	options  []Option
	selected int
	// pending is a select value set before its options arrived.
	pending string
	err     string
}

// Form is a vertical list of labelled inputs with one focused field.
type Form struct {
	theme   *styles.Theme
	fields  []*formField
	focus   int
	focused bool
	width   int
}

// NewForm builds a form from specs. It starts blurred.
func NewForm(theme *styles.Theme, specs ...FieldSpec) *Form {
	f := &Form{theme: theme, width: 40}
	for _, spec := range specs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.Placeholder
		if spec.CharLimit > 0 {
			in.CharLimit = spec.CharLimit
		}
		f.fields = append(f.fields, &formField{
			spec:     spec,
			input:    in,
			options:  spec.Options,
			selected: -1,
		})
	}
	return f
}

// SetWidth sets the width of the input boxes.
func (f *Form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.width = w
	for _, ff := range f.fields {
		ff.input.Width = w - 4
	}
}

// Focus focuses the form on its current field.
func (f *Form) Focus() tea.Cmd {
	f.focused = true
	return f.focusField(f.focus)
}

// Blur removes focus from every field.
func (f *Form) Blur() {
	f.focused = false
	for _, ff := range f.fields {
		ff.input.Blur()
	}
}

// Focused reports whether the form has focus.
func (f *Form) Focused() bool {
	return f.focused
}

// FocusedKey returns the key of the focused field.
func (f *Form) FocusedKey() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].spec.Key
}

// OnLastField reports whether the last field has focus.
func (f *Form) OnLastField() bool {
	return f.focus == len(f.fields)-1
}

// Next moves focus to the following field, wrapping around.
func (f *Form) Next() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.focusField((f.focus + 1) % len(f.fields))
}

// Prev moves focus to the previous field, wrapping around.
func (f *Form) Prev() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
}

func (f *Form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	for _, ff := range f.fields {
		ff.input.Blur()
	}
	f.focus = i
	if !f.focused {
		return nil
	}
	if ff := f.fields[i]; ff.spec.Kind == FieldText {
		return ff.input.Focus()
	}
	return nil
}

// Update handles field navigation and forwards typing to the focused
// field. Enter and Esc are left to the owner.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if !f.focused || len(f.fields) == 0 {
		return nil
	}
	ff := f.fields[f.focus]

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.Next()
		case "shift+tab", "up":
			return f.Prev()
		}
		if ff.spec.Kind == FieldSelect {
			switch key.String() {
			case "left", "h":
				ff.cycle(-1)
			case "right", "l", " ":
				ff.cycle(1)
			}
			return nil
		}
	}

	if ff.spec.Kind != FieldText {
		return nil
	}
	var cmd tea.Cmd
	ff.input, cmd = ff.input.Update(msg)
	if ff.err != "" {
		if _, typed := msg.(tea.KeyMsg); typed {
			ff.err = ""
		}
	}
	return cmd
}

func (ff *formField) cycle(delta int) {
	n := len(ff.options)
	if n == 0 {
		return
	}
	if ff.selected < 0 {
		if delta > 0 {
			ff.selected = 0
		} else {
			ff.selected = n - 1
		}
	} else {
		ff.selected = (ff.selected + delta + n) % n
	}
	ff.pending = ""
	ff.err = ""
}

// Values returns every field's value keyed by field key.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, ff := range f.fields {
		out[ff.spec.Key] = ff.value()
	}
	return out
}

// Value returns one field's value.
func (f *Form) Value(key string) string {
	if ff := f.field(key); ff != nil {
		return ff.value()
	}
	return ""
}

func (ff *formField) value() string {
	if ff.spec.Kind == FieldSelect {
		if ff.selected >= 0 && ff.selected < len(ff.options) {
			return ff.options[ff.selected].Value
		}
		return ff.pending
	}
	return strings.TrimSpace(ff.input.Value())
}

// SetValues fills fields by key. Select values that are not among the
// current options are kept until SetOptions provides them.
func (f *Form) SetValues(values map[string]string) {
	for key, v := range values {
		ff := f.field(key)
		if ff == nil {
			continue
		}
		if ff.spec.Kind == FieldSelect {
			ff.selectValue(v)
			continue
		}
		ff.input.SetValue(v)
		ff.input.CursorEnd()
	}
}

func (ff *formField) selectValue(v string) {
	ff.selected = -1
	ff.pending = ""
	if v == "" {
		return
	}
	for i, opt := range ff.options {
		if opt.Value == v {
			ff.selected = i
			return
		}
	}
	ff.pending = v
}

// SetOptions replaces a select field's options and keeps the selection
// when it is still offered.
func (f *Form) SetOptions(key string, opts []Option) {
	ff := f.field(key)
	if ff == nil || ff.spec.Kind != FieldSelect {
		return
	}
	current := ff.value()
	ff.options = opts
	ff.selectValue(current)
}

// Options returns a select field's options.
func (f *Form) Options(key string) []Option {
	if ff := f.field(key); ff != nil {
		return ff.options
	}
	return nil
}

// SetErrors attaches inline messages to fields and focuses the first one
// that failed.
func (f *Form) SetErrors(errs map[string]string) tea.Cmd {
	first := -1
	for i, ff := range f.fields {
		ff.err = errs[ff.spec.Key]
		if ff.err != "" && first < 0 {
			first = i
		}
	}
	if first >= 0 {
		return f.focusField(first)
	}
	return nil
}

// Errors returns the inline messages currently shown.
func (f *Form) Errors() map[string]string {
	out := map[string]string{}
	for _, ff := range f.fields {
		if ff.err != "" {
			out[ff.spec.Key] = ff.err
		}
	}
	return out
}

// Reset clears values and errors and moves focus to the first field.
func (f *Form) Reset() tea.Cmd {
	for _, ff := range f.fields {
		ff.err = ""
		ff.selected = -1
		ff.pending = ""
		ff.input.Reset()
	}
	return f.focusField(0)
}

func (f *Form) field(key string) *formField {
	for _, ff := range f.fields {
		if ff.spec.Key == key {
			return ff
		}
	}
	return nil
}

// View renders the fields one under the other.
func (f *Form) View() string {
	rows := make([]string, 0, len(f.fields))
	for i, ff := range f.fields {
		focused := f.focused && i == f.focus

		label := f.theme.Label.Render(ff.spec.Label)
		if ff.err != "" {
			label += " " + f.theme.Error.Render(ff.err)
		}

		box := f.theme.Input
		switch {
		case ff.err != "":
			box = f.theme.InputError
		case focused:
			box = f.theme.InputFocus
		}
		box = box.Width(f.width)

		var body string
		if ff.spec.Kind == FieldSelect {
			body = ff.renderSelect(f.theme, focused)
		} else {
			body = ff.input.View()
		}
		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, label, box.Render(body)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (ff *formField) renderSelect(theme *styles.Theme, focused bool) string {
	text := ff.spec.Placeholder
	style := theme.Hint
	switch {
	case ff.selected >= 0 && ff.selected < len(ff.options):
		text = ff.options[ff.selected].Label
		style = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	case len(ff.options) == 0:
		text = "loading..."
	}
	if focused {
		return theme.Hint.Render("< ") + style.Render(text) + theme.Hint.Render(" >")
	}
	return style.Render(text)
}
