// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/components"
	"github.com/jeranaias/ticketdesk-tui/internal/validate"
)

// =============================================================================
// KEYS
// =============================================================================

// RecordKeyMap are the bindings of the record pages.
type RecordKeyMap struct {
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Copy    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultRecordKeyMap returns the record page bindings.
func DefaultRecordKeyMap() RecordKeyMap {
	return RecordKeyMap{
		Add:     key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy row")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Deny:    key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

// ShortHelp lists the browse bindings.
func (k RecordKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Refresh, k.Copy}
}

// FullHelp lists every binding.
func (k RecordKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Submit, k.Cancel, k.Confirm, k.Deny}}
}

// =============================================================================
// RESOURCE SCHEMA
// =============================================================================

// lookup fills a select field from another collection.
type lookup struct {
	field   string
	failure string
	load    func(ctx context.Context) ([]components.Option, error)
}

// resource describes how one record type is listed, edited and written.
type resource[T, In any] struct {
	route Route
	// noun is the capitalised singular, "Client".
	noun string
	// plural is the lower-case plural used in load errors, "clients".
	plural string

	svc     *api.Resource[T, In]
	columns []table.Column
	row     func(T) table.Row
	id      func(T) string
	fields  []components.FieldSpec
	values  func(T) map[string]string
	parse   func(map[string]string) (In, error)
	copy    func(T) string
	lookups []lookup
}

func (r resource[T, In]) msgCreated() string { return r.noun + " created successfully" }
func (r resource[T, In]) msgUpdated() string { return r.noun + " updated successfully" }
func (r resource[T, In]) msgDeleted() string { return r.noun + " deleted successfully" }
func (r resource[T, In]) msgLoadFailed() string {
	return "Error loading " + r.plural
}
func (r resource[T, In]) msgSaveFailed() string {
	return "Error saving " + strings.ToLower(r.noun)
}
func (r resource[T, In]) msgDeleteFailed() string {
	return "Error deleting " + strings.ToLower(r.noun)
}
func (r resource[T, In]) confirmQuestion() string {
	return "Delete " + strings.ToLower(r.noun) + "?"
}

// =============================================================================
// MESSAGES
// =============================================================================

type listMsg[T any] struct {
	items []T
	err   error
}

type savedMsg struct {
	updated bool
	err     error
}

type deletedMsg struct {
	err error
}

type lookupMsg struct {
	field   string
	options []components.Option
	err     error
}

type copiedMsg struct {
	err error
}

// =============================================================================
// RECORD PAGE
// =============================================================================

type recordMode int

const (
	modeBrowse recordMode = iota
	modeForm
	modeConfirm
)

// Records is a list-and-form page over one record type: list, add, edit,
// delete with confirmation, refetch after every write.
type Records[T, In any] struct {
	base
	res  resource[T, In]
	keys RecordKeyMap

	table   table.Model
	form    *components.Form
	spinner spinner.Model

	items   []T
	mode    recordMode
	editing string
	target  string
	loading bool
	saving  bool
}

func newRecords[T, In any](deps Deps, epoch uint64, res resource[T, In]) *Records[T, In] {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Records[T, In]{
		base:    newBase(deps, res.route, epoch),
		res:     res,
		keys:    DefaultRecordKeyMap(),
		table:   components.NewTable(res.columns, 10),
		form:    components.NewForm(deps.Theme, res.fields...),
		spinner: sp,
	}
}

// Init loads the list and the select lookups.
func (p *Records[T, In]) Init() tea.Cmd {
	cmds := []tea.Cmd{p.reload()}
	cmds = append(cmds, p.loadLookups()...)
	return tea.Batch(cmds...)
}

// Capturing is true while the form is open.
func (p *Records[T, In]) Capturing() bool { return p.mode == modeForm }

// Items returns the loaded records.
func (p *Records[T, In]) Items() []T { return p.items }

// Editing returns the id of the record in the form, or "" when adding.
func (p *Records[T, In]) Editing() string { return p.editing }

// Form exposes the page form.
func (p *Records[T, In]) Form() *components.Form { return p.form }

// Mode names the current mode: "browse", "form" or "confirm".
func (p *Records[T, In]) Mode() string {
	switch p.mode {
	case modeForm:
		return "form"
	case modeConfirm:
		return "confirm"
	}
	return "browse"
}

func (p *Records[T, In]) reload() tea.Cmd {
	p.loading = true
	svc := p.res.svc
	return tea.Batch(p.spinner.Tick, p.run(func(ctx context.Context) tea.Msg {
		items, err := svc.List(ctx)
		return listMsg[T]{items: items, err: err}
	}))
}

func (p *Records[T, In]) loadLookups() []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(p.res.lookups))
	for _, lk := range p.res.lookups {
		cmds = append(cmds, p.run(func(ctx context.Context) tea.Msg {
			opts, err := lk.load(ctx)
			return lookupMsg{field: lk.field, options: opts, err: err}
		}))
	}
	return cmds
}

// Update dispatches on the current mode.
func (p *Records[T, In]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listMsg[T]:
		p.loading = false
		if msg.err != nil {
			p.failed(msg.err, p.res.msgLoadFailed())
			return nil
		}
		p.setItems(msg.items)
		return nil

	case lookupMsg:
		if msg.err != nil {
			p.failed(msg.err, p.lookupFailure(msg.field))
			return nil
		}
		p.form.SetOptions(msg.field, msg.options)
		return nil

	case savedMsg:
		return p.handleSaved(msg)

	case deletedMsg:
		if msg.err != nil {
			p.failed(msg.err, p.res.msgDeleteFailed())
			return nil
		}
		p.notify(p.res.msgDeleted(), notify.KindSuccess)
		return p.reload()

	case copiedMsg:
		if msg.err != nil {
			p.logger.Warn("clipboard write failed", zap.Error(msg.err))
			p.notify("Could not copy to the clipboard", notify.KindWarning)
			return nil
		}
		p.notify("Row copied to the clipboard", notify.KindInfo)
		return nil

	case spinner.TickMsg:
		if !p.loading && !p.saving {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch p.mode {
		case modeForm:
			return p.handleFormKey(msg)
		case modeConfirm:
			return p.handleConfirmKey(msg)
		default:
			return p.handleBrowseKey(msg)
		}
	}
	return nil
}

func (p *Records[T, In]) lookupFailure(field string) string {
	for _, lk := range p.res.lookups {
		if lk.field == field {
			return lk.failure
		}
	}
	return p.res.msgLoadFailed()
}

func (p *Records[T, In]) setItems(items []T) {
	p.items = items
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, p.fitRow(p.res.row(it)))
	}
	p.table.SetRows(rows)
	if c := p.table.Cursor(); c >= len(rows) {
		p.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (p *Records[T, In]) fitRow(row table.Row) table.Row {
	for i := range row {
		if i < len(p.res.columns) {
			row[i] = components.Cell(row[i], p.res.columns[i].Width)
		}
	}
	return row
}

func (p *Records[T, In]) selected() (T, bool) {
	var zero T
	i := p.table.Cursor()
	if len(p.items) == 0 || i < 0 || i >= len(p.items) {
		return zero, false
	}
	return p.items[i], true
}

// =============================================================================
// BROWSE
// =============================================================================

func (p *Records[T, In]) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Add):
		return p.openForm("", nil)

	case key.Matches(msg, p.keys.Edit):
		item, ok := p.selected()
		if !ok {
			return nil
		}
		return p.openForm(p.res.id(item), p.res.values(item))

	case key.Matches(msg, p.keys.Delete):
		item, ok := p.selected()
		if !ok {
			return nil
		}
		p.target = p.res.id(item)
		p.mode = modeConfirm
		return nil

	case key.Matches(msg, p.keys.Refresh):
		cmds := []tea.Cmd{p.reload()}
		cmds = append(cmds, p.loadLookups()...)
		return tea.Batch(cmds...)

	case key.Matches(msg, p.keys.Copy):
		item, ok := p.selected()
		if !ok || p.res.copy == nil {
			return nil
		}
		text := p.res.copy(item)
		write := p.deps.Clipboard
		epoch := p.epoch
		return func() tea.Msg {
			return AsyncMsg{Epoch: epoch, Msg: copiedMsg{err: write(text)}}
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

// =============================================================================
// FORM
// =============================================================================

func (p *Records[T, In]) openForm(id string, values map[string]string) tea.Cmd {
	p.mode = modeForm
	p.editing = id
	p.table.Blur()
	cmd := p.form.Reset()
	if values != nil {
		p.form.SetValues(values)
	}
	return tea.Batch(cmd, p.form.Focus())
}

func (p *Records[T, In]) closeForm() {
	p.mode = modeBrowse
	p.editing = ""
	p.form.Blur()
	p.form.Reset()
	p.table.Focus()
}

func (p *Records[T, In]) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Cancel):
		if p.saving {
			return nil
		}
		p.closeForm()
		return nil
	case key.Matches(msg, p.keys.Submit):
		return p.submit()
	case msg.String() == "enter":
		if p.form.OnLastField() {
			return p.submit()
		}
		return p.form.Next()
	}
	if p.saving {
		return nil
	}
	return p.form.Update(msg)
}

func (p *Records[T, In]) submit() tea.Cmd {
	if p.saving {
		return nil
	}
	in, err := p.res.parse(p.form.Values())
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			p.notify(errs.First(), notify.KindWarning)
			return p.form.SetErrors(errs.ByField())
		}
		p.notify(err.Error(), notify.KindWarning)
		return nil
	}

	p.saving = true
	svc := p.res.svc
	id := p.editing
	return tea.Batch(p.spinner.Tick, p.run(func(ctx context.Context) tea.Msg {
		if id != "" {
			return savedMsg{updated: true, err: svc.Update(ctx, id, in)}
		}
		return savedMsg{err: svc.Create(ctx, in)}
	}))
}

func (p *Records[T, In]) handleSaved(msg savedMsg) tea.Cmd {
	p.saving = false
	if msg.err != nil {
		p.failed(msg.err, p.res.msgSaveFailed())
		return nil
	}
	if msg.updated {
		p.notify(p.res.msgUpdated(), notify.KindSuccess)
	} else {
		p.notify(p.res.msgCreated(), notify.KindSuccess)
	}
	p.closeForm()
	return p.reload()
}

// =============================================================================
// CONFIRM
// =============================================================================

func (p *Records[T, In]) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Confirm):
		id := p.target
		p.target = ""
		p.mode = modeBrowse
		svc := p.res.svc
		return p.run(func(ctx context.Context) tea.Msg {
			return deletedMsg{err: svc.Delete(ctx, id)}
		})
	case key.Matches(msg, p.keys.Deny):
		p.target = ""
		p.mode = modeBrowse
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the table, the form or the delete confirmation.
func (p *Records[T, In]) View(width, height int) string {
	theme := p.deps.Theme

	header := theme.Title.Render(p.res.route.Title())
	if p.loading || p.saving {
		header += " " + p.spinner.View()
	}
	count := theme.Subtitle.Render(fmt.Sprintf("%d records", len(p.items)))

	switch p.mode {
	case modeForm:
		title := "New " + strings.ToLower(p.res.noun)
		if p.editing != "" {
			title = "Edit " + strings.ToLower(p.res.noun)
		}
		if width > 0 {
			p.form.SetWidth(min(60, width-4))
		}
		hint := theme.Hint.Render("[tab] Next field   [C-s] Save   [esc] Cancel")
		return lipgloss.JoinVertical(lipgloss.Left,
			header, "", theme.Subtitle.Render(title), p.form.View(), "", hint)

	case modeConfirm:
		return lipgloss.JoinVertical(lipgloss.Left,
			header, count, "", p.table.View(), "",
			components.RenderConfirm(theme, p.res.confirmQuestion()))
	}

	if height > 8 {
		p.table.SetHeight(height - 6)
	}
	body := p.table.View()
	if len(p.items) == 0 && !p.loading {
		body = theme.Hint.Render("No " + p.res.plural + " yet. Press [a] to add one.")
	}
	hint := theme.Hint.Render("[a] Add   [e] Edit   [d] Delete   [r] Refresh   [y] Copy row")
	return lipgloss.JoinVertical(lipgloss.Left, header, count, "", body, "", hint)
}
