package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/backend"
	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/alexanderramin/eventpermit/internal/conflict"
	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/fieldstore"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/alexanderramin/eventpermit/internal/location"
	"github.com/alexanderramin/eventpermit/internal/navigator"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	conflictCheckTimeout = 5 * time.Second
	submitTimeout        = 15 * time.Second
)

type backendState int

const (
	backendUnchecked backendState = iota
	backendOnline
	backendOffline
)

type (
	conflictResultMsg struct{ result conflict.Result }
	backendStatusMsg  struct{ online bool }
	submitResultMsg   struct {
		resp *contract.SubmitResponse
		err  error
	}
)

// applyModel is the bubbletea front end of the permit form. It implements
// navigator.UI; the navigator decides which step is visible and the model
// draws it.
type applyModel struct {
	client  backend.Client
	layout  *formdef.Layout
	store   *fieldstore.Store
	nav     *navigator.Navigator
	advisor *conflict.Advisor
	sched   *cmdScheduler
	pins    *pinMap

	view     navigator.StepView
	editors  []*fieldEditor
	focus    int
	summary  navigator.Summary
	advisory domain.ConflictState
	backend  backendState
	notice   string

	submitting bool
	result     *contract.SubmitResponse
	quitting   bool
}

func newApplyModel(layout *formdef.Layout, client backend.Client, logger *slog.Logger) *applyModel {
	m := &applyModel{
		client:  client,
		layout:  layout,
		store:   fieldstore.New(initialValues(layout)),
		advisor: conflict.NewAdvisor(conflict.NewClient(client, logger)),
		sched:   &cmdScheduler{},
		pins:    &pinMap{},
	}
	m.nav = navigator.New(layout, m.store, m,
		navigator.WithMap(m.pins),
		navigator.WithScheduler(m.sched),
		navigator.WithAdvisor(m.advisor),
	)
	return m
}

// initialValues are the layout defaults plus, for selects without one, the
// first option, matching what a select control shows before it is touched.
func initialValues(layout *formdef.Layout) map[string]string {
	values := layout.Defaults()
	for _, s := range layout.Steps {
		for _, f := range s.Fields {
			if f.Kind != formdef.KindSelect || len(f.Options) == 0 {
				continue
			}
			if _, ok := values[f.ID]; !ok {
				values[f.ID] = f.Options[0].Value
			}
		}
	}
	return values
}

// ── navigator.UI ─────────────────────────────────────────────────────────────

func (m *applyModel) Render(view navigator.StepView) {
	m.view = view
	m.editors = m.editors[:0]
	for _, f := range view.Step.Fields {
		if !f.Focusable() {
			continue
		}
		m.editors = append(m.editors, newFieldEditor(f, m.store.Get(f.ID), m.store.Checked(f.ID)))
	}
	m.focus = 0
	if len(m.editors) > 0 {
		m.editors[0].focus()
	}
}

func (m *applyModel) Focus(fieldID string) {
	for i, e := range m.editors {
		if e.field.ID == fieldID {
			m.setFocus(i)
			return
		}
	}
}

func (m *applyModel) SetAdvisory(state domain.ConflictState) {
	m.advisory = state
}

func (m *applyModel) ShowSummary(s navigator.Summary) {
	m.summary = s
}

// ── tea.Model ────────────────────────────────────────────────────────────────

func (m *applyModel) Init() tea.Cmd {
	client := m.client
	return tea.Batch(
		func() tea.Msg { return backendStatusMsg{online: client.Available(context.Background())} },
		m.sched.flush(),
	)
}

func (m *applyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.pins.termWidth = msg.Width
		return m, nil
	case backendStatusMsg:
		if msg.online {
			m.backend = backendOnline
		} else {
			m.backend = backendOffline
		}
		return m, nil
	case conflictResultMsg:
		m.nav.ApplyConflict(msg.result)
		return m, nil
	case scheduledMsg:
		msg.fn()
		return m, nil
	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.notice = submitFailure(msg.err)
			return m, nil
		}
		m.result = msg.resp
		m.notice = ""
		return m, nil
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, tea.Batch(cmd, m.sched.flush())
	}
	return m, nil
}

func (m *applyModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return tea.Quit
	}
	if m.result != nil {
		switch msg.String() {
		case "enter", "esc", "q":
			m.quitting = true
			return tea.Quit
		}
		return nil
	}
	if m.submitting {
		return nil
	}

	e := m.focused()
	switch msg.String() {
	case "esc":
		if m.nav.Back() {
			m.notice = ""
		}
		return nil
	case "ctrl+n":
		return m.next()
	case "tab":
		if e != nil && e.acceptSuggestion() {
			return m.commit(e)
		}
		m.moveFocus(1)
		return nil
	case "shift+tab":
		m.moveFocus(-1)
		return nil
	case "up", "down":
		if e == nil || e.field.Kind != formdef.KindTextarea {
			if msg.String() == "up" {
				m.moveFocus(-1)
			} else {
				m.moveFocus(1)
			}
			return nil
		}
	case "enter":
		return m.confirm(msg)
	}

	if e == nil {
		return nil
	}
	switch e.field.Kind {
	case formdef.KindSelect:
		switch msg.String() {
		case "left":
			e.cycle(-1)
		case "right", " ":
			e.cycle(1)
		default:
			return nil
		}
		return m.commit(e)
	case formdef.KindCheckbox:
		if msg.String() == " " || msg.String() == "x" {
			e.checked = !e.checked
			m.nav.SetChecked(e.field.ID, e.checked)
			m.nav.Refresh()
		}
		return nil
	}

	cmd := e.update(msg)
	return tea.Batch(cmd, m.commit(e))
}

// confirm routes Enter through the navigator.
func (m *applyModel) confirm(msg tea.KeyMsg) tea.Cmd {
	e := m.focused()
	id := ""
	if e != nil {
		id = e.field.ID
	}
	switch m.nav.HandleConfirm(id) {
	case navigator.ConfirmPassThrough:
		cmd := e.update(msg)
		return tea.Batch(cmd, m.commit(e))
	case navigator.ConfirmNone:
		m.moveFocus(1)
	case navigator.ConfirmBlocked:
		m.notice = validationNotice(m.nav.Validate())
	case navigator.ConfirmAdvanced:
		m.notice = ""
	case navigator.ConfirmSubmit:
		m.notice = ""
		m.submitting = true
		return m.submitCmd()
	}
	return nil
}

func (m *applyModel) next() tea.Cmd {
	if err := m.nav.Next(); err != nil {
		m.notice = validationNotice(err)
		return nil
	}
	m.notice = ""
	return nil
}

// commit pushes the editor's value into the navigator and starts a conflict
// check when the edit calls for one.
func (m *applyModel) commit(e *fieldEditor) tea.Cmd {
	id, value := e.field.ID, e.value()
	if id == domain.FieldMapPin {
		return m.commitPin(value)
	}
	ticket, ok := m.nav.SetField(id, value)
	m.nav.Refresh()
	if !ok {
		return nil
	}
	return m.checkCmd(ticket)
}

// commitPin applies a typed map pin. Partial input that does not parse yet
// leaves the previous pick in place.
func (m *applyModel) commitPin(value string) tea.Cmd {
	if !m.store.Set(domain.FieldMapPin, value) {
		return nil
	}
	if value == "" {
		if t, ok := m.nav.ClearLocation(); ok {
			return m.checkCmd(t)
		}
		return nil
	}
	pick, err := location.ParsePin(value)
	if err != nil {
		return nil
	}
	if t, ok := m.nav.PickLocation(pick); ok {
		return m.checkCmd(t)
	}
	return nil
}

func (m *applyModel) checkCmd(t conflict.Ticket) tea.Cmd {
	advisor := m.advisor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), conflictCheckTimeout)
		defer cancel()
		return conflictResultMsg{result: advisor.Run(ctx, t)}
	}
}

func (m *applyModel) submitCmd() tea.Cmd {
	client := m.client
	values := m.store.Values()
	for _, s := range m.layout.Steps {
		for _, f := range s.Fields {
			if f.Kind == formdef.KindCheckbox && m.store.Checked(f.ID) {
				values[f.ID] = "on"
			}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		resp, err := client.Submit(ctx, values)
		return submitResultMsg{resp: resp, err: err}
	}
}

func (m *applyModel) focused() *fieldEditor {
	if m.focus < 0 || m.focus >= len(m.editors) {
		return nil
	}
	return m.editors[m.focus]
}

func (m *applyModel) setFocus(i int) {
	if e := m.focused(); e != nil {
		e.blur()
	}
	m.focus = i
	if e := m.focused(); e != nil {
		e.focus()
	}
}

// moveFocus steps focus within the visible step, wrapping at either end.
func (m *applyModel) moveFocus(delta int) {
	n := len(m.editors)
	if n == 0 {
		return
	}
	m.setFocus(((m.focus+delta)%n + n) % n)
}

func validationNotice(err error) string {
	var verr *navigator.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func submitFailure(err error) string {
	switch {
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, backend.ErrTimeout):
		return "Could not reach the booking backend. Press Enter to try again."
	case errors.Is(err, backend.ErrRejected):
		return fmt.Sprintf("The backend rejected the application: %v", err)
	default:
		return fmt.Sprintf("Submission failed: %v", err)
	}
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m *applyModel) View() string {
	if m.quitting {
		return ""
	}
	if m.result != nil {
		return formatter.FormatSubmitResult(m.result) + "\n" + formatter.Dim("Press Enter to exit.") + "\n"
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(strings.ToUpper(m.layout.Title)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Step %d/%d · %s  %s\n", m.view.Index+1, m.view.Total,
		formatter.Bold(m.view.Step.Title), progressDots(m.view.Progress))
	b.WriteString(formatter.Dim(strings.Repeat("─", 48)))
	b.WriteString("\n\n")

	for i, e := range m.editors {
		b.WriteString(m.fieldLine(e, i == m.focus))
		b.WriteString("\n")
	}

	if m.view.Step.HostsMap {
		b.WriteString("\n")
		b.WriteString(m.pins.View(pinFromStore(m.store.Get)))
		b.WriteString("\n")
		if venue := m.store.Get(domain.FieldVenue); venue != "" && !location.LooksPublic(venue) {
			b.WriteString(formatter.StyleYellow.Render("This venue does not look like a public space. Permits cover council parks, reserves and halls."))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatter.FormatAdvisory(m.advisory))
	b.WriteString("\n")
	if m.backend == backendOffline {
		b.WriteString(formatter.Dim("Backend offline: availability stays unknown until it is reachable."))
		b.WriteString("\n")
	}

	if m.nav.IsLast() {
		b.WriteString("\n")
		b.WriteString(formatter.FormatSummary(m.summary))
	}

	if m.submitting {
		b.WriteString("\n")
		b.WriteString(formatter.StyleBlue.Render("Submitting…"))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(formatter.StyleRed.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatter.Dim(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *applyModel) fieldLine(e *fieldEditor, focused bool) string {
	marker := "  "
	label := e.field.Label
	if m.view.Required[e.field.ID] {
		label += " *"
	}
	if focused {
		marker = formatter.StyleHeader.Render("› ")
		label = formatter.Bold(label)
	} else {
		label = formatter.StyleFg.Render(label)
	}
	return marker + label + "  " + e.view(focused)
}

func (m *applyModel) helpLine() string {
	parts := []string{"tab/↑↓ move", "enter next"}
	if e := m.focused(); e != nil {
		switch e.field.Kind {
		case formdef.KindSelect:
			parts = append(parts, "←/→ choose")
		case formdef.KindCheckbox:
			parts = append(parts, "space tick")
		}
	}
	if m.nav.Current() > 0 {
		parts = append(parts, "esc back")
	}
	if m.nav.IsLast() {
		parts = append(parts, "enter on the last field submits")
	}
	parts = append(parts, "ctrl+c quit")
	return strings.Join(parts, " · ")
}

func progressDots(progress []bool) string {
	var b strings.Builder
	for _, done := range progress {
		if done {
			b.WriteString(formatter.StyleGreen.Render("●"))
		} else {
			b.WriteString(formatter.Dim("○"))
		}
	}
	return b.String()
}
