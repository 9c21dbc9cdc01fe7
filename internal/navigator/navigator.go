// Package navigator is the permit form's step state machine.
//
// A Navigator owns the current step, the per-field required flags and the
// map/advisory state. It never touches a rendering surface directly; all
// output goes through the UI, MapWidget and Scheduler capabilities so the
// transitions can be driven without a terminal or browser.
//
// A Navigator is not safe for concurrent use. Conflict checks may run on other
// goroutines, but their results must be handed back through ApplyConflict on
// the goroutine that owns the Navigator.
package navigator

import (
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/classification"
	"github.com/alexanderramin/eventpermit/internal/conflict"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/eligibility"
	"github.com/alexanderramin/eventpermit/internal/fieldstore"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/alexanderramin/eventpermit/internal/location"
)

// Map re-layout delays after the map step is shown. The second pass catches
// containers that are still animating when the first one runs.
const (
	firstRelayout  = 50 * time.Millisecond
	secondRelayout = 300 * time.Millisecond
)

// StepView is what the UI needs to draw the visible step.
type StepView struct {
	Index    int
	Total    int
	Step     formdef.Step
	Required map[string]bool
	// Progress[i] is true for every step up to and including the visible one.
	Progress []bool
}

// RecapRow is one line of the read-only summary recap.
type RecapRow struct {
	Label string
	Value string
}

// Summary is the content of the final step.
type Summary struct {
	Recap          []RecapRow
	Classification domain.Classification
	Reasons        []string
	Eligibility    domain.EligibilitySummary
}

// UI renders navigator output.
type UI interface {
	Render(view StepView)
	Focus(fieldID string)
	SetAdvisory(state domain.ConflictState)
	ShowSummary(summary Summary)
}

// MapWidget is the external location picker.
type MapWidget interface {
	Init(center location.Pick)
	Relayout()
}

// Scheduler runs fn once after d on the goroutine that owns the Navigator.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// ConfirmOutcome is the effect of a confirm keypress.
type ConfirmOutcome int

const (
	// ConfirmNone means the keypress was not a navigation gesture.
	ConfirmNone ConfirmOutcome = iota
	// ConfirmPassThrough leaves the keypress to the focused field.
	ConfirmPassThrough
	ConfirmAdvanced
	ConfirmBlocked
	// ConfirmSubmit means the last step is valid and the form may be sent.
	ConfirmSubmit
)

type fieldState struct {
	required    bool
	wasRequired bool
}

// Navigator drives a layout over a field store.
type Navigator struct {
	layout  *formdef.Layout
	store   *fieldstore.Store
	ui      UI
	mapw    MapWidget
	sched   Scheduler
	advisor *conflict.Advisor

	current        int
	fields         map[string]*fieldState
	mapInitialized bool
	advisory       domain.ConflictState
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithMap attaches the location picker.
func WithMap(m MapWidget) Option {
	return func(n *Navigator) { n.mapw = m }
}

// WithScheduler enables the delayed map re-layouts. Without a scheduler the
// map is re-laid out once, immediately, on entry to its step.
func WithScheduler(s Scheduler) Option {
	return func(n *Navigator) { n.sched = s }
}

// WithAdvisor enables conflict checks.
func WithAdvisor(a *conflict.Advisor) Option {
	return func(n *Navigator) { n.advisor = a }
}

// New creates a Navigator and shows step 0.
func New(layout *formdef.Layout, store *fieldstore.Store, ui UI, opts ...Option) *Navigator {
	n := &Navigator{
		layout: layout,
		store:  store,
		ui:     ui,
		fields: make(map[string]*fieldState),
	}
	for _, opt := range opts {
		opt(n)
	}
	for _, s := range layout.Steps {
		for _, f := range s.Fields {
			n.fields[f.ID] = &fieldState{required: f.Required}
		}
	}
	n.show(0)
	return n
}

// Current returns the visible step index.
func (n *Navigator) Current() int { return n.current }

// StepCount returns the number of steps.
func (n *Navigator) StepCount() int { return len(n.layout.Steps) }

// Step returns the visible step.
func (n *Navigator) Step() formdef.Step { return n.layout.Steps[n.current] }

// IsLast reports whether the visible step is the summary step.
func (n *Navigator) IsLast() bool { return n.current == len(n.layout.Steps)-1 }

// Required reports whether a field is currently required.
func (n *Navigator) Required(id string) bool {
	fs, ok := n.fields[id]
	return ok && fs.required
}

// MapInitialized reports whether the map widget has been set up.
func (n *Navigator) MapInitialized() bool { return n.mapInitialized }

// Advisory returns the last applied conflict state.
func (n *Navigator) Advisory() domain.ConflictState { return n.advisory }

// Store returns the backing field store.
func (n *Navigator) Store() *fieldstore.Store { return n.store }

// Next validates the visible step and advances by one. On failure the index
// is unchanged, the first failing field is focused and the error returned.
// Next on the last step is a no-op once the step is valid.
func (n *Navigator) Next() error {
	if err := n.validate(n.current); err != nil {
		n.ui.Focus(err.FieldID)
		return err
	}
	if n.IsLast() {
		return nil
	}
	n.show(n.current + 1)
	return nil
}

// Back moves to the previous step without validation. It reports whether the
// step changed.
func (n *Navigator) Back() bool {
	if n.current == 0 {
		return false
	}
	n.show(n.current - 1)
	return true
}

// Validate checks the visible step. It does not move focus.
func (n *Navigator) Validate() error {
	if err := n.validate(n.current); err != nil {
		return err
	}
	return nil
}

func (n *Navigator) validate(i int) *ValidationError {
	if i < 0 || i >= len(n.layout.Steps) {
		return nil
	}
	for _, f := range n.layout.Steps[i].Fields {
		if !n.Required(f.ID) {
			continue
		}
		if f.Kind == formdef.KindCheckbox {
			if !n.store.Checked(f.ID) {
				return &ValidationError{FieldID: f.ID, Label: f.Label, Reason: ReasonUnchecked}
			}
			continue
		}
		if n.store.Get(f.ID) == "" {
			return &ValidationError{FieldID: f.ID, Label: f.Label, Reason: ReasonEmpty}
		}
	}
	for _, f := range n.layout.Steps[i].Fields {
		if f.Kind != formdef.KindTime {
			continue
		}
		if _, err := domain.ParseClock(n.store.Get(f.ID)); err != nil {
			return &ValidationError{FieldID: f.ID, Label: f.Label, Reason: ReasonFormat}
		}
	}
	return nil
}

// HandleConfirm interprets a confirm keypress while focusedID has focus.
// Multi-line and file fields keep the keypress. On the terminal control of
// the visible step it advances, or signals submit on the last step; anywhere
// else nothing happens.
func (n *Navigator) HandleConfirm(focusedID string) ConfirmOutcome {
	if f, ok := n.layout.Field(focusedID); ok && f.Multiline() {
		return ConfirmPassThrough
	}
	if focusedID == "" || focusedID != n.Step().TerminalField() {
		return ConfirmNone
	}
	if n.IsLast() {
		if err := n.validate(n.current); err != nil {
			n.ui.Focus(err.FieldID)
			return ConfirmBlocked
		}
		return ConfirmSubmit
	}
	if err := n.Next(); err != nil {
		return ConfirmBlocked
	}
	return ConfirmAdvanced
}

// SetField records an edit. A time that parses is stored zero-padded; one
// that does not is kept as typed and blocks Next. When the field feeds the
// conflict check and the value changed, a ticket for a fresh check is
// returned.
func (n *Navigator) SetField(id, value string) (conflict.Ticket, bool) {
	if f, ok := n.layout.Field(id); ok && f.Kind == formdef.KindTime {
		if c, err := domain.ParseClock(value); err == nil {
			value = c
		}
	}
	if !n.store.Set(id, value) || !conflict.IsTrigger(id) {
		return conflict.Ticket{}, false
	}
	return n.RecheckConflict()
}

// SetChecked records a checkbox edit.
func (n *Navigator) SetChecked(id string, on bool) {
	n.store.SetChecked(id, on)
}

// PickLocation applies a map pick and returns a ticket for a fresh check.
func (n *Navigator) PickLocation(p location.Pick) (conflict.Ticket, bool) {
	location.ApplyPick(n.store, p)
	return n.RecheckConflict()
}

// ClearLocation removes the map pick and returns a ticket for a fresh check.
func (n *Navigator) ClearLocation() (conflict.Ticket, bool) {
	location.ClearPick(n.store)
	return n.RecheckConflict()
}

// RecheckConflict issues a conflict check for the current values. The caller
// runs the ticket and hands the result to ApplyConflict.
func (n *Navigator) RecheckConflict() (conflict.Ticket, bool) {
	if n.advisor == nil {
		return conflict.Ticket{}, false
	}
	return n.advisor.Issue(conflict.CandidateFrom(n.store.Snapshot())), true
}

// ApplyConflict shows r if it belongs to the latest issued check. Results of
// superseded checks are dropped and false is returned.
func (n *Navigator) ApplyConflict(r conflict.Result) bool {
	if n.advisor == nil || !n.advisor.Accept(r) {
		return false
	}
	n.advisory = r.State
	n.ui.SetAdvisory(r.State)
	return true
}

// Refresh recomputes the summary when the summary step is visible.
func (n *Navigator) Refresh() {
	if n.IsLast() {
		n.ui.ShowSummary(n.Summary())
	}
}

// Summary computes the recap, classification and checklist from the current
// values. Nothing is cached.
func (n *Navigator) Summary() Summary {
	snap := n.store.Snapshot()
	v := n.store.Get
	return Summary{
		Recap: []RecapRow{
			{"Event Name", dash(v(domain.FieldEventName))},
			{"Venue", dash(v(domain.FieldVenue))},
			{"Start", dash(strings.TrimSpace(v(domain.FieldStartDate) + " " + v(domain.FieldStartTime)))},
			{"End", dash(strings.TrimSpace(v(domain.FieldEndDate) + " " + v(domain.FieldEndTime)))},
			{"Attendance", dash(v(domain.FieldAttendance))},
		},
		Classification: classification.Classify(snap),
		Reasons:        classification.Reasons(snap),
		Eligibility:    eligibility.Evaluate(snap),
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// show makes step i the only visible step. Fields of hidden steps lose their
// required flag; fields of step i get it back only if they had it before.
func (n *Navigator) show(i int) {
	n.current = i
	for idx, s := range n.layout.Steps {
		for _, f := range s.Fields {
			fs := n.fields[f.ID]
			if idx != i && fs.required {
				fs.wasRequired = true
				fs.required = false
			}
		}
	}
	for _, f := range n.layout.Steps[i].Fields {
		fs := n.fields[f.ID]
		if fs.wasRequired {
			fs.required = true
			fs.wasRequired = false
		}
	}

	n.ui.Render(n.view())

	if n.layout.Steps[i].HostsMap {
		n.initMapOnce()
		n.scheduleRelayout()
	}
	if n.IsLast() {
		n.ui.ShowSummary(n.Summary())
	}
}

func (n *Navigator) initMapOnce() {
	if n.mapInitialized {
		return
	}
	n.mapInitialized = true
	if n.mapw != nil {
		n.mapw.Init(location.DefaultCenter)
	}
}

func (n *Navigator) view() StepView {
	step := n.layout.Steps[n.current]
	required := make(map[string]bool, len(step.Fields))
	for _, f := range step.Fields {
		required[f.ID] = n.fields[f.ID].required
	}
	progress := make([]bool, len(n.layout.Steps))
	for idx := range progress {
		progress[idx] = idx <= n.current
	}
	return StepView{
		Index:    n.current,
		Total:    len(n.layout.Steps),
		Step:     step,
		Required: required,
		Progress: progress,
	}
}

func (n *Navigator) scheduleRelayout() {
	if n.mapw == nil {
		return
	}
	if n.sched == nil {
		n.mapw.Relayout()
		return
	}
	n.sched.After(firstRelayout, n.mapw.Relayout)
	n.sched.After(secondRelayout, n.mapw.Relayout)
}
