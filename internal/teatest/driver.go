// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver stands in for tea.Program: it calls Update directly and runs
// returned Cmds on the spot, feeding their messages back in. Cmds that do
// not return within a few milliseconds (cursor blinks, tea.Tick timers) are
// dropped, so only immediate work such as fake backend calls is drained.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// MaxDrainDepth bounds how many follow-up Cmds one message may trigger.
const MaxDrainDepth = 100

// cmdTimeout separates immediate Cmds from timer-backed ones.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced. The runtime
	// normally swallows it, so the driver records it itself.
	Quitting bool
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for the model. Call DrainInit afterwards to run the
// model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs the model's Init command and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

// ── Keys ─────────────────────────────────────────────────────────────────────

func (d *Driver) press(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// Fill types s into the focused field and tabs to the next one.
func (d *Driver) Fill(s string) {
	d.T.Helper()
	d.Type(s)
	d.PressTab()
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.press(tea.KeyEnter)
}

// PressEsc sends Escape.
func (d *Driver) PressEsc() {
	d.T.Helper()
	d.press(tea.KeyEsc)
}

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.press(tea.KeyCtrlC)
}

// PressCtrlN sends Ctrl+N.
func (d *Driver) PressCtrlN() {
	d.T.Helper()
	d.press(tea.KeyCtrlN)
}

// PressTab sends Tab.
func (d *Driver) PressTab() {
	d.T.Helper()
	d.press(tea.KeyTab)
}

// PressShiftTab sends Shift+Tab.
func (d *Driver) PressShiftTab() {
	d.T.Helper()
	d.press(tea.KeyShiftTab)
}

// PressUp sends the Up arrow.
func (d *Driver) PressUp() {
	d.T.Helper()
	d.press(tea.KeyUp)
}

// PressDown sends the Down arrow.
func (d *Driver) PressDown() {
	d.T.Helper()
	d.press(tea.KeyDown)
}

// PressLeft sends the Left arrow.
func (d *Driver) PressLeft() {
	d.T.Helper()
	d.press(tea.KeyLeft)
}

// PressRight sends the Right arrow.
func (d *Driver) PressRight() {
	d.T.Helper()
	d.press(tea.KeyRight)
}

// PressSpace sends a space.
func (d *Driver) PressSpace() {
	d.T.Helper()
	d.PressKey(' ')
}

// ── Output ───────────────────────────────────────────────────────────────────

// View returns the rendered output with styling removed.
func (d *Driver) View() string {
	return ansi.Strip(d.Model.View())
}

// ViewContains fails the test unless the plain view contains every want.
func (d *Driver) ViewContains(wants ...string) {
	d.T.Helper()
	view := d.View()
	for _, w := range wants {
		if !strings.Contains(view, w) {
			d.T.Errorf("view does not contain %q:\n%s", w, view)
		}
	}
}

// ── Draining ─────────────────────────────────────────────────────────────────

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isCursorBlink(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(m)
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.drain(next, depth+1)
}

// runWithTimeout runs cmd on its own goroutine and gives up after
// cmdTimeout. A Cmd that times out keeps its goroutine until it returns.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor.
func isCursorBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
