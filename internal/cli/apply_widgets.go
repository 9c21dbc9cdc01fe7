package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/alexanderramin/eventpermit/internal/location"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ── Scheduler ────────────────────────────────────────────────────────────────

type scheduledCall struct {
	after time.Duration
	fn    func()
}

// scheduledMsg carries a deferred navigator callback back into Update.
type scheduledMsg struct {
	fn func()
}

// cmdScheduler queues navigator callbacks until the model turns them into
// tea.Tick commands, so they run on the Update goroutine.
type cmdScheduler struct {
	pending []scheduledCall
}

func (s *cmdScheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, scheduledCall{after: d, fn: fn})
}

// flush returns one tick per queued callback and empties the queue.
func (s *cmdScheduler) flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, c := range s.pending {
		fn := c.fn
		cmds = append(cmds, tea.Tick(c.after, func(time.Time) tea.Msg { return scheduledMsg{fn: fn} }))
	}
	s.pending = nil
	return tea.Batch(cmds...)
}

// ── Pin map ──────────────────────────────────────────────────────────────────

const (
	mapRows        = 7
	mapDefaultCols = 21
	mapMinCols     = 15
	mapMaxCols     = 41
	// mapSpan is the distance in degrees from the centre to the grid edge.
	mapSpan = 0.02
)

// pinMap is a character grid standing in for the location picker. It is
// sized from the terminal width on each relayout.
type pinMap struct {
	center    location.Pick
	ready     bool
	termWidth int
	cols      int
	relayouts int
}

func (p *pinMap) Init(center location.Pick) {
	p.center = center
	p.ready = true
	p.cols = mapDefaultCols
}

func (p *pinMap) Relayout() {
	p.relayouts++
	if p.termWidth == 0 {
		return
	}
	cols := min(max(p.termWidth/3, mapMinCols), mapMaxCols)
	if cols%2 == 0 {
		cols--
	}
	p.cols = cols
}

// View draws the grid with the centre marked "+" and the pin, when set,
// marked "●".
func (p *pinMap) View(pin *location.Pick) string {
	if !p.ready {
		return ""
	}
	cols := p.cols
	grid := make([][]rune, mapRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", cols))
	}
	midR, midC := mapRows/2, cols/2
	grid[midR][midC] = '+'

	caption := "No pin yet. Type lat,lon into Map pin."
	if pin != nil {
		r := midR - int(math.Round((pin.Latitude-p.center.Latitude)/mapSpan*float64(midR)))
		c := midC + int(math.Round((pin.Longitude-p.center.Longitude)/mapSpan*float64(midC)))
		caption = fmt.Sprintf("Pin %s,%s", location.FormatCoord(pin.Latitude), location.FormatCoord(pin.Longitude))
		if r >= 0 && r < mapRows && c >= 0 && c < cols {
			grid[r][c] = '●'
		} else {
			caption += " (outside view)"
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString("  ")
		b.WriteString(formatter.StyleBlue.Render(string(row)))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(formatter.Dim(caption))
	return b.String()
}

// pinFromStore reads the applied pick back from the form values.
func pinFromStore(get func(string) string) *location.Pick {
	lat, err := strconv.ParseFloat(get(domain.FieldLatitude), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(get(domain.FieldLongitude), 64)
	if err != nil {
		return nil
	}
	return &location.Pick{Latitude: lat, Longitude: lon}
}

// ── Field editors ────────────────────────────────────────────────────────────

const (
	inputWidth    = 40
	textareaLines = 3
)

// fieldEditor is the input control of one focusable field on the visible step.
type fieldEditor struct {
	field   formdef.Field
	input   textinput.Model
	area    textarea.Model
	choice  int
	checked bool
}

func newFieldEditor(f formdef.Field, value string, checked bool) *fieldEditor {
	e := &fieldEditor{field: f, checked: checked}
	switch f.Kind {
	case formdef.KindSelect:
		for i, o := range f.Options {
			if o.Value == value {
				e.choice = i
				break
			}
		}
	case formdef.KindCheckbox:
	case formdef.KindTextarea:
		e.area = textarea.New()
		e.area.ShowLineNumbers = false
		e.area.Placeholder = f.Placeholder
		e.area.SetWidth(inputWidth)
		e.area.SetHeight(textareaLines)
		e.area.Cursor.SetMode(cursor.CursorStatic)
		e.area.SetValue(value)
		e.area.Blur()
	default:
		e.input = textinput.New()
		e.input.Prompt = ""
		e.input.Placeholder = f.Placeholder
		e.input.Width = inputWidth
		e.input.Cursor.SetMode(cursor.CursorStatic)
		if len(f.Suggestions) > 0 {
			e.input.ShowSuggestions = true
			e.input.SetSuggestions(f.Suggestions)
			// Tab is form navigation; suggestions are taken explicitly.
			e.input.KeyMap.AcceptSuggestion.SetEnabled(false)
		}
		e.input.SetValue(value)
	}
	return e
}

func (e *fieldEditor) isText() bool {
	switch e.field.Kind {
	case formdef.KindSelect, formdef.KindCheckbox, formdef.KindTextarea:
		return false
	}
	return true
}

func (e *fieldEditor) focus() {
	switch {
	case e.field.Kind == formdef.KindTextarea:
		e.area.Focus()
	case e.isText():
		e.input.Focus()
	}
}

func (e *fieldEditor) blur() {
	switch {
	case e.field.Kind == formdef.KindTextarea:
		e.area.Blur()
	case e.isText():
		e.input.Blur()
	}
}

// value is the raw text the editor holds.
func (e *fieldEditor) value() string {
	switch e.field.Kind {
	case formdef.KindSelect:
		if len(e.field.Options) == 0 {
			return ""
		}
		return e.field.Options[e.choice].Value
	case formdef.KindTextarea:
		return e.area.Value()
	case formdef.KindCheckbox:
		return ""
	}
	return strings.TrimSpace(e.input.Value())
}

// cycle moves a select field by delta options, wrapping around.
func (e *fieldEditor) cycle(delta int) {
	n := len(e.field.Options)
	if n == 0 {
		return
	}
	e.choice = ((e.choice+delta)%n + n) % n
}

// acceptSuggestion completes the input with the current suggestion and
// reports whether the value changed.
func (e *fieldEditor) acceptSuggestion() bool {
	if !e.isText() || !e.input.ShowSuggestions || e.input.Value() == "" {
		return false
	}
	s := e.input.CurrentSuggestion()
	if s == "" || s == e.input.Value() {
		return false
	}
	e.input.SetValue(s)
	e.input.CursorEnd()
	return true
}

// update forwards a key to the underlying bubbles component.
func (e *fieldEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case e.field.Kind == formdef.KindTextarea:
		e.area, cmd = e.area.Update(msg)
	case e.isText():
		e.input, cmd = e.input.Update(msg)
	}
	return cmd
}

func (e *fieldEditor) view(focused bool) string {
	switch e.field.Kind {
	case formdef.KindSelect:
		label := ""
		if len(e.field.Options) > 0 {
			label = e.field.Options[e.choice].Label
		}
		if focused {
			return formatter.StyleHeader.Render("‹ ") + formatter.StyleGreen.Render(label) + formatter.StyleHeader.Render(" ›")
		}
		return label
	case formdef.KindCheckbox:
		box := "[ ]"
		if e.checked {
			box = "[x]"
		}
		if focused {
			return formatter.StyleHeader.Render(box)
		}
		return box
	case formdef.KindTextarea:
		return "\n" + e.area.View()
	}
	return e.input.View()
}
