// Package formdef describes the permit form as data: an ordered list of steps,
// each holding the fields shown on it.
//
// The default layout is embedded at compile time. A replacement layout can be
// loaded from a YAML file with the same shape.
package formdef

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_layout.yaml
var defaultLayout []byte

// FieldKind is the input control type of a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindTime     FieldKind = "time"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindTextarea FieldKind = "textarea"
	KindFile     FieldKind = "file"
	KindHidden   FieldKind = "hidden"
)

var validKinds = map[FieldKind]bool{
	KindText: true, KindEmail: true, KindTel: true, KindNumber: true,
	KindDate: true, KindTime: true, KindSelect: true, KindCheckbox: true,
	KindTextarea: true, KindFile: true, KindHidden: true,
}

// Option is one choice of a select field.
type Option struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Field is a single form control.
type Field struct {
	ID          string    `yaml:"id"`
	Label       string    `yaml:"label"`
	Kind        FieldKind `yaml:"kind"`
	Required    bool      `yaml:"required"`
	Placeholder string    `yaml:"placeholder,omitempty"`
	Default     string    `yaml:"default,omitempty"`
	Options     []Option  `yaml:"options,omitempty"`
	// Suggestions are completion hints for free-text fields.
	Suggestions []string  `yaml:"suggestions,omitempty"`
}

// OptionValues returns the non-empty option values in declaration order.
func (f Field) OptionValues() []string {
	var vals []string
	for _, o := range f.Options {
		if o.Value != "" {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

// Multiline reports whether a confirm keypress inside the field belongs to
// the field itself rather than to form navigation.
func (f Field) Multiline() bool {
	return f.Kind == KindTextarea || f.Kind == KindFile
}

// Focusable reports whether the field takes keyboard focus.
func (f Field) Focusable() bool {
	return f.Kind != KindHidden
}

// Step is one page of the form.
type Step struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	HostsMap bool    `yaml:"hosts_map,omitempty"`
	Fields   []Field `yaml:"fields"`
}

// TerminalField returns the id of the last focusable field of the step, or ""
// when the step has none.
func (s Step) TerminalField() string {
	for i := len(s.Fields) - 1; i >= 0; i-- {
		if s.Fields[i].Focusable() {
			return s.Fields[i].ID
		}
	}
	return ""
}

// Layout is the whole form. The last step is the summary step.
type Layout struct {
	Title string `yaml:"title"`
	Steps []Step `yaml:"steps"`
}

// MapStep returns the index of the step hosting the location picker, or -1.
func (l *Layout) MapStep() int {
	for i, s := range l.Steps {
		if s.HostsMap {
			return i
		}
	}
	return -1
}

// Field looks a field up by id across all steps.
func (l *Layout) Field(id string) (Field, bool) {
	for _, s := range l.Steps {
		for _, f := range s.Fields {
			if f.ID == id {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Defaults returns the initial value of every field that declares one.
func (l *Layout) Defaults() map[string]string {
	out := make(map[string]string)
	for _, s := range l.Steps {
		for _, f := range s.Fields {
			if f.Default != "" {
				out[f.ID] = f.Default
			}
		}
	}
	return out
}

// Default parses the embedded layout.
func Default() (*Layout, error) {
	return Parse(defaultLayout)
}

// Load reads and validates a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if errs := Validate(&l); len(errs) > 0 {
		return nil, fmt.Errorf("invalid layout: %w", errors.Join(errs...))
	}
	return &l, nil
}

// Validate checks the layout and returns every problem found.
func Validate(l *Layout) []error {
	var errs []error

	if len(l.Steps) == 0 {
		errs = append(errs, fmt.Errorf("layout must have at least one step"))
	}

	seen := make(map[string]bool)
	mapSteps := 0
	for i, s := range l.Steps {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("steps[%d].id is required", i))
		}
		if s.HostsMap {
			mapSteps++
		}
		for j, f := range s.Fields {
			path := fmt.Sprintf("steps[%d].fields[%d]", i, j)
			if f.ID == "" {
				errs = append(errs, fmt.Errorf("%s.id is required", path))
				continue
			}
			if seen[f.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate field id %q", path, f.ID))
			}
			seen[f.ID] = true
			if !validKinds[f.Kind] {
				errs = append(errs, fmt.Errorf("%s: invalid kind %q", path, f.Kind))
			}
			if f.Kind == KindSelect && len(f.Options) == 0 {
				errs = append(errs, fmt.Errorf("%s: select field %q has no options", path, f.ID))
			}
			if f.Kind == KindHidden && f.Required {
				errs = append(errs, fmt.Errorf("%s: hidden field %q cannot be required", path, f.ID))
			}
		}
	}
	if mapSteps > 1 {
		errs = append(errs, fmt.Errorf("at most one step may host the map, found %d", mapSteps))
	}

	return errs
}
