package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/eventpermit/internal/classification"
	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/eligibility"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// checkFieldIDs are the answers the quick self-check asks for.
var checkFieldIDs = []string{
	domain.FieldStartTime,
	domain.FieldEndTime,
	domain.FieldTotalDays,
	domain.FieldDuration,
	domain.FieldAttendance,
	domain.FieldAlcohol,
	domain.FieldHighRisk,
	domain.FieldTrafficMgmt,
	domain.FieldVehicleAccess,
	domain.FieldBuildingApprove,
	domain.FieldGroundPiercing,
	domain.FieldVergeTraverse,
	domain.FieldAmplifiedSound,
	domain.FieldNoiseLevel,
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check [field=value ...]",
		Short: "Quick eligibility self-check without submitting",
		Long: `Evaluate the self-assessment checklist and classification.

Without arguments an interactive form asks for the answers. Answers can also
be given as field=value pairs using the form's field ids, for example:

  eventpermit check attendance=250 alcohol=Yes start_time=06:00 end_time=21:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := app.layout()
			if err != nil {
				return err
			}
			values := layout.Defaults()

			if len(args) > 0 {
				if err := parseAnswers(layout, args, values); err != nil {
					return err
				}
			} else {
				if !app.interactive() {
					return fmt.Errorf("no answers given: pass field=value pairs or run in a terminal")
				}
				form, collect := newCheckForm(layout, values)
				if err := form.Run(); err != nil {
					return err
				}
				collect()
			}

			fmt.Fprint(cmd.OutOrStdout(), formatCheckResult(values))
			return nil
		},
	}
}

// parseAnswers applies field=value pairs to values. Select fields only
// accept one of their option values.
func parseAnswers(layout *formdef.Layout, args []string, values map[string]string) error {
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("answer %q: expected field=value", arg)
		}
		id = strings.TrimSpace(id)
		f, known := layout.Field(id)
		if !known {
			return fmt.Errorf("answer %q: unknown field %q", arg, id)
		}
		value, err := answerValue(f, value)
		if err != nil {
			return fmt.Errorf("answer %q: %w", arg, err)
		}
		values[id] = value
	}
	return nil
}

// answerValue trims a raw answer and puts it in the form the rules expect:
// times become zero-padded HH:MM and select values must be an option.
func answerValue(f formdef.Field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch f.Kind {
	case formdef.KindTime:
		return domain.ParseClock(value)
	case formdef.KindSelect:
		if value != "" && !slices.Contains(f.OptionValues(), value) {
			return "", fmt.Errorf("%s must be one of %s", f.ID, strings.Join(f.OptionValues(), ", "))
		}
	}
	return value, nil
}

// newCheckForm builds one form group per layout step holding any of the
// check fields. collect copies the answers back into values after Run.
func newCheckForm(layout *formdef.Layout, values map[string]string) (*huh.Form, func()) {
	type binding struct {
		field formdef.Field
		value *string
	}
	var bound []binding
	var groups []*huh.Group
	for _, step := range layout.Steps {
		var fields []huh.Field
		for _, f := range step.Fields {
			if !slices.Contains(checkFieldIDs, f.ID) {
				continue
			}
			v := values[f.ID]
			bound = append(bound, binding{field: f, value: &v})
			fields = append(fields, checkField(f, &v))
		}
		if len(fields) > 0 {
			groups = append(groups, huh.NewGroup(fields...).Title(step.Title))
		}
	}

	form := huh.NewForm(groups...).WithTheme(permitHuhTheme())
	// The validators have already rejected anything answerValue refuses.
	collect := func() {
		for _, b := range bound {
			if v, err := answerValue(b.field, *b.value); err == nil {
				values[b.field.ID] = v
			}
		}
	}
	return form, collect
}

func checkField(f formdef.Field, v *string) huh.Field {
	if f.Kind == formdef.KindSelect {
		opts := make([]huh.Option[string], 0, len(f.Options))
		for _, o := range f.Options {
			opts = append(opts, huh.NewOption(o.Label, o.Value))
		}
		return huh.NewSelect[string]().Title(f.Label).Options(opts...).Value(v)
	}

	in := huh.NewInput().Title(f.Label).Placeholder(f.Placeholder).Value(v)
	switch f.Kind {
	case formdef.KindNumber:
		in = in.Validate(validateOptionalCount)
	case formdef.KindTime:
		in = in.Validate(validateOptionalClock)
	}
	return in
}

func validateOptionalCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateOptionalClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := domain.ParseClock(s); err != nil {
		return fmt.Errorf("use 24-hour HH:MM")
	}
	return nil
}

func formatCheckResult(values map[string]string) string {
	snap := domain.SnapshotFrom(domain.ValuesMap(values))
	return formatter.Header("Self-assessment checklist") + "\n" +
		formatter.FormatChecklist(eligibility.Evaluate(snap)) + "\n" +
		formatter.FormatClassification(classification.Classify(snap), classification.Reasons(snap))
}
