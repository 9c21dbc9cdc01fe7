package navigator

import (
	"fmt"

	"github.com/alexanderramin/eventpermit/internal/domain"
)

// Validation failure reasons.
const (
	ReasonEmpty     = "empty"
	ReasonUnchecked = "unchecked"
	ReasonFormat    = "format"
)

// ValidationError names the first required field that blocked a transition.
type ValidationError struct {
	FieldID string
	Label   string
	Reason  string
}

func (e *ValidationError) Error() string {
	name := e.Label
	if name == "" {
		name = e.FieldID
	}
	switch e.Reason {
	case ReasonUnchecked:
		return fmt.Sprintf("%s must be ticked", name)
	case ReasonFormat:
		return fmt.Sprintf("%s must be a 24-hour time such as 09:30", name)
	}
	return fmt.Sprintf("%s is required", name)
}

// AdvisoryMessage is the banner text for a conflict state.
func AdvisoryMessage(state domain.ConflictState) string {
	switch state {
	case domain.ConflictConflicting:
		return "A booking already exists at this place & time. Your submission will be marked Pending."
	case domain.ConflictAvailable:
		return "This slot looks available."
	default:
		return "Availability cannot be determined yet."
	}
}
