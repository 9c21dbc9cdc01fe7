package domain

// YesNo is a binary risk answer. Anything that is not exactly "Yes" reads as No.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// ParseYesNo maps raw form input onto YesNo. Missing or unrecognised values
// default to No.
func ParseYesNo(s string) YesNo {
	if s == string(Yes) {
		return Yes
	}
	return No
}

// DurationBand is the answer to "how long does the event run".
type DurationBand string

const (
	DurationUpToTwoConsecutive       DurationBand = "<=2 days"
	DurationUpToTwelveNonConsecutive DurationBand = "<=12 days"
	DurationOther                    DurationBand = "other"
)

// ParseDurationBand maps raw form input onto a DurationBand. The unset value
// is DurationOther, which is neither of the accepted bands.
func ParseDurationBand(s string) DurationBand {
	switch DurationBand(s) {
	case DurationUpToTwoConsecutive:
		return DurationUpToTwoConsecutive
	case DurationUpToTwelveNonConsecutive:
		return DurationUpToTwelveNonConsecutive
	default:
		return DurationOther
	}
}

// Classification is the advisory assessment category of an event.
type Classification string

const (
	SelfAssessable Classification = "Self-assessable"
	Assessable     Classification = "Assessable"
)

// ConflictState is the advisory result of a booking conflict check.
type ConflictState int

const (
	// ConflictUnknown means the check could not be made or failed. It is not
	// the same as available.
	ConflictUnknown ConflictState = iota
	ConflictAvailable
	ConflictConflicting
)

func (s ConflictState) String() string {
	switch s {
	case ConflictAvailable:
		return "available"
	case ConflictConflicting:
		return "conflicting"
	default:
		return "unknown"
	}
}

// EventStatus is the lifecycle status of a stored booking.
type EventStatus string

const (
	StatusApproved  EventStatus = "Approved"
	StatusPending   EventStatus = "Pending"
	StatusRejected  EventStatus = "Rejected"
	StatusCancelled EventStatus = "Cancelled"
)

// ValidEventStatuses is the canonical set of accepted status strings.
var ValidEventStatuses = map[EventStatus]bool{
	StatusApproved: true, StatusPending: true, StatusRejected: true, StatusCancelled: true,
}
