// Package eligibility mirrors the council's self-assessment checklist on the
// client. The server remains authoritative; this is advisory only.
package eligibility

import "github.com/alexanderramin/eventpermit/internal/domain"

const (
	earliestStart = "05:30"
	latestFinish  = "22:00"
	maxAttendance = 200
)

type rule struct {
	description string
	check       func(s domain.FormSnapshot) bool
}

// rules is evaluated in order, and that order is also display order.
var rules = []rule{
	{"Less than 200 attendees", func(s domain.FormSnapshot) bool {
		return s.Attendance < maxAttendance
	}},
	{"No building approval/ground piercing", func(s domain.FormSnapshot) bool {
		return s.BuildingApproval == domain.No && s.GroundPiercing == domain.No
	}},
	{"No traffic management / road closures", func(s domain.FormSnapshot) bool {
		return s.TrafficManagement == domain.No
	}},
	{"≤2 consecutive days OR ≤12 non-consecutive days in 12 months", func(s domain.FormSnapshot) bool {
		return s.Duration == domain.DurationUpToTwoConsecutive ||
			s.Duration == domain.DurationUpToTwelveNonConsecutive
	}},
	{"No firearms, fireworks or other high-risk activities", func(s domain.FormSnapshot) bool {
		return s.HighRisk == domain.No
	}},
	// HH:MM is zero-padded fixed width, so string order is time order.
	{"Starts after 5:30am (or 7:00am if amplified)", func(s domain.FormSnapshot) bool {
		return s.StartTime >= earliestStart
	}},
	{"Finishes by 10:00pm", func(s domain.FormSnapshot) bool {
		return s.FinishTime == "" || s.FinishTime <= latestFinish
	}},
	{"No alcohol service or consumption", func(s domain.FormSnapshot) bool {
		return s.Alcohol == domain.No
	}},
	{"No amplified noise above 95dBC @ 15m", func(s domain.FormSnapshot) bool {
		return s.AmplifiedNoise == domain.No
	}},
	{"No vehicle/machinery access to public space", func(s domain.FormSnapshot) bool {
		return s.VehicleAccess == domain.No
	}},
	{"No traversing over verge/kerb/path with vehicles", func(s domain.FormSnapshot) bool {
		return s.VergeTraverse == domain.No
	}},
}

// RuleCount is the number of checklist rules every evaluation produces.
var RuleCount = len(rules)

// Evaluate runs every rule against the snapshot. There is no short-circuit:
// the summary always carries one result per rule.
func Evaluate(s domain.FormSnapshot) domain.EligibilitySummary {
	results := make([]domain.RuleResult, 0, len(rules))
	for _, r := range rules {
		results = append(results, domain.RuleResult{
			OK:          r.check(s),
			Description: r.description,
		})
	}
	return domain.EligibilitySummary{Results: results}
}

// Badge is the headline shown next to the checklist.
func Badge(summary domain.EligibilitySummary) string {
	if summary.AllOK() {
		return "Self-assessable"
	}
	return "Assessable by council"
}
