// Package classification derives the self-assessable/assessable category of
// an event. Its predicate set is narrower than the eligibility checklist and
// is kept separate from it on purpose: the two mirror different server rules.
package classification

import "github.com/alexanderramin/eventpermit/internal/domain"

const (
	attendanceThreshold = 200
	noiseThresholdDBC   = 95
	maxSelfAssessDays   = 2
)

// Override is a predicate that escalates an event to Assessable.
type Override struct {
	Name   string
	Reason string
	Fires  func(s domain.FormSnapshot) bool
}

// Overrides is the fixed escalation order.
var Overrides = []Override{
	{"attendance", "200 or more attendees", func(s domain.FormSnapshot) bool {
		return s.Attendance >= attendanceThreshold
	}},
	{"alcohol", "alcohol is served or consumed", func(s domain.FormSnapshot) bool {
		return s.Alcohol == domain.Yes
	}},
	{"high_risk", "high-risk activities", func(s domain.FormSnapshot) bool {
		return s.HighRisk == domain.Yes
	}},
	{"traffic_mgmt", "traffic management required", func(s domain.FormSnapshot) bool {
		return s.TrafficManagement == domain.Yes
	}},
	{"vehicle_access", "vehicle access to public space", func(s domain.FormSnapshot) bool {
		return s.VehicleAccess == domain.Yes
	}},
	{"amplified_sound", "amplified sound above 95 dB(C)", func(s domain.FormSnapshot) bool {
		return s.AmplifiedNoise == domain.Yes && s.NoiseLevel > noiseThresholdDBC
	}},
	{"total_days", "runs for more than 2 days", func(s domain.FormSnapshot) bool {
		return s.TotalDays > maxSelfAssessDays
	}},
}

// Classify starts at SelfAssessable and escalates on the first override that
// fires. An escalation is never undone within one evaluation.
func Classify(s domain.FormSnapshot) domain.Classification {
	c := domain.SelfAssessable
	for _, o := range Overrides {
		if c == domain.Assessable {
			break
		}
		if o.Fires(s) {
			c = domain.Assessable
		}
	}
	return c
}

// Reasons lists the reason of every override that fires, in order.
func Reasons(s domain.FormSnapshot) []string {
	var out []string
	for _, o := range Overrides {
		if o.Fires(s) {
			out = append(out, o.Reason)
		}
	}
	return out
}
