package domain

import (
	"strconv"
	"strings"
)

// Form field identifiers shared by the layout, the field store and the
// snapshot parser.
const (
	FieldEventType       = "event_type"
	FieldOrganizerName   = "organizer_name"
	FieldContactEmail    = "contact_email"
	FieldContactPhone    = "contact_phone"
	FieldEventName       = "event_name"
	FieldVenue           = "venue"
	FieldMapPin          = "map_pin"
	FieldLatitude        = "latitude"
	FieldLongitude       = "longitude"
	FieldFeatureID       = "arcgis_feature_id"
	FieldFeatureName     = "arcgis_feature_name"
	FieldLayer           = "arcgis_layer"
	FieldStartDate       = "start_date"
	FieldEndDate         = "end_date"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldTotalDays       = "total_days"
	FieldDuration        = "duration"
	FieldAttendance      = "attendance"
	FieldAlcohol         = "alcohol"
	FieldHighRisk        = "high_risk"
	FieldTrafficMgmt     = "traffic_mgmt"
	FieldVehicleAccess   = "vehicle_access"
	FieldBuildingApprove = "building_approval"
	FieldGroundPiercing  = "ground_piercing"
	FieldVergeTraverse   = "verge_traverse"
	FieldAmplifiedSound  = "amplified_sound"
	FieldNoiseLevel      = "noise_level"
	FieldNotes           = "notes"
	FieldDeclaration     = "declaration"
)

// FormSnapshot is an immutable read of the form values at one point in time.
type FormSnapshot struct {
	Attendance        int
	BuildingApproval  YesNo
	GroundPiercing    YesNo
	TrafficManagement YesNo
	HighRisk          YesNo
	Alcohol           YesNo
	AmplifiedNoise    YesNo
	VehicleAccess     YesNo
	VergeTraverse     YesNo
	Duration          DurationBand
	StartTime         string // "HH:MM" or empty
	FinishTime        string // "HH:MM" or empty
	NoiseLevel        int    // dB(C)
	TotalDays         int
	StartDate         string
	EndDate           string
	Venue             string
	ArcGISFeatureID   string
}

// Values is a read accessor over raw form input.
type Values interface {
	Get(id string) string
}

// ValuesMap adapts a plain map to Values.
type ValuesMap map[string]string

func (m ValuesMap) Get(id string) string { return m[id] }

// SnapshotFrom parses raw values into a FormSnapshot, applying the
// safe-negative defaults: absent enums read as No, absent attendance and
// noise level read as 0, absent total days reads as 1. Times are read in
// ClockLayout; one that does not parse reads as missing.
func SnapshotFrom(v Values) FormSnapshot {
	return FormSnapshot{
		Attendance:        parseNonNegativeInt(v.Get(FieldAttendance), 0),
		BuildingApproval:  ParseYesNo(v.Get(FieldBuildingApprove)),
		GroundPiercing:    ParseYesNo(v.Get(FieldGroundPiercing)),
		TrafficManagement: ParseYesNo(v.Get(FieldTrafficMgmt)),
		HighRisk:          ParseYesNo(v.Get(FieldHighRisk)),
		Alcohol:           ParseYesNo(v.Get(FieldAlcohol)),
		AmplifiedNoise:    ParseYesNo(v.Get(FieldAmplifiedSound)),
		VehicleAccess:     ParseYesNo(v.Get(FieldVehicleAccess)),
		VergeTraverse:     ParseYesNo(v.Get(FieldVergeTraverse)),
		Duration:          ParseDurationBand(v.Get(FieldDuration)),
		StartTime:         clockOrEmpty(v.Get(FieldStartTime)),
		FinishTime:        clockOrEmpty(v.Get(FieldEndTime)),
		NoiseLevel:        parseNonNegativeInt(v.Get(FieldNoiseLevel), 0),
		TotalDays:         parseTotalDays(v.Get(FieldTotalDays)),
		StartDate:         v.Get(FieldStartDate),
		EndDate:           v.Get(FieldEndDate),
		Venue:             v.Get(FieldVenue),
		ArcGISFeatureID:   v.Get(FieldFeatureID),
	}
}

func parseNonNegativeInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	if n < 0 {
		return 0
	}
	return n
}

func parseTotalDays(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
