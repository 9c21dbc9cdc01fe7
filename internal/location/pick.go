// Package location applies map picks to the form.
package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/eventpermit/internal/domain"
)

// DefaultCenter is where the map opens before anything is picked.
var DefaultCenter = Pick{Latitude: -26.65, Longitude: 153.06}

// Pick is a point chosen on the map, with an address when one was resolved.
type Pick struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Fields is the part of the field store a pick writes to.
type Fields interface {
	Get(id string) string
	Set(id, value string) bool
	Clear(ids ...string)
}

// ParsePin reads a "lat,lon" pair.
func ParsePin(s string) (Pick, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Pick{}, fmt.Errorf("map pin %q: expected \"lat,lon\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Pick{}, fmt.Errorf("map pin %q: invalid latitude", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return Pick{}, fmt.Errorf("map pin %q: invalid longitude", s)
	}
	return Pick{Latitude: lat, Longitude: lon}, nil
}

// FormatCoord renders a coordinate with six decimal places.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ApplyPick writes a freeform pick into the form. A freeform point is not a
// catalogue feature, so any cached feature reference is cleared. The venue
// is filled from the address only when it is still empty.
func ApplyPick(f Fields, p Pick) {
	f.Set(domain.FieldLatitude, FormatCoord(p.Latitude))
	f.Set(domain.FieldLongitude, FormatCoord(p.Longitude))
	f.Clear(domain.FieldFeatureID, domain.FieldFeatureName, domain.FieldLayer)
	if f.Get(domain.FieldVenue) == "" && p.Address != "" {
		f.Set(domain.FieldVenue, p.Address)
	}
}

// ClearPick removes a previously applied pick.
func ClearPick(f Fields) {
	f.Clear(domain.FieldLatitude, domain.FieldLongitude,
		domain.FieldFeatureID, domain.FieldFeatureName, domain.FieldLayer)
}
