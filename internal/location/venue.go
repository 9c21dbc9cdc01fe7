package location

import "strings"

// publicPlaceWords mark venue names that read as civic open space.
var publicPlaceWords = []string{
	"park", "reserve", "oval", "foreshore", "beach", "hall",
	"community centre", "plaza", "square", "public", "green",
}

// LooksPublic reports whether a venue name sounds like a public place.
// It is a naming heuristic, not a land register lookup.
func LooksPublic(venue string) bool {
	v := strings.ToLower(strings.TrimSpace(venue))
	if v == "" {
		return false
	}
	for _, w := range publicPlaceWords {
		if strings.Contains(v, w) {
			return true
		}
	}
	return false
}
