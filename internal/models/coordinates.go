package models

import (
	"regexp"
	"strconv"
	"strings"
)

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point.
	Longitude float64 // Longitude of the geographical point.
}

// coordsPattern matches a bare "lat,lon" pair, with optional sign, decimals
// and surrounding whitespace.
var coordsPattern = regexp.MustCompile(`^\s*[+-]?\d+(?:\.\d+)?\s*,\s*[+-]?\d+(?:\.\d+)?\s*$`)

// IsCoords reports whether text is a literal "lat,lon" coordinate pair.
func IsCoords(text string) bool {
	return coordsPattern.MatchString(text)
}

// ParseCoords parses a literal "lat,lon" pair. It returns nil when the text
// is not a coordinate literal.
func ParseCoords(text string) *Coordinates {
	if !IsCoords(text) {
		return nil
	}

	parts := strings.SplitN(text, ",", 2)
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}

	return &Coordinates{Latitude: lat, Longitude: lon}
}

// String renders the pair as "lat,lon" the way it is embedded into route
// links, with no exponent and no trailing zeros.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
