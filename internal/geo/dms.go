// Package geo converts the sexagesimal location strings stored on sightings
// into decimal coordinates and map markers.
package geo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

var (
	ErrMalformedLocation    = errors.New("malformed location")
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")
)

// ParseError reports a location string that could not be converted.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse location %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Coordinates is a signed decimal latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinates in orb's (lng, lat) order.
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// 28°36'50.2"N 77°12'30.0"E
var dmsPattern = regexp.MustCompile(
	`^(\d+)°(\d+)'(\d+(?:\.\d+)?)"([NS])\s+(\d+)°(\d+)'(\d+(?:\.\d+)?)"([EW])$`,
)

// ParseLocation converts a "D°M'S.s"H D°M'S.s"H" string (latitude first)
// into decimal degrees. Southern and western hemispheres are negative.
func ParseLocation(s string) (Coordinates, error) {
	m := dmsPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coordinates{}, &ParseError{Input: s, Err: ErrMalformedLocation}
	}

	lat, err := toDecimal(m[1], m[2], m[3], 90)
	if err != nil {
		return Coordinates{}, &ParseError{Input: s, Err: err}
	}
	lng, err := toDecimal(m[5], m[6], m[7], 180)
	if err != nil {
		return Coordinates{}, &ParseError{Input: s, Err: err}
	}

	if m[4] == "S" {
		lat = -lat
	}
	if m[8] == "W" {
		lng = -lng
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

func toDecimal(degStr, minStr, secStr string, limit float64) (float64, error) {
	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: degrees %q", ErrMalformedLocation, degStr)
	}
	mins, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %q", ErrMalformedLocation, minStr)
	}
	secs, err := strconv.ParseFloat(secStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds %q", ErrMalformedLocation, secStr)
	}

	if mins >= 60 {
		return 0, fmt.Errorf("%w: minutes %s", ErrCoordinateOutOfRange, minStr)
	}
	if secs >= 60 {
		return 0, fmt.Errorf("%w: seconds %s", ErrCoordinateOutOfRange, secStr)
	}

	v := deg + mins/60 + secs/3600
	if v > limit {
		return 0, fmt.Errorf("%w: %.6f exceeds %.0f", ErrCoordinateOutOfRange, v, limit)
	}
	return v, nil
}
