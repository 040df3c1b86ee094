package domain

import (
	"math"
	"strconv"
	"strings"
)

// Valid geographic ranges in degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// CleanReport counts the records CleanCoordinates removed.
type CleanReport struct {
	Before     int
	Missing    int // latitude or longitude null or not numeric
	OutOfRange int
	After      int
}

// Removed returns the total number of records dropped.
func (r CleanReport) Removed() int { return r.Missing + r.OutOfRange }

// ParseNumber parses a numeric field. Non-numeric text, NaN and infinities
// are reported as absent.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatNumber renders v in the shortest form that parses back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Coordinates reads a record's latitude and longitude. ok is false when either is null or not numeric.
func Coordinates(r Record) (lat, lon float64, ok bool) {
	lat, latOK := ParseNumber(r[ColLatitude])
	lon, lonOK := ParseNumber(r[ColLongitude])
	return lat, lon, latOK && lonOK
}

// InRange reports whether lat/lon lie within the valid geographic range, bounds included.
func InRange(lat, lon float64) bool {
	return lat >= MinLatitude && lat <= MaxLatitude &&
		lon >= MinLongitude && lon <= MaxLongitude
}

// CleanCoordinates coerces Latitude and Longitude to numbers, drops records
// where either is missing, then drops records outside the valid range.
// Surviving coordinates are rewritten in canonical numeric form, so running it
// again on its own output removes nothing and changes nothing.
func CleanCoordinates(ds *Dataset) CleanReport {
	report := CleanReport{Before: ds.Len()}

	report.Missing = ds.Filter(func(r Record) bool {
		lat, lon, ok := Coordinates(r)
		if !ok {
			return false
		}
		r[ColLatitude] = FormatNumber(lat)
		r[ColLongitude] = FormatNumber(lon)
		return true
	})

	report.OutOfRange = ds.Filter(func(r Record) bool {
		lat, lon, _ := Coordinates(r)
		return InRange(lat, lon)
	})

	report.After = ds.Len()
	return report
}
