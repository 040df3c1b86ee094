// Package domain models the plane-crash dataset that feeds the crash map.
//
// # Data Source
//
// Input files are CSV exports of historical aircraft crash records, such as
// the "Aircraft Crashes and Fatalities Since 1908" dataset. Column names vary
// between exports ("Crash location", "Total fatalities", "lat", "Lng", ...),
// so nothing in this package relies on exact header text.
//
// # Canonical Schema
//
// After column normalization every dataset carries, in addition to whatever
// other columns the input had:
//
//	Date        free text; parsed for the date-range summary only
//	Location    place name, "Unknown" when missing
//	Latitude    WGS-84 degrees in [-90, 90]
//	Longitude   WGS-84 degrees in [-180, 180]
//	Operator    airline or military operator, "Unknown" when missing
//	Fatalities  number of deaths, 0 when missing
//
// # Null Values
//
// A field is null when it is empty after trimming. The CSV reader converts the
// usual missing-value spellings ("NA", "N/A", "NULL", "NaN", ...) to empty
// fields on the way in, so stages only test for the empty string.
//
// # Processing Stages
//
// NormalizeColumns maps input headers to the canonical schema by
// case-insensitive substring tests. The Resolver fills missing coordinates
// from a Geocoder, one record at a time, pacing every request and retrying
// transient failures with exponential backoff. CleanCoordinates drops records
// without usable coordinates. ApplyDefaults fills Location, Operator and
// Fatalities. Summarize computes the figures reported at the end of a run.
package domain
