package domain

import (
	"slices"
	"strings"
)

// Canonical column names.
const (
	ColDate       = "Date"
	ColLocation   = "Location"
	ColLatitude   = "Latitude"
	ColLongitude  = "Longitude"
	ColOperator   = "Operator"
	ColFatalities = "Fatalities"
)

// Unknown fills null Location and Operator fields.
const Unknown = "Unknown"

// CanonicalColumns lists the canonical schema in output order for columns the
// input did not provide.
var CanonicalColumns = []string{ColDate, ColLocation, ColLatitude, ColLongitude, ColOperator, ColFatalities}

// Record is one row of crash data keyed by column name. A missing key and an
// empty value both mean null.
type Record map[string]string

// Get returns the trimmed value of column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// IsNull reports whether column has no value in the record.
func (r Record) IsNull(column string) bool {
	return r.Get(column) == ""
}

// Dataset is an ordered collection of Records sharing one column schema.
// Stages mutate it in place.
type Dataset struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// HasColumn reports whether the schema contains name.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// EnsureColumn appends name to the schema if it is not already present and
// sets every record's value for it to def. It reports whether the column was added.
func (d *Dataset) EnsureColumn(name, def string) bool {
	if d.HasColumn(name) {
		return false
	}
	d.Columns = append(d.Columns, name)
	for _, r := range d.Records {
		r[name] = def
	}
	return true
}

// Head truncates the dataset to its first n records. Non-positive n is a no-op.
func (d *Dataset) Head(n int) {
	if n > 0 && n < len(d.Records) {
		d.Records = d.Records[:n]
	}
}

// Filter keeps the records for which keep returns true and reports how many were removed.
func (d *Dataset) Filter(keep func(Record) bool) int {
	before := len(d.Records)
	d.Records = slices.DeleteFunc(d.Records, func(r Record) bool { return !keep(r) })
	return before - len(d.Records)
}

// Row returns the record's values in schema order.
func (d *Dataset) Row(r Record) []string {
	row := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		row[i] = r[c]
	}
	return row
}
