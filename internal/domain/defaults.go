package domain

// ApplyDefaults makes sure Location, Operator and Fatalities exist, fills null
// Location and Operator with "Unknown", and coerces Fatalities to a number
// with null or non-numeric values becoming 0. It touches no other column, so
// it may run before or after CleanCoordinates.
func ApplyDefaults(ds *Dataset) {
	ds.EnsureColumn(ColLocation, Unknown)
	ds.EnsureColumn(ColOperator, Unknown)
	ds.EnsureColumn(ColFatalities, "0")

	for _, r := range ds.Records {
		if r.IsNull(ColLocation) {
			r[ColLocation] = Unknown
		}
		if r.IsNull(ColOperator) {
			r[ColOperator] = Unknown
		}
		n, ok := ParseNumber(r[ColFatalities])
		if !ok {
			n = 0
		}
		r[ColFatalities] = FormatNumber(n)
	}
}
