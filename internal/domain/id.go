package domain

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// RecordID produces a deterministic ID from a cleaned record's identifying
// fields, so re-running the pipeline on the same input yields the same IDs.
func RecordID(r Record) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s",
		r.Get(ColDate), r.Get(ColLocation), r.Get(ColOperator), r.Get(ColLatitude), r.Get(ColLongitude))
	return fmt.Sprintf("crash-%016x", xxh3.HashString(input))
}
