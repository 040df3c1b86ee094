package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordID_Deterministic(t *testing.T) {
	r := Record{ColDate: "1977-03-27", ColLocation: "Tenerife", ColOperator: "KLM", ColLatitude: "28.48", ColLongitude: "-16.34"}

	id := RecordID(r)
	assert.Equal(t, id, RecordID(Record{ColDate: " 1977-03-27 ", ColLocation: "Tenerife", ColOperator: "KLM", ColLatitude: "28.48", ColLongitude: "-16.34"}))
	assert.Regexp(t, `^crash-[0-9a-f]{16}$`, id)

	r[ColOperator] = "Pan Am"
	assert.NotEqual(t, id, RecordID(r))
}
