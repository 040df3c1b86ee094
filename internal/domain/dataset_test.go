package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataset_EnsureColumn(t *testing.T) {
	ds := &Dataset{Columns: []string{"a"}, Records: []Record{{"a": "1"}, {"a": "2"}}}

	assert.True(t, ds.EnsureColumn("b", "x"))
	assert.False(t, ds.EnsureColumn("b", "y"))

	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, "x", ds.Records[1]["b"])
}

func TestDataset_Head(t *testing.T) {
	ds := &Dataset{Records: []Record{{}, {}, {}}}

	ds.Head(0)
	assert.Equal(t, 3, ds.Len())
	ds.Head(5)
	assert.Equal(t, 3, ds.Len())
	ds.Head(2)
	assert.Equal(t, 2, ds.Len())
}

func TestDataset_FilterAndRow(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"a", "b"},
		Records: []Record{{"a": "1", "b": "keep"}, {"a": "2"}, {"a": "3", "b": "keep"}},
	}

	removed := ds.Filter(func(r Record) bool { return !r.IsNull("b") })

	assert.Equal(t, 1, removed)
	assert.Equal(t, [][]string{{"1", "keep"}, {"3", "keep"}}, [][]string{ds.Row(ds.Records[0]), ds.Row(ds.Records[1])})
}
