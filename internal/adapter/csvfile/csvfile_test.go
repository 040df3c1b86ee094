package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/crash-map-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Basic(t *testing.T) {
	in := "Date,Crash location,Total fatalities\n" +
		"1908-09-17,\"Fort Myer, Virginia\",1\n" +
		"1912-07-12,Atlantic City,5\n"

	ds, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	want := &domain.Dataset{
		Columns: []string{"Date", "Crash location", "Total fatalities"},
		Records: []domain.Record{
			{"Date": "1908-09-17", "Crash location": "Fort Myer, Virginia", "Total fatalities": "1"},
			{"Date": "1912-07-12", "Crash location": "Atlantic City", "Total fatalities": "5"},
		},
	}
	if diff := cmp.Diff(want, ds); diff != "" {
		t.Errorf("dataset mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_NullTokensBOMAndPadding(t *testing.T) {
	in := "\xEF\xBB\xBFDate,Operator,Notes\n" +
		"NA,N/A,  \n" +
		"NaN,Aeroflot\n"

	ds, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Operator", "Notes"}, ds.Columns)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, domain.Record{"Date": "", "Operator": "", "Notes": ""}, ds.Records[0])
	assert.Equal(t, domain.Record{"Date": "", "Operator": "Aeroflot", "Notes": ""}, ds.Records[1])
}

func TestDecode_DuplicateHeaders(t *testing.T) {
	ds, err := Decode(strings.NewReader("X,X,Y,X\n1,2,3,4\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "X.1", "Y", "X.2"}, ds.Columns)
	assert.Equal(t, "4", ds.Records[0]["X.2"])
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")

	_, err = Decode(strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 fields")
}

func TestDecode_BareQuote(t *testing.T) {
	in := "Date,Location,Operator\n" +
		"1931-05-02,Kansas,Aero 5\" Club\n" +
		"1932-01-01,\"Quoted, Place\",KLM\n"

	ds, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, `Aero 5" Club`, ds.Records[0]["Operator"])
	assert.Equal(t, "Quoted, Place", ds.Records[1]["Location"])
}

func TestEncode_PreservesColumnOrder(t *testing.T) {
	ds := &domain.Dataset{
		Columns: []string{"b", "a"},
		Records: []domain.Record{{"a": "1", "b": "x,y"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ds))

	assert.Equal(t, "b,a\n\"x,y\",1\n", buf.String())
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "plane_crashes.csv")
	ds := &domain.Dataset{
		Columns: domain.CanonicalColumns,
		Records: []domain.Record{
			{"Date": "1977-03-27", "Location": "Tenerife, Canary Islands", "Latitude": "28.48", "Longitude": "-16.34", "Operator": "KLM / Pan Am", "Fatalities": "583"},
			{"Date": "", "Location": "Unknown", "Latitude": "0", "Longitude": "0", "Operator": "Unknown", "Fatalities": "0"},
		},
	}

	require.NoError(t, Sink{Path: path}.Load(context.Background(), ds))

	got, err := Source{Path: path}.Extract(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(ds, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
