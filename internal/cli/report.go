package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/crash-map-etl/internal/domain"
	"github.com/couchcryptid/crash-map-etl/internal/pipeline"
)

const dateFormat = "2006-01-02 15:04:05"

var geocodeOutcomes = []domain.Outcome{
	domain.OutcomeResolved,
	domain.OutcomeNotFound,
	domain.OutcomeExhausted,
	domain.OutcomeFailed,
	domain.OutcomeSkipped,
}

func printSummary(w io.Writer, output string, res pipeline.Result) {
	s := res.Summary
	fmt.Fprintf(w, "\nProcessed dataset saved to: %s\n", output)
	fmt.Fprintf(w, "Final dataset shape: (%d, %d)\n", s.Rows, s.Columns)
	fmt.Fprintf(w, "Rows read: %d\n", res.RowsIn)
	if res.Geocode != nil {
		parts := make([]string, 0, len(geocodeOutcomes))
		for _, o := range geocodeOutcomes {
			parts = append(parts, fmt.Sprintf("%s=%d", o, res.Geocode[o]))
		}
		fmt.Fprintf(w, "Geocoding: %s\n", strings.Join(parts, " "))
	}
	if res.Clean.Removed() > 0 {
		fmt.Fprintf(w, "Removed %d rows with invalid coordinates (missing: %d, out of range: %d)\n",
			res.Clean.Removed(), res.Clean.Missing, res.Clean.OutOfRange)
	}
	fmt.Fprintf(w, "Valid crashes with coordinates: %d\n", s.Rows)
	if s.Dates != nil {
		fmt.Fprintf(w, "Date range: %s to %s\n", s.Dates.Min.Format(dateFormat), s.Dates.Max.Format(dateFormat))
	}
	fmt.Fprintf(w, "Total fatalities: %.0f\n", s.Fatalities)

	fmt.Fprintln(w, "\n✓ Data processing complete!")
	fmt.Fprintf(w, "Output file: %s\n", output)
	fmt.Fprintln(w, "\nNote: For local development, you may need to run a local server:")
	fmt.Fprintln(w, "  python -m http.server 8000")
	fmt.Fprintln(w, "Then open: http://localhost:8000")
}

func printFailure(w io.Writer) {
	fmt.Fprintln(w, "\n✗ Data processing failed. Please check the error messages above.")
}
