package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-map-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/crash-map-etl/internal/domain"
)

// maxDetails caps the error lines printed per failed phase.
const maxDetails = 20

// errValidation is returned when any phase fails.
var errValidation = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// NewValidateCommand returns the command that checks a cleaned CSV: canonical
// columns present, every coordinate present and in range, Fatalities numeric.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "validate [output_csv]",
		Short:         "Check a cleaned plane crash CSV for integrity",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultOutput
			if len(args) > 0 {
				path = args[0]
			}
			ds, err := csvfile.Read(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "FATAL: %v\n", err)
				return err
			}
			return report(cmd.OutOrStdout(), path, ds, validateDataset(ds))
		},
	}
}

func validateDataset(ds *domain.Dataset) []*phase {
	schema := &phase{name: "Canonical columns present"}
	for _, c := range domain.CanonicalColumns {
		if !ds.HasColumn(c) {
			schema.errorf("missing column %q", c)
		}
	}

	coords := &phase{name: "Coordinates present and in range"}
	fields := &phase{name: "Location, Operator and Fatalities filled"}
	for i, r := range ds.Records {
		line := i + 2
		lat, lon, ok := domain.Coordinates(r)
		switch {
		case !ok:
			coords.errorf("line %d: coordinates %q,%q are not numeric", line, r[domain.ColLatitude], r[domain.ColLongitude])
		case !domain.InRange(lat, lon):
			coords.errorf("line %d: coordinates %v,%v out of range", line, lat, lon)
		}

		for _, c := range []string{domain.ColLocation, domain.ColOperator} {
			if ds.HasColumn(c) && r.IsNull(c) {
				fields.errorf("line %d: %s is empty", line, c)
			}
		}
		if ds.HasColumn(domain.ColFatalities) {
			if _, ok := domain.ParseNumber(r[domain.ColFatalities]); !ok {
				fields.errorf("line %d: Fatalities %q is not numeric", line, r[domain.ColFatalities])
			}
		}
	}
	return []*phase{schema, coords, fields}
}

func report(w io.Writer, path string, ds *domain.Dataset, phases []*phase) error {
	fmt.Fprintf(w, "=== Crash Data Validation: %s ===\n\n", path)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}
	fmt.Fprintf(w, "\nRecords: %d, columns: %d\n", ds.Len(), len(ds.Columns))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxDetails {
				fmt.Fprintf(w, "  ... and %d more\n", len(p.errors)-maxDetails)
				break
			}
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return nil
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return errValidation
}
