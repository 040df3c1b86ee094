// Package cli builds the cobra commands behind the process, geocode and
// validate binaries.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-map-etl/internal/pipeline"
)

// Default file names.
const (
	DefaultOutput        = "plane_crashes.csv"
	DefaultPreparedInput = "Aircraft_Crashes_and_Fatalities_Since_1908.csv"
	DefaultGeocodeInput  = "Plane Crashes.csv"
)

// NewProcessCommand returns the command that cleans a dataset which already
// carries coordinates.
func NewProcessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process [input_csv] [output_csv]",
		Short: "Normalize and clean a plane crash CSV that already has coordinates",
		Long: `Maps crash CSV headers onto Date, Location, Latitude, Longitude, Operator
and Fatalities, drops rows with missing or out-of-range coordinates, fills
defaults and writes the cleaned CSV.

Fails when Date, Latitude or Longitude cannot be found.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := paths(args, DefaultPreparedInput)
			return run(cmd, runOptions{
				input:   in,
				output:  out,
				options: pipeline.Options{Variant: pipeline.Prepared},
			})
		},
	}
}

// NewGeocodeCommand returns the command that geocodes rows lacking
// coordinates before cleaning.
func NewGeocodeCommand() *cobra.Command {
	var sample int
	cmd := &cobra.Command{
		Use:   "geocode [input_csv] [output_csv]",
		Short: "Geocode crash locations, then normalize and clean the CSV",
		Long: `Resolves Location (qualified by a country column when present) to
coordinates for every row that lacks them, then cleans the dataset like the
process command.

Requests are sequential and paced, so a full dataset can take a long time.
Use --sample to try the first rows only.

Examples:
  geocode "Plane Crashes.csv" --sample 20
  GEOCODER_PROVIDER=mapbox MAPBOX_TOKEN=pk... geocode in.csv out.csv`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := paths(args, DefaultGeocodeInput)
			return run(cmd, runOptions{
				input:  in,
				output: out,
				options: pipeline.Options{
					Variant: pipeline.Geocode,
					Sample:  sample,
				},
			})
		},
	}
	cmd.Flags().IntVar(&sample, "sample", 0, "process only the first N rows (0 = all)")
	return cmd
}

func paths(args []string, defaultInput string) (input, output string) {
	input, output = defaultInput, DefaultOutput
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}
	return input, output
}
