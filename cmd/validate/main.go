// Command validate checks a cleaned plane crash CSV for integrity.
package main

import (
	"os"

	"github.com/couchcryptid/crash-map-etl/internal/cli"
)

func main() {
	if err := cli.NewValidateCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
