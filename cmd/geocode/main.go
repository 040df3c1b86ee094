// Command geocode resolves crash locations to coordinates, then cleans the CSV.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/crash-map-etl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewGeocodeCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
