// Command process cleans a plane crash CSV that already carries coordinates.
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

	if err := cli.NewProcessCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
