package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-map-etl/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/crash-map-etl/internal/adapter/kafka"
	"github.com/couchcryptid/crash-map-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/crash-map-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/crash-map-etl/internal/config"
	"github.com/couchcryptid/crash-map-etl/internal/domain"
	"github.com/couchcryptid/crash-map-etl/internal/observability"
	"github.com/couchcryptid/crash-map-etl/internal/pipeline"
)

type runOptions struct {
	input   string
	output  string
	options pipeline.Options
}

// loadConfig reads an optional .env file from the working directory, then the environment.
var loadConfig = func() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Load()
}

func run(cmd *cobra.Command, ro runOptions) (err error) {
	stdout := cmd.OutOrStdout()
	// Replaced by the configured logger once config is loaded.
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("unhandled panic", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			printFailure(stdout)
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	fmt.Fprintf(stdout, "Processing %s...\n", ro.input)
	if ro.options.Sample > 0 {
		fmt.Fprintf(stdout, "NOTE: Processing only first %d rows as a sample.\n", ro.options.Sample)
		fmt.Fprintln(stdout, "Remove --sample flag to process full dataset.")
	}

	var resolver *domain.Resolver
	if ro.options.Variant == pipeline.Geocode {
		resolver = domain.NewResolver(newGeocoder(cfg, logger), logger,
			domain.WithMaxRetries(cfg.GeocodeMaxRetries),
			domain.WithPacing(cfg.GeocodePacing),
			domain.WithBackoffUnit(cfg.GeocodeBackoff),
			domain.WithRequestTimeout(cfg.GeocodeTimeout),
		)
		logger.Info("geocoding enabled", "provider", cfg.GeocoderProvider, "pacing", cfg.GeocodePacing)
	}

	loaders := []pipeline.Loader{csvfile.Sink{Path: ro.output}}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				logger.Error("kafka writer close error", "error", cerr)
			}
		}()
		loaders = append(loaders, writer)
	}

	p := pipeline.New(csvfile.Source{Path: ro.input}, loaders, resolver, logger, metrics, ro.options)
	res, err := p.Run(cmd.Context())

	if cfg.MetricsFile != "" {
		if merr := metrics.WriteTextfile(cfg.MetricsFile); merr != nil {
			logger.Error("metrics export failed", "error", merr)
		}
	}

	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error("missing required columns",
				"missing", schemaErr.Missing,
				"available", schemaErr.Available,
			)
		} else {
			logger.Error("processing failed", "error", err)
		}
		return err
	}

	printSummary(stdout, ro.output, res)
	return nil
}

func newGeocoder(cfg *config.Config, logger *slog.Logger) domain.Geocoder {
	if cfg.GeocoderProvider == config.ProviderMapbox {
		return mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeTimeout, logger)
	}
	return nominatim.NewClient(cfg.NominatimURL, cfg.GeocoderUserAgent, cfg.GeocodeTimeout, logger)
}
