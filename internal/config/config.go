package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoding providers.
const (
	ProviderNominatim = "nominatim"
	ProviderMapbox    = "mapbox"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// Geocoding configuration.
	GeocoderProvider  string
	NominatimURL      string
	GeocoderUserAgent string
	MapboxToken       string
	GeocodeTimeout    time.Duration
	GeocodePacing     time.Duration
	GeocodeBackoff    time.Duration
	GeocodeMaxRetries int

	// Optional Kafka sink; disabled when KafkaTopic is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// MetricsFile receives Prometheus metrics in text format after a run.
	MetricsFile string
}

// KafkaEnabled reports whether cleaned records should also be published to Kafka.
func (c *Config) KafkaEnabled() bool { return c.KafkaTopic != "" }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	timeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	pacing, err := parseDuration("GEOCODE_PACING", "1s")
	if err != nil {
		return nil, err
	}
	backoff, err := parseDuration("GEOCODE_BACKOFF", "1s")
	if err != nil {
		return nil, err
	}

	maxRetries, err := strconv.Atoi(sharedcfg.EnvOrDefault("GEOCODE_MAX_RETRIES", "3"))
	if err != nil || maxRetries < 1 {
		return nil, errors.New("invalid GEOCODE_MAX_RETRIES: must be a positive integer")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	defaultProvider := ProviderNominatim
	if mapboxToken != "" {
		defaultProvider = ProviderMapbox
	}

	cfg := &Config{
		LogLevel:  sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),

		GeocoderProvider:  sharedcfg.EnvOrDefault("GEOCODER_PROVIDER", defaultProvider),
		NominatimURL:      sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: sharedcfg.EnvOrDefault("GEOCODER_USER_AGENT", "plane_crash_visualization"),
		MapboxToken:       mapboxToken,
		GeocodeTimeout:    timeout,
		GeocodePacing:     pacing,
		GeocodeBackoff:    backoff,
		GeocodeMaxRetries: maxRetries,

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   os.Getenv("KAFKA_TOPIC"),

		MetricsFile: os.Getenv("METRICS_FILE"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", cfg.LogFormat)
	}
	switch cfg.GeocoderProvider {
	case ProviderNominatim:
		if cfg.GeocoderUserAgent == "" {
			return nil, errors.New("GEOCODER_USER_AGENT is required for nominatim")
		}
	case ProviderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("GEOCODER_PROVIDER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER_PROVIDER %q: must be nominatim or mapbox", cfg.GeocoderProvider)
	}
	if cfg.KafkaEnabled() && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_TOPIC is set")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := parseDuration(key, def)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
