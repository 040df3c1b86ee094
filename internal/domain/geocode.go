package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Resolver defaults.
const (
	DefaultMaxRetries     = 3
	DefaultPacing         = time.Second
	DefaultBackoffUnit    = time.Second
	DefaultRequestTimeout = 10 * time.Second

	// MaxBackoff caps the wait between attempts however many are configured.
	MaxBackoff = 5 * time.Minute
)

// nullLocation is the sentinel some exports use for an unknown place.
const nullLocation = "NA"

// Outcome classifies how a Resolve call ended.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"  // coordinates found
	OutcomeSkipped   Outcome = "skipped"   // no location to look up, no request made
	OutcomeNotFound  Outcome = "not_found" // provider answered with no match
	OutcomeExhausted Outcome = "exhausted" // transient failures on every attempt
	OutcomeFailed    Outcome = "failed"    // non-transient failure
)

// Resolution is the result of resolving one location.
type Resolution struct {
	Lat      float64
	Lon      float64
	Outcome  Outcome
	Query    string
	Attempts int
	Err      error
}

// Found reports whether the resolution carries coordinates.
func (r Resolution) Found() bool { return r.Outcome == OutcomeResolved }

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxRetries sets the total number of attempts per location. Values below 1 are ignored.
func WithMaxRetries(n int) ResolverOption {
	return func(r *Resolver) {
		if n >= 1 {
			r.maxRetries = n
		}
	}
}

// WithPacing sets the wait before every request.
func WithPacing(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.pacing = d }
}

// WithBackoffUnit sets the unit of the exponential backoff. The wait after
// failed attempt k (counting from 0) is unit * 2^k.
func WithBackoffUnit(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.backoffUnit = d }
}

// WithRequestTimeout bounds each geocoding request.
func WithRequestTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// Resolver turns a location and optional country into coordinates using a
// Geocoder. Calls are strictly sequential; every request is preceded by the
// pacing wait so the provider's rate limit is respected.
type Resolver struct {
	geocoder    Geocoder
	logger      *slog.Logger
	maxRetries  int
	pacing      time.Duration
	backoffUnit time.Duration
	timeout     time.Duration
}

// NewResolver creates a Resolver around geocoder.
func NewResolver(geocoder Geocoder, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		geocoder:    geocoder,
		logger:      logger,
		maxRetries:  DefaultMaxRetries,
		pacing:      DefaultPacing,
		backoffUnit: DefaultBackoffUnit,
		timeout:     DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildQuery joins location and country as "location, country", or returns
// location alone when country is empty.
func BuildQuery(location, country string) string {
	location = strings.TrimSpace(location)
	country = strings.TrimSpace(country)
	if country == "" {
		return location
	}
	return fmt.Sprintf("%s, %s", location, country)
}

// Resolve looks up location, qualified by country when one is given.
//
// A null or "NA" location resolves to nothing without contacting the
// provider. A provider answer with no match ends the lookup at once; only
// transient errors (timeouts, service errors) are retried, waiting
// unit·2^attempt (at most MaxBackoff) between attempts. Any other error ends
// the lookup. Failures are logged and reported through the Outcome, never
// returned to the caller.
func (r *Resolver) Resolve(ctx context.Context, location, country string) Resolution {
	location = strings.TrimSpace(location)
	if location == "" || location == nullLocation {
		return Resolution{Outcome: OutcomeSkipped}
	}

	res := Resolution{Query: BuildQuery(location, country)}

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := sleepWithContext(ctx, r.pacing); err != nil {
			res.Outcome, res.Err = OutcomeFailed, err
			return res
		}

		res.Attempts++
		result, err := r.lookup(ctx, res.Query)
		if err == nil {
			if !result.Matched {
				res.Outcome = OutcomeNotFound
				return res
			}
			res.Lat, res.Lon, res.Outcome = result.Lat, result.Lon, OutcomeResolved
			return res
		}

		res.Err = err
		if !IsTransient(err) || ctx.Err() != nil {
			r.logger.Warn("unexpected geocoding error",
				"query", res.Query,
				"attempt", res.Attempts,
				"error", err,
			)
			res.Outcome = OutcomeFailed
			return res
		}

		if attempt < r.maxRetries-1 {
			wait := r.backoff(attempt)
			r.logger.Debug("geocoding attempt failed, retrying",
				"query", res.Query,
				"attempt", res.Attempts,
				"backoff", wait,
				"error", err,
			)
			if err := sleepWithContext(ctx, wait); err != nil {
				res.Outcome, res.Err = OutcomeFailed, err
				return res
			}
			continue
		}
	}

	r.logger.Warn("geocoding failed",
		"query", res.Query,
		"attempts", res.Attempts,
		"error", res.Err,
	)
	res.Outcome = OutcomeExhausted
	return res
}

// backoff returns unit·2^attempt, capped at MaxBackoff.
func (r *Resolver) backoff(attempt int) time.Duration {
	wait := r.backoffUnit
	for range attempt {
		if wait >= MaxBackoff/2 {
			return MaxBackoff
		}
		wait *= 2
	}
	return min(wait, MaxBackoff)
}

func (r *Resolver) lookup(ctx context.Context, query string) (GeocodingResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.geocoder.Geocode(ctx, query)
}

// sleepWithContext waits d on the package clock, returning early with the
// context's error if it is cancelled first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
