package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/crash-map-etl/internal/domain"
	"github.com/couchcryptid/crash-map-etl/internal/observability"
)

// Extractor loads the input dataset.
type Extractor interface {
	Extract(ctx context.Context) (*domain.Dataset, error)
}

// Loader persists the cleaned dataset.
type Loader interface {
	Load(ctx context.Context, ds *domain.Dataset) error
}

// Variant selects which stages a run includes.
type Variant int

const (
	// Prepared expects coordinates in the input and never geocodes.
	Prepared Variant = iota
	// Geocode resolves coordinates for rows lacking them.
	Geocode
)

func (v Variant) String() string {
	if v == Geocode {
		return "geocode"
	}
	return "prepared"
}

// countryNeedle finds the column qualifying geocoding queries.
const countryNeedle = "country"

// Options controls a single run.
type Options struct {
	Variant Variant
	// Sample limits the run to the first Sample rows when positive.
	Sample int
}

// Result describes a completed run.
type Result struct {
	RowsIn  int
	Mapping domain.ColumnMapping
	Geocode map[domain.Outcome]int
	Clean   domain.CleanReport
	Summary domain.Summary
}

// Pipeline orchestrates normalize, geocode, clean, default and load over one dataset.
type Pipeline struct {
	extractor Extractor
	loaders   []Loader
	resolver  *domain.Resolver
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
}

// New creates a Pipeline. resolver may be nil for the Prepared variant.
func New(e Extractor, loaders []Loader, resolver *domain.Resolver, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		extractor: e,
		loaders:   loaders,
		resolver:  resolver,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// Run executes the pipeline once. A *domain.SchemaError is returned when
// required columns cannot be resolved; per-row problems never fail the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() { p.metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	p.logger.Info("pipeline started", "variant", p.opts.Variant, "sample", p.opts.Sample)

	ds, err := p.extractor.Extract(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	res := Result{RowsIn: ds.Len()}
	p.metrics.RowsRead.Add(float64(ds.Len()))

	res.Mapping = domain.NormalizeColumns(ds.Columns)
	res.Mapping.Apply(ds)
	p.logger.Info("columns mapped",
		"matched", res.Mapping.Matched(),
		"missing", res.Mapping.Missing(domain.CanonicalColumns...),
	)
	if len(res.Mapping.Collisions) > 0 {
		p.logger.Warn("columns kept original names, canonical name already taken",
			"columns", res.Mapping.Collisions)
	}

	if err := p.checkSchema(ds, res.Mapping); err != nil {
		return res, err
	}

	if p.opts.Sample > 0 && p.opts.Sample < ds.Len() {
		ds.Head(p.opts.Sample)
		p.logger.Info("sampling rows", "rows", ds.Len())
	}

	if p.opts.Variant == Geocode {
		res.Geocode, err = p.geocode(ctx, ds)
		if err != nil {
			return res, err
		}
	}

	res.Clean = domain.CleanCoordinates(ds)
	p.metrics.RowsDropped.WithLabelValues("missing_coordinates").Add(float64(res.Clean.Missing))
	p.metrics.RowsDropped.WithLabelValues("out_of_range").Add(float64(res.Clean.OutOfRange))
	p.logger.Info("coordinates cleaned",
		"before", res.Clean.Before,
		"missing", res.Clean.Missing,
		"out_of_range", res.Clean.OutOfRange,
		"after", res.Clean.After,
	)

	domain.ApplyDefaults(ds)

	for _, l := range p.loaders {
		if err := l.Load(ctx, ds); err != nil {
			return res, fmt.Errorf("load %v: %w", l, err)
		}
		p.logger.Info("dataset written", "sink", fmt.Sprint(l), "rows", ds.Len())
	}
	p.metrics.RowsWritten.Add(float64(ds.Len()))

	res.Summary = domain.Summarize(ds)
	if res.Summary.UnparsedDates > 0 {
		p.logger.Warn("dates left out of range", "count", res.Summary.UnparsedDates)
	}
	p.logger.Info("pipeline finished", "rows", ds.Len(), "duration", time.Since(start))
	return res, nil
}

func (p *Pipeline) checkSchema(ds *domain.Dataset, m domain.ColumnMapping) error {
	if p.opts.Variant == Prepared {
		if missing := m.Missing(domain.ColDate, domain.ColLatitude, domain.ColLongitude); len(missing) > 0 {
			return &domain.SchemaError{Missing: missing, Available: ds.Columns}
		}
		return nil
	}

	if ds.HasColumn(domain.ColLocation) || coordinatesComplete(ds) {
		return nil
	}
	return &domain.SchemaError{Missing: []string{domain.ColLocation}, Available: ds.Columns}
}

func coordinatesComplete(ds *domain.Dataset) bool {
	if !ds.HasColumn(domain.ColLatitude) || !ds.HasColumn(domain.ColLongitude) {
		return false
	}
	for _, r := range ds.Records {
		if _, _, ok := domain.Coordinates(r); !ok {
			return false
		}
	}
	return true
}

// geocode fills Latitude and Longitude for every record lacking a parseable
// pair. Unresolved records get null coordinates and are dropped by cleaning.
func (p *Pipeline) geocode(ctx context.Context, ds *domain.Dataset) (map[domain.Outcome]int, error) {
	if p.resolver == nil {
		return nil, errors.New("geocode variant requires a resolver")
	}
	ds.EnsureColumn(domain.ColLatitude, "")
	ds.EnsureColumn(domain.ColLongitude, "")

	country, hasCountry := domain.FindColumn(ds.Columns, countryNeedle)
	if hasCountry {
		p.logger.Info("qualifying queries by country", "column", country)
	}

	var pending []domain.Record
	for _, r := range ds.Records {
		if _, _, ok := domain.Coordinates(r); !ok {
			pending = append(pending, r)
		}
	}
	p.logger.Info("geocoding locations", "rows", len(pending), "already_located", ds.Len()-len(pending))

	counts := make(map[domain.Outcome]int)
	for i, r := range pending {
		var c string
		if hasCountry {
			c = r[country]
		}

		started := time.Now()
		resolution := p.resolver.Resolve(ctx, r[domain.ColLocation], c)
		if err := ctx.Err(); err != nil {
			return counts, fmt.Errorf("geocode: %w", err)
		}

		counts[resolution.Outcome]++
		p.metrics.GeocodeRequests.WithLabelValues(string(resolution.Outcome)).Inc()
		p.metrics.GeocodeAttempts.Add(float64(resolution.Attempts))
		if resolution.Attempts > 0 {
			p.metrics.GeocodeDuration.Observe(time.Since(started).Seconds())
		}

		if resolution.Found() {
			r[domain.ColLatitude] = domain.FormatNumber(resolution.Lat)
			r[domain.ColLongitude] = domain.FormatNumber(resolution.Lon)
		} else {
			r[domain.ColLatitude] = ""
			r[domain.ColLongitude] = ""
		}
		p.logger.Debug("row geocoded",
			"row", i+1,
			"of", len(pending),
			"query", resolution.Query,
			"outcome", resolution.Outcome,
		)
	}
	return counts, nil
}
