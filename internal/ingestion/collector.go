package ingestion

import (
	"context"

	"golang.org/x/time/rate"

	"homeradar-properties/internal/models"
	"homeradar-properties/pkg/logger"
)

// AreaFetcher pulls every listing for a named search area from the upstream
// listing API.
type AreaFetcher interface {
	FetchAreaListings(ctx context.Context, area string, pageSize int) ([]models.ExternalListing, error)
}

// ListingSink receives fetched listings. The pipeline implements it for
// direct ingestion; the kafka publisher implements it for deferred
// processing by the worker.
type ListingSink interface {
	Deliver(ctx context.Context, listings []models.ExternalListing) (models.IngestionSummary, error)
}

// Deliver lets a Pipeline act as a ListingSink.
func (p *Pipeline) Deliver(ctx context.Context, listings []models.ExternalListing) (models.IngestionSummary, error) {
	return p.Ingest(ctx, listings)
}

// Collector walks the configured search areas, fetching listings for each
// and handing them to the sink. Area fetches are throttled so the upstream
// API is not hammered, and one failing area never aborts the sweep.
type Collector struct {
	fetcher  AreaFetcher
	sink     ListingSink
	areas    []string
	pageSize int
	limiter  *rate.Limiter
}

// NewCollector builds a collector that visits at most areasPerMinute areas
// per minute.
func NewCollector(fetcher AreaFetcher, sink ListingSink, areas []string, pageSize, areasPerMinute int) *Collector {
	if areasPerMinute <= 0 {
		areasPerMinute = 12
	}
	limit := rate.Limit(float64(areasPerMinute) / 60.0)
	return &Collector{
		fetcher:  fetcher,
		sink:     sink,
		areas:    areas,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Run sweeps every configured area once and returns the aggregated summary.
// Upstream failures for a single area are logged and skipped. Cancellation
// stops the sweep and returns the partial summary with the context error.
func (c *Collector) Run(ctx context.Context) (models.IngestionSummary, error) {
	var total models.IngestionSummary

	for _, area := range c.areas {
		if err := c.limiter.Wait(ctx); err != nil {
			return total, err
		}

		listings, err := c.fetcher.FetchAreaListings(ctx, area, c.pageSize)
		if err != nil {
			logger.GlobalLogger.Errorf("fetch failed for area %q: %v", area, err)
			continue
		}
		logger.GlobalLogger.Printf("fetched %d listings for area %q", len(listings), area)

		summary, err := c.sink.Deliver(ctx, listings)
		total.Accepted += summary.Accepted
		total.SkippedDuplicate += summary.SkippedDuplicate
		total.SkippedError += summary.SkippedError
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
