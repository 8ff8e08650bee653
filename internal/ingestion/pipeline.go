// Package ingestion consumes raw external listing records, normalizes them,
// and inserts only previously-unseen properties into the store.
package ingestion

import (
	"context"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/repositories"
	"homeradar-properties/internal/services"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/pkg/logger"
	"homeradar-properties/pkg/metrics"
)

// Pipeline deduplicates and persists external listings. All counters are
// per-invocation; concurrent Ingest calls for different batches share no
// mutable state.
type Pipeline struct {
	repo  repositories.PropertyRepository
	store *services.PropertyService
	trans transformers.ListingTransformer
}

func NewPipeline(
	repo repositories.PropertyRepository,
	store *services.PropertyService,
	trans transformers.ListingTransformer,
) *Pipeline {
	return &Pipeline{repo: repo, store: store, trans: trans}
}

// Ingest processes each record independently: a known external id is a silent
// counted skip, a bad record is counted and never aborts the rest of the
// batch. When ctx expires the summary so far is returned with the context
// error. The store's unique index on external id is the final arbiter for
// concurrent duplicate races: a duplicate-key write is counted as a skip.
func (p *Pipeline) Ingest(ctx context.Context, listings []models.ExternalListing) (models.IngestionSummary, error) {
	var summary models.IngestionSummary

	for i := range listings {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		p.ingestOne(ctx, &listings[i], &summary)
	}
	return summary, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, listing *models.ExternalListing, summary *models.IngestionSummary) {
	if listing.ExternalID == "" {
		logger.GlobalLogger.Errorf("skipping listing without external id")
		summary.SkippedError++
		metrics.IngestionRecordsTotal.WithLabelValues("error").Inc()
		return
	}

	existing, err := p.repo.FindByExternalID(ctx, listing.ExternalID)
	if err != nil {
		logger.GlobalLogger.Errorf("duplicate check failed for %s: %v", listing.ExternalID, err)
		summary.SkippedError++
		metrics.IngestionRecordsTotal.WithLabelValues("error").Inc()
		return
	}
	if existing != nil {
		summary.SkippedDuplicate++
		metrics.IngestionRecordsTotal.WithLabelValues("duplicate").Inc()
		return
	}

	property, err := p.trans.Transform(listing)
	if err != nil {
		logger.GlobalLogger.Errorf("transform failed for %s: %v", listing.ExternalID, err)
		summary.SkippedError++
		metrics.IngestionRecordsTotal.WithLabelValues("error").Inc()
		return
	}

	if err := p.store.Create(ctx, property); err != nil {
		if apperrors.IsDuplicateExternalID(err) {
			// Lost the race to a concurrent writer; the record exists.
			summary.SkippedDuplicate++
			metrics.IngestionRecordsTotal.WithLabelValues("duplicate").Inc()
			return
		}
		logger.GlobalLogger.Errorf("persist failed for %s: %v", listing.ExternalID, err)
		summary.SkippedError++
		metrics.IngestionRecordsTotal.WithLabelValues("error").Inc()
		return
	}

	summary.Accepted++
	metrics.IngestionRecordsTotal.WithLabelValues("accepted").Inc()
}
