package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pawcompare/backend/internal/batch"
	"github.com/pawcompare/backend/internal/domain"
	"github.com/pawcompare/backend/internal/pricing"
)

// UnitPriceSyncReport summarizes one unit-price refresh run.
type UnitPriceSyncReport struct {
	RunID     string
	Processed int
	Updated   int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// UnitPriceSyncService recomputes the derived unit price and parsed weight
// for every stored listing and writes them back. Products without a parseable
// weight are skipped, not failed; a failed write is counted and the run
// continues.
type UnitPriceSyncService struct {
	products domain.ProductRepository
	cfg      GroupSyncConfig
	log      *logrus.Logger
}

// NewUnitPriceSyncService creates the refresh job
func NewUnitPriceSyncService(products domain.ProductRepository, cfg GroupSyncConfig, log *logrus.Logger) *UnitPriceSyncService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = batch.DefaultSize
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = batch.DefaultPause
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &UnitPriceSyncService{products: products, cfg: cfg, log: log}
}

// Run executes one refresh over all listings
func (s *UnitPriceSyncService) Run(ctx context.Context) (*UnitPriceSyncReport, error) {
	started := time.Now()
	report := &UnitPriceSyncReport{RunID: uuid.NewString()}
	logger := s.log.WithFields(logrus.Fields{"job": "unit-price-sync", "run_id": report.RunID})

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	report.Processed = len(products)

	var updated, skipped, failed int64
	err = batch.ForEach(ctx, products, s.cfg.BatchSize, s.cfg.BatchPause, func(ctx context.Context, p domain.ProductListing) error {
		weightStr := pricing.ResolveWeightString(p)
		value, ok := pricing.PricePerKilogram(p.Price, weightStr)
		if !ok {
			atomic.AddInt64(&skipped, 1)
			return nil
		}

		weight := pricing.ParseWeight(weightStr)
		if weight != nil && !pricing.KnownUnit(weight.Unit) {
			logger.WithFields(logrus.Fields{
				"product_id": p.ID,
				"unit":       weight.Unit,
			}).Warn("unknown weight unit, raw value carried through")
		}

		unitPrice := &domain.UnitPrice{Value: value, Unit: domain.UnitPriceUnit}
		if err := s.products.UpdateDerivedPricing(ctx, p.ID, weight, unitPrice); err != nil {
			atomic.AddInt64(&failed, 1)
			logger.WithError(err).WithField("product_id", p.ID).Warn("unit price write failed, skipping")
			return nil
		}
		atomic.AddInt64(&updated, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Updated = int(updated)
	report.Skipped = int(skipped)
	report.Failed = int(failed)

	report.Duration = time.Since(started)
	logger.WithFields(logrus.Fields{
		"processed": report.Processed,
		"updated":   report.Updated,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
		"duration":  report.Duration,
	}).Info("unit price sync finished")
	return report, nil
}
