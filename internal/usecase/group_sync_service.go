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

// GroupSyncConfig tunes how the group rebuild writes to storage.
type GroupSyncConfig struct {
	BatchSize  int
	BatchPause time.Duration
}

// GroupSyncReport summarizes one rebuild run.
type GroupSyncReport struct {
	RunID        string
	ProductCount int
	GroupCount   int
	Upserted     int
	Failed       int
	StaleDeleted int64
	Indexed      int
	Duration     time.Duration
}

// GroupSyncService rebuilds the persisted product groups from scratch: it
// loads every listing, regroups them in strict batch mode, upserts the
// resulting group documents, stamps the base-product back-references on the
// member products, deletes groups the run did not touch and finally pushes
// the fresh set into the search index.
type GroupSyncService struct {
	products domain.ProductRepository
	groups   domain.GroupRepository
	indexer  domain.GroupIndexer
	grouper  *pricing.Grouper
	cfg      GroupSyncConfig
	log      *logrus.Logger
}

// NewGroupSyncService creates the rebuild job. The indexer may be nil when
// search is disabled.
func NewGroupSyncService(products domain.ProductRepository, groups domain.GroupRepository, indexer domain.GroupIndexer, grouper *pricing.Grouper, cfg GroupSyncConfig, log *logrus.Logger) *GroupSyncService {
	if grouper == nil {
		grouper = pricing.NewGrouper(nil)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = batch.DefaultSize
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = batch.DefaultPause
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GroupSyncService{
		products: products,
		groups:   groups,
		indexer:  indexer,
		grouper:  grouper,
		cfg:      cfg,
		log:      log,
	}
}

// Run executes one full rebuild. A group that fails to persist is logged and
// counted, not retried; the run keeps going. Only a dead store or a cancelled
// context aborts the run.
func (s *GroupSyncService) Run(ctx context.Context) (*GroupSyncReport, error) {
	started := time.Now()
	report := &GroupSyncReport{RunID: uuid.NewString()}
	logger := s.log.WithFields(logrus.Fields{"job": "group-sync", "run_id": report.RunID})

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	report.ProductCount = len(products)

	groups := s.grouper.Group(products, pricing.BatchPersist)
	report.GroupCount = len(groups)
	logger.WithFields(logrus.Fields{
		"products": len(products),
		"groups":   len(groups),
	}).Info("rebuilding product groups")

	var upserted, failed int64
	err = batch.ForEach(ctx, groups, s.cfg.BatchSize, s.cfg.BatchPause, func(ctx context.Context, group domain.ProductGroup) error {
		if err := s.persistGroup(ctx, group); err != nil {
			atomic.AddInt64(&failed, 1)
			logger.WithError(err).WithFields(logrus.Fields{
				"brand": group.Brand,
				"group": group.BaseProductName,
			}).Warn("group persist failed, skipping")
			return nil
		}
		atomic.AddInt64(&upserted, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Upserted = int(upserted)
	report.Failed = int(failed)

	// Every surviving group carries a LastUpdated from this run, so anything
	// older is a leftover of a previous rebuild.
	deleted, err := s.groups.DeleteUpdatedBefore(ctx, started)
	if err != nil {
		logger.WithError(err).Warn("stale group cleanup failed")
	} else {
		report.StaleDeleted = deleted
	}

	if s.indexer != nil && len(groups) > 0 {
		if err := s.indexer.IndexGroups(ctx, groups); err != nil {
			logger.WithError(err).Warn("search indexing failed")
		} else {
			report.Indexed = len(groups)
		}
	}

	report.Duration = time.Since(started)
	logger.WithFields(logrus.Fields{
		"upserted": report.Upserted,
		"failed":   report.Failed,
		"deleted":  report.StaleDeleted,
		"indexed":  report.Indexed,
		"duration": report.Duration,
	}).Info("group sync finished")
	return report, nil
}

// persistGroup upserts the group document and writes the base-product
// back-references onto every member. The best-value variant is the base;
// groups without one fall back to the top-ranked variant.
func (s *GroupSyncService) persistGroup(ctx context.Context, group domain.ProductGroup) error {
	if err := s.groups.Upsert(ctx, group); err != nil {
		return fmt.Errorf("upserting group %q: %w", group.BaseProductName, err)
	}

	baseID := group.BestValueID
	if baseID == "" && len(group.Variants) > 0 {
		baseID = group.Variants[0].ProductID
	}
	for _, v := range group.Variants {
		if err := s.products.SetBaseProductRef(ctx, v.ProductID, baseID, v.ProductID == baseID); err != nil {
			return fmt.Errorf("stamping base ref on %q: %w", v.ProductID, err)
		}
	}
	return nil
}
