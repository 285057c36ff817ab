package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pawcompare/backend/internal/domain"
)

func TestGroupSyncRun(t *testing.T) {
	ctx := context.Background()

	t.Run("persists groups with base refs, cleans stale and indexes", func(t *testing.T) {
		products := catalogRepo()
		groups := newFakeGroupRepo()
		groups.deleteCount = 3
		indexer := &fakeIndexer{}

		svc := NewGroupSyncService(products, groups, indexer, nil, GroupSyncConfig{}, quietLogger())
		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}

		// Batch mode keeps only multi-variant groups: Adult Medium and Pouches.
		if report.GroupCount != 2 {
			t.Fatalf("GroupCount = %d, want 2", report.GroupCount)
		}
		if report.Upserted != 2 || report.Failed != 0 {
			t.Errorf("Upserted/Failed = %d/%d, want 2/0", report.Upserted, report.Failed)
		}
		if report.StaleDeleted != 3 {
			t.Errorf("StaleDeleted = %d, want 3", report.StaleDeleted)
		}
		if report.Indexed != 2 {
			t.Errorf("Indexed = %d, want 2", report.Indexed)
		}
		if len(indexer.batches) != 1 {
			t.Fatalf("indexer batches = %d, want 1", len(indexer.batches))
		}

		ref, ok := products.baseRefs["rc-15"]
		if !ok || !ref.isBase || ref.baseProductID != "rc-15" {
			t.Errorf("rc-15 base ref = %+v, want base of itself", ref)
		}
		ref, ok = products.baseRefs["rc-4"]
		if !ok || ref.isBase || ref.baseProductID != "rc-15" {
			t.Errorf("rc-4 base ref = %+v, want non-base pointing at rc-15", ref)
		}
		if _, ok := products.baseRefs["toy"]; ok {
			t.Error("singleton product got a base ref, want none")
		}
	})

	t.Run("counts failed groups and keeps going", func(t *testing.T) {
		products := catalogRepo()
		groups := newFakeGroupRepo()
		groups.upsertErrFor["Whiskas Pouches"] = errors.New("write timeout")

		svc := NewGroupSyncService(products, groups, nil, nil, GroupSyncConfig{}, quietLogger())
		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if report.Upserted != 1 || report.Failed != 1 {
			t.Errorf("Upserted/Failed = %d/%d, want 1/1", report.Upserted, report.Failed)
		}
	})

	t.Run("aborts when products cannot be listed", func(t *testing.T) {
		products := catalogRepo()
		products.listErr = domain.ErrStorageUnavailable

		svc := NewGroupSyncService(products, newFakeGroupRepo(), nil, nil, GroupSyncConfig{}, quietLogger())
		if _, err := svc.Run(ctx); !errors.Is(err, domain.ErrStorageUnavailable) {
			t.Errorf("Run error = %v, want ErrStorageUnavailable", err)
		}
	})

	t.Run("cleanup failure does not fail the run", func(t *testing.T) {
		products := catalogRepo()
		groups := newFakeGroupRepo()
		groups.deleteErr = errors.New("cleanup down")

		svc := NewGroupSyncService(products, groups, nil, nil, GroupSyncConfig{}, quietLogger())
		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if report.StaleDeleted != 0 {
			t.Errorf("StaleDeleted = %d, want 0 when cleanup fails", report.StaleDeleted)
		}
	})

	t.Run("indexing failure does not fail the run", func(t *testing.T) {
		products := catalogRepo()
		indexer := &fakeIndexer{err: domain.ErrSearchUnavailable}

		svc := NewGroupSyncService(products, newFakeGroupRepo(), indexer, nil, GroupSyncConfig{}, quietLogger())
		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if report.Indexed != 0 {
			t.Errorf("Indexed = %d, want 0 when indexing fails", report.Indexed)
		}
	})
}
