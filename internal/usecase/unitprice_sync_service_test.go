package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/pawcompare/backend/internal/domain"
)

func TestUnitPriceSyncRun(t *testing.T) {
	ctx := context.Background()

	t.Run("writes unit prices for parseable products and skips the rest", func(t *testing.T) {
		products := catalogRepo()
		svc := NewUnitPriceSyncService(products, GroupSyncConfig{}, quietLogger())

		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if report.Processed != 6 {
			t.Errorf("Processed = %d, want 6", report.Processed)
		}
		if report.Updated != 5 || report.Skipped != 1 || report.Failed != 0 {
			t.Errorf("Updated/Skipped/Failed = %d/%d/%d, want 5/1/0",
				report.Updated, report.Skipped, report.Failed)
		}

		up := products.derivedPrices["rc-15"]
		if up == nil {
			t.Fatal("rc-15 has no derived unit price")
		}
		if math.Abs(up.Value-59.99/15) > 1e-9 {
			t.Errorf("rc-15 unit price = %v, want %v", up.Value, 59.99/15)
		}
		if up.Unit != domain.UnitPriceUnit {
			t.Errorf("unit = %q, want %q", up.Unit, domain.UnitPriceUnit)
		}

		weight := products.derivedWeights["rc-15"]
		if weight == nil || weight.Value != 15 || weight.Unit != domain.UnitKilogram {
			t.Errorf("rc-15 weight = %+v, want 15kg", weight)
		}

		if _, ok := products.derivedPrices["toy"]; ok {
			t.Error("weightless product got a unit price, want skipped")
		}
	})

	t.Run("counts failed writes without stopping", func(t *testing.T) {
		products := catalogRepo()
		products.writeErrFor["rc-4"] = errors.New("write timeout")

		svc := NewUnitPriceSyncService(products, GroupSyncConfig{}, quietLogger())
		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if report.Updated != 4 || report.Failed != 1 {
			t.Errorf("Updated/Failed = %d/%d, want 4/1", report.Updated, report.Failed)
		}
	})

	t.Run("aborts when products cannot be listed", func(t *testing.T) {
		products := catalogRepo()
		products.listErr = domain.ErrStorageUnavailable

		svc := NewUnitPriceSyncService(products, GroupSyncConfig{}, quietLogger())
		if _, err := svc.Run(ctx); !errors.Is(err, domain.ErrStorageUnavailable) {
			t.Errorf("Run error = %v, want ErrStorageUnavailable", err)
		}
	})
}
