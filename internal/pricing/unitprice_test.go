package pricing

import (
	"math"
	"testing"

	"github.com/pawcompare/backend/internal/domain"
)

func TestPricePerKilogram(t *testing.T) {
	t.Run("computes EUR per kg", func(t *testing.T) {
		got, ok := PricePerKilogram(59.99, "15kg")
		if !ok {
			t.Fatal("PricePerKilogram(59.99, \"15kg\") not ok, want ok")
		}
		want := 59.99 / 15
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("PricePerKilogram = %v, want %v", got, want)
		}
	})

	t.Run("no rounding is applied", func(t *testing.T) {
		got, ok := PricePerKilogram(10, "3kg")
		if !ok {
			t.Fatal("not ok, want ok")
		}
		if got == 3.33 {
			t.Errorf("PricePerKilogram = %v, want unrounded 10/3", got)
		}
		if math.Abs(got-10.0/3.0) > 1e-12 {
			t.Errorf("PricePerKilogram = %v, want %v", got, 10.0/3.0)
		}
	})

	t.Run("empty weight string fails softly", func(t *testing.T) {
		for _, price := range []float64{0.01, 1, 59.99, 10000} {
			if _, ok := PricePerKilogram(price, ""); ok {
				t.Errorf("PricePerKilogram(%v, \"\") ok, want not ok", price)
			}
		}
	})

	t.Run("rejects non-positive and non-finite prices", func(t *testing.T) {
		for _, price := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
			if _, ok := PricePerKilogram(price, "1kg"); ok {
				t.Errorf("PricePerKilogram(%v, \"1kg\") ok, want not ok", price)
			}
		}
	})

	t.Run("unparseable weight fails softly", func(t *testing.T) {
		if _, ok := PricePerKilogram(9.99, "no digits at all"); ok {
			t.Error("PricePerKilogram with unparseable weight ok, want not ok")
		}
	})
}

func TestAnnotateUnitPrice(t *testing.T) {
	t.Run("attaches unit price when computable", func(t *testing.T) {
		p := domain.ProductListing{ID: "p1", Name: "Adult Medium 15kg", Price: 59.99}
		priced := AnnotateUnitPrice(p)
		if priced.UnitPrice == nil {
			t.Fatal("UnitPrice = nil, want annotation")
		}
		if priced.UnitPrice.Unit != domain.UnitPriceUnit {
			t.Errorf("Unit = %q, want %q", priced.UnitPrice.Unit, domain.UnitPriceUnit)
		}
		if math.Abs(priced.UnitPrice.Value-59.99/15) > 1e-9 {
			t.Errorf("Value = %v, want %v", priced.UnitPrice.Value, 59.99/15)
		}
	})

	t.Run("leaves annotation nil on parse failure", func(t *testing.T) {
		p := domain.ProductListing{ID: "p2", Name: "Cat Scratching Post", Price: 24.99}
		if priced := AnnotateUnitPrice(p); priced.UnitPrice != nil {
			t.Errorf("UnitPrice = %v, want nil", priced.UnitPrice)
		}
	})
}
