package ledger

import (
	"testing"
	"time"

	"pricewatch/internal/domain"
)

func TestAppend_FirstEntry(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history, agg := Append(nil, 19.99, at)

	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}
	if history[0].Price != 19.99 || !history[0].At.Equal(at) {
		t.Fatalf("unexpected entry %+v", history[0])
	}
	if agg.Lowest != 19.99 || agg.Highest != 19.99 || agg.Average != 19.99 {
		t.Fatalf("single entry must collapse aggregates, got %+v", agg)
	}
}

func TestAppend_TracksTrueExtremes(t *testing.T) {
	var history []domain.PricePoint
	var agg Aggregates
	prices := []float64{10, 7.5, 12, 7.5, 30, 3}

	lowest := prices[0]
	highest := prices[0]
	for _, p := range prices {
		history, agg = Append(history, p, time.Now())
		if p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
		if agg.Lowest != lowest {
			t.Fatalf("after %v: lowest = %v, want %v", p, agg.Lowest, lowest)
		}
		if agg.Highest != highest {
			t.Fatalf("after %v: highest = %v, want %v", p, agg.Highest, highest)
		}
	}
	if len(history) != len(prices) {
		t.Fatalf("expected %d entries, got %d", len(prices), len(history))
	}
}

func TestAppend_AverageIsFullRecompute(t *testing.T) {
	history, agg := Append(nil, 10.00, time.Now())
	history, agg = Append(history, 7.50, time.Now())

	if agg.Average != 8.75 {
		t.Fatalf("average = %v, want 8.75", agg.Average)
	}

	// A third point must be averaged over the whole set, not drifted from
	// the previous average.
	_, agg = Append(history, 0.10, time.Now())
	if agg.Average != 5.87 { // (10 + 7.5 + 0.1) / 3 rounded to cents
		t.Fatalf("average = %v, want 5.87", agg.Average)
	}
}

func TestAppend_DoesNotMutateInput(t *testing.T) {
	original := []domain.PricePoint{{Price: 10}, {Price: 20}}
	merged, _ := Append(original, 30, time.Now())

	if len(original) != 2 {
		t.Fatalf("input history length changed to %d", len(original))
	}
	if len(merged) != 3 || merged[2].Price != 30 {
		t.Fatalf("unexpected merged history %+v", merged)
	}
	merged[0].Price = 999
	if original[0].Price != 10 {
		t.Fatalf("mutating the result leaked into the input")
	}
}

func TestDerive_Empty(t *testing.T) {
	agg := Derive(nil)
	if agg.Lowest != 0 || agg.Highest != 0 || agg.Average != 0 {
		t.Fatalf("expected zero aggregates for empty history, got %+v", agg)
	}
}
