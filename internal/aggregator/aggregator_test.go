package aggregator

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func oneMinBar(t time.Time, open, high, low, close, vol float64) domain.Bar {
	return domain.Bar{Symbol: "ZZ", Dt: t, Open: open, High: high, Low: low, Close: close, Vol: vol}
}

func TestAggregatorClosesFiveMinuteBucket(t *testing.T) {
	g := NewAggregator([]Freq{Freq5m})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var last BucketUpdate
	for i := 0; i < 6; i++ {
		minute := base.Add(time.Duration(i) * time.Minute)
		bar := oneMinBar(minute, 10+float64(i), 11+float64(i), 9, 10.5+float64(i), 100)
		updates := g.Update(bar)
		last = updates[Freq5m]
	}

	if !last.IsNew {
		t.Fatalf("expected the 6th minute (past the 0-4 bucket) to start a new 5m bucket")
	}
}

func TestAggregatorMergesBucketAndKeepsFirstOpen(t *testing.T) {
	g := NewAggregator([]Freq{Freq5m})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := oneMinBar(base, 10, 12, 9, 11, 100)
	updates := g.Update(first)
	if !updates[Freq5m].IsNew {
		t.Fatalf("expected first bar in a bucket to be a new bucket")
	}

	second := oneMinBar(base.Add(time.Minute), 11, 13, 10, 12.5, 150)
	updates = g.Update(second)
	merged := updates[Freq5m]
	if merged.IsNew {
		t.Fatalf("expected the second minute to merge into the same bucket")
	}
	if merged.Bar.Open != 10 {
		t.Fatalf("expected bucket open to stay at the first bar's open, got %.2f", merged.Bar.Open)
	}
	if merged.Bar.Close != 12.5 {
		t.Fatalf("expected bucket close to track the latest bar's close, got %.2f", merged.Bar.Close)
	}
	if merged.Bar.High != 13 {
		t.Fatalf("expected bucket high to be the max across bars, got %.2f", merged.Bar.High)
	}
	if merged.Bar.Vol != 250 {
		t.Fatalf("expected bucket volume to accumulate, got %.2f", merged.Bar.Vol)
	}
}

func TestAggregatorDailyBoundaryOnDateChange(t *testing.T) {
	g := NewAggregator([]Freq{FreqD})
	day1 := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	g.Update(oneMinBar(day1, 10, 11, 9, 10.5, 100))
	updates := g.Update(oneMinBar(day2, 10.5, 11.5, 9.5, 11, 100))
	if !updates[FreqD].IsNew {
		t.Fatalf("expected a date change to close the daily bucket")
	}
}

func TestAggregatorWeeklyBoundaryOnMonday(t *testing.T) {
	g := NewAggregator([]Freq{FreqW})
	sunday := time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC) // Sunday
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)  // Monday

	g.Update(oneMinBar(sunday, 10, 11, 9, 10.5, 100))
	updates := g.Update(oneMinBar(monday, 10.5, 11.5, 9.5, 11, 100))
	if !updates[FreqW].IsNew {
		t.Fatalf("expected Monday to close the weekly bucket")
	}
}
