package analyzer

import (
	"math"
	"reflect"
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func zigzagBars(n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	for i := 0; i < n; i++ {
		mid := 100 + 10*math.Sin(float64(i)/4.0)
		high := mid + 1.5
		low := mid - 1.5
		open := mid - 0.5
		close := mid + 0.5
		if i%2 == 0 {
			open, close = close, open
		}
		bars[i] = domain.Bar{
			Symbol: "ZZ",
			Dt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Vol:    1000,
		}
	}
	return bars
}

func TestNewAnalyzerBulkMatchesIncrementalConstruction(t *testing.T) {
	bars := zigzagBars(80)

	bulk, err := NewAnalyzer(bars, "ZZ", BiModeOld, 0, []int{5, 20}, 0, false)
	if err != nil {
		t.Fatalf("bulk construction failed: %v", err)
	}

	incremental, err := NewAnalyzer(bars[:4], "ZZ", BiModeOld, 0, []int{5, 20}, 0, false)
	if err != nil {
		t.Fatalf("incremental seed construction failed: %v", err)
	}
	for _, b := range bars[4:] {
		if err := incremental.Update(b); err != nil {
			t.Fatalf("incremental update failed: %v", err)
		}
	}

	if !reflect.DeepEqual(bulk.MergedBars(), incremental.MergedBars()) {
		t.Fatalf("merged bars diverge between bulk and incremental construction")
	}
	if !reflect.DeepEqual(bulk.Fractals(), incremental.Fractals()) {
		t.Fatalf("fractals diverge between bulk and incremental construction")
	}
	if !reflect.DeepEqual(bulk.Strokes(), incremental.Strokes()) {
		t.Fatalf("strokes diverge between bulk and incremental construction")
	}
	if !reflect.DeepEqual(bulk.Segments(), incremental.Segments()) {
		t.Fatalf("segments diverge between bulk and incremental construction")
	}
}

func TestUpdateMaintainsSettledRowInvariant(t *testing.T) {
	a, err := NewAnalyzer(zigzagBars(10), "ZZ", BiModeOld, 0, []int{5}, 0, false)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	n := len(a.rawBars)
	if !a.maTable[len(a.maTable)-2].Dt.Equal(a.rawBars[n-2].Dt) {
		t.Fatalf("ma[-2].dt does not match raw_bars[-2].dt")
	}
	if !a.macdTable[len(a.macdTable)-2].Dt.Equal(a.rawBars[n-2].Dt) {
		t.Fatalf("macd[-2].dt does not match raw_bars[-2].dt")
	}
}

func TestUpdateRejectsOutOfOrderBar(t *testing.T) {
	a, err := NewAnalyzer(zigzagBars(10), "ZZ", BiModeOld, 0, []int{5}, 0, false)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	stale := zigzagBars(10)[3]
	if err := a.Update(stale); err == nil {
		t.Fatalf("expected a precondition violation for an out-of-order bar")
	}
}

func TestTrimRespectsMaxRawLen(t *testing.T) {
	a, err := NewAnalyzer(zigzagBars(4), "ZZ", BiModeOld, 20, []int{5}, 0, false)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	for _, b := range zigzagBars(200)[4:] {
		if err := a.Update(b); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}
	if len(a.rawBars) > 20 {
		t.Fatalf("expected raw bars trimmed to at most 20, got %d", len(a.rawBars))
	}
	for i := 1; i < len(a.mergedBars); i++ {
		if !a.mergedBars[i].Dt.After(a.mergedBars[i-1].Dt) {
			t.Fatalf("merged bars out of order after trim at index %d", i)
		}
	}
}

func TestUpdateIsIdempotentForSameBarReplay(t *testing.T) {
	bars := zigzagBars(30)
	a, err := NewAnalyzer(bars, "ZZ", BiModeOld, 0, []int{5}, 0, false)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	before := a.Fractals()

	// Replaying the exact same last bar (same dt, same open) must be
	// treated as an in-progress revision, not a new bar.
	last := bars[len(bars)-1]
	if err := a.Update(last); err != nil {
		t.Fatalf("idempotent replay failed: %v", err)
	}
	after := a.Fractals()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("replaying an unchanged last bar altered the fractal layer")
	}
}
