package analyzer

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func TestScanFractalsFromDetectsBottomFractal(t *testing.T) {
	a := &Analyzer{Name: "t", BiMode: BiModeOld}
	bars := []struct{ o, h, l, c float64 }{
		{12, 13, 11, 12.5},
		{11, 12, 10, 11.5}, // falling
		{10, 11, 9, 10.5},  // lowest
		{11, 12, 10, 11.5},
		{12, 13, 11, 12.5},
	}
	for i, b := range bars {
		a.rawBars = append(a.rawBars, bar(i, b.o, b.h, b.l, b.c))
		a.updateMerge()
	}
	a.updateFractals()

	if len(a.fractals) == 0 {
		t.Fatalf("expected at least one fractal to be detected")
	}
	found := false
	for _, f := range a.fractals {
		if f.Mark == domain.MarkBottom && f.Value == 9 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a bottom fractal at value 9, got %+v", a.fractals)
	}
}

func TestHasGapForNonOverlappingRanges(t *testing.T) {
	a1 := domain.MergedBar{Dt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), High: 10, Low: 8}
	b1 := domain.MergedBar{Dt: time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), High: 20, Low: 18}
	if !hasGap(a1, b1) {
		t.Fatalf("expected a gap between non-overlapping ranges")
	}

	a2 := domain.MergedBar{Dt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), High: 10, Low: 8}
	b2 := domain.MergedBar{Dt: time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), High: 9, Low: 7}
	if hasGap(a2, b2) {
		t.Fatalf("expected no gap between overlapping ranges")
	}
}
