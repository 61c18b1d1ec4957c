package analyzer

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func mergedAt(minute int) domain.MergedBar {
	return domain.MergedBar{
		Dt:   time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		High: 1,
		Low:  0,
	}
}

func fractalAt(minute int, mark domain.Mark, value, fxHigh, fxLow float64) domain.Fractal {
	dt := time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC)
	return domain.Fractal{Dt: dt, Mark: mark, Value: value, StartDt: dt, EndDt: dt, FxHigh: fxHigh, FxLow: fxLow}
}

func TestUpdateStrokesAlternationInvariant(t *testing.T) {
	a := &Analyzer{Name: "t", BiMode: BiModeOld}
	for m := 0; m < 60; m++ {
		a.mergedBars = append(a.mergedBars, mergedAt(m))
	}
	a.fractals = []domain.Fractal{
		fractalAt(0, domain.MarkBottom, 10, 12, 9),
		fractalAt(10, domain.MarkTop, 20, 21, 15),
		fractalAt(20, domain.MarkBottom, 8, 14, 7),
		fractalAt(30, domain.MarkTop, 22, 23, 16),
		fractalAt(40, domain.MarkBottom, 6, 13, 5),
		fractalAt(50, domain.MarkTop, 25, 26, 18),
	}

	if err := a.updateStrokes(); err != nil {
		t.Fatalf("updateStrokes returned error: %v", err)
	}
	if len(a.strokes) != 6 {
		t.Fatalf("expected all 6 fractals to extend into strokes, got %d: %+v", len(a.strokes), a.strokes)
	}
	for i := 1; i < len(a.strokes); i++ {
		if a.strokes[i].Mark == a.strokes[i-1].Mark {
			t.Fatalf("strokes %d and %d share polarity %v, alternation invariant violated", i-1, i, a.strokes[i].Mark)
		}
	}
}

func TestExtendStrokeRejectsNonMonotonicFxWindow(t *testing.T) {
	a := &Analyzer{Name: "t", BiMode: BiModeOld}
	for m := 0; m < 20; m++ {
		a.mergedBars = append(a.mergedBars, mergedAt(m))
	}
	a.strokes = []domain.Stroke{
		{Dt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Mark: domain.MarkBottom, Value: 10, FxHigh: 12, FxLow: 9},
		{Dt: time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC), Mark: domain.MarkTop, Value: 20, FxHigh: 21, FxLow: 15},
	}

	// A candidate D fractal whose window does NOT sit strictly below the
	// prior G's window (FxLow rises instead of falling) must be rejected.
	candidate := fractalAt(10, domain.MarkBottom, 18, 22, 16)
	before := len(a.strokes)
	a.extendStroke(candidate)
	if len(a.strokes) != before {
		t.Fatalf("expected non-monotonic fx window to be rejected, strokes grew from %d to %d", before, len(a.strokes))
	}
}
