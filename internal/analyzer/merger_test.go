package analyzer

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func bar(minute int, open, high, low, close float64) domain.Bar {
	return domain.Bar{
		Symbol: "TEST",
		Dt:     time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Vol:    100,
	}
}

func TestUpdateMergeNonInclusionInvariant(t *testing.T) {
	a := &Analyzer{Name: "t", BiMode: BiModeOld}
	bars := []domain.Bar{
		bar(0, 10, 11, 9, 10.5),
		bar(1, 10.5, 12, 10, 11.5),
		bar(2, 11.5, 13, 11, 12.5),
		bar(3, 12.5, 14, 12, 13.5),
		bar(4, 13.5, 15, 13, 14.5),
	}
	for _, b := range bars {
		a.rawBars = append(a.rawBars, b)
		a.updateMerge()
	}

	for i := 1; i < len(a.mergedBars); i++ {
		prev, cur := a.mergedBars[i-1], a.mergedBars[i]
		if domain.Includes(prev.High, prev.Low, cur.High, cur.Low) {
			t.Fatalf("merged bars %d and %d remain in an inclusion relationship: %+v %+v", i-1, i, prev, cur)
		}
	}
}

func TestAppendMergeCollapsesIncludedBarUptrend(t *testing.T) {
	a := &Analyzer{Name: "t", BiMode: BiModeOld}
	seed := []domain.Bar{
		bar(0, 10, 11, 9, 10.5),
		bar(1, 10.5, 12, 10, 11.5),
		bar(2, 11.5, 13, 11, 12.5),
		bar(3, 12.5, 14, 12, 13.5),
	}
	for _, b := range seed {
		a.rawBars = append(a.rawBars, b)
		a.updateMerge()
	}
	before := len(a.mergedBars)

	// A bar whose [low,high] sits entirely inside the last merged bar's
	// range must collapse rather than append.
	included := bar(4, 13, 13.5, 12.5, 13)
	a.rawBars = append(a.rawBars, included)
	a.updateMerge()

	if len(a.mergedBars) != before {
		t.Fatalf("expected inclusion to collapse, merged bar count grew from %d to %d", before, len(a.mergedBars))
	}
	last := a.mergedBars[len(a.mergedBars)-1]
	if last.High != 14 {
		t.Fatalf("uptrend merge should keep the higher high, got %.2f", last.High)
	}
}

func TestUpdateMergeBootstrapsFirstFourRawBarsVerbatim(t *testing.T) {
	a := &Analyzer{Name: "t", BiMode: BiModeOld}
	bars := []domain.Bar{
		bar(0, 10, 11, 9, 10.5),
		bar(1, 10.5, 12, 10, 11.5),
		bar(2, 11.5, 13, 11, 12.5),
	}
	for _, b := range bars {
		a.rawBars = append(a.rawBars, b)
		a.updateMerge()
	}
	if len(a.mergedBars) != 3 {
		t.Fatalf("expected each of the first raw bars to be copied verbatim as it arrives, got %d merged bars", len(a.mergedBars))
	}
}
