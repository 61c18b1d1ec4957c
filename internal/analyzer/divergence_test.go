package analyzer

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func macdRowAt(minute int, hist float64) domain.MACDRow {
	return domain.MACDRow{Dt: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC), Hist: hist}
}

func TestIsBeiChiMatchesMacdPowerComparison(t *testing.T) {
	a := &Analyzer{Name: "t"}
	// zs2 (earlier move): minutes 0-4, |hist| sums to 4.5.
	for m := 0; m < 5; m++ {
		a.macdTable = append(a.macdTable, macdRowAt(m, 0.9))
	}
	// zs1 (later move): minutes 20-24, |hist| sums to 3.0.
	for m := 20; m < 25; m++ {
		a.macdTable = append(a.macdTable, macdRowAt(m, 0.6))
	}

	zs2 := Span{StartDt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDt: time.Date(2024, 1, 1, 0, 4, 0, 0, time.UTC)}
	zs1 := Span{StartDt: time.Date(2024, 1, 1, 0, 20, 0, 0, time.UTC), EndDt: time.Date(2024, 1, 1, 0, 24, 0, 0, time.UTC)}

	holds, err := a.IsBeiChi(zs1, zs2, "bi", 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holds {
		t.Fatalf("expected divergence to hold (3.0 < 4.5*0.9=4.05)")
	}

	power2 := a.CalculateMacdPower(zs2.StartDt, zs2.EndDt, "bi", "")
	if power2 != 4.5 {
		t.Fatalf("expected macd power 4.5 for zs2, got %.4f", power2)
	}
}

func TestIsBeiChiRejectsOutOfOrderSpans(t *testing.T) {
	a := &Analyzer{Name: "t"}
	zs2 := Span{StartDt: time.Date(2024, 1, 1, 0, 20, 0, 0, time.UTC), EndDt: time.Date(2024, 1, 1, 0, 24, 0, 0, time.UTC)}
	zs1 := Span{StartDt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDt: time.Date(2024, 1, 1, 0, 4, 0, 0, time.UTC)}
	if _, err := a.IsBeiChi(zs1, zs2, "bi", 0.9); err == nil {
		t.Fatalf("expected a precondition violation when zs1 does not postdate zs2")
	}
}

func TestCheckJingDetectsBigWellUp(t *testing.T) {
	moves := [5]WellMove{
		{High: 10, Power: 5},
		{},
		{High: 14, Power: 3},
		{},
		{High: 18, Power: 1},
	}
	if got := CheckJing(moves, true, true); got != "big" {
		t.Fatalf("expected big well classification, got %q", got)
	}
}

func TestCheckJingRequiresValidPivot(t *testing.T) {
	moves := [5]WellMove{
		{High: 10, Power: 5},
		{},
		{High: 14, Power: 3},
		{},
		{High: 18, Power: 1},
	}
	if got := CheckJing(moves, false, true); got != "" {
		t.Fatalf("expected no well classification without a valid pivot, got %q", got)
	}
}
