package orchestrator

import (
	"math"
	"testing"
	"time"

	"chan-engine/internal/aggregator"
	"chan-engine/internal/analyzer"
	"chan-engine/internal/domain"
)

func zigzagBar(i int) domain.Bar {
	mid := 100 + 10*math.Sin(float64(i)/4.0)
	return domain.Bar{
		Symbol: "ZZ",
		Dt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		Open:   mid - 0.5,
		High:   mid + 1.5,
		Low:    mid - 1.5,
		Close:  mid + 0.5,
		Vol:    1000,
	}
}

func newTestOrchestrator(t *testing.T) *MultiFreqOrchestrator {
	t.Helper()
	seed := zigzagBar(0)
	initial := map[aggregator.Freq][]domain.Bar{
		aggregator.Freq1m: {seed, seed, seed, seed},
	}
	o, err := NewMultiFreqOrchestrator("ZZ", initial, analyzer.BiModeOld, 0, []int{5, 20}, 0)
	if err != nil {
		t.Fatalf("failed to construct orchestrator: %v", err)
	}
	return o
}

func TestOrchestratorUpdateAdvancesSymbolAndPrice(t *testing.T) {
	o := newTestOrchestrator(t)
	for i := 1; i < 40; i++ {
		if err := o.Update(zigzagBar(i)); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}
	if o.Symbol != "ZZ" {
		t.Fatalf("expected symbol ZZ, got %q", o.Symbol)
	}
	last := zigzagBar(39)
	if o.LatestPrice != last.Close {
		t.Fatalf("expected latest price %.4f, got %.4f", last.Close, o.LatestPrice)
	}
	if !o.EndDt.Equal(last.Dt) {
		t.Fatalf("expected end dt %v, got %v", last.Dt, o.EndDt)
	}
}

func TestOrchestratorBuildSnapshotIncludesConfiguredFrequency(t *testing.T) {
	o := newTestOrchestrator(t)
	for i := 1; i < 10; i++ {
		if err := o.Update(zigzagBar(i)); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}
	snap := o.BuildSnapshot()
	if snap.Symbol != "ZZ" {
		t.Fatalf("expected snapshot symbol ZZ, got %q", snap.Symbol)
	}
	fs, ok := snap.Freqs["1m"]
	if !ok {
		t.Fatalf("expected a 1m frequency snapshot, got freqs: %+v", snap.Freqs)
	}
	if fs.Supplemental == nil {
		t.Fatalf("expected supplemental indicators to be populated")
	}
}

func TestOrchestratorUnknownAnalyzerIsAbsent(t *testing.T) {
	o := newTestOrchestrator(t)
	if _, ok := o.Analyzer(aggregator.FreqW); ok {
		t.Fatalf("did not configure a weekly analyzer, expected Analyzer lookup to report absent")
	}
	if _, ok := o.Analyzer(aggregator.Freq1m); !ok {
		t.Fatalf("expected the 1m analyzer to be present")
	}
}
