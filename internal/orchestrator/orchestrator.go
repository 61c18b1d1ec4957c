package orchestrator

import (
	"time"

	"chan-engine/internal/aggregator"
	"chan-engine/internal/analyzer"
	"chan-engine/internal/domain"
)

// freqOrder is the classic seven-frequency ladder the source's Signals
// class iterates, coarsest first.
var freqOrder = []aggregator.Freq{
	aggregator.FreqW, aggregator.FreqD, aggregator.Freq60m, aggregator.Freq30m,
	aggregator.Freq15m, aggregator.Freq5m, aggregator.Freq1m,
}

// MultiFreqOrchestrator owns one Analyzer per frequency, fed by a
// single Aggregator from 1-minute bars, and merges each frequency's
// signal tables into one flat pair of maps, grounded on the source's
// Signals class.
type MultiFreqOrchestrator struct {
	Symbol string

	agg       *aggregator.Aggregator
	analyzers map[aggregator.Freq]*analyzer.Analyzer

	EndDt       time.Time
	LatestPrice float64
}

// NewMultiFreqOrchestrator builds one Analyzer per supplied frequency
// from its initial bar history (>= 4 bars each) and wires a shared
// Aggregator for subsequent 1-minute updates.
func NewMultiFreqOrchestrator(symbol string, initial map[aggregator.Freq][]domain.Bar, biMode analyzer.BiMode, maxRawLen int, maParams []int, minBiK int) (*MultiFreqOrchestrator, error) {
	o := &MultiFreqOrchestrator{
		Symbol:    symbol,
		analyzers: make(map[aggregator.Freq]*analyzer.Analyzer, len(freqOrder)),
	}

	var coarserFreqs []aggregator.Freq
	for _, f := range freqOrder {
		bars, ok := initial[f]
		if !ok {
			continue
		}
		a, err := analyzer.NewAnalyzer(bars, string(f), biMode, maxRawLen, maParams, minBiK, false)
		if err != nil {
			return nil, err
		}
		o.analyzers[f] = a
		if f != aggregator.Freq1m {
			coarserFreqs = append(coarserFreqs, f)
		}
	}
	o.agg = aggregator.NewAggregator(coarserFreqs)
	return o, nil
}

// Update feeds one 1-minute bar to the 1m Analyzer directly, and to the
// Aggregator for every coarser frequency, advancing each frequency's
// Analyzer only when its own bucket bar changes.
func (o *MultiFreqOrchestrator) Update(bar domain.Bar) error {
	if a, ok := o.analyzers[aggregator.Freq1m]; ok {
		if err := a.Update(bar); err != nil {
			return err
		}
	}

	for f, u := range o.agg.Update(bar) {
		a, ok := o.analyzers[f]
		if !ok {
			continue
		}
		if err := a.Update(u.Bar); err != nil {
			return err
		}
	}

	o.Symbol = bar.Symbol
	o.EndDt = bar.Dt
	o.LatestPrice = bar.Close
	return nil
}

// Signals merges every configured frequency's fractal/stroke/segment
// signal tables into one flat pair of maps, mirroring the source's
// `Signals.signals()`. Segment signals are skipped for the weekly
// frequency, matching the source's own frequency gating.
func (o *MultiFreqOrchestrator) Signals() (map[string]bool, map[string]float64) {
	boolSig := make(map[string]bool)
	valSig := make(map[string]float64)

	for _, f := range freqOrder {
		a, ok := o.analyzers[f]
		if !ok {
			continue
		}
		mergeSignalSet(boolSig, valSig, a.FractalSignals())
		mergeSignalSet(boolSig, valSig, a.StrokeSignals())
		if f != aggregator.FreqW {
			mergeSignalSet(boolSig, valSig, a.SegmentSignals())
		}
	}
	return boolSig, valSig
}

// BuildSnapshot renders the current published state across every
// configured frequency: structural layer copies, pivots, merged signal
// tables and supplemental (non-Chan) indicators, the payload the
// delivery and persistence layers both consume.
func (o *MultiFreqOrchestrator) BuildSnapshot() domain.Snapshot {
	freqs := make(map[string]domain.FreqSnapshot, len(o.analyzers))
	for f, a := range o.analyzers {
		biPivots, _ := a.Pivots("bi")
		xdPivots, _ := a.Pivots("xd")

		boolSig := make(map[string]bool)
		valSig := make(map[string]float64)
		mergeSignalSet(boolSig, valSig, a.FractalSignals())
		mergeSignalSet(boolSig, valSig, a.StrokeSignals())
		mergeSignalSet(boolSig, valSig, a.SegmentSignals())

		supplemental := a.ComputeSupplemental()

		freqs[string(f)] = domain.FreqSnapshot{
			Freq:         string(f),
			Fractals:     a.Fractals(),
			Strokes:      a.Strokes(),
			Segments:     a.Segments(),
			BiPivots:     biPivots,
			XdPivots:     xdPivots,
			BoolSignals:  boolSig,
			ValSignals:   valSig,
			Supplemental: &supplemental,
		}
	}

	return domain.Snapshot{Symbol: o.Symbol, UpdatedAt: o.EndDt, Freqs: freqs}
}

// Analyzer exposes one frequency's Analyzer, e.g. for direct pivot or
// divergence queries from the delivery layer.
func (o *MultiFreqOrchestrator) Analyzer(f aggregator.Freq) (*analyzer.Analyzer, bool) {
	a, ok := o.analyzers[f]
	return a, ok
}

func mergeSignalSet(boolSig map[string]bool, valSig map[string]float64, sig analyzer.SignalSet) {
	for k, v := range sig.Bool {
		boolSig[k] = v
	}
	for k, v := range sig.Val {
		valSig[k] = v
	}
}
