package aggregator

import (
	"time"

	"chan-engine/internal/domain"
)

// Freq identifies one of the coarser frequencies the Aggregator
// synthesizes from 1-minute bars.
type Freq string

const (
	Freq1m  Freq = "1m"
	Freq5m  Freq = "5m"
	Freq15m Freq = "15m"
	Freq30m Freq = "30m"
	Freq60m Freq = "60m"
	FreqD   Freq = "D"
	FreqW   Freq = "W"
)

// BucketUpdate is the result of feeding one 1-minute bar into a single
// frequency's bucket: the resulting bar, and whether it just closed a
// new bucket (IsNew) or is an in-progress replacement of the current one.
type BucketUpdate struct {
	Bar   domain.Bar
	IsNew bool
}

// Aggregator accepts a 1-minute bar and emits, per configured coarser
// frequency, either a new bucket bar or an in-progress replacement,
// grounded on the source's KlineGenerator. It performs no structural
// analysis itself; callers feed each frequency's output bar to its own
// Analyzer (see MultiFreqOrchestrator).
type Aggregator struct {
	Freqs []Freq

	buckets map[Freq]domain.Bar
	anchors map[Freq]time.Time
}

// NewAggregator builds an Aggregator for the given set of frequencies.
func NewAggregator(freqs []Freq) *Aggregator {
	return &Aggregator{
		Freqs:   append([]Freq{}, freqs...),
		buckets: make(map[Freq]domain.Bar),
		anchors: make(map[Freq]time.Time),
	}
}

// Update feeds one 1-minute bar and returns a BucketUpdate for each
// configured frequency.
func (g *Aggregator) Update(bar domain.Bar) map[Freq]BucketUpdate {
	out := make(map[Freq]BucketUpdate, len(g.Freqs))
	for _, f := range g.Freqs {
		out[f] = g.updateFreq(f, bar)
	}
	return out
}

func (g *Aggregator) updateFreq(f Freq, bar domain.Bar) BucketUpdate {
	anchor, ok := g.anchors[f]
	if !ok || bucketBoundaryCrossed(f, anchor, bar.Dt) {
		g.buckets[f] = bar
		g.anchors[f] = bar.Dt
		return BucketUpdate{Bar: bar, IsNew: true}
	}

	last := g.buckets[f]
	merged := domain.Bar{
		Symbol: last.Symbol,
		Dt:     bar.Dt,
		Open:   last.Open,
		Close:  bar.Close,
		High:   maxF(last.High, bar.High),
		Low:    minF(last.Low, bar.Low),
		Vol:    last.Vol + bar.Vol,
	}
	g.buckets[f] = merged
	return BucketUpdate{Bar: merged, IsNew: false}
}

// bucketBoundaryCrossed reports whether dt falls in a different bucket
// for f than the one anchored by anchor (the dt of the current
// bucket's opening bar, which never changes as later bars merge into
// it). Minute-based frequencies close on a period-index change (so a
// bucket spans exactly n minutes of wall-clock time regardless of
// which bar happened to open it); daily closes on a date change;
// weekly closes when dt is a Monday on a different date from the
// anchor's.
func bucketBoundaryCrossed(f Freq, anchor, dt time.Time) bool {
	switch f {
	case Freq5m, Freq15m, Freq30m, Freq60m:
		n := int64(freqMinutes(f))
		return dt.Unix()/60/n != anchor.Unix()/60/n
	case FreqD:
		return dt.Year() != anchor.Year() || dt.YearDay() != anchor.YearDay()
	case FreqW:
		return dt.Weekday() == time.Monday && (dt.Year() != anchor.Year() || dt.YearDay() != anchor.YearDay())
	default:
		return false
	}
}

func freqMinutes(f Freq) int {
	switch f {
	case Freq5m:
		return 5
	case Freq15m:
		return 15
	case Freq30m:
		return 30
	case Freq60m:
		return 60
	default:
		return 1
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
