package domain

import "time"

// SupplementalFeatures carries the non-Chan indicators the teacher
// repository already computed (RSI, ATR, Bollinger Bands, VWAP,
// momentum/volume divergence, nearest pivot support) alongside the
// structural layers, exactly the way the teacher's MarketFeatures
// accompanied a CoinData row. See internal/analyzer/enrichment.go.
type SupplementalFeatures struct {
	RSI                float64
	ATR                float64
	BollingerUpper     float64
	BollingerMiddle    float64
	BollingerLower     float64
	IsAboveUpperBand   bool
	VWAP               float64
	OverExtVWAP        float64
	NearestSupport     *float64
	DistToSupportATR   *float64
	IsBreakdown        bool
	IsRetest           bool
	HasRsiDivergence   bool
	HasVolumeDivergence bool
	MomentumSlope      float64
	RsiSlope           float64
	VolumeDeclineRatio float64
	IsLosingMomentum   bool
}

// FreqSnapshot is one frequency's worth of published analyzer state:
// a copy of each structural layer plus its signal dictionary.
type FreqSnapshot struct {
	Freq         string
	Fractals     []Fractal
	Strokes      []Stroke
	Segments     []Segment
	BiPivots     []Pivot
	XdPivots     []Pivot
	BoolSignals  map[string]bool
	ValSignals   map[string]float64
	Supplemental *SupplementalFeatures
}

// Snapshot is the full multi-frequency published state for one symbol,
// the payload the websocket/http delivery layer and the persistence
// layer both consume.
type Snapshot struct {
	Symbol    string
	UpdatedAt time.Time
	Freqs     map[string]FreqSnapshot
}

// PivotEvent is a materialized third-buy/third-sell occurrence,
// persisted for later inspection and used to drive FCM notifications.
// No well-pattern events are produced.
type PivotEvent struct {
	Symbol     string
	Freq       string
	Kind       string
	Dt         time.Time
	Value      float64
	DetectedAt time.Time
}

// SnapshotRepository stores the latest published snapshot per symbol.
type SnapshotRepository interface {
	SaveSnapshot(symbol string, snap Snapshot)
	GetSnapshot(symbol string) (Snapshot, bool)
	GetAllSnapshots() []Snapshot
}

// PivotEventRepository stores materialized pattern events.
type PivotEventRepository interface {
	SaveEvents(events []PivotEvent) error
	GetEvents(symbol string) ([]PivotEvent, error)
}
