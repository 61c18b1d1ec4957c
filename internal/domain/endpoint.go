package domain

import "time"

// Endpoint is the value-copy projection of a stroke or segment endpoint:
// just enough to drive the pivot finder and the endpoint signal tables
// without a back-pointer into the owning Analyzer's layers.
type Endpoint struct {
	Dt    time.Time
	Mark  Mark
	Value float64
}

// Stroke is one endpoint of a 笔 (bi): the minimal alternating zig-zag
// between fractals. StartDt/EndDt carry the backing fractal's window
// bounds (not its apex dt) so the bar-count gate between two strokes
// counts bars between window edges, not apex points. FxHigh/FxLow
// carry the same window's price bounds so the stroke builder's
// non-inclusion check between consecutive strokes needs no re-read of
// the fractals.
type Stroke struct {
	Dt      time.Time
	Mark    Mark
	Value   float64
	StartDt time.Time
	EndDt   time.Time
	FxHigh  float64
	FxLow   float64
}

func (s Stroke) Endpoint() Endpoint {
	return Endpoint{Dt: s.Dt, Mark: s.Mark, Value: s.Value}
}

// Segment is one endpoint of a 线段 (xd): a higher-order zig-zag over
// strokes. Carries only a stroke's Dt/Mark/Value; kept as a distinct type so a segment
// endpoint can never be passed where a stroke endpoint is expected.
type Segment struct {
	Dt    time.Time
	Mark  Mark
	Value float64
}

func (s Segment) Endpoint() Endpoint {
	return Endpoint{Dt: s.Dt, Mark: s.Mark, Value: s.Value}
}
