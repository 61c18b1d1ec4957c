package domain

import "time"

// Fractal is a local extremum over three consecutive merged bars
// (分型). FxHigh/FxLow span the three merged bars, excluding any side
// that forms a price gap with the middle bar.
type Fractal struct {
	Dt      time.Time
	Mark    Mark
	Value   float64
	StartDt time.Time
	EndDt   time.Time
	FxHigh  float64
	FxLow   float64
}

// Endpoint returns the {dt, mark, value} projection shared by strokes,
// segments and pivot scanning. Higher layers reference lower layers only
// through this value copy, never by pointer (see DESIGN.md).
func (f Fractal) Endpoint() Endpoint {
	return Endpoint{Dt: f.Dt, Mark: f.Mark, Value: f.Value}
}
