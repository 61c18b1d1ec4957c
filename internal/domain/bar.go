package domain

import "time"

// Bar is one OHLCV sample at the base frequency. Dt identifies the bar's
// close time and must be monotonically non-decreasing across a symbol's
// sequence.
type Bar struct {
	Symbol string
	Dt     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Vol    float64
}

// Bullish reports whether the candle closed at or above its open.
func (b Bar) Bullish() bool {
	return b.Close >= b.Open
}

// MergedBar is a bar after inclusion removal (去除包含关系的K线).
type MergedBar struct {
	Dt    time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Includes reports whether a and b are in an inclusion relationship on
// the [low, high] interval, in either direction.
func Includes(aHigh, aLow, bHigh, bLow float64) bool {
	return (aHigh <= bHigh && aLow >= bLow) || (aHigh >= bHigh && aLow <= bLow)
}
