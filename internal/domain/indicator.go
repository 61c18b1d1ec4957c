package domain

import "time"

// MARow is one row of the moving-average table, one SMA value per
// configured period, aligned to a raw bar by Dt.
type MARow struct {
	Dt     time.Time
	Values map[int]float64 // period -> SMA(period)
}

// MACDRow is one row of the MACD table aligned to a raw bar by Dt.
// Diff is the fast-slow EMA difference, Dea is its signal-line EMA,
// Hist is 2*(Diff-Dea) (the histogram the divergence engine sums).
type MACDRow struct {
	Dt   time.Time
	Diff float64
	Dea  float64
	Hist float64
}
