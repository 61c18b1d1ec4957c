package indicators

// MACD holds the three classic series aligned to the input closes:
// Diff (fast EMA - slow EMA), Dea (the signal line, EMA of Diff) and
// Hist (2*(Diff-Dea), what the divergence engine sums).
type MACD struct {
	Diff []float64
	Dea  []float64
	Hist []float64
}

// CalculateMACD computes MACD(fast, slow, signal) by composing this
// package's own CalculateEMA, the same way the teacher builds every
// other indicator from a single moving-average primitive.
func CalculateMACD(closes []float64, fast, slow, signal int) MACD {
	n := len(closes)
	emaFast := CalculateEMA(closes, fast)
	emaSlow := CalculateEMA(closes, slow)

	diff := make([]float64, n)
	warm := slow - 1
	if n < warm {
		return MACD{Diff: diff, Dea: make([]float64, n), Hist: make([]float64, n)}
	}
	for i := warm; i < n; i++ {
		diff[i] = emaFast[i] - emaSlow[i]
	}

	dea := CalculateEMA(diff[warm:], signal)
	deaFull := make([]float64, n)
	copy(deaFull[warm:], dea)

	hist := make([]float64, n)
	for i := warm + signal; i < n; i++ {
		hist[i] = 2 * (diff[i] - deaFull[i])
	}

	return MACD{Diff: diff, Dea: deaFull, Hist: hist}
}
