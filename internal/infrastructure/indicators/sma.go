package indicators

// CalculateSMA computes the Simple Moving Average. Matches the
// zero-fill-until-warm convention used across this package's other
// indicators (see CalculateEMA, CalculateATR): entries before the
// window has `period` samples are left at zero rather than NaN.
func CalculateSMA(data []float64, period int) []float64 {
	sma := make([]float64, len(data))
	if len(data) < period || period <= 0 {
		return sma
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	sma[period-1] = sum / float64(period)

	for i := period; i < len(data); i++ {
		sum += data[i] - data[i-period]
		sma[i] = sum / float64(period)
	}

	return sma
}
