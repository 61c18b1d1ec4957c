package analyzer

import "chan-engine/internal/domain"

// updateMerge maintains mergedBars against rawBars per spec §4.B,
// grounded on the source's `_update_kline_new`. The first four raw bars
// are copied verbatim to establish an initial direction; afterwards the
// tentative tail (last two merged bars) is dropped and re-merged from
// the earliest raw bar past the last surviving merged bar.
func (a *Analyzer) updateMerge() {
	if len(a.mergedBars) < 4 {
		for i := len(a.mergedBars); i < len(a.rawBars) && i < 4; i++ {
			a.mergedBars = append(a.mergedBars, mergedFromRaw(a.rawBars[i]))
		}
		if len(a.mergedBars) < 4 {
			return
		}
	}

	if len(a.mergedBars) > 2 {
		a.mergedBars = a.mergedBars[:len(a.mergedBars)-2]
	}

	lastDt := a.mergedBars[len(a.mergedBars)-1].Dt
	start := 0
	for i, b := range a.rawBars {
		if b.Dt.After(lastDt) {
			start = i
			break
		}
		start = i + 1
	}

	for _, raw := range a.rawBars[start:] {
		a.appendMerge(raw)
	}
}

func mergedFromRaw(b domain.Bar) domain.MergedBar {
	return domain.MergedBar{Dt: b.Dt, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
}

func (a *Analyzer) appendMerge(raw domain.Bar) {
	c := mergedFromRaw(raw)
	n := len(a.mergedBars)
	last := a.mergedBars[n-1]

	if !domain.Includes(last.High, last.Low, c.High, c.Low) {
		a.mergedBars = append(a.mergedBars, c)
		return
	}

	direction := "down"
	if n >= 2 && a.mergedBars[n-2].High < last.High {
		direction = "up"
	}

	var high, low float64
	if direction == "up" {
		high = maxF(last.High, c.High)
		low = maxF(last.Low, c.Low)
	} else {
		high = minF(last.High, c.High)
		low = minF(last.Low, c.Low)
	}

	var open, close float64
	if raw.Open >= raw.Close {
		open, close = high, low
	} else {
		open, close = low, high
	}

	a.mergedBars[n-1] = domain.MergedBar{Dt: raw.Dt, Open: open, High: high, Low: low, Close: close}
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
