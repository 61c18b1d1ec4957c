package analyzer

import "chan-engine/internal/domain"

// gapEpsilon is the default gap tolerance used by hasGap, per spec §4.C.
const gapEpsilon = 0.002

// hasGap reports whether merged bars a and b (with b.dt > a.dt) leave a
// price gap between them, per the source's `cal_fx_gap`-style test.
func hasGap(a, b domain.MergedBar) bool {
	if !b.Dt.After(a.Dt) {
		return false
	}
	return a.High < b.Low*(1-gapEpsilon) || b.High < a.Low*(1-gapEpsilon)
}

// updateFractals maintains fractals against mergedBars per spec §4.C:
// drop the last fractal, then rescan merged bars from the last kept
// fractal's dt onward.
func (a *Analyzer) updateFractals() {
	if len(a.fractals) > 0 {
		a.fractals = a.fractals[:len(a.fractals)-1]
	}

	hasFrom := false
	if len(a.fractals) > 0 {
		last := a.fractals[len(a.fractals)-1]
		for i, mb := range a.mergedBars {
			if mb.Dt.Equal(last.Dt) {
				hasFrom = true
				a.scanFractalsFrom(i)
				break
			}
		}
	}
	if !hasFrom {
		a.scanFractalsFrom(0)
	}
}

// scanFractalsFrom scans merged bars starting at index `from` (clamped
// to allow the 3-bar window) for new top/bottom fractals, appending any
// found past the existing tail.
func (a *Analyzer) scanFractalsFrom(from int) {
	start := from - 1
	if start < 0 {
		start = 0
	}
	for k2 := start + 1; k2 < len(a.mergedBars)-1; k2++ {
		k1 := a.mergedBars[k2-1]
		m2 := a.mergedBars[k2]
		k3 := a.mergedBars[k2+1]

		var mark domain.Mark
		found := false
		if k1.High < m2.High && m2.High > k3.High {
			mark = domain.MarkTop
			found = true
		} else if k1.Low > m2.Low && m2.Low < k3.Low {
			mark = domain.MarkBottom
			found = true
		}
		if !found {
			continue
		}

		if len(a.fractals) > 0 && !m2.Dt.After(a.fractals[len(a.fractals)-1].Dt) {
			continue
		}

		fx := buildFractal(k1, m2, k3, mark)
		a.fractals = append(a.fractals, fx)
	}
}

func buildFractal(k1, k2, k3 domain.MergedBar, mark domain.Mark) domain.Fractal {
	fxHigh := k2.High
	fxLow := k2.Low

	if !hasGap(k1, k2) {
		if k1.High > fxHigh {
			fxHigh = k1.High
		}
		if k1.Low < fxLow {
			fxLow = k1.Low
		}
	}
	if !hasGap(k2, k3) {
		if k3.High > fxHigh {
			fxHigh = k3.High
		}
		if k3.Low < fxLow {
			fxLow = k3.Low
		}
	}

	value := k2.High
	if mark == domain.MarkBottom {
		value = k2.Low
	}

	return domain.Fractal{
		Dt:      k2.Dt,
		Mark:    mark,
		Value:   value,
		StartDt: k1.Dt,
		EndDt:   k3.Dt,
		FxHigh:  fxHigh,
		FxLow:   fxLow,
	}
}
