package analyzer

import (
	"chan-engine/internal/domain"
	"chan-engine/internal/infrastructure/indicators"
)

// updateTA maintains the SMA and MACD tables aligned to rawBars, per
// spec §4.A. On the first call it is a full recompute; afterwards only
// the tail row is touched — appended for a new bar, overwritten for an
// in-progress replacement. The settled-row invariant
// (indicator[-2].dt == raw_bars[-2].dt) is asserted after each call,
// matching the source's `assert self.ma[-2]['dt'] == ...`.
func (a *Analyzer) updateTA() error {
	if err := a.updateMA(); err != nil {
		return err
	}
	if err := a.updateMACD(); err != nil {
		return err
	}
	return nil
}

func (a *Analyzer) updateMA() error {
	n := len(a.rawBars)
	if len(a.maTable) == 0 {
		closes := closesOf(a.rawBars)
		byPeriod := make(map[int][]float64, len(a.MaParams))
		for _, p := range a.MaParams {
			byPeriod[p] = indicators.CalculateSMA(closes, p)
		}
		a.maTable = make([]domain.MARow, n)
		for i := range a.rawBars {
			vals := make(map[int]float64, len(a.MaParams))
			for _, p := range a.MaParams {
				vals[p] = byPeriod[p][i]
			}
			a.maTable[i] = domain.MARow{Dt: a.rawBars[i].Dt, Values: vals}
		}
	} else {
		vals := make(map[int]float64, len(a.MaParams))
		for _, p := range a.MaParams {
			if n < p {
				continue
			}
			sum := 0.0
			for _, b := range a.rawBars[n-p:] {
				sum += b.Close
			}
			vals[p] = sum / float64(p)
		}
		row := domain.MARow{Dt: a.rawBars[n-1].Dt, Values: vals}
		if n >= 2 && a.rawBars[n-2].Dt.Equal(a.maTable[len(a.maTable)-1].Dt) {
			a.maTable = append(a.maTable, row)
		} else {
			a.maTable[len(a.maTable)-1] = row
		}
	}

	if n >= 2 && !a.maTable[len(a.maTable)-2].Dt.Equal(a.rawBars[n-2].Dt) {
		return domain.NewStructuralAssertion("updateMA", "ma[-2].dt != raw_bars[-2].dt")
	}
	return nil
}

const macdWindow = 200

func (a *Analyzer) updateMACD() error {
	n := len(a.rawBars)
	if len(a.macdTable) == 0 {
		closes := closesOf(a.rawBars)
		m := indicators.CalculateMACD(closes, 12, 26, 9)
		a.macdTable = make([]domain.MACDRow, n)
		for i := range a.rawBars {
			a.macdTable[i] = domain.MACDRow{Dt: a.rawBars[i].Dt, Diff: m.Diff[i], Dea: m.Dea[i], Hist: m.Hist[i]}
		}
	} else {
		start := n - macdWindow
		if start < 0 {
			start = 0
		}
		closes := closesOf(a.rawBars[start:])
		m := indicators.CalculateMACD(closes, 12, 26, 9)
		last := len(closes) - 1
		row := domain.MACDRow{Dt: a.rawBars[n-1].Dt, Diff: m.Diff[last], Dea: m.Dea[last], Hist: m.Hist[last]}
		if n >= 2 && a.rawBars[n-2].Dt.Equal(a.macdTable[len(a.macdTable)-1].Dt) {
			a.macdTable = append(a.macdTable, row)
		} else {
			a.macdTable[len(a.macdTable)-1] = row
		}
	}

	if n >= 2 && !a.macdTable[len(a.macdTable)-2].Dt.Equal(a.rawBars[n-2].Dt) {
		return domain.NewStructuralAssertion("updateMACD", "macd[-2].dt != raw_bars[-2].dt")
	}
	return nil
}

func closesOf(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
