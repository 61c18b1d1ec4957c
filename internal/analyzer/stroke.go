package analyzer

import (
	"time"

	"chan-engine/internal/domain"
)

// BiMode selects which bar series the stroke builder counts "bars
// between two fractals" from, per spec §4.D.
type BiMode string

const (
	// BiModeOld counts intervening bars from mergedBars.
	BiModeOld BiMode = "old"
	// BiModeNew counts intervening bars from rawBars.
	BiModeNew BiMode = "new"
)

const (
	strokeTrailingFractals = 50
	strokeTrailingBars     = 300
)

// updateStrokes maintains strokes against fractals per spec §4.D,
// grounded on the source's bi-building loop. The first two fractals
// are copied unconditionally to bootstrap; afterwards the tentative
// tail (last two strokes) is dropped and only fractals past the
// surviving tail are rescanned.
func (a *Analyzer) updateStrokes() error {
	if len(a.strokes) < 2 {
		for len(a.strokes) < 2 && len(a.strokes) < len(a.fractals) {
			f := a.fractals[len(a.strokes)]
			a.strokes = append(a.strokes, strokeFromFractal(f))
		}
		if len(a.strokes) < 2 {
			return nil
		}
	}

	if len(a.strokes) > 2 {
		a.strokes = a.strokes[:len(a.strokes)-2]
	}

	lastDt := a.strokes[len(a.strokes)-1].Dt
	startIdx := len(a.fractals)
	for i, f := range a.fractals {
		if f.Dt.After(lastDt) {
			startIdx = i
			break
		}
	}
	candidates := a.fractals[startIdx:]
	if len(candidates) > strokeTrailingFractals {
		candidates = candidates[len(candidates)-strokeTrailingFractals:]
	}

	for _, f := range candidates {
		a.extendStroke(f)
	}

	a.strokePostPass()
	return nil
}

func (a *Analyzer) extendStroke(f domain.Fractal) {
	last := a.strokes[len(a.strokes)-1]

	if last.Mark == f.Mark {
		switch f.Mark {
		case domain.MarkTop:
			if f.Value > last.Value {
				a.strokes[len(a.strokes)-1] = strokeFromFractal(f)
			}
		case domain.MarkBottom:
			if f.Value < last.Value {
				a.strokes[len(a.strokes)-1] = strokeFromFractal(f)
			}
		}
		return
	}

	minBars := 1
	if a.MinBiK > 0 {
		minBars = a.MinBiK
	}
	if a.barsBetween(last.EndDt, f.StartDt) < minBars {
		return
	}

	if last.Mark == domain.MarkTop {
		// g -> d: the new D fractal must not be in inclusion with the
		// last G fractal's window.
		if !(f.FxHigh < last.FxHigh && f.FxLow < last.FxLow) {
			return
		}
	} else {
		// d -> g
		if !(f.FxHigh > last.FxHigh && f.FxLow > last.FxLow) {
			return
		}
	}

	a.strokes = append(a.strokes, strokeFromFractal(f))
}

func strokeFromFractal(f domain.Fractal) domain.Stroke {
	return domain.Stroke{
		Dt: f.Dt, Mark: f.Mark, Value: f.Value,
		StartDt: f.StartDt, EndDt: f.EndDt,
		FxHigh: f.FxHigh, FxLow: f.FxLow,
	}
}

// barsBetween counts bars strictly between dt1 and dt2 from the series
// selected by BiMode, restricted to a trailing window for cost.
func (a *Analyzer) barsBetween(dt1, dt2 time.Time) int {
	series := a.mergedBars
	if a.BiMode == BiModeNew {
		rawDts := a.rawBars
		if len(rawDts) > strokeTrailingBars {
			rawDts = rawDts[len(rawDts)-strokeTrailingBars:]
		}
		count := 0
		for _, b := range rawDts {
			if b.Dt.After(dt1) && b.Dt.Before(dt2) {
				count++
			}
		}
		return count
	}
	if len(series) > strokeTrailingBars {
		series = series[len(series)-strokeTrailingBars:]
	}
	count := 0
	for _, b := range series {
		if b.Dt.After(dt1) && b.Dt.Before(dt2) {
			count++
		}
	}
	return count
}

// strokePostPass drops the last stroke if the latest merged bar
// invalidates it (e.g. last stroke is D but price has since made a
// lower low), per spec §4.D.
func (a *Analyzer) strokePostPass() {
	if len(a.strokes) == 0 || len(a.mergedBars) == 0 {
		return
	}
	last := a.strokes[len(a.strokes)-1]
	latest := a.mergedBars[len(a.mergedBars)-1]
	switch last.Mark {
	case domain.MarkBottom:
		if latest.Low < last.Value {
			a.strokes = a.strokes[:len(a.strokes)-1]
		}
	case domain.MarkTop:
		if latest.High > last.Value {
			a.strokes = a.strokes[:len(a.strokes)-1]
		}
	}
}
