package analyzer

import (
	"time"

	"chan-engine/internal/domain"
)

// Span identifies a price move by its bounding dt and polarity
// direction, the unit IsBeiChi/CalculateMacdPower operate over.
type Span struct {
	StartDt   time.Time
	EndDt     time.Time
	Direction string // "up" or "down"
}

// IsBeiChi reports whether zs1 (the more recent move) diverges from
// zs2 (the earlier move) by summed MACD-histogram power, per spec §4.G,
// grounded on the source's `is_bei_chi`.
func (a *Analyzer) IsBeiChi(zs1, zs2 Span, mode string, adjust float64) (bool, error) {
	if !zs1.StartDt.After(zs2.EndDt) {
		return false, domain.NewPreconditionViolation("IsBeiChi", "zs1 must be more recent than zs2")
	}
	sum1 := a.macdPowerOver(zs1, mode)
	sum2 := a.macdPowerOver(zs2, mode)
	return sum1 < sum2*adjust, nil
}

// CalculateMacdPower sums |hist| over [startDt,endDt], restricted to
// hist matching direction's sign when mode is "xd".
func (a *Analyzer) CalculateMacdPower(startDt, endDt time.Time, mode, direction string) float64 {
	return a.macdPowerOver(Span{StartDt: startDt, EndDt: endDt, Direction: direction}, mode)
}

func (a *Analyzer) macdPowerOver(zs Span, mode string) float64 {
	sum := 0.0
	for _, row := range a.macdTable {
		if row.Dt.Before(zs.StartDt) || row.Dt.After(zs.EndDt) {
			continue
		}
		h := row.Hist
		if mode == "xd" {
			if zs.Direction == "down" && h >= 0 {
				continue
			}
			if zs.Direction == "up" && h <= 0 {
				continue
			}
		}
		if h < 0 {
			h = -h
		}
		sum += h
	}
	return sum
}

// CalculateVolPower sums volume over [startDt,endDt] from raw bars.
func (a *Analyzer) CalculateVolPower(startDt, endDt time.Time) int {
	sum := 0.0
	for _, b := range a.rawBars {
		if b.Dt.Before(startDt) || b.Dt.After(endDt) {
			continue
		}
		sum += b.Vol
	}
	return int(sum)
}

// WellMove is one of the five consecutive same-layer moves CheckJing
// examines.
type WellMove struct {
	High  float64
	Low   float64
	Power float64
}

// CheckJing classifies a five-move "井" (well) pattern per spec §4.G:
// f1,f3,f5 share a direction, f2,f4 the opposite, and f2,f3,f4 must
// enclose a pivot (caller passes that as pivotValid). Returns "big",
// "small1", "small2" or "" when no well pattern is present.
func CheckJing(moves [5]WellMove, pivotValid bool, up bool) string {
	if !pivotValid {
		return ""
	}

	if up {
		h1, h3, h5 := moves[0].High, moves[2].High, moves[4].High
		p1, p3, p5 := moves[0].Power, moves[2].Power, moves[4].Power
		switch {
		case h5 > h3 && h3 > h1 && p5 < p3 && p3 < p1:
			return "big"
		case h1 < h5 && h5 < h3 && p5 < p1:
			return "small1"
		case h5 > h3 && h3 > h1 && p1 > p5 && p5 > p3:
			return "small2"
		}
		return ""
	}

	l1, l3, l5 := moves[0].Low, moves[2].Low, moves[4].Low
	p1, p3, p5 := moves[0].Power, moves[2].Power, moves[4].Power
	switch {
	case l5 < l3 && l3 < l1 && p5 < p3 && p3 < p1:
		return "big"
	case l1 > l5 && l5 > l3 && p5 < p1:
		return "small1"
	case l5 < l3 && l3 < l1 && p1 > p5 && p5 > p3:
		return "small2"
	}
	return ""
}
