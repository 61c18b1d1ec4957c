package analyzer

import (
	"fmt"

	"chan-engine/internal/domain"
)

// SignalSet is one of the three fixed boolean/value signal tables the
// engine publishes per Analyzer, keyed by the Analyzer's Name plus a
// fixed vocabulary of labels, per spec §4.G/§6.
type SignalSet struct {
	Bool map[string]bool
	Val  map[string]float64
}

func newSignalSet() SignalSet {
	return SignalSet{Bool: make(map[string]bool), Val: make(map[string]float64)}
}

// FractalSignals publishes the MA-relative, last-three-bar-shape and
// breakthrough flags. Returns an empty (all-false) set on a
// not-yet-bootstrapped Analyzer, per spec §7's EmptyState rule.
func (a *Analyzer) FractalSignals() SignalSet {
	sig := newSignalSet()
	if len(a.rawBars) == 0 || len(a.maTable) == 0 {
		return sig
	}

	closePrice := a.rawBars[len(a.rawBars)-1].Close
	maRow := a.maTable[len(a.maTable)-1]
	for _, p := range a.MaParams {
		val, ok := maRow.Values[p]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s_MA%d", a.Name, p)
		sig.Bool[key+"以上"] = closePrice >= val
		sig.Bool[key+"以下"] = closePrice < val
		sig.Val[key] = val
	}

	if len(a.rawBars) >= 3 {
		tail := a.rawBars[len(a.rawBars)-3:]
		sig.Bool[a.Name+"_三连阳"] = tail[0].Bullish() && tail[1].Bullish() && tail[2].Bullish()
		sig.Bool[a.Name+"_三连阴"] = !tail[0].Bullish() && !tail[1].Bullish() && !tail[2].Bullish()
	}

	if len(a.mergedBars) >= 2 {
		last := a.mergedBars[len(a.mergedBars)-1]
		prev := a.mergedBars[len(a.mergedBars)-2]
		sig.Bool[a.Name+"_创新高"] = last.High > prev.High
		sig.Bool[a.Name+"_创新低"] = last.Low < prev.Low
	}

	return sig
}

// StrokeSignals publishes last-stroke polarity, fractal-emergence,
// pivot-bound and divergence flags at the bi level, per spec §4.G.
func (a *Analyzer) StrokeSignals() SignalSet {
	return a.endpointSignals("bi", strokeEndpoints(a.strokes), 4)
}

// SegmentSignals is StrokeSignals' counterpart at the xd level,
// requiring >= 6 segment endpoints for same-level decomposition flags
// instead of bi's smaller threshold. The number of strokes inside the
// segments is not checked.
func (a *Analyzer) SegmentSignals() SignalSet {
	return a.endpointSignals("xd", segmentEndpoints(a.segments), 6)
}

func (a *Analyzer) endpointSignals(mode string, points []domain.Endpoint, decompMin int) SignalSet {
	sig := newSignalSet()
	if len(points) == 0 {
		return sig
	}

	last := points[len(points)-1]
	sig.Bool[a.Name+"_"+mode+"_最后笔向上"] = last.Mark == domain.MarkTop
	sig.Bool[a.Name+"_"+mode+"_最后笔向下"] = last.Mark == domain.MarkBottom

	if len(a.mergedBars) > 0 {
		sig.Bool[a.Name+"_"+mode+"_新分型出现"] = last.Dt.Equal(a.mergedBars[len(a.mergedBars)-1].Dt)
	}

	pivots, err := a.Pivots(mode)
	if err != nil || len(pivots) == 0 {
		return sig
	}
	lastPivot := pivots[len(pivots)-1]
	sig.Val[a.Name+"_"+mode+"_ZG"] = lastPivot.ZG
	sig.Val[a.Name+"_"+mode+"_ZD"] = lastPivot.ZD

	if len(a.rawBars) > 0 {
		closePrice := a.rawBars[len(a.rawBars)-1].Close
		sig.Bool[a.Name+"_"+mode+"_收盘在中枢上方"] = closePrice > lastPivot.ZG
		sig.Bool[a.Name+"_"+mode+"_收盘在中枢下方"] = closePrice < lastPivot.ZD
	}
	sig.Bool[a.Name+"_"+mode+"_三买"] = lastPivot.ThirdBuy != nil
	sig.Bool[a.Name+"_"+mode+"_三卖"] = lastPivot.ThirdSell != nil

	if len(pivots) >= 2 {
		prevPivot := pivots[len(pivots)-2]
		if lastPivot.EndPoint != nil && prevPivot.EndPoint != nil && lastPivot.StartPoint.Dt.After(prevPivot.EndPoint.Dt) {
			zs1 := Span{StartDt: lastPivot.StartPoint.Dt, EndDt: lastPivot.EndPoint.Dt, Direction: pivotDirection(lastPivot)}
			zs2 := Span{StartDt: prevPivot.StartPoint.Dt, EndDt: prevPivot.EndPoint.Dt, Direction: pivotDirection(prevPivot)}
			diverges, err := a.IsBeiChi(zs1, zs2, mode, 0.9)
			if err == nil {
				sig.Bool[a.Name+"_"+mode+"_趋势背驰"] = diverges
				sig.Bool[a.Name+"_"+mode+"_盘整背驰"] = !diverges
			}
		}
	}

	sig.Bool[a.Name+"_"+mode+"_同级别分解买点"] = len(points) >= decompMin &&
		(sig.Bool[a.Name+"_"+mode+"_三买"] || sig.Bool[a.Name+"_"+mode+"_趋势背驰"])
	sig.Bool[a.Name+"_"+mode+"_同级别分解卖点"] = len(points) >= decompMin &&
		(sig.Bool[a.Name+"_"+mode+"_三卖"] || sig.Bool[a.Name+"_"+mode+"_趋势背驰"])

	return sig
}

func pivotDirection(p domain.Pivot) string {
	if p.StartPoint.Mark == domain.MarkBottom {
		return "up"
	}
	return "down"
}
