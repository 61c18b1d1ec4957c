package analyzer

import (
	"chan-engine/internal/domain"
	"chan-engine/internal/infrastructure/indicators"
)

// ComputeSupplemental adapts the teacher's standalone indicators (RSI,
// ATR, Bollinger Bands, VWAP, momentum/volume divergence, pivot
// highs/lows) into one SupplementalFeatures snapshot over the
// analyzer's current raw bars. These ride alongside the Chan
// structural layers in the published snapshot; they are not part of
// components A-G.
func (a *Analyzer) ComputeSupplemental() domain.SupplementalFeatures {
	var feat domain.SupplementalFeatures
	n := len(a.rawBars)
	if n == 0 {
		return feat
	}

	closes := closesOf(a.rawBars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	vols := make([]float64, n)
	for i, b := range a.rawBars {
		highs[i] = b.High
		lows[i] = b.Low
		vols[i] = b.Vol
	}

	rsi := indicators.CalculateRSI(closes, 14)
	atr := indicators.CalculateATR(highs, lows, closes, 14)
	bb := indicators.CalculateBollingerBands(closes, 20, 2.0)
	vwap := indicators.CalculateVWAP(highs, lows, closes, vols)

	last := n - 1
	feat.RSI = rsi[last]
	feat.ATR = atr[last]
	feat.BollingerUpper = bb.Upper[last]
	feat.BollingerMiddle = bb.Middle[last]
	feat.BollingerLower = bb.Lower[last]
	feat.IsAboveUpperBand = closes[last] > bb.Upper[last]
	feat.VWAP = vwap[last]
	if vwap[last] != 0 {
		feat.OverExtVWAP = (closes[last] - vwap[last]) / vwap[last]
	}

	lowPivots := indicators.FindPivotLows(lows, 3, 3)
	if sup := indicators.GetNearestSupport(lowPivots, n-1); sup != nil {
		v := sup.Price
		feat.NearestSupport = &v
		if atr[last] != 0 {
			d := (closes[last] - v) / atr[last]
			feat.DistToSupportATR = &d
		}
		feat.IsBreakdown = indicators.IsBreakdown(closes[last], v, atr[last], 1.0)
		feat.IsRetest = indicators.IsInRetestZone(highs[last], lows[last], v, atr[last], 0.5)
	}

	momentum := indicators.DetectMomentumLoss(closes, highs, vols, rsi)
	feat.HasRsiDivergence = momentum.HasRsiDivergence
	feat.HasVolumeDivergence = momentum.HasVolumeDivergence
	feat.MomentumSlope = momentum.MomentumSlope
	feat.RsiSlope = momentum.RsiSlope
	feat.VolumeDeclineRatio = momentum.VolumeDeclineRatio
	feat.IsLosingMomentum = momentum.IsLosingMomentum

	return feat
}
