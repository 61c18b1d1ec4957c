package analyzer

import (
	"sort"
	"time"

	"chan-engine/internal/domain"
)

const segmentMinInnerStrokes = 4

// updateSegments maintains segments against strokes per spec §4.E:
// phase 1 builds/relocates potential endpoints, phase 2 validates
// interior endpoints via the characteristic-sequence rule and collapses
// the survivors, grounded on the source's xd-building pass.
func (a *Analyzer) updateSegments() {
	a.rebuildSegmentCandidates()
	a.validateSegments()
	a.segmentPostPass()
}

func (a *Analyzer) rebuildSegmentCandidates() {
	if len(a.segments) < 3 {
		for len(a.segments) < 3 && len(a.segments) < len(a.strokes) {
			s := a.strokes[len(a.segments)]
			a.segments = append(a.segments, domain.Segment{Dt: s.Dt, Mark: s.Mark, Value: s.Value})
		}
		if len(a.segments) < 3 {
			return
		}
	}

	candidates := potentialEndpoints(a.strokes)
	for _, c := range candidates {
		if !c.Dt.After(a.segments[len(a.segments)-1].Dt) {
			continue
		}
		a.extendSegment(c)
	}
}

// potentialEndpoints finds strokes that are local extrema among their
// own polarity's subsequence (SD or SG), per spec §4.E phase 1.
func potentialEndpoints(strokes []domain.Stroke) []domain.Stroke {
	var sd, sg []domain.Stroke
	for _, s := range strokes {
		if s.Mark == domain.MarkBottom {
			sd = append(sd, s)
		} else {
			sg = append(sg, s)
		}
	}

	var candidates []domain.Stroke
	for i := 1; i+1 < len(sd); i++ {
		if sd[i-1].Value > sd[i].Value && sd[i].Value < sd[i+1].Value {
			candidates = append(candidates, sd[i])
		}
	}
	for i := 1; i+1 < len(sg); i++ {
		if sg[i-1].Value < sg[i].Value && sg[i].Value > sg[i+1].Value {
			candidates = append(candidates, sg[i])
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Dt.Before(candidates[j].Dt) })
	return candidates
}

func (a *Analyzer) extendSegment(c domain.Stroke) {
	last := a.segments[len(a.segments)-1]

	if last.Mark == c.Mark {
		if (c.Mark == domain.MarkTop && c.Value > last.Value) || (c.Mark == domain.MarkBottom && c.Value < last.Value) {
			a.segments[len(a.segments)-1] = domain.Segment{Dt: c.Dt, Mark: c.Mark, Value: c.Value}
		}
		return
	}

	if a.strokesBetween(last.Dt, c.Dt) < segmentMinInnerStrokes {
		return
	}
	a.segments = append(a.segments, domain.Segment{Dt: c.Dt, Mark: c.Mark, Value: c.Value})
}

func (a *Analyzer) strokesBetween(dt1, dt2 time.Time) int {
	count := 0
	for _, s := range a.strokes {
		if s.Dt.After(dt1) && s.Dt.Before(dt2) {
			count++
		}
	}
	return count
}

// strokesSpan returns strokes with dt in [dtStart, dtEnd], inclusive of
// both bounds (segment endpoints are themselves strokes).
func (a *Analyzer) strokesSpan(dtStart, dtEnd time.Time) []domain.Stroke {
	var out []domain.Stroke
	for _, s := range a.strokes {
		if !s.Dt.Before(dtStart) && !s.Dt.After(dtEnd) {
			out = append(out, s)
		}
	}
	return out
}

// validateSegments re-checks every interior endpoint's characteristic
// sequence and drops those that fail is_valid_xd, per spec §4.E phase 2.
func (a *Analyzer) validateSegments() {
	n := len(a.segments)
	if n < 4 {
		return
	}
	keep := make([]bool, n)
	keep[0] = true
	keep[n-2] = true
	keep[n-1] = true
	for i := 1; i <= n-3; i++ {
		xd1, xd2, xd3, xd4 := a.segments[i-1], a.segments[i], a.segments[i+1], a.segments[i+2]
		biSeq1 := a.strokesSpan(xd1.Dt, xd2.Dt)
		biSeq2 := a.strokesSpan(xd2.Dt, xd3.Dt)
		biSeq3 := a.strokesSpan(xd3.Dt, xd4.Dt)
		if isValidXd(biSeq1, biSeq2, biSeq3) {
			keep[i] = true
		}
	}

	var out []domain.Segment
	for i, k := range keep {
		if k {
			out = append(out, a.segments[i])
		}
	}
	a.segments = collapseSegments(out)
}

// collapseSegments merges adjacent same-polarity endpoints by extremum.
func collapseSegments(segs []domain.Segment) []domain.Segment {
	if len(segs) == 0 {
		return segs
	}
	out := []domain.Segment{segs[0]}
	for _, s := range segs[1:] {
		last := out[len(out)-1]
		if last.Mark == s.Mark {
			if (s.Mark == domain.MarkTop && s.Value > last.Value) || (s.Mark == domain.MarkBottom && s.Value < last.Value) {
				out[len(out)-1] = s
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// segmentPostPass drops the last segment if the latest stroke
// invalidates it.
func (a *Analyzer) segmentPostPass() {
	if len(a.segments) == 0 || len(a.strokes) == 0 {
		return
	}
	last := a.segments[len(a.segments)-1]
	latest := a.strokes[len(a.strokes)-1]
	switch last.Mark {
	case domain.MarkBottom:
		if latest.Mark == domain.MarkBottom && latest.Value < last.Value {
			a.segments = a.segments[:len(a.segments)-1]
		}
	case domain.MarkTop:
		if latest.Mark == domain.MarkTop && latest.Value > last.Value {
			a.segments = a.segments[:len(a.segments)-1]
		}
	}
}

// seqInterval is one interval of a standard characteristic sequence:
// a pair of consecutive same-direction strokes collapsed for inclusion.
type seqInterval struct {
	startDt time.Time
	endDt   time.Time
	high    float64
	low     float64
}

// standardSeqPairs forms the raw characteristic-sequence intervals from
// bi, pairing (bi[i], bi[i+1]) for odd i, per spec §4.E.
func standardSeqPairs(bi []domain.Stroke) []seqInterval {
	var out []seqInterval
	for i := 1; i+1 < len(bi); i += 2 {
		s1, s2 := bi[i], bi[i+1]
		out = append(out, seqInterval{
			startDt: s1.Dt,
			endDt:   s2.Dt,
			high:    maxF(s1.Value, s2.Value),
			low:     minF(s1.Value, s2.Value),
		})
	}
	return out
}

// collapseStandardSeq collapses adjacent inclusion-related intervals,
// direction-up taking the max/max of the pair, direction-down the
// min/min, mirroring the merger's own inclusion rule.
func collapseStandardSeq(seq []seqInterval, direction string) []seqInterval {
	if len(seq) == 0 {
		return seq
	}
	out := []seqInterval{seq[0]}
	for _, iv := range seq[1:] {
		last := out[len(out)-1]
		if domain.Includes(last.high, last.low, iv.high, iv.low) {
			var nh, nl float64
			if direction == "up" {
				nh, nl = maxF(last.high, iv.high), maxF(last.low, iv.low)
			} else {
				nh, nl = minF(last.high, iv.high), minF(last.low, iv.low)
			}
			out[len(out)-1] = seqInterval{startDt: last.startDt, endDt: iv.endDt, high: nh, low: nl}
		} else {
			out = append(out, iv)
		}
	}
	return out
}

// isValidXd implements spec §4.E's characteristic-sequence validation,
// grounded on the source's `is_valid_xd`.
func isValidXd(biSeq1, biSeq2, biSeq3 []domain.Stroke) bool {
	if len(biSeq1) == 0 || len(biSeq2) < 4 {
		return false
	}

	up := biSeq1[0].Mark == domain.MarkBottom
	direction := "down"
	if up {
		direction = "up"
	}
	std1 := collapseStandardSeq(standardSeqPairs(biSeq1), direction)
	if len(std1) == 0 {
		return false
	}

	if up {
		minLow1 := std1[0].low
		for _, iv := range std1 {
			if iv.low < minLow1 {
				minLow1 = iv.low
			}
		}
		if biSeq2[1].Value >= minLow1 {
			return biSeq2[len(biSeq2)-1].Value >= biSeq2[1].Value
		}

		extended := append(append([]domain.Stroke{}, biSeq2...), tailFrom(biSeq3, 1)...)
		stdExt := collapseStandardSeq(standardSeqPairs(extended), direction)
		if len(stdExt) < 3 {
			return false
		}
		found := false
		for i := 1; i+1 < len(stdExt); i++ {
			b1, b2, b3 := stdExt[i-1], stdExt[i], stdExt[i+1]
			if !(b1.high < b2.high && b2.high > b3.high) {
				continue
			}
			if !(b1.low >= biSeq2[0].Value && b2.low >= biSeq2[0].Value && b3.low >= biSeq2[0].Value) {
				return false
			}
			found = true
		}
		return found
	}

	maxHigh1 := std1[0].high
	for _, iv := range std1 {
		if iv.high > maxHigh1 {
			maxHigh1 = iv.high
		}
	}
	if biSeq2[1].Value <= maxHigh1 {
		return biSeq2[len(biSeq2)-1].Value <= biSeq2[1].Value
	}

	extended := append(append([]domain.Stroke{}, biSeq2...), tailFrom(biSeq3, 1)...)
	stdExt := collapseStandardSeq(standardSeqPairs(extended), direction)
	if len(stdExt) < 3 {
		return false
	}
	found := false
	for i := 1; i+1 < len(stdExt); i++ {
		b1, b2, b3 := stdExt[i-1], stdExt[i], stdExt[i+1]
		if !(b1.low > b2.low && b2.low < b3.low) {
			continue
		}
		if !(b1.high <= biSeq2[0].Value && b2.high <= biSeq2[0].Value && b3.high <= biSeq2[0].Value) {
			return false
		}
		found = true
	}
	return found
}

func tailFrom(s []domain.Stroke, i int) []domain.Stroke {
	if i >= len(s) {
		return nil
	}
	return s[i:]
}
