package analyzer

import (
	"math"

	"chan-engine/internal/domain"
)

// FindPivots scans endpoints left-to-right for consolidation pivots,
// per spec §4.F, grounded on the source's `find_zs`. It is a pure
// function over Endpoint, so the same finder serves both bi-level
// (stroke) and xd-level (segment) pivots — the Analyzer computes
// pivots on demand rather than maintaining them as a persistent layer.
func FindPivots(points []domain.Endpoint) []domain.Pivot {
	var pivots []domain.Pivot
	var window []domain.Endpoint
	i := 0

	for i < len(points) {
		if len(window) < 5 {
			window = append(window, points[i])
			i++
			continue
		}

		zsD, zsG := windowBounds(window[:4])
		if zsG <= zsD {
			window = window[1:]
			continue
		}

		for i < len(points) {
			p := points[i]
			i++
			switch {
			case p.Mark == domain.MarkBottom && p.Value > zsG:
				pivots = append(pivots, emitPivot(window, zsD, zsG, &p, nil))
				window = nil
			case p.Mark == domain.MarkTop && p.Value < zsD:
				pivots = append(pivots, emitPivot(window, zsD, zsG, nil, &p))
				window = nil
			default:
				window = append(window, p)
				continue
			}
			break
		}
	}

	if len(window) >= 5 {
		zsD, zsG := windowBounds(window[:4])
		if zsG > zsD {
			pivots = append(pivots, emitPivot(window, zsD, zsG, nil, nil))
		}
	}

	return pivots
}

func windowBounds(w []domain.Endpoint) (zsD, zsG float64) {
	zsD, zsG = math.Inf(-1), math.Inf(1)
	for _, e := range w {
		if e.Mark == domain.MarkBottom {
			if e.Value > zsD {
				zsD = e.Value
			}
		} else if e.Value < zsG {
			zsG = e.Value
		}
	}
	return
}

func windowExtrema(w []domain.Endpoint) (g, gg, d, dd float64) {
	g, gg = math.Inf(1), math.Inf(-1)
	d, dd = math.Inf(-1), math.Inf(1)
	for _, e := range w {
		if e.Mark == domain.MarkTop {
			if e.Value < g {
				g = e.Value
			}
			if e.Value > gg {
				gg = e.Value
			}
		} else {
			if e.Value > d {
				d = e.Value
			}
			if e.Value < dd {
				dd = e.Value
			}
		}
	}
	return
}

func emitPivot(window []domain.Endpoint, zsD, zsG float64, thirdBuy, thirdSell *domain.Endpoint) domain.Pivot {
	g, gg, d, dd := windowExtrema(window)
	pivot := domain.Pivot{
		ZG:         zsG,
		ZD:         zsD,
		G:          g,
		GG:         gg,
		D:          d,
		DD:         dd,
		StartPoint: window[1],
		Points:     append([]domain.Endpoint{}, window...),
		Zn:         getZn(sliceFrom(window, 3)),
		ThirdBuy:   thirdBuy,
		ThirdSell:  thirdSell,
	}
	if thirdBuy != nil || thirdSell != nil {
		end := window[len(window)-2]
		pivot.EndPoint = &end
	}
	return pivot
}

// getZn builds the pivot's Z-segments from pts, dropping the trailing
// odd element and pairing the rest, per spec §4.F `__get_zn`.
func getZn(pts []domain.Endpoint) []domain.ZSegment {
	if len(pts)%2 != 0 {
		pts = pts[:len(pts)-1]
	}
	var out []domain.ZSegment
	for i := 0; i+1 < len(pts); i += 2 {
		a, b := pts[i], pts[i+1]
		high, low := maxF(a.Value, b.Value), minF(a.Value, b.Value)
		direction := "down"
		if a.Mark == domain.MarkBottom {
			direction = "up"
		}
		out = append(out, domain.ZSegment{
			StartDt:   a.Dt,
			EndDt:     b.Dt,
			High:      high,
			Low:       low,
			Direction: direction,
			Mid:       low + (high-low)/2,
		})
	}
	return out
}

func sliceFrom(pts []domain.Endpoint, i int) []domain.Endpoint {
	if i >= len(pts) {
		return nil
	}
	return pts[i:]
}
