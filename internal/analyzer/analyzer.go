package analyzer

import (
	"time"

	"chan-engine/internal/domain"
)

// Analyzer owns components A-G for one symbol/frequency: the raw bar
// history plus every derived layer (merged bars, indicator tables,
// fractals, strokes, segments). It is single-threaded and
// non-reentrant; Update is the sole mutator, per spec §5.
type Analyzer struct {
	Name      string
	BiMode    BiMode
	MaxRawLen int
	MaParams  []int
	MinBiK    int
	Verbose   bool

	rawBars    []domain.Bar
	mergedBars []domain.MergedBar
	maTable    []domain.MARow
	macdTable  []domain.MACDRow
	fractals   []domain.Fractal
	strokes    []domain.Stroke
	segments   []domain.Segment
}

// NewAnalyzer builds an Analyzer from an initial bar history, replaying
// each bar through Update so bulk construction and incremental
// construction produce identical state (spec §8, invariant 7).
func NewAnalyzer(initialBars []domain.Bar, name string, biMode BiMode, maxRawLen int, maParams []int, minBiK int, verbose bool) (*Analyzer, error) {
	if len(initialBars) < 4 {
		return nil, domain.NewPreconditionViolation("NewAnalyzer", "initial_bars must hold at least 4 bars")
	}
	for i := 1; i < len(initialBars); i++ {
		if initialBars[i].Dt.Before(initialBars[i-1].Dt) {
			return nil, domain.NewPreconditionViolation("NewAnalyzer", "initial_bars dt must be monotonic")
		}
	}

	a := &Analyzer{
		Name:      name,
		BiMode:    biMode,
		MaxRawLen: maxRawLen,
		MaParams:  append([]int{}, maParams...),
		MinBiK:    minBiK,
		Verbose:   verbose,
	}

	for _, b := range initialBars {
		if err := a.Update(b); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Update is the sole mutator: it appends a new bar (or, if bar shares
// the last bar's dt and open, replaces it as an in-progress revision),
// then recomputes the tail of every derived layer bottom-up.
func (a *Analyzer) Update(bar domain.Bar) error {
	if n := len(a.rawBars); n > 0 {
		last := a.rawBars[n-1]
		if bar.Dt.Before(last.Dt) {
			return domain.NewPreconditionViolation("Update", "bar.dt predates the last raw bar")
		}
		if bar.Dt.Equal(last.Dt) && bar.Open == last.Open {
			a.rawBars[n-1] = bar
		} else {
			a.rawBars = append(a.rawBars, bar)
		}
	} else {
		a.rawBars = append(a.rawBars, bar)
	}

	if a.MaxRawLen > 0 && len(a.rawBars) > a.MaxRawLen {
		a.trim()
	}

	if err := a.updateTA(); err != nil {
		return err
	}
	a.updateMerge()
	a.updateFractals()
	if err := a.updateStrokes(); err != nil {
		return err
	}
	a.updateSegments()
	return nil
}

// trim enforces max_raw_len by dropping the oldest raw bars and every
// derived-layer entry whose dt predates the retained merged-bar window,
// per spec §5's resource policy.
func (a *Analyzer) trim() {
	excess := len(a.rawBars) - a.MaxRawLen
	a.rawBars = a.rawBars[excess:]
	cutDt := a.rawBars[0].Dt

	maStart := 0
	for i, row := range a.maTable {
		if !row.Dt.Before(cutDt) {
			maStart = i
			break
		}
	}
	a.maTable = a.maTable[maStart:]

	macdStart := 0
	for i, row := range a.macdTable {
		if !row.Dt.Before(cutDt) {
			macdStart = i
			break
		}
	}
	a.macdTable = a.macdTable[macdStart:]

	mergedStart := 0
	for i, mb := range a.mergedBars {
		if !mb.Dt.Before(cutDt) {
			mergedStart = i
			break
		}
	}
	a.mergedBars = a.mergedBars[mergedStart:]
	if len(a.mergedBars) == 0 {
		a.fractals, a.strokes, a.segments = nil, nil, nil
		return
	}

	mergedCut := a.mergedBars[0].Dt
	a.fractals = trimFractalsFrom(a.fractals, mergedCut)
	a.strokes = trimStrokesFrom(a.strokes, mergedCut)
	a.segments = trimSegmentsFrom(a.segments, mergedCut)
}

func trimFractalsFrom(fs []domain.Fractal, cut time.Time) []domain.Fractal {
	for i, f := range fs {
		if !f.Dt.Before(cut) {
			return fs[i:]
		}
	}
	return nil
}

func trimStrokesFrom(ss []domain.Stroke, cut time.Time) []domain.Stroke {
	for i, s := range ss {
		if !s.Dt.Before(cut) {
			return ss[i:]
		}
	}
	return nil
}

func trimSegmentsFrom(xs []domain.Segment, cut time.Time) []domain.Segment {
	for i, x := range xs {
		if !x.Dt.Before(cut) {
			return xs[i:]
		}
	}
	return nil
}

// MergedBars returns a copy of the current merged-bar layer.
func (a *Analyzer) MergedBars() []domain.MergedBar {
	return append([]domain.MergedBar{}, a.mergedBars...)
}

// Fractals returns a copy of the current fractal layer.
func (a *Analyzer) Fractals() []domain.Fractal {
	return append([]domain.Fractal{}, a.fractals...)
}

// Strokes returns a copy of the current stroke layer.
func (a *Analyzer) Strokes() []domain.Stroke {
	return append([]domain.Stroke{}, a.strokes...)
}

// Segments returns a copy of the current segment layer.
func (a *Analyzer) Segments() []domain.Segment {
	return append([]domain.Segment{}, a.segments...)
}

// Pivots returns the pivots over the analyzer's strokes or segments,
// per spec §4.F. Pivots are never cached as a persistent layer (they
// are absent from the Analyzer State list in spec §3) and are instead
// recomputed on demand, identically to the source's find_zs call sites.
func (a *Analyzer) Pivots(mode string) ([]domain.Pivot, error) {
	switch mode {
	case "bi":
		return FindPivots(strokeEndpoints(a.strokes)), nil
	case "xd":
		return FindPivots(segmentEndpoints(a.segments)), nil
	default:
		return nil, domain.NewPreconditionViolation("Pivots", "mode must be bi or xd")
	}
}

func strokeEndpoints(ss []domain.Stroke) []domain.Endpoint {
	out := make([]domain.Endpoint, len(ss))
	for i, s := range ss {
		out[i] = s.Endpoint()
	}
	return out
}

func segmentEndpoints(xs []domain.Segment) []domain.Endpoint {
	out := make([]domain.Endpoint, len(xs))
	for i, x := range xs {
		out[i] = x.Endpoint()
	}
	return out
}

// SubSection is the mode-tagged result of GetSubSection: only the field
// matching Mode is populated.
type SubSection struct {
	Mode       string
	MergedBars []domain.MergedBar
	Fractals   []domain.Fractal
	Strokes    []domain.Stroke
	Segments   []domain.Segment
}

// GetSubSection returns the named layer ("kn", "fx", "bi", "xd")
// constrained to [startDt,endDt]. When isLast is true, the window must
// reach the layer's current tip or an empty SubSection is returned
// (Underflow, not an error, per spec §7).
func (a *Analyzer) GetSubSection(startDt, endDt time.Time, mode string, isLast bool) (SubSection, error) {
	sub := SubSection{Mode: mode}
	switch mode {
	case "kn":
		sub.MergedBars = filterMergedBars(a.mergedBars, startDt, endDt)
		if isLast && !(len(sub.MergedBars) > 0 && len(a.mergedBars) > 0 && sub.MergedBars[len(sub.MergedBars)-1].Dt.Equal(a.mergedBars[len(a.mergedBars)-1].Dt)) {
			return SubSection{Mode: mode}, nil
		}
	case "fx":
		sub.Fractals = filterFractals(a.fractals, startDt, endDt)
		if isLast && !(len(sub.Fractals) > 0 && len(a.fractals) > 0 && sub.Fractals[len(sub.Fractals)-1].Dt.Equal(a.fractals[len(a.fractals)-1].Dt)) {
			return SubSection{Mode: mode}, nil
		}
	case "bi":
		sub.Strokes = filterStrokes(a.strokes, startDt, endDt)
		if isLast && !(len(sub.Strokes) > 0 && len(a.strokes) > 0 && sub.Strokes[len(sub.Strokes)-1].Dt.Equal(a.strokes[len(a.strokes)-1].Dt)) {
			return SubSection{Mode: mode}, nil
		}
	case "xd":
		sub.Segments = filterSegments(a.segments, startDt, endDt)
		if isLast && !(len(sub.Segments) > 0 && len(a.segments) > 0 && sub.Segments[len(sub.Segments)-1].Dt.Equal(a.segments[len(a.segments)-1].Dt)) {
			return SubSection{Mode: mode}, nil
		}
	default:
		return SubSection{}, domain.NewPreconditionViolation("GetSubSection", "mode must be one of kn, fx, bi, xd")
	}
	return sub, nil
}

func filterMergedBars(bars []domain.MergedBar, start, end time.Time) []domain.MergedBar {
	var out []domain.MergedBar
	for _, b := range bars {
		if !b.Dt.Before(start) && !b.Dt.After(end) {
			out = append(out, b)
		}
	}
	return out
}

func filterFractals(fs []domain.Fractal, start, end time.Time) []domain.Fractal {
	var out []domain.Fractal
	for _, f := range fs {
		if !f.Dt.Before(start) && !f.Dt.After(end) {
			out = append(out, f)
		}
	}
	return out
}

func filterStrokes(ss []domain.Stroke, start, end time.Time) []domain.Stroke {
	var out []domain.Stroke
	for _, s := range ss {
		if !s.Dt.Before(start) && !s.Dt.After(end) {
			out = append(out, s)
		}
	}
	return out
}

func filterSegments(xs []domain.Segment, start, end time.Time) []domain.Segment {
	var out []domain.Segment
	for _, x := range xs {
		if !x.Dt.Before(start) && !x.Dt.After(end) {
			out = append(out, x)
		}
	}
	return out
}

// DebugRow is one row of the CSV/debug export. It intentionally
// reproduces the source's to_df copy-paste quirk of storing the MACD
// diff value into both the Dea and Macd columns; the real macdTable
// cache (see indicator_cache.go) is unaffected and stays correct.
type DebugRow struct {
	Dt   time.Time
	Diff float64
	Dea  float64
	Macd float64
}

// DebugRows renders the MACD table for CSV/debug export, preserving the
// source's diff-into-dea-and-macd quirk (spec §9, open question).
func (a *Analyzer) DebugRows() []DebugRow {
	out := make([]DebugRow, len(a.macdTable))
	for i, row := range a.macdTable {
		out[i] = DebugRow{Dt: row.Dt, Diff: row.Diff, Dea: row.Diff, Macd: row.Diff}
	}
	return out
}
