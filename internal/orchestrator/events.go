package orchestrator

import "chan-engine/internal/domain"

// DetectNewEvents compares the previous snapshot against the one just
// built and returns a PivotEvent for every third-buy/third-sell that
// closed since, across every frequency and pivot mode (bi, xd). prev
// may be the zero Snapshot on the very first call.
func DetectNewEvents(prev, curr domain.Snapshot) []domain.PivotEvent {
	var events []domain.PivotEvent
	for freq, cf := range curr.Freqs {
		var pf domain.FreqSnapshot
		if prev.Freqs != nil {
			pf = prev.Freqs[freq]
		}
		events = append(events, newPivotEvents(curr.Symbol, freq, "bi", pf.BiPivots, cf.BiPivots)...)
		events = append(events, newPivotEvents(curr.Symbol, freq, "xd", pf.XdPivots, cf.XdPivots)...)
	}
	return events
}

func newPivotEvents(symbol, freq, mode string, prevPivots, currPivots []domain.Pivot) []domain.PivotEvent {
	seen := make(map[string]bool, len(prevPivots))
	for _, p := range prevPivots {
		if p.EndPoint != nil {
			seen[p.EndPoint.Dt.String()] = true
		}
	}

	var out []domain.PivotEvent
	for _, p := range currPivots {
		if p.EndPoint == nil {
			continue
		}
		if seen[p.EndPoint.Dt.String()] {
			continue
		}
		kind := ""
		switch {
		case p.ThirdBuy != nil:
			kind = mode + "_third_buy"
		case p.ThirdSell != nil:
			kind = mode + "_third_sell"
		default:
			continue
		}
		out = append(out, domain.PivotEvent{
			Symbol: symbol,
			Freq:   freq,
			Kind:   kind,
			Dt:     p.EndPoint.Dt,
			Value:  p.EndPoint.Value,
		})
	}
	return out
}
