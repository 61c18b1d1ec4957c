package analyzer

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func endpointAt(minute int, mark domain.Mark, value float64) domain.Endpoint {
	return domain.Endpoint{Dt: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC), Mark: mark, Value: value}
}

func TestFindPivotsEmitsThirdBuy(t *testing.T) {
	points := []domain.Endpoint{
		endpointAt(0, domain.MarkBottom, 10),
		endpointAt(1, domain.MarkTop, 11),
		endpointAt(2, domain.MarkBottom, 9.5),
		endpointAt(3, domain.MarkTop, 11.5),
		endpointAt(4, domain.MarkBottom, 9.8),
		endpointAt(5, domain.MarkBottom, 11.2), // closes the pivot: value > zsG
	}

	pivots := FindPivots(points)
	if len(pivots) != 1 {
		t.Fatalf("expected exactly one pivot, got %d: %+v", len(pivots), pivots)
	}

	p := pivots[0]
	if p.ZD != 10 || p.ZG != 11 {
		t.Fatalf("expected ZD=10 ZG=11, got ZD=%.2f ZG=%.2f", p.ZD, p.ZG)
	}
	if p.ThirdBuy == nil || p.ThirdBuy.Value != 11.2 {
		t.Fatalf("expected a third-buy endpoint at value 11.2, got %+v", p.ThirdBuy)
	}
	if p.ThirdSell != nil {
		t.Fatalf("did not expect a third-sell, got %+v", p.ThirdSell)
	}
	if !p.Valid() {
		t.Fatalf("expected pivot to satisfy ZD<ZG validity invariant")
	}
}

func TestFindPivotsOpenPivotHasNoEndPoint(t *testing.T) {
	points := []domain.Endpoint{
		endpointAt(0, domain.MarkBottom, 10),
		endpointAt(1, domain.MarkTop, 11),
		endpointAt(2, domain.MarkBottom, 9.5),
		endpointAt(3, domain.MarkTop, 11.5),
		endpointAt(4, domain.MarkBottom, 9.8),
	}

	pivots := FindPivots(points)
	if len(pivots) != 1 {
		t.Fatalf("expected one open pivot, got %d", len(pivots))
	}
	p := pivots[0]
	if p.EndPoint != nil {
		t.Fatalf("open pivot (no third-buy/sell yet) must not have an EndPoint, got %+v", p.EndPoint)
	}
	if p.ThirdBuy != nil || p.ThirdSell != nil {
		t.Fatalf("open pivot must not have a third-buy/sell")
	}
}

func TestFindPivotsSkipsNonExpandingWindow(t *testing.T) {
	// zs_g <= zs_d: the window never forms a valid pivot range, so it
	// should slide forward one endpoint at a time without emitting.
	points := []domain.Endpoint{
		endpointAt(0, domain.MarkTop, 9),
		endpointAt(1, domain.MarkBottom, 10),
		endpointAt(2, domain.MarkTop, 9),
		endpointAt(3, domain.MarkBottom, 10),
		endpointAt(4, domain.MarkTop, 9),
	}
	pivots := FindPivots(points)
	if len(pivots) != 0 {
		t.Fatalf("expected no pivots from a non-expanding window, got %d", len(pivots))
	}
}
