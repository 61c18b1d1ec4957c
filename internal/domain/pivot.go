package domain

import "time"

// ZSegment is one "Z走势段" inside a pivot: a pair of consecutive
// endpoints with the same polarity orientation as the pivot's direction,
// produced by __get_zn.
type ZSegment struct {
	StartDt   time.Time
	EndDt     time.Time
	High      float64
	Low       float64
	Direction string // "up" or "down"
	Mid       float64
}

// Pivot (中枢/zs) is a consolidation region over >= 5 consecutive
// endpoints. Invariant: ZD < ZG.
type Pivot struct {
	ZG         float64
	ZD         float64
	G          float64 // min of all top endpoints in the pivot
	GG         float64 // max of all top endpoints in the pivot
	D          float64 // max of all bottom endpoints in the pivot
	DD         float64 // min of all bottom endpoints in the pivot
	StartPoint Endpoint
	EndPoint   *Endpoint // nil for an open pivot (no confirmed close)
	Points     []Endpoint
	Zn         []ZSegment
	ThirdBuy   *Endpoint
	ThirdSell  *Endpoint
}

// Valid reports the pivot invariant ZD < ZG.
func (p Pivot) Valid() bool {
	return p.ZD < p.ZG
}
