package repository

import (
	"testing"
	"time"

	"chan-engine/internal/domain"
)

func TestInMemorySnapshotRepositorySaveAndGet(t *testing.T) {
	r := NewInMemorySnapshotRepository()
	if _, ok := r.GetSnapshot("ZZ"); ok {
		t.Fatalf("expected no snapshot before any save")
	}

	snap := domain.Snapshot{Symbol: "ZZ", UpdatedAt: time.Now()}
	r.SaveSnapshot("ZZ", snap)

	got, ok := r.GetSnapshot("ZZ")
	if !ok || got.Symbol != "ZZ" {
		t.Fatalf("expected saved snapshot to be retrievable, got %+v ok=%v", got, ok)
	}
	if len(r.GetAllSnapshots()) != 1 {
		t.Fatalf("expected exactly one snapshot across all symbols")
	}
}

func TestInMemoryPivotEventRepositoryAppendsAndCopiesOnRead(t *testing.T) {
	r := NewInMemoryPivotEventRepository()
	err := r.SaveEvents([]domain.PivotEvent{
		{Symbol: "ZZ", Freq: "1m", Kind: "bi_third_buy", Value: 11.2},
		{Symbol: "ZZ", Freq: "5m", Kind: "bi_third_sell", Value: 9.8},
		{Symbol: "AA", Freq: "1m", Kind: "bi_third_buy", Value: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error saving events: %v", err)
	}

	got, err := r.GetEvents("ZZ")
	if err != nil {
		t.Fatalf("unexpected error getting events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for ZZ, got %d", len(got))
	}

	got[0].Kind = "mutated"
	fresh, _ := r.GetEvents("ZZ")
	if fresh[0].Kind == "mutated" {
		t.Fatalf("expected GetEvents to return a defensive copy, mutation leaked into repository state")
	}

	other, err := r.GetEvents("AA")
	if err != nil || len(other) != 1 {
		t.Fatalf("expected 1 event for AA, got %d (err=%v)", len(other), err)
	}
}
