package usecase

import (
	"fmt"
	"sync"

	"chan-engine/internal/aggregator"
	"chan-engine/internal/analyzer"
	"chan-engine/internal/domain"
	"chan-engine/internal/orchestrator"
)

// EngineConfig carries the analyzer-level tuning knobs read from the
// environment in cmd/server, applied uniformly to every symbol's
// per-frequency Analyzer.
type EngineConfig struct {
	BiMode    analyzer.BiMode
	MaxRawLen int
	MaParams  []int
	MinBiK    int
}

// EngineUsecase owns one MultiFreqOrchestrator per symbol, mirroring the
// teacher's map-of-per-entity-state plus RWMutex idiom. It is the
// ingestion boundary named abstractly in spec.md: external bar
// ingestion and aggregation are collaborators, the orchestrator and its
// Analyzers are not.
type EngineUsecase struct {
	mu            sync.RWMutex
	orchestrators map[string]*orchestrator.MultiFreqOrchestrator
	prevSnapshots map[string]domain.Snapshot

	cfg EngineConfig

	snapshotRepo domain.SnapshotRepository
	notifier     *NotificationService
}

func NewEngineUsecase(cfg EngineConfig, snapshotRepo domain.SnapshotRepository, notifier *NotificationService) *EngineUsecase {
	return &EngineUsecase{
		orchestrators: make(map[string]*orchestrator.MultiFreqOrchestrator),
		prevSnapshots: make(map[string]domain.Snapshot),
		cfg:           cfg,
		snapshotRepo:  snapshotRepo,
		notifier:      notifier,
	}
}

// IngestBar feeds one 1-minute bar for symbol into its orchestrator,
// lazily bootstrapping the orchestrator from a single-bar seed window
// the first time the symbol is seen (NewAnalyzer needs >= 4 bars, so
// bootstrap passes the bar four times and the repeats collapse into one
// raw bar; every later bar goes through Update).
func (uc *EngineUsecase) IngestBar(bar domain.Bar) error {
	uc.mu.Lock()
	o, ok := uc.orchestrators[bar.Symbol]
	if !ok {
		var err error
		o, err = uc.bootstrap(bar)
		if err != nil {
			uc.mu.Unlock()
			return err
		}
		uc.orchestrators[bar.Symbol] = o
		uc.mu.Unlock()
	} else {
		uc.mu.Unlock()
		if err := o.Update(bar); err != nil {
			return fmt.Errorf("update %s: %w", bar.Symbol, err)
		}
	}

	snap := o.BuildSnapshot()

	uc.mu.Lock()
	prev := uc.prevSnapshots[bar.Symbol]
	uc.prevSnapshots[bar.Symbol] = snap
	uc.mu.Unlock()

	if uc.snapshotRepo != nil {
		uc.snapshotRepo.SaveSnapshot(bar.Symbol, snap)
	}

	events := orchestrator.DetectNewEvents(prev, snap)
	if uc.notifier != nil {
		uc.notifier.NotifyEvents(events)
	}
	return nil
}

// bootstrap seeds a brand-new symbol's orchestrator. NewAnalyzer
// requires four bars minimum per frequency; a single repeated bar
// satisfies that precondition as a same-dt in-progress revision (it
// collapses to one raw bar internally), and every subsequent distinct
// bar then grows the real history through ordinary Update calls.
func (uc *EngineUsecase) bootstrap(bar domain.Bar) (*orchestrator.MultiFreqOrchestrator, error) {
	seed := []domain.Bar{bar, bar, bar, bar}
	initial := map[aggregator.Freq][]domain.Bar{aggregator.Freq1m: seed}
	return orchestrator.NewMultiFreqOrchestrator(bar.Symbol, initial, uc.cfg.BiMode, uc.cfg.MaxRawLen, uc.cfg.MaParams, uc.cfg.MinBiK)
}

// GetSnapshot returns the latest published snapshot for symbol.
func (uc *EngineUsecase) GetSnapshot(symbol string) (domain.Snapshot, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	snap, ok := uc.prevSnapshots[symbol]
	return snap, ok
}

// GetAllSnapshots returns every symbol's latest published snapshot.
func (uc *EngineUsecase) GetAllSnapshots() []domain.Snapshot {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]domain.Snapshot, 0, len(uc.prevSnapshots))
	for _, s := range uc.prevSnapshots {
		out = append(out, s)
	}
	return out
}
