package http

import (
	"encoding/json"
	"net/http"

	"chan-engine/internal/usecase"
)

// SnapshotHandler exposes the engine's latest published state over
// plain HTTP, for clients that don't want a websocket subscription.
type SnapshotHandler struct {
	engine *usecase.EngineUsecase
}

func NewSnapshotHandler(engine *usecase.EngineUsecase) *SnapshotHandler {
	return &SnapshotHandler{engine: engine}
}

func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	w.Header().Set("Content-Type", "application/json")

	if symbol == "" {
		json.NewEncoder(w).Encode(h.engine.GetAllSnapshots())
		return
	}

	snap, ok := h.engine.GetSnapshot(symbol)
	if !ok {
		http.Error(w, "symbol not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(snap)
}
