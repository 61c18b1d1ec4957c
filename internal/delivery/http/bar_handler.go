package http

import (
	"encoding/json"
	"net/http"
	"time"

	"chan-engine/internal/domain"
	"chan-engine/internal/usecase"
)

// BarHandler accepts pushed OHLCV bars and feeds them into the engine.
// Exchange/CSV polling itself stays out of scope; this is the
// collaborator boundary spec.md names for bar ingestion.
type BarHandler struct {
	engine *usecase.EngineUsecase
}

func NewBarHandler(engine *usecase.EngineUsecase) *BarHandler {
	return &BarHandler{engine: engine}
}

// IngestBarRequest mirrors domain.Bar with an RFC3339 timestamp, since
// encoding/json can't parse a bare Unix-less time.Time from a client.
type IngestBarRequest struct {
	Symbol string  `json:"symbol"`
	Dt     string  `json:"dt"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Vol    float64 `json:"vol"`
}

func (h *BarHandler) HandleIngestBar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req IngestBarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	dt, err := time.Parse(time.RFC3339, req.Dt)
	if err != nil {
		http.Error(w, "dt must be RFC3339", http.StatusBadRequest)
		return
	}

	bar := domain.Bar{
		Symbol: req.Symbol,
		Dt:     dt,
		Open:   req.Open,
		High:   req.High,
		Low:    req.Low,
		Close:  req.Close,
		Vol:    req.Vol,
	}

	if err := h.engine.IngestBar(bar); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
