package websocket

import (
	"log"
	"net/http"
	"time"

	"chan-engine/internal/usecase"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams one symbol's latest snapshot to a subscribed client,
// polling the engine on a fixed interval rather than pushing on every
// Analyzer.Update (clients want a throttled feed, not a tick-for-tick
// one).
type Handler struct {
	engine *usecase.EngineUsecase
}

func NewHandler(engine *usecase.EngineUsecase) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Printf("New client connected for %s", symbol)

	if snap, ok := h.engine.GetSnapshot(symbol); ok {
		if err := conn.WriteJSON(snap); err != nil {
			log.Println("Write error:", err)
			return
		}
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		snap, ok := h.engine.GetSnapshot(symbol)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(snap); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}
