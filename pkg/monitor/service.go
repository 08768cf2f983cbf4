// Package monitor exposes the latest logged sample over HTTP and streams
// every new sample to websocket subscribers. It is read-only: subscribers
// cannot influence the logging session.
package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/samplefeed"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Bench-local tool, no origin restrictions
	},
}

type Hub struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.RWMutex

	latest      *samplefeed.SampleMessage
	latestMutex sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Publish stores the sample as latest and broadcasts it to all subscribers.
func (h *Hub) Publish(sample *samplefeed.SampleMessage) {
	h.latestMutex.Lock()
	h.latest = sample
	h.latestMutex.Unlock()

	h.clientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMutex.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, sample.ToJsonBytes()); err != nil {
			h.removeClient(client)
		}
	}
}

func (h *Hub) Latest() *samplefeed.SampleMessage {
	h.latestMutex.RLock()
	defer h.latestMutex.RUnlock()
	return h.latest
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	h.clients[conn] = true
	h.clientsMutex.Unlock()
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	delete(h.clients, conn)
	h.clientsMutex.Unlock()
	conn.Close()
}

// Serve starts the monitor HTTP listener. Runs until the process exits;
// intended to be called in a goroutine.
func (h *Hub) Serve(address string, port int) {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Power Analyzer Logger Monitor",
			"status":  "running",
		})
	})

	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		sample := h.Latest()
		w.Header().Set("Content-Type", "application/json")
		if sample == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "No samples available yet",
			})
			return
		}
		w.Write(sample.ToJsonBytes())
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn().Err(err).Msg("WebSocket upgrade error")
			return
		}

		h.addClient(conn)

		// Send current sample immediately if available
		if sample := h.Latest(); sample != nil {
			conn.WriteMessage(websocket.TextMessage, sample.ToJsonBytes())
		}

		// Keep connection alive
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				h.removeClient(conn)
				break
			}
		}
	})

	listener := fmt.Sprintf("%s:%d", address, port)
	logging.Info().Str("listener", listener).Msg("Starting monitor endpoint")
	if err := http.ListenAndServe(listener, mux); err != nil {
		logging.Error().Err(err).Msg("Monitor endpoint stopped")
	}
}
