package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, same-origin rules don't apply
	},
}

// eventsInterval is how often the pipeline state is polled for changes.
const eventsInterval = 66 * time.Millisecond

// EventsHandler pushes pipeline state over WebSocket. Clients get a
// snapshot on connect and another whenever processing is toggled, a
// session engages or releases, or a command is emitted; quiet frames
// push nothing.
type EventsHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	log     zerolog.Logger
}

// NewEventsHandler creates an EventsHandler feeding from the app.
func NewEventsHandler(a *app.App, log zerolog.Logger) *EventsHandler {
	h := &EventsHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
		log:     log.With().Str("component", "events").Logger(),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// The write lock excludes the broadcaster, so the initial snapshot
	// cannot interleave with a broadcast write on the same connection.
	h.mu.Lock()
	h.clients[conn] = true
	conn.WriteMessage(websocket.TextMessage, payload(h.app.State()))
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by reading messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast polls the pipeline state and pushes it to every client when
// it changes.
func (h *EventsHandler) broadcast() {
	ticker := time.NewTicker(eventsInterval)
	defer ticker.Stop()

	prev := h.app.State()
	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		cur := h.app.State()
		if !stateChanged(prev, cur) {
			continue
		}
		prev = cur

		msg := payload(cur)
		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}

// stateChanged reports whether anything a telemetry client cares about
// differs between two snapshots. Frame counters and motion percentages
// churn every frame and are deliberately ignored.
func stateChanged(prev, cur app.State) bool {
	if prev.Enabled != cur.Enabled || prev.Active != cur.Active {
		return true
	}
	if len(prev.Sessions) != len(cur.Sessions) {
		return true
	}
	for i := range cur.Sessions {
		p, c := prev.Sessions[i], cur.Sessions[i]
		if p.Engaged != c.Engaged || p.EngagementID != c.EngagementID {
			return true
		}
		if p.CommandsEmitted != c.CommandsEmitted {
			return true
		}
	}
	return false
}

func payload(st app.State) []byte {
	msg, _ := json.Marshal(map[string]any{
		"state":     st,
		"timestamp": time.Now().UnixMilli(),
	})
	return msg
}
