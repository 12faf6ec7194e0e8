// Package api streams chart events to embedding pages over Server-Sent Events.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"barstack/domain/core"
	"barstack/internal"

	"github.com/gin-gonic/gin"
)

const (
	clientBuffer    = 10
	broadcastBuffer = 100
	pingInterval    = 30 * time.Second
)

// HeightEvent tells an embedding frame the chart's new content height.
type HeightEvent struct {
	SessionID string    `json:"session_id"`
	Height    float64   `json:"height"`
	Timestamp time.Time `json:"timestamp"`
}

type sseClient struct {
	sessionID core.SessionID
	channel   chan HeightEvent
	ready     chan struct{}
}

// SSEHub fans height events out to the clients of each viewer session. One goroutine owns
// the client map; sends never block and are dropped when a client is behind.
type SSEHub struct {
	clients    map[core.SessionID]map[chan HeightEvent]bool
	clientsMu  sync.RWMutex
	register   chan sseClient
	unregister chan sseClient
	broadcast  chan HeightEvent
	done       chan struct{}
	closeOnce  sync.Once
	logger     *internal.Logger
}

// NewSSEHub starts a hub.
func NewSSEHub(logger *internal.Logger) *SSEHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	hub := &SSEHub{
		clients:    make(map[core.SessionID]map[chan HeightEvent]bool),
		register:   make(chan sseClient),
		unregister: make(chan sseClient),
		broadcast:  make(chan HeightEvent, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     logger.With("SSE"),
	}

	go hub.run()
	return hub
}

func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[chan HeightEvent]bool)
			}
			h.clients[client.sessionID][client.channel] = true
			h.logger.Debug("client registered for session %s (total clients: %d)",
				client.sessionID, len(h.clients[client.sessionID]))
			h.clientsMu.Unlock()
			close(client.ready)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.sessionID]; exists {
				delete(clients, client.channel)
				if len(clients) == 0 {
					delete(h.clients, client.sessionID)
				}
			}
			h.clientsMu.Unlock()
			close(client.ready)

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients[core.SessionID(event.SessionID)] {
				select {
				case clientChan <- event:
				default:
					h.logger.Warn("client channel full for session %s, skipping event", event.SessionID)
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			return
		}
	}
}

// NotifyHeight implements ports.HeightNotifier.
func (h *SSEHub) NotifyHeight(session core.SessionID, height float64) {
	h.Broadcast(HeightEvent{SessionID: session.String(), Height: height, Timestamp: time.Now()})
}

// Broadcast queues an event for every client of its session.
func (h *SSEHub) Broadcast(event HeightEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping height event for %s", event.SessionID)
	}
}

// Subscribe registers a client for session. The returned func unregisters it.
func (h *SSEHub) Subscribe(session core.SessionID) (<-chan HeightEvent, func()) {
	ch := make(chan HeightEvent, clientBuffer)
	client := sseClient{sessionID: session, channel: ch, ready: make(chan struct{})}
	select {
	case h.register <- client:
		<-client.ready
	case <-h.done:
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			leave := sseClient{sessionID: session, channel: ch, ready: make(chan struct{})}
			select {
			case h.unregister <- leave:
				<-leave.ready
			case <-h.done:
			}
		})
	}
}

// Close stops the hub goroutine.
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HandleSSE streams height events for ?session_id= until the client disconnects.
func (h *SSEHub) HandleSSE(c *gin.Context) {
	session, err := core.ParseSessionID(c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id parameter required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	events, leave := h.Subscribe(session)
	defer leave()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-events:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event: %v", err)
				return true
			}
			h.logger.Trace("height %.0f sent to %s", event.Height, session)
			c.SSEvent("height", string(eventJSON))
			return true

		case <-time.After(pingInterval):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false

		case <-h.done:
			return false
		}
	})
}

// GetActiveSessions returns sessions with connected clients, sorted.
func (h *SSEHub) GetActiveSessions() []core.SessionID {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	sessions := make([]core.SessionID, 0, len(h.clients))
	for sessionID := range h.clients {
		sessions = append(sessions, sessionID)
	}
	slices.Sort(sessions)
	return sessions
}

// GetClientCount returns the number of connected clients for a session.
func (h *SSEHub) GetClientCount(session core.SessionID) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[session])
}
