package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"friendo-service/internal/models"
	"friendo-service/internal/observability"
)

// Hub maintains active websocket connections, one room per user. A user can
// be connected from several devices at once; token updates reach all of them.
//
// All writes to a connection go through the hub so broadcasts and the press
// protocol never write concurrently; gorilla allows one writer at a time.
type Hub struct {
	rooms    map[int]map[*websocket.Conn]bool
	connInfo map[int]map[*websocket.Conn]ConnInfo
	writeMu  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[int]map[*websocket.Conn]bool),
		connInfo: make(map[int]map[*websocket.Conn]ConnInfo),
		writeMu:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

// AddClient registers a websocket connection to a user's room.
func (h *Hub) AddClient(userID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[userID]; !ok {
		h.rooms[userID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[userID][conn] = true
	if _, ok := h.connInfo[userID]; !ok {
		h.connInfo[userID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[userID][conn] = info
	h.writeMu[conn] = &sync.Mutex{}
}

// RemoveClient removes a websocket connection.
func (h *Hub) RemoveClient(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, userID)
		}
	}
	if infos, ok := h.connInfo[userID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, userID)
		}
	}
	delete(h.writeMu, conn)
}

// WriteJSON sends one message to a single connection, serialized against
// broadcasts on the same connection.
func (h *Hub) WriteJSON(conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.writeConn(conn, payload)
}

// BroadcastTokenEvent pushes a token change to every connection of the user.
func (h *Hub) BroadcastTokenEvent(userID int, event models.TokenEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[userID]))
	for conn := range h.rooms[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := h.writeConn(conn, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.publishWSError(userID, conn, err)
			h.RemoveClient(userID, conn)
		}
	}
}

var errConnNotRegistered = errors.New("connection not registered")

func (h *Hub) writeConn(conn *websocket.Conn, payload []byte) error {
	h.mu.RLock()
	lock, ok := h.writeMu[conn]
	h.mu.RUnlock()
	if !ok {
		return errConnNotRegistered
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *Hub) publishWSError(userID int, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(userID, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.tokens", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}

func (h *Hub) getConnInfo(userID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.connInfo[userID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
