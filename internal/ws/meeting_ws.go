package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"friendo-service/internal/meetings"
	"friendo-service/internal/observability"
	"friendo-service/internal/press"
	"friendo-service/internal/repositories"
)

// MeetingWebSocketHandler drives the long-press flow over a websocket and
// streams token updates back. The client reports raw press_start/press_end
// timing; the hold threshold is enforced here so a client cannot skip it.
type MeetingWebSocketHandler struct {
	hub      *Hub
	service  *meetings.Service
	userRepo repositories.UserRepository
}

// NewMeetingWebSocketHandler constructs a MeetingWebSocketHandler.
func NewMeetingWebSocketHandler(hub *Hub, service *meetings.Service, userRepo repositories.UserRepository) *MeetingWebSocketHandler {
	return &MeetingWebSocketHandler{hub: hub, service: service, userRepo: userRepo}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type clientMessage struct {
	Type      string `json:"type"`
	MeetingID int    `json:"meeting_id"`
	Choice    string `json:"choice"`
}

type serverMessage struct {
	Type      string `json:"type"`
	MeetingID int    `json:"meeting_id,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	Tokens    any    `json:"tokens,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Handle upgrades the connection and runs the press protocol until the
// client disconnects.
func (h *MeetingWebSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("friendo-service/ws").Start(c.Request.Context(), "ws.handshake",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.authenticate(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(userID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.tokens", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       "ws_connect",
				"conn_id":     info.ConnID,
				"duration_ms": 0,
				"reason":      "",
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(requestID, traceID))

	// The gin context is recycled and the request context cancelled once
	// this handler returns; the goroutine gets a detached copy that keeps
	// the trace values but outlives the handshake.
	go h.readLoop(context.WithoutCancel(ctx), conn, userID, info)
}

func (h *MeetingWebSocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, userID int, info ConnInfo) {
	write := func(msg serverMessage) {
		if err := h.hub.WriteJSON(conn, msg); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}

	tracker := press.NewTracker(func(meetingID int) {
		prompt, err := h.service.HoldPrompt(ctx, userID, meetingID)
		if err != nil {
			write(serverMessage{Type: "error", MeetingID: meetingID, Error: "could not load meeting: " + err.Error()})
			return
		}
		observability.IncHoldFlow("prompted")
		write(serverMessage{Type: "hold_prompt", MeetingID: meetingID, Prompt: prompt})
	})

	var closeReason string
	defer func() {
		tracker.Cancel()
		h.hub.RemoveClient(userID, conn)
		conn.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		_ = observability.PublishEvent(ctx, "ws_events.tokens", observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_disconnect",
			Payload: map[string]interface{}{
				"ws": map[string]interface{}{
					"event":       "ws_disconnect",
					"conn_id":     info.ConnID,
					"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
					"reason":      closeReason,
				},
				"identity": map[string]interface{}{
					"user_id":   info.UserID,
					"device_id": info.DeviceID,
					"ip":        info.IP,
				},
			},
		}, observability.BuildHeaders(info.RequestID, info.TraceID))
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			write(serverMessage{Type: "error", Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case "press_start":
			if msg.MeetingID == 0 {
				write(serverMessage{Type: "error", Error: "meeting_id required"})
				continue
			}
			tracker.Begin(msg.MeetingID)
		case "press_end":
			tracker.End()
		case "confirm":
			h.resolve(ctx, tracker, userID, msg.Choice, write)
		default:
			write(serverMessage{Type: "error", Error: "unknown message type"})
		}
	}
}

// resolve applies the choice the client made on the hold prompt. The
// tracker must be in its confirming state; stray confirms are ignored.
func (h *MeetingWebSocketHandler) resolve(ctx context.Context, tracker *press.Tracker, userID int, choice string, write func(serverMessage)) {
	meetingID, ok := tracker.ConfirmingMeeting()
	if !ok {
		write(serverMessage{Type: "error", Error: "nothing to confirm"})
		return
	}
	tracker.Resolve()

	switch choice {
	case "dismiss":
		observability.IncHoldFlow("dismissed")
		return
	case "erase":
		row, err := h.service.Erase(ctx, userID, meetingID)
		if err != nil {
			write(serverMessage{Type: "error", MeetingID: meetingID, Error: err.Error()})
			return
		}
		observability.IncHoldFlow("erased")
		write(serverMessage{Type: "tokens_updated", MeetingID: meetingID, Tokens: row})
	case "cancel", "user", "friend":
		var attributedTo *string
		if choice != "cancel" {
			attributedTo = &choice
		}
		_, row, err := h.service.Cancel(ctx, userID, meetingID, attributedTo)
		if err != nil {
			write(serverMessage{Type: "error", MeetingID: meetingID, Error: err.Error()})
			return
		}
		observability.IncHoldFlow("cancelled")
		write(serverMessage{Type: "tokens_updated", MeetingID: meetingID, Tokens: row})
	default:
		write(serverMessage{Type: "error", Error: "unknown choice"})
	}
}

func (h *MeetingWebSocketHandler) authenticate(c *gin.Context) (int, error) {
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
	}
	token = strings.TrimPrefix(token, "Bearer ")

	session, err := h.userRepo.GetSession(c.Request.Context(), token)
	if err != nil {
		return 0, err
	}
	return session.UserID, nil
}
