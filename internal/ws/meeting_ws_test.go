package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friendo-service/internal/meetings"
	"friendo-service/internal/mocks"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

// The handshake handler returns as soon as the read loop is started; the
// press protocol must keep working on the detached context afterwards.
func TestPressProtocolOutlivesHandshake(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userRepo := new(mocks.UserRepositoryMock)
	meetingRepo := new(mocks.MeetingRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	checker := new(mocks.EntitlementCheckerMock)

	userRepo.On("GetSession", mock.Anything, "tok-1").
		Return(models.Session{Token: "tok-1", UserID: 1}, nil)

	hub := NewHub()
	service := meetings.NewService(meetingRepo, friendRepo, checker, hub)
	handler := NewMeetingWebSocketHandler(hub, service, userRepo)

	router := gin.New()
	router.GET("/ws/meetings", handler.Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/meetings"
	header := http.Header{"Authorization": []string{"Bearer tok-1"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	// A quick tap released before the hold threshold, then a stray confirm.
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "press_start", MeetingID: 3}))
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "press_end"}))
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "confirm", Choice: "cancel"}))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var reply serverMessage
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "error", reply.Type)
	require.Equal(t, "nothing to confirm", reply.Error)

	meetingRepo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userRepo := new(mocks.UserRepositoryMock)
	userRepo.On("GetSession", mock.Anything, "bad").
		Return(models.Session{}, repositories.ErrSessionNotFound)

	handler := NewMeetingWebSocketHandler(NewHub(), nil, userRepo)
	router := gin.New()
	router.GET("/ws/meetings", handler.Handle)

	req := httptest.NewRequest(http.MethodGet, "/ws/meetings?token=bad", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
