package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friendo-service/internal/meetings"
	"friendo-service/internal/mocks"
	"friendo-service/internal/models"
)

func setupMeetingRouter(handler *MeetingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/meetings", handler.CreateMeeting)
	r.GET("/meetings/:id", handler.GetMeeting)
	r.POST("/meetings/:id/cancel", handler.CancelMeeting)
	r.DELETE("/meetings/:id", handler.EraseMeeting)
	return r
}

func meetingHandlerFixture(meetingRepo *mocks.MeetingRepositoryMock, friendRepo *mocks.FriendRepositoryMock, checker *mocks.EntitlementCheckerMock) *MeetingHandler {
	svc := meetings.NewService(meetingRepo, friendRepo, checker, nil)
	return NewMeetingHandler(svc, nil)
}

func ptr(s string) *string { return &s }

func upcoming() string {
	return time.Now().AddDate(0, 0, 5).Format("2006-01-02")
}

func TestCreateMeetingSuccess(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, friendRepo, new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	friendRepo.On("GetFriend", mock.Anything, 2).Return(models.Friend{ID: 2, UserID: 1}, nil).Once()
	meetingRepo.On("CreateMeeting", mock.Anything, mock.Anything).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming()}, nil).Once()

	body := bytes.NewBufferString(`{"friend_id":2,"date":"` + upcoming() + `","activity":"coffee"}`)
	req := httptest.NewRequest(http.MethodPost, "/meetings", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	meetingRepo.AssertExpectations(t)
}

func TestCreateMeetingForeignFriend(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, friendRepo, new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	friendRepo.On("GetFriend", mock.Anything, 2).Return(models.Friend{ID: 2, UserID: 9}, nil).Once()

	body := bytes.NewBufferString(`{"friend_id":2,"date":"` + upcoming() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/meetings", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	meetingRepo.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
}

func TestCancelMeetingFreeTier(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	checker := new(mocks.EntitlementCheckerMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), checker)
	router := setupMeetingRouter(handler)

	m := models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming(), Notes: "brunch"}
	cancelled := m
	cancelled.Status = ptr(models.StatusCancelled)
	cancelled.Notes = "[CANCELLED] brunch"

	meetingRepo.On("GetMeeting", mock.Anything, 5).Return(m, nil).Once()
	meetingRepo.On("MarkCancelled", mock.Anything, 5, (*string)(nil)).Return(cancelled, nil).Once()
	meetingRepo.On("ListMeetingsForFriend", mock.Anything, 2).Return([]models.Meeting{cancelled}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/meetings/5/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tokens struct {
			Tokens []struct {
				Color string `json:"color"`
			} `json:"tokens"`
		} `json:"tokens"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Tokens.Tokens, 1)
	require.Equal(t, "red", resp.Tokens.Tokens[0].Color)

	meetingRepo.AssertExpectations(t)
	checker.AssertNotCalled(t, "IsPremiumUser", mock.Anything, mock.Anything)
}

func TestCancelMeetingWithAttribution(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	checker := new(mocks.EntitlementCheckerMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), checker)
	router := setupMeetingRouter(handler)

	m := models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming()}
	cancelled := m
	cancelled.Status = ptr(models.StatusCancelled)
	cancelled.CancelledBy = ptr(models.CancelledByUser)
	cancelled.Notes = "[CANCELLED] "

	checker.On("IsPremiumUser", mock.Anything, 1).Return(true, nil).Once()
	meetingRepo.On("GetMeeting", mock.Anything, 5).Return(m, nil).Once()
	meetingRepo.On("MarkCancelled", mock.Anything, 5, mock.MatchedBy(func(p *string) bool {
		return p != nil && *p == models.CancelledByUser
	})).Return(cancelled, nil).Once()
	meetingRepo.On("ListMeetingsForFriend", mock.Anything, 2).Return([]models.Meeting{cancelled}, nil).Once()

	body := bytes.NewBufferString(`{"cancelled_by":"user"}`)
	req := httptest.NewRequest(http.MethodPost, "/meetings/5/cancel", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tokens struct {
			Tokens []struct {
				Color string `json:"color"`
			} `json:"tokens"`
		} `json:"tokens"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "pink", resp.Tokens.Tokens[0].Color)
	meetingRepo.AssertExpectations(t)
}

func TestCancelMeetingAttributionWithoutPremium(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	checker := new(mocks.EntitlementCheckerMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), checker)
	router := setupMeetingRouter(handler)

	meetingRepo.On("GetMeeting", mock.Anything, 5).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming()}, nil).Once()
	checker.On("IsPremiumUser", mock.Anything, 1).Return(false, nil).Once()

	body := bytes.NewBufferString(`{"cancelled_by":"friend"}`)
	req := httptest.NewRequest(http.MethodPost, "/meetings/5/cancel", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	meetingRepo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelMeetingAlreadyCancelled(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	meetingRepo.On("GetMeeting", mock.Anything, 5).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming(), Notes: "[CANCELLED] x"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/meetings/5/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestEraseMeetingSuccess(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	meetingRepo.On("GetMeeting", mock.Anything, 5).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming(), Notes: "[CANCELLED] x"}, nil).Once()
	meetingRepo.On("DeleteMeeting", mock.Anything, 5).Return(nil).Once()
	meetingRepo.On("ListMeetingsForFriend", mock.Anything, 2).Return([]models.Meeting{}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/meetings/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	meetingRepo.AssertExpectations(t)
}

func TestEraseMeetingNotCancelled(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	meetingRepo.On("GetMeeting", mock.Anything, 5).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming()}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/meetings/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	meetingRepo.AssertNotCalled(t, "DeleteMeeting", mock.Anything, mock.Anything)
}

func TestGetMeetingDisplayNotesStripMarker(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	meetingRepo.On("GetMeeting", mock.Anything, 5).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming(), Notes: "[CANCELLED] picnic"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/meetings/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "picnic", resp["notes"])
	require.Equal(t, "cancelled", resp["status"])
}

func TestCancelMeetingStoreFailureSurfacesError(t *testing.T) {
	meetingRepo := new(mocks.MeetingRepositoryMock)
	handler := meetingHandlerFixture(meetingRepo, new(mocks.FriendRepositoryMock), new(mocks.EntitlementCheckerMock))
	router := setupMeetingRouter(handler)

	meetingRepo.On("GetMeeting", mock.Anything, 5).
		Return(models.Meeting{ID: 5, UserID: 1, FriendID: 2, Date: upcoming()}, nil).Once()
	meetingRepo.On("MarkCancelled", mock.Anything, 5, (*string)(nil)).
		Return(models.Meeting{}, errors.New("connection refused")).Once()

	req := httptest.NewRequest(http.MethodPost, "/meetings/5/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "could not cancel meeting: connection refused", resp["error"])
}
