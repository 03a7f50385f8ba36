package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"friendo-service/internal/meetings"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
	"friendo-service/internal/status"
	"friendo-service/internal/telemetry"
)

// MeetingHandler exposes the meeting lifecycle over REST. The websocket
// press flow drives the same meetings.Service; these endpoints are the
// plain request/response face of it.
type MeetingHandler struct {
	service *meetings.Service
	audit   *telemetry.AuditEmitter
}

func NewMeetingHandler(service *meetings.Service, audit *telemetry.AuditEmitter) *MeetingHandler {
	return &MeetingHandler{service: service, audit: audit}
}

// CreateMeeting schedules a meeting with a friend.
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		FriendID int    `json:"friend_id" binding:"required"`
		Date     string `json:"date" binding:"required"`
		Activity string `json:"activity"`
		Venue    string `json:"venue"`
		City     string `json:"city"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Schedule(c.Request.Context(), userID, models.Meeting{
		FriendID: req.FriendID,
		Date:     req.Date,
		Activity: req.Activity,
		Venue:    req.Venue,
		City:     req.City,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeServiceError(c, err, "could not schedule meeting")
		return
	}

	if h.audit != nil {
		h.audit.Emit(c.Request.Context(), "info", "meeting scheduled", requestIDFromContext(c), userIDFromContext(c))
	}
	c.JSON(http.StatusCreated, created)
}

// GetMeeting returns one meeting with its derived status and display notes.
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	userID := c.GetInt("userID")
	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	m, derived, err := h.service.Get(c.Request.Context(), userID, meetingID)
	if err != nil {
		h.writeServiceError(c, err, "could not load meeting")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meeting": m,
		"status":  derived.Status,
		"notes":   status.DisplayNotes(m.Notes),
		"token":   status.TokenFor(m, derived),
		"detail":  status.Detail(m, derived),
	})
}

// CancelMeeting cancels a meeting. An optional "cancelled_by" field carries
// premium attribution; free-tier requests omit it.
func (h *MeetingHandler) CancelMeeting(c *gin.Context) {
	userID := c.GetInt("userID")
	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	var req struct {
		CancelledBy *string `json:"cancelled_by"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cancelled, row, err := h.service.Cancel(c.Request.Context(), userID, meetingID, req.CancelledBy)
	if err != nil {
		h.writeServiceError(c, err, "could not cancel meeting")
		return
	}

	if h.audit != nil {
		h.audit.Emit(c.Request.Context(), "info", "meeting cancelled", requestIDFromContext(c), userIDFromContext(c))
	}
	c.JSON(http.StatusOK, gin.H{"meeting": cancelled, "tokens": row})
}

// EraseMeeting permanently deletes a cancelled meeting.
func (h *MeetingHandler) EraseMeeting(c *gin.Context) {
	userID := c.GetInt("userID")
	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	row, err := h.service.Erase(c.Request.Context(), userID, meetingID)
	if err != nil {
		h.writeServiceError(c, err, "could not erase meeting")
		return
	}

	if h.audit != nil {
		h.audit.Emit(c.Request.Context(), "warning", "meeting erased", requestIDFromContext(c), userIDFromContext(c))
	}
	c.JSON(http.StatusOK, gin.H{"tokens": row})
}

func (h *MeetingHandler) writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repositories.ErrMeetingNotFound), errors.Is(err, repositories.ErrFriendNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, meetings.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, meetings.ErrPremiumRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, meetings.ErrAlreadyCancelled), errors.Is(err, meetings.ErrNotCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, meetings.ErrBadAttribution):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Store failures surface the raw error text after a stable prefix.
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback + ": " + err.Error()})
	}
}
