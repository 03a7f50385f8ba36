package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"friendo-service/internal/meetings"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

// FriendHandler manages the user's friend list and each friend's token row.
type FriendHandler struct {
	friendRepo repositories.FriendRepository
	service    *meetings.Service
}

func NewFriendHandler(friendRepo repositories.FriendRepository, service *meetings.Service) *FriendHandler {
	return &FriendHandler{friendRepo: friendRepo, service: service}
}

// ListFriends returns all friends of the authenticated user.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.GetInt("userID")

	friends, err := h.friendRepo.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list friends"})
		return
	}
	c.JSON(http.StatusOK, friends)
}

// CreateFriend adds a friend.
func (h *FriendHandler) CreateFriend(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Name     string  `json:"name" binding:"required"`
		City     string  `json:"city"`
		Birthday *string `json:"birthday"`
		Notes    string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	friend, err := h.friendRepo.CreateFriend(c.Request.Context(), models.Friend{
		UserID:   userID,
		Name:     req.Name,
		City:     req.City,
		Birthday: req.Birthday,
		Notes:    req.Notes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create friend"})
		return
	}
	c.JSON(http.StatusCreated, friend)
}

// UpdateFriend renames a friend or changes their birthday.
func (h *FriendHandler) UpdateFriend(c *gin.Context) {
	userID := c.GetInt("userID")
	friendID, ok := h.ownedFriend(c, userID)
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		City     string  `json:"city"`
		Birthday *string `json:"birthday"`
		Notes    string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.friendRepo.UpdateFriend(c.Request.Context(), models.Friend{
		ID:       friendID,
		UserID:   userID,
		Name:     req.Name,
		City:     req.City,
		Birthday: req.Birthday,
		Notes:    req.Notes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update friend"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteFriend removes a friend and, through the database cascade, their
// meeting history.
func (h *FriendHandler) DeleteFriend(c *gin.Context) {
	userID := c.GetInt("userID")
	friendID, ok := h.ownedFriend(c, userID)
	if !ok {
		return
	}

	if err := h.friendRepo.DeleteFriend(c.Request.Context(), friendID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete friend"})
		return
	}
	c.Status(http.StatusNoContent)
}

// FriendTokens returns the friend's token row. "?all=true" lifts the
// five-token cap.
func (h *FriendHandler) FriendTokens(c *gin.Context) {
	userID := c.GetInt("userID")
	friendID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return
	}

	showAll := c.Query("all") == "true"
	row, err := h.service.TokenRow(c.Request.Context(), userID, friendID, showAll)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrFriendNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, meetings.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load tokens"})
		}
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *FriendHandler) ownedFriend(c *gin.Context, userID int) (int, bool) {
	friendID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return 0, false
	}

	friend, err := h.friendRepo.GetFriend(c.Request.Context(), friendID)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load friend"})
		}
		return 0, false
	}
	if friend.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "friend does not belong to user"})
		return 0, false
	}
	return friendID, true
}
