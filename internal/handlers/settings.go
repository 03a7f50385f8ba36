package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

// SettingsHandler reads and writes per-user preferences.
type SettingsHandler struct {
	settingsRepo repositories.SettingsRepository
}

func NewSettingsHandler(settingsRepo repositories.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

// GetSettings returns the user's settings, defaults included.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID := c.GetInt("userID")

	settings, err := h.settingsRepo.GetSettings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the user's settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		BirthdayReminders bool   `json:"birthday_reminders"`
		ReminderHour      int    `json:"reminder_hour"`
		Theme             string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ReminderHour < 0 || req.ReminderHour > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reminder_hour must be between 0 and 23"})
		return
	}

	settings, err := h.settingsRepo.UpdateSettings(c.Request.Context(), models.Settings{
		UserID:            userID,
		BirthdayReminders: req.BirthdayReminders,
		ReminderHour:      req.ReminderHour,
		Theme:             req.Theme,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
