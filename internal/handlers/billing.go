package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"friendo-service/internal/entitlements"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
	"friendo-service/internal/telemetry"
)

// BillingHandler exposes the user's entitlement and ingests webhooks from
// the purchases provider. The webhook is the only writer of subscription
// state; the service itself never talks to the store.
type BillingHandler struct {
	subsRepo      repositories.SubscriptionRepository
	checker       *entitlements.Checker
	webhookSecret string
	audit         *telemetry.AuditEmitter
}

func NewBillingHandler(subsRepo repositories.SubscriptionRepository, checker *entitlements.Checker, webhookSecret string, audit *telemetry.AuditEmitter) *BillingHandler {
	return &BillingHandler{subsRepo: subsRepo, checker: checker, webhookSecret: webhookSecret, audit: audit}
}

// GetStatus reports whether the authenticated user is premium.
func (h *BillingHandler) GetStatus(c *gin.Context) {
	userID := c.GetInt("userID")

	premium, err := h.checker.IsPremiumUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"premium": premium})
}

// Webhook receives subscription updates from the purchases provider and
// refreshes the entitlement cache.
func (h *BillingHandler) Webhook(c *gin.Context) {
	if c.GetHeader("X-Webhook-Secret") != h.webhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	var req struct {
		UserID           int        `json:"user_id" binding:"required"`
		Status           string     `json:"status" binding:"required"`
		CurrentPeriodEnd *time.Time `json:"current_period_end"`
		AutoRenew        bool       `json:"auto_renew"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.SubscriptionActive, models.SubscriptionLapsed, models.SubscriptionCanceled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown subscription status"})
		return
	}

	sub, err := h.subsRepo.UpsertSubscription(c.Request.Context(), models.Subscription{
		UserID:           req.UserID,
		Status:           req.Status,
		CurrentPeriodEnd: req.CurrentPeriodEnd,
		AutoRenew:        req.AutoRenew,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store subscription"})
		return
	}

	h.checker.Invalidate(c.Request.Context(), req.UserID)

	if h.audit != nil {
		h.audit.Emit(c.Request.Context(), "info", "subscription updated", requestIDFromContext(c), nil)
	}
	c.JSON(http.StatusOK, sub)
}
