package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"friendo-service/internal/cache"
	"friendo-service/internal/models"
	"friendo-service/internal/observability"
	"friendo-service/internal/repositories"
)

const venueCacheKey = "venues:active"

// VenueHandler serves the partner venue list. The public listing is cached
// so repeated opens of the venues screen do not hit the database; admin
// mutations invalidate the cache.
type VenueHandler struct {
	venueRepo repositories.VenueRepository
	store     cache.Store
	ttl       time.Duration
}

func NewVenueHandler(venueRepo repositories.VenueRepository, store cache.Store, ttl time.Duration) *VenueHandler {
	return &VenueHandler{venueRepo: venueRepo, store: store, ttl: ttl}
}

// ListVenues returns active venues, served from cache when fresh.
func (h *VenueHandler) ListVenues(c *gin.Context) {
	var venues []models.Venue

	hit, err := h.store.Get(c.Request.Context(), venueCacheKey, &venues)
	if err != nil {
		log.Printf("venue cache read: %v", err)
	}
	if hit {
		observability.IncVenueCache("hit")
		c.JSON(http.StatusOK, venues)
		return
	}
	observability.IncVenueCache("miss")

	venues, err = h.venueRepo.ListActiveVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list venues"})
		return
	}

	if err := h.store.Set(c.Request.Context(), venueCacheKey, venues, h.ttl); err != nil {
		log.Printf("venue cache write: %v", err)
	}
	c.JSON(http.StatusOK, venues)
}

// ListAllVenues returns every venue, inactive included. Admin only.
func (h *VenueHandler) ListAllVenues(c *gin.Context) {
	venues, err := h.venueRepo.ListAllVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list venues"})
		return
	}
	c.JSON(http.StatusOK, venues)
}

// GetVenue returns one venue, inactive included. Admin only.
func (h *VenueHandler) GetVenue(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	venue, err := h.venueRepo.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load venue"})
		}
		return
	}
	c.JSON(http.StatusOK, venue)
}

// CreateVenue adds a partner venue. Admin only.
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		City     string `json:"city" binding:"required"`
		Category string `json:"category"`
		Discount string `json:"discount"`
		Active   bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue, err := h.venueRepo.CreateVenue(c.Request.Context(), models.Venue{
		Name:     req.Name,
		City:     req.City,
		Category: req.Category,
		Discount: req.Discount,
		Active:   req.Active,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create venue"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusCreated, venue)
}

// UpdateVenue edits a partner venue. Admin only.
func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		City     string `json:"city" binding:"required"`
		Category string `json:"category"`
		Discount string `json:"discount"`
		Active   bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue, err := h.venueRepo.UpdateVenue(c.Request.Context(), models.Venue{
		ID:       venueID,
		Name:     req.Name,
		City:     req.City,
		Category: req.Category,
		Discount: req.Discount,
		Active:   req.Active,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update venue"})
		}
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, venue)
}

// DeleteVenue removes a partner venue. Admin only.
func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	if err := h.venueRepo.DeleteVenue(c.Request.Context(), venueID); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete venue"})
		}
		return
	}

	h.invalidate(c)
	c.Status(http.StatusNoContent)
}

func (h *VenueHandler) invalidate(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), venueCacheKey); err != nil {
		log.Printf("venue cache invalidate: %v", err)
	}
}
