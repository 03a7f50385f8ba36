package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friendo-service/internal/cache"
	"friendo-service/internal/mocks"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

func setupVenueRouter(handler *VenueHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/venues", handler.ListVenues)
	r.GET("/admin/venues/:id", handler.GetVenue)
	r.POST("/admin/venues", handler.CreateVenue)
	r.PUT("/admin/venues/:id", handler.UpdateVenue)
	return r
}

func TestListVenuesCachesResult(t *testing.T) {
	venueRepo := new(mocks.VenueRepositoryMock)
	handler := NewVenueHandler(venueRepo, cache.NewMemory(), 5*time.Minute)
	router := setupVenueRouter(handler)

	venueRepo.On("ListActiveVenues", mock.Anything).
		Return([]models.Venue{{ID: 1, Name: "Cafe Aurora", City: "Lisbon", Active: true}}, nil).Once()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/venues", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var venues []models.Venue
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&venues))
		require.Len(t, venues, 1)
	}

	// Only the first request reaches the repository.
	venueRepo.AssertNumberOfCalls(t, "ListActiveVenues", 1)
}

func TestCreateVenueInvalidatesCache(t *testing.T) {
	venueRepo := new(mocks.VenueRepositoryMock)
	store := cache.NewMemory()
	handler := NewVenueHandler(venueRepo, store, 5*time.Minute)
	router := setupVenueRouter(handler)

	venueRepo.On("ListActiveVenues", mock.Anything).
		Return([]models.Venue{{ID: 1, Name: "Cafe Aurora"}}, nil)
	venueRepo.On("CreateVenue", mock.Anything, mock.Anything).
		Return(models.Venue{ID: 2, Name: "River Bar", Active: true}, nil).Once()

	// Prime the cache.
	req := httptest.NewRequest(http.MethodGet, "/venues", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	body := bytes.NewBufferString(`{"name":"River Bar","city":"Porto","active":true}`)
	req = httptest.NewRequest(http.MethodPost, "/admin/venues", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The next listing misses the cache and hits the repository again.
	req = httptest.NewRequest(http.MethodGet, "/venues", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	venueRepo.AssertNumberOfCalls(t, "ListActiveVenues", 2)
}

func TestGetVenueByID(t *testing.T) {
	venueRepo := new(mocks.VenueRepositoryMock)
	handler := NewVenueHandler(venueRepo, cache.NewMemory(), 5*time.Minute)
	router := setupVenueRouter(handler)

	venueRepo.On("GetVenue", mock.Anything, 7).
		Return(models.Venue{ID: 7, Name: "Cafe Aurora", City: "Lisbon", Active: false}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin/venues/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var venue models.Venue
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&venue))
	require.Equal(t, 7, venue.ID)
	require.False(t, venue.Active)
}

func TestGetVenueNotFound(t *testing.T) {
	venueRepo := new(mocks.VenueRepositoryMock)
	handler := NewVenueHandler(venueRepo, cache.NewMemory(), 5*time.Minute)
	router := setupVenueRouter(handler)

	venueRepo.On("GetVenue", mock.Anything, 99).
		Return(models.Venue{}, repositories.ErrVenueNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin/venues/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateVenueValidation(t *testing.T) {
	venueRepo := new(mocks.VenueRepositoryMock)
	handler := NewVenueHandler(venueRepo, cache.NewMemory(), 5*time.Minute)
	router := setupVenueRouter(handler)

	body := bytes.NewBufferString(`{"city":"Porto"}`)
	req := httptest.NewRequest(http.MethodPut, "/admin/venues/1", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	venueRepo.AssertNotCalled(t, "UpdateVenue", mock.Anything, mock.Anything)
}
