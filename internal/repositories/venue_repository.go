package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"friendo-service/internal/models"
)

var ErrVenueNotFound = errors.New("venue not found")

const venueColumns = `id, name, city, category, discount, active, created_at, updated_at`

// VenueRepository abstracts partner venue persistence.
type VenueRepository interface {
	ListActiveVenues(ctx context.Context) ([]models.Venue, error)
	ListAllVenues(ctx context.Context) ([]models.Venue, error)
	GetVenue(ctx context.Context, venueID int) (models.Venue, error)
	CreateVenue(ctx context.Context, v models.Venue) (models.Venue, error)
	UpdateVenue(ctx context.Context, v models.Venue) (models.Venue, error)
	DeleteVenue(ctx context.Context, venueID int) error
}

// VenueRepo is a sqlx implementation of VenueRepository.
type VenueRepo struct {
	db *sqlx.DB
}

// NewVenueRepo constructs a VenueRepo.
func NewVenueRepo(db *sqlx.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// ListActiveVenues returns the venues shown to users.
func (r *VenueRepo) ListActiveVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.SelectContext(ctx, &venues, `SELECT `+venueColumns+` FROM venues WHERE active = TRUE ORDER BY city ASC, name ASC`)
	return venues, err
}

// ListAllVenues returns every venue, for the admin panel.
func (r *VenueRepo) ListAllVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.SelectContext(ctx, &venues, `SELECT `+venueColumns+` FROM venues ORDER BY city ASC, name ASC`)
	return venues, err
}

// GetVenue fetches a venue by id.
func (r *VenueRepo) GetVenue(ctx context.Context, venueID int) (models.Venue, error) {
	var v models.Venue
	err := r.db.GetContext(ctx, &v, `SELECT `+venueColumns+` FROM venues WHERE id=$1`, venueID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Venue{}, ErrVenueNotFound
	}
	return v, err
}

// CreateVenue stores a new partner venue.
func (r *VenueRepo) CreateVenue(ctx context.Context, v models.Venue) (models.Venue, error) {
	var created models.Venue
	err := r.db.QueryRowxContext(ctx, `INSERT INTO venues (name, city, category, discount, active)
        VALUES ($1, $2, $3, $4, $5) RETURNING `+venueColumns,
		v.Name, v.City, v.Category, v.Discount, v.Active).
		StructScan(&created)
	return created, err
}

// UpdateVenue rewrites a venue.
func (r *VenueRepo) UpdateVenue(ctx context.Context, v models.Venue) (models.Venue, error) {
	var updated models.Venue
	err := r.db.QueryRowxContext(ctx, `UPDATE venues SET name=$2, city=$3, category=$4, discount=$5, active=$6, updated_at=NOW()
        WHERE id=$1 RETURNING `+venueColumns,
		v.ID, v.Name, v.City, v.Category, v.Discount, v.Active).
		StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Venue{}, ErrVenueNotFound
	}
	return updated, err
}

// DeleteVenue removes a venue.
func (r *VenueRepo) DeleteVenue(ctx context.Context, venueID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id=$1`, venueID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrVenueNotFound
	}
	return nil
}
