package models

import "time"

// Venue is a partner venue managed through the admin panel.
type Venue struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Category  string    `db:"category" json:"category"`
	Discount  string    `db:"discount" json:"discount"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
