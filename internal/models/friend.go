package models

import "time"

// Friend is one tracked relationship owned by a user.
type Friend struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Birthday  *string   `db:"birthday" json:"birthday,omitempty"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
