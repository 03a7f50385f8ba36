package models

import "time"

// Subscription billing states, as reported by the purchases provider.
const (
	SubscriptionActive   = "active"
	SubscriptionLapsed   = "lapsed"
	SubscriptionCanceled = "canceled"
)

// Subscription mirrors the purchases-provider state for one user.
type Subscription struct {
	UserID           int        `db:"user_id" json:"user_id"`
	Status           string     `db:"status" json:"status"`
	CurrentPeriodEnd *time.Time `db:"current_period_end" json:"current_period_end,omitempty"`
	AutoRenew        bool       `db:"auto_renew" json:"auto_renew"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
