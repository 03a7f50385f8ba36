package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"friendo-service/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository abstracts purchases-provider state persistence.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, userID int) (models.Subscription, error)
	UpsertSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error)
}

// SubscriptionRepo is a sqlx implementation of SubscriptionRepository.
type SubscriptionRepo struct {
	db *sqlx.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// GetSubscription fetches the subscription row for a user.
func (r *SubscriptionRepo) GetSubscription(ctx context.Context, userID int) (models.Subscription, error) {
	var s models.Subscription
	err := r.db.GetContext(ctx, &s, `SELECT user_id, status, current_period_end, auto_renew, updated_at FROM subscriptions WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, ErrSubscriptionNotFound
	}
	return s, err
}

// UpsertSubscription writes the provider-reported state, last write wins.
func (r *SubscriptionRepo) UpsertSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	var stored models.Subscription
	err := r.db.QueryRowxContext(ctx, `INSERT INTO subscriptions (user_id, status, current_period_end, auto_renew, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (user_id) DO UPDATE SET status=EXCLUDED.status, current_period_end=EXCLUDED.current_period_end, auto_renew=EXCLUDED.auto_renew, updated_at=NOW()
        RETURNING user_id, status, current_period_end, auto_renew, updated_at`,
		s.UserID, s.Status, s.CurrentPeriodEnd, s.AutoRenew).
		StructScan(&stored)
	return stored, err
}
