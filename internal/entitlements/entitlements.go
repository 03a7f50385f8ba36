package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"friendo-service/internal/cache"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

// Checker answers premium-entitlement lookups through a short-TTL cache.
// The cache is eventually consistent: a user who just purchased premium can
// read as free until the entry expires or the billing webhook invalidates it.
type Checker struct {
	subs  repositories.SubscriptionRepository
	cache cache.Store
	ttl   time.Duration
}

// NewChecker constructs a Checker.
func NewChecker(subs repositories.SubscriptionRepository, store cache.Store, ttl time.Duration) *Checker {
	return &Checker{subs: subs, cache: store, ttl: ttl}
}

// IsPremiumUser reports whether the user holds an active premium
// entitlement. A missing subscription row means free tier.
func (c *Checker) IsPremiumUser(ctx context.Context, userID int) (bool, error) {
	key := cacheKey(userID)

	var cached bool
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	sub, err := c.subs.GetSubscription(ctx, userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		_ = c.cache.Set(ctx, key, false, c.ttl)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	premium := isActive(sub, time.Now())
	_ = c.cache.Set(ctx, key, premium, c.ttl)
	return premium, nil
}

// Invalidate drops the cached answer for a user, called after webhook upserts.
func (c *Checker) Invalidate(ctx context.Context, userID int) {
	_ = c.cache.Delete(ctx, cacheKey(userID))
}

func isActive(sub models.Subscription, now time.Time) bool {
	if sub.Status != models.SubscriptionActive {
		return false
	}
	if sub.CurrentPeriodEnd != nil && now.After(*sub.CurrentPeriodEnd) {
		return false
	}
	return true
}

func cacheKey(userID int) string {
	return fmt.Sprintf("entitlement:premium:%d", userID)
}
