package entitlements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friendo-service/internal/cache"
	"friendo-service/internal/mocks"
	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

func TestIsPremiumUserActiveSubscription(t *testing.T) {
	subs := new(mocks.SubscriptionRepositoryMock)
	checker := NewChecker(subs, cache.NewMemory(), time.Minute)

	end := time.Now().Add(24 * time.Hour)
	subs.On("GetSubscription", mock.Anything, 1).
		Return(models.Subscription{UserID: 1, Status: models.SubscriptionActive, CurrentPeriodEnd: &end}, nil).Once()

	premium, err := checker.IsPremiumUser(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, premium)

	// Second lookup is served from the cache; the mock allows one call only.
	premium, err = checker.IsPremiumUser(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, premium)
	subs.AssertExpectations(t)
}

func TestIsPremiumUserNoSubscriptionIsFree(t *testing.T) {
	subs := new(mocks.SubscriptionRepositoryMock)
	checker := NewChecker(subs, cache.NewMemory(), time.Minute)

	subs.On("GetSubscription", mock.Anything, 2).
		Return(models.Subscription{}, repositories.ErrSubscriptionNotFound).Once()

	premium, err := checker.IsPremiumUser(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, premium)
	subs.AssertExpectations(t)
}

func TestIsPremiumUserExpiredPeriod(t *testing.T) {
	subs := new(mocks.SubscriptionRepositoryMock)
	checker := NewChecker(subs, cache.NewMemory(), time.Minute)

	end := time.Now().Add(-time.Hour)
	subs.On("GetSubscription", mock.Anything, 3).
		Return(models.Subscription{UserID: 3, Status: models.SubscriptionActive, CurrentPeriodEnd: &end}, nil).Once()

	premium, err := checker.IsPremiumUser(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, premium)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	subs := new(mocks.SubscriptionRepositoryMock)
	checker := NewChecker(subs, cache.NewMemory(), time.Minute)

	subs.On("GetSubscription", mock.Anything, 4).
		Return(models.Subscription{}, repositories.ErrSubscriptionNotFound).Once()
	premium, err := checker.IsPremiumUser(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, premium)

	checker.Invalidate(context.Background(), 4)

	subs.On("GetSubscription", mock.Anything, 4).
		Return(models.Subscription{UserID: 4, Status: models.SubscriptionActive}, nil).Once()
	premium, err = checker.IsPremiumUser(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, premium)
	subs.AssertExpectations(t)
}
