//go:build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/municipalservices/internal/modules/auth/service"
	"anoa.com/municipalservices/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLoginLimiter(t *testing.T) {
	rdb := testutil.NewRedis(t)
	limiter := service.NewLoginLimiter(rdb, 2, time.Minute)
	ctx := context.Background()

	allowed, _, err := limiter.Allow(ctx, "clerk@city.gov")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, limiter.RecordFailure(ctx, "Clerk@City.gov"))
	require.NoError(t, limiter.RecordFailure(ctx, "Clerk@City.gov"))

	allowed, _, err = limiter.Allow(ctx, "clerk@city.gov")
	require.NoError(t, err)
	assert.True(t, allowed, "failures against another spelling do not lock this login")

	require.NoError(t, limiter.RecordFailure(ctx, "clerk@city.gov"))
	require.NoError(t, limiter.RecordFailure(ctx, "clerk@city.gov"))

	allowed, retryAfter, err := limiter.Allow(ctx, "clerk@city.gov")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)

	require.NoError(t, limiter.Reset(ctx, "clerk@city.gov"))
	allowed, _, err = limiter.Allow(ctx, "clerk@city.gov")
	require.NoError(t, err)
	assert.True(t, allowed)
}
