package trust

import (
	"testing"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDerive_NoHistoryIsNew(t *testing.T) {
	now := time.Now().UTC()

	level, minDelay := Derive(0, nil, now)
	assert.Equal(t, domain.TrustNew, level)
	assert.Equal(t, 7, minDelay)

	// A payout count without a first-payout timestamp is treated as no history.
	level, minDelay = Derive(3, nil, now)
	assert.Equal(t, domain.TrustNew, level)
	assert.Equal(t, 7, minDelay)
}

func TestDerive_TierEscalation(t *testing.T) {
	now := time.Now().UTC()
	fortyDaysAgo := now.Add(-40 * 24 * time.Hour)
	hundredDaysAgo := now.Add(-100 * 24 * time.Hour)

	// Enough payouts but too young: still NEW.
	level, minDelay := Derive(10, ptr(now.Add(-5*24*time.Hour)), now)
	assert.Equal(t, domain.TrustNew, level)
	assert.Equal(t, 7, minDelay)

	// Old enough but too few payouts: still NEW.
	level, _ = Derive(2, ptr(hundredDaysAgo), now)
	assert.Equal(t, domain.TrustNew, level)

	level, minDelay = Derive(5, ptr(fortyDaysAgo), now)
	assert.Equal(t, domain.TrustEstablished, level)
	assert.Equal(t, 3, minDelay)

	level, minDelay = Derive(25, ptr(hundredDaysAgo), now)
	assert.Equal(t, domain.TrustTrusted, level)
	assert.Equal(t, 2, minDelay)
}

func TestDerive_FloorNeverZero(t *testing.T) {
	now := time.Now().UTC()
	ancient := now.Add(-10 * 365 * 24 * time.Hour)

	_, minDelay := Derive(10000, ptr(ancient), now)
	assert.GreaterOrEqual(t, minDelay, PlatformDelayFloorDays)
	assert.Greater(t, minDelay, 0, "minimum delay must never reach zero")
}

func ptr(t time.Time) *time.Time { return &t }
