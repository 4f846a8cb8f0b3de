// Package trust derives an organization's payout trust tier from its payout
// track record. Tiers only escalate with history; demotion is an explicit risk
// action taken elsewhere, never an automatic regression here.
package trust

import (
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// PlatformDelayFloorDays is the platform-wide minimum payout delay. It is
// never zero: the delay preserves a chargeback and dispute recovery window.
const PlatformDelayFloorDays = 2

// Tier thresholds.
const (
	establishedMinPayouts = 5
	establishedMinAge     = 30 * 24 * time.Hour
	trustedMinPayouts     = 20
	trustedMinAge         = 90 * 24 * time.Hour

	newDelayFloorDays         = 7
	establishedDelayFloorDays = 3
	trustedDelayFloorDays     = PlatformDelayFloorDays
)

// Derive maps a payout track record to a trust tier and the minimum payout
// delay that tier permits. Pure function; asOf supplies the clock.
func Derive(successfulPayoutCount int, firstSuccessfulPayoutAt *time.Time, asOf time.Time) (domain.TrustLevel, int) {
	if firstSuccessfulPayoutAt == nil || successfulPayoutCount <= 0 {
		return domain.TrustNew, newDelayFloorDays
	}

	age := asOf.Sub(*firstSuccessfulPayoutAt)
	switch {
	case successfulPayoutCount >= trustedMinPayouts && age >= trustedMinAge:
		return domain.TrustTrusted, trustedDelayFloorDays
	case successfulPayoutCount >= establishedMinPayouts && age >= establishedMinAge:
		return domain.TrustEstablished, establishedDelayFloorDays
	default:
		return domain.TrustNew, newDelayFloorDays
	}
}
