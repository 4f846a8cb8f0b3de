package repositories

import (
	"context"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// ChargeRepositoryFacade defines read access to billing obligations. Charges
// are created by the billing collaborator; the payment engine only reads them
// and marks them paid (inside the payment repository's settlement
// transaction).
type ChargeRepositoryFacade interface {
	SaveCharge(ctx context.Context, charge domain.Charge) error
	FindChargesByIDs(ctx context.Context, chargeIDs []string) (map[string]domain.Charge, error)
	ListUnpaidByLease(ctx context.Context, leaseID string, chargeTypes []domain.ChargeType) ([]domain.Charge, error)
}
