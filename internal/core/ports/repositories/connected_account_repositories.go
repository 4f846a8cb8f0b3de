package repositories

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// ConnectedAccountSyncState is the processor-reported snapshot applied by
// status synchronization. It is the only write path for capability flags and
// requirement lists.
type ConnectedAccountSyncState struct {
	Status           domain.ConnectedAccountStatus
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	Requirements     domain.AccountRequirements
	BankLast4        string
	BankName         string
	SnapshotAt       time.Time
}

// ConnectedAccountRepositoryFacade defines persistence operations for the
// one-per-organization processor link. Rows are never deleted.
type ConnectedAccountRepositoryFacade interface {
	SaveConnectedAccount(ctx context.Context, account domain.ConnectedAccount) error
	FindByOrganizationID(ctx context.Context, organizationID string) (*domain.ConnectedAccount, error)
	FindByProcessorAccountID(ctx context.Context, processorAccountID string) (*domain.ConnectedAccount, error)
	// ApplySyncState overwrites capability state if and only if the stored
	// last_synced_at is older than the snapshot (compare-and-swap). Returns
	// false when a newer sync already won.
	ApplySyncState(ctx context.Context, connectedAccountID string, state ConnectedAccountSyncState, updatedBy string) (bool, error)
}
