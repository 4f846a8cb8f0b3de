package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrganizationRepo:     newPgxOrganizationRepository(dbPool),
		ConnectedAccountRepo: newPgxConnectedAccountRepository(dbPool),
		PaymentMethodRepo:    newPgxPaymentMethodRepository(dbPool),
		ChargeRepo:           newPgxChargeRepository(dbPool),
		PaymentRepo:          newPgxPaymentRepository(dbPool),
		AutoPayRepo:          newPgxAutoPayRepository(dbPool),
	}
}
