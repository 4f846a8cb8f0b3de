package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganizationRepo     OrganizationRepositoryFacade
	ConnectedAccountRepo ConnectedAccountRepositoryFacade
	PaymentMethodRepo    PaymentMethodRepositoryFacade
	ChargeRepo           ChargeRepositoryFacade
	PaymentRepo          PaymentRepositoryFacade
	AutoPayRepo          AutoPayRepositoryFacade
}
