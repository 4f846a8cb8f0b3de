package services

// ServiceContainer holds all service facades for dependency injection into
// handlers and the scheduler.
type ServiceContainer struct {
	OrgService     OrganizationSvcFacade
	AccountService ConnectedAccountSvcFacade
	MethodService  PaymentMethodSvcFacade
	PaymentService PaymentSvcFacade
	AutoPayService AutoPaySvcFacade
}
