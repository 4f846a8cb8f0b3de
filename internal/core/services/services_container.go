package services

import (
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, processor gateways.PaymentProcessor, events gateways.EventSink) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Organization service first since the payment path consults its policies
	container.OrgService = NewOrganizationService(repos.OrganizationRepo, repos.ConnectedAccountRepo, processor, events)
	container.AccountService = NewConnectedAccountService(repos.ConnectedAccountRepo, repos.OrganizationRepo, processor, events)
	container.MethodService = NewPaymentMethodService(repos.PaymentMethodRepo, repos.AutoPayRepo, processor, events)
	container.PaymentService = NewPaymentService(repos, processor, events, cfg.FeeSplitTenantRatio, cfg.SystemUserID)
	container.AutoPayService = NewAutoPayService(repos.AutoPayRepo, repos.ChargeRepo, repos.PaymentMethodRepo, container.PaymentService, events, cfg.SystemUserID)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.OrganizationSvcFacade     = (*organizationService)(nil)
	_ portssvc.ConnectedAccountSvcFacade = (*connectedAccountService)(nil)
	_ portssvc.PaymentMethodSvcFacade    = (*paymentMethodService)(nil)
	_ portssvc.PaymentSvcFacade          = (*paymentService)(nil)
	_ portssvc.AutoPaySvcFacade          = (*autoPayService)(nil)
)
