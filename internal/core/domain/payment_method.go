package domain

// PaymentMethodClass groups processor payment instruments by fee behavior.
type PaymentMethodClass string

const (
	MethodCard          PaymentMethodClass = "CARD"
	MethodUSBankAccount PaymentMethodClass = "US_BANK_ACCOUNT"
	MethodWallet        PaymentMethodClass = "WALLET" // Apple Pay / Google Pay variants
)

// PaymentMethodStatus marks whether a saved instrument is still usable.
// Methods are soft-removed: they stay on record while referenced by AutoPay
// schedules or historical payments.
type PaymentMethodStatus string

const (
	MethodActive  PaymentMethodStatus = "ACTIVE"
	MethodRemoved PaymentMethodStatus = "REMOVED"
)

// PaymentMethod is a tokenized, reusable payment instrument saved by a tenant.
// Invariant: at most one active method per tenant has IsDefault == true.
type PaymentMethod struct {
	PaymentMethodID   string              `json:"paymentMethodID"` // Primary key (UUID)
	TenantID          string              `json:"tenantID"`
	ProcessorMethodID string              `json:"processorMethodID"` // Token at the processor
	MethodClass       PaymentMethodClass  `json:"methodClass"`
	Last4             string              `json:"last4,omitempty"`
	Brand             string              `json:"brand,omitempty"` // Card brand or bank name
	Nickname          string              `json:"nickname,omitempty"`
	IsDefault         bool                `json:"isDefault"`
	Status            PaymentMethodStatus `json:"status"`
	AuditFields
}
