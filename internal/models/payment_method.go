package models

// PaymentMethod is the persistence shape of a saved instrument.
type PaymentMethod struct {
	PaymentMethodID   string `db:"payment_method_id"`
	TenantID          string `db:"tenant_id"`
	ProcessorMethodID string `db:"processor_method_id"`
	MethodClass       string `db:"method_class"`
	Last4             string `db:"last4"`
	Brand             string `db:"brand"`
	Nickname          string `db:"nickname"`
	IsDefault         bool   `db:"is_default"`
	Status            string `db:"status"`
	AuditFields
}

// TenantCustomer maps a tenant to their processor customer record.
type TenantCustomer struct {
	TenantID            string `db:"tenant_id"`
	ProcessorCustomerID string `db:"processor_customer_id"`
	AuditFields
}
