// Package gateways defines the outbound interfaces to external collaborators:
// the payment processor API and the audit/notification event sink.
package gateways

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AccountStatus values reported by the processor for a connected account.
const (
	ProcessorAccountPending    = "pending"
	ProcessorAccountActive     = "active"
	ProcessorAccountRestricted = "restricted"
	ProcessorAccountRejected   = "rejected"
)

// Charge statuses reported by the processor.
const (
	ChargeStatusSucceeded  = "succeeded"
	ChargeStatusProcessing = "processing"
	ChargeStatusFailed     = "failed"
)

// Account is the processor-side view of a connected account.
type Account struct {
	ID               string
	Status           string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	DisabledReason   string
	CurrentlyDue     []string
	EventuallyDue    []string
	PastDue          []string
	BankLast4        string
	BankName         string
}

// AccountLink is a short-lived onboarding redirect.
type AccountLink struct {
	URL       string
	ExpiresAt time.Time
}

// LoginLink is a one-time express dashboard URL.
type LoginLink struct {
	URL string
}

// Customer is the processor-side payer record.
type Customer struct {
	ID string
}

// SetupSession carries the client secret used to collect a new instrument.
type SetupSession struct {
	SessionID    string
	ClientSecret string
	ExpiresAt    time.Time
}

// MethodToken describes a tokenized payment instrument at the processor.
type MethodToken struct {
	ID    string
	Class string // "card", "us_bank_account", "wallet"
	Last4 string
	Brand string // Card brand or bank name
}

// ChargeRequest asks the processor to charge a payer and route the net amount
// to a connected account as a destination transfer. Amounts are in minor
// units (cents).
type ChargeRequest struct {
	IdempotencyKey        string
	CustomerID            string
	PaymentMethodID       string
	AmountCents           int64 // Total charged to the payer
	NetToDestinationCents int64
	DestinationAccountID  string
	Currency              string
	Description           string
}

// ChargeResult is the processor's answer to a charge submission.
type ChargeResult struct {
	ChargeID      string
	Status        string // succeeded | processing | failed
	DeclineReason string
	ReceiptURL    string
}

// PaymentProcessor is the outbound interface to the payment processor API.
// Implementations must forward IdempotencyKey so retried submissions cannot
// double-charge.
type PaymentProcessor interface {
	CreateAccount(ctx context.Context, businessType, entityType, name string) (*Account, error)
	GetAccount(ctx context.Context, processorAccountID string) (*Account, error)
	CreateAccountLink(ctx context.Context, processorAccountID, refreshURL, returnURL string) (*AccountLink, error)
	CreateLoginLink(ctx context.Context, processorAccountID string) (*LoginLink, error)
	UpdatePayoutDelay(ctx context.Context, processorAccountID string, delayDays int) error

	CreateCustomer(ctx context.Context, tenantID string) (*Customer, error)
	CreateSetupSession(ctx context.Context, customerID string, methodClasses []string, returnURL string) (*SetupSession, error)
	GetPaymentMethod(ctx context.Context, processorMethodID string) (*MethodToken, error)
	AttachPaymentMethod(ctx context.Context, customerID, processorMethodID string) error
	DetachPaymentMethod(ctx context.Context, processorMethodID string) error

	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// APIError is a definitive, processor-reported error (a decline, a rejected
// parameter). It means the processor received and answered the request.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("processor api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// ErrUnavailable marks transport-level failures (timeouts, connection resets)
// where the request outcome is unknown. Callers must NOT treat it as a
// definitive failure once a charge has been submitted.
var ErrUnavailable = errors.New("payment processor unavailable")
