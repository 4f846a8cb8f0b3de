// Package processor provides an HTTP client for the payment processor's REST
// API: connected accounts, onboarding links, customers, payment methods, and
// destination charges. Requests are authenticated with a bearer API key and
// money amounts travel as integer minor units.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
)

// Client is a client for the payment processor API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new processor API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ gateways.PaymentProcessor = (*Client)(nil)

type accountPayload struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Capabilities struct {
		ChargesEnabled   bool `json:"chargesEnabled"`
		PayoutsEnabled   bool `json:"payoutsEnabled"`
		DetailsSubmitted bool `json:"detailsSubmitted"`
	} `json:"capabilities"`
	Requirements struct {
		DisabledReason string   `json:"disabledReason"`
		CurrentlyDue   []string `json:"currentlyDue"`
		EventuallyDue  []string `json:"eventuallyDue"`
		PastDue        []string `json:"pastDue"`
	} `json:"requirements"`
	ExternalAccount struct {
		Last4    string `json:"last4"`
		BankName string `json:"bankName"`
	} `json:"externalAccount"`
}

func toAccount(p *accountPayload) *gateways.Account {
	return &gateways.Account{
		ID:               p.ID,
		Status:           p.Status,
		ChargesEnabled:   p.Capabilities.ChargesEnabled,
		PayoutsEnabled:   p.Capabilities.PayoutsEnabled,
		DetailsSubmitted: p.Capabilities.DetailsSubmitted,
		DisabledReason:   p.Requirements.DisabledReason,
		CurrentlyDue:     p.Requirements.CurrentlyDue,
		EventuallyDue:    p.Requirements.EventuallyDue,
		PastDue:          p.Requirements.PastDue,
		BankLast4:        p.ExternalAccount.Last4,
		BankName:         p.ExternalAccount.BankName,
	}
}

// CreateAccount creates a new connected account at the processor.
func (c *Client) CreateAccount(ctx context.Context, businessType, entityType, name string) (*gateways.Account, error) {
	body := map[string]string{
		"businessType": businessType,
		"entityType":   entityType,
		"name":         name,
	}
	var resp accountPayload
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", "", body, &resp); err != nil {
		return nil, err
	}
	return toAccount(&resp), nil
}

// GetAccount retrieves the current capability and requirement state of a
// connected account.
func (c *Client) GetAccount(ctx context.Context, processorAccountID string) (*gateways.Account, error) {
	var resp accountPayload
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+processorAccountID, "", nil, &resp); err != nil {
		return nil, err
	}
	return toAccount(&resp), nil
}

// CreateAccountLink issues a short-lived onboarding redirect URL. Safe to call
// repeatedly; each call returns a fresh link.
func (c *Client) CreateAccountLink(ctx context.Context, processorAccountID, refreshURL, returnURL string) (*gateways.AccountLink, error) {
	body := map[string]string{
		"account":    processorAccountID,
		"refreshUrl": refreshURL,
		"returnUrl":  returnURL,
	}
	var resp struct {
		URL       string    `json:"url"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/account_links", "", body, &resp); err != nil {
		return nil, err
	}
	return &gateways.AccountLink{URL: resp.URL, ExpiresAt: resp.ExpiresAt}, nil
}

// CreateLoginLink issues a one-time express dashboard URL for an active account.
func (c *Client) CreateLoginLink(ctx context.Context, processorAccountID string) (*gateways.LoginLink, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/accounts/"+processorAccountID+"/login_links", "", nil, &resp); err != nil {
		return nil, err
	}
	return &gateways.LoginLink{URL: resp.URL}, nil
}

// UpdatePayoutDelay sets the payout schedule delay on the connected account.
func (c *Client) UpdatePayoutDelay(ctx context.Context, processorAccountID string, delayDays int) error {
	body := map[string]any{
		"payoutSchedule": map[string]any{
			"interval":  "daily",
			"delayDays": delayDays,
		},
	}
	return c.do(ctx, http.MethodPost, "/v1/accounts/"+processorAccountID, "", body, nil)
}

// CreateCustomer creates the processor-side payer record for a tenant.
func (c *Client) CreateCustomer(ctx context.Context, tenantID string) (*gateways.Customer, error) {
	body := map[string]any{
		"metadata": map[string]string{"tenantId": tenantID},
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/customers", "", body, &resp); err != nil {
		return nil, err
	}
	return &gateways.Customer{ID: resp.ID}, nil
}

// CreateSetupSession opens a session for collecting a new payment instrument
// and returns its client secret.
func (c *Client) CreateSetupSession(ctx context.Context, customerID string, methodClasses []string, returnURL string) (*gateways.SetupSession, error) {
	body := map[string]any{
		"customer":           customerID,
		"paymentMethodTypes": methodClasses,
		"returnUrl":          returnURL,
	}
	var resp struct {
		ID           string    `json:"id"`
		ClientSecret string    `json:"clientSecret"`
		ExpiresAt    time.Time `json:"expiresAt"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/setup_sessions", "", body, &resp); err != nil {
		return nil, err
	}
	return &gateways.SetupSession{SessionID: resp.ID, ClientSecret: resp.ClientSecret, ExpiresAt: resp.ExpiresAt}, nil
}

// GetPaymentMethod retrieves a tokenized instrument's class and display data.
func (c *Client) GetPaymentMethod(ctx context.Context, processorMethodID string) (*gateways.MethodToken, error) {
	var resp struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Card struct {
			Last4 string `json:"last4"`
			Brand string `json:"brand"`
		} `json:"card"`
		BankAccount struct {
			Last4    string `json:"last4"`
			BankName string `json:"bankName"`
		} `json:"bankAccount"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/payment_methods/"+processorMethodID, "", nil, &resp); err != nil {
		return nil, err
	}
	token := &gateways.MethodToken{ID: resp.ID, Class: resp.Type}
	if resp.Card.Last4 != "" {
		token.Last4 = resp.Card.Last4
		token.Brand = resp.Card.Brand
	} else {
		token.Last4 = resp.BankAccount.Last4
		token.Brand = resp.BankAccount.BankName
	}
	return token, nil
}

// AttachPaymentMethod attaches a collected instrument to a customer for reuse.
func (c *Client) AttachPaymentMethod(ctx context.Context, customerID, processorMethodID string) error {
	body := map[string]string{"customer": customerID}
	return c.do(ctx, http.MethodPost, "/v1/payment_methods/"+processorMethodID+"/attach", "", body, nil)
}

// DetachPaymentMethod detaches an instrument so it can no longer be charged.
func (c *Client) DetachPaymentMethod(ctx context.Context, processorMethodID string) error {
	return c.do(ctx, http.MethodPost, "/v1/payment_methods/"+processorMethodID+"/detach", "", nil, nil)
}

// CreateCharge charges the payer and routes the net amount to the destination
// connected account in one step. The idempotency key is forwarded so a retried
// submission returns the original charge instead of creating a second one.
func (c *Client) CreateCharge(ctx context.Context, req gateways.ChargeRequest) (*gateways.ChargeResult, error) {
	body := map[string]any{
		"customer":      req.CustomerID,
		"paymentMethod": req.PaymentMethodID,
		"amount":        req.AmountCents,
		"currency":      req.Currency,
		"description":   req.Description,
		"transferData": map[string]any{
			"destination": req.DestinationAccountID,
			"amount":      req.NetToDestinationCents,
		},
	}
	var resp struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		DeclineReason string `json:"declineReason"`
		ReceiptURL    string `json:"receiptUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/charges", req.IdempotencyKey, body, &resp); err != nil {
		return nil, err
	}
	return &gateways.ChargeResult{
		ChargeID:      resp.ID,
		Status:        resp.Status,
		DeclineReason: resp.DeclineReason,
		ReceiptURL:    resp.ReceiptURL,
	}, nil
}

type apiErrorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs one API call. Definitive processor answers (2xx, 4xx) are
// decoded; transport failures are wrapped in gateways.ErrUnavailable so the
// caller can distinguish "the processor said no" from "the outcome is
// unknown".
func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateways.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", gateways.ErrUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: processor returned status %d", gateways.ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorPayload
		if err := json.Unmarshal(raw, &apiErr); err != nil {
			return &gateways.APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: string(raw)}
		}
		return &gateways.APIError{StatusCode: resp.StatusCode, Code: apiErr.Error.Code, Message: apiErr.Error.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
