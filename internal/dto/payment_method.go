package dto

import (
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// CreateSetupSessionRequest opens a session for collecting a new instrument.
type CreateSetupSessionRequest struct {
	AllowedMethodClasses []domain.PaymentMethodClass `json:"allowedMethodClasses" binding:"required,min=1,dive,oneof=CARD US_BANK_ACCOUNT WALLET"`
	ReturnURL            string                      `json:"returnUrl" binding:"required,url"`
}

// SetupSessionResponse carries the client secret for the collection UI.
type SetupSessionResponse struct {
	SessionID    string    `json:"sessionID"`
	ClientSecret string    `json:"clientSecret"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// SavePaymentMethodRequest persists an instrument collected in a completed
// setup session.
type SavePaymentMethodRequest struct {
	ProcessorMethodID string `json:"processorMethodID" binding:"required"`
	SetAsDefault      bool   `json:"setAsDefault"`
	Nickname          string `json:"nickname" binding:"max=60"`
}

// UpdateNicknameRequest renames a saved method.
type UpdateNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,max=60"`
}

// PaymentMethodResponse mirrors domain.PaymentMethod for API callers.
type PaymentMethodResponse struct {
	PaymentMethodID string                     `json:"paymentMethodID"`
	MethodClass     domain.PaymentMethodClass  `json:"methodClass"`
	Last4           string                     `json:"last4,omitempty"`
	Brand           string                     `json:"brand,omitempty"`
	Nickname        string                     `json:"nickname,omitempty"`
	IsDefault       bool                       `json:"isDefault"`
	Status          domain.PaymentMethodStatus `json:"status"`
	CreatedAt       time.Time                  `json:"createdAt"`
}

// ListPaymentMethodsResponse wraps a tenant's active methods.
type ListPaymentMethodsResponse struct {
	PaymentMethods []PaymentMethodResponse `json:"paymentMethods"`
}

// ToPaymentMethodResponse converts a domain.PaymentMethod to its DTO.
func ToPaymentMethodResponse(m *domain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		PaymentMethodID: m.PaymentMethodID,
		MethodClass:     m.MethodClass,
		Last4:           m.Last4,
		Brand:           m.Brand,
		Nickname:        m.Nickname,
		IsDefault:       m.IsDefault,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
	}
}

// ToPaymentMethodResponses converts a slice of domain methods to DTOs.
func ToPaymentMethodResponses(methods []domain.PaymentMethod) []PaymentMethodResponse {
	res := make([]PaymentMethodResponse, len(methods))
	for i, m := range methods {
		res[i] = ToPaymentMethodResponse(&m)
	}
	return res
}
