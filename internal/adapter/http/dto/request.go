package dto

import (
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// RegisterRequest represents a request to open a wallet.
type RegisterRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput(meta usecase.RequestMeta) usecase.RegisterInput {
	return usecase.RegisterInput{
		Meta:  meta,
		Name:  r.Name,
		Phone: r.Phone,
		Pin:   r.Pin,
	}
}

// LoginRequest represents login credentials.
type LoginRequest struct {
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput(meta usecase.RequestMeta) usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Meta:  meta,
		Phone: r.Phone,
		Pin:   r.Pin,
	}
}

// SendMoneyRequest represents a transfer to another wallet identified by phone.
// Amount accepts a JSON number or a decimal string.
type SendMoneyRequest struct {
	RecipientIdentifier string        `json:"recipientIdentifier"`
	Amount              *domain.Money `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *SendMoneyRequest) ToUseCaseInput(senderID string, meta usecase.RequestMeta) usecase.TransferToPhoneInput {
	return usecase.TransferToPhoneInput{
		Meta:           meta,
		Amount:         r.Amount,
		SenderID:       senderID,
		RecipientPhone: r.RecipientIdentifier,
	}
}

// DepositRequest represents a deposit into the caller's wallet.
type DepositRequest struct {
	Amount *domain.Money `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(accountID string, meta usecase.RequestMeta) usecase.DepositInput {
	return usecase.DepositInput{
		Meta:      meta,
		Amount:    r.Amount,
		AccountID: accountID,
	}
}
