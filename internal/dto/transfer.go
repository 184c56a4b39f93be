package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmitTransferRequestDTO struct {
	RecipientAccountID int             `json:"recipient_account_id" example:"1002"`
	Amount             decimal.Decimal `json:"amount" example:"2500.50"`
	Reference          string          `json:"reference,omitempty" example:"rent"`
}

type SubmitTransferResponseDTO struct {
	TransferID int             `json:"transfer_id" example:"1"`
	Amount     decimal.Decimal `json:"amount" example:"2500.5"`
	Fee        decimal.Decimal `json:"fee" example:"6.25"`
	Status     string          `json:"status" example:"COMPLETED"`
	Message    string          `json:"message" example:"Transfer successful"`
}

type TransferDTO struct {
	TransferID    int             `json:"transfer_id" example:"1"`
	FromAccountID int             `json:"from_account_id" example:"1001"`
	ToAccountID   int             `json:"to_account_id" example:"1002"`
	Amount        decimal.Decimal `json:"amount" example:"2500.5"`
	Fee           decimal.Decimal `json:"fee" example:"6.25"`
	Status        string          `json:"status" example:"COMPLETED"`
	Reference     string          `json:"reference" example:"rent"`
	CreatedAt     time.Time       `json:"created_at" example:"2025-01-09T16:09:57+03:00"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty" example:"2025-01-09T16:09:58+03:00"`
}
