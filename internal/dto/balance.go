package dto

import "github.com/shopspring/decimal"

type BalanceResponseDTO struct {
	Balance decimal.Decimal `json:"balance" example:"50000"`
}
