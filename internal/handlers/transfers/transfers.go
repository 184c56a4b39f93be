package transfers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vmalakhov/banksettle/internal/domain"
	"github.com/vmalakhov/banksettle/internal/dto"
	transferservice "github.com/vmalakhov/banksettle/internal/service/transferservice"
	"github.com/vmalakhov/banksettle/pkg/auth"
	"github.com/vmalakhov/banksettle/pkg/utils"
)

type Service interface {
	SubmitTransfer(ctx context.Context, userID, recipientAccountID int, amount decimal.Decimal, reference string) (*transferservice.Result, error)
	GetTransfer(ctx context.Context, userID, transferID int) (*domain.Transfer, error)
	GetTransactionHistory(ctx context.Context, userID, limit int) ([]domain.Transfer, error)
}

type TransferHandler struct {
	transferService Service
}

func New(transferService Service) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// SubmitTransfer godoc
//
//	@Summary		Submit a fund transfer
//	@Description	Move funds from the caller's account to the recipient account, charging a tiered fee
//	@Tags			Transfers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SubmitTransferRequestDTO	true	"Transfer request payload"
//	@Success		200		{object}	dto.SubmitTransferResponseDTO	"Transfer settled"
//	@Failure		400		{object}	utils.Response					"Validation failure"
//	@Failure		401		{object}	utils.Response					"User not authorized"
//	@Failure		402		{object}	utils.Response					"Insufficient balance"
//	@Failure		404		{object}	utils.Response					"Recipient account not found"
//	@Failure		409		{object}	utils.Response					"Duplicate submission"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/transfers [post]
func (h *TransferHandler) SubmitTransfer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.SubmitTransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.transferService.SubmitTransfer(r.Context(), userID, req.RecipientAccountID, req.Amount, req.Reference)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.SubmitTransferResponseDTO{
		TransferID: result.TransferID,
		Amount:     result.Amount,
		Fee:        result.Fee,
		Status:     result.Status,
		Message:    "Transfer successful",
	})
}

// GetTransfer godoc
//
//	@Summary		Get a transfer by id
//	@Description	Retrieve a transfer record with its settlement status. Any authenticated caller may query any transfer id (known authorization gap).
//	@Tags			Transfers
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Transfer id"
//	@Success		200	{object}	dto.TransferDTO	"Transfer record"
//	@Failure		400	{object}	utils.Response	"Invalid transfer id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Transfer not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/transfers/{id} [get]
func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	transferID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid transfer id")
		return
	}

	transfer, err := h.transferService.GetTransfer(r.Context(), userID, transferID)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toTransferDTO(*transfer))
}

// GetTransactionHistory godoc
//
//	@Summary		Get transaction history
//	@Description	List transfers where the caller's account is source or destination, newest first
//	@Tags			Transfers
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int				false	"Maximum records to return (default 50, cap 100)"
//	@Success		200		{array}		dto.TransferDTO	"Transaction history"
//	@Success		204		{object}	utils.Response	"No transactions found"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/transfers [get]
func (h *TransferHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transfers, err := h.transferService.GetTransactionHistory(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	if len(transfers) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No transactions found")
		return
	}

	response := make([]dto.TransferDTO, len(transfers))
	for i, transfer := range transfers {
		response[i] = toTransferDTO(transfer)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toTransferDTO(transfer domain.Transfer) dto.TransferDTO {
	return dto.TransferDTO{
		TransferID:    transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        transfer.Amount,
		Fee:           transfer.Fee,
		Status:        transfer.Status,
		Reference:     transfer.Reference,
		CreatedAt:     transfer.CreatedAt,
		CompletedAt:   transfer.CompletedAt,
	}
}
