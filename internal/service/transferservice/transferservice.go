package transferservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmalakhov/banksettle/internal/domain"
	"github.com/vmalakhov/banksettle/internal/idempotency"
	"go.uber.org/zap"
)

type AccountRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Account, error)
	GetByID(ctx context.Context, accountID int) (*domain.Account, error)
}

type TransferRepo interface {
	Create(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error)
	GetByID(ctx context.Context, transferID int) (*domain.Transfer, error)
	ListForAccount(ctx context.Context, accountID int, limit int) ([]domain.Transfer, error)
	Settle(ctx context.Context, transferID int) (*domain.Transfer, error)
	MarkFailed(ctx context.Context, transferID int, reason string) error
}

// Guard suppresses duplicate submissions within a short window.
type Guard interface {
	CheckAndRecord(fingerprint string) bool
}

type FeeCalculator interface {
	Fee(amount decimal.Decimal) decimal.Decimal
}

// Recorder is the fire-and-forget audit sink.
type Recorder interface {
	Record(operation string, userID *int, details string)
}

const (
	maxReferenceLen     = 200
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

type Service struct {
	accountRepo  AccountRepo
	transferRepo TransferRepo
	guard        Guard
	fees         FeeCalculator
	audit        Recorder
}

func New(accountRepo AccountRepo, transferRepo TransferRepo, guard Guard, fees FeeCalculator, audit Recorder) *Service {
	return &Service{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		guard:        guard,
		fees:         fees,
		audit:        audit,
	}
}

// Result is what a settled submission reports back to the caller.
type Result struct {
	TransferID int
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	Status     string
}

// SubmitTransfer validates the request, computes the fee, persists a PENDING
// transfer and settles it atomically. Validation failures never create a
// transfer row; a settlement failure leaves a committed FAILED row behind.
func (s *Service) SubmitTransfer(ctx context.Context, userID, recipientAccountID int, amount decimal.Decimal, reference string) (*Result, error) {
	sender, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Errorf(domain.ErrPersistence, "sender account lookup failed")
	}
	if sender == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "sender account")
	}

	if amount.Sign() <= 0 {
		return nil, domain.Errorf(domain.ErrValidation, "transfer amount must be positive")
	}
	if len(reference) > maxReferenceLen {
		return nil, domain.Errorf(domain.ErrValidation, "reference message too long (max %d characters)", maxReferenceLen)
	}
	amount = amount.Round(2)

	fingerprint := idempotency.Fingerprint(userID, recipientAccountID, amount, reference)
	if !s.guard.CheckAndRecord(fingerprint) {
		zap.L().Info("rejecting duplicate transfer", zap.Int("user_id", userID), zap.Int("recipient", recipientAccountID))
		return nil, domain.Errorf(domain.ErrDuplicateRequest, "duplicate transfer detected, retry after a few seconds")
	}

	recipient, err := s.accountRepo.GetByID(ctx, recipientAccountID)
	if err != nil {
		return nil, domain.Errorf(domain.ErrPersistence, "recipient account lookup failed")
	}
	if recipient == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "recipient account")
	}
	if sender.ID == recipient.ID {
		return nil, domain.Errorf(domain.ErrValidation, "self-transfer")
	}

	fee := s.fees.Fee(amount)

	// The PENDING row goes in before any funds move so the attempt stays
	// queryable even if settlement fails.
	transfer := &domain.Transfer{
		FromAccountID: sender.ID,
		ToAccountID:   recipient.ID,
		Amount:        amount,
		Fee:           fee,
		Status:        domain.PendingTransferStatus,
		Reference:     reference,
		CreatedAt:     time.Now(),
	}
	if _, err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, domain.Errorf(domain.ErrPersistence, "transfer creation failed")
	}

	settled, err := s.transferRepo.Settle(ctx, transfer.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrNotFound) {
			// Terminal FAILED row is already committed.
			s.audit.Record("TRANSFER_FAILED", &userID, fmt.Sprintf("Transfer ID %d: %v", transfer.ID, err))
			return nil, err
		}
		zap.L().Error("settlement aborted", zap.Int("transfer_id", transfer.ID), zap.Error(err))
		if markErr := s.transferRepo.MarkFailed(ctx, transfer.ID, " [Error: settlement aborted]"); markErr != nil {
			zap.L().Error("can't fail aborted transfer", zap.Int("transfer_id", transfer.ID), zap.Error(markErr))
		}
		s.audit.Record("TRANSFER_FAILED", &userID, fmt.Sprintf("Transfer ID %d: transaction failed", transfer.ID))
		return nil, domain.Errorf(domain.ErrPersistence, "settlement failed")
	}

	s.audit.Record("TRANSFER_SUCCESS", &userID,
		fmt.Sprintf("Transfer ID %d: %s to account %d, fee %s",
			settled.ID, settled.Amount.StringFixed(2), settled.ToAccountID, settled.Fee.StringFixed(2)))
	zap.L().Info("transfer completed",
		zap.Int("transfer_id", settled.ID),
		zap.String("amount", settled.Amount.StringFixed(2)),
		zap.String("fee", settled.Fee.StringFixed(2)))

	return &Result{
		TransferID: settled.ID,
		Amount:     settled.Amount,
		Fee:        settled.Fee,
		Status:     settled.Status,
	}, nil
}

func (s *Service) GetBalance(ctx context.Context, userID int) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, domain.Errorf(domain.ErrPersistence, "account lookup failed")
	}
	if account == nil {
		return decimal.Zero, domain.Errorf(domain.ErrNotFound, "account")
	}
	s.audit.Record("BALANCE_QUERY", &userID, fmt.Sprintf("Balance queried: %s", account.Balance.StringFixed(2)))
	return account.Balance, nil
}

// GetTransfer returns any transfer by id. Visibility is not restricted to
// the caller's own transfers.
func (s *Service) GetTransfer(ctx context.Context, userID, transferID int) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, domain.Errorf(domain.ErrPersistence, "transfer lookup failed")
	}
	if transfer == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "transfer")
	}
	s.audit.Record("TRANSFER_STATUS_QUERY", &userID, fmt.Sprintf("Queried status for transfer ID %d", transferID))
	return transfer, nil
}

func (s *Service) GetTransactionHistory(ctx context.Context, userID, limit int) ([]domain.Transfer, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Errorf(domain.ErrPersistence, "account lookup failed")
	}
	if account == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "account")
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	transfers, err := s.transferRepo.ListForAccount(ctx, account.ID, limit)
	if err != nil {
		return nil, domain.Errorf(domain.ErrPersistence, "history lookup failed")
	}
	s.audit.Record("TRANSACTION_HISTORY_QUERY", &userID,
		fmt.Sprintf("User queried transaction history (found %d items)", len(transfers)))
	return transfers, nil
}
