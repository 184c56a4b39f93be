package transferservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vmalakhov/banksettle/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockAccountRepo, *MockTransferRepo, *MockGuard, *MockFeeCalculator, *MockRecorder) {
	ctrl := gomock.NewController(t)
	accountRepo := NewMockAccountRepo(ctrl)
	transferRepo := NewMockTransferRepo(ctrl)
	guard := NewMockGuard(ctrl)
	fees := NewMockFeeCalculator(ctrl)
	audit := NewMockRecorder(ctrl)

	service := New(accountRepo, transferRepo, guard, fees, audit)
	defer ctrl.Finish()
	return service, accountRepo, transferRepo, guard, fees, audit
}

func TestSubmitTransfer(t *testing.T) {
	service, accountRepo, transferRepo, guard, fees, audit := NewMock(t)
	ctx := context.Background()

	sender := &domain.Account{ID: 1001, UserID: 1, Balance: decimal.RequireFromString("50000.00")}
	recipient := &domain.Account{ID: 1002, UserID: 2, Balance: decimal.RequireFromString("75000.00")}

	tests := []struct {
		name           string
		recipientID    int
		amount         string
		reference      string
		prepareMock    func()
		expectedResult *Result
		expectedError  error
	}{
		{
			name:        "Successful transfer",
			recipientID: 1002,
			amount:      "3333.33",
			reference:   "rent",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1002).Return(recipient, nil)
				fees.EXPECT().Fee(decimal.RequireFromString("3333.33")).Return(decimal.RequireFromString("8.33"))
				transferRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
					assert.Equal(t, 1001, transfer.FromAccountID)
					assert.Equal(t, 1002, transfer.ToAccountID)
					assert.Equal(t, domain.PendingTransferStatus, transfer.Status)
					transfer.ID = 7
					return transfer, nil
				})
				transferRepo.EXPECT().Settle(ctx, 7).Return(&domain.Transfer{
					ID:            7,
					FromAccountID: 1001,
					ToAccountID:   1002,
					Amount:        decimal.RequireFromString("3333.33"),
					Fee:           decimal.RequireFromString("8.33"),
					Status:        domain.CompletedTransferStatus,
				}, nil)
				audit.EXPECT().Record("TRANSFER_SUCCESS", gomock.Any(), "Transfer ID 7: 3333.33 to account 1002, fee 8.33")
			},
			expectedResult: &Result{
				TransferID: 7,
				Amount:     decimal.RequireFromString("3333.33"),
				Fee:        decimal.RequireFromString("8.33"),
				Status:     domain.CompletedTransferStatus,
			},
		},
		{
			name:        "Sender lookup error",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(nil, errors.New("database error"))
			},
			expectedError: domain.ErrPersistence,
		},
		{
			name:        "Sender account missing",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:        "Zero amount",
			recipientID: 1002,
			amount:      "0.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name:        "Negative amount",
			recipientID: 1002,
			amount:      "-5.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name:        "Reference too long",
			recipientID: 1002,
			amount:      "100.00",
			reference:   strings.Repeat("x", 201),
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name:        "Duplicate submission",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(false)
			},
			expectedError: domain.ErrDuplicateRequest,
		},
		{
			name:        "Recipient lookup error",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1002).Return(nil, errors.New("database error"))
			},
			expectedError: domain.ErrPersistence,
		},
		{
			name:        "Recipient account missing",
			recipientID: 9999,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 9999).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:        "Self-transfer",
			recipientID: 1001,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1001).Return(sender, nil)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name:        "Transfer creation error",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1002).Return(recipient, nil)
				fees.EXPECT().Fee(gomock.Any()).Return(decimal.Zero)
				transferRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedError: domain.ErrPersistence,
		},
		{
			name:        "Insufficient funds",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1002).Return(recipient, nil)
				fees.EXPECT().Fee(gomock.Any()).Return(decimal.Zero)
				transferRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
					transfer.ID = 8
					return transfer, nil
				})
				transferRepo.EXPECT().Settle(ctx, 8).Return(nil, domain.Errorf(domain.ErrInsufficientFunds, "insufficient funds"))
				audit.EXPECT().Record("TRANSFER_FAILED", gomock.Any(), gomock.Any())
			},
			expectedError: domain.ErrInsufficientFunds,
		},
		{
			name:        "Settlement aborted by store error",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1002).Return(recipient, nil)
				fees.EXPECT().Fee(gomock.Any()).Return(decimal.Zero)
				transferRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
					transfer.ID = 9
					return transfer, nil
				})
				transferRepo.EXPECT().Settle(ctx, 9).Return(nil, errors.New("connection reset"))
				transferRepo.EXPECT().MarkFailed(ctx, 9, " [Error: settlement aborted]").Return(nil)
				audit.EXPECT().Record("TRANSFER_FAILED", gomock.Any(), "Transfer ID 9: transaction failed")
			},
			expectedError: domain.ErrPersistence,
		},
		{
			name:        "Settlement aborted and marking fails too",
			recipientID: 1002,
			amount:      "100.00",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
				guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
				accountRepo.EXPECT().GetByID(ctx, 1002).Return(recipient, nil)
				fees.EXPECT().Fee(gomock.Any()).Return(decimal.Zero)
				transferRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
					transfer.ID = 10
					return transfer, nil
				})
				transferRepo.EXPECT().Settle(ctx, 10).Return(nil, errors.New("connection reset"))
				transferRepo.EXPECT().MarkFailed(ctx, 10, gomock.Any()).Return(errors.New("connection reset"))
				audit.EXPECT().Record("TRANSFER_FAILED", gomock.Any(), gomock.Any())
			},
			expectedError: domain.ErrPersistence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			result, err := service.SubmitTransfer(ctx, 1, tt.recipientID, decimal.RequireFromString(tt.amount), tt.reference)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedResult.TransferID, result.TransferID)
				assert.Equal(t, tt.expectedResult.Status, result.Status)
				assert.True(t, tt.expectedResult.Amount.Equal(result.Amount))
				assert.True(t, tt.expectedResult.Fee.Equal(result.Fee))
			}
		})
	}
}

func TestSubmitTransfer_RoundsAmount(t *testing.T) {
	service, accountRepo, transferRepo, guard, fees, audit := NewMock(t)
	ctx := context.Background()

	sender := &domain.Account{ID: 1001, UserID: 1}
	recipient := &domain.Account{ID: 1002, UserID: 2}

	accountRepo.EXPECT().GetByUserID(ctx, 1).Return(sender, nil)
	guard.EXPECT().CheckAndRecord(gomock.Any()).Return(true)
	accountRepo.EXPECT().GetByID(ctx, 1002).Return(recipient, nil)
	fees.EXPECT().Fee(decimal.RequireFromString("100.13")).Return(decimal.Zero)
	transferRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
		assert.Equal(t, "100.13", transfer.Amount.String())
		transfer.ID = 11
		return transfer, nil
	})
	transferRepo.EXPECT().Settle(ctx, 11).Return(&domain.Transfer{
		ID:     11,
		Amount: decimal.RequireFromString("100.13"),
		Status: domain.CompletedTransferStatus,
	}, nil)
	audit.EXPECT().Record("TRANSFER_SUCCESS", gomock.Any(), gomock.Any())

	result, err := service.SubmitTransfer(ctx, 1, 1002, decimal.RequireFromString("100.125"), "")
	assert.NoError(t, err)
	assert.Equal(t, 11, result.TransferID)
}

func TestGetBalance(t *testing.T) {
	service, accountRepo, _, _, _, audit := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name            string
		prepareMock     func()
		expectedBalance string
		expectedError   error
	}{
		{
			name: "Successful query",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(&domain.Account{
					ID: 1001, UserID: 1, Balance: decimal.RequireFromString("50000.00"),
				}, nil)
				audit.EXPECT().Record("BALANCE_QUERY", gomock.Any(), "Balance queried: 50000.00")
			},
			expectedBalance: "50000",
		},
		{
			name: "Account missing",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "Lookup error",
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(nil, errors.New("database error"))
			},
			expectedError: domain.ErrPersistence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			balance, err := service.GetBalance(ctx, 1)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance.String())
			}
		})
	}
}

func TestGetTransfer(t *testing.T) {
	service, _, transferRepo, _, _, audit := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		transferID    int
		prepareMock   func()
		expectedError error
	}{
		{
			name:       "Found",
			transferID: 7,
			prepareMock: func() {
				transferRepo.EXPECT().GetByID(ctx, 7).Return(&domain.Transfer{ID: 7, Status: domain.CompletedTransferStatus}, nil)
				audit.EXPECT().Record("TRANSFER_STATUS_QUERY", gomock.Any(), "Queried status for transfer ID 7")
			},
		},
		{
			name:       "Not found",
			transferID: 8,
			prepareMock: func() {
				transferRepo.EXPECT().GetByID(ctx, 8).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:       "Lookup error",
			transferID: 9,
			prepareMock: func() {
				transferRepo.EXPECT().GetByID(ctx, 9).Return(nil, errors.New("database error"))
			},
			expectedError: domain.ErrPersistence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			transfer, err := service.GetTransfer(ctx, 1, tt.transferID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, transfer)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.transferID, transfer.ID)
			}
		})
	}
}

func TestGetTransactionHistory(t *testing.T) {
	service, accountRepo, transferRepo, _, _, audit := NewMock(t)
	ctx := context.Background()

	account := &domain.Account{ID: 1001, UserID: 1}
	transfers := []domain.Transfer{{ID: 2}, {ID: 1}}

	tests := []struct {
		name          string
		limit         int
		prepareMock   func()
		expectedError error
	}{
		{
			name:  "Default limit when zero",
			limit: 0,
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(account, nil)
				transferRepo.EXPECT().ListForAccount(ctx, 1001, 50).Return(transfers, nil)
				audit.EXPECT().Record("TRANSACTION_HISTORY_QUERY", gomock.Any(), "User queried transaction history (found 2 items)")
			},
		},
		{
			name:  "Limit clamped to maximum",
			limit: 500,
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(account, nil)
				transferRepo.EXPECT().ListForAccount(ctx, 1001, 100).Return(transfers, nil)
				audit.EXPECT().Record("TRANSACTION_HISTORY_QUERY", gomock.Any(), gomock.Any())
			},
		},
		{
			name:  "Explicit limit passed through",
			limit: 10,
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(account, nil)
				transferRepo.EXPECT().ListForAccount(ctx, 1001, 10).Return(transfers, nil)
				audit.EXPECT().Record("TRANSACTION_HISTORY_QUERY", gomock.Any(), gomock.Any())
			},
		},
		{
			name:  "Account missing",
			limit: 10,
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:  "List error",
			limit: 10,
			prepareMock: func() {
				accountRepo.EXPECT().GetByUserID(ctx, 1).Return(account, nil)
				transferRepo.EXPECT().ListForAccount(ctx, 1001, 10).Return(nil, errors.New("database error"))
			},
			expectedError: domain.ErrPersistence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			got, err := service.GetTransactionHistory(ctx, 1, tt.limit)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Len(t, got, 2)
			}
		})
	}
}
