package transfers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vmalakhov/banksettle/internal/domain"
	"github.com/vmalakhov/banksettle/internal/dto"
	transferservice "github.com/vmalakhov/banksettle/internal/service/transferservice"
	"github.com/vmalakhov/banksettle/pkg/auth"
)

func NewMock(t *testing.T) (*TransferHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authedRequest(method, url string, body []byte, userID int) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestSubmitTransferHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful transfer",
			body: `{"recipient_account_id":1002,"amount":"3333.33","reference":"rent"}`,
			prepareMock: func() {
				service.EXPECT().
					SubmitTransfer(gomock.Any(), 1, 1002, decimal.RequireFromString("3333.33"), "rent").
					Return(&transferservice.Result{
						TransferID: 7,
						Amount:     decimal.RequireFromString("3333.33"),
						Fee:        decimal.RequireFromString("8.33"),
						Status:     domain.CompletedTransferStatus,
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid request body",
			body:         `{invalid json`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Validation failure",
			body: `{"recipient_account_id":1002,"amount":"-5","reference":""}`,
			prepareMock: func() {
				service.EXPECT().
					SubmitTransfer(gomock.Any(), 1, 1002, decimal.RequireFromString("-5"), "").
					Return(nil, domain.Errorf(domain.ErrValidation, "transfer amount must be positive"))
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Insufficient funds",
			body: `{"recipient_account_id":1002,"amount":"60000","reference":""}`,
			prepareMock: func() {
				service.EXPECT().
					SubmitTransfer(gomock.Any(), 1, 1002, decimal.RequireFromString("60000"), "").
					Return(nil, domain.Errorf(domain.ErrInsufficientFunds, "required 60048.00, available 50000.00"))
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name: "Duplicate submission",
			body: `{"recipient_account_id":1002,"amount":"100","reference":""}`,
			prepareMock: func() {
				service.EXPECT().
					SubmitTransfer(gomock.Any(), 1, 1002, decimal.RequireFromString("100"), "").
					Return(nil, domain.Errorf(domain.ErrDuplicateRequest, "duplicate transfer detected, retry after a few seconds"))
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Recipient not found",
			body: `{"recipient_account_id":9999,"amount":"100","reference":""}`,
			prepareMock: func() {
				service.EXPECT().
					SubmitTransfer(gomock.Any(), 1, 9999, decimal.RequireFromString("100"), "").
					Return(nil, domain.Errorf(domain.ErrNotFound, "recipient account"))
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest("POST", "/api/transfers", []byte(tt.body), 1)
			rr := httptest.NewRecorder()

			handler.SubmitTransfer(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.SubmitTransferResponseDTO
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, 7, resp.TransferID)
				assert.Equal(t, domain.CompletedTransferStatus, resp.Status)
				assert.Equal(t, "Transfer successful", resp.Message)
			}
		})
	}
}

func TestGetTransferHandler(t *testing.T) {
	handler, service := NewMock(t)
	completedAt := time.Now()

	tests := []struct {
		name         string
		transferID   string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:       "Transfer found",
			transferID: "7",
			prepareMock: func() {
				service.EXPECT().GetTransfer(gomock.Any(), 1, 7).Return(&domain.Transfer{
					ID:            7,
					FromAccountID: 1001,
					ToAccountID:   1002,
					Amount:        decimal.RequireFromString("100.00"),
					Fee:           decimal.RequireFromString("0.00"),
					Status:        domain.CompletedTransferStatus,
					CreatedAt:     completedAt,
					CompletedAt:   &completedAt,
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid transfer id",
			transferID:   "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:       "Transfer not found",
			transferID: "8",
			prepareMock: func() {
				service.EXPECT().GetTransfer(gomock.Any(), 1, 8).
					Return(nil, domain.Errorf(domain.ErrNotFound, "transfer"))
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest("GET", "/api/transfers/"+tt.transferID, nil, 1)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.transferID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			handler.GetTransfer(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.TransferDTO
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, 7, resp.TransferID)
				assert.Equal(t, domain.CompletedTransferStatus, resp.Status)
			}
		})
	}
}

func TestGetTransactionHistoryHandler(t *testing.T) {
	handler, service := NewMock(t)
	now := time.Now()

	tests := []struct {
		name         string
		url          string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "History returned",
			url:  "/api/transfers",
			prepareMock: func() {
				service.EXPECT().GetTransactionHistory(gomock.Any(), 1, 0).Return([]domain.Transfer{
					{ID: 2, FromAccountID: 1001, ToAccountID: 1002, Amount: decimal.RequireFromString("200.00"), Status: domain.CompletedTransferStatus, CreatedAt: now},
					{ID: 1, FromAccountID: 1002, ToAccountID: 1001, Amount: decimal.RequireFromString("100.00"), Status: domain.FailedTransferStatus, CreatedAt: now.Add(-time.Hour)},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Limit forwarded",
			url:  "/api/transfers?limit=10",
			prepareMock: func() {
				service.EXPECT().GetTransactionHistory(gomock.Any(), 1, 10).Return([]domain.Transfer{
					{ID: 1, CreatedAt: now},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid limit",
			url:          "/api/transfers?limit=abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "No transactions",
			url:  "/api/transfers",
			prepareMock: func() {
				service.EXPECT().GetTransactionHistory(gomock.Any(), 1, 0).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest("GET", tt.url, nil, 1)
			rr := httptest.NewRecorder()

			handler.GetTransactionHistory(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
