package auditrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Record(t *testing.T) {
	repo, mock := NewMock(t)
	userID := 1

	tests := []struct {
		name      string
		operation string
		userID    *int
		details   string
		mockSetup func()
		expectErr bool
	}{
		{
			name:      "Entry with user",
			operation: "LOGIN_SUCCESS",
			userID:    &userID,
			details:   "User logged in: john",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs (operation, user_id, details)")).
					WithArgs("LOGIN_SUCCESS", &userID, "User logged in: john").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name:      "Entry without user",
			operation: "LOGIN_FAILED",
			userID:    nil,
			details:   "Username not found: ghost",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs (operation, user_id, details)")).
					WithArgs("LOGIN_FAILED", (*int)(nil), "Username not found: ghost").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name:      "Insert error",
			operation: "BALANCE_QUERY",
			userID:    &userID,
			details:   "Balance queried: 50000.00",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs (operation, user_id, details)")).
					WithArgs("BALANCE_QUERY", &userID, "Balance queried: 50000.00").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			err := repo.Record(context.Background(), tt.operation, tt.userID, tt.details)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
