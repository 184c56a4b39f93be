package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmalakhov/banksettle/internal/domain"
)

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithJSON(rr, http.StatusOK, Response{Message: "ok"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp Response
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Message)
}

func TestRespondWithJSON_NilPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithJSON(rr, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())
}

func TestRespondWithDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{
			name:         "Authentication failure",
			err:          domain.Errorf(domain.ErrAuthentication, "invalid or expired session token"),
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Validation failure",
			err:          domain.Errorf(domain.ErrValidation, "transfer amount must be positive"),
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Not found",
			err:          domain.Errorf(domain.ErrNotFound, "transfer"),
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Duplicate request",
			err:          domain.Errorf(domain.ErrDuplicateRequest, "duplicate transfer detected, retry after a few seconds"),
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Insufficient funds",
			err:          domain.Errorf(domain.ErrInsufficientFunds, "required 100.25, available 50.00"),
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name:         "Unclassified error",
			err:          errors.New("database error"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondWithDomainError(rr, tt.err)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp Response
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}
