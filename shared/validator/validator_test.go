package validator_test

import (
	"net/http"
	"salonbook/shared/failure"
	"salonbook/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
	StartTime  string `json:"start_time"  validate:"required,rfc3339"`
	Date       string `json:"date"        validate:"omitempty,dateonly"`
	Status     string `json:"status"      validate:"omitempty,oneof=pending confirmed"`
	Notes      string `json:"notes"       validate:"omitempty,max=10"`
	Internal   string `json:"-"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    bookingRequest
		wantMsg string
	}{
		{
			name: "valid",
			data: bookingRequest{ProviderID: "p-1", StartTime: "2025-10-07T10:00:00+07:00", Date: "2025-10-07", Status: "confirmed"},
		},
		{
			name:    "missing provider",
			data:    bookingRequest{StartTime: "2025-10-07T10:00:00Z"},
			wantMsg: "provider_id is required",
		},
		{
			name:    "timestamp without zone",
			data:    bookingRequest{ProviderID: "p-1", StartTime: "2025-10-07 10:00:00"},
			wantMsg: "start_time must be an RFC3339 timestamp",
		},
		{
			name:    "impossible date",
			data:    bookingRequest{ProviderID: "p-1", StartTime: "2025-10-07T10:00:00Z", Date: "2025-02-30"},
			wantMsg: "date must be a date in YYYY-MM-DD format",
		},
		{
			name:    "unknown status",
			data:    bookingRequest{ProviderID: "p-1", StartTime: "2025-10-07T10:00:00Z", Status: "archived"},
			wantMsg: "status must be one of pending confirmed",
		},
		{
			name:    "every problem is reported",
			data:    bookingRequest{Notes: "far too long for the field"},
			wantMsg: "provider_id is required; start_time is required; notes must be at most 10 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid body", body: `{"provider_id":"p-1","start_time":"2025-10-07T10:00:00Z"}`},
		{name: "invalid field", body: `{"provider_id":"p-1","start_time":"tomorrow"}`, wantErr: "start_time must be an RFC3339 timestamp"},
		{name: "malformed json", body: `{"provider_id":}`, wantErr: "failed to decode request body"},
		{name: "empty body", body: ``, wantErr: "failed to decode request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "p-1", data.ProviderID)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}
