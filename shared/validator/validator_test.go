package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"campusbook/shared/failure"
	"campusbook/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingBody struct {
	ResourceID    int64  `json:"resource_id"     validate:"required,gt=0"`
	EventName     string `json:"event_name"      validate:"required,max=40"`
	InchargeEmail string `json:"incharge_email"  validate:"omitempty,email"`
	StartDateTime string `json:"start_date_time" validate:"required,naive_datetime"`
	Status        string `json:"status"          validate:"omitempty,oneof=Confirmed Denied"`
}

func valid() bookingBody {
	return bookingBody{
		ResourceID:    1,
		EventName:     "Robotics Club",
		InchargeEmail: "ravi@campus.edu",
		StartDateTime: "2025-03-10T10:00:00",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *bookingBody)
		wantMsg string
	}{
		{name: "valid", mutate: func(*bookingBody) {}},
		{name: "missing resource", mutate: func(b *bookingBody) { b.ResourceID = 0 }, wantMsg: "resource_id is required"},
		{name: "long event name", mutate: func(b *bookingBody) { b.EventName = strings.Repeat("x", 41) }, wantMsg: "event_name must be less than or equal to 40"},
		{name: "bad email", mutate: func(b *bookingBody) { b.InchargeEmail = "ravi" }, wantMsg: "incharge_email must be a valid email address"},
		{name: "bad datetime", mutate: func(b *bookingBody) { b.StartDateTime = "10/03/2025" }, wantMsg: "start_date_time must be a datetime such as 2024-01-10T10:00:00"},
		{name: "bad status", mutate: func(b *bookingBody) { b.Status = "Archived" }, wantMsg: "status must be one of Confirmed Denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(&body)

			err := validator.ValidateStruct(&body)
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
		wantErr bool
	}{
		{name: "valid", body: `{"resource_id":1,"event_name":"Seminar","start_date_time":"2025-03-10T10:00"}`},
		{name: "failed rule", body: `{"resource_id":1,"event_name":"Seminar","start_date_time":"soon"}`, wantErr: true},
		{name: "malformed", body: `{"resource_id":`, wantErr: true},
		{name: "empty object", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body bookingBody

			err := validator.Validate(strings.NewReader(tt.body), &body)
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestBookingFormatTags(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		tag     string
		wantErr bool
	}{
		{name: "naive datetime with seconds", field: "2024-01-10T10:00:00", tag: "naive_datetime"},
		{name: "naive datetime without seconds", field: "2024-01-10T10:00", tag: "naive_datetime"},
		{name: "rfc3339 datetime", field: "2024-01-10T10:00:00Z", tag: "naive_datetime"},
		{name: "invalid datetime", field: "10/01/2024 10:00", tag: "naive_datetime", wantErr: true},
		{name: "valid date", field: "2024-01-10", tag: "date_only"},
		{name: "invalid date", field: "2024-02-30", tag: "date_only", wantErr: true},
		{name: "valid clock", field: "09:30", tag: "clock_time"},
		{name: "invalid clock", field: "9.30am", tag: "clock_time", wantErr: true},
		{name: "empty passes", field: "", tag: "empty"},
		{name: "non empty fails empty", field: "x", tag: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	err := validator.ValidateStruct(&bookingBody{InchargeEmail: "nobody"})
	require.Error(t, err)

	assert.Equal(t, "resource_id is required; event_name is required; incharge_email must be a valid email address; start_date_time is required", err.Error())
}
