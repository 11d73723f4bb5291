package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusbook/shared/constant"
	"campusbook/shared/failure"
	"campusbook/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "conflict", err: failure.Conflict("resource is already booked"), wantCode: http.StatusConflict, wantBody: `{"error":"resource is already booked"}`},
		{name: "not found", err: failure.NotFound("booking not found"), wantCode: http.StatusNotFound, wantBody: `{"error":"booking not found"}`},
		{name: "internal is masked", err: errors.New(`pq: relation "bookings" does not exist`), wantCode: http.StatusInternalServerError, wantBody: `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
		})
	}
}

func TestWithJSONAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusCreated, map[string]any{"id": 9, "status": "Pending Approval"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":9,"status":"Pending Approval"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	response.WithPreparingShutdown(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"`+constant.ResponseErrorPrepareShutdown+`"}`, rec.Body.String())
}
