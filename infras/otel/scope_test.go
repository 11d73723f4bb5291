package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	otelMocks "campusbook/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type status string

func (s status) String() string { return "status:" + string(s) }

func TestScope(t *testing.T) {
	tracer, recorder := otelMocks.NewRecordingOtel()

	_, scope := tracer.NewScope(context.Background(), "service", "service.booking.CreatePriority")
	scope.SetAttributes(map[string]any{
		"booking.overridden_ids": []int64{4, 5},
		"booking.status":         status("Confirmed"),
		"booking.start":          time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		"resource.id":            int64(3),
		"booking.urgent":         true,
	})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("exclusion violated"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, []int64{4, 5}, attrs["booking.overridden_ids"].AsInt64Slice())
	assert.Equal(t, "status:Confirmed", attrs["booking.status"].AsString())
	assert.Equal(t, "2025-03-10T09:00:00Z", attrs["booking.start"].AsString())
	assert.Equal(t, int64(3), attrs["resource.id"].AsInt64())
	assert.True(t, attrs["booking.urgent"].AsBool())

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "exclusion violated", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1, "only the non-nil error is recorded")
}
