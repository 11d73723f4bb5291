// Package mocks provides tracers for tests. Spans go through the real SDK so scope code runs
// unchanged; nothing is exported.
package mocks

import (
	"campusbook/infras/otel"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// NewOtel returns a tracer whose spans are dropped on End.
func NewOtel() otel.Otel {
	return otel.NewWithProvider(trace.NewTracerProvider())
}

// NewRecordingOtel keeps every ended span in the returned recorder.
func NewRecordingOtel() (otel.Otel, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()

	return otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder))), recorder
}
