package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquashop/config"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestMiddlewareNamesSpanAfterRoute(t *testing.T) {
	rec := withRecorder(t)

	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/fishes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fishes/betta-1", nil))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /fishes/{id}", spans[0].Name())
	var status int64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "http.status_code" {
			status = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(http.StatusTeapot), status)
}

func TestMiddlewareMarksServerErrors(t *testing.T) {
	rec := withRecorder(t)

	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestRecordError(t *testing.T) {
	rec := withRecorder(t)
	_, span := AddSpan(context.Background(), "op")
	RecordError(span, nil)
	RecordError(span, errors.New("nope"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
}

func TestInitWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), config.Tracing{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))

	withRecorder(t)
	ctx, span := AddSpan(context.Background(), "op")
	defer span.End()
	assert.Len(t, TraceID(ctx), 32)
}
