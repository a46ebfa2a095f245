package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestKafkaHeaderCarrier_GetSetKeys(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("v1")}}
	carrier := NewHeaderCarrier(&headers)

	assert.Equal(t, "v1", carrier.Get("existing"))
	assert.Equal(t, "", carrier.Get("missing"))

	carrier.Set("existing", "v2")
	carrier.Set("new", "v3")
	assert.Equal(t, "v2", carrier.Get("existing"))
	assert.Equal(t, []string{"existing", "new"}, carrier.Keys())
	assert.Len(t, headers, 2)
}

func TestNewMessage_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	event, err := NewEvent("cart.updated", "sess-1", "cart", "storefront", map[string]int{"item_count": 1})
	require.NoError(t, err)

	msg, err := newMessage(ctx, Topic("cart", "updated"), event.WithCorrelationID("corr-1"))
	require.NoError(t, err)

	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", carrier.Get("traceparent"))
	assert.Equal(t, "cart.updated", carrier.Get("event_type"))
	assert.Equal(t, "corr-1", carrier.Get("correlation_id"))
	assert.Equal(t, "storefront.cart.updated", msg.Topic)
	assert.Equal(t, []byte("sess-1"), msg.Key)
}
