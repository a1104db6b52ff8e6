package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	trace := NewTraceContext()
	ctx := WithTrace(context.Background(), trace)
	assert.Equal(t, trace.RequestID, GetRequestID(ctx))
	assert.Len(t, trace.SpanID, 16)
	assert.NotEqual(t, trace.RequestID, NewTraceContext().RequestID)
}
