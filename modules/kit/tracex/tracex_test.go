package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestSessionID_空值视为不存在(t *testing.T) {
	ctx := WithSessionID(context.Background(), "")
	if _, ok := SessionIDFrom(ctx); ok {
		t.Fatalf("空 session_id 不应被视为存在")
	}
	ctx = WithSessionID(ctx, "s-1")
	if got, ok := SessionIDFrom(ctx); !ok || got != "s-1" {
		t.Fatalf("期望 s-1, got=%q ok=%v", got, ok)
	}
}
