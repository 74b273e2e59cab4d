package grpc

import (
	"context"
	"net"
	"testing"

	"Skirmish/modules/kit/logx"
	"Skirmish/modules/kit/tracex"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func dial(t *testing.T) (*Server, healthpb.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := NewServer(logx.Nop())
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return s, healthpb.NewHealthClient(conn)
}

func TestServer_Health_随SetServing切换(t *testing.T) {
	s, client := dial(t)

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		return resp.GetStatus()
	}

	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("期望初始 NOT_SERVING, got=%v", got)
	}
	s.SetServing(true)
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("期望 SERVING, got=%v", got)
	}
}

func TestServer_HealthWatch_推送状态变化(t *testing.T) {
	s, client := dial(t)
	ctx, cancel := context.WithCancel(tracex.WithSessionID(context.Background(), "s-1"))
	defer cancel()

	stream, err := client.Watch(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	first, err := stream.Recv()
	if err != nil || first.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("期望先收到 NOT_SERVING, got=%v err=%v", first.GetStatus(), err)
	}
	s.SetServing(true)
	next, err := stream.Recv()
	if err != nil || next.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("期望推送 SERVING, got=%v err=%v", next.GetStatus(), err)
	}
}

func TestTrace_stream客户端注入_服务端提取(t *testing.T) {
	ctx := tracex.WithTraceID(context.Background(), "trace-1")
	ctx = tracex.WithSpanID(ctx, "span-1")
	ctx = tracex.WithSessionID(ctx, "s-1")

	var outgoing metadata.MD
	streamer := func(ctx context.Context, _ *gogrpc.StreamDesc, _ *gogrpc.ClientConn, _ string, _ ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		outgoing, _ = metadata.FromOutgoingContext(ctx)
		return nil, nil
	}
	if _, err := StreamClientTraceInterceptor()(ctx, &gogrpc.StreamDesc{}, nil, "/x", streamer); err != nil {
		t.Fatal(err)
	}
	if got := outgoing.Get(traceIDHeader); len(got) != 1 || got[0] != "trace-1" {
		t.Fatalf("期望注入 trace id, md=%v", outgoing)
	}

	got := extractTraceFromIncoming(metadata.NewIncomingContext(context.Background(), outgoing))
	if id, _ := tracex.SessionIDFrom(got); id != "s-1" {
		t.Fatalf("期望服务端取回 session id, got=%q", id)
	}
	if id, _ := tracex.SpanIDFrom(got); id != "span-1" {
		t.Fatalf("期望服务端取回 span id, got=%q", id)
	}
}
