package grpc

import (
	"context"
	"net"

	"Skirmish/internal/shared/transport"
	"Skirmish/modules/kit/logx"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName 是 health 服务里登记的会话宿主名。
const ServiceName = "skirmish.SessionHost"

// Server 只承载标准 health 服务，供编排系统探活。
type Server struct {
	srv    *gogrpc.Server
	health *health.Server
}

func NewServer(log logx.Logger) *Server {
	srv := gogrpc.NewServer(
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(), unaryAccessLogInterceptor(log)),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return &Server{srv: srv, health: hs}
}

// SetServing 切换会话宿主的健康状态。
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", st)
}

// Serve 阻塞直到 listener 关闭。
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func unaryAccessLogInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		// trace 拦截器已把 trace_id 放进 ctx，这里沿用而不是重新生成。
		ctx = transport.NewContextWithParent(ctx, "GRPC "+info.FullMethod, "grpc", traceIDOf(ctx))
		resp, err := handler(ctx, req)
		transport.SetBizCode(ctx, bizCodeFromStatus(status.Code(err)))
		transport.WriteAccessLog(ctx, log)
		return resp, err
	}
}

func bizCodeFromStatus(c codes.Code) transport.BizCode {
	switch c {
	case codes.OK:
		return transport.OK
	case codes.InvalidArgument:
		return transport.BadRequest
	case codes.NotFound:
		return transport.NotFound
	case codes.Unauthenticated:
		return transport.Unauthorized
	case codes.Unavailable:
		return transport.Unavailable
	}
	return transport.SystemError
}
