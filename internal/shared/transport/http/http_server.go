package http

import (
	"context"
	nethttp "net/http"
	"time"

	"Skirmish/internal/shared/transport/http/middleware"
	"Skirmish/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
}

// NewHttpServer 组装 gin：recovery、access log、/healthz。
// ready 为空时 /healthz 恒为 ok。
func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, ready func() bool) *Server {
	if engine == nil {
		engine = gin.New()
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		if ready != nil && !ready() {
			c.JSON(nethttp.StatusServiceUnavailable, gin.H{"status": "starting"})
			return
		}
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// ws 事件流是长连接，写超时交给 ws 自己的 write deadline。
			IdleTimeout: 60 * time.Second,
		},
	}
}

// Start 启动 HTTP 服务（阻塞）。关闭时返回 http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
