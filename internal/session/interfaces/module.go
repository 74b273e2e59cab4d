package interfaces

import (
	"Skirmish/internal/session/interfaces/handler"
	"Skirmish/internal/shared/transport/http/middleware"
	"Skirmish/internal/shared/transport/ws"
	"Skirmish/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Module 把会话宿主挂到 http 与 ws 路由上。
type Module struct {
	wsHandler   *handler.WsHandler
	httpHandler *handler.HttpHandler
}

func New(host handler.Host, auth middleware.TokenParser, stream *ws.Server, log logx.Logger) *Module {
	return &Module{
		wsHandler:   handler.NewWsHandler(host, log),
		httpHandler: handler.NewHttpHandler(host, auth, stream, log),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}
