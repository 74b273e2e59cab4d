package ws

import (
	"net/http"

	"Skirmish/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			// 事件流只读且不带 cookie 鉴权，放开跨域。
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Upgrade 升级连接并启动读写循环；onOpen 在循环启动后调用，用于订阅事件。
func (s *Server) Upgrade(resp http.ResponseWriter, req *http.Request, onOpen func(conn *WsServer)) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.WithContext(req.Context()).Error("websocket upgrade error", zap.Error(err))
		return
	}
	conn := NewWsServer(wsConn, s.router, s.log.WithContext(req.Context()))
	conn.Run()
	if onOpen != nil {
		onOpen(conn)
	}
}
