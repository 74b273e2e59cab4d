package handler

import (
	"context"

	"Skirmish/internal/session/interfaces/handler/dto"
	"Skirmish/internal/shared/transport"
	"Skirmish/internal/shared/transport/ws"
	"Skirmish/modules/kit/logx"
)

type WsHandler struct {
	host Host
	log  logx.Logger
}

func NewWsHandler(host Host, log logx.Logger) *WsHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &WsHandler{host: host, log: log}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("session")
	g.Handle("command", h.Command)
}

// Command 要求连接在升级时带了 token；会话缺省取连接订阅的那一局。
func (h *WsHandler) Command(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.BadRequest, "参数有误")
		return
	}
	var req dto.WsCommandReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.BadRequest, "参数有误")
		return
	}
	player, ok := wsReq.Conn.GetProperty(ws.ConnKeyPlayer).(int)
	if !ok {
		h.fail(wsResp, transport.Unauthorized, "unauthorized")
		return
	}
	if req.Session == "" {
		req.Session, _ = wsReq.Conn.GetProperty(ws.ConnKeySession).(string)
	}
	req.Command.Player = player
	if err := h.host.Command(ctx, req.Session, req.Command); err != nil {
		code, reason, _ := HandleError(ctx, h.log, "session.command", err)
		h.fail(wsResp, code, reason)
		return
	}
	h.ok(wsResp, nil)
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	resp.Body.Code = int(transport.OK)
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code transport.BizCode, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = int(code)
	if msg != "" {
		resp.Body.Msg = msg
	}
}
