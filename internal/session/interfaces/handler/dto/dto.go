package dto

import (
	"Skirmish/internal/game/world"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/shared/transport"
)

type Response struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg,omitempty"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: int(transport.OK), Data: data}
}

func Error(code transport.BizCode, reason, msg string) Response {
	return Response{Code: int(code), Reason: reason, Msg: msg}
}

// CreateSessionReq 中 Snapshot 与 Width/Height 二选一，都没有时用默认尺寸的空图。
type CreateSessionReq struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Snapshot *world.Snapshot `json:"snapshot"`
}

// WsCommandReq 是 ws 上 session.command 的请求体。
type WsCommandReq struct {
	Session string         `json:"session"`
	Command entity.Command `json:"command"`
}
