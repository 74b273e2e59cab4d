package entity

import "Skirmish/modules/kit/errx"

const (
	CodeSessionNotFound  errx.Code = "SESSION_NOT_FOUND"
	CodeSessionNotOnline errx.Code = "SESSION_NOT_ONLINE"
	CodeSessionExists    errx.Code = "SESSION_EXISTS"
	CodeCommandInvalid   errx.Code = "COMMAND_INVALID"
)

var (
	ErrSessionNotFound  = errx.NewBiz(CodeSessionNotFound, "会话不存在")
	ErrSessionNotOnline = errx.NewBiz(CodeSessionNotOnline, "会话未就绪")
	ErrSessionExists    = errx.NewBiz(CodeSessionExists, "会话已存在")
	ErrCommandInvalid   = errx.NewBiz(CodeCommandInvalid, "命令不合法")
)
