package handler

import (
	"context"
	"errors"

	"Skirmish/internal/session/actor"
	"Skirmish/internal/shared/transport"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"
)

// HandleError 写 access 日志字段并打一条错误日志，返回对外业务码、原因和提示。
// 每个请求只调用一次。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (transport.BizCode, string, string) {
	code := actor.CodeFromError(err)
	reason := actor.ReasonFromError(err)
	transport.SetBizCode(ctx, code)
	transport.SetErrorReason(ctx, reason)

	if code < transport.SystemError {
		msg := reason
		var e *errx.Error
		if errors.As(err, &e) && e.Msg() != "" {
			msg = e.Msg()
		}
		logx.ReportBiz(ctx, log, logx.NewBizLog(action, reason, msg))
		return code, reason, msg
	}
	logx.ReportSysError(ctx, log, logx.NewSysLog(action, err))
	return code, reason, "系统繁忙，请稍后重试"
}
