package middleware

import (
	"net/http"

	"Skirmish/internal/shared/transport"
	"Skirmish/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// TraceHeader 允许调用方透传 trace_id。
const TraceHeader = "X-Trace-Id"

// AccessLog 统一写访问日志。
// handler 通过 transport.SetBizCode 写业务码；未写时按 HTTP 状态推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithParent(c.Request.Context(), action, "http", c.GetHeader(TraceHeader))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if al := transport.FromContext(ctx); al != nil && al.BizCode == transport.SystemError {
			transport.SetBizCode(ctx, bizCodeFromStatus(c.Writer.Status()))
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func bizCodeFromStatus(status int) transport.BizCode {
	switch {
	case status < http.StatusBadRequest:
		return transport.OK
	case status == http.StatusBadRequest:
		return transport.BadRequest
	case status == http.StatusUnauthorized:
		return transport.Unauthorized
	case status == http.StatusNotFound:
		return transport.NotFound
	case status == http.StatusConflict:
		return transport.Conflict
	case status == http.StatusServiceUnavailable:
		return transport.Unavailable
	}
	return transport.SystemError
}
