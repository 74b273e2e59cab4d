package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是模拟核心与会话层共用的最小日志接口。
//
// 插件只依赖这个接口，测试里可以换成 Nop 或采集器。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

// Nop 返回丢弃所有输出的 Logger。
func Nop() Logger {
	return NewZapLogger(nil)
}
