package errx

// 跨包统一的系统类错误码。
// 领域错误码（例如 TILE_OCCUPIED）由各领域包自行定义，不在 kit 里集中。

const (
	// CodeInternal 表示内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（存储/下游服务/网络异常等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 表示请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
	// CodePluginPanic 表示某个插件在 tick/事件处理中 panic。
	CodePluginPanic Code = "PLUGIN_PANIC"
)

var (
	ErrInternal    = NewSys(CodeInternal, "内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
	ErrPluginPanic = NewSys(CodePluginPanic, "插件执行异常")
)
