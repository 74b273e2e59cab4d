package transport

// BizCode 是对外的业务码，同时决定 access 日志级别。
type BizCode int

const (
	OK           BizCode = 0
	BadRequest   BizCode = 400
	Unauthorized BizCode = 401
	NotFound     BizCode = 404
	Conflict     BizCode = 409
	SystemError  BizCode = 500
	Unavailable  BizCode = 503
)
