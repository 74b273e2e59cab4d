package handler

import (
	nethttp "net/http"

	"Skirmish/internal/game/world"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/session/interfaces/handler/dto"
	"Skirmish/internal/shared/security"
	"Skirmish/internal/shared/transport"
	"Skirmish/internal/shared/transport/http/middleware"
	"Skirmish/internal/shared/transport/ws"
	"Skirmish/modules/kit/logx"
	"Skirmish/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	host   Host
	auth   middleware.TokenParser
	stream *ws.Server
	log    logx.Logger
}

func NewHttpHandler(host Host, auth middleware.TokenParser, stream *ws.Server, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{host: host, auth: auth, stream: stream, log: log}
}

// RegisterRoutes 读接口公开，改变会话状态的接口需要 Bearer token。
func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	sessions := group.Group("/sessions")
	sessions.GET("/:id", h.State)
	sessions.GET("/:id/snapshot", h.Export)
	sessions.GET("/:id/energy", h.Energy)
	sessions.GET("/:id/events", h.Events)

	authed := sessions.Group("")
	if h.auth != nil {
		authed.Use(middleware.BearerAuth(h.auth))
	}
	authed.POST("", h.Create)
	authed.POST("/:id/start", h.Start)
	authed.POST("/:id/stop", h.Stop)
	authed.DELETE("/:id", h.Close)
	authed.POST("/:id/commands", h.Command)
	authed.PUT("/:id/snapshot", h.Import)
}

func (h *HttpHandler) Create(c *gin.Context) {
	var req dto.CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.BadRequest, "BAD_REQUEST", "参数有误")
		return
	}
	st, err := h.host.Create(c.Request.Context(), req.ID, req.Name, req.Width, req.Height, req.Snapshot)
	if err != nil {
		h.error(c, "session.create", err)
		return
	}
	h.ok(c, st)
}

func (h *HttpHandler) Start(c *gin.Context) {
	st, err := h.host.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.error(c, "session.start", err)
		return
	}
	h.ok(c, st)
}

func (h *HttpHandler) Stop(c *gin.Context) {
	st, err := h.host.Stop(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.error(c, "session.stop", err)
		return
	}
	h.ok(c, st)
}

func (h *HttpHandler) Close(c *gin.Context) {
	if err := h.host.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.error(c, "session.close", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) State(c *gin.Context) {
	st, err := h.host.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.error(c, "session.state", err)
		return
	}
	h.ok(c, st)
}

func (h *HttpHandler) Energy(c *gin.Context) {
	st, err := h.host.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.error(c, "session.energy", err)
		return
	}
	h.ok(c, st.Energy)
}

// Command 的玩家以 token 为准，请求体里的 player 会被覆盖。
func (h *HttpHandler) Command(c *gin.Context) {
	var cmd entity.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.fail(c, transport.BadRequest, "BAD_REQUEST", "参数有误")
		return
	}
	if claims, ok := middleware.ClaimsFrom(c); ok {
		cmd.Player = claims.Player
	}
	if err := h.host.Command(c.Request.Context(), c.Param("id"), cmd); err != nil {
		h.error(c, "session.command", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) Export(c *gin.Context) {
	snap, err := h.host.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.error(c, "session.export", err)
		return
	}
	h.ok(c, snap)
}

func (h *HttpHandler) Import(c *gin.Context) {
	var snap world.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		h.fail(c, transport.BadRequest, "BAD_REQUEST", "参数有误")
		return
	}
	st, err := h.host.Import(c.Request.Context(), c.Param("id"), snap)
	if err != nil {
		h.error(c, "session.import", err)
		return
	}
	h.ok(c, st)
}

// Events 升级成 websocket 并订阅会话事件。?token= 可选，带上后这条连接还能下命令。
func (h *HttpHandler) Events(c *gin.Context) {
	id := c.Param("id")
	ctx := tracex.WithSessionID(c.Request.Context(), id)
	if _, err := h.host.State(ctx, id); err != nil {
		h.error(c, "session.events", err)
		return
	}
	var claims *security.Claims
	if token := c.Query("token"); token != "" && h.auth != nil {
		parsed, err := h.auth.Parse(token)
		if err != nil {
			h.fail(c, transport.Unauthorized, "TOKEN_INVALID", "unauthorized")
			return
		}
		claims = parsed
	}
	transport.SetBizCode(ctx, transport.OK)
	h.stream.Upgrade(c.Writer, c.Request, func(conn *ws.WsServer) {
		conn.SetProperty(ws.ConnKeySession, id)
		if claims != nil {
			conn.SetProperty(ws.ConnKeyPlayer, claims.Player)
		}
		if err := h.host.Subscribe(ctx, id, conn); err != nil {
			HandleError(ctx, h.log, "session.subscribe", err)
			conn.Close()
		}
	})
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, dto.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code transport.BizCode, reason, msg string) {
	transport.SetBizCode(c.Request.Context(), code)
	transport.SetErrorReason(c.Request.Context(), reason)
	c.JSON(int(code), dto.Error(code, reason, msg))
}

func (h *HttpHandler) error(c *gin.Context, action string, err error) {
	code, reason, msg := HandleError(c.Request.Context(), h.log, action, err)
	c.JSON(int(code), dto.Error(code, reason, msg))
}
