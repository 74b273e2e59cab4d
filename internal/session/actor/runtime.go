// Package actor 把会话 actor 系统包装成同步调用的 Runtime，供 http/ws handler 使用。
package actor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"Skirmish/internal/game/world"
	"Skirmish/internal/session/actors"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/internal/shared/transport"
	"Skirmish/internal/shared/utils"
	"Skirmish/modules/kit/errx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    transport.BizCode
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	ids     *utils.Snowflake
	up      atomic.Bool
}

func NewRuntime(deps *actors.Deps, ids *utils.Snowflake, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	r := &Runtime{
		system:  system,
		root:    root,
		manager: root.Spawn(managerProps),
		timeout: askTimeout,
		ids:     ids,
	}
	r.up.Store(true)
	return r
}

// Ready 供健康检查使用。
func (r *Runtime) Ready() bool {
	return r != nil && r.up.Load()
}

func (r *Runtime) Shutdown() {
	if r == nil || !r.up.CompareAndSwap(true, false) {
		return
	}
	if r.root != nil && r.manager != nil {
		// 等子 actor 都落盘退出。
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Create 新建会话；id 为空时生成一个。
func (r *Runtime) Create(ctx context.Context, id entity.ID, name string, width, height int, snap *world.Snapshot) (*messages.SessionState, error) {
	if id == "" && r.ids != nil {
		id = r.ids.NextString()
	}
	msg := &messages.CreateSession{
		SessionBaseMessage: messages.SessionBaseMessage{SessionId: id},
		Name:               name,
		Width:              width,
		Height:             height,
		Snapshot:           snap,
	}
	return askState(r, ctx, msg)
}

func (r *Runtime) Start(ctx context.Context, id entity.ID) (*messages.SessionState, error) {
	return askState(r, ctx, &messages.StartSession{SessionBaseMessage: base(id, 0)})
}

func (r *Runtime) Stop(ctx context.Context, id entity.ID) (*messages.SessionState, error) {
	return askState(r, ctx, &messages.StopSession{SessionBaseMessage: base(id, 0)})
}

func (r *Runtime) Close(ctx context.Context, id entity.ID) error {
	_, err := r.ask(ctx, &messages.CloseSession{SessionBaseMessage: base(id, 0)})
	return err
}

func (r *Runtime) State(ctx context.Context, id entity.ID) (*messages.SessionState, error) {
	return askState(r, ctx, &messages.QueryState{SessionBaseMessage: base(id, 0)})
}

func (r *Runtime) Command(ctx context.Context, id entity.ID, cmd entity.Command) error {
	_, err := r.ask(ctx, &messages.ApplyCommand{SessionBaseMessage: base(id, cmd.Player), Command: cmd})
	return err
}

func (r *Runtime) Export(ctx context.Context, id entity.ID) (*world.Snapshot, error) {
	data, err := r.ask(ctx, &messages.ExportSnapshot{SessionBaseMessage: base(id, 0)})
	if err != nil {
		return nil, err
	}
	snap, ok := data.(world.Snapshot)
	if !ok {
		return nil, unexpected(data)
	}
	return &snap, nil
}

func (r *Runtime) Import(ctx context.Context, id entity.ID, snap world.Snapshot) (*messages.SessionState, error) {
	return askState(r, ctx, &messages.ImportSnapshot{SessionBaseMessage: base(id, 0), Snapshot: snap})
}

func (r *Runtime) Subscribe(ctx context.Context, id entity.ID, sub messages.Subscriber) error {
	_, err := r.ask(ctx, &messages.Subscribe{SessionBaseMessage: base(id, 0), Subscriber: sub})
	return err
}

func base(id entity.ID, player int) messages.SessionBaseMessage {
	return messages.SessionBaseMessage{SessionId: id, PlayerId: player}
}

func askState(r *Runtime, ctx context.Context, msg any) (*messages.SessionState, error) {
	data, err := r.ask(ctx, msg)
	if err != nil {
		return nil, err
	}
	st, ok := data.(*messages.SessionState)
	if !ok {
		return nil, unexpected(data)
	}
	return st, nil
}

// ask 发请求并拆开 Reply；业务错误原样返回，通道层错误包成 RuntimeError。
func (r *Runtime) ask(ctx context.Context, msg any) (any, error) {
	if !r.Ready() {
		return nil, &RuntimeError{Code: transport.Unavailable, Message: "actor runtime 未运行", Cause: errx.ErrUnavailable}
	}
	future := r.root.RequestFuture(r.manager, msg, r.timeoutFromContext(ctx))
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Unavailable
		}
		return nil, &RuntimeError{Code: code, Message: "actor 请求失败", Cause: err}
	}
	reply, ok := res.(*messages.Reply)
	if !ok || reply == nil {
		return nil, unexpected(res)
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply.Data, nil
}

func unexpected(v any) error {
	return &RuntimeError{
		Code:    transport.SystemError,
		Message: "actor 应答类型错误",
		Cause:   errx.ErrInternal.WithData("reply", v),
	}
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// CodeFromError 把错误映射成对外业务码。
func CodeFromError(err error) transport.BizCode {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return transport.NotFound
	case errors.Is(err, entity.ErrSessionExists), errors.Is(err, entity.ErrSessionNotOnline):
		return transport.Conflict
	}
	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		return transport.BadRequest
	}
	return transport.SystemError
}

// ReasonFromError 取出错误码文本，写进 access 日志与应答。
func ReasonFromError(err error) string {
	var e *errx.Error
	if errors.As(err, &e) {
		if r := e.Reason(); r != "" {
			return r
		}
		return e.CodeText()
	}
	return "INTERNAL"
}
