package actors

import (
	"reflect"

	"Skirmish/internal/shared/actor/messages"
	"Skirmish/modules/kit/errx"

	"github.com/asynkron/protoactor-go/actor"
)

var errNoHandler = errx.NewSys("ACTOR_NO_HANDLER", "no handler for request")

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleStart)
	register(d, SH.HandleStop)
	register(d, SH.HandleCommand)
	register(d, SH.HandleExport)
	register(d, SH.HandleImport)
	register(d, SH.HandleQueryState)
	register(d, SH.HandleSubscribe)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *SessionActor, req messages.SessionMessage) {
	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok || bodyType != handler.reqType {
		ctx.Respond(&messages.Reply{Err: errNoHandler.WithData("type", bodyType.String())})
		return
	}
	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
