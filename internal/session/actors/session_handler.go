package actors

import (
	"Skirmish/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type SessionHandler struct{}

var SH = &SessionHandler{}

func (h *SessionHandler) HandleStart(ctx actor.Context, p *SessionActor, req *messages.StartSession) {
	if err := p.session.Start(p.deps.now()); err != nil {
		ctx.Respond(fail(err))
		return
	}
	p.startTickLoop(ctx)
	ctx.Respond(ok(p.State()))
}

func (h *SessionHandler) HandleStop(ctx actor.Context, p *SessionActor, req *messages.StopSession) {
	p.stopTickLoop()
	if err := p.session.Stop(); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(p.State()))
}

func (h *SessionHandler) HandleCommand(ctx actor.Context, p *SessionActor, req *messages.ApplyCommand) {
	if err := p.session.Apply(req.Command); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(nil))
}

func (h *SessionHandler) HandleExport(ctx actor.Context, p *SessionActor, req *messages.ExportSnapshot) {
	ctx.Respond(ok(p.session.Export()))
}

func (h *SessionHandler) HandleImport(ctx actor.Context, p *SessionActor, req *messages.ImportSnapshot) {
	if err := p.session.Import(req.Snapshot); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(p.State()))
}

func (h *SessionHandler) HandleQueryState(ctx actor.Context, p *SessionActor, req *messages.QueryState) {
	ctx.Respond(ok(p.State()))
}

func (h *SessionHandler) HandleSubscribe(ctx actor.Context, p *SessionActor, req *messages.Subscribe) {
	if req.Subscriber != nil {
		p.subscribers = append(p.subscribers, req.Subscriber)
	}
	ctx.Respond(ok(nil))
}

func ok(data any) *messages.Reply {
	return &messages.Reply{Data: data}
}

func fail(err error) *messages.Reply {
	return &messages.Reply{Err: err}
}
