package actors

import (
	"Skirmish/internal/session/entity"
	"Skirmish/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

// ManagerActor 按会话 id 路由请求；CreateSession 负责派生子 actor。
// 子 actor 退出（Terminated）后才释放 id，保证关闭时的落盘先于同 id 的重建。
type ManagerActor struct {
	deps     *Deps
	sessions map[entity.ID]*actor.PID
}

func NewManagerActor(deps *Deps) *ManagerActor {
	return &ManagerActor{
		deps:     deps,
		sessions: make(map[entity.ID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
		return
	case *messages.CreateSession:
		if msg == nil {
			ctx.Respond(&messages.Reply{Err: entity.ErrSessionNotFound})
			return
		}
		if _, ok := m.sessions[msg.SessionID()]; ok {
			ctx.Respond(&messages.Reply{Err: entity.ErrSessionExists.WithData("session_id", msg.SessionID())})
			return
		}
		ctx.Forward(m.spawn(ctx, msg.SessionID()))
		return
	case messages.SessionMessage:
		if msg == nil {
			ctx.Respond(&messages.Reply{Err: entity.ErrSessionNotFound})
			return
		}
		pid, ok := m.sessions[msg.SessionID()]
		if !ok {
			ctx.Respond(&messages.Reply{Err: entity.ErrSessionNotFound.WithData("session_id", msg.SessionID())})
			return
		}
		ctx.Forward(pid)
	}
}

func (m *ManagerActor) spawn(ctx actor.Context, id entity.ID) *actor.PID {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(id, m.deps)
	})
	pid := ctx.Spawn(props)
	m.sessions[id] = pid
	return pid
}

func (m *ManagerActor) forget(pid *actor.PID) {
	if pid == nil {
		return
	}
	for id, p := range m.sessions {
		if p.Equal(pid) {
			delete(m.sessions, id)
			return
		}
	}
}
