package handler

import (
	"context"

	"Skirmish/internal/game/world"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/shared/actor/messages"
)

// Host 是 handler 依赖的会话宿主，由 actor.Runtime 实现。
type Host interface {
	Create(ctx context.Context, id entity.ID, name string, width, height int, snap *world.Snapshot) (*messages.SessionState, error)
	Start(ctx context.Context, id entity.ID) (*messages.SessionState, error)
	Stop(ctx context.Context, id entity.ID) (*messages.SessionState, error)
	Close(ctx context.Context, id entity.ID) error
	State(ctx context.Context, id entity.ID) (*messages.SessionState, error)
	Command(ctx context.Context, id entity.ID, cmd entity.Command) error
	Export(ctx context.Context, id entity.ID) (*world.Snapshot, error)
	Import(ctx context.Context, id entity.ID, snap world.Snapshot) (*messages.SessionState, error)
	Subscribe(ctx context.Context, id entity.ID, sub messages.Subscriber) error
}
