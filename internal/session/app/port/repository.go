package port

import (
	"context"

	"Skirmish/internal/session/entity"
)

// SnapshotRepository 持久化会话快照。Load 找不到记录时返回 (nil, nil)。
type SnapshotRepository interface {
	Load(ctx context.Context, id entity.ID) (*entity.Record, error)
	Save(ctx context.Context, r *entity.Record) error
}
