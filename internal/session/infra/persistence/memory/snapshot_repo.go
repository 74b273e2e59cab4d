package memory

import (
	"context"
	"sync"

	"Skirmish/internal/session/entity"
)

// SnapshotRepository 把记录留在进程内，进程退出即丢失。
type SnapshotRepository struct {
	mu      sync.RWMutex
	records map[entity.ID]*entity.Record
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{records: make(map[entity.ID]*entity.Record)}
}

func (r *SnapshotRepository) Load(ctx context.Context, id entity.ID) (*entity.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, rec *entity.Record) error {
	_ = ctx
	if rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.records[rec.SessionID]; ok && old.Version > rec.Version {
		return nil
	}
	r.records[rec.SessionID] = rec
	return nil
}
