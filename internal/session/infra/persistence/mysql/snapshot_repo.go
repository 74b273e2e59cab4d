package mysql

import (
	"context"
	"encoding/json"
	"errors"

	"Skirmish/internal/game/world"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/session/infra/persistence/model"
	"Skirmish/modules/kit/errx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSnapshotStore = errx.NewSys("SNAPSHOT_STORE", "快照存储失败")

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Migrate 建表，启动时调用一次。
func (r *SnapshotRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.SessionSnapshot{})
}

func (r *SnapshotRepository) Load(ctx context.Context, id entity.ID) (*entity.Record, error) {
	var m model.SessionSnapshot
	err := r.db.WithContext(ctx).Where("session_id = ?", id).First(&m).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, ErrSnapshotStore.WithData("session_id", id).WithCause(err)
	}

	var snap world.Snapshot
	if err := json.Unmarshal(m.Payload, &snap); err != nil {
		return nil, ErrSnapshotStore.WithData("session_id", id).WithCause(err)
	}
	return &entity.Record{SessionID: m.SessionID, Version: m.Version, Snapshot: snap, SavedAt: m.SavedAt}, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, rec *entity.Record) error {
	if rec == nil {
		return nil
	}
	payload, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return ErrSnapshotStore.WithData("session_id", rec.SessionID).WithCause(err)
	}
	m := &model.SessionSnapshot{
		SessionID: rec.SessionID,
		Version:   rec.Version,
		Payload:   payload,
		SavedAt:   rec.SavedAt,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"version":  gorm.Expr("IF(VALUES(version) >= version, VALUES(version), version)"),
			"payload":  gorm.Expr("IF(VALUES(version) >= version, VALUES(payload), payload)"),
			"saved_at": gorm.Expr("IF(VALUES(version) >= version, VALUES(saved_at), saved_at)"),
		}),
	}).Create(m).Error
	if err != nil {
		return ErrSnapshotStore.WithData("session_id", rec.SessionID).WithCause(err)
	}
	return nil
}
