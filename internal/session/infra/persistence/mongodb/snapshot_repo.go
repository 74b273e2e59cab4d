package mongodb

import (
	"context"
	"errors"

	"Skirmish/internal/session/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "sessions"

type SnapshotRepository struct {
	coll *mongo.Collection
}

func NewSnapshotRepository(db *mongo.Database, collection string) *SnapshotRepository {
	if collection == "" {
		collection = defaultCollectionName
	}
	return &SnapshotRepository{coll: db.Collection(collection)}
}

func (r *SnapshotRepository) Load(ctx context.Context, id entity.ID) (*entity.Record, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb session collection is nil")
	}
	var rec entity.Record
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == nil {
		return &rec, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	return nil, err
}

// Save 以 session id 为主键整文档覆盖；只接受不旧于库中版本的记录。
func (r *SnapshotRepository) Save(ctx context.Context, rec *entity.Record) error {
	if rec == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb session collection is nil")
	}
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": rec.SessionID, "version": bson.M{"$lte": rec.Version}},
		rec,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// 库里已有更新的版本，upsert 撞主键。
		return nil
	}
	return err
}
