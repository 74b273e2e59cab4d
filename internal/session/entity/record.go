package entity

import (
	"time"

	"Skirmish/internal/game/world"
)

// Record 是持久化的一份会话快照，Version 单调递增，旧版本不能覆盖新版本。
type Record struct {
	SessionID string         `json:"sessionId" bson:"_id"`
	Version   uint64         `json:"version" bson:"version"`
	Snapshot  world.Snapshot `json:"snapshot" bson:"snapshot"`
	SavedAt   time.Time      `json:"savedAt" bson:"savedAt"`
}
