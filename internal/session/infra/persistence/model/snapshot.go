package model

import "time"

type SessionSnapshot struct {
	SessionID string    `gorm:"column:session_id;type:varchar(64);primaryKey;not null;" json:"session_id"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;default:0;" json:"version"`
	Payload   []byte    `gorm:"column:payload;type:longblob;comment:地图快照 json;not null;" json:"payload"`
	SavedAt   time.Time `gorm:"column:saved_at;type:timestamp;not null;" json:"saved_at"`
}

func (s *SessionSnapshot) TableName() string {
	return "session_snapshot"
}
