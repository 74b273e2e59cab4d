package actors

import (
	"time"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/session/app/port"
	"Skirmish/internal/session/entity"
	"Skirmish/modules/kit/logx"
)

// Deps 是所有会话 actor 共享的只读依赖。
type Deps struct {
	Repo       port.SnapshotRepository
	Catalog    *catalog.Catalog
	Options    entity.Options
	FlushEvery time.Duration
	Log        logx.Logger
	// Now 缺省为 time.Now，测试里替换成假时钟。
	Now func() time.Time
	// DisableTicker 为 true 时不启动 tick 协程，由调用方自己发 Tick。
	DisableTicker bool
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) logger() logx.Logger {
	if d.Log == nil {
		return logx.Nop()
	}
	return d.Log
}
