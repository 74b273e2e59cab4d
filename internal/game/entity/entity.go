// Package entity 定义地图上的四类实体：地块、建筑、单位、弹道。
// 实体只通过 world 或其所属插件修改。
package entity

import (
	"sync/atomic"

	"Skirmish/internal/game/hexgrid"
)

var lastID atomic.Int64

// NextID 返回进程内单调递增的实体 id。
func NextID() int64 {
	return lastID.Add(1)
}

// Target 是单位攻击目标：单位或建筑。
type Target interface {
	Owner() int
	Alive() bool
	// AimPoint 是瞄准点（建筑取中心格）。
	AimPoint() hexgrid.Point
}
