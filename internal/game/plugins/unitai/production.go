package unitai

import (
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/hexgrid"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

// onUnitConstructionProgress 生产完成后在出兵建筑旁最近的空地出兵，朝南。
func (ai *AI) onUnitConstructionProgress(e event.UnitConstructionProgress) {
	if e.Progress < 1000 {
		return
	}
	ut, err := ai.cat.Unit(e.Unit)
	if err != nil {
		logx.ReportSysError(ai.ctx, ai.log, logx.NewSysLog("unitai.spawn", err), zap.Int("player", e.Player))
		return
	}
	pb := ai.productionBuilding(e.Player)
	if pb == nil {
		logx.ReportBiz(ai.ctx, ai.log, logx.NewBizLog("unitai.spawn", "NO_PRODUCTION_BUILDING", "玩家没有可出兵的建筑"),
			zap.Int("player", e.Player), zap.Int("unit", e.Unit))
		return
	}
	pos, ok := ai.nearestFreeTile(pb)
	if !ok {
		logx.ReportBiz(ai.ctx, ai.log, logx.NewBizLog("unitai.spawn", "NO_FREE_TILE", "出兵建筑周围没有空地"),
			zap.Int("player", e.Player), zap.Int("unit", e.Unit))
		return
	}
	u := entity.NewUnit(ut, pos.X, pos.Y, hexgrid.South, e.Player)
	if err := ai.world.UpdateUnit(u); err != nil {
		logx.ReportSysError(ai.ctx, ai.log, logx.NewSysLog("unitai.spawn", err), zap.Int("player", e.Player))
		return
	}
	ai.Emit(event.UnitCreated{Unit: u})
}

// productionBuilding 优先用已选中的中心建筑，否则选第一个中心建筑并记住。
func (ai *AI) productionBuilding(player int) *entity.Building {
	if b := ai.production[player]; b != nil && b.Alive() && ai.world.BuildingAt(b.X, b.Y) == b {
		return b
	}
	delete(ai.production, player)
	var first *entity.Building
	for _, b := range ai.world.Buildings() {
		if b.Player != player || !b.IsCentral || !b.Alive() {
			continue
		}
		if b.IsSelectedUnitProductionBuilding {
			ai.production[player] = b
			return b
		}
		if first == nil {
			first = b
		}
	}
	if first != nil {
		first.IsSelectedUnitProductionBuilding = true
		ai.production[player] = first
	}
	return first
}

// nearestFreeTile 从建筑外接半径开始逐圈向外找第一块没有对象的可通行地块。
func (ai *AI) nearestFreeTile(b *entity.Building) (hexgrid.Point, bool) {
	center := hexgrid.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
	limit := max(ai.world.Width(), ai.world.Height())
	for r := max(1, (b.Width+b.Height)/2-1); r <= limit; r++ {
		for _, p := range ring(center, r) {
			if ai.world.Navigable(p.X, p.Y) && ai.world.ObjectAt(p.X, p.Y) == nil {
				return p, true
			}
		}
	}
	return hexgrid.Point{}, false
}
