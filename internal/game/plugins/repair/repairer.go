// Package repair 维护待修理建筑列表，按资源请求协议逐步回血。
package repair

import (
	"slices"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
)

const (
	Name = "buildingRepairer"
	kind = "repair"
)

type entry struct {
	building *entity.Building
	spec     catalog.Repair
	waiting  bool
}

type Repairer struct {
	gameplay.Base
	cat     *catalog.Catalog
	entries []*entry
}

func New(cat *catalog.Catalog) *Repairer {
	r := &Repairer{Base: gameplay.NewBase(Name), cat: cat}
	h := r.Handlers()
	gameplay.On(h, r.onGameMapInitialization)
	gameplay.On(h, r.onRepairBuilding)
	gameplay.On(h, r.onResourcesDispatched)
	gameplay.On(h, func(e event.BuildingDestroyed) { r.drop(e.Building.ID) })
	return r
}

// Repairing 返回修理中的建筑 id，按加入顺序。
func (r *Repairer) Repairing() []int64 {
	out := make([]int64, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.building.ID)
	}
	return out
}

func (r *Repairer) HandleTick() {
	for _, e := range slices.Clone(r.entries) {
		if !e.building.Alive() {
			r.drop(e.building.ID)
			continue
		}
		if e.waiting {
			continue
		}
		e.waiting = true
		cost := make([]int, len(e.spec.Resources))
		copy(cost, e.spec.Resources)
		r.Emit(event.ResourceRequest{
			Target:    event.RequestTarget{Plugin: Name, Kind: kind, ID: e.building.ID},
			Player:    e.building.Player,
			Resources: cost,
		})
	}
}

// onGameMapInitialization 把修理列表换到新地图的建筑上：按坐标重新定位，
// 同一玩家同类型且仍然受损的保留，其余丢弃。
func (r *Repairer) onGameMapInitialization(e event.GameMapInitialization) {
	kept := r.entries[:0]
	for _, en := range r.entries {
		old := en.building
		b := e.World.BuildingAt(old.X, old.Y)
		if b == nil || b.Player != old.Player || b.Type != old.Type || !b.Alive() || b.Hitpoints >= b.MaxHitpoints {
			continue
		}
		en.building = b
		en.waiting = false
		kept = append(kept, en)
	}
	clear(r.entries[len(kept):])
	r.entries = kept
}

// onRepairBuilding 切换修理状态：已在列表中的建筑再次下令即取消修理。
func (r *Repairer) onRepairBuilding(e event.RepairBuilding) {
	if r.drop(e.Building.ID) {
		return
	}
	if !e.Building.Alive() || e.Building.IsResource() {
		return
	}
	spec := r.cat.MustBuilding(e.Building.Type).Repair
	r.entries = append(r.entries, &entry{building: e.Building, spec: spec})
}

func (r *Repairer) onResourcesDispatched(e event.ResourcesDispatched) {
	if e.Target.Plugin != Name {
		return
	}
	idx := slices.IndexFunc(r.entries, func(en *entry) bool { return en.building.ID == e.Target.ID })
	if idx < 0 {
		return
	}
	en := r.entries[idx]
	en.waiting = false
	b := en.building
	if !b.Alive() {
		r.drop(b.ID)
		return
	}
	if !e.Granted() {
		return
	}
	b.Hitpoints = min(b.Hitpoints+en.spec.Hitpoints, b.MaxHitpoints)
	if b.Hitpoints >= b.MaxHitpoints {
		r.drop(b.ID)
	}
}

func (r *Repairer) drop(id int64) bool {
	idx := slices.IndexFunc(r.entries, func(en *entry) bool { return en.building.ID == id })
	if idx < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, idx, idx+1)
	return true
}
