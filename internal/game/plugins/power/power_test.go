package power

import (
	"testing"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/hexgrid"
	"Skirmish/internal/game/world"
)

type recorder struct {
	updates []event.EnergyLevelUpdate
}

func (r *recorder) Emit(e event.Event) {
	if u, ok := e.(event.EnergyLevelUpdate); ok {
		r.updates = append(r.updates, u)
	}
}

func TestPower_增量维护收支(t *testing.T) {
	cat := catalog.Default()
	m := New()
	rec := &recorder{}
	m.Bind(rec)

	plant := entity.NewBuilding(cat.MustBuilding(1), 0, 0, 1) // -50
	radar := entity.NewBuilding(cat.MustBuilding(2), 4, 4, 1) // +30
	tank := entity.NewUnit(cat.MustUnit(1), 8, 8, hexgrid.North, 1)

	m.HandleEvent(event.BuildingPlaced{Building: plant})
	m.HandleEvent(event.BuildingPlaced{Building: radar})
	m.HandleEvent(event.UnitCreated{Unit: tank})
	got := m.Level(1)
	if got.Production != 50 || got.Consumption != 35 || got.Level != 15 {
		t.Fatalf("收支不符: %+v", got)
	}

	m.HandleEvent(event.BuildingDestroyed{Building: plant})
	m.HandleEvent(event.UnitDestroyed{Unit: tank})
	got = m.Level(1)
	if got.Production != 0 || got.Consumption != 30 || got.Level != -30 {
		t.Fatalf("移除后收支不符: %+v", got)
	}
	if len(rec.updates) != 5 {
		t.Fatalf("每次变化都应发布 energyLevelUpdate, got=%d", len(rec.updates))
	}
	if last := rec.updates[len(rec.updates)-1]; last.Level != -30 {
		t.Fatalf("最后一次发布应反映当前电力: %+v", last)
	}
}

func TestPower_零需求不发布(t *testing.T) {
	m := New()
	rec := &recorder{}
	m.Bind(rec)
	ore := entity.NewBuilding(catalog.Default().MustBuilding(3), 0, 0, 0)
	m.HandleEvent(event.BuildingPlaced{Building: ore})
	if len(rec.updates) != 0 {
		t.Fatalf("零电力需求不应发布")
	}
}

func TestPower_地图初始化全量统计(t *testing.T) {
	cat := catalog.Default()
	w := world.New(cat, "power", 20, 20)
	_ = w.PlaceBuilding(entity.NewBuilding(cat.MustBuilding(0), 2, 2, 1))   // -20
	_ = w.PlaceBuilding(entity.NewBuilding(cat.MustBuilding(2), 10, 10, 2)) // +30
	_ = w.UpdateUnit(entity.NewUnit(cat.MustUnit(1), 15, 15, hexgrid.North, 2))

	m := New()
	rec := &recorder{}
	m.Bind(rec)
	m.HandleEvent(event.GameMapInitialization{World: w})

	if l := m.Level(1); l.Production != 20 || l.Level != 20 {
		t.Fatalf("玩家 1: %+v", l)
	}
	if l := m.Level(2); l.Consumption != 35 || l.Level != -35 {
		t.Fatalf("玩家 2: %+v", l)
	}
	if len(rec.updates) != 2 || rec.updates[0].Player != 1 || rec.updates[1].Player != 2 {
		t.Fatalf("应按玩家顺序各发布一次: %+v", rec.updates)
	}
}
