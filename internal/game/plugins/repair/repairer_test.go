package repair

import (
	"testing"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/plugins/resource"
)

func setup(t *testing.T, stock int) (*gameplay.GamePlay, *Repairer, *catalog.Catalog) {
	t.Helper()
	cat := catalog.Default()
	g := gameplay.New(gameplay.Config{}, nil)
	r := New(cat)
	_ = g.Register(r)
	_ = g.Register(resource.New(cat.ResourceCount()))
	_ = g.Dispatch(event.PlayerResourcesInitialization{Player: 1, Resources: []int{stock}})
	return g, r, cat
}

func TestRepair_回血到满后出队(t *testing.T) {
	g, r, cat := setup(t, 1000)
	// 1 号建筑：400 血，每次修理 +25，花费 3。
	b := entity.NewBuilding(cat.MustBuilding(1), 0, 0, 1)
	b.Hitpoints = 340
	_ = g.Dispatch(event.RepairBuilding{Building: b})

	r.HandleTick()
	if b.Hitpoints != 365 {
		t.Fatalf("一次修理应 +25, got=%d", b.Hitpoints)
	}
	r.HandleTick()
	r.HandleTick()
	if b.Hitpoints != 400 {
		t.Fatalf("回血应封顶到 400, got=%d", b.Hitpoints)
	}
	if len(r.Repairing()) != 0 {
		t.Fatalf("满血后应出队")
	}
}

func TestRepair_再次下令即取消(t *testing.T) {
	g, r, cat := setup(t, 1000)
	b := entity.NewBuilding(cat.MustBuilding(1), 0, 0, 1)
	b.Hitpoints = 100
	_ = g.Dispatch(event.RepairBuilding{Building: b})
	_ = g.Dispatch(event.RepairBuilding{Building: b})
	if len(r.Repairing()) != 0 {
		t.Fatalf("第二次下令应取消修理")
	}
	r.HandleTick()
	if b.Hitpoints != 100 {
		t.Fatalf("取消后不应回血")
	}
}

func TestRepair_资源不足不回血_被摧毁出队(t *testing.T) {
	g, r, cat := setup(t, 0)
	b := entity.NewBuilding(cat.MustBuilding(1), 0, 0, 1)
	b.Hitpoints = 100
	_ = g.Dispatch(event.RepairBuilding{Building: b})
	r.HandleTick()
	r.HandleTick()
	if b.Hitpoints != 100 || len(r.Repairing()) != 1 {
		t.Fatalf("被拒绝时保留在列表中且不回血: hp=%d", b.Hitpoints)
	}

	b.Hitpoints = 0
	r.HandleTick()
	if len(r.Repairing()) != 0 {
		t.Fatalf("被摧毁的建筑应出队")
	}
}
