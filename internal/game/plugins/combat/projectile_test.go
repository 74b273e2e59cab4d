package combat

import (
	"testing"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/hexgrid"
	"Skirmish/internal/game/world"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Emit(e event.Event) { r.events = append(r.events, e) }

func (r *recorder) count(k event.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind() == k {
			n++
		}
	}
	return n
}

func setup(strict bool) (*world.World, *Control, *recorder, *catalog.Catalog) {
	cat := catalog.Default()
	w := world.New(cat, "combat", 20, 20)
	c := New(w, nil, strict)
	rec := &recorder{}
	c.Bind(rec)
	return w, c, rec, cat
}

func fire(w *world.World, typ int, target hexgrid.Point, duration, damage, player int, by *entity.Unit) *entity.Projectile {
	p := entity.NewProjectile(typ, player, entity.Anchor{X: 0, Y: 0},
		entity.Anchor{X: target.X, Y: target.Y, XOffset: 0.5, YOffset: 0.5}, duration, damage, by)
	w.AddProjectile(p)
	return p
}

func TestCombat_50血建筑被50伤害摧毁且只发一次事件(t *testing.T) {
	w, c, rec, cat := setup(false)
	b := entity.NewBuilding(cat.MustBuilding(1), 5, 5, 2)
	b.Hitpoints = 50
	if err := w.PlaceBuilding(b); err != nil {
		t.Fatal(err)
	}
	fire(w, entity.ProjectileImpact, b.Position(), 3, 50, 1, nil)

	for i := 0; i < 6; i++ {
		c.HandleTick()
	}
	if len(w.Buildings()) != 0 || w.BuildingAt(5, 5) != nil {
		t.Fatalf("建筑应被移出地图")
	}
	if n := rec.count(event.KindBuildingDestroyed); n != 1 {
		t.Fatalf("buildingDestroyed 期望 1 次, got=%d", n)
	}
	if len(w.Projectiles()) != 0 {
		t.Fatalf("弹道应在 progress==duration 时移除")
	}
	if err := w.VerifyNavigation(); err != nil {
		t.Fatal(err)
	}
}

func TestCombat_抵达型弹道在到达时生效(t *testing.T) {
	w, c, _, cat := setup(false)
	u := entity.NewUnit(cat.MustUnit(1), 4, 4, hexgrid.North, 2)
	_ = w.UpdateUnit(u)
	p := fire(w, entity.ProjectileImpact, u.Position(), 2, 20, 1, nil)

	c.HandleTick()
	c.HandleTick()
	if u.Hitpoints != 300 || p.Progress != 2 {
		t.Fatalf("到达前不应生效: hp=%d progress=%d", u.Hitpoints, p.Progress)
	}
	c.HandleTick()
	if u.Hitpoints != 280 || len(w.Projectiles()) != 0 {
		t.Fatalf("到达时生效并移除: hp=%d", u.Hitpoints)
	}
}

func TestCombat_光束在发射当tick生效(t *testing.T) {
	w, c, _, cat := setup(false)
	u := entity.NewUnit(cat.MustUnit(1), 4, 4, hexgrid.North, 2)
	_ = w.UpdateUnit(u)
	fire(w, entity.ProjectileBeam, u.Position(), 2, 20, 1, nil)

	c.HandleTick()
	if u.Hitpoints != 280 {
		t.Fatalf("光束应立即生效, hp=%d", u.Hitpoints)
	}
	c.HandleTick()
	c.HandleTick()
	if u.Hitpoints != 280 || len(w.Projectiles()) != 0 {
		t.Fatalf("光束只生效一次: hp=%d", u.Hitpoints)
	}
}

func TestCombat_单位被击毁移出索引(t *testing.T) {
	w, c, rec, cat := setup(false)
	u := entity.NewUnit(cat.MustUnit(1), 4, 4, hexgrid.North, 2)
	_ = w.UpdateUnit(u)
	fire(w, entity.ProjectileBeam, u.Position(), 0, 1000, 1, nil)
	c.HandleTick()
	if u.Action != entity.ActionDestroyed || w.UnitAt(4, 4) != nil || !w.Navigable(4, 4) {
		t.Fatalf("被击毁单位应移出地图")
	}
	if rec.count(event.KindUnitDestroyed) != 1 {
		t.Fatalf("unitDestroyed 期望 1 次")
	}
}

func TestCombat_存活的敌方待命单位反击(t *testing.T) {
	w, c, rec, cat := setup(false)
	shooter := entity.NewUnit(cat.MustUnit(1), 10, 10, hexgrid.North, 1)
	victim := entity.NewUnit(cat.MustUnit(1), 4, 4, hexgrid.North, 2)
	_ = w.UpdateUnit(shooter)
	_ = w.UpdateUnit(victim)
	victim.Action = entity.ActionStanding

	fire(w, entity.ProjectileBeam, victim.Position(), 1, 10, 1, shooter)
	c.HandleTick()
	if rec.count(event.KindIssueAttackUnitOrder) != 1 {
		t.Fatalf("期望发出反击命令")
	}
	order := rec.events[len(rec.events)-1].(event.IssueAttackUnitOrder)
	if order.Target != shooter || len(order.Units) != 1 || order.Units[0] != victim {
		t.Fatalf("反击命令不符: %+v", order)
	}

	// 已有目标时不再反击。
	victim.Target = shooter
	fire(w, entity.ProjectileBeam, victim.Position(), 1, 10, 1, shooter)
	c.HandleTick()
	if rec.count(event.KindIssueAttackUnitOrder) != 1 {
		t.Fatalf("已有目标的单位不应再次反击")
	}
}

func TestCombat_射手已被击毁时不反击(t *testing.T) {
	w, c, rec, cat := setup(false)
	shooter := entity.NewUnit(cat.MustUnit(1), 10, 10, hexgrid.North, 1)
	victim := entity.NewUnit(cat.MustUnit(1), 4, 4, hexgrid.North, 2)
	_ = w.UpdateUnit(shooter)
	_ = w.UpdateUnit(victim)
	victim.Action = entity.ActionStanding

	fire(w, entity.ProjectileBeam, victim.Position(), 1, 10, 1, shooter)
	shooter.Hitpoints = 0
	c.HandleTick()
	if rec.count(event.KindIssueAttackUnitOrder) != 0 {
		t.Fatalf("射手已毁时不应发反击命令")
	}
	if victim.Hitpoints != victim.MaxHitpoints-10 {
		t.Fatalf("伤害仍应生效, got=%d", victim.Hitpoints)
	}
}

func TestCombat_不支持的弹道类型(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cat := catalog.Default()
	w := world.New(cat, "combat", 10, 10)
	c := New(w, logx.NewZapLogger(zap.New(core)), false)
	c.Bind(&recorder{})
	keep := fire(w, entity.ProjectileImpact, hexgrid.Point{X: 1, Y: 1}, 3, 1, 1, nil)
	fire(w, 9, hexgrid.Point{X: 1, Y: 1}, 3, 1, 1, nil)

	c.HandleTick()
	if ps := w.Projectiles(); len(ps) != 1 || ps[0] != keep || keep.Progress != 1 {
		t.Fatalf("不支持的弹道应被丢弃，其余照常推进")
	}
	if logs.FilterField(zap.String("err_type", "fatal")).Len() != 1 {
		t.Fatalf("期望记录一条 fatal 日志")
	}

	strict := New(w, nil, true)
	fire(w, 9, hexgrid.Point{X: 1, Y: 1}, 3, 1, 1, nil)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errx.IsFatal(err) {
			t.Fatalf("strict 模式应以致命错误 panic, got=%v", r)
		}
	}()
	strict.HandleTick()
}
