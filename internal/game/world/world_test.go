package world

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/hexgrid"
)

func newTestWorld(t *testing.T) (*World, *catalog.Catalog) {
	t.Helper()
	cat := catalog.Default()
	return New(cat, "test", 20, 20), cat
}

func mustVerify(t *testing.T, w *World) {
	t.Helper()
	if err := w.VerifyNavigation(); err != nil {
		t.Fatalf("导航索引不一致: %v", err)
	}
}

func TestPlaceBuilding_占地与导航(t *testing.T) {
	w, cat := newTestWorld(t)
	b := entity.NewBuilding(cat.MustBuilding(0), 5, 4, 1)
	if err := w.PlaceBuilding(b); err != nil {
		t.Fatalf("PlaceBuilding: %v", err)
	}
	tiles := w.TilesOccupiedBy(b)
	if len(tiles) != 9 {
		t.Fatalf("3x3 建筑应占 9 格, got=%d", len(tiles))
	}
	for _, p := range tiles {
		if w.BuildingAt(p.X, p.Y) != b {
			t.Fatalf("(%d,%d) 未写入建筑索引", p.X, p.Y)
		}
		if w.Navigable(p.X, p.Y) {
			t.Fatalf("(%d,%d) 被不可通行建筑占据后仍可通行", p.X, p.Y)
		}
	}
	mustVerify(t, w)

	other := entity.NewBuilding(cat.MustBuilding(1), 6, 5, 2)
	if err := w.PlaceBuilding(other); !errors.Is(err, ErrTileOccupied) {
		t.Fatalf("重叠放置期望 TILE_OCCUPIED, got=%v", err)
	}
	if len(w.Buildings()) != 1 {
		t.Fatalf("被拒绝的放置不应进入列表")
	}

	if !w.RemoveBuilding(b) {
		t.Fatalf("RemoveBuilding 返回 false")
	}
	for _, p := range tiles {
		if !w.Navigable(p.X, p.Y) || w.BuildingAt(p.X, p.Y) != nil {
			t.Fatalf("(%d,%d) 移除后应恢复可通行", p.X, p.Y)
		}
	}
	mustVerify(t, w)
}

func TestPlaceBuilding_越界整体拒绝(t *testing.T) {
	w, cat := newTestWorld(t)
	b := entity.NewBuilding(cat.MustBuilding(0), 19, 18, 1)
	if err := w.PlaceBuilding(b); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("期望 OUT_OF_BOUNDS, got=%v", err)
	}
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			if w.BuildingAt(x, y) != nil {
				t.Fatalf("越界放置不应留下部分占地 (%d,%d)", x, y)
			}
		}
	}
}

func TestPassableBuilding_单位可进入(t *testing.T) {
	w, cat := newTestWorld(t)
	ore := entity.NewBuilding(cat.MustBuilding(3), 3, 3, 0)
	if err := w.PlaceBuilding(ore); err != nil {
		t.Fatal(err)
	}
	if !w.Navigable(3, 3) {
		t.Fatalf("可通行建筑不应阻挡导航")
	}
	u := entity.NewUnit(cat.MustUnit(0), 3, 3, hexgrid.North, 1)
	if err := w.UpdateUnit(u); err != nil {
		t.Fatalf("单位应可站在矿点上: %v", err)
	}
	if w.ObjectAt(3, 3) != entity.Target(u) {
		t.Fatalf("ObjectAt 应优先返回单位")
	}
	mustVerify(t, w)
}

func TestUpdateUnit_创建移动销毁(t *testing.T) {
	w, cat := newTestWorld(t)
	u := entity.NewUnit(cat.MustUnit(1), 5, 5, hexgrid.East, 1)
	if err := w.UpdateUnit(u); err != nil {
		t.Fatal(err)
	}
	if w.Navigable(5, 5) {
		t.Fatalf("单位所在格应不可通行")
	}

	u.Move(1)
	if err := w.UpdateUnit(u); err != nil {
		t.Fatal(err)
	}
	if u.Position() != (hexgrid.Point{X: 6, Y: 5}) || u.LastPosition() != (hexgrid.Point{X: 5, Y: 5}) {
		t.Fatalf("pos=%+v last=%+v", u.Position(), u.LastPosition())
	}
	if u.Action != entity.ActionMoved {
		t.Fatalf("期望 moved, got=%s", u.Action)
	}
	if w.UnitAt(5, 5) != nil || w.UnitAt(6, 5) != u || !w.Navigable(5, 5) || w.Navigable(6, 5) {
		t.Fatalf("移动后索引未正确更新")
	}
	mustVerify(t, w)

	u.Action = entity.ActionDestroyed
	if err := w.UpdateUnit(u); err != nil {
		t.Fatal(err)
	}
	if len(w.Units()) != 0 || w.UnitAt(6, 5) != nil || !w.Navigable(6, 5) {
		t.Fatalf("销毁后应释放地块")
	}
	mustVerify(t, w)
}

func TestUpdateUnit_移动被拒绝时退回原位(t *testing.T) {
	w, cat := newTestWorld(t)
	blocker := entity.NewUnit(cat.MustUnit(1), 6, 5, hexgrid.North, 2)
	u := entity.NewUnit(cat.MustUnit(1), 5, 5, hexgrid.East, 1)
	_ = w.UpdateUnit(blocker)
	_ = w.UpdateUnit(u)

	u.Move(1)
	if err := w.UpdateUnit(u); !errors.Is(err, ErrTileOccupied) {
		t.Fatalf("期望 TILE_OCCUPIED, got=%v", err)
	}
	if u.Position() != (hexgrid.Point{X: 5, Y: 5}) || w.UnitAt(5, 5) != u {
		t.Fatalf("被拒绝的移动应退回原位")
	}
	mustVerify(t, w)
}

func TestNavigation_不可通行地形与越界(t *testing.T) {
	w, cat := newTestWorld(t)
	water, _ := cat.Tile(1)
	if err := w.SetTile(2, 2, entity.NewTile(water, 0)); err != nil {
		t.Fatal(err)
	}
	if w.Navigable(2, 2) {
		t.Fatalf("水面不可通行")
	}
	if w.Navigable(-1, 0) || w.Navigable(0, 20) || w.ObjectAt(99, 99) != nil {
		t.Fatalf("越界坐标不可通行且没有对象")
	}
	b := entity.NewBuilding(cat.MustBuilding(1), 2, 2, 1)
	if w.CanPlaceBuilding(b) {
		t.Fatalf("占地含水面时不可放置")
	}
	mustVerify(t, w)
}

func TestNavigation_任意放置移除序列保持不变式(t *testing.T) {
	w, cat := newTestWorld(t)
	var placed []*entity.Building
	for i := 0; i < 12; i++ {
		b := entity.NewBuilding(cat.MustBuilding(i%4), (i*7)%17, (i*5)%17, i%3)
		if w.PlaceBuilding(b) == nil {
			placed = append(placed, b)
		}
		mustVerify(t, w)
		if i%3 == 2 && len(placed) > 0 {
			w.RemoveBuilding(placed[0])
			placed = placed[1:]
			mustVerify(t, w)
		}
	}
	for i := 0; i < 6; i++ {
		u := entity.NewUnit(cat.MustUnit(i%2), (i*3)%19, (i*11)%19, hexgrid.Direction(i), 1)
		_ = w.UpdateUnit(u)
		mustVerify(t, w)
	}
	for _, b := range placed {
		w.RemoveBuilding(b)
		mustVerify(t, w)
	}
}

func populated(t *testing.T) *World {
	t.Helper()
	w, cat := newTestWorld(t)
	w.SetName("round trip")
	rock, _ := cat.Tile(2)
	_ = w.SetTile(0, 0, entity.NewTile(rock, 3))

	yard := entity.NewBuilding(cat.MustBuilding(0), 5, 4, 1)
	yard.Hitpoints = 700
	yard.IsSelectedUnitProductionBuilding = true
	if err := w.PlaceBuilding(yard); err != nil {
		t.Fatal(err)
	}
	if err := w.PlaceBuilding(entity.NewBuilding(cat.MustBuilding(3), 12, 12, 0)); err != nil {
		t.Fatal(err)
	}
	shooter := entity.NewUnit(cat.MustUnit(1), 10, 10, hexgrid.SouthWest, 2)
	shooter.Hitpoints = 120
	if err := w.UpdateUnit(shooter); err != nil {
		t.Fatal(err)
	}
	if err := w.UpdateUnit(entity.NewUnit(cat.MustUnit(0), 12, 12, hexgrid.North, 1)); err != nil {
		t.Fatal(err)
	}
	p := entity.NewProjectile(entity.ProjectileImpact, 2,
		entity.Anchor{X: 10, Y: 10, XOffset: 0.3, YOffset: 0.8},
		entity.Anchor{X: 6, Y: 6, XOffset: 0.5, YOffset: 0.5}, 5, 20, shooter)
	p.Progress = 2
	w.AddProjectile(p)
	return w
}

func TestSnapshot_导出导入往返一致(t *testing.T) {
	w := populated(t)
	first := w.Export()

	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	restored := New(w.Catalog(), "", 1, 1)
	if err := restored.Import(decoded); err != nil {
		t.Fatalf("Import: %v", err)
	}
	second := restored.Export()
	normalize(&first)
	normalize(&second)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("往返不一致:\nfirst=%+v\nsecond=%+v", first, second)
	}
	mustVerify(t, restored)
	if second.Projectiles[0].FiredBy == nil || *second.Projectiles[0].FiredBy != (hexgrid.Point{X: 10, Y: 10}) {
		t.Fatalf("firedBy 应解析回开火单位")
	}
}

func normalize(s *Snapshot) {
	sort.Slice(s.Buildings, func(i, j int) bool {
		a, b := s.Buildings[i], s.Buildings[j]
		return a.Y*1000+a.X < b.Y*1000+b.X
	})
	sort.Slice(s.Units, func(i, j int) bool {
		a, b := s.Units[i], s.Units[j]
		return a.Y*1000+a.X < b.Y*1000+b.X
	})
}

func TestSnapshot_版本与数据校验(t *testing.T) {
	w := populated(t)
	before := w.Export()

	bad := w.Export()
	bad.Version = 1.0
	if err := w.Import(bad); !errors.Is(err, ErrSnapshotVersion) {
		t.Fatalf("期望 SNAPSHOT_VERSION, got=%v", err)
	}

	bad = w.Export()
	bad.Buildings = append(bad.Buildings, BuildingSnapshot{X: 5, Y: 4, Type: 1, Player: 2})
	if err := w.Import(bad); !errors.Is(err, ErrSnapshotInvalid) {
		t.Fatalf("重叠建筑期望 SNAPSHOT_INVALID, got=%v", err)
	}

	bad = w.Export()
	bad.Units[0].Type = 42
	if err := w.Import(bad); !errors.Is(err, ErrSnapshotInvalid) {
		t.Fatalf("未知单位类型期望 SNAPSHOT_INVALID, got=%v", err)
	}

	if !reflect.DeepEqual(before, w.Export()) {
		t.Fatalf("导入失败后地图应保持不变")
	}
}

func TestRemoveProjectile_按下标移除(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := 0; i < 3; i++ {
		w.AddProjectile(entity.NewProjectile(0, 1, entity.Anchor{}, entity.Anchor{}, i, 1, nil))
	}
	w.RemoveProjectile(1)
	w.RemoveProjectile(9)
	ps := w.Projectiles()
	if len(ps) != 2 || ps[0].Duration != 0 || ps[1].Duration != 2 {
		t.Fatalf("移除后顺序不符: %+v", ps)
	}
}
