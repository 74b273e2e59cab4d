package entity

import (
	"testing"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/hexgrid"
)

func TestUnit_Move_向东一步记录上一位置(t *testing.T) {
	u := NewUnit(catalog.Default().MustUnit(1), 5, 5, hexgrid.East, 1)
	u.Move(1)
	if u.X != 6 || u.Y != 5 {
		t.Fatalf("期望 (6,5), got=(%d,%d)", u.X, u.Y)
	}
	if u.LastPosition() != (hexgrid.Point{X: 5, Y: 5}) {
		t.Fatalf("期望 lastPosition=(5,5), got=%+v", u.LastPosition())
	}
	if u.Action != ActionMoved {
		t.Fatalf("期望 action=moved, got=%s", u.Action)
	}
	if u.MoveOffset != 0 || u.MoveOffsetX != 1 || u.MoveOffsetY != 0 {
		t.Fatalf("期望移动偏移重置: offset=%d x=%v y=%v", u.MoveOffset, u.MoveOffsetX, u.MoveOffsetY)
	}
}

func TestUnit_Move_多步只记录最初出发点(t *testing.T) {
	u := NewUnit(catalog.Default().MustUnit(0), 4, 4, hexgrid.South, 1)
	u.Move(2)
	if u.X != 4 || u.Y != 8 || u.LastX != 4 || u.LastY != 4 {
		t.Fatalf("got pos=(%d,%d) last=(%d,%d)", u.X, u.Y, u.LastX, u.LastY)
	}
}

func TestUnit_SetMoveOffset_按方向投影(t *testing.T) {
	u := NewUnit(catalog.Default().MustUnit(0), 0, 0, hexgrid.NorthWest, 1)
	u.SetMoveOffset(500)
	if u.MoveOffsetX != -0.25 || u.MoveOffsetY != -0.25 {
		t.Fatalf("NW 半程期望 (-0.25,-0.25), got=(%v,%v)", u.MoveOffsetX, u.MoveOffsetY)
	}
	u.Direction = hexgrid.South
	u.SetMoveOffset(0)
	if u.MoveOffsetX != 0 || u.MoveOffsetY != 1 {
		t.Fatalf("S 起点期望 (0,1), got=(%v,%v)", u.MoveOffsetX, u.MoveOffsetY)
	}
	u.SetMoveOffset(1000)
	if u.MoveOffsetY != 0 {
		t.Fatalf("到达后偏移应归零, got=%v", u.MoveOffsetY)
	}
}

func TestUnit_FacingEachOther(t *testing.T) {
	c := catalog.Default()
	a := NewUnit(c.MustUnit(1), 0, 0, hexgrid.East, 1)
	b := NewUnit(c.MustUnit(1), 1, 0, hexgrid.West, 2)
	if !a.FacingEachOther(b) {
		t.Fatalf("东西相向应判定为迎面")
	}
	b.Direction = hexgrid.North
	if a.FacingEachOther(b) {
		t.Fatalf("非相向不应判定为迎面")
	}
}

func TestBuilding_瞄准点与接近点(t *testing.T) {
	b := NewBuilding(catalog.Default().MustBuilding(0), 10, 10, 1)
	if b.AimPoint() != (hexgrid.Point{X: 11, Y: 11}) {
		t.Fatalf("aim=%+v", b.AimPoint())
	}
	if b.Approach() != (hexgrid.Point{X: 10, Y: 11}) {
		t.Fatalf("approach=%+v", b.Approach())
	}
	if len(b.Footprint()) != 9 {
		t.Fatalf("3x3 建筑应占 9 格")
	}
}

func TestNextID_单调递增(t *testing.T) {
	a, b := NextID(), NextID()
	if b <= a {
		t.Fatalf("id 应单调递增: %d %d", a, b)
	}
}
