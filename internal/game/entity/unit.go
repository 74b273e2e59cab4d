package entity

import (
	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/hexgrid"
)

// Action 是单位状态机的当前状态。
type Action int

const (
	ActionCreated Action = iota
	ActionDestroyed
	ActionMoved
	ActionTraveling
	ActionStanding
	ActionWaiting
	ActionTurning
	ActionAttacking
)

var actionNames = [...]string{
	"created", "destroyed", "moved", "traveling",
	"standing", "waiting", "turning", "attacking",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// 以地块为单位的渲染投影尺寸。
const (
	tileWidth  = 1.0
	tileHeight = 1.0
)

type Unit struct {
	ID           int64
	X, Y         int
	LastX, LastY int
	Direction    hexgrid.Direction
	Type         int
	Player       int
	Action       Action

	MoveOffset   int
	MoveOffsetX  float64
	MoveOffsetY  float64
	MoveTarget   *hexgrid.Point
	Waypoints    []hexgrid.Point
	WaitingTicks int

	TurningAzimuth  int
	TurningProgress int

	Hitpoints    int
	MaxHitpoints int
	Speed        int
	TurnSpeed    int

	Target      Target
	Harvest     *Building
	FiringTimer int
	FiringSpeed int
	AttackPower int
	AttackRange float64

	Resource          *int
	HarvestSpeed      int
	HarvestEfficiency float64
	PowerRequirement  int
}

func NewUnit(t catalog.UnitType, x, y int, direction hexgrid.Direction, player int) *Unit {
	return &Unit{
		ID:                NextID(),
		X:                 x,
		Y:                 y,
		LastX:             x,
		LastY:             y,
		Direction:         direction.Normalize(),
		Type:              t.Type,
		Player:            player,
		Action:            ActionCreated,
		Hitpoints:         t.Hitpoints,
		MaxHitpoints:      t.Hitpoints,
		Speed:             t.Speed,
		TurnSpeed:         t.TurnSpeed,
		FiringSpeed:       t.FiringSpeed,
		AttackPower:       t.AttackPower,
		AttackRange:       t.AttackRange,
		Resource:          t.Resource,
		HarvestSpeed:      t.HarvestSpeed,
		HarvestEfficiency: t.HarvestEfficiency,
		PowerRequirement:  t.PowerRequirement,
	}
}

func (u *Unit) Position() hexgrid.Point {
	return hexgrid.Point{X: u.X, Y: u.Y}
}

func (u *Unit) LastPosition() hexgrid.Point {
	return hexgrid.Point{X: u.LastX, Y: u.LastY}
}

func (u *Unit) Owner() int {
	return u.Player
}

func (u *Unit) Alive() bool {
	return u.Hitpoints > 0 && u.Action != ActionDestroyed
}

func (u *Unit) AimPoint() hexgrid.Point {
	return u.Position()
}

// Ahead 是单位正前方的地块。
func (u *Unit) Ahead() hexgrid.Point {
	return hexgrid.Ahead(u.Position(), u.Direction)
}

// Move 沿当前朝向走 n 格，记录出发点，状态置为 Moved。
// 只改单位自身坐标，世界索引由调用方通过 World.UpdateUnit 提交。
func (u *Unit) Move(n int) {
	u.LastX, u.LastY = u.X, u.Y
	p := u.Position()
	for i := 0; i < n; i++ {
		p = hexgrid.Step(p, u.Direction)
	}
	u.X, u.Y = p.X, p.Y
	u.SetMoveOffset(0)
	u.Action = ActionMoved
}

// SetMoveOffset 记录移动进度并算出渲染用的像素偏移，不影响模拟。
func (u *Unit) SetMoveOffset(offset int) {
	u.MoveOffset = offset
	rest := float64(1000-offset) / 1000

	switch u.Direction {
	case hexgrid.NorthEast, hexgrid.East, hexgrid.SouthEast:
		u.MoveOffsetX = tileWidth * rest * scale(u.Direction == hexgrid.East)
	case hexgrid.SouthWest, hexgrid.West, hexgrid.NorthWest:
		u.MoveOffsetX = -tileWidth * rest * scale(u.Direction == hexgrid.West)
	default:
		u.MoveOffsetX = 0
	}
	switch u.Direction {
	case hexgrid.NorthWest, hexgrid.North, hexgrid.NorthEast:
		u.MoveOffsetY = -tileHeight * rest * scale(u.Direction == hexgrid.North)
	case hexgrid.SouthEast, hexgrid.South, hexgrid.SouthWest:
		u.MoveOffsetY = tileHeight * rest * scale(u.Direction == hexgrid.South)
	default:
		u.MoveOffsetY = 0
	}
}

func scale(straight bool) float64 {
	if straight {
		return 1
	}
	return 0.5
}

// FacingEachOther 判断两个单位是否迎面相对。
func (u *Unit) FacingEachOther(other *Unit) bool {
	return (int(u.Direction)+hexgrid.DirectionCount-int(other.Direction))%hexgrid.DirectionCount == 4
}

// ClearOrders 清空移动与攻击指令。
func (u *Unit) ClearOrders() {
	u.Waypoints = nil
	u.MoveTarget = nil
	u.Target = nil
	u.WaitingTicks = 0
}
