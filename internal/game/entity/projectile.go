package entity

import "Skirmish/internal/game/hexgrid"

// 已支持的弹道类型。
const (
	ProjectileBeam   = 0 // 发射当 tick 生效
	ProjectileImpact = 1 // 抵达时生效
)

// Anchor 是地块坐标加格内偏移（0..1）。
type Anchor struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	XOffset float64 `json:"xOffset"`
	YOffset float64 `json:"yOffset"`
}

func (a Anchor) Tile() hexgrid.Point {
	return hexgrid.Point{X: a.X, Y: a.Y}
}

type Projectile struct {
	ID       int64
	Type     int
	Player   int
	Start    Anchor
	Target   Anchor
	Progress int
	Duration int
	Damage   int
	// FiredBy 是开火单位，被击中的单位据此反击。
	FiredBy *Unit
}

func NewProjectile(typ, player int, start, target Anchor, duration, damage int, firedBy *Unit) *Projectile {
	return &Projectile{
		ID:       NextID(),
		Type:     typ,
		Player:   player,
		Start:    start,
		Target:   target,
		Duration: duration,
		Damage:   damage,
		FiredBy:  firedBy,
	}
}
