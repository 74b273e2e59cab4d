package entity

import (
	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/hexgrid"
)

type Building struct {
	ID           int64
	X, Y         int
	Type         int
	Player       int
	Width        int
	Height       int
	Hitpoints    int
	MaxHitpoints int
	Passable     bool
	IsCentral    bool
	// IsSelectedUnitProductionBuilding 标记玩家当前的单位出兵点。
	IsSelectedUnitProductionBuilding bool
	Resource                         *int
	PowerRequirement                 int
}

func NewBuilding(t catalog.BuildingType, x, y, player int) *Building {
	return &Building{
		ID:               NextID(),
		X:                x,
		Y:                y,
		Type:             t.Type,
		Player:           player,
		Width:            t.Width,
		Height:           t.Height,
		Hitpoints:        t.Hitpoints,
		MaxHitpoints:     t.Hitpoints,
		Passable:         t.Passable,
		IsCentral:        t.IsCentral,
		Resource:         t.Resource,
		PowerRequirement: t.PowerRequirement,
	}
}

func (b *Building) Position() hexgrid.Point {
	return hexgrid.Point{X: b.X, Y: b.Y}
}

// Footprint 是建筑占据的全部地块。
func (b *Building) Footprint() []hexgrid.Point {
	return hexgrid.Footprint(b.Position(), b.Width, b.Height)
}

func (b *Building) IsResource() bool {
	return b.Resource != nil
}

func (b *Building) Owner() int {
	return b.Player
}

func (b *Building) Alive() bool {
	return b.Hitpoints > 0
}

func (b *Building) AimPoint() hexgrid.Point {
	return hexgrid.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Approach 是单位攻击建筑时前往的地块。
func (b *Building) Approach() hexgrid.Point {
	return hexgrid.Point{X: b.X + b.Width/2 - b.Height/2, Y: b.Y + b.Height/2}
}
