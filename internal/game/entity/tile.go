package entity

import "Skirmish/internal/game/catalog"

type Tile struct {
	Type       int
	Accessible bool
	Buildable  bool
	Resource   *int
	// LightSfx 只用于渲染，快照原样往返。
	LightSfx int
}

func NewTile(t catalog.TileType, lightSfx int) *Tile {
	return &Tile{
		Type:       t.Type,
		Accessible: t.Accessible,
		Buildable:  t.Buildable,
		Resource:   t.Resource,
		LightSfx:   lightSfx,
	}
}
