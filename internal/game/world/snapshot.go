package world

import (
	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/hexgrid"
	"Skirmish/modules/kit/errx"
)

// SnapshotVersion 是唯一接受的快照格式版本。
const SnapshotVersion = 0.9

type Snapshot struct {
	Version     float64              `json:"version" bson:"version"`
	Name        string               `json:"name" bson:"name"`
	Width       int                  `json:"width" bson:"width"`
	Height      int                  `json:"height" bson:"height"`
	Tiles       [][]TileSnapshot     `json:"tiles" bson:"tiles"`
	Buildings   []BuildingSnapshot   `json:"buildings" bson:"buildings"`
	Units       []UnitSnapshot       `json:"units" bson:"units"`
	Projectiles []ProjectileSnapshot `json:"projectiles" bson:"projectiles"`
}

type TileSnapshot struct {
	Type     int `json:"type" bson:"type"`
	LightSfx int `json:"lightSfx" bson:"lightSfx"`
}

type BuildingSnapshot struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Type   int `json:"type" bson:"type"`
	Player int `json:"player" bson:"player"`
	// Hitpoints 缺省（0）表示满血。
	Hitpoints                        int  `json:"hitpoints,omitempty" bson:"hitpoints,omitempty"`
	IsSelectedUnitProductionBuilding bool `json:"isSelectedUnitProductionBuilding,omitempty" bson:"isSelectedUnitProductionBuilding,omitempty"`
}

type UnitSnapshot struct {
	X         int `json:"x" bson:"x"`
	Y         int `json:"y" bson:"y"`
	Direction int `json:"direction" bson:"direction"`
	Type      int `json:"type" bson:"type"`
	Player    int `json:"player" bson:"player"`
	Hitpoints int `json:"hitpoints,omitempty" bson:"hitpoints,omitempty"`
}

type ProjectileSnapshot struct {
	Type     int            `json:"type" bson:"type"`
	Player   int            `json:"player" bson:"player"`
	Start    entity.Anchor  `json:"start" bson:"start"`
	Target   entity.Anchor  `json:"target" bson:"target"`
	Progress int            `json:"progress" bson:"progress"`
	Duration int            `json:"duration" bson:"duration"`
	Damage   int            `json:"damage" bson:"damage"`
	FiredBy  *hexgrid.Point `json:"firedBy" bson:"firedBy"`
}

// Export 导出当前状态。列表保持地图内部顺序。
func (w *World) Export() Snapshot {
	s := Snapshot{
		Version:     SnapshotVersion,
		Name:        w.name,
		Width:       w.width,
		Height:      w.height,
		Tiles:       make([][]TileSnapshot, w.height),
		Buildings:   make([]BuildingSnapshot, 0, len(w.buildingList)),
		Units:       make([]UnitSnapshot, 0, len(w.unitList)),
		Projectiles: make([]ProjectileSnapshot, 0, len(w.projectileList)),
	}
	for y, row := range w.tiles {
		out := make([]TileSnapshot, len(row))
		for x, t := range row {
			out[x] = TileSnapshot{Type: t.Type, LightSfx: t.LightSfx}
		}
		s.Tiles[y] = out
	}
	for _, b := range w.buildingList {
		s.Buildings = append(s.Buildings, BuildingSnapshot{
			X:                                b.X,
			Y:                                b.Y,
			Type:                             b.Type,
			Player:                           b.Player,
			Hitpoints:                        b.Hitpoints,
			IsSelectedUnitProductionBuilding: b.IsSelectedUnitProductionBuilding,
		})
	}
	for _, u := range w.unitList {
		s.Units = append(s.Units, UnitSnapshot{
			X:         u.X,
			Y:         u.Y,
			Direction: int(u.Direction),
			Type:      u.Type,
			Player:    u.Player,
			Hitpoints: u.Hitpoints,
		})
	}
	for _, p := range w.projectileList {
		ps := ProjectileSnapshot{
			Type:     p.Type,
			Player:   p.Player,
			Start:    p.Start,
			Target:   p.Target,
			Progress: p.Progress,
			Duration: p.Duration,
			Damage:   p.Damage,
		}
		if p.FiredBy != nil && p.FiredBy.Alive() {
			pos := p.FiredBy.Position()
			ps.FiredBy = &pos
		}
		s.Projectiles = append(s.Projectiles, ps)
	}
	return s
}

// Import 用快照整体替换当前状态。快照非法时当前状态保持不变。
func (w *World) Import(s Snapshot) error {
	fresh, err := FromSnapshot(w.catalog, s)
	if err != nil {
		return err
	}
	*w = *fresh
	return nil
}

// FromSnapshot 从快照构建新地图。
func FromSnapshot(cat *catalog.Catalog, s Snapshot) (*World, error) {
	if s.Version != SnapshotVersion {
		return nil, ErrSnapshotVersion.WithData("version", s.Version)
	}
	if s.Width <= 0 || s.Height <= 0 || len(s.Tiles) != s.Height {
		return nil, invalid("size").WithData("width", s.Width).WithData("height", s.Height)
	}

	tiles := make([][]*entity.Tile, s.Height)
	for y, row := range s.Tiles {
		if len(row) != s.Width {
			return nil, invalid("tiles").WithData("row", y)
		}
		tiles[y] = make([]*entity.Tile, s.Width)
		for x, ts := range row {
			tt, err := cat.Tile(ts.Type)
			if err != nil {
				return nil, invalid("tiles").WithCause(err)
			}
			tiles[y][x] = entity.NewTile(tt, ts.LightSfx)
		}
	}

	w := &World{name: s.Name, catalog: cat}
	w.SetTiles(tiles)

	for i, bs := range s.Buildings {
		bt, err := cat.Building(bs.Type)
		if err != nil {
			return nil, invalid("buildings").WithData("index", i).WithCause(err)
		}
		b := entity.NewBuilding(bt, bs.X, bs.Y, bs.Player)
		if bs.Hitpoints > 0 {
			b.Hitpoints = min(bs.Hitpoints, b.MaxHitpoints)
		}
		b.IsSelectedUnitProductionBuilding = bs.IsSelectedUnitProductionBuilding
		if err := w.PlaceBuilding(b); err != nil {
			return nil, invalid("buildings").WithData("index", i).WithCause(err)
		}
	}

	for i, us := range s.Units {
		ut, err := cat.Unit(us.Type)
		if err != nil {
			return nil, invalid("units").WithData("index", i).WithCause(err)
		}
		if us.Direction < 0 || us.Direction >= hexgrid.DirectionCount {
			return nil, invalid("units").WithData("index", i).WithData("direction", us.Direction)
		}
		u := entity.NewUnit(ut, us.X, us.Y, hexgrid.Direction(us.Direction), us.Player)
		if us.Hitpoints > 0 {
			u.Hitpoints = min(us.Hitpoints, u.MaxHitpoints)
		}
		if err := w.UpdateUnit(u); err != nil {
			return nil, invalid("units").WithData("index", i).WithCause(err)
		}
	}

	for _, ps := range s.Projectiles {
		if ps.Duration < 0 || ps.Progress < 0 || ps.Progress > ps.Duration {
			return nil, invalid("projectiles").WithData("progress", ps.Progress).WithData("duration", ps.Duration)
		}
		var firedBy *entity.Unit
		if ps.FiredBy != nil {
			firedBy = w.UnitAt(ps.FiredBy.X, ps.FiredBy.Y)
		}
		p := entity.NewProjectile(ps.Type, ps.Player, ps.Start, ps.Target, ps.Duration, ps.Damage, firedBy)
		p.Progress = ps.Progress
		w.AddProjectile(p)
	}
	return w, nil
}

func invalid(section string) *errx.Error {
	return ErrSnapshotInvalid.WithData("section", section)
}
