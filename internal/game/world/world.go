// Package world 是对局的权威地图状态：地形、建筑、单位、弹道及导航索引。
//
// 每次修改后都满足：
//
//	navigable[y][x] == tiles[y][x].Accessible && 无阻挡建筑 && 无单位
//
// World 不加锁，只允许在会话的逻辑线程内访问。
package world

import (
	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/hexgrid"
)

const defaultName = "unnamed map"

type World struct {
	name    string
	width   int
	height  int
	catalog *catalog.Catalog

	tiles     [][]*entity.Tile
	buildings [][]*entity.Building
	units     [][]*entity.Unit
	navigable [][]bool

	buildingList   []*entity.Building
	unitList       []*entity.Unit
	projectileList []*entity.Projectile
}

// New 创建 width×height、全部为 0 号地块的空地图。
func New(cat *catalog.Catalog, name string, width, height int) *World {
	w := &World{name: name, catalog: cat}
	if w.name == "" {
		w.name = defaultName
	}
	w.EmptyMap(width, height)
	return w
}

// EmptyMap 重置为全 0 号地块，清空所有实体。
func (w *World) EmptyMap(width, height int) {
	base := w.catalog.Tiles[0]
	tiles := make([][]*entity.Tile, height)
	for y := range tiles {
		row := make([]*entity.Tile, width)
		for x := range row {
			row[x] = entity.NewTile(base, 0)
		}
		tiles[y] = row
	}
	w.SetTiles(tiles)
}

// SetTiles 替换地形并重建索引，已有建筑、单位、弹道全部清空。
func (w *World) SetTiles(tiles [][]*entity.Tile) {
	w.height = len(tiles)
	w.width = 0
	if w.height > 0 {
		w.width = len(tiles[0])
	}
	w.tiles = tiles
	w.buildingList = nil
	w.unitList = nil
	w.projectileList = nil
	w.buildings = make([][]*entity.Building, w.height)
	w.units = make([][]*entity.Unit, w.height)
	w.navigable = make([][]bool, w.height)
	for y := 0; y < w.height; y++ {
		w.buildings[y] = make([]*entity.Building, w.width)
		w.units[y] = make([]*entity.Unit, w.width)
		w.navigable[y] = make([]bool, w.width)
		for x := 0; x < w.width; x++ {
			w.navigable[y][x] = tiles[y][x].Accessible
		}
	}
}

// SetTile 替换单个地块，导航标志随之重算。
func (w *World) SetTile(x, y int, t *entity.Tile) error {
	if !w.InBounds(x, y) {
		return ErrOutOfBounds.WithData("x", x).WithData("y", y)
	}
	w.tiles[y][x] = t
	w.refresh(x, y)
	return nil
}

func (w *World) Name() string                      { return w.name }
func (w *World) SetName(name string)               { w.name = name }
func (w *World) Width() int                        { return w.width }
func (w *World) Height() int                       { return w.height }
func (w *World) Catalog() *catalog.Catalog         { return w.catalog }
func (w *World) Projectiles() []*entity.Projectile { return w.projectileList }

func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

// Navigable 越界坐标一律不可通行。
func (w *World) Navigable(x, y int) bool {
	return w.InBounds(x, y) && w.navigable[y][x]
}

func (w *World) TileAt(x, y int) *entity.Tile {
	if !w.InBounds(x, y) {
		return nil
	}
	return w.tiles[y][x]
}

func (w *World) UnitAt(x, y int) *entity.Unit {
	if !w.InBounds(x, y) {
		return nil
	}
	return w.units[y][x]
}

func (w *World) BuildingAt(x, y int) *entity.Building {
	if !w.InBounds(x, y) {
		return nil
	}
	return w.buildings[y][x]
}

// ObjectAt 返回地块上的对象，单位优先于建筑；空地返回 nil。
func (w *World) ObjectAt(x, y int) entity.Target {
	if u := w.UnitAt(x, y); u != nil {
		return u
	}
	if b := w.BuildingAt(x, y); b != nil {
		return b
	}
	return nil
}

// Buildings 返回建筑列表的拷贝，遍历期间可以安全地增删建筑。
func (w *World) Buildings() []*entity.Building {
	out := make([]*entity.Building, len(w.buildingList))
	copy(out, w.buildingList)
	return out
}

func (w *World) Units() []*entity.Unit {
	out := make([]*entity.Unit, len(w.unitList))
	copy(out, w.unitList)
	return out
}

func (w *World) TilesOccupiedBy(b *entity.Building) []hexgrid.Point {
	return b.Footprint()
}

// CanPlaceBuilding 要求占地全部在界内、可建造且当前可通行。
func (w *World) CanPlaceBuilding(b *entity.Building) bool {
	for _, p := range b.Footprint() {
		if !w.Navigable(p.X, p.Y) || w.buildings[p.Y][p.X] != nil || !w.tiles[p.Y][p.X].Buildable {
			return false
		}
	}
	return true
}

func (w *World) refresh(x, y int) {
	b := w.buildings[y][x]
	w.navigable[y][x] = w.tiles[y][x].Accessible &&
		(b == nil || b.Passable) &&
		w.units[y][x] == nil
}
