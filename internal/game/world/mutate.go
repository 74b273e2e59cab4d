package world

import (
	"Skirmish/internal/game/entity"
)

// PlaceBuilding 写入建筑的全部占地格。任一格越界或已有建筑时整体拒绝；
// 不可通行的建筑也不能压在单位上。
func (w *World) PlaceBuilding(b *entity.Building) error {
	tiles := b.Footprint()
	for _, p := range tiles {
		if !w.InBounds(p.X, p.Y) {
			return ErrOutOfBounds.WithData("x", p.X).WithData("y", p.Y)
		}
		if w.buildings[p.Y][p.X] != nil || (!b.Passable && w.units[p.Y][p.X] != nil) {
			return ErrTileOccupied.WithData("x", p.X).WithData("y", p.Y)
		}
	}
	w.buildingList = append(w.buildingList, b)
	for _, p := range tiles {
		w.buildings[p.Y][p.X] = b
		w.refresh(p.X, p.Y)
	}
	return nil
}

// RemoveBuilding 释放建筑占用的地块；建筑不在地图上时返回 false。
func (w *World) RemoveBuilding(b *entity.Building) bool {
	found := false
	for i, other := range w.buildingList {
		if other.ID == b.ID {
			w.buildingList = append(w.buildingList[:i], w.buildingList[i+1:]...)
			found = true
			break
		}
	}
	for _, p := range b.Footprint() {
		if w.InBounds(p.X, p.Y) && w.buildings[p.Y][p.X] == b {
			w.buildings[p.Y][p.X] = nil
			w.refresh(p.X, p.Y)
		}
	}
	return found
}

// UpdateUnit 按单位当前 Action 提交到索引：
// Created 放入、Destroyed 移除、Moved 从 Last 位置挪到当前位置，其余状态不处理。
// 被拒绝的移动会把单位退回 Last 位置。
func (w *World) UpdateUnit(u *entity.Unit) error {
	switch u.Action {
	case entity.ActionCreated:
		if err := w.checkUnitTile(u, u.X, u.Y); err != nil {
			return err
		}
		w.unitList = append(w.unitList, u)
		w.units[u.Y][u.X] = u
		w.refresh(u.X, u.Y)
	case entity.ActionDestroyed:
		for i, other := range w.unitList {
			if other.ID == u.ID {
				w.unitList = append(w.unitList[:i], w.unitList[i+1:]...)
				break
			}
		}
		if w.InBounds(u.X, u.Y) && w.units[u.Y][u.X] == u {
			w.units[u.Y][u.X] = nil
			w.refresh(u.X, u.Y)
		}
	case entity.ActionMoved:
		if err := w.checkUnitTile(u, u.X, u.Y); err != nil {
			u.X, u.Y = u.LastX, u.LastY
			return err
		}
		if w.InBounds(u.LastX, u.LastY) && w.units[u.LastY][u.LastX] == u {
			w.units[u.LastY][u.LastX] = nil
			w.refresh(u.LastX, u.LastY)
		}
		w.units[u.Y][u.X] = u
		w.refresh(u.X, u.Y)
	}
	return nil
}

func (w *World) checkUnitTile(u *entity.Unit, x, y int) error {
	if !w.InBounds(x, y) {
		return ErrOutOfBounds.WithData("x", x).WithData("y", y)
	}
	if other := w.units[y][x]; other != nil && other != u {
		return ErrTileOccupied.WithData("x", x).WithData("y", y)
	}
	if b := w.buildings[y][x]; b != nil && !b.Passable {
		return ErrTileOccupied.WithData("x", x).WithData("y", y)
	}
	return nil
}

func (w *World) AddProjectile(p *entity.Projectile) {
	w.projectileList = append(w.projectileList, p)
}

// RemoveProjectile 按下标移除弹道，保持其余弹道的相对顺序。
func (w *World) RemoveProjectile(index int) {
	if index < 0 || index >= len(w.projectileList) {
		return
	}
	w.projectileList = append(w.projectileList[:index], w.projectileList[index+1:]...)
}
