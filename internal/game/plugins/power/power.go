// Package power 按建筑、单位的增减增量维护各玩家的电力收支。
package power

import (
	"slices"

	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
)

const Name = "powerManagement"

// Level 中 Level = Production - Consumption。
type Level struct {
	Player      int `json:"player"`
	Production  int `json:"production"`
	Consumption int `json:"consumption"`
	Level       int `json:"level"`
}

type Management struct {
	gameplay.Base
	levels map[int]*Level
}

func New() *Management {
	m := &Management{Base: gameplay.NewBase(Name), levels: make(map[int]*Level)}
	h := m.Handlers()
	gameplay.On(h, m.onGameMapInitialization)
	gameplay.On(h, func(e event.BuildingPlaced) {
		m.apply(e.Building.Player, e.Building.PowerRequirement, 1, true)
	})
	gameplay.On(h, func(e event.BuildingDestroyed) {
		m.apply(e.Building.Player, e.Building.PowerRequirement, -1, true)
	})
	gameplay.On(h, func(e event.UnitCreated) {
		m.apply(e.Unit.Player, e.Unit.PowerRequirement, 1, true)
	})
	gameplay.On(h, func(e event.UnitDestroyed) {
		m.apply(e.Unit.Player, e.Unit.PowerRequirement, -1, true)
	})
	return m
}

// Level 返回玩家当前电力；没有记录的玩家全为零。
func (m *Management) Level(player int) Level {
	if l, ok := m.levels[player]; ok {
		return *l
	}
	return Level{Player: player}
}

// Levels 按玩家 id 排序返回全部记录。
func (m *Management) Levels() []Level {
	out := make([]Level, 0, len(m.levels))
	for _, l := range m.levels {
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Level) int { return a.Player - b.Player })
	return out
}

func (m *Management) level(player int) *Level {
	l, ok := m.levels[player]
	if !ok {
		l = &Level{Player: player}
		m.levels[player] = l
	}
	return l
}

// apply: requirement > 0 计入消耗，< 0 计入产出；sign 为 +1 表示新增，-1 表示移除。
func (m *Management) apply(player, requirement, sign int, publish bool) {
	if requirement == 0 {
		return
	}
	l := m.level(player)
	if requirement > 0 {
		l.Consumption += requirement * sign
	} else {
		l.Production -= requirement * sign
	}
	l.Level = l.Production - l.Consumption
	if publish {
		m.publish(l)
	}
}

func (m *Management) publish(l *Level) {
	m.Emit(event.EnergyLevelUpdate{
		Player:      l.Player,
		Production:  l.Production,
		Consumption: l.Consumption,
		Level:       l.Level,
	})
}

// onGameMapInitialization 从地图现状重新统计，然后逐个玩家发布一次。
func (m *Management) onGameMapInitialization(e event.GameMapInitialization) {
	m.levels = make(map[int]*Level)
	for _, b := range e.World.Buildings() {
		m.apply(b.Player, b.PowerRequirement, 1, false)
	}
	for _, u := range e.World.Units() {
		m.apply(u.Player, u.PowerRequirement, 1, false)
	}
	for _, l := range m.Levels() {
		m.publish(m.levels[l.Player])
	}
}
