package unitai

import (
	"math"

	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/hexgrid"
)

func alive(units []*entity.Unit) []*entity.Unit {
	out := make([]*entity.Unit, 0, len(units))
	for _, u := range units {
		if u != nil && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

func (ai *AI) onIssueMoveOrder(e event.IssueMoveOrder) {
	units := alive(e.Units)
	for _, u := range units {
		u.Harvest = nil
	}
	ai.moveUnits(units, e.X, e.Y)
}

// moveUnits 单个单位直接前往目标；编队时目标在编队包围盒之外则保持队形平移，
// 否则全部汇聚到目标点。
func (ai *AI) moveUnits(units []*entity.Unit, x, y int) {
	if len(units) == 1 {
		ai.moveUnit(units[0], hexgrid.Point{X: x, Y: y})
		return
	}
	if len(units) == 0 {
		return
	}
	minX, minY := units[0].X, units[0].Y
	maxX, maxY := minX, minY
	for _, u := range units[1:] {
		minX, maxX = min(minX, u.X), max(maxX, u.X)
		minY, maxY = min(minY, u.Y), max(maxY, u.Y)
	}
	if x >= minX && x <= maxX && y >= minY && y <= maxY {
		for _, u := range units {
			ai.moveUnit(u, hexgrid.Point{X: x, Y: y})
		}
		return
	}
	cx, cy := roundHalf(minX+maxX), roundHalf(minY+maxY)
	for _, u := range units {
		ai.moveUnit(u, hexgrid.Point{X: x + u.X - cx, Y: y + u.Y - cy})
	}
}

// roundHalf 返回 sum/2 四舍五入（.5 向上）。
func roundHalf(sum int) int {
	return int(math.Floor(float64(sum)/2 + 0.5))
}

// moveUnit 保留正在走的这一格，丢弃后续航点，再追加新目标。
func (ai *AI) moveUnit(u *entity.Unit, to hexgrid.Point) {
	if len(u.Waypoints) > 0 {
		pos := u.Position()
		u.Waypoints = []hexgrid.Point{pos}
		u.MoveTarget = &pos
	}
	u.Waypoints = append(u.Waypoints, to)
	u.WaitingTicks = 0
	if u.Target != nil {
		u.Target = nil
		u.Action = entity.ActionStanding
	}
}

func (ai *AI) onIssueAttackUnitOrder(e event.IssueAttackUnitOrder) {
	if e.Target == nil || !e.Target.Alive() {
		return
	}
	for _, u := range alive(e.Units) {
		if u == e.Target {
			continue
		}
		ai.attackOrder(u, e.Target, e.Target.Position())
	}
}

func (ai *AI) onIssueAttackBuildingOrder(e event.IssueAttackBuildingOrder) {
	if e.Target == nil || !e.Target.Alive() {
		return
	}
	for _, u := range alive(e.Units) {
		ai.attackOrder(u, e.Target, e.Target.Approach())
	}
}

func (ai *AI) attackOrder(u *entity.Unit, target entity.Target, approach hexgrid.Point) {
	ut, err := ai.cat.Unit(u.Type)
	if err != nil || !ut.CanAttack() {
		return
	}
	u.Harvest = nil
	u.Target = target
	u.WaitingTicks = 0
	u.Waypoints = []hexgrid.Point{approach}
	u.MoveTarget = &approach
	if u.Action == entity.ActionAttacking || u.Action == entity.ActionWaiting {
		u.Action = entity.ActionStanding
	}
}

// onIssueHarvestOrder 按相对编队中心的位置给每个采矿单位分配矿点，
// 对应位置不是同类矿点时在附近环上找替代，采不了这种资源的单位只移动。
func (ai *AI) onIssueHarvestOrder(e event.IssueHarvestOrder) {
	units := alive(e.Units)
	if len(units) == 0 || e.Target == nil {
		return
	}
	center := groupCenter(units)
	used := make(map[hexgrid.Point]bool)
	var alternatives, incompatible []*entity.Unit

	for _, u := range units {
		if u.Resource == nil || e.Target.Resource == nil || *u.Resource != *e.Target.Resource {
			incompatible = append(incompatible, u)
			continue
		}
		p := hexgrid.Point{X: e.X + u.X - center.X, Y: e.Y + u.Y - center.Y}
		if b := ai.world.BuildingAt(p.X, p.Y); b != nil && b.Type == e.Type && !used[p] {
			ai.assignHarvest(u, b)
			used[p] = true
			continue
		}
		alternatives = append(alternatives, u)
	}

	origin := hexgrid.Point{X: e.X, Y: e.Y}
	for _, u := range alternatives {
	search:
		for r := 1; r < 5; r++ {
			for _, p := range ring(origin, r) {
				if used[p] {
					continue
				}
				if b := ai.world.BuildingAt(p.X, p.Y); b != nil && b.Type == e.Type {
					ai.assignHarvest(u, b)
					used[p] = true
					break search
				}
			}
		}
	}

	if len(incompatible) > 0 {
		for _, u := range incompatible {
			u.Harvest = nil
		}
		ai.moveUnits(incompatible, e.X, e.Y)
	}
}

func (ai *AI) assignHarvest(u *entity.Unit, b *entity.Building) {
	u.Harvest = b
	ai.moveUnit(u, b.Position())
}

func groupCenter(units []*entity.Unit) hexgrid.Point {
	minX, minY := units[0].X, units[0].Y
	maxX, maxY := minX, minY
	for _, u := range units[1:] {
		minX, maxX = min(minX, u.X), max(maxX, u.X)
		minY, maxY = min(minY, u.Y), max(maxY, u.Y)
	}
	return hexgrid.Point{X: roundHalf(minX + maxX), Y: roundHalf(minY + maxY)}
}

// ring 返回以 center 为心、半径 r 的近似圆周上的格子，顺序固定。
func ring(center hexgrid.Point, r int) []hexgrid.Point {
	n := int(math.Floor(2 * math.Pi * float64(r)))
	out := make([]hexgrid.Point, 0, n)
	for j := n - 1; j >= 0; j-- {
		angle := 2 * math.Pi / float64(n) * float64(j)
		out = append(out, hexgrid.Point{
			X: center.X + int(math.Floor(math.Cos(angle)*float64(r))),
			Y: center.Y + int(math.Floor(math.Sin(angle)*float64(r))),
		})
	}
	return out
}
