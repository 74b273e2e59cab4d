package unitai

import (
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/hexgrid"
)

type aheadState int

const (
	aheadFree aheadState = iota
	aheadBlocked
	// aheadMoving 表示前方是正在移动且没有与我们相向的单位，值得等一等。
	aheadMoving
)

func isMoving(u *entity.Unit) bool {
	return u.Action == entity.ActionTraveling || u.Action == entity.ActionMoved
}

func (ai *AI) hasLiveTarget(u *entity.Unit) bool {
	if u.Target == nil {
		return false
	}
	if !u.Target.Alive() {
		u.Target = nil
		return false
	}
	return true
}

func (ai *AI) targetDistance(u *entity.Unit) float64 {
	return hexgrid.AdjustedDistance(u.Position(), u.Target.AimPoint())
}

func (ai *AI) inRange(u *entity.Unit) bool {
	return ai.hasLiveTarget(u) && ai.targetDistance(u) <= u.AttackRange
}

// stand: 先处理采矿，再处理攻击目标，最后继续未完成的航点。
func (ai *AI) stand(u *entity.Unit) {
	if u.Harvest != nil {
		h := u.Harvest
		switch {
		case !h.Alive() || ai.world.BuildingAt(h.X, h.Y) != h:
			u.Harvest = nil
		case u.X != h.X || u.Y != h.Y:
			if len(u.Waypoints) == 0 {
				u.Waypoints = append(u.Waypoints, h.Position())
			}
		default:
			ai.harvest(u)
		}
	}
	if ai.inRange(u) {
		ai.faceTarget(u)
		return
	}
	if u.Target != nil && len(u.Waypoints) == 0 {
		u.Waypoints = append(u.Waypoints, chasePoint(u.Target))
	}
	if len(u.Waypoints) > 0 {
		ai.startMoving(u)
	}
}

// chasePoint 追击单位时去它所在的格子，攻击建筑时去建筑的接近点。
func chasePoint(t entity.Target) hexgrid.Point {
	if b, ok := t.(*entity.Building); ok {
		return b.Approach()
	}
	return t.AimPoint()
}

// startMoving 丢掉已到达的航点，朝下一个航点出发。
func (ai *AI) startMoving(u *entity.Unit) {
	for len(u.Waypoints) > 0 && u.Waypoints[0] == u.Position() {
		u.Waypoints = u.Waypoints[1:]
	}
	if len(u.Waypoints) == 0 {
		u.MoveTarget = nil
		return
	}
	wp := u.Waypoints[0]
	u.MoveTarget = &wp
	ai.startMovingToNextTile(u)
}

func (ai *AI) travel(u *entity.Unit) {
	u.SetMoveOffset(min(1000, u.MoveOffset+u.Speed))
	if u.MoveOffset < 1000 {
		return
	}
	if ai.hasLiveTarget(u) {
		if ai.targetDistance(u) <= u.AttackRange {
			ai.faceTarget(u)
			return
		}
		if t, ok := u.Target.(*entity.Unit); ok {
			pos := t.Position()
			u.Waypoints = []hexgrid.Point{pos}
			u.MoveTarget = &pos
		}
	}
	if !ai.popReached(u) {
		return
	}
	ai.startMovingToNextTile(u)
}

// popReached 弹出已到达的航点；没有剩余航点时转为待命并返回 false。
func (ai *AI) popReached(u *entity.Unit) bool {
	for u.MoveTarget != nil && *u.MoveTarget == u.Position() {
		if len(u.Waypoints) > 0 {
			u.Waypoints = u.Waypoints[1:]
		}
		if len(u.Waypoints) == 0 {
			u.MoveTarget = nil
			break
		}
		wp := u.Waypoints[0]
		u.MoveTarget = &wp
	}
	if u.MoveTarget == nil {
		u.Action = entity.ActionStanding
		return false
	}
	return true
}

func (ai *AI) startMovingToNextTile(u *entity.Unit) {
	if ai.inRange(u) {
		ai.faceTarget(u)
		return
	}
	if u.MoveTarget == nil {
		u.Action = entity.ActionStanding
		return
	}
	target := *u.MoveTarget
	pos := u.Position()

	// 终点就在隔壁但被静止的对象占着：停在这里算作到达。
	if hexgrid.Step(pos, hexgrid.PreferredDirection(pos, target)) == target && !ai.world.Navigable(target.X, target.Y) {
		if other := ai.world.UnitAt(target.X, target.Y); other == nil || !isMoving(other) {
			u.MoveTarget = &pos
			ai.popReached(u)
			u.Action = entity.ActionStanding
			return
		}
	}

	dir := ai.reasonableDirection(u, target)
	if dir != u.Direction {
		ai.startTurning(u, dir)
		return
	}
	switch ai.checkAhead(u) {
	case aheadMoving:
		u.Action = entity.ActionWaiting
		u.WaitingTicks = 0
		return
	case aheadBlocked:
		ai.dropOrder(u, "TILE_BLOCKED", "前方地块不可通行")
		return
	}
	u.Move(1)
	if err := ai.world.UpdateUnit(u); err != nil {
		ai.dropOrder(u, "MOVE_REJECTED", err.Error())
	}
}

func (ai *AI) startTurning(u *entity.Unit, dir hexgrid.Direction) {
	u.TurningAzimuth = hexgrid.Azimuth(u.Direction, dir)
	u.TurningProgress = 0
	u.Action = entity.ActionTurning
}

// faceTarget 未朝向目标时先转向，否则进入攻击。
func (ai *AI) faceTarget(u *entity.Unit) {
	dir := hexgrid.PreferredDirection(u.Position(), u.Target.AimPoint())
	if dir != u.Direction {
		ai.startTurning(u, dir)
		return
	}
	u.Action = entity.ActionAttacking
}

// turn 每攒满 1000 转向进度就朝 TurningAzimuth 的符号转一格。
func (ai *AI) turn(u *entity.Unit) {
	if u.TurningAzimuth == 0 {
		u.Action = entity.ActionStanding
		return
	}
	u.TurningProgress = min(1000, u.TurningProgress+u.TurnSpeed)
	if u.TurningProgress < 1000 {
		return
	}
	if u.TurningAzimuth > 0 {
		u.Direction = u.Direction.Rotate(1)
		u.TurningAzimuth--
	} else {
		u.Direction = u.Direction.Rotate(-1)
		u.TurningAzimuth++
	}
	u.TurningProgress = 0
}

func (ai *AI) wait(u *entity.Unit) {
	u.WaitingTicks++
	switch ai.checkAhead(u) {
	case aheadFree:
		u.WaitingTicks = 0
		ai.startMovingToNextTile(u)
	case aheadBlocked:
		ai.dropOrder(u, "TILE_BLOCKED", "前方地块不可通行")
	default:
		if u.WaitingTicks >= maxWaitTicks {
			ai.dropOrder(u, "WAIT_TIMEOUT", "等待前方单位超时")
		}
	}
}

func (ai *AI) checkAhead(u *entity.Unit) aheadState {
	ahead := u.Ahead()
	if other := ai.world.UnitAt(ahead.X, ahead.Y); other != nil {
		if isMoving(other) && !u.FacingEachOther(other) {
			return aheadMoving
		}
		return aheadBlocked
	}
	if ai.world.Navigable(ahead.X, ahead.Y) {
		return aheadFree
	}
	return aheadBlocked
}

// reasonableDirection 优先走直线方向，被挡时按偏转顺序找一个可走的方向。
func (ai *AI) reasonableDirection(u *entity.Unit, target hexgrid.Point) hexgrid.Direction {
	head := hexgrid.PreferredDirection(u.Position(), target)
	if off, ok := ai.freeOffset(u, head); ok {
		return head.Rotate(off)
	}
	return head
}

// freeOffset 先试正前方；当前朝向在目标方向顺时针一侧时先顺时针找，否则先逆时针。
func (ai *AI) freeOffset(u *entity.Unit, head hexgrid.Direction) (int, bool) {
	if ai.isFree(u, head, 0) {
		return 0, true
	}
	sign := -1
	if u.Direction > head {
		sign = 1
	}
	for d := 1; d < 5; d++ {
		if ai.isFree(u, head, sign*d) {
			return sign * d, true
		}
	}
	for d := 1; d < 4; d++ {
		if ai.isFree(u, head, -sign*d) {
			return -sign * d, true
		}
	}
	return 0, false
}

func (ai *AI) isFree(u *entity.Unit, head hexgrid.Direction, offset int) bool {
	p := hexgrid.AtDirection(u.Position(), head, offset)
	if other := ai.world.UnitAt(p.X, p.Y); other != nil && isMoving(other) {
		if (int(head)+hexgrid.DirectionCount-int(other.Direction))%hexgrid.DirectionCount != 4 {
			return true
		}
	}
	return ai.world.Navigable(p.X, p.Y)
}
