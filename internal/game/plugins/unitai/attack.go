package unitai

import (
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/hexgrid"
)

// attack 冷却满且目标在射程内、已对准时开火；目标走出射程则追击。
func (ai *AI) attack(u *entity.Unit) {
	if !ai.hasLiveTarget(u) {
		u.ClearOrders()
		u.Action = entity.ActionStanding
		return
	}
	if ai.targetDistance(u) > u.AttackRange {
		approach := chasePoint(u.Target)
		u.Waypoints = []hexgrid.Point{approach}
		u.MoveTarget = &approach
		u.Action = entity.ActionStanding
		return
	}
	if hexgrid.PreferredDirection(u.Position(), u.Target.AimPoint()) != u.Direction {
		ai.faceTarget(u)
		return
	}
	if u.FiringTimer < 1000 {
		return
	}
	ut := ai.cat.MustUnit(u.Type)
	if !ut.CanAttack() {
		u.ClearOrders()
		u.Action = entity.ActionStanding
		return
	}
	off := ut.ProjectileOffset(int(u.Direction))
	aim := u.Target.AimPoint()
	p := entity.NewProjectile(*ut.ProjectileType, u.Player,
		entity.Anchor{X: u.X, Y: u.Y, XOffset: off.X, YOffset: off.Y},
		entity.Anchor{X: aim.X, Y: aim.Y, XOffset: 0.5, YOffset: 0.5},
		ut.ProjectileDuration, u.AttackPower, u)
	ai.world.AddProjectile(p)
	u.FiringTimer = 0
}
