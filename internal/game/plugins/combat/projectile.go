// Package combat 推进弹道并结算命中。
package combat

import (
	"context"

	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/world"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const Name = "projectileControl"

const CodeProjectileUnsupported errx.Code = "PROJECTILE_TYPE_UNSUPPORTED"

type Control struct {
	gameplay.Base
	world *world.World
	log   logx.Logger
	ctx   context.Context
	// strict 下遇到不支持的弹道类型直接 panic。
	strict bool
}

func New(w *world.World, log logx.Logger, strict bool) *Control {
	if log == nil {
		log = logx.Nop()
	}
	return &Control{
		Base:   gameplay.NewBase(Name),
		world:  w,
		log:    log,
		ctx:    context.Background(),
		strict: strict,
	}
}

func (c *Control) SetContext(ctx context.Context) { c.ctx = ctx }

// HandleTick 倒序遍历，按下标移除不影响尚未处理的弹道。
func (c *Control) HandleTick() {
	projectiles := c.world.Projectiles()
	for i := len(projectiles) - 1; i >= 0; i-- {
		p := projectiles[i]
		switch p.Type {
		case entity.ProjectileBeam:
			if p.Progress == 0 {
				c.affect(p)
			}
		case entity.ProjectileImpact:
			if p.Progress == p.Duration {
				c.affect(p)
			}
		default:
			c.unsupported(p)
			c.world.RemoveProjectile(i)
			continue
		}
		if p.Progress >= p.Duration {
			c.world.RemoveProjectile(i)
			continue
		}
		p.Progress++
	}
}

func (c *Control) unsupported(p *entity.Projectile) {
	err := errx.NewFatal(CodeProjectileUnsupported, "不支持的弹道类型").
		WithData("type", p.Type).
		WithData("projectile", p.ID)
	if c.strict {
		panic(err)
	}
	logx.ReportSysError(c.ctx, c.log, logx.NewSysLog("combat.tick", err), zap.Int("player", p.Player))
}

// affect 结算目标格上当前的对象，目标可能已经换成别的实体。
func (c *Control) affect(p *entity.Projectile) {
	switch target := c.world.ObjectAt(p.Target.X, p.Target.Y).(type) {
	case *entity.Building:
		target.Hitpoints = max(0, target.Hitpoints-p.Damage)
		if target.Hitpoints == 0 {
			c.world.RemoveBuilding(target)
			c.Emit(event.BuildingDestroyed{Building: target})
		}
	case *entity.Unit:
		target.Hitpoints = max(0, target.Hitpoints-p.Damage)
		if target.Hitpoints == 0 {
			target.Action = entity.ActionDestroyed
			_ = c.world.UpdateUnit(target)
			c.Emit(event.UnitDestroyed{Unit: target})
			return
		}
		if target.Player == p.Player || target.Target != nil || target.Action != entity.ActionStanding {
			return
		}
		// 射手已被击毁时不发反击命令，攻击命令本身也会忽略已毁目标。
		if p.FiredBy != nil && p.FiredBy.Alive() {
			c.Emit(event.IssueAttackUnitOrder{Units: []*entity.Unit{target}, Target: p.FiredBy})
		}
	}
}
