// Package unitai 执行单位指令：移动状态机、转向、等待、攻击、采矿和出兵。
package unitai

import (
	"context"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/world"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	Name = "unitAI"

	// maxWaitTicks 后仍被前方移动单位挡住则放弃当前指令。
	maxWaitTicks = 20
)

type AI struct {
	gameplay.Base
	world *world.World
	cat   *catalog.Catalog
	log   logx.Logger
	ctx   context.Context
	// production 缓存各玩家当前的出兵建筑。
	production map[int]*entity.Building
}

func New(w *world.World, cat *catalog.Catalog, log logx.Logger) *AI {
	if log == nil {
		log = logx.Nop()
	}
	ai := &AI{
		Base:       gameplay.NewBase(Name),
		world:      w,
		cat:        cat,
		log:        log,
		ctx:        context.Background(),
		production: make(map[int]*entity.Building),
	}
	h := ai.Handlers()
	gameplay.On(h, func(event.GameMapInitialization) {
		ai.production = make(map[int]*entity.Building)
	})
	gameplay.On(h, ai.onIssueMoveOrder)
	gameplay.On(h, ai.onIssueAttackUnitOrder)
	gameplay.On(h, ai.onIssueAttackBuildingOrder)
	gameplay.On(h, ai.onIssueHarvestOrder)
	gameplay.On(h, ai.onUnitConstructionProgress)
	gameplay.On(h, ai.onBuildingDestroyed)
	return ai
}

func (ai *AI) SetContext(ctx context.Context) { ai.ctx = ctx }

func (ai *AI) HandleTick() {
	for _, u := range ai.world.Units() {
		if u.Action == entity.ActionDestroyed {
			continue
		}
		u.FiringTimer = min(1000, u.FiringTimer+u.FiringSpeed)
		switch u.Action {
		case entity.ActionCreated:
			u.Action = entity.ActionStanding
		case entity.ActionMoved:
			u.Action = entity.ActionTraveling
			u.SetMoveOffset(0)
		case entity.ActionTraveling:
			ai.travel(u)
		case entity.ActionStanding:
			ai.stand(u)
		case entity.ActionWaiting:
			ai.wait(u)
		case entity.ActionTurning:
			ai.turn(u)
		case entity.ActionAttacking:
			ai.attack(u)
		}
	}
}

func (ai *AI) onBuildingDestroyed(e event.BuildingDestroyed) {
	b := e.Building
	if ai.production[b.Player] == b {
		delete(ai.production, b.Player)
	}
	for _, u := range ai.world.Units() {
		if u.Harvest == b {
			u.Harvest = nil
		}
	}
}

// dropOrder 放弃当前指令，单位原地待命。
func (ai *AI) dropOrder(u *entity.Unit, reason, msg string) {
	u.ClearOrders()
	u.Action = entity.ActionStanding
	logx.ReportBiz(ai.ctx, ai.log, logx.NewBizLog("unitai.order", reason, msg),
		zap.Int64("unit", u.ID), zap.Int("x", u.X), zap.Int("y", u.Y))
}
