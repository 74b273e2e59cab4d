// Package buildingcontrol 处理建好的建筑落地和出售。
package buildingcontrol

import (
	"context"
	"math"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/hexgrid"
	"Skirmish/internal/game/world"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const Name = "buildingControl"

const (
	DefaultMaxConstructionDistance = 10
	DefaultSellRefundFactor        = 0.5
)

type Config struct {
	// MaxConstructionDistance 新建筑左上角到己方已有建筑中心的最大距离（不含）。
	MaxConstructionDistance float64
	SellRefundFactor        float64
}

type Control struct {
	gameplay.Base
	world *world.World
	cat   *catalog.Catalog
	cfg   Config
	log   logx.Logger
	ctx   context.Context
	// ready[player][buildingType] 是已建成、待落地的建筑数量。
	ready map[int]map[int]int
}

func New(w *world.World, cat *catalog.Catalog, cfg Config, log logx.Logger) *Control {
	if cfg.MaxConstructionDistance <= 0 {
		cfg.MaxConstructionDistance = DefaultMaxConstructionDistance
	}
	if cfg.SellRefundFactor < 0 {
		cfg.SellRefundFactor = 0
	}
	if log == nil {
		log = logx.Nop()
	}
	c := &Control{
		Base:  gameplay.NewBase(Name),
		world: w,
		cat:   cat,
		cfg:   cfg,
		log:   log,
		ctx:   context.Background(),
		ready: make(map[int]map[int]int),
	}
	h := c.Handlers()
	gameplay.On(h, c.onConstructionProgress)
	gameplay.On(h, c.onPlaceBuilding)
	gameplay.On(h, c.onSellBuilding)
	return c
}

func (c *Control) SetContext(ctx context.Context) { c.ctx = ctx }

// Ready 返回玩家已建成待落地的某类建筑数量。
func (c *Control) Ready(player, buildingType int) int {
	return c.ready[player][buildingType]
}

func (c *Control) onConstructionProgress(e event.BuildingConstructionProgress) {
	if e.Progress < 1000 {
		return
	}
	if c.ready[e.Player] == nil {
		c.ready[e.Player] = make(map[int]int)
	}
	c.ready[e.Player][e.Building]++
}

func (c *Control) onPlaceBuilding(e event.PlaceBuilding) {
	fields := []zap.Field{zap.Int("player", e.Player), zap.Int("building", e.Building), zap.Int("x", e.X), zap.Int("y", e.Y)}
	if c.ready[e.Player][e.Building] <= 0 {
		c.reject("NOT_READY", "建筑尚未建成", fields)
		return
	}
	bt, err := c.cat.Building(e.Building)
	if err != nil {
		logx.ReportSysError(c.ctx, c.log, logx.NewSysLog("buildingcontrol.place", err), fields...)
		return
	}
	b := entity.NewBuilding(bt, e.X, e.Y, e.Player)
	if !c.withinReach(b) {
		c.reject("TOO_FAR", "离己方建筑太远", fields)
		return
	}
	if !c.world.CanPlaceBuilding(b) {
		c.reject("PLACEMENT_BLOCKED", "占地不可建造", fields)
		return
	}
	if err := c.world.PlaceBuilding(b); err != nil {
		c.reject("PLACEMENT_BLOCKED", err.Error(), fields)
		return
	}
	c.ready[e.Player][e.Building]--
	c.Emit(event.BuildingPlaced{Building: b})
}

// withinReach 玩家没有任何非资源建筑时不限制距离。
func (c *Control) withinReach(b *entity.Building) bool {
	owned := false
	for _, other := range c.world.Buildings() {
		if other.Player != b.Player || other.IsResource() {
			continue
		}
		owned = true
		if hexgrid.AdjustedDistance(other.Approach(), b.Position()) < c.cfg.MaxConstructionDistance {
			return true
		}
	}
	return !owned
}

func (c *Control) onSellBuilding(e event.SellBuilding) {
	b := e.Building
	if b == nil || b.Player != e.Player || b.IsResource() || c.world.BuildingAt(b.X, b.Y) != b {
		c.reject("NOT_SELLABLE", "只能出售己方在场的非资源建筑", []zap.Field{zap.Int("player", e.Player)})
		return
	}
	bt, err := c.cat.Building(b.Type)
	if err != nil {
		logx.ReportSysError(c.ctx, c.log, logx.NewSysLog("buildingcontrol.sell", err), zap.Int("player", e.Player))
		return
	}
	b.Hitpoints = 0
	c.world.RemoveBuilding(b)

	steps := bt.Construction.Steps()
	refund := make([]int, c.cat.ResourceCount())
	for i, cost := range bt.Construction.Step {
		if i < len(refund) {
			refund[i] = int(math.Floor(float64(cost*steps) * c.cfg.SellRefundFactor))
		}
	}
	c.Emit(event.ResourcesGained{Player: e.Player, Resources: refund})
	c.Emit(event.BuildingDestroyed{Building: b})
}

func (c *Control) reject(reason, msg string, fields []zap.Field) {
	logx.ReportBiz(c.ctx, c.log, logx.NewBizLog("buildingcontrol", reason, msg), fields...)
}
