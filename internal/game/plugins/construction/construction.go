// Package construction 是按资源步进的建造队列：建筑与单位各一套，
// 每个任务同一时刻最多只有一个未完成的资源请求。
package construction

import (
	"context"
	"slices"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	Name = "buildingsUnitsConstruction"

	kindBuilding = "building"
	kindUnit     = "unit"

	// Complete 是建造完成的进度。
	Complete = 1000
)

type task struct {
	player   int
	kind     string
	typ      int
	spec     catalog.Construction
	progress int
	// stepTimer 是两次请求之间的冷却 tick 数。
	stepTimer int
	waiting   bool
	// repeat 是单位任务完成后还要再造的次数。
	repeat int
}

func (t *task) target() event.RequestTarget {
	return event.RequestTarget{Plugin: Name, Kind: t.kind, ID: int64(t.typ)}
}

// Task 是队列状态的只读视图。
type Task struct {
	Player    int    `json:"player"`
	Kind      string `json:"kind"`
	Type      int    `json:"type"`
	Progress  int    `json:"progress"`
	StepTimer int    `json:"stepTimer"`
	Waiting   bool   `json:"waiting"`
	Repeat    int    `json:"repeat"`
}

type Construction struct {
	gameplay.Base
	cat *catalog.Catalog
	log logx.Logger
	ctx context.Context
	// queue 按入队顺序保存，保证请求顺序确定。
	queue []*task
}

func New(cat *catalog.Catalog, log logx.Logger) *Construction {
	if log == nil {
		log = logx.Nop()
	}
	c := &Construction{Base: gameplay.NewBase(Name), cat: cat, log: log, ctx: context.Background()}
	h := c.Handlers()
	gameplay.On(h, c.onEnqueueBuildingConstruction)
	gameplay.On(h, c.onEnqueueUnitConstruction)
	gameplay.On(h, c.onResourcesDispatched)
	return c
}

func (c *Construction) SetContext(ctx context.Context) { c.ctx = ctx }

func (c *Construction) Tasks() []Task {
	out := make([]Task, 0, len(c.queue))
	for _, t := range c.queue {
		out = append(out, Task{
			Player:    t.player,
			Kind:      t.kind,
			Type:      t.typ,
			Progress:  t.progress,
			StepTimer: t.stepTimer,
			Waiting:   t.waiting,
			Repeat:    t.repeat,
		})
	}
	return out
}

// HandleTick 遍历入队快照：分发是同步的，任务可能在自己的请求里完成并出队。
func (c *Construction) HandleTick() {
	for _, t := range slices.Clone(c.queue) {
		if t.waiting {
			continue
		}
		if t.stepTimer > 0 {
			t.stepTimer--
			continue
		}
		t.waiting = true
		cost := make([]int, len(t.spec.Step))
		copy(cost, t.spec.Step)
		c.Emit(event.ResourceRequest{Target: t.target(), Player: t.player, Resources: cost})
	}
}

func (c *Construction) find(player int, kind string, typ int) (int, *task) {
	for i, t := range c.queue {
		if t.player == player && t.kind == kind && t.typ == typ {
			return i, t
		}
	}
	return -1, nil
}

func (c *Construction) onEnqueueBuildingConstruction(e event.EnqueueBuildingConstruction) {
	if _, t := c.find(e.Player, kindBuilding, e.Building); t != nil {
		logx.ReportBiz(c.ctx, c.log, logx.NewBizLog("construction.enqueue", "ALREADY_QUEUED", "建筑已在建造队列中"),
			zap.Int("player", e.Player), zap.Int("building", e.Building))
		return
	}
	bt := c.cat.MustBuilding(e.Building)
	c.queue = append(c.queue, &task{player: e.Player, kind: kindBuilding, typ: e.Building, spec: bt.Construction})
}

// onEnqueueUnitConstruction 同类型重复入队累加次数。
func (c *Construction) onEnqueueUnitConstruction(e event.EnqueueUnitConstruction) {
	if _, t := c.find(e.Player, kindUnit, e.Unit); t != nil {
		t.repeat++
		return
	}
	ut := c.cat.MustUnit(e.Unit)
	c.queue = append(c.queue, &task{player: e.Player, kind: kindUnit, typ: e.Unit, spec: ut.Construction})
}

func (c *Construction) onResourcesDispatched(e event.ResourcesDispatched) {
	if e.Target.Plugin != Name {
		return
	}
	i, t := c.find(e.Player, e.Target.Kind, int(e.Target.ID))
	if t == nil {
		return
	}
	t.waiting = false
	if !e.Granted() {
		return
	}
	t.progress += t.spec.StepProgress
	t.stepTimer = t.spec.StepDuration

	if t.kind == kindBuilding {
		if t.progress >= Complete {
			c.remove(i)
		}
		c.Emit(event.BuildingConstructionProgress{Player: t.player, Building: t.typ, Progress: t.progress})
		return
	}

	progress := t.progress
	if progress >= Complete {
		if t.repeat > 0 {
			t.repeat--
			t.progress = 0
		} else {
			c.remove(i)
		}
	}
	c.Emit(event.UnitConstructionProgress{Player: t.player, Unit: t.typ, Progress: progress})
}

func (c *Construction) remove(i int) {
	c.queue = append(c.queue[:i], c.queue[i+1:]...)
}
