// Package entity 是一局对战的聚合：地图、调度器和全部玩法插件。
// 除构造外的方法都只能在会话 actor 的逻辑线程上调用。
package entity

import (
	"context"
	"slices"
	"time"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/plugins/buildingcontrol"
	"Skirmish/internal/game/plugins/combat"
	"Skirmish/internal/game/plugins/construction"
	"Skirmish/internal/game/plugins/power"
	"Skirmish/internal/game/plugins/repair"
	"Skirmish/internal/game/plugins/resource"
	"Skirmish/internal/game/plugins/unitai"
	"Skirmish/internal/game/world"
	"Skirmish/modules/kit/logx"
	"Skirmish/modules/kit/tracex"
)

type ID = string

type Options struct {
	GamePlay         gameplay.Config
	Strict           bool
	BuildingControl  buildingcontrol.Config
	InitialResources []int
}

type Session struct {
	id    ID
	cat   *catalog.Catalog
	world *world.World
	gp    *gameplay.GamePlay
	opts  Options

	resources    *resource.Manager
	power        *power.Management
	construction *construction.Construction
	control      *buildingcontrol.Control
	repair       *repair.Repairer
	ai           *unitai.AI
	combat       *combat.Control
	tap          *tap

	dirty bool
}

// New 组装插件。注册顺序即 tick 与事件投递顺序：
// 资源、建造、建筑控制、维修、单位 AI、弹道、电力，最后是事件推送。
func New(id ID, cat *catalog.Catalog, w *world.World, opts Options, log logx.Logger) (*Session, error) {
	if log == nil {
		log = logx.Nop()
	}
	ctx := tracex.WithSessionID(context.Background(), id)
	s := &Session{
		id:           id,
		cat:          cat,
		world:        w,
		opts:         opts,
		gp:           gameplay.New(opts.GamePlay, log).WithContext(ctx),
		resources:    resource.New(cat.ResourceCount()),
		power:        power.New(),
		construction: construction.New(cat, log),
		control:      buildingcontrol.New(w, cat, opts.BuildingControl, log),
		repair:       repair.New(cat),
		ai:           unitai.New(w, cat, log),
		combat:       combat.New(w, log, opts.Strict),
		tap:          newTap(),
	}
	s.construction.SetContext(ctx)
	s.control.SetContext(ctx)
	s.ai.SetContext(ctx)
	s.combat.SetContext(ctx)

	plugins := []gameplay.Plugin{
		s.resources, s.construction, s.control, s.repair, s.ai, s.combat, s.power, s.tap,
	}
	for _, p := range plugins {
		if err := s.gp.Register(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) ID() ID                       { return s.id }
func (s *Session) World() *world.World          { return s.world }
func (s *Session) Running() bool                { return s.gp.Running() }
func (s *Session) GamePlay() *gameplay.GamePlay { return s.gp }

// SetSink 设置事件推送出口，nil 表示不推送。
func (s *Session) SetSink(fn func(event.Envelope)) { s.tap.sink = fn }

// Init 广播地图初始化，并给地图上出现的每个玩家发放初始资源。
func (s *Session) Init() error {
	if err := s.gp.Dispatch(event.GameMapInitialization{World: s.world}); err != nil {
		return err
	}
	for _, p := range s.Players() {
		res := make([]int, s.cat.ResourceCount())
		copy(res, s.opts.InitialResources)
		if err := s.gp.Dispatch(event.PlayerResourcesInitialization{Player: p, Resources: res}); err != nil {
			return err
		}
	}
	s.dirty = true
	return nil
}

// Players 返回地图上拥有建筑或单位的玩家，升序。
func (s *Session) Players() []int {
	var out []int
	add := func(p int) {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, b := range s.world.Buildings() {
		if !b.IsResource() {
			add(b.Player)
		}
	}
	for _, u := range s.world.Units() {
		add(u.Player)
	}
	slices.Sort(out)
	return out
}

func (s *Session) Start(now time.Time) error {
	return s.gp.Start(now)
}

func (s *Session) Stop() error {
	return s.gp.Stop()
}

// Advance 推进模拟；跑了 tick 就标记为脏。
func (s *Session) Advance(now time.Time) (int, error) {
	n, err := s.gp.Advance(now)
	if n > 0 {
		s.dirty = true
	}
	return n, err
}

// Apply 把命令转成事件投递到总线。
func (s *Session) Apply(cmd Command) error {
	e, err := s.toEvent(cmd)
	if err != nil {
		return err
	}
	s.dirty = true
	return s.gp.Dispatch(e)
}

func (s *Session) Export() world.Snapshot {
	return s.world.Export()
}

// Import 整体替换地图，然后重新广播地图初始化以重建插件的派生状态。
// 玩家资源不在快照里，保持不变。
func (s *Session) Import(snap world.Snapshot) error {
	if err := s.world.Import(snap); err != nil {
		return err
	}
	s.dirty = true
	return s.gp.Dispatch(event.GameMapInitialization{World: s.world})
}

func (s *Session) Energy() []power.Level {
	return s.power.Levels()
}

func (s *Session) Stock(player int) []int {
	return s.resources.Stock(player)
}

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) ClearDirty() { s.dirty = false }

// BuildRecord 导出一份不与会话共享内存的持久化记录。
func (s *Session) BuildRecord(version uint64, now time.Time) *Record {
	return &Record{SessionID: s.id, Version: version, Snapshot: s.world.Export(), SavedAt: now}
}
