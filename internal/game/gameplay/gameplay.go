// Package gameplay 是 tick 调度器和同步事件总线。
//
// 所有插件运行在同一个逻辑线程上：tick 内按注册顺序执行，
// 事件在发出处同步投递给订阅者，投递顺序同样是注册顺序。
package gameplay

import (
	"context"
	"fmt"
	"math"
	"time"

	"Skirmish/internal/game/event"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	DefaultTickDuration = 50 * time.Millisecond
	DefaultMaxTicks     = 5
)

var (
	ErrRegisterRunning = errx.NewBiz("PLUGIN_REGISTER_RUNNING", "运行中不能注册插件")
	ErrDuplicatePlugin = errx.NewBiz("PLUGIN_DUPLICATE", "插件名重复")
)

type Config struct {
	TickDuration time.Duration
	// MaxTicks 是单次 Advance 最多执行的 tick 数，超出部分直接丢弃。
	MaxTicks int
}

type GamePlay struct {
	cfg Config
	log logx.Logger
	ctx context.Context

	plugins     []Plugin
	tickables   []Tickable
	singles     []SingleTick
	subTicks    []SubTickable
	subscribers [event.KindCount][]EventHandler

	// current 是正在执行的插件，用于 panic 归因。
	current string

	running  bool
	lastTick time.Time
	overflow float64

	ticks   uint64
	dropped uint64
}

func New(cfg Config, log logx.Logger) *GamePlay {
	if cfg.TickDuration <= 0 {
		cfg.TickDuration = DefaultTickDuration
	}
	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = DefaultMaxTicks
	}
	if log == nil {
		log = logx.Nop()
	}
	return &GamePlay{cfg: cfg, log: log, ctx: context.Background()}
}

// WithContext 设置日志关联用的上下文（trace_id / session_id）。
func (g *GamePlay) WithContext(ctx context.Context) *GamePlay {
	g.ctx = ctx
	return g
}

// Register 按调用顺序登记插件，顺序决定 tick 执行与事件投递顺序。
func (g *GamePlay) Register(p Plugin) error {
	if g.running {
		return ErrRegisterRunning.WithData("plugin", p.Name())
	}
	for _, existing := range g.plugins {
		if existing.Name() == p.Name() {
			return ErrDuplicatePlugin.WithData("plugin", p.Name())
		}
	}
	g.plugins = append(g.plugins, p)
	if b, ok := p.(binder); ok {
		b.Bind(g)
	}
	if t, ok := p.(Tickable); ok {
		g.tickables = append(g.tickables, t)
	}
	if s, ok := p.(SingleTick); ok {
		g.singles = append(g.singles, s)
	}
	if s, ok := p.(SubTickable); ok {
		g.subTicks = append(g.subTicks, s)
	}
	if h, ok := p.(EventHandler); ok {
		for _, k := range h.ObservedEvents() {
			if k >= 0 && k < event.KindCount {
				g.subscribers[k] = append(g.subscribers[k], h)
			}
		}
	}
	return nil
}

func (g *GamePlay) Plugins() []Plugin {
	out := make([]Plugin, len(g.plugins))
	copy(out, g.plugins)
	return out
}

func (g *GamePlay) Running() bool { return g.running }

// Ticks 是累计执行的 tick 数。
func (g *GamePlay) Ticks() uint64 { return g.ticks }

// DroppedTicks 是因 MaxTicks 上限被丢弃的 tick 数。
func (g *GamePlay) DroppedTicks() uint64 { return g.dropped }

func (g *GamePlay) Overflow() float64 { return g.overflow }

// Start 以 now 为基准开始计时，依次发出 start、running。
func (g *GamePlay) Start(now time.Time) error {
	if g.running {
		return nil
	}
	g.running = true
	g.lastTick = now
	g.overflow = 0
	if err := g.Dispatch(event.Start{}); err != nil {
		return err
	}
	return g.Dispatch(event.Running{})
}

func (g *GamePlay) Stop() error {
	if !g.running {
		return nil
	}
	g.running = false
	return g.Dispatch(event.Stop{})
}

// Advance 是调度循环体：把 now 与上次调用之间的时间换算成整数个 tick 执行，
// 小数部分留给下一次。超过 MaxTicks 的 tick 丢弃不补。
// 某个插件 panic 时本次剩余的插件与 tick 都不再执行，错误返回给调用方。
func (g *GamePlay) Advance(now time.Time) (int, error) {
	if !g.running {
		return 0, nil
	}
	count := float64(now.Sub(g.lastTick))/float64(g.cfg.TickDuration) + g.overflow
	whole := math.Floor(count)
	g.overflow = count - whole
	g.lastTick = now

	run := int(whole)
	if run > g.cfg.MaxTicks {
		g.dropped += uint64(run - g.cfg.MaxTicks)
		run = g.cfg.MaxTicks
	}
	if run <= 0 {
		return 0, g.guard("subTick", func() {
			for _, p := range g.subTicks {
				g.current = p.Name()
				p.HandleSubTick(g.overflow)
			}
		})
	}

	for i := 0; i < run; i++ {
		err := g.guard("tick", func() {
			for _, p := range g.tickables {
				g.current = p.Name()
				p.HandleTick()
			}
		})
		if err != nil {
			return i, err
		}
		g.ticks++
	}
	// single tick 排在本次所有 tick 之后。
	return run, g.guard("singleTick", func() {
		for _, p := range g.singles {
			g.current = p.Name()
			p.HandleSingleTick()
		}
	})
}

// Emit 同步投递给订阅者。只能在逻辑线程内调用；插件 panic 向上传递给当前 tick。
func (g *GamePlay) Emit(e event.Event) {
	k := e.Kind()
	if k < 0 || k >= event.KindCount {
		return
	}
	prev := g.current
	for _, h := range g.subscribers[k] {
		g.current = h.Name()
		h.HandleEvent(e)
	}
	g.current = prev
}

// Dispatch 是外部（命令、生命周期）投递事件的入口，会兜住插件 panic。
func (g *GamePlay) Dispatch(e event.Event) error {
	return g.guard(e.Kind().String(), func() { g.Emit(e) })
}

func (g *GamePlay) guard(stage string, fn func()) (err error) {
	g.current = ""
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = errx.ErrPluginPanic.
				WithData("stage", stage).
				WithData("plugin", g.current).
				WithCause(cause)
			logx.ReportSysError(g.ctx, g.log, logx.NewSysLog("gameplay."+stage, err),
				zap.Uint64("tick", g.ticks))
		}
	}()
	fn()
	return nil
}
