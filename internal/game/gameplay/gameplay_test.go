package gameplay

import (
	"errors"
	"math"
	"testing"
	"time"

	"Skirmish/internal/game/event"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingPlugin struct {
	Base
	ticks   int
	singles int
	subs    []float64
	trace   *[]string
	onTick  func()
}

func newCounting(name string, trace *[]string) *countingPlugin {
	p := &countingPlugin{Base: NewBase(name), trace: trace}
	On(p.Handlers(), func(e event.EnergyLevelUpdate) {
		*p.trace = append(*p.trace, name)
	})
	return p
}

func (p *countingPlugin) HandleTick() {
	p.ticks++
	if p.trace != nil {
		*p.trace = append(*p.trace, p.Name()+".tick")
	}
	if p.onTick != nil {
		p.onTick()
	}
}

func (p *countingPlugin) HandleSingleTick() {
	p.singles++
	if p.trace != nil {
		*p.trace = append(*p.trace, p.Name()+".single")
	}
}

func (p *countingPlugin) HandleSubTick(overflow float64) { p.subs = append(p.subs, overflow) }

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAdvance_tick守恒与余量结转(t *testing.T) {
	g := New(Config{TickDuration: 50 * time.Millisecond, MaxTicks: 5}, nil)
	p := newCounting("p", &[]string{})
	if err := g.Register(p); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(epoch); err != nil {
		t.Fatal(err)
	}

	n, err := g.Advance(epoch.Add(260 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || p.ticks != 5 {
		t.Fatalf("期望 5 个 tick, got n=%d ticks=%d", n, p.ticks)
	}
	if math.Abs(g.Overflow()-0.2) > 1e-9 {
		t.Fatalf("期望余量 0.2, got=%v", g.Overflow())
	}
	if p.singles != 1 {
		t.Fatalf("single tick 每次 Advance 只执行一次, got=%d", p.singles)
	}

	// 40ms + 0.2 余量 = 1.0 个 tick。
	n, _ = g.Advance(epoch.Add(300 * time.Millisecond))
	if n != 1 || math.Abs(g.Overflow()) > 1e-9 {
		t.Fatalf("期望余量补足 1 个 tick, got n=%d overflow=%v", n, g.Overflow())
	}
	if g.Ticks() != 6 {
		t.Fatalf("累计 tick 期望 6, got=%d", g.Ticks())
	}
}

func TestAdvance_超出上限的tick直接丢弃(t *testing.T) {
	g := New(Config{TickDuration: 50 * time.Millisecond, MaxTicks: 5}, nil)
	p := newCounting("p", nil)
	_ = g.Register(p)
	_ = g.Start(epoch)

	n, _ := g.Advance(epoch.Add(2 * time.Second))
	if n != 5 || p.ticks != 5 {
		t.Fatalf("期望被限制为 5 个 tick, got=%d", n)
	}
	if g.DroppedTicks() != 35 {
		t.Fatalf("期望丢弃 35 个 tick, got=%d", g.DroppedTicks())
	}
	n, _ = g.Advance(epoch.Add(2*time.Second + 10*time.Millisecond))
	if n != 0 || len(p.subs) != 1 || math.Abs(p.subs[0]-0.2) > 1e-9 {
		t.Fatalf("不足一个 tick 时只调用 subTick: n=%d subs=%v", n, p.subs)
	}
}

func TestAdvance_singleTick在全部tick之后执行一次(t *testing.T) {
	var trace []string
	g := New(Config{TickDuration: 50 * time.Millisecond, MaxTicks: 5}, nil)
	p := newCounting("p", &trace)
	_ = g.Register(p)
	_ = g.Start(epoch)

	if n, err := g.Advance(epoch.Add(150 * time.Millisecond)); err != nil || n != 3 {
		t.Fatalf("期望 3 个 tick, got n=%d err=%v", n, err)
	}
	want := []string{"p.tick", "p.tick", "p.tick", "p.single"}
	if len(trace) != len(want) {
		t.Fatalf("trace=%v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("第 %d 项期望 %s, trace=%v", i, want[i], trace)
		}
	}

	// 不足一个 tick 时不触发 single tick。
	_, _ = g.Advance(epoch.Add(160 * time.Millisecond))
	if p.singles != 1 || len(p.subs) != 1 {
		t.Fatalf("singles=%d subs=%v", p.singles, p.subs)
	}
}

func TestAdvance_未启动不执行(t *testing.T) {
	g := New(Config{}, nil)
	p := newCounting("p", nil)
	_ = g.Register(p)
	if n, _ := g.Advance(epoch.Add(time.Hour)); n != 0 || p.ticks != 0 {
		t.Fatalf("未启动时不应执行 tick")
	}
}

func TestRegister_执行与投递顺序等于注册顺序(t *testing.T) {
	var trace []string
	g := New(Config{TickDuration: 10 * time.Millisecond, MaxTicks: 5}, nil)
	a, b, c := newCounting("a", &trace), newCounting("b", &trace), newCounting("c", &trace)
	for _, p := range []Plugin{b, a, c} {
		if err := g.Register(p); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.Start(epoch)
	_, _ = g.Advance(epoch.Add(10 * time.Millisecond))
	g.Emit(event.EnergyLevelUpdate{Player: 1})

	want := []string{"b.tick", "a.tick", "c.tick", "b.single", "a.single", "c.single", "b", "a", "c"}
	if len(trace) != len(want) {
		t.Fatalf("trace=%v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("第 %d 项期望 %s, trace=%v", i, want[i], trace)
		}
	}
}

func TestRegister_重名与运行中注册被拒绝(t *testing.T) {
	g := New(Config{}, nil)
	_ = g.Register(newCounting("a", nil))
	if err := g.Register(newCounting("a", nil)); !errors.Is(err, ErrDuplicatePlugin) {
		t.Fatalf("期望重名被拒绝, got=%v", err)
	}
	_ = g.Start(epoch)
	if err := g.Register(newCounting("b", nil)); !errors.Is(err, ErrRegisterRunning) {
		t.Fatalf("期望运行中注册被拒绝, got=%v", err)
	}
}

type lifecycleRecorder struct {
	Base
	seen []event.Kind
}

func newLifecycleRecorder() *lifecycleRecorder {
	r := &lifecycleRecorder{Base: NewBase("lifecycle")}
	On(r.Handlers(), func(e event.Start) { r.seen = append(r.seen, e.Kind()) })
	On(r.Handlers(), func(e event.Running) { r.seen = append(r.seen, e.Kind()) })
	On(r.Handlers(), func(e event.Stop) { r.seen = append(r.seen, e.Kind()) })
	return r
}

func TestStartStop_生命周期事件(t *testing.T) {
	g := New(Config{}, nil)
	r := newLifecycleRecorder()
	_ = g.Register(r)
	_ = g.Start(epoch)
	_ = g.Start(epoch)
	_ = g.Stop()
	want := []event.Kind{event.KindStart, event.KindRunning, event.KindStop}
	if len(r.seen) != 3 || r.seen[0] != want[0] || r.seen[1] != want[1] || r.seen[2] != want[2] {
		t.Fatalf("生命周期事件不符: %v", r.seen)
	}
	if g.Running() {
		t.Fatalf("Stop 之后不应处于运行态")
	}
}

func TestAdvance_插件panic中止本次剩余执行并上报(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g := New(Config{TickDuration: 10 * time.Millisecond, MaxTicks: 5}, logx.NewZapLogger(zap.New(core)))

	var trace []string
	boom := newCounting("boom", &trace)
	boom.onTick = func() { panic("broken plugin") }
	after := newCounting("after", &trace)
	_ = g.Register(boom)
	_ = g.Register(after)
	_ = g.Start(epoch)

	n, err := g.Advance(epoch.Add(30 * time.Millisecond))
	if err == nil || !errors.Is(err, errx.ErrPluginPanic) {
		t.Fatalf("期望 PLUGIN_PANIC, got=%v", err)
	}
	if n != 0 || after.ticks != 0 {
		t.Fatalf("panic 后同一 tick 的后续插件不应执行: n=%d after=%d", n, after.ticks)
	}
	var e *errx.Error
	if !errors.As(err, &e) || e.Data()["plugin"] != "boom" {
		t.Fatalf("期望错误归因到 boom, got=%v", err)
	}
	if logs.FilterField(zap.String("err_type", "sys")).Len() != 1 {
		t.Fatalf("期望记录一条 sys 错误日志, got=%d", logs.Len())
	}

	boom.onTick = nil
	if n, err := g.Advance(epoch.Add(40 * time.Millisecond)); err != nil || n != 1 || after.ticks != 1 {
		t.Fatalf("下一次调度应恢复正常: n=%d err=%v", n, err)
	}
}

func TestDispatch_兜住事件处理panic(t *testing.T) {
	g := New(Config{}, nil)
	r := &lifecycleRecorder{Base: NewBase("bad")}
	On(r.Handlers(), func(e event.EnergyLevelUpdate) { panic(errors.New("bad handler")) })
	_ = g.Register(r)
	if err := g.Dispatch(event.EnergyLevelUpdate{}); !errors.Is(err, errx.ErrPluginPanic) {
		t.Fatalf("期望 PLUGIN_PANIC, got=%v", err)
	}
}
