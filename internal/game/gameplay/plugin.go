package gameplay

import "Skirmish/internal/game/event"

// Plugin 是注册到 GamePlay 的模拟模块。能力由下面的接口组合表达，
// 同时实现 Tickable 和 EventHandler 的插件既按 tick 执行也响应事件。
type Plugin interface {
	Name() string
}

// Tickable 每个虚拟 tick 调用一次。
type Tickable interface {
	Plugin
	HandleTick()
}

// SingleTick 每次 Advance 只要产生了 tick 就在这些 tick 全部跑完后调用一次。
type SingleTick interface {
	Plugin
	HandleSingleTick()
}

// SubTickable 在某次 Advance 没有产生任何 tick 时收到当前的 tick 余量。
type SubTickable interface {
	Plugin
	HandleSubTick(overflow float64)
}

// EventHandler 在注册时声明关注的事件，之后不再变化。
type EventHandler interface {
	Plugin
	ObservedEvents() []event.Kind
	HandleEvent(e event.Event)
}

// Emitter 是插件发事件的出口。
type Emitter interface {
	Emit(e event.Event)
}

type binder interface {
	Bind(Emitter)
}

// Handlers 是插件构造时建好的静态事件处理表。
type Handlers map[event.Kind]func(event.Event)

// On 以强类型 payload 注册处理函数。
func On[T event.Event](h Handlers, fn func(T)) {
	var zero T
	h[zero.Kind()] = func(e event.Event) {
		fn(e.(T))
	}
}

// Base 提供名称、事件出口和基于 Handlers 的事件分发，插件内嵌使用。
type Base struct {
	name     string
	emitter  Emitter
	handlers Handlers
}

func NewBase(name string) Base {
	return Base{name: name, handlers: Handlers{}}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Bind(e Emitter) { b.emitter = e }

// Handlers 返回处理表，供构造函数登记。
func (b *Base) Handlers() Handlers { return b.handlers }

// Emit 未注册到 GamePlay 时静默丢弃。
func (b *Base) Emit(e event.Event) {
	if b.emitter != nil {
		b.emitter.Emit(e)
	}
}

func (b *Base) ObservedEvents() []event.Kind {
	out := make([]event.Kind, 0, len(b.handlers))
	for k := event.Kind(0); k < event.KindCount; k++ {
		if _, ok := b.handlers[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (b *Base) HandleEvent(e event.Event) {
	if fn, ok := b.handlers[e.Kind()]; ok {
		fn(e)
	}
}
