package entity

import (
	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
)

const tapName = "eventTap"

// tap 订阅全部事件，转成推送形态交给 sink。最后注册，看到的是其余插件处理完的状态。
type tap struct {
	gameplay.Base
	sink func(event.Envelope)
}

func newTap() *tap {
	t := &tap{Base: gameplay.NewBase(tapName)}
	h := t.Handlers()
	for k := event.Kind(0); k < event.KindCount; k++ {
		h[k] = t.forward
	}
	return t
}

func (t *tap) forward(e event.Event) {
	if t.sink != nil {
		t.sink(event.Wire(e))
	}
}
