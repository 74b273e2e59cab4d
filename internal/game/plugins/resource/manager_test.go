package resource

import (
	"testing"

	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Emit(e event.Event) { r.events = append(r.events, e) }

func newManager(channels int) (*Manager, *recorder) {
	m := New(channels)
	rec := &recorder{}
	m.Bind(rec)
	return m, rec
}

func lastDispatch(t *testing.T, rec *recorder) event.ResourcesDispatched {
	t.Helper()
	if len(rec.events) == 0 {
		t.Fatalf("没有发出 resourcesDispatched")
	}
	d, ok := rec.events[len(rec.events)-1].(event.ResourcesDispatched)
	if !ok {
		t.Fatalf("最后一个事件不是 resourcesDispatched: %T", rec.events[len(rec.events)-1])
	}
	return d
}

func TestResourceRequest_发放量有界且库存守恒(t *testing.T) {
	cases := []struct {
		name  string
		stock []int
		req   []int
	}{
		{"充足", []int{100, 50}, []int{30, 10}},
		{"部分满足", []int{20, 5}, []int{30, 10}},
		{"单通道为零", []int{0, 50}, []int{30, 10}},
		{"零请求", []int{10, 10}, []int{0, 0}},
		{"负数请求视为零", []int{10, 10}, []int{-5, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, rec := newManager(2)
			m.HandleEvent(event.PlayerResourcesInitialization{Player: 1, Resources: tc.stock})
			target := event.RequestTarget{Plugin: "test", Kind: "building", ID: 3}
			m.HandleEvent(event.ResourceRequest{Player: 1, Target: target, Resources: tc.req})

			d := lastDispatch(t, rec)
			if d.Target != target || d.Player != 1 {
				t.Fatalf("分发路由不符: %+v", d)
			}
			after := m.Stock(1)
			for i := range tc.stock {
				got := 0
				if d.Resources != nil {
					got = d.Resources[i]
				}
				bound := max(0, min(tc.req[i], tc.stock[i]))
				if got < 0 || got > bound {
					t.Fatalf("通道 %d 发放 %d 超出 [0,%d]", i, got, bound)
				}
				if after[i] != tc.stock[i]-got {
					t.Fatalf("通道 %d 库存 %d, 期望 %d", i, after[i], tc.stock[i]-got)
				}
			}
		})
	}
}

func TestResourceRequest_一无所获即拒绝(t *testing.T) {
	m, rec := newManager(1)
	m.HandleEvent(event.ResourceRequest{Player: 7, Resources: []int{10}})
	if lastDispatch(t, rec).Granted() {
		t.Fatalf("库存为零时应拒绝")
	}
	m.HandleEvent(event.ResourceRequest{Player: 7, Resources: []int{0}})
	if !lastDispatch(t, rec).Granted() {
		t.Fatalf("零成本请求应直接批准")
	}
}

func TestResourcesGained_入账(t *testing.T) {
	m, _ := newManager(1)
	m.HandleEvent(event.ResourcesGained{Player: 2, Resources: []int{75}})
	m.HandleEvent(event.ResourcesGained{Player: 2, Resources: []int{25, 99}})
	if got := m.Stock(2)[0]; got != 100 {
		t.Fatalf("期望 100, got=%d", got)
	}
}

func TestManager_经由GamePlay同步分发(t *testing.T) {
	g := gameplay.New(gameplay.Config{}, nil)
	m := New(1)
	_ = g.Register(m)
	_ = g.Dispatch(event.PlayerResourcesInitialization{Player: 1, Resources: []int{40}})
	_ = g.Dispatch(event.ResourceRequest{Player: 1, Resources: []int{25}})
	_ = g.Dispatch(event.ResourceRequest{Player: 1, Resources: []int{25}})
	if got := m.Stock(1)[0]; got != 0 {
		t.Fatalf("两次请求后库存应为 0, got=%d", got)
	}
}
