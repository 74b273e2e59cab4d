// Package resource 是玩家资源库存：响应资源请求、收入和初始化。
package resource

import (
	"slices"

	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
)

const Name = "resourceManager"

type Manager struct {
	gameplay.Base
	channels int
	stock    map[int][]int
}

// New 创建库存，channels 是资源通道数（目录中的资源种类数）。
func New(channels int) *Manager {
	m := &Manager{
		Base:     gameplay.NewBase(Name),
		channels: channels,
		stock:    make(map[int][]int),
	}
	h := m.Handlers()
	gameplay.On(h, m.onPlayerResourcesInitialization)
	gameplay.On(h, m.onResourceRequest)
	gameplay.On(h, m.onResourcesGained)
	return m
}

// Stock 返回玩家库存的拷贝。
func (m *Manager) Stock(player int) []int {
	out := make([]int, m.channels)
	copy(out, m.stock[player])
	return out
}

func (m *Manager) Players() []int {
	out := make([]int, 0, len(m.stock))
	for p := range m.stock {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (m *Manager) account(player int) []int {
	s, ok := m.stock[player]
	if !ok {
		s = make([]int, m.channels)
		m.stock[player] = s
	}
	return s
}

func (m *Manager) onPlayerResourcesInitialization(e event.PlayerResourcesInitialization) {
	s := make([]int, m.channels)
	copy(s, e.Resources)
	m.stock[e.Player] = s
}

// onResourceRequest 按通道发放 min(库存, 请求)，库存恰好扣减发放量。
// 有正需求却一点也没发出时视为拒绝，Resources 为 nil。
func (m *Manager) onResourceRequest(e event.ResourceRequest) {
	s := m.account(e.Player)
	dispatched := make([]int, m.channels)
	requested, granted := 0, 0
	for i := 0; i < m.channels && i < len(e.Resources); i++ {
		want := e.Resources[i]
		if want <= 0 {
			continue
		}
		requested += want
		d := min(s[i], want)
		if d < 0 {
			d = 0
		}
		s[i] -= d
		dispatched[i] = d
		granted += d
	}
	if requested > 0 && granted == 0 {
		dispatched = nil
	}
	m.Emit(event.ResourcesDispatched{
		Player:    e.Player,
		Target:    e.Target,
		Resources: dispatched,
	})
}

func (m *Manager) onResourcesGained(e event.ResourcesGained) {
	s := m.account(e.Player)
	for i := 0; i < m.channels && i < len(e.Resources); i++ {
		s[i] += e.Resources[i]
	}
}
