package unitai

import (
	"math"

	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
)

// 矿点采空后在这个半径内找同类资源的新矿点。
const harvestSearchRadius = 10

// harvest 从脚下矿点采出 min(剩余, 采集速度)，按效率折算后记入玩家资源。
func (ai *AI) harvest(u *entity.Unit) {
	h := u.Harvest
	amount := min(h.Hitpoints, u.HarvestSpeed)
	h.Hitpoints -= amount
	if amount > 0 && u.Resource != nil {
		gain := make([]int, ai.cat.ResourceCount())
		if r := *u.Resource; r >= 0 && r < len(gain) {
			gain[r] = int(math.Floor(float64(amount) * u.HarvestEfficiency))
			ai.Emit(event.ResourcesGained{Player: u.Player, Resources: gain})
		}
	}
	if h.Hitpoints > 0 {
		return
	}
	ai.world.RemoveBuilding(h)
	ai.Emit(event.BuildingDestroyed{Building: h})
	u.Harvest = ai.nearestDeposit(u, h.Resource)
}

func (ai *AI) nearestDeposit(u *entity.Unit, resource *int) *entity.Building {
	if resource == nil {
		return nil
	}
	for r := 1; r < harvestSearchRadius; r++ {
		for _, p := range ring(u.Position(), r) {
			b := ai.world.BuildingAt(p.X, p.Y)
			if b != nil && b.Alive() && b.Resource != nil && *b.Resource == *resource {
				return b
			}
		}
	}
	return nil
}
