package event

import "Skirmish/internal/game/entity"

// Envelope 是事件对外推送的 JSON 形态。实体只输出引用，避免循环指针。
type Envelope struct {
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
}

type EntityRef struct {
	ID     int64 `json:"id"`
	Type   int   `json:"type"`
	Player int   `json:"player"`
	X      int   `json:"x"`
	Y      int   `json:"y"`
}

func BuildingRef(b *entity.Building) *EntityRef {
	if b == nil {
		return nil
	}
	return &EntityRef{ID: b.ID, Type: b.Type, Player: b.Player, X: b.X, Y: b.Y}
}

func UnitRef(u *entity.Unit) *EntityRef {
	if u == nil {
		return nil
	}
	return &EntityRef{ID: u.ID, Type: u.Type, Player: u.Player, X: u.X, Y: u.Y}
}

func unitRefs(units []*entity.Unit) []*EntityRef {
	out := make([]*EntityRef, 0, len(units))
	for _, u := range units {
		out = append(out, UnitRef(u))
	}
	return out
}

// Wire 把事件转成推送形态。
func Wire(e Event) Envelope {
	env := Envelope{Name: e.Kind().String()}
	switch v := e.(type) {
	case GameMapInitialization:
		if v.World != nil {
			env.Data = map[string]any{"name": v.World.Name(), "width": v.World.Width(), "height": v.World.Height()}
		}
	case PlayerResourcesInitialization:
		env.Data = map[string]any{"player": v.Player, "resources": v.Resources}
	case EnqueueBuildingConstruction:
		env.Data = map[string]any{"player": v.Player, "building": v.Building}
	case EnqueueUnitConstruction:
		env.Data = map[string]any{"player": v.Player, "unit": v.Unit}
	case ResourceRequest:
		env.Data = map[string]any{"player": v.Player, "target": v.Target, "resources": v.Resources}
	case ResourcesDispatched:
		env.Data = map[string]any{"player": v.Player, "target": v.Target, "resources": v.Resources}
	case ResourcesGained:
		env.Data = map[string]any{"player": v.Player, "resources": v.Resources}
	case BuildingConstructionProgress:
		env.Data = map[string]any{"player": v.Player, "building": v.Building, "progress": v.Progress}
	case UnitConstructionProgress:
		env.Data = map[string]any{"player": v.Player, "unit": v.Unit, "progress": v.Progress}
	case PlaceBuilding:
		env.Data = map[string]any{"player": v.Player, "building": v.Building, "x": v.X, "y": v.Y}
	case BuildingPlaced:
		env.Data = map[string]any{"building": BuildingRef(v.Building)}
	case SellBuilding:
		env.Data = map[string]any{"player": v.Player, "building": BuildingRef(v.Building)}
	case BuildingDestroyed:
		env.Data = map[string]any{"building": BuildingRef(v.Building)}
	case UnitCreated:
		env.Data = map[string]any{"unit": UnitRef(v.Unit)}
	case UnitDestroyed:
		env.Data = map[string]any{"unit": UnitRef(v.Unit)}
	case IssueMoveOrder:
		env.Data = map[string]any{"units": unitRefs(v.Units), "x": v.X, "y": v.Y}
	case IssueAttackUnitOrder:
		env.Data = map[string]any{"units": unitRefs(v.Units), "target": UnitRef(v.Target)}
	case IssueAttackBuildingOrder:
		env.Data = map[string]any{"units": unitRefs(v.Units), "target": BuildingRef(v.Target)}
	case IssueHarvestOrder:
		env.Data = map[string]any{"units": unitRefs(v.Units), "x": v.X, "y": v.Y, "target": BuildingRef(v.Target), "type": v.Type}
	case EnergyLevelUpdate:
		env.Data = map[string]any{"player": v.Player, "production": v.Production, "consumption": v.Consumption, "level": v.Level}
	case RepairBuilding:
		env.Data = map[string]any{"building": BuildingRef(v.Building)}
	}
	return env
}
