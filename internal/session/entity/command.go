package entity

import (
	game "Skirmish/internal/game/entity"
	"Skirmish/internal/game/event"
)

// Command 是外部下达给会话的指令。Name 取事件名，例如 issueMoveOrder。
// 单位和目标用实体 id 引用，只能指挥 Player 自己的单位和建筑。
type Command struct {
	Name     string  `json:"name" binding:"required"`
	Player   int     `json:"player"`
	Units    []int64 `json:"units,omitempty"`
	Building int     `json:"building,omitempty"`
	Unit     int     `json:"unit,omitempty"`
	Target   int64   `json:"target,omitempty"`
	X        int     `json:"x,omitempty"`
	Y        int     `json:"y,omitempty"`
}

func invalid(cmd Command, reason string) error {
	return ErrCommandInvalid.WithData("reason", reason).WithData("command", cmd.Name)
}

func (s *Session) toEvent(cmd Command) (event.Event, error) {
	kind, ok := event.ParseKind(cmd.Name)
	if !ok {
		return nil, invalid(cmd, "UNKNOWN_COMMAND")
	}
	switch kind {
	case event.KindEnqueueBuildingConstruction:
		if _, err := s.cat.Building(cmd.Building); err != nil {
			return nil, invalid(cmd, "UNKNOWN_BUILDING_TYPE")
		}
		return event.EnqueueBuildingConstruction{Player: cmd.Player, Building: cmd.Building}, nil

	case event.KindEnqueueUnitConstruction:
		if _, err := s.cat.Unit(cmd.Unit); err != nil {
			return nil, invalid(cmd, "UNKNOWN_UNIT_TYPE")
		}
		return event.EnqueueUnitConstruction{Player: cmd.Player, Unit: cmd.Unit}, nil

	case event.KindPlaceBuilding:
		if _, err := s.cat.Building(cmd.Building); err != nil {
			return nil, invalid(cmd, "UNKNOWN_BUILDING_TYPE")
		}
		return event.PlaceBuilding{Player: cmd.Player, Building: cmd.Building, X: cmd.X, Y: cmd.Y}, nil

	case event.KindSellBuilding:
		b, err := s.ownBuilding(cmd)
		if err != nil {
			return nil, err
		}
		return event.SellBuilding{Player: cmd.Player, Building: b}, nil

	case event.KindRepairBuilding:
		b, err := s.ownBuilding(cmd)
		if err != nil {
			return nil, err
		}
		return event.RepairBuilding{Building: b}, nil

	case event.KindIssueMoveOrder:
		units, err := s.ownUnits(cmd)
		if err != nil {
			return nil, err
		}
		if !s.world.InBounds(cmd.X, cmd.Y) {
			return nil, invalid(cmd, "OUT_OF_BOUNDS")
		}
		return event.IssueMoveOrder{Units: units, X: cmd.X, Y: cmd.Y}, nil

	case event.KindIssueAttackUnitOrder:
		units, err := s.ownUnits(cmd)
		if err != nil {
			return nil, err
		}
		target := s.unitByID(cmd.Target)
		if target == nil || !target.Alive() {
			return nil, invalid(cmd, "TARGET_NOT_FOUND")
		}
		return event.IssueAttackUnitOrder{Units: units, Target: target}, nil

	case event.KindIssueAttackBuildingOrder:
		units, err := s.ownUnits(cmd)
		if err != nil {
			return nil, err
		}
		target := s.buildingByID(cmd.Target)
		if target == nil || !target.Alive() {
			return nil, invalid(cmd, "TARGET_NOT_FOUND")
		}
		return event.IssueAttackBuildingOrder{Units: units, Target: target}, nil

	case event.KindIssueHarvestOrder:
		units, err := s.ownUnits(cmd)
		if err != nil {
			return nil, err
		}
		target := s.buildingByID(cmd.Target)
		if target == nil || !target.IsResource() {
			return nil, invalid(cmd, "TARGET_NOT_RESOURCE")
		}
		return event.IssueHarvestOrder{Units: units, X: target.X, Y: target.Y, Target: target, Type: target.Type}, nil
	}
	return nil, invalid(cmd, "NOT_A_COMMAND")
}

func (s *Session) ownUnits(cmd Command) ([]*game.Unit, error) {
	if len(cmd.Units) == 0 {
		return nil, invalid(cmd, "NO_UNITS")
	}
	out := make([]*game.Unit, 0, len(cmd.Units))
	for _, id := range cmd.Units {
		u := s.unitByID(id)
		if u == nil || !u.Alive() {
			return nil, invalid(cmd, "UNIT_NOT_FOUND")
		}
		if u.Player != cmd.Player {
			return nil, invalid(cmd, "UNIT_NOT_OWNED")
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Session) ownBuilding(cmd Command) (*game.Building, error) {
	b := s.buildingByID(cmd.Target)
	if b == nil || !b.Alive() {
		return nil, invalid(cmd, "BUILDING_NOT_FOUND")
	}
	if b.Player != cmd.Player || b.IsResource() {
		return nil, invalid(cmd, "BUILDING_NOT_OWNED")
	}
	return b, nil
}

func (s *Session) unitByID(id int64) *game.Unit {
	for _, u := range s.world.Units() {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Session) buildingByID(id int64) *game.Building {
	for _, b := range s.world.Buildings() {
		if b.ID == id {
			return b
		}
	}
	return nil
}
