package event

import (
	"Skirmish/internal/game/entity"
	"Skirmish/internal/game/world"
)

// Event 只能是本包定义的 payload 类型。
type Event interface {
	Kind() Kind
	sealed()
}

type payload struct{}

func (payload) sealed() {}

type Start struct{ payload }
type Running struct{ payload }
type Stop struct{ payload }

type GameMapInitialization struct {
	payload
	World *world.World
}

type PlayerResourcesInitialization struct {
	payload
	Player    int
	Resources []int
}

type EnqueueBuildingConstruction struct {
	payload
	Player   int
	Building int
}

type EnqueueUnitConstruction struct {
	payload
	Player int
	Unit   int
}

// RequestTarget 标识资源请求的发起方，分发结果按它路由回去。
type RequestTarget struct {
	Plugin string
	Kind   string
	ID     int64
}

type ResourceRequest struct {
	payload
	Target    RequestTarget
	Player    int
	Resources []int
}

// ResourcesDispatched 中 Resources 为 nil 表示请求被拒绝（有需求但一点也没发出）。
type ResourcesDispatched struct {
	payload
	Player    int
	Target    RequestTarget
	Resources []int
}

func (e ResourcesDispatched) Granted() bool {
	return e.Resources != nil
}

type ResourcesGained struct {
	payload
	Player    int
	Resources []int
}

type BuildingConstructionProgress struct {
	payload
	Player   int
	Building int
	Progress int
}

type UnitConstructionProgress struct {
	payload
	Player   int
	Unit     int
	Progress int
}

type PlaceBuilding struct {
	payload
	Player   int
	Building int
	X, Y     int
}

type BuildingPlaced struct {
	payload
	Building *entity.Building
}

type SellBuilding struct {
	payload
	Player   int
	Building *entity.Building
}

type BuildingDestroyed struct {
	payload
	Building *entity.Building
}

type UnitCreated struct {
	payload
	Unit *entity.Unit
}

type UnitDestroyed struct {
	payload
	Unit *entity.Unit
}

type IssueMoveOrder struct {
	payload
	Units []*entity.Unit
	X, Y  int
}

type IssueAttackUnitOrder struct {
	payload
	Units  []*entity.Unit
	Target *entity.Unit
}

type IssueAttackBuildingOrder struct {
	payload
	Units  []*entity.Unit
	Target *entity.Building
}

type IssueHarvestOrder struct {
	payload
	Units  []*entity.Unit
	X, Y   int
	Target *entity.Building
	Type   int
}

type EnergyLevelUpdate struct {
	payload
	Player      int
	Production  int
	Consumption int
	Level       int
}

type RepairBuilding struct {
	payload
	Building *entity.Building
}

func (Start) Kind() Kind                         { return KindStart }
func (Running) Kind() Kind                       { return KindRunning }
func (Stop) Kind() Kind                          { return KindStop }
func (GameMapInitialization) Kind() Kind         { return KindGameMapInitialization }
func (PlayerResourcesInitialization) Kind() Kind { return KindPlayerResourcesInitialization }
func (EnqueueBuildingConstruction) Kind() Kind   { return KindEnqueueBuildingConstruction }
func (EnqueueUnitConstruction) Kind() Kind       { return KindEnqueueUnitConstruction }
func (ResourceRequest) Kind() Kind               { return KindResourceRequest }
func (ResourcesDispatched) Kind() Kind           { return KindResourcesDispatched }
func (ResourcesGained) Kind() Kind               { return KindResourcesGained }
func (BuildingConstructionProgress) Kind() Kind  { return KindBuildingConstructionProgress }
func (UnitConstructionProgress) Kind() Kind      { return KindUnitConstructionProgress }
func (PlaceBuilding) Kind() Kind                 { return KindPlaceBuilding }
func (BuildingPlaced) Kind() Kind                { return KindBuildingPlaced }
func (SellBuilding) Kind() Kind                  { return KindSellBuilding }
func (BuildingDestroyed) Kind() Kind             { return KindBuildingDestroyed }
func (UnitCreated) Kind() Kind                   { return KindUnitCreated }
func (UnitDestroyed) Kind() Kind                 { return KindUnitDestroyed }
func (IssueMoveOrder) Kind() Kind                { return KindIssueMoveOrder }
func (IssueAttackUnitOrder) Kind() Kind          { return KindIssueAttackUnitOrder }
func (IssueAttackBuildingOrder) Kind() Kind      { return KindIssueAttackBuildingOrder }
func (IssueHarvestOrder) Kind() Kind             { return KindIssueHarvestOrder }
func (EnergyLevelUpdate) Kind() Kind             { return KindEnergyLevelUpdate }
func (RepairBuilding) Kind() Kind                { return KindRepairBuilding }
