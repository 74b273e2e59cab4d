// Package event 是模拟事件的封闭集合：每种 Kind 对应一个强类型 payload。
package event

type Kind int

const (
	KindStart Kind = iota
	KindRunning
	KindStop
	KindGameMapInitialization
	KindPlayerResourcesInitialization
	KindEnqueueBuildingConstruction
	KindEnqueueUnitConstruction
	KindResourceRequest
	KindResourcesDispatched
	KindResourcesGained
	KindBuildingConstructionProgress
	KindUnitConstructionProgress
	KindPlaceBuilding
	KindBuildingPlaced
	KindSellBuilding
	KindBuildingDestroyed
	KindUnitCreated
	KindUnitDestroyed
	KindIssueMoveOrder
	KindIssueAttackUnitOrder
	KindIssueAttackBuildingOrder
	KindIssueHarvestOrder
	KindEnergyLevelUpdate
	KindRepairBuilding

	KindCount
)

var kindNames = [KindCount]string{
	KindStart:                         "start",
	KindRunning:                       "running",
	KindStop:                          "stop",
	KindGameMapInitialization:         "gameMapInitialization",
	KindPlayerResourcesInitialization: "playerResourcesInitialization",
	KindEnqueueBuildingConstruction:   "enqueueBuildingConstruction",
	KindEnqueueUnitConstruction:       "enqueueUnitConstruction",
	KindResourceRequest:               "resourceRequest",
	KindResourcesDispatched:           "resourcesDispatched",
	KindResourcesGained:               "resourcesGained",
	KindBuildingConstructionProgress:  "buildingConstructionProgress",
	KindUnitConstructionProgress:      "unitConstructionProgress",
	KindPlaceBuilding:                 "placeBuilding",
	KindBuildingPlaced:                "buildingPlaced",
	KindSellBuilding:                  "sellBuilding",
	KindBuildingDestroyed:             "buildingDestroyed",
	KindUnitCreated:                   "unitCreated",
	KindUnitDestroyed:                 "unitDestroyed",
	KindIssueMoveOrder:                "issueMoveOrder",
	KindIssueAttackUnitOrder:          "issueAttackUnitOrder",
	KindIssueAttackBuildingOrder:      "issueAttackBuildingOrder",
	KindIssueHarvestOrder:             "issueHarvestOrder",
	KindEnergyLevelUpdate:             "energyLevelUpdate",
	KindRepairBuilding:                "repairBuilding",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind 按事件名查找 Kind。
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
