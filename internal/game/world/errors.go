package world

import "Skirmish/modules/kit/errx"

const (
	CodeOutOfBounds     errx.Code = "OUT_OF_BOUNDS"
	CodeTileOccupied    errx.Code = "TILE_OCCUPIED"
	CodeSnapshotInvalid errx.Code = "SNAPSHOT_INVALID"
	CodeSnapshotVersion errx.Code = "SNAPSHOT_VERSION"
)

var (
	ErrOutOfBounds     = errx.NewBiz(CodeOutOfBounds, "坐标超出地图范围")
	ErrTileOccupied    = errx.NewBiz(CodeTileOccupied, "地块已被占用")
	ErrSnapshotInvalid = errx.NewBiz(CodeSnapshotInvalid, "快照数据非法")
	ErrSnapshotVersion = errx.NewBiz(CodeSnapshotVersion, "快照版本不受支持")
)
