// Package catalog 是只读的地形/建筑/单位/资源定义表。
// 进程内加载一次后以只读值注入各插件，不存在全局可变目录。
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"Skirmish/modules/kit/errx"

	"github.com/spf13/viper"
)

// CodeTypeUnknown 表示引用了目录中不存在的类型 id，属于致命错误。
const CodeTypeUnknown errx.Code = "CATALOG_TYPE_UNKNOWN"

//go:embed default.json
var defaultJSON []byte

type ResourceType struct {
	Type int    `mapstructure:"type"`
	Name string `mapstructure:"name"`
}

type TileType struct {
	Type       int    `mapstructure:"type"`
	Name       string `mapstructure:"name"`
	Accessible bool   `mapstructure:"accessible"`
	Buildable  bool   `mapstructure:"buildable"`
	Resource   *int   `mapstructure:"resource"`
}

type Construction struct {
	Step         []int `mapstructure:"step"`
	StepProgress int   `mapstructure:"step_progress"`
	StepDuration int   `mapstructure:"step_duration"`
}

// Steps 是完成建造需要的资源发放次数。
func (c Construction) Steps() int {
	if c.StepProgress <= 0 {
		return 0
	}
	return (1000 + c.StepProgress - 1) / c.StepProgress
}

type Repair struct {
	Resources []int `mapstructure:"resources"`
	Hitpoints int   `mapstructure:"hitpoints"`
}

type BuildingType struct {
	Type             int          `mapstructure:"type"`
	Name             string       `mapstructure:"name"`
	Width            int          `mapstructure:"width"`
	Height           int          `mapstructure:"height"`
	Hitpoints        int          `mapstructure:"hitpoints"`
	Passable         bool         `mapstructure:"passable"`
	IsCentral        bool         `mapstructure:"is_central"`
	Resource         *int         `mapstructure:"resource"`
	PowerRequirement int          `mapstructure:"power_requirement"`
	Construction     Construction `mapstructure:"construction"`
	Repair           Repair       `mapstructure:"repair"`
}

// IsResource 表示资源矿点（可采集、不可出售、不参与建造距离计算）。
func (b BuildingType) IsResource() bool {
	return b.Resource != nil
}

type Offset struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

type UnitType struct {
	Type               int          `mapstructure:"type"`
	Name               string       `mapstructure:"name"`
	Speed              int          `mapstructure:"speed"`
	TurnSpeed          int          `mapstructure:"turn_speed"`
	Hitpoints          int          `mapstructure:"hitpoints"`
	Resource           *int         `mapstructure:"resource"`
	HarvestSpeed       int          `mapstructure:"harvest_speed"`
	HarvestEfficiency  float64      `mapstructure:"harvest_efficiency"`
	FiringSpeed        int          `mapstructure:"firing_speed"`
	AttackPower        int          `mapstructure:"attack_power"`
	AttackRange        float64      `mapstructure:"attack_range"`
	ProjectileType     *int         `mapstructure:"projectile_type"`
	ProjectileDuration int          `mapstructure:"projectile_duration"`
	ProjectileOffsets  []Offset     `mapstructure:"projectile_offsets"`
	PowerRequirement   int          `mapstructure:"power_requirement"`
	Construction       Construction `mapstructure:"construction"`
}

// CanAttack 表示单位有攻击力且定义了弹道。
func (u UnitType) CanAttack() bool {
	return u.AttackPower > 0 && u.ProjectileType != nil
}

// ProjectileOffset 返回朝向 direction 时弹道起点在格内的偏移。
func (u UnitType) ProjectileOffset(direction int) Offset {
	if direction >= 0 && direction < len(u.ProjectileOffsets) {
		return u.ProjectileOffsets[direction]
	}
	return Offset{X: 0.5, Y: 0.5}
}

type Catalog struct {
	Resources []ResourceType `mapstructure:"resources"`
	Tiles     []TileType     `mapstructure:"tiles"`
	Buildings []BuildingType `mapstructure:"buildings"`
	Units     []UnitType     `mapstructure:"units"`
}

// Default 返回内置目录。内置数据非法属于构建错误，直接 panic。
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultJSON))
	if err != nil {
		panic(err)
	}
	return c
}

// Load 从 JSON 文件加载目录；path 为空时返回内置目录。
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	return decode(v)
}

func Parse(r io.Reader) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Catalog, error) {
	c := &Catalog{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ResourceCount 是资源通道数量。
func (c *Catalog) ResourceCount() int {
	return len(c.Resources)
}

func (c *Catalog) Tile(id int) (TileType, error) {
	if id < 0 || id >= len(c.Tiles) {
		return TileType{}, unknown("tile", id)
	}
	return c.Tiles[id], nil
}

func (c *Catalog) Building(id int) (BuildingType, error) {
	if id < 0 || id >= len(c.Buildings) {
		return BuildingType{}, unknown("building", id)
	}
	return c.Buildings[id], nil
}

func (c *Catalog) Unit(id int) (UnitType, error) {
	if id < 0 || id >= len(c.Units) {
		return UnitType{}, unknown("unit", id)
	}
	return c.Units[id], nil
}

// MustBuilding 只在 id 已经校验过的路径上使用；未定义的 id 是编程错误。
func (c *Catalog) MustBuilding(id int) BuildingType {
	b, err := c.Building(id)
	if err != nil {
		panic(err)
	}
	return b
}

func (c *Catalog) MustUnit(id int) UnitType {
	u, err := c.Unit(id)
	if err != nil {
		panic(err)
	}
	return u
}

func unknown(kind string, id int) *errx.Error {
	return errx.NewFatal(CodeTypeUnknown, "未定义的"+kind+"类型").
		WithData("kind", kind).
		WithData("type", id)
}
