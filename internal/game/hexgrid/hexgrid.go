// Package hexgrid 是横向错位六边形网格的坐标运算。
//
// 奇数行（y&1==1）相对偶数行右移半格；八个方向从北（0）开始顺时针编号。
// 纵向一步（N/S）跨两行，斜向一步跨一行。
package hexgrid

import "math"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	DirectionCount = 8
)

// Normalize 把任意整数方向折回 [0,7]。
func (d Direction) Normalize() Direction {
	d %= DirectionCount
	if d < 0 {
		d += DirectionCount
	}
	return d
}

// Rotate 顺时针旋转 steps 个 45°（负数为逆时针）。
func (d Direction) Rotate(steps int) Direction {
	return (d + Direction(steps)).Normalize()
}

func (d Direction) Opposite() Direction {
	return d.Rotate(4)
}

// parity 返回行奇偶；负数行按补码取最低位，保证越界坐标也满足对称性。
func parity(y int) int {
	return y & 1
}

// Step 返回从 p 朝 d 走一格后的坐标。
func Step(p Point, d Direction) Point {
	par := parity(p.Y)
	switch d.Normalize() {
	case North:
		return Point{p.X, p.Y - 2}
	case NorthEast:
		return Point{p.X + par, p.Y - 1}
	case East:
		return Point{p.X + 1, p.Y}
	case SouthEast:
		return Point{p.X + par, p.Y + 1}
	case South:
		return Point{p.X, p.Y + 2}
	case SouthWest:
		return Point{p.X - (1 - par), p.Y + 1}
	case West:
		return Point{p.X - 1, p.Y}
	default: // NorthWest
		return Point{p.X - (1 - par), p.Y - 1}
	}
}

// Ahead 是朝向 facing 的前方一格。
func Ahead(p Point, facing Direction) Point {
	return Step(p, facing)
}

// AtDirection 是相对朝向 facing 偏转 relativeAzimuth 个 45° 后的一格。
// AtDirection(p, d, 4) 等于朝 d 的反方向走一格。
func AtDirection(p Point, facing Direction, relativeAzimuth int) Point {
	return Step(p, facing.Rotate(relativeAzimuth))
}

// PreferredDirection 是从 from 前往 to 时最直接的方向。
func PreferredDirection(from, to Point) Direction {
	dy := to.Y - from.Y
	src := parity(from.Y)
	dst := parity(to.Y)
	dx := to.X - from.X + dst - src

	if dx == 0 {
		if dy > 0 {
			switch {
			case src == 1 && dst == 0:
				return SouthEast
			case src == 0 && dst == 1:
				return SouthWest
			}
			return South
		}
		switch {
		case src == 0 && dst == 1:
			return NorthWest
		case src == 1 && dst == 0:
			return NorthEast
		}
		return North
	}
	if dy == 0 {
		if dx > 0 {
			return East
		}
		return West
	}
	if dy < 0 {
		if dx > 0 {
			return NorthEast
		}
		return NorthWest
	}
	if dx > 0 {
		return SouthEast
	}
	return SouthWest
}

// Azimuth 返回从 current 转到 target 的最短带符号步数，范围 [-4,4]，正数为顺时针。
func Azimuth(current, target Direction) int {
	a := int(current.Normalize() - target.Normalize())
	if a < -4 {
		a += DirectionCount
	}
	if a > 4 {
		a -= DirectionCount
	}
	return -a
}

// AdjustedDistance 让屏幕上的距离近似欧氏距离：sqrt(dy² + 4dx²)。
func AdjustedDistance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dy*dy + dx*dx*4)
}
