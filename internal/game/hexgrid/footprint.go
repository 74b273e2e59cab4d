package hexgrid

// Footprint 枚举锚点为 anchor、尺寸 width×height 的建筑所占格子。
//
// 行内每一步是 SE，行首每下一行是 SW，结果是沿菱形轴对齐的平行四边形，
// 恰好 width*height 个互不相同的格子。该映射与已有地图数据逐格一致，不要“修正”。
// 只对地图内的锚点（Y >= 0）有定义；负数行的奇偶按补码取，与旧数据不保证一致。
func Footprint(anchor Point, width, height int) []Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	out := make([]Point, 0, width*height)
	startX := anchor.X + floorDiv(height-1, 2)
	startY := anchor.Y
	for j := 0; j < height; j++ {
		x := startX - ceilDiv(j-parity(startY), 2)
		y := startY + j
		for i := 0; i < width; i++ {
			out = append(out, Point{x, y})
			if parity(y) == 1 {
				x++
			}
			y++
		}
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
