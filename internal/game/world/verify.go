package world

import "fmt"

// VerifyNavigation 逐格核对导航索引，返回第一处不一致。
func (w *World) VerifyNavigation() error {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			b := w.buildings[y][x]
			want := w.tiles[y][x].Accessible && (b == nil || b.Passable) && w.units[y][x] == nil
			if w.navigable[y][x] != want {
				return fmt.Errorf("navigation mismatch at (%d,%d): got %v want %v", x, y, w.navigable[y][x], want)
			}
		}
	}
	return nil
}
