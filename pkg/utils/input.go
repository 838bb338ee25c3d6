package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsPointerJustPressed 检查是否刚刚按下指针（触摸或鼠标左键）
// 优先检测触摸，桌面端和移动端共用同一套点击逻辑
//
// 返回：
//   - bool: 本帧是否按下
//   - int, int: 按下位置（屏幕坐标）
func IsPointerJustPressed() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}
