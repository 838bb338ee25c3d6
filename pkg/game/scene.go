package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the application (e.g. the prize wheel demo).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Closable 是一个可选接口，场景持有需要释放的资源时实现
//
// 实现此接口的场景会在以下时机被调用 Close()：
//   - 被 SceneManager.SwitchTo 替换
//   - 应用退出（窗口关闭或移动端进入后台销毁）
//
// 转盘场景借此释放进行中会话的滴答音效和指针监视器。
type Closable interface {
	Close()
}
