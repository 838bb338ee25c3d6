package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于重新创建场景（例如重新加载配置），避免循环依赖
type SceneFactory func() (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene is closed if it implements Closable.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.closeCurrent()
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Reload 使用工厂函数重新创建当前场景
// 创建失败时保留当前场景并返回错误
func (sm *SceneManager) Reload() error {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return nil
	}

	scene, err := sm.sceneFactory()
	if err != nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %v", err)
		return err
	}

	sm.SwitchTo(scene)
	log.Printf("[SceneManager] 场景已重新加载")
	return nil
}

// Close 关闭当前场景（应用退出时调用）
func (sm *SceneManager) Close() {
	sm.closeCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) closeCurrent() {
	if closable, ok := sm.currentScene.(Closable); ok {
		closable.Close()
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
