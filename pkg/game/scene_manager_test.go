package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	closeCalls   int
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// Close records that Close was called.
func (m *MockScene) Close() {
	m.closeCalls++
}

// plainScene does not implement Closable.
type plainScene struct{}

func (plainScene) Update(float64)       {}
func (plainScene) Draw(*ebiten.Image) {}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected current scene to be nil initially")
	}

	// 没有场景时 Update/Draw/Close 不应 panic
	sm.Update(0.016)
	sm.Draw(nil)
	sm.Close()
}

// TestSceneManagerSwitchTo verifies that SwitchTo changes the scene and closes the previous one.
func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()
	first := &MockScene{}
	second := &MockScene{}

	sm.SwitchTo(first)
	sm.SwitchTo(first)
	if first.closeCalls != 0 {
		t.Errorf("切换到同一场景不应关闭它，closeCalls = %d", first.closeCalls)
	}

	sm.SwitchTo(second)
	if sm.GetCurrentScene() != second {
		t.Error("SwitchTo did not set the current scene correctly")
	}
	if first.closeCalls != 1 {
		t.Errorf("被替换的场景 closeCalls = %d, want 1", first.closeCalls)
	}

	sm.SwitchTo(plainScene{})
	if second.closeCalls != 1 {
		t.Errorf("被替换的场景 closeCalls = %d, want 1", second.closeCalls)
	}
}

// TestSceneManagerUpdateDraw verifies that Update and Draw reach the current scene.
func TestSceneManagerUpdateDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	sm.Draw(nil)

	if !mockScene.updateCalled || mockScene.deltaTime != 0.016 {
		t.Errorf("Update not forwarded: called=%v dt=%v", mockScene.updateCalled, mockScene.deltaTime)
	}
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerReload verifies Reload with and without a factory.
func TestSceneManagerReload(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Reload(); err != nil {
		t.Errorf("没有工厂时 Reload() error = %v, want nil", err)
	}

	current := &MockScene{}
	sm.SwitchTo(current)

	failure := errors.New("bad config")
	sm.SetSceneFactory(func() (Scene, error) { return nil, failure })
	if err := sm.Reload(); !errors.Is(err, failure) {
		t.Errorf("Reload() error = %v, want %v", err, failure)
	}
	if sm.GetCurrentScene() != current || current.closeCalls != 0 {
		t.Error("创建失败时应保留当前场景")
	}

	next := &MockScene{}
	sm.SetSceneFactory(func() (Scene, error) { return next, nil })
	if err := sm.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if sm.GetCurrentScene() != next || current.closeCalls != 1 {
		t.Error("Reload 应切换到新场景并关闭旧场景")
	}

	sm.Close()
	if next.closeCalls != 1 || sm.GetCurrentScene() != nil {
		t.Error("Close 应关闭并清空当前场景")
	}
}
