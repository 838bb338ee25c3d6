package game

import (
	"fmt"
	"log"

	"github.com/decker502/prizewheel/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SpinnerSettings 转盘本地设置
// 只保存音效相关偏好，不保存任何奖励记录
type SpinnerSettings struct {
	SoundEnabled bool    `yaml:"soundEnabled"` // 滴答音效开关
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
}

// DefaultSettings 返回默认设置
func DefaultSettings() *SpinnerSettings {
	return &SpinnerSettings{
		SoundEnabled: true,
		SoundVolume:  0.8,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *SpinnerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "spinner"
)

// OpenSettingsStorage 打开 gdata 存储
// 失败时返回 nil 并记录日志，调用方以降级模式继续运行
func OpenSettingsStorage(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		return nil
	}
	return manager
}

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例（加载失败时使用默认设置）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SoundVolume = utils.Clamp(loaded.SoundVolume, 0, 1)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *SpinnerSettings {
	return sm.settings
}

// SetSoundVolume 设置音效音量
// 音量值会被限制在 0.0 ~ 1.0 范围内，需调用 Save() 持久化
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = utils.Clamp(volume, 0, 1)
}

// SetSoundEnabled 设置音效开关，需调用 Save() 持久化
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}
