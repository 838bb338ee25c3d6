// Package app 提供转盘演示应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/game"
	"github.com/decker502/prizewheel/pkg/remote"
	"github.com/decker502/prizewheel/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// settingsAppName gdata 存储使用的应用名
const settingsAppName = "prizewheel"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// WheelConfigPath 转盘配置路径（data/ 开头时从嵌入资源读取）
	WheelConfigPath string
	// ServerURL 抽奖服务地址，为空时使用本地权重选择器
	ServerURL string
	// ActorID 当前用户标识
	ActorID string
	// Spins 本地选择器的转动次数，decision.UnlimitedSpins 表示不限
	Spins int
	// Seed 本地选择器的随机种子，0 时使用当前时间
	Seed uint64
}

// App 是演示应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化演示应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.WheelConfigPath == "" {
		cfg.WheelConfigPath = config.DefaultWheelConfigPath
	}

	// 初始化音频上下文和设置
	audioContext := audio.NewContext(game.TickSampleRate)
	settingsManager := game.NewSettingsManager(game.OpenSettingsStorage(settingsAppName))
	audioManager := game.NewAudioManager(audioContext, settingsManager)
	log.Printf("[App] AudioManager initialized")

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() (game.Scene, error) {
		return newSpinnerScene(cfg, audioManager)
	})

	if err := sceneManager.Reload(); err != nil {
		return nil, fmt.Errorf("转盘场景创建失败: %w", err)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		verbose:         cfg.Verbose,
	}, nil
}

// newSpinnerScene 加载配置并按启动参数组装决策和权益来源
func newSpinnerScene(cfg Config, sounds game.TickSoundProvider) (game.Scene, error) {
	wheelConfig, err := config.LoadWheelConfig(cfg.WheelConfigPath)
	if err != nil {
		return nil, err
	}
	log.Printf("[App] Loaded wheel config %s (%d slices)", cfg.WheelConfigPath, wheelConfig.SliceCount())

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	selector := decision.NewWeightedSelector(wheelConfig.RewardSlices(), seed)
	selector.SetSpins(cfg.Spins)

	deps := scenes.SpinnerSceneDeps{
		Config:         wheelConfig,
		Decide:         selector.Decide,
		Picker:         selector.Pick,
		ActorID:        cfg.ActorID,
		Sounds:         sounds,
		RemainingSpins: selector.RemainingSpins,
	}

	if cfg.ServerURL != "" {
		client := remote.NewHTTPClient(cfg.ServerURL, cfg.ActorID, remote.DefaultRequestTimeout)
		deps.Decide = client.Decide
		deps.Entitlements = client
		deps.RemainingSpins = nil
		log.Printf("[App] Using remote decision service %s", cfg.ServerURL)
	}

	return scenes.NewSpinnerScene(deps)
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// R 重新加载配置并重建转盘
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.sceneManager.Reload(); err != nil {
			log.Printf("[App] Reload failed: %v", err)
		}
	}

	// M 切换滴答音效（下一次转动生效）
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.toggleSound()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleSound() {
	enabled := !a.settingsManager.GetSettings().SoundEnabled
	a.settingsManager.SetSoundEnabled(enabled)
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
	log.Printf("[App] Tick sound enabled: %v", enabled)
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 释放当前场景（窗口关闭后调用）
func (a *App) Close() {
	a.sceneManager.Close()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
