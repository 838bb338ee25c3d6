package scenes

import (
	"context"
	"fmt"
	"log"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/entities"
	"github.com/decker502/prizewheel/pkg/game"
	"github.com/decker502/prizewheel/pkg/systems"
	"github.com/decker502/prizewheel/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// spinEventBuffer 场景事件通道缓冲（一帧内最多的跨越次数远小于该值）
const spinEventBuffer = 64

// SpinnerSceneDeps 转盘场景依赖
type SpinnerSceneDeps struct {
	// Config 转盘配置
	Config *config.WheelConfig

	// Decide 用户转动请求的决策回调（本地选择器或远程服务）
	Decide decision.SpinDecider

	// Picker 外部发放转动（G 键）时选择目标扇区
	Picker func() int

	// Entitlements 权益来源（可为 nil）
	Entitlements decision.EntitlementSource

	// ActorID 当前用户标识
	ActorID string

	// Sounds 滴答音效来源（可为 nil）
	Sounds game.TickSoundProvider

	// RemainingSpins 剩余转动次数（HUD 显示，可为 nil）
	RemainingSpins func() int
}

// SpinnerScene 转盘演示场景
//
// 操作：
//   - Space / 点击转动按钮：请求转动（经过决策回调）
//   - G：外部发放一次转动，直接转到 Picker 选出的扇区
type SpinnerScene struct {
	ctx    context.Context
	cancel context.CancelFunc

	entityManager *ecs.EntityManager
	wheel         ecs.EntityID

	spinnerSystem     *systems.SpinnerSystem
	flipperSystem     *systems.FlipperSystem
	entitlementSystem *systems.EntitlementSystem

	wheelView      *wheelView
	indicatorView  *indicatorView
	spinButton     *buttonView
	purchaseButton *buttonView

	picker         func() int
	remainingSpins func() int

	events      <-chan game.SpinEvent
	unsubscribe func()

	// HUD
	crossings  int
	lastResult string
	message    string
}

// NewSpinnerScene 创建转盘演示场景
func NewSpinnerScene(deps SpinnerSceneDeps) (*SpinnerScene, error) {
	ctx, cancel := context.WithCancel(context.Background())

	scene := &SpinnerScene{
		ctx:            ctx,
		cancel:         cancel,
		entityManager:  ecs.NewEntityManager(),
		wheelView:      &wheelView{},
		indicatorView:  &indicatorView{},
		picker:         deps.Picker,
		remainingSpins: deps.RemainingSpins,
		lastResult:     "-",
	}
	scene.spinButton = newButtonView(config.SpinButtonX, config.SpinButtonY,
		config.SpinButtonWidth, config.SpinButtonHeight, "SPIN (Space)", buttonOnColor)
	scene.purchaseButton = newButtonView(config.PurchaseButtonX, config.PurchaseButtonY,
		config.PurchaseButtonWidth, config.PurchaseButtonHeight, "BUY SPINS", purchaseColor)

	wheel, err := entities.NewSpinnerEntity(scene.entityManager, deps.Config, &components.SpinnerVisualsComponent{
		Container:           scene.wheelView,
		Indicator:           scene.indicatorView,
		SpinButton:          scene.spinButton,
		SliceTemplate:       scene.wheelView,
		PurchaseAffordances: []components.VisibilitySink{scene.purchaseButton},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create wheel: %w", err)
	}
	scene.wheel = wheel

	scene.flipperSystem = systems.NewFlipperSystem(scene.entityManager)
	scene.spinnerSystem = systems.NewSpinnerSystem(scene.entityManager, wheel, scene.flipperSystem,
		game.NewSpinEventBus(), deps.Sounds, decision.RunInGoroutine)
	scene.spinnerSystem.BindDecision(deps.Decide)
	scene.spinnerSystem.BindResult(func(slice config.RewardSlice) {
		scene.lastResult = slice.Icon
		log.Printf("[SpinnerScene] Reward: %s", slice.Icon)
	})
	scene.events, scene.unsubscribe = scene.spinnerSystem.Events().SubscribeChan(spinEventBuffer)

	scene.entitlementSystem = systems.NewEntitlementSystem(scene.entityManager, wheel,
		deps.Entitlements, deps.ActorID, decision.RunInGoroutine)
	scene.entitlementSystem.Start(ctx)

	return scene, nil
}

// Update 处理输入并推进所有系统
func (s *SpinnerScene) Update(deltaTime float64) {
	s.handleInput()

	s.entitlementSystem.Update(deltaTime)
	s.spinnerSystem.Update(deltaTime)
	s.flipperSystem.Update(deltaTime)

	s.drainEvents()
}

func (s *SpinnerScene) handleInput() {
	pressed, x, y := utils.IsPointerJustPressed()
	clicked := pressed && s.spinButton.Contains(x, y)

	if clicked || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if s.spinnerSystem.RequestSpin(s.ctx) {
			s.message = "waiting for decision..."
		} else {
			s.message = "busy"
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) && s.picker != nil {
		target := s.picker()
		if err := s.spinnerSystem.ForceSpin(target); err != nil {
			s.message = err.Error()
		} else {
			s.message = fmt.Sprintf("granted spin -> slice %d", target)
		}
	}
}

func (s *SpinnerScene) drainEvents() {
	for {
		select {
		case ev := <-s.events:
			switch ev.Type {
			case game.SpinEventStarted:
				s.crossings = 0
				s.message = "spinning"
			case game.SpinEventSliceCrossed:
				s.crossings++
			case game.SpinEventFinished:
				s.message = fmt.Sprintf("landed on slice %d", ev.SliceIndex)
			}
		default:
			return
		}
	}
}

// Draw 绘制转盘和 HUD
func (s *SpinnerScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	s.wheelView.Draw(screen)
	s.indicatorView.Draw(screen)
	s.spinButton.Draw(screen)
	s.purchaseButton.Draw(screen)

	spinner, ok := ecs.GetComponent[*components.SpinnerComponent](s.entityManager, s.wheel)
	if !ok {
		return
	}

	remaining := "unlimited"
	if s.remainingSpins != nil {
		if n := s.remainingSpins(); n != decision.UnlimitedSpins {
			remaining = fmt.Sprint(n)
		}
	}

	hud := fmt.Sprintf(
		"phase: %s\nrotation: %.1f\nslice: %d/%d\nspeed: %.1f\ncrossings: %d\nspins left: %s\nlast reward: %s\ncan purchase: %v\n%s",
		spinner.Phase,
		spinner.ContainerRotation,
		utils.CurrentSliceIndex(spinner.ContainerRotation, spinner.SliceCount()), spinner.SliceCount(),
		spinner.Speed,
		s.crossings,
		remaining,
		s.lastResult,
		spinner.CanPurchase,
		s.message,
	)
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)
	ebitenutil.DebugPrintAt(screen, "Space/Click: spin  G: granted spin  M: sound  R: reload  F11: fullscreen", 8, config.GameWindowHeight-20)
}

// Close 释放进行中的会话资源并取消未完成的远程请求
func (s *SpinnerScene) Close() {
	s.cancel()
	s.spinnerSystem.Close()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
