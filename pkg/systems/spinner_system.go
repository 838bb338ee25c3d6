package systems

import (
	"log"
	"math"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/game"
	"github.com/decker502/prizewheel/pkg/utils"
)

const (
	// DecayMinAlpha 减速阶段速度系数下限，避免在精确对齐前看起来停住
	DecayMinAlpha = 0.05

	// LockInAlpha 速度系数降到该值以下时指针进入锁定阶段
	LockInAlpha = 0.3
)

// SpinResultFunc 结果回调：会话完全结束后以落点扇区调用一次
type SpinResultFunc func(slice config.RewardSlice)

// spinSession 单次动画会话持有的临时资源
// 只在会话结束时释放一次
type spinSession struct {
	tick     game.TickSound
	released bool
}

// decisionOutcome 决策回调的结果，由异步任务投递回更新线程
type decisionOutcome struct {
	index int
	err   error
}

// SpinnerSystem 转盘动画系统
//
// 负责：
//   - 请求闸门：串行化用户转动请求与外部决策回调（spinner_request.go）
//   - 动画循环：匀速 -> 缓动减速 -> 精确对齐，唯一修改 ContainerRotation 的地方
//   - 扇区跨越检测：驱动滴答音效、指针拨动和 SliceCrossed 事件
//
// 所有方法都必须在更新线程上调用；决策回调在 AsyncRunner 上执行，
// 结果在下一次 Update 时应用。
type SpinnerSystem struct {
	entityManager *ecs.EntityManager
	wheelEntity   ecs.EntityID
	flipper       *FlipperSystem
	events        *game.SpinEventBus
	sounds        game.TickSoundProvider
	runAsync      decision.AsyncRunner

	decide   decision.SpinDecider
	onResult SpinResultFunc

	requestPending bool
	decisions      chan decisionOutcome
	session        *spinSession
}

// NewSpinnerSystem 创建转盘动画系统
//
// 参数：
//   - em: 实体管理器
//   - wheel: 转盘实体（需带有 SpinnerComponent，见 entities.NewSpinnerEntity）
//   - flipper: 指针系统
//   - events: 生命周期事件广播（可为 nil）
//   - sounds: 滴答音效来源（可为 nil，静音）
//   - runner: 决策回调的执行方式（nil 时使用 decision.RunInGoroutine）
func NewSpinnerSystem(
	em *ecs.EntityManager,
	wheel ecs.EntityID,
	flipper *FlipperSystem,
	events *game.SpinEventBus,
	sounds game.TickSoundProvider,
	runner decision.AsyncRunner,
) *SpinnerSystem {
	if events == nil {
		events = game.NewSpinEventBus()
	}
	if runner == nil {
		runner = decision.RunInGoroutine
	}

	return &SpinnerSystem{
		entityManager: em,
		wheelEntity:   wheel,
		flipper:       flipper,
		events:        events,
		sounds:        sounds,
		runAsync:      runner,
		decisions:     make(chan decisionOutcome, 1),
	}
}

// Events 返回生命周期事件广播
func (s *SpinnerSystem) Events() *game.SpinEventBus {
	return s.events
}

// Wheel 返回转盘实体ID
func (s *SpinnerSystem) Wheel() ecs.EntityID {
	return s.wheelEntity
}

// IsSpinning 是否有动画会话在进行
func (s *SpinnerSystem) IsSpinning() bool {
	return s.session != nil
}

// Update 应用已返回的决策结果并推进当前动画会话
func (s *SpinnerSystem) Update(dt float64) {
	spinner, ok := ecs.GetComponent[*components.SpinnerComponent](s.entityManager, s.wheelEntity)
	if !ok {
		return
	}

	select {
	case outcome := <-s.decisions:
		s.applyDecision(spinner, outcome)
	default:
	}

	switch spinner.Phase {
	case components.SpinPhaseTraveling:
		s.updateTravelingPhase(dt, spinner)
	case components.SpinPhaseDecaying:
		s.updateDecayingPhase(dt, spinner)
	}
}

// Close 释放当前会话持有的资源（转盘被销毁时调用）
// 会话不会继续转动，也不会触发结束事件和结果回调
func (s *SpinnerSystem) Close() {
	if s.session == nil {
		return
	}

	log.Printf("[SpinnerSystem] Closing with an active session, releasing resources")
	s.releaseSession()

	if spinner, ok := ecs.GetComponent[*components.SpinnerComponent](s.entityManager, s.wheelEntity); ok {
		spinner.Phase = components.SpinPhaseIdle
	}
}

// startSession 按目标扇区规划并开始一次动画会话
func (s *SpinnerSystem) startSession(spinner *components.SpinnerComponent, targetIndex int) error {
	plan, err := PlanSpin(spinner.ContainerRotation, targetIndex, spinner.Config)
	if err != nil {
		return err
	}

	spinner.TargetIndex = targetIndex
	spinner.TargetAngle = plan.TargetAngle
	spinner.DistanceToReward = plan.DistanceToReward
	spinner.DistanceRemaining = plan.InitialTravelDistance
	spinner.Speed = spinner.Config.BaseAngularSpeed
	spinner.LastIndex = utils.CurrentSliceIndex(spinner.ContainerRotation, spinner.SliceCount())
	spinner.LockInArmed = false
	spinner.Phase = components.SpinPhaseTraveling

	s.session = &spinSession{tick: s.acquireTickSound()}
	s.setSpinButtonEnabled(false)

	log.Printf("[SpinnerSystem] Spin started: %d -> %d (%d slices, target angle %.1f, decay distance %.1f)",
		spinner.LastIndex, targetIndex, plan.SlicesToReward, plan.TargetAngle, plan.DistanceToReward)

	s.events.Publish(game.SpinEvent{
		Type:       game.SpinEventStarted,
		Wheel:      s.wheelEntity,
		Finished:   false,
		SliceIndex: spinner.LastIndex,
	})
	return nil
}

// updateTravelingPhase 匀速阶段：转完 InitialTravelDistance 后切换到减速阶段
func (s *SpinnerSystem) updateTravelingPhase(dt float64, spinner *components.SpinnerComponent) {
	move := spinner.Speed * dt
	spinner.DistanceRemaining -= move
	s.rotate(spinner, move)

	if math.Floor(spinner.DistanceRemaining) <= 0 {
		// 剩余（可能为负的）距离并入减速预算
		spinner.DistanceRemaining += spinner.DistanceToReward
		spinner.Phase = components.SpinPhaseDecaying
		log.Printf("[SpinnerSystem] Entering decay phase, remaining %.1f", spinner.DistanceRemaining)
	}
}

// updateDecayingPhase 减速阶段：速度按剩余进度的正弦缓出递减，转完后精确对齐
func (s *SpinnerSystem) updateDecayingPhase(dt float64, spinner *components.SpinnerComponent) {
	alpha := decayAlpha(spinner.DistanceRemaining, spinner.DistanceToReward)
	spinner.Speed = spinner.Config.BaseAngularSpeed * alpha

	if alpha <= LockInAlpha && !spinner.LockInArmed {
		spinner.LockInArmed = true
		if s.flipper != nil {
			s.flipper.ArmLockIn(s.wheelEntity)
		}
	}

	// 最后一帧不越过终点，否则越界的扇区跨越会在对齐时被拉回
	move := math.Max(0, math.Min(spinner.Speed*dt, spinner.DistanceRemaining))
	spinner.DistanceRemaining -= move
	s.rotate(spinner, move)

	if math.Floor(spinner.DistanceRemaining) <= 0 {
		s.finishSession(spinner)
	}
}

// decayAlpha 减速阶段的速度系数 ∈ [DecayMinAlpha, 1]
func decayAlpha(remaining, total float64) float64 {
	progressRemaining := 0.0
	if total > 0 {
		progressRemaining = remaining / total
	}
	return utils.Clamp(utils.EaseOutSine(progressRemaining), DecayMinAlpha, 1)
}

// rotate 顺时针转动 move 度
//
// 按不超过半个扇区的子步推进，每个子步后检测扇区跨越：
// 扇区边界间隔一个扇区，子步内最多跨越一个边界，高速时也不会漏掉。
func (s *SpinnerSystem) rotate(spinner *components.SpinnerComponent, move float64) {
	maxStep := utils.DegreesPerSlice(spinner.SliceCount()) / 2

	for move > 0 {
		step := math.Min(move, maxStep)
		spinner.ContainerRotation -= step
		move -= step
		s.detectCrossing(spinner)
	}

	s.syncContainer(spinner)
}

// detectCrossing 比较当前扇区与上次记录的扇区，变化时触发一次跨越效果
func (s *SpinnerSystem) detectCrossing(spinner *components.SpinnerComponent) {
	index := utils.CurrentSliceIndex(spinner.ContainerRotation, spinner.SliceCount())
	if index == spinner.LastIndex {
		return
	}
	spinner.LastIndex = index

	if s.session != nil && s.session.tick != nil {
		s.session.tick.Play()
	}
	if s.flipper != nil {
		s.flipper.Strike(s.wheelEntity)
	}

	s.events.Publish(game.SpinEvent{
		Type:       game.SpinEventSliceCrossed,
		Wheel:      s.wheelEntity,
		SliceIndex: index,
	})
}

// finishSession 结束会话
//
// 顺序：精确对齐 -> 释放会话资源 -> 回到 Idle -> 结束事件 -> 结果回调。
// 逐帧积分多圈后存在浮点误差，必须以 -TargetAngle 覆盖累计值。
func (s *SpinnerSystem) finishSession(spinner *components.SpinnerComponent) {
	spinner.ContainerRotation = -spinner.TargetAngle
	spinner.DistanceRemaining = 0
	spinner.Speed = 0
	spinner.LastIndex = utils.CurrentSliceIndex(spinner.ContainerRotation, spinner.SliceCount())
	s.syncContainer(spinner)

	s.releaseSession()

	spinner.Phase = components.SpinPhaseIdle
	s.setSpinButtonEnabled(true)

	landed := spinner.TargetIndex
	if spinner.LastIndex != landed {
		log.Printf("[SpinnerSystem] Warning: snapped index %d differs from target %d", spinner.LastIndex, landed)
	}
	log.Printf("[SpinnerSystem] Spin finished on slice %d (rotation %.1f)", landed, spinner.ContainerRotation)

	s.events.Publish(game.SpinEvent{
		Type:       game.SpinEventFinished,
		Wheel:      s.wheelEntity,
		Finished:   true,
		SliceIndex: landed,
	})

	if s.onResult != nil {
		if slice, ok := spinner.Config.Slice(landed); ok {
			s.onResult(slice)
		}
	}
}

// releaseSession 释放会话资源（滴答音效、指针监视器），多次调用只生效一次
func (s *SpinnerSystem) releaseSession() {
	session := s.session
	if session == nil || session.released {
		return
	}
	session.released = true
	s.session = nil

	if session.tick != nil {
		if err := session.tick.Close(); err != nil {
			log.Printf("[SpinnerSystem] Warning: Failed to release tick sound: %v", err)
		}
	}
	if s.flipper != nil {
		s.flipper.Release(s.wheelEntity)
	}
}

func (s *SpinnerSystem) acquireTickSound() game.TickSound {
	if s.sounds == nil {
		return nil
	}
	return s.sounds.AcquireTickSound()
}

func (s *SpinnerSystem) syncContainer(spinner *components.SpinnerComponent) {
	visuals, ok := ecs.GetComponent[*components.SpinnerVisualsComponent](s.entityManager, s.wheelEntity)
	if ok && visuals.Container != nil {
		visuals.Container.SetAngle(spinner.ContainerRotation)
	}
}

func (s *SpinnerSystem) setSpinButtonEnabled(enabled bool) {
	visuals, ok := ecs.GetComponent[*components.SpinnerVisualsComponent](s.entityManager, s.wheelEntity)
	if ok && visuals.SpinButton != nil {
		visuals.SpinButton.SetEnabled(enabled)
	}
}
