package systems

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/ecs"
)

// BindDecision 绑定决策回调（用户请求转动时调用）
func (s *SpinnerSystem) BindDecision(decide decision.SpinDecider) {
	s.decide = decide
}

// BindResult 绑定结果回调（会话完全结束后调用）
func (s *SpinnerSystem) BindResult(onResult SpinResultFunc) {
	s.onResult = onResult
}

// RequestSpin 处理用户发起的转动请求
//
// 以下情况静默拒绝（返回 false，不改变任何状态）：
//   - 已有动画会话在进行
//   - 已有决策请求未返回
//   - 未绑定决策回调
//
// 接受后转盘进入 AwaitingDecision，决策回调在 AsyncRunner 上执行，
// 其结果在之后的 Update 中应用。
func (s *SpinnerSystem) RequestSpin(ctx context.Context) bool {
	spinner, ok := ecs.GetComponent[*components.SpinnerComponent](s.entityManager, s.wheelEntity)
	if !ok {
		return false
	}

	if spinner.Phase != components.SpinPhaseIdle || s.requestPending || s.session != nil {
		log.Printf("[SpinnerSystem] Spin request ignored: phase=%s pending=%v", spinner.Phase, s.requestPending)
		return false
	}
	if s.decide == nil {
		log.Printf("[SpinnerSystem] Spin request ignored: no decision callback bound")
		return false
	}

	s.requestPending = true
	spinner.Phase = components.SpinPhaseAwaitingDecision
	s.setSpinButtonEnabled(false)

	decide := s.decide
	results := s.decisions
	s.runAsync(func() {
		index, err := decide(ctx)
		results <- decisionOutcome{index: index, err: err}
	})

	return true
}

// ForceSpin 跳过决策回调，直接转到指定扇区（外部发放的转动，如购买完成）
//
// 返回：
//   - ErrSpinInProgress: 已有会话或决策请求在进行
//   - ErrInvalidSliceIndex: 扇区越界
func (s *SpinnerSystem) ForceSpin(targetIndex int) error {
	spinner, ok := ecs.GetComponent[*components.SpinnerComponent](s.entityManager, s.wheelEntity)
	if !ok {
		return fmt.Errorf("wheel entity %d has no spinner component", s.wheelEntity)
	}

	if spinner.Phase != components.SpinPhaseIdle || s.requestPending || s.session != nil {
		return ErrSpinInProgress
	}

	return s.startSession(spinner, targetIndex)
}

// applyDecision 在更新线程上应用决策结果，并释放请求闸门
func (s *SpinnerSystem) applyDecision(spinner *components.SpinnerComponent, outcome decisionOutcome) {
	s.requestPending = false
	spinner.Phase = components.SpinPhaseIdle

	switch {
	case errors.Is(outcome.err, decision.ErrNoSpinsAvailable):
		log.Printf("[SpinnerSystem] No spins available, not starting")
	case outcome.err != nil:
		log.Printf("[SpinnerSystem] Decision failed: %v", outcome.err)
	default:
		if err := s.startSession(spinner, outcome.index); err != nil {
			log.Printf("[SpinnerSystem] Rejected decided slice %d: %v", outcome.index, err)
		} else {
			return
		}
	}

	s.setSpinButtonEnabled(true)
}
