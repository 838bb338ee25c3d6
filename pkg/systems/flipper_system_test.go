package systems

import (
	"math"
	"testing"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/entities"
)

// newFlipperFixture 创建只带指针的实体
func newFlipperFixture(cfg config.IndicatorConfig) (*ecs.EntityManager, ecs.EntityID, *FlipperSystem, *fakeAngleSink) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	sink := &fakeAngleSink{}

	ecs.AddComponent(em, id, entities.NewFlipperComponent(cfg))
	ecs.AddComponent(em, id, &components.SpinnerVisualsComponent{Indicator: sink})

	return em, id, NewFlipperSystem(em), sink
}

func getFlipper(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.FlipperComponent {
	t.Helper()
	flipper, ok := ecs.GetComponent[*components.FlipperComponent](em, id)
	if !ok {
		t.Fatal("未找到 FlipperComponent")
	}
	return flipper
}

// TestFlipperSystem_StrikeWithoutWatcher 测试未进入锁定阶段时拨动不会自动回位
func TestFlipperSystem_StrikeWithoutWatcher(t *testing.T) {
	em, id, fs, sink := newFlipperFixture(config.IndicatorConfig{StruckAngle: 30, ReturnDelay: 0.1, ReturnTween: 0.05})

	fs.Strike(id)
	flipper := getFlipper(t, em, id)
	if !flipper.Struck || flipper.Angle != 30 {
		t.Fatalf("拨动后 Struck=%v Angle=%.1f, want true 30", flipper.Struck, flipper.Angle)
	}

	for i := 0; i < 60; i++ {
		fs.Update(testFrameDT)
	}
	if flipper.Angle != 30 || flipper.ReturnTimer != 0 {
		t.Errorf("没有监视器时不应自动回位: Angle=%.1f ReturnTimer=%.3f", flipper.Angle, flipper.ReturnTimer)
	}
	if sink.last != 30 {
		t.Errorf("视觉角度 = %.1f, want 30", sink.last)
	}
}

// TestFlipperSystem_ArmLockIn 测试进入锁定阶段：回位并挂上监视器（幂等）
func TestFlipperSystem_ArmLockIn(t *testing.T) {
	em, id, fs, sink := newFlipperFixture(config.IndicatorConfig{StruckAngle: 30, ReturnDelay: 0.1, ReturnTween: 0.05})

	fs.Strike(id)
	fs.ArmLockIn(id)

	flipper := getFlipper(t, em, id)
	if !flipper.WatcherArmed {
		t.Fatal("ArmLockIn 后监视器应已挂上")
	}
	if flipper.Struck {
		t.Error("ArmLockIn 后指针逻辑上应已回位")
	}
	if !flipper.Tweening {
		t.Error("ArmLockIn 后应开始回位缓动")
	}

	// 再次挂载不重新开始缓动
	fs.Update(0.02)
	elapsed := flipper.TweenElapsed
	fs.ArmLockIn(id)
	if flipper.TweenElapsed != elapsed {
		t.Errorf("重复 ArmLockIn 不应重置缓动: %.3f -> %.3f", elapsed, flipper.TweenElapsed)
	}

	for i := 0; i < 10; i++ {
		fs.Update(testFrameDT)
	}
	if flipper.Tweening || flipper.Angle != 0 {
		t.Errorf("缓动结束后 Tweening=%v Angle=%.3f, want false 0", flipper.Tweening, flipper.Angle)
	}
	if sink.last != 0 {
		t.Errorf("视觉角度 = %.3f, want 0", sink.last)
	}
}

// TestFlipperSystem_WatcherReturnsAfterDelay 测试监视器挂上后拨动会在延迟后回位
func TestFlipperSystem_WatcherReturnsAfterDelay(t *testing.T) {
	em, id, fs, _ := newFlipperFixture(config.IndicatorConfig{StruckAngle: 30, ReturnDelay: 0.1, ReturnTween: 0.2})

	fs.ArmLockIn(id)
	fs.Update(0.25)

	fs.Strike(id)
	flipper := getFlipper(t, em, id)
	if math.Abs(flipper.ReturnTimer-0.1) > 0.001 {
		t.Fatalf("ReturnTimer = %.3f, want 0.1", flipper.ReturnTimer)
	}

	// 待执行的回位期间再次拨动不会延长计时
	fs.Update(0.05)
	fs.Strike(id)
	if math.Abs(flipper.ReturnTimer-0.05) > 0.001 {
		t.Errorf("重复拨动后 ReturnTimer = %.3f, want 0.05", flipper.ReturnTimer)
	}

	fs.Update(0.06)
	if !flipper.Tweening || flipper.Struck {
		t.Errorf("延迟结束后应开始回位: Tweening=%v Struck=%v", flipper.Tweening, flipper.Struck)
	}
	if flipper.Angle <= 0 || flipper.Angle >= 30 {
		t.Errorf("回位缓动中 Angle = %.3f, want (0, 30)", flipper.Angle)
	}

	fs.Update(0.2)
	if flipper.Angle != 0 || flipper.Tweening {
		t.Errorf("回位完成后 Angle = %.3f Tweening=%v, want 0 false", flipper.Angle, flipper.Tweening)
	}
}

// TestFlipperSystem_ImmediateReturn 测试延迟和缓动都为 0 时立即回位
func TestFlipperSystem_ImmediateReturn(t *testing.T) {
	em, id, fs, _ := newFlipperFixture(config.IndicatorConfig{RestAngle: -5, StruckAngle: 30})

	fs.ArmLockIn(id)
	fs.Strike(id)

	flipper := getFlipper(t, em, id)
	if flipper.Angle != -5 || flipper.Struck {
		t.Errorf("Angle=%.1f Struck=%v, want -5 false", flipper.Angle, flipper.Struck)
	}
}

// TestFlipperSystem_Release 测试会话结束时撤掉监视器
func TestFlipperSystem_Release(t *testing.T) {
	em, id, fs, sink := newFlipperFixture(config.IndicatorConfig{StruckAngle: 30, ReturnDelay: 0.1, ReturnTween: 0.05})

	fs.ArmLockIn(id)
	fs.Strike(id)
	fs.Release(id)

	flipper := getFlipper(t, em, id)
	if flipper.WatcherArmed || flipper.ReturnTimer != 0 || flipper.Tweening || flipper.Struck {
		t.Errorf("Release 后状态未清理: %+v", flipper)
	}
	if flipper.Angle != 0 || sink.last != 0 {
		t.Errorf("Release 后 Angle=%.1f 视觉=%.1f, want 0", flipper.Angle, sink.last)
	}

	// 撤掉后再拨动不会自动回位
	fs.Strike(id)
	fs.Update(0.5)
	if flipper.Angle != 30 {
		t.Errorf("撤掉监视器后拨动 Angle = %.1f, want 30", flipper.Angle)
	}
}

// TestFlipperSystem_MissingComponent 测试实体没有指针组件时安全忽略
func TestFlipperSystem_MissingComponent(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	fs := NewFlipperSystem(em)

	fs.Strike(id)
	fs.ArmLockIn(id)
	fs.Release(id)
	fs.Update(testFrameDT)
}
