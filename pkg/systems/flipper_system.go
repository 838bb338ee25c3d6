package systems

import (
	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/utils"
)

// FlipperSystem 管理转盘顶部指针（拨片）
//
// 指针是一个独立的小状态机：
//   - 扇区跨越时被拨到 StruckAngle
//   - 减速进入锁定阶段后回到静止并挂上回位监视器
//   - 监视器挂上期间再次被拨动，ReturnDelay 秒后自动回位
//
// 同一时间每个指针只有一个监视器，重复挂载无效果。
type FlipperSystem struct {
	entityManager *ecs.EntityManager
}

// NewFlipperSystem 创建指针系统
func NewFlipperSystem(em *ecs.EntityManager) *FlipperSystem {
	return &FlipperSystem{entityManager: em}
}

// Strike 扇区跨越时拨动指针
func (fs *FlipperSystem) Strike(id ecs.EntityID) {
	flipper, ok := ecs.GetComponent[*components.FlipperComponent](fs.entityManager, id)
	if !ok {
		return
	}

	flipper.Angle = flipper.StruckAngle
	flipper.Struck = true
	flipper.Tweening = false

	// 监视器已挂上且没有待执行的回位时，安排一次回位
	if flipper.WatcherArmed && flipper.ReturnTimer <= 0 {
		flipper.ReturnTimer = flipper.ReturnDelay
		if flipper.ReturnTimer <= 0 {
			fs.beginReturn(flipper)
		}
	}
}

// ArmLockIn 进入锁定阶段：指针回位并挂上监视器（幂等）
func (fs *FlipperSystem) ArmLockIn(id ecs.EntityID) {
	flipper, ok := ecs.GetComponent[*components.FlipperComponent](fs.entityManager, id)
	if !ok || flipper.WatcherArmed {
		return
	}

	fs.beginReturn(flipper)
	flipper.WatcherArmed = true
}

// Release 会话结束：撤掉监视器，指针立即回到静止位置
func (fs *FlipperSystem) Release(id ecs.EntityID) {
	flipper, ok := ecs.GetComponent[*components.FlipperComponent](fs.entityManager, id)
	if !ok {
		return
	}

	flipper.WatcherArmed = false
	flipper.ReturnTimer = 0
	flipper.Tweening = false
	flipper.Struck = false
	flipper.Angle = flipper.RestAngle

	fs.syncIndicator(id, flipper)
}

// Update 推进回位计时和回位缓动，并把角度写入指针视觉元素
func (fs *FlipperSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith[*components.FlipperComponent](fs.entityManager) {
		flipper, _ := ecs.GetComponent[*components.FlipperComponent](fs.entityManager, id)

		if flipper.ReturnTimer > 0 {
			flipper.ReturnTimer -= dt
			if flipper.ReturnTimer <= 0 {
				flipper.ReturnTimer = 0
				fs.beginReturn(flipper)
			}
		}

		if flipper.Tweening {
			flipper.TweenElapsed += dt
			progress := utils.Clamp(flipper.TweenElapsed/flipper.ReturnTween, 0, 1)
			flipper.Angle = utils.Lerp(flipper.TweenFrom, flipper.RestAngle, utils.EaseOutCubic(progress))
			if progress >= 1 {
				flipper.Angle = flipper.RestAngle
				flipper.Tweening = false
			}
		}

		fs.syncIndicator(id, flipper)
	}
}

// beginReturn 逻辑上立即回到静止，显示角度按缓动过渡
func (fs *FlipperSystem) beginReturn(flipper *components.FlipperComponent) {
	flipper.Struck = false
	if flipper.ReturnTween <= 0 {
		flipper.Angle = flipper.RestAngle
		flipper.Tweening = false
		return
	}
	flipper.TweenFrom = flipper.Angle
	flipper.TweenElapsed = 0
	flipper.Tweening = true
}

func (fs *FlipperSystem) syncIndicator(id ecs.EntityID, flipper *components.FlipperComponent) {
	visuals, ok := ecs.GetComponent[*components.SpinnerVisualsComponent](fs.entityManager, id)
	if ok && visuals.Indicator != nil {
		visuals.Indicator.SetAngle(flipper.Angle)
	}
}
