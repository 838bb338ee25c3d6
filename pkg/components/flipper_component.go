package components

// FlipperComponent 转盘顶部指针（拨片）的状态
//
// 指针有两个逻辑位置：静止（RestAngle）和被扇区拨动（StruckAngle）。
// 进入锁定阶段后会挂上一个一次性的回位监视器：
// 指针再次被拨动时，经过 ReturnDelay 秒后自动回到静止位置，模拟机械拨片逐渐慢下来。
type FlipperComponent struct {
	// RestAngle 静止角度
	RestAngle float64

	// StruckAngle 被拨动时的角度
	StruckAngle float64

	// Angle 当前显示角度（回位时为缓动中间值）
	Angle float64

	// Struck 逻辑上是否处于被拨动状态
	Struck bool

	// WatcherArmed 回位监视器是否已挂上
	WatcherArmed bool

	// ReturnDelay 监视器触发回位前的延迟（秒）
	ReturnDelay float64

	// ReturnTimer 距离自动回位的剩余时间（秒），<= 0 表示没有待执行的回位
	ReturnTimer float64

	// ReturnTween 回位缓动总时长（秒）
	ReturnTween float64

	// TweenElapsed 回位缓动已进行时间（秒）
	TweenElapsed float64

	// TweenFrom 回位缓动起始角度
	TweenFrom float64

	// Tweening 是否正在回位缓动
	Tweening bool
}
