package components

import "github.com/decker502/prizewheel/pkg/config"

// SpinPhase 转盘状态机阶段
type SpinPhase string

const (
	// SpinPhaseIdle 静止，可接受新的转动请求
	SpinPhaseIdle SpinPhase = "idle"
	// SpinPhaseAwaitingDecision 等待决策回调返回目标扇区
	SpinPhaseAwaitingDecision SpinPhase = "awaiting_decision"
	// SpinPhaseTraveling 匀速转动阶段
	SpinPhaseTraveling SpinPhase = "traveling"
	// SpinPhaseDecaying 缓动减速阶段
	SpinPhaseDecaying SpinPhase = "decaying"
)

// IsSpinning 返回是否处于动画会话中
func (p SpinPhase) IsSpinning() bool {
	return p == SpinPhaseTraveling || p == SpinPhaseDecaying
}

// SpinnerComponent 转盘运行时状态
//
// 由转盘实体独占，只有 SpinnerSystem / EntitlementSystem 在更新线程上修改。
// ContainerRotation 跨多次转动保留（下一次的起点是上一次的落点），
// 因此所有目标角度都按相对值计算。
type SpinnerComponent struct {
	// Config 不可变的转盘配置
	Config *config.WheelConfig

	// Phase 当前阶段
	Phase SpinPhase

	// ContainerRotation 扇区容器的累计旋转值（度，不归一化，转动时单调递减）
	ContainerRotation float64

	// DistanceRemaining 当前阶段剩余的转动距离（度）
	DistanceRemaining float64

	// DistanceToReward 减速阶段的总距离（度），也是缓动比例的分母
	DistanceToReward float64

	// TargetAngle 终点角度，结束时 ContainerRotation 精确对齐到 -TargetAngle
	TargetAngle float64

	// TargetIndex 目标扇区（1-based）
	TargetIndex int

	// Speed 当前角速度（度/秒）
	Speed float64

	// LastIndex 上一次检测到的指针所指扇区，用于扇区跨越检测
	LastIndex int

	// LockInArmed 本次会话是否已进入指针锁定阶段
	LockInArmed bool

	// CanPurchase 权益检查结果，检查完成前默认为 true
	CanPurchase bool
}

// SliceCount 返回扇区数量
func (c *SpinnerComponent) SliceCount() int {
	return c.Config.SliceCount()
}
