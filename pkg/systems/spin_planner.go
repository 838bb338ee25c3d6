package systems

import (
	"errors"
	"fmt"

	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/utils"
)

// ErrInvalidSliceIndex 目标扇区不在 [1, N] 范围内
var ErrInvalidSliceIndex = fmt.Errorf("%w: slice index out of range", config.ErrInvalidConfiguration)

// ErrSpinInProgress 已有动画会话或决策请求正在进行
var ErrSpinInProgress = errors.New("spin already in progress")

// SpinPlan 一次转动的运动规划
type SpinPlan struct {
	// SlicesToReward 从当前扇区顺时针到目标扇区的扇区数
	SlicesToReward int

	// InitialTravelDistance 匀速阶段距离（MinimumSpins 整圈）
	InitialTravelDistance float64

	// DistanceToReward 减速阶段距离：到目标扇区的距离 + 额外整圈
	DistanceToReward float64

	// TargetAngle 终点角度，会话结束时旋转值精确对齐到 -TargetAngle
	TargetAngle float64
}

// PlanSpin 计算从当前旋转值转到目标扇区的运动规划
//
// 步骤：
//  1. degPerSlice = 360 / N
//  2. slicesToReward = ForwardSlices(CurrentSliceIndex(rotation), target)
//  3. distanceToReward = degPerSlice*slicesToReward + 360*DecayExtraRevolutions
//  4. initialTravel = 360 * MinimumSpins
//  5. targetAngle = initialTravel + distanceToReward - (rotation mod 360)
//
// 第 5 步的修正项抵消当前静止偏移，使转完全部距离后恰好落在目标扇区。
//
// 参数：
//   - rotation: 当前容器旋转值
//   - targetIndex: 目标扇区（1-based）
//   - cfg: 转盘配置
//
// 返回：
//   - SpinPlan: 运动规划
//   - error: 目标扇区越界时返回 ErrInvalidSliceIndex
func PlanSpin(rotation float64, targetIndex int, cfg *config.WheelConfig) (SpinPlan, error) {
	n := cfg.SliceCount()
	if n < 1 {
		return SpinPlan{}, fmt.Errorf("%w: wheel has no slices", config.ErrInvalidConfiguration)
	}
	if targetIndex < 1 || targetIndex > n {
		return SpinPlan{}, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidSliceIndex, targetIndex, n)
	}

	degPerSlice := utils.DegreesPerSlice(n)
	slicesToReward := utils.ForwardSlices(utils.CurrentSliceIndex(rotation, n), targetIndex, n)
	distanceToReward := degPerSlice*float64(slicesToReward) + utils.FullTurnDegrees*cfg.DecayExtraRevolutions
	initialTravel := utils.FullTurnDegrees * cfg.MinimumSpins

	return SpinPlan{
		SlicesToReward:        slicesToReward,
		InitialTravelDistance: initialTravel,
		DistanceToReward:      distanceToReward,
		TargetAngle:           initialTravel + distanceToReward - utils.NormalizeDegrees(rotation),
	}, nil
}
