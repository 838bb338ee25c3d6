package utils

import "math"

// 转盘角度换算
//
// 约定：
//   - 转盘容器的旋转值按顺时针方向递减（每次转动都是减小旋转值）
//   - 第 i 个扇区（1-based）的静止偏移角为 (i-1) * 360/N
//   - 旋转值不做归一化累积，参与计算时先取模 360

// FullTurnDegrees 一整圈的角度
const FullTurnDegrees = 360.0

// NormalizeDegrees 将任意角度映射到 [0, 360)
// 使用向下取整的取模（结果符号与除数一致），
// 负数旋转值也会落在正区间，例如 -3330 -> 270
func NormalizeDegrees(deg float64) float64 {
	m := math.Mod(deg, FullTurnDegrees)
	if m < 0 {
		m += FullTurnDegrees
	}
	// -1e-14 + 360 会被舍入成 360
	if m >= FullTurnDegrees {
		m -= FullTurnDegrees
	}
	return m
}

// DegreesPerSlice 返回单个扇区占用的角度
func DegreesPerSlice(sliceCount int) float64 {
	return FullTurnDegrees / float64(sliceCount)
}

// SliceOffsetAngle 返回第 index 个扇区（1-based）的静止偏移角
func SliceOffsetAngle(index, sliceCount int) float64 {
	return float64(index-1) * DegreesPerSlice(sliceCount)
}

// CurrentSliceIndex 根据容器旋转值计算当前指针所指的扇区（1-based）
//
// 公式：deg = rotation mod 360；deg 为 0 时返回 1，
// 否则 index = |round(deg / (360/N)) - 1 - N|。
// 当 deg 位于 0 之上不足半个扇区时公式给出 N+1，此时回绕为 1。
//
// 注意：该公式与 ForwardSlices、PlanSpin 的修正项相互推导，不能替换为对称写法。
//
// 参数：
//   - rotation: 容器旋转值（度，可为负）
//   - sliceCount: 扇区数量 N（必须 >= 1）
//
// 返回：
//   - int: 扇区索引 ∈ [1, N]
func CurrentSliceIndex(rotation float64, sliceCount int) int {
	deg := NormalizeDegrees(rotation)
	if deg == 0 {
		return 1
	}

	step := int(math.Round(deg / DegreesPerSlice(sliceCount)))
	index := step - 1 - sliceCount
	if index < 0 {
		index = -index
	}
	if index > sliceCount {
		index -= sliceCount
	}
	return index
}

// ForwardSlices 计算从 from 到 to 的顺时针前进扇区数
// 结果 ∈ [0, N-1]，仅当 from == to 时为 0
func ForwardSlices(from, to, sliceCount int) int {
	if d := to - from; d >= 0 {
		return d
	}
	return sliceCount - from + to
}
