package utils

import "math"

// Easing Functions (缓动函数)
//
// 转盘减速和指针回弹都通过缓动曲线控制速度。
// 所有缓动函数接受进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseOutSine 正弦缓出
// 转盘衰减阶段使用：输入为"剩余进度"比例，
// 剩余越多速度越接近 1，剩余趋近 0 时速度趋近 0
// 公式：f(t) = sin(t·π/2)
func EaseOutSine(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（指针回到静止位置时使用）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Clamp 将 v 限制在 [lo, hi] 区间
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
