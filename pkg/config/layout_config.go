package config

import "math"

// 布局配置常量
// 本文件定义了演示场景中转盘的布局参数（仅用于调试绘制）

// 窗口尺寸
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600
)

// Wheel Layout (转盘布局)
const (
	// WheelCenterX 转盘圆心X坐标
	WheelCenterX = 400.0

	// WheelCenterY 转盘圆心Y坐标
	WheelCenterY = 320.0

	// WheelRadius 转盘半径
	WheelRadius = 220.0

	// WheelHubRadius 中心轴半径
	WheelHubRadius = 36.0

	// IndicatorLength 顶部指针长度
	IndicatorLength = 48.0

	// SliceIconRadiusRatio 扇区图标所在半径比例（相对于 WheelRadius）
	SliceIconRadiusRatio = 0.68

	// SliceIconRadius 扇区图标圆点半径
	SliceIconRadius = 18.0
)

// WheelScreenPosition 返回转盘上给定极角（度，0 度指向正上方，顺时针为正）
// 与半径比例对应的屏幕坐标
func WheelScreenPosition(angleDeg, radiusRatio float64) (float64, float64) {
	r := WheelRadius * radiusRatio
	rad := angleDeg * math.Pi / 180
	return WheelCenterX + r*math.Sin(rad), WheelCenterY - r*math.Cos(rad)
}

// Buttons (按钮区域)
const (
	// SpinButtonX 转动按钮左上角X坐标
	SpinButtonX = 330.0

	// SpinButtonY 转动按钮左上角Y坐标
	SpinButtonY = 552.0

	// SpinButtonWidth 转动按钮宽度
	SpinButtonWidth = 140.0

	// SpinButtonHeight 转动按钮高度
	SpinButtonHeight = 36.0

	// PurchaseButtonX 购买入口左上角X坐标
	PurchaseButtonX = 630.0

	// PurchaseButtonY 购买入口左上角Y坐标
	PurchaseButtonY = 552.0

	// PurchaseButtonWidth 购买入口宽度
	PurchaseButtonWidth = 150.0

	// PurchaseButtonHeight 购买入口高度
	PurchaseButtonHeight = 36.0
)
