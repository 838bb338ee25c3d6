package components

import "github.com/decker502/prizewheel/pkg/config"

// 转盘外部视觉元素句柄
//
// 这些元素由宿主界面预先创建并持有，转盘只向其写入角度、可见性和扇区数据，
// 不负责创建或销毁。

// AngleSink 接收旋转角度（扇区容器、指针）
type AngleSink interface {
	SetAngle(deg float64)
}

// VisibilitySink 接收可见性（购买入口等）
type VisibilitySink interface {
	SetVisible(visible bool)
}

// EnabledSink 接收可用状态（转动按钮）
type EnabledSink interface {
	SetEnabled(enabled bool)
}

// SliceSink 扇区模板：为每个扇区生成一个视觉副本
type SliceSink interface {
	// AddSlice 在 offsetDeg 处放置第 index 个扇区（1-based）
	AddSlice(index int, offsetDeg float64, slice config.RewardSlice)
}

// SpinnerVisualsComponent 转盘实体绑定的视觉句柄
// 任何字段都可以为 nil（对应元素不存在时跳过写入）
type SpinnerVisualsComponent struct {
	Container           AngleSink
	Indicator           AngleSink
	SpinButton          EnabledSink
	SliceTemplate       SliceSink
	PurchaseAffordances []VisibilitySink
}
