package entities

import (
	"fmt"
	"log"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/utils"
)

// NewSpinnerEntity 创建转盘实体
//
// 创建 SpinnerComponent（Idle、旋转值 0、CanPurchase=true）和 FlipperComponent，
// 并把扇区数据写入宿主提供的视觉元素：每个扇区通过 SliceTemplate 放置在
// (i-1) * 360/N 度处，容器和指针写入初始角度，按钮可用，购买入口可见。
//
// 参数：
//   - em: 实体管理器
//   - cfg: 转盘配置（会调用 Validate）
//   - visuals: 外部视觉句柄，可为 nil（无界面运行，如测试或服务端模拟）
//
// 返回：
//   - ecs.EntityID: 转盘实体ID
//   - error: 配置无效时返回包装 config.ErrInvalidConfiguration 的错误
func NewSpinnerEntity(em *ecs.EntityManager, cfg *config.WheelConfig, visuals *components.SpinnerVisualsComponent) (ecs.EntityID, error) {
	if cfg == nil {
		return 0, fmt.Errorf("%w: nil wheel config", config.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.SpinnerComponent{
		Config:      cfg,
		Phase:       components.SpinPhaseIdle,
		LastIndex:   utils.CurrentSliceIndex(0, cfg.SliceCount()),
		CanPurchase: true,
	})
	ecs.AddComponent(em, id, NewFlipperComponent(cfg.Indicator))

	if visuals != nil {
		ecs.AddComponent(em, id, visuals)
		bindSpinnerVisuals(cfg, visuals)
	}

	log.Printf("[SpinnerFactory] Created wheel entity %d with %d slices", id, cfg.SliceCount())
	return id, nil
}

// NewFlipperComponent 根据配置创建静止状态的指针组件
func NewFlipperComponent(cfg config.IndicatorConfig) *components.FlipperComponent {
	return &components.FlipperComponent{
		RestAngle:   cfg.RestAngle,
		StruckAngle: cfg.StruckAngle,
		Angle:       cfg.RestAngle,
		ReturnDelay: cfg.ReturnDelay,
		ReturnTween: cfg.ReturnTween,
	}
}

// bindSpinnerVisuals 把扇区数据和初始状态写入视觉元素
func bindSpinnerVisuals(cfg *config.WheelConfig, visuals *components.SpinnerVisualsComponent) {
	n := cfg.SliceCount()

	if visuals.SliceTemplate != nil {
		for i, slice := range cfg.RewardSlices() {
			index := i + 1
			visuals.SliceTemplate.AddSlice(index, utils.SliceOffsetAngle(index, n), slice)
		}
	}

	if visuals.Container != nil {
		visuals.Container.SetAngle(0)
	}
	if visuals.Indicator != nil {
		visuals.Indicator.SetAngle(cfg.Indicator.RestAngle)
	}
	if visuals.SpinButton != nil {
		visuals.SpinButton.SetEnabled(true)
	}
	for _, affordance := range visuals.PurchaseAffordances {
		if affordance != nil {
			affordance.SetVisible(true)
		}
	}
}
