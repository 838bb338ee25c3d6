package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	wheelRimColor   = color.RGBA{R: 60, G: 40, B: 20, A: 255}
	wheelFaceColor  = color.RGBA{R: 245, G: 235, B: 210, A: 255}
	wheelHubColor   = color.RGBA{R: 120, G: 80, B: 40, A: 255}
	indicatorColor  = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	buttonOnColor   = color.RGBA{R: 70, G: 150, B: 70, A: 255}
	buttonOffColor  = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	purchaseColor   = color.RGBA{R: 200, G: 140, B: 30, A: 255}
	backgroundColor = color.RGBA{R: 40, G: 70, B: 40, A: 255}
)

// sliceView 扇区模板生成的一个视觉副本
type sliceView struct {
	index  int
	offset float64
	slice  config.RewardSlice
}

// wheelView 扇区容器：记录容器旋转值和扇区副本，调试绘制整个转盘
// 实现 components.AngleSink 和 components.SliceSink
type wheelView struct {
	rotation float64
	slices   []sliceView
}

func (v *wheelView) SetAngle(deg float64) {
	v.rotation = deg
}

func (v *wheelView) AddSlice(index int, offsetDeg float64, slice config.RewardSlice) {
	v.slices = append(v.slices, sliceView{index: index, offset: offsetDeg, slice: slice})
}

// sliceScreenAngle 扇区中心的屏幕角度（0 度指向正上方，顺时针为正）
// 旋转值递减时扇区顺时针移动
func (v *wheelView) sliceScreenAngle(s sliceView) float64 {
	return -(v.rotation + s.offset)
}

func (v *wheelView) Draw(screen *ebiten.Image) {
	cx, cy := float32(config.WheelCenterX), float32(config.WheelCenterY)

	vector.DrawFilledCircle(screen, cx, cy, config.WheelRadius+6, wheelRimColor, true)
	vector.DrawFilledCircle(screen, cx, cy, config.WheelRadius, wheelFaceColor, true)

	n := len(v.slices)
	if n == 0 {
		return
	}
	half := utils.DegreesPerSlice(n) / 2

	for _, s := range v.slices {
		angle := v.sliceScreenAngle(s)

		// 扇区分界线
		if n > 1 {
			bx, by := config.WheelScreenPosition(angle+half, 1)
			vector.StrokeLine(screen, cx, cy, float32(bx), float32(by), 2, wheelRimColor, true)
		}

		ix, iy := config.WheelScreenPosition(angle, config.SliceIconRadiusRatio)
		vector.DrawFilledCircle(screen, float32(ix), float32(iy), config.SliceIconRadius, s.slice.Color, true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprint(s.index), int(ix)-3, int(iy)-8)
	}

	vector.DrawFilledCircle(screen, cx, cy, config.WheelHubRadius, wheelHubColor, true)
}

// indicatorView 顶部指针，实现 components.AngleSink
type indicatorView struct {
	angle float64
}

func (v *indicatorView) SetAngle(deg float64) {
	v.angle = deg
}

// Draw 指针绕上端支点转动，静止时尖端指向转盘边缘
func (v *indicatorView) Draw(screen *ebiten.Image) {
	pivotX := config.WheelCenterX
	pivotY := config.WheelCenterY - config.WheelRadius - config.IndicatorLength + 12

	rad := v.angle * math.Pi / 180
	tipX := pivotX - config.IndicatorLength*math.Sin(rad)
	tipY := pivotY + config.IndicatorLength*math.Cos(rad)

	vector.StrokeLine(screen, float32(pivotX), float32(pivotY), float32(tipX), float32(tipY), 6, indicatorColor, true)
	vector.DrawFilledCircle(screen, float32(pivotX), float32(pivotY), 7, indicatorColor, true)
}

// buttonView 矩形按钮，实现 components.EnabledSink 和 components.VisibilitySink
type buttonView struct {
	x, y, w, h float64
	label      string
	color      color.RGBA
	enabled    bool
	visible    bool
}

func newButtonView(x, y, w, h float64, label string, clr color.RGBA) *buttonView {
	return &buttonView{x: x, y: y, w: w, h: h, label: label, color: clr, enabled: true, visible: true}
}

func (b *buttonView) SetEnabled(enabled bool) {
	b.enabled = enabled
}

func (b *buttonView) SetVisible(visible bool) {
	b.visible = visible
}

// Contains 点是否落在按钮内
func (b *buttonView) Contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return b.visible && fx >= b.x && fx <= b.x+b.w && fy >= b.y && fy <= b.y+b.h
}

func (b *buttonView) Draw(screen *ebiten.Image) {
	if !b.visible {
		return
	}
	clr := b.color
	if !b.enabled {
		clr = buttonOffColor
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), clr, false)
	ebitenutil.DebugPrintAt(screen, b.label, int(b.x)+10, int(b.y+b.h/2)-8)
}
