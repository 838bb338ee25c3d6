package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/prizewheel/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfiguration 转盘配置无效（无扇区、参数越界等）
// 所有配置相关错误都包装此哨兵错误，调用方使用 errors.Is 判断
var ErrInvalidConfiguration = errors.New("invalid wheel configuration")

// 转盘默认参数
const (
	// DefaultWheelConfigPath 默认配置文件路径（嵌入资源）
	DefaultWheelConfigPath = "data/wheel.yaml"

	// DefaultMinimumSpins 减速前至少转满的圈数
	DefaultMinimumSpins = 5.0

	// DefaultIndicatorStruckAngle 指针被扇区拨动时的偏转角（度）
	DefaultIndicatorStruckAngle = 30.0

	// DefaultIndicatorReturnDelay 锁定阶段指针被拨动后回位的延迟（秒）
	DefaultIndicatorReturnDelay = 0.1

	// DefaultIndicatorReturnTween 指针回位动画时长（秒）
	DefaultIndicatorReturnTween = 0.08

	// MaxBaseAngularSpeed 匀速角速度上限（度/秒，100 圈每秒）
	MaxBaseAngularSpeed = 36000.0

	// MaxRevolutions MinimumSpins、DecayExtraRevolutions 的上限
	MaxRevolutions = 100.0
)

// RewardSlice 转盘上的一个奖励扇区
//
// Probability 仅供调用方自己的选择逻辑使用，转盘本身不做抽奖，
// 只负责转到给定索引。
type RewardSlice struct {
	Icon        string     // 图标资源ID（对转盘不透明）
	Probability float64    // 权重/概率
	Color       color.RGBA // 扇区底色
}

// SliceConfig 扇区的 YAML 配置
type SliceConfig struct {
	// Icon 图标资源ID（如 "IMAGE_REWARD_COIN"）
	Icon string `yaml:"icon"`

	// Probability 权重（>= 0，不要求归一化）
	Probability float64 `yaml:"probability"`

	// Color 十六进制颜色 "#RRGGBB"
	Color string `yaml:"color"`
}

// IndicatorConfig 指针（拨片）配置
type IndicatorConfig struct {
	// RestAngle 静止角度
	RestAngle float64 `yaml:"restAngle"`

	// StruckAngle 被拨动时的角度
	StruckAngle float64 `yaml:"struckAngle"`

	// ReturnDelay 锁定阶段被拨动后自动回位的延迟（秒）
	ReturnDelay float64 `yaml:"returnDelay"`

	// ReturnTween 回位缓动时长（秒），0 表示直接回位
	ReturnTween float64 `yaml:"returnTween"`
}

// WheelConfig 转盘配置
//
// 在组件整个生命周期内不可变。扇区顺序决定角度位置：
// 第 i 个扇区（1-based）位于 (i-1) * 360/N 度。
//
// 配置文件位置: data/wheel.yaml
type WheelConfig struct {
	// Slices 有序扇区列表，至少一个
	Slices []SliceConfig `yaml:"slices"`

	// BaseAngularSpeed 匀速阶段角速度（度/秒）
	BaseAngularSpeed float64 `yaml:"baseAngularSpeed"`

	// DecayExtraRevolutions 减速阶段额外转过的整圈数
	DecayExtraRevolutions float64 `yaml:"decayExtraRevolutions"`

	// MinimumSpins 减速前强制转过的整圈数（省略时为 5）
	MinimumSpins float64 `yaml:"minimumSpins"`

	// Indicator 指针配置
	Indicator IndicatorConfig `yaml:"indicator"`

	rewardSlices []RewardSlice
}

// LoadWheelConfig 加载转盘配置
//
// 以 "data/" 开头且存在于嵌入资源中的路径从嵌入资源读取，否则从文件系统读取。
//
// 参数:
//   - path: 配置文件路径（如 "data/wheel.yaml"）
//
// 返回:
//   - *WheelConfig: 已补全默认值并通过校验的配置
//   - error: 读取、解析或校验失败
func LoadWheelConfig(path string) (*WheelConfig, error) {
	var (
		data []byte
		err  error
	)
	if embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wheel config: %w", err)
	}

	return ParseWheelConfig(data)
}

// ParseWheelConfig 从 YAML 数据解析转盘配置
func ParseWheelConfig(data []byte) (*WheelConfig, error) {
	var cfg WheelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wheel config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults 补全省略的可选字段
func (c *WheelConfig) applyDefaults() {
	if c.MinimumSpins == 0 {
		c.MinimumSpins = DefaultMinimumSpins
	}
	if c.Indicator.StruckAngle == 0 {
		c.Indicator.StruckAngle = DefaultIndicatorStruckAngle
	}
	if c.Indicator.ReturnDelay == 0 {
		c.Indicator.ReturnDelay = DefaultIndicatorReturnDelay
	}
	if c.Indicator.ReturnTween == 0 {
		c.Indicator.ReturnTween = DefaultIndicatorReturnTween
	}
}

// Validate 验证配置有效性
//
// 检查：
//   - 至少一个扇区，权重非负，颜色可解析
//   - 匀速角速度为有限正数且不超过 MaxBaseAngularSpeed
//   - MinimumSpins、DecayExtraRevolutions 为不超过 MaxRevolutions 的非负整数（非整圈会破坏落点对齐）
//   - 所有数值字段都是有限值（NaN/Inf 会让会话永远无法结束）
//
// 返回:
//   - error: 包装 ErrInvalidConfiguration 的错误，成功返回 nil
func (c *WheelConfig) Validate() error {
	if len(c.Slices) == 0 {
		return fmt.Errorf("%w: at least one slice is required", ErrInvalidConfiguration)
	}

	if !isFinite(c.BaseAngularSpeed) || c.BaseAngularSpeed <= 0 || c.BaseAngularSpeed > MaxBaseAngularSpeed {
		return fmt.Errorf("%w: baseAngularSpeed must be in (0, %.0f], got %v",
			ErrInvalidConfiguration, MaxBaseAngularSpeed, c.BaseAngularSpeed)
	}

	if !isWholeRevolutions(c.DecayExtraRevolutions) {
		return fmt.Errorf("%w: decayExtraRevolutions must be a whole number in [0, %.0f], got %v",
			ErrInvalidConfiguration, MaxRevolutions, c.DecayExtraRevolutions)
	}

	if !isWholeRevolutions(c.MinimumSpins) {
		return fmt.Errorf("%w: minimumSpins must be a whole number in [0, %.0f], got %v",
			ErrInvalidConfiguration, MaxRevolutions, c.MinimumSpins)
	}

	if !isFinite(c.Indicator.RestAngle) || !isFinite(c.Indicator.StruckAngle) ||
		!isFinite(c.Indicator.ReturnDelay) || !isFinite(c.Indicator.ReturnTween) {
		return fmt.Errorf("%w: indicator values must be finite", ErrInvalidConfiguration)
	}
	if c.Indicator.ReturnDelay < 0 || c.Indicator.ReturnTween < 0 {
		return fmt.Errorf("%w: indicator durations must not be negative", ErrInvalidConfiguration)
	}

	slices := make([]RewardSlice, 0, len(c.Slices))
	for i, s := range c.Slices {
		if !isFinite(s.Probability) || s.Probability < 0 {
			return fmt.Errorf("%w: slice %d has invalid probability %v",
				ErrInvalidConfiguration, i+1, s.Probability)
		}

		clr, err := ParseHexColor(s.Color)
		if err != nil {
			return fmt.Errorf("%w: slice %d: %v", ErrInvalidConfiguration, i+1, err)
		}

		slices = append(slices, RewardSlice{
			Icon:        s.Icon,
			Probability: s.Probability,
			Color:       clr,
		})
	}
	c.rewardSlices = slices

	return nil
}

// SliceCount 返回扇区数量 N
func (c *WheelConfig) SliceCount() int {
	return len(c.Slices)
}

// RewardSlices 返回解析后的扇区数据（Validate 之后可用）
func (c *WheelConfig) RewardSlices() []RewardSlice {
	out := make([]RewardSlice, len(c.rewardSlices))
	copy(out, c.rewardSlices)
	return out
}

// Slice 返回第 index 个扇区（1-based）
func (c *WheelConfig) Slice(index int) (RewardSlice, bool) {
	if index < 1 || index > len(c.rewardSlices) {
		return RewardSlice{}, false
	}
	return c.rewardSlices[index-1], true
}

// ParseHexColor 解析 "#RRGGBB" 或 "RRGGBB" 格式的颜色，空字符串返回白色
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return color.RGBA{255, 255, 255, 255}, nil
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q must have 6 hex digits", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not hex: %w", s, err)
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// isWholeRevolutions NaN 和 Inf 都不满足
func isWholeRevolutions(v float64) bool {
	return isFinite(v) && v >= 0 && v <= MaxRevolutions && v == math.Trunc(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
