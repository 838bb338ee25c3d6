package systems

import (
	"fmt"
	"testing"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/entities"
	"github.com/decker502/prizewheel/pkg/game"
)

// testFrameDT 测试使用的固定帧间隔（60 FPS）
const testFrameDT = 1.0 / 60.0

// fakeAngleSink 记录写入的角度
type fakeAngleSink struct {
	last   float64
	writes int
}

func (s *fakeAngleSink) SetAngle(deg float64) {
	s.last = deg
	s.writes++
}

// fakeVisibilitySink 记录可见性
type fakeVisibilitySink struct {
	visible bool
}

func (s *fakeVisibilitySink) SetVisible(visible bool) {
	s.visible = visible
}

// fakeEnabledSink 记录按钮可用状态
type fakeEnabledSink struct {
	enabled bool
	history []bool
}

func (s *fakeEnabledSink) SetEnabled(enabled bool) {
	s.enabled = enabled
	s.history = append(s.history, enabled)
}

// fakeTickSound 统计播放和释放次数
type fakeTickSound struct {
	plays  int
	closes int
}

func (s *fakeTickSound) Play()        { s.plays++ }
func (s *fakeTickSound) Close() error { s.closes++; return nil }

// fakeTickProvider 记录每次会话获取的音效实例
type fakeTickProvider struct {
	acquired []*fakeTickSound
}

func (p *fakeTickProvider) AcquireTickSound() game.TickSound {
	s := &fakeTickSound{}
	p.acquired = append(p.acquired, s)
	return s
}

// newTestWheelConfig 创建 n 个扇区的测试配置
func newTestWheelConfig(n int, speed, decayRevs, minSpins float64) *config.WheelConfig {
	slices := make([]config.SliceConfig, n)
	for i := range slices {
		slices[i] = config.SliceConfig{
			Icon:        fmt.Sprintf("IMAGE_SLICE_%d", i+1),
			Probability: 1,
			Color:       "#FFC800",
		}
	}

	return &config.WheelConfig{
		Slices:                slices,
		BaseAngularSpeed:      speed,
		DecayExtraRevolutions: decayRevs,
		MinimumSpins:          minSpins,
		Indicator: config.IndicatorConfig{
			RestAngle:   0,
			StruckAngle: 30,
			ReturnDelay: 0.1,
			ReturnTween: 0.05,
		},
	}
}

// spinnerHarness 测试用的转盘及其系统
type spinnerHarness struct {
	em          *ecs.EntityManager
	wheel       ecs.EntityID
	spinner     *SpinnerSystem
	flipper     *FlipperSystem
	sounds      *fakeTickProvider
	container   *fakeAngleSink
	indicator   *fakeAngleSink
	button      *fakeEnabledSink
	affordance  *fakeVisibilitySink
	events      []game.SpinEvent
	results     []config.RewardSlice
	unsubscribe func()
}

// newSpinnerHarness 创建转盘实体和系统，决策回调同步执行
func newSpinnerHarness(t *testing.T, cfg *config.WheelConfig) *spinnerHarness {
	t.Helper()

	h := &spinnerHarness{
		em:         ecs.NewEntityManager(),
		sounds:     &fakeTickProvider{},
		container:  &fakeAngleSink{},
		indicator:  &fakeAngleSink{},
		button:     &fakeEnabledSink{},
		affordance: &fakeVisibilitySink{},
	}

	wheel, err := entities.NewSpinnerEntity(h.em, cfg, &components.SpinnerVisualsComponent{
		Container:           h.container,
		Indicator:           h.indicator,
		SpinButton:          h.button,
		PurchaseAffordances: []components.VisibilitySink{h.affordance},
	})
	if err != nil {
		t.Fatalf("NewSpinnerEntity() error: %v", err)
	}
	h.wheel = wheel

	h.flipper = NewFlipperSystem(h.em)
	h.spinner = NewSpinnerSystem(h.em, wheel, h.flipper, game.NewSpinEventBus(), h.sounds, decision.RunInline)
	h.spinner.BindResult(func(slice config.RewardSlice) {
		h.results = append(h.results, slice)
	})
	h.unsubscribe = h.spinner.Events().Subscribe(func(ev game.SpinEvent) {
		h.events = append(h.events, ev)
	})

	return h
}

// state 返回转盘状态组件
func (h *spinnerHarness) state(t *testing.T) *components.SpinnerComponent {
	t.Helper()
	spinner, ok := ecs.GetComponent[*components.SpinnerComponent](h.em, h.wheel)
	if !ok {
		t.Fatal("未找到 SpinnerComponent")
	}
	return spinner
}

// step 推进一帧
func (h *spinnerHarness) step(dt float64) {
	h.spinner.Update(dt)
	h.flipper.Update(dt)
}

// runUntilIdle 推进直到会话结束，返回帧数
func (h *spinnerHarness) runUntilIdle(t *testing.T, dt float64) int {
	t.Helper()
	for frame := 1; frame <= 100000; frame++ {
		h.step(dt)
		if !h.spinner.IsSpinning() && h.state(t).Phase == components.SpinPhaseIdle {
			return frame
		}
	}
	t.Fatal("会话在 100000 帧内没有结束")
	return 0
}

// countEvents 统计指定类型的事件
func (h *spinnerHarness) countEvents(typ game.SpinEventType) int {
	n := 0
	for _, ev := range h.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// resetEvents 清空已记录的事件和结果
func (h *spinnerHarness) resetEvents() {
	h.events = nil
	h.results = nil
}
