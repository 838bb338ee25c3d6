package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/utils"
)

// TestPlanSpin 测试运动规划
func TestPlanSpin(t *testing.T) {
	cfg := newTestWheelConfig(8, 720, 4, 5)

	tests := []struct {
		name             string
		rotation         float64
		target           int
		wantSlices       int
		wantInitial      float64
		wantDecay        float64
		wantTargetAngle  float64
		wantLandingIndex int
	}{
		{
			name:             "静止在扇区1，目标扇区3",
			rotation:         0,
			target:           3,
			wantSlices:       2,
			wantInitial:      1800,
			wantDecay:        1530,
			wantTargetAngle:  3330,
			wantLandingIndex: 3,
		},
		{
			name:             "上一次停在扇区3，再次转到扇区3",
			rotation:         -3330,
			target:           3,
			wantSlices:       0,
			wantInitial:      1800,
			wantDecay:        1440,
			wantTargetAngle:  2970,
			wantLandingIndex: 3,
		},
		{
			name:             "从扇区3转到扇区1需要绕回",
			rotation:         -3330,
			target:           1,
			wantSlices:       6,
			wantInitial:      1800,
			wantDecay:        1710,
			wantTargetAngle:  3240,
			wantLandingIndex: 1,
		},
		{
			name:             "目标为最后一个扇区",
			rotation:         0,
			target:           8,
			wantSlices:       7,
			wantInitial:      1800,
			wantDecay:        1755,
			wantTargetAngle:  3555,
			wantLandingIndex: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSpin(tt.rotation, tt.target, cfg)
			if err != nil {
				t.Fatalf("PlanSpin() error: %v", err)
			}

			if plan.SlicesToReward != tt.wantSlices {
				t.Errorf("SlicesToReward = %d, want %d", plan.SlicesToReward, tt.wantSlices)
			}
			if math.Abs(plan.InitialTravelDistance-tt.wantInitial) > 0.001 {
				t.Errorf("InitialTravelDistance = %.3f, want %.3f", plan.InitialTravelDistance, tt.wantInitial)
			}
			if math.Abs(plan.DistanceToReward-tt.wantDecay) > 0.001 {
				t.Errorf("DistanceToReward = %.3f, want %.3f", plan.DistanceToReward, tt.wantDecay)
			}
			if math.Abs(plan.TargetAngle-tt.wantTargetAngle) > 0.001 {
				t.Errorf("TargetAngle = %.3f, want %.3f", plan.TargetAngle, tt.wantTargetAngle)
			}

			// 对齐到 -TargetAngle 后应指向目标扇区
			if got := utils.CurrentSliceIndex(-plan.TargetAngle, 8); got != tt.wantLandingIndex {
				t.Errorf("落点扇区 = %d, want %d", got, tt.wantLandingIndex)
			}
		})
	}
}

// TestPlanSpin_AllTargetsLand 测试任意起点、任意目标的落点都正确
func TestPlanSpin_AllTargetsLand(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 12, 16} {
		cfg := newTestWheelConfig(n, 720, 2, 3)

		for start := 1; start <= n; start++ {
			rotation := -utils.SliceOffsetAngle(start, n)
			if got := utils.CurrentSliceIndex(rotation, n); got != start {
				t.Fatalf("N=%d: 起始旋转值 %.2f 指向扇区 %d, want %d", n, rotation, got, start)
			}

			for target := 1; target <= n; target++ {
				plan, err := PlanSpin(rotation, target, cfg)
				if err != nil {
					t.Fatalf("N=%d %d->%d: PlanSpin() error: %v", n, start, target, err)
				}
				if got := utils.CurrentSliceIndex(-plan.TargetAngle, n); got != target {
					t.Errorf("N=%d %d->%d: 落点扇区 = %d", n, start, target, got)
				}
				if plan.SlicesToReward < 0 || plan.SlicesToReward >= n {
					t.Errorf("N=%d %d->%d: SlicesToReward = %d 超出 [0, N-1]", n, start, target, plan.SlicesToReward)
				}
			}
		}
	}
}

// offCentreRotations 停在扇区中心之间的起始旋转值（正负、小数、多圈）
var offCentreRotations = []float64{20, 30, -10.5, 359.9, 95.3, -200.7, 1010}

// TestPlanSpin_OffCentreStart 测试起点不在扇区中心时落点仍然正确
func TestPlanSpin_OffCentreStart(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 12, 16} {
		cfg := newTestWheelConfig(n, 720, 2, 3)

		for _, rotation := range offCentreRotations {
			for target := 1; target <= n; target++ {
				plan, err := PlanSpin(rotation, target, cfg)
				if err != nil {
					t.Fatalf("N=%d rotation=%v target=%d: PlanSpin() error: %v", n, rotation, target, err)
				}
				if got := utils.CurrentSliceIndex(-plan.TargetAngle, n); got != target {
					t.Errorf("N=%d rotation=%v target=%d: 落点扇区 = %d", n, rotation, target, got)
				}

				// 总行程是整数个扇区，终点与起点相对扇区中心的偏移相同
				travel := plan.InitialTravelDistance + plan.DistanceToReward
				slices := travel / utils.DegreesPerSlice(n)
				if math.Abs(slices-math.Round(slices)) > 1e-9 {
					t.Errorf("N=%d rotation=%v target=%d: 行程 %.4f 不是整数个扇区", n, rotation, target, travel)
				}
			}
		}
	}
}

// TestPlanSpin_InvalidTarget 测试越界目标
func TestPlanSpin_InvalidTarget(t *testing.T) {
	cfg := newTestWheelConfig(8, 720, 4, 5)

	for _, target := range []int{0, -1, 9, 100} {
		_, err := PlanSpin(0, target, cfg)
		if !errors.Is(err, ErrInvalidSliceIndex) {
			t.Errorf("PlanSpin(target=%d) error = %v, want ErrInvalidSliceIndex", target, err)
		}
		if !errors.Is(err, config.ErrInvalidConfiguration) {
			t.Errorf("PlanSpin(target=%d) error 应包装 ErrInvalidConfiguration", target)
		}
	}
}
