package decision

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/decker502/prizewheel/pkg/config"
)

func testSlices(probabilities ...float64) []config.RewardSlice {
	slices := make([]config.RewardSlice, len(probabilities))
	for i, p := range probabilities {
		slices[i] = config.RewardSlice{Icon: "IMAGE_REWARD", Probability: p}
	}
	return slices
}

// TestWeightedSelector_Distribution 测试抽取频率接近权重
func TestWeightedSelector_Distribution(t *testing.T) {
	selector := NewWeightedSelector(testSlices(0.5, 0.3, 0.2, 0), 42)

	const draws = 20000
	counts := make([]int, 5)
	for i := 0; i < draws; i++ {
		idx := selector.Pick()
		if idx < 1 || idx > 4 {
			t.Fatalf("Pick() = %d 超出 [1, 4]", idx)
		}
		counts[idx]++
	}

	want := []float64{0, 0.5, 0.3, 0.2, 0}
	for i := 1; i <= 4; i++ {
		got := float64(counts[i]) / draws
		if math.Abs(got-want[i]) > 0.02 {
			t.Errorf("扇区 %d 频率 = %.3f, want ≈ %.3f", i, got, want[i])
		}
	}
	if counts[4] != 0 {
		t.Errorf("权重为 0 的扇区被抽中 %d 次", counts[4])
	}
}

// TestWeightedSelector_Deterministic 测试相同种子产生相同序列
func TestWeightedSelector_Deterministic(t *testing.T) {
	a := NewWeightedSelector(testSlices(1, 1, 1, 1, 1, 1, 1, 1), 7)
	b := NewWeightedSelector(testSlices(1, 1, 1, 1, 1, 1, 1, 1), 7)

	for i := 0; i < 100; i++ {
		if x, y := a.Pick(), b.Pick(); x != y {
			t.Fatalf("第 %d 次抽取不一致: %d != %d", i, x, y)
		}
	}
}

// TestWeightedSelector_EdgeCases 测试边界情况
func TestWeightedSelector_EdgeCases(t *testing.T) {
	if got := NewWeightedSelector(nil, 1).Pick(); got != 0 {
		t.Errorf("没有扇区时 Pick() = %d, want 0", got)
	}

	selector := NewWeightedSelector(testSlices(0, 0, 0), 1)
	for i := 0; i < 50; i++ {
		if idx := selector.Pick(); idx < 1 || idx > 3 {
			t.Fatalf("全零权重 Pick() = %d 超出 [1, 3]", idx)
		}
	}

	if _, err := NewWeightedSelector(nil, 1).Decide(context.Background()); !errors.Is(err, ErrNoSpinsAvailable) {
		t.Errorf("没有扇区时 Decide() error = %v, want ErrNoSpinsAvailable", err)
	}
}

// TestWeightedSelector_SpinBudget 测试转动次数
func TestWeightedSelector_SpinBudget(t *testing.T) {
	selector := NewWeightedSelector(testSlices(1, 1), 1)
	ctx := context.Background()

	if selector.RemainingSpins() != UnlimitedSpins {
		t.Fatalf("默认应不限次数，got %d", selector.RemainingSpins())
	}

	selector.SetSpins(2)
	for i := 0; i < 2; i++ {
		if _, err := selector.Decide(ctx); err != nil {
			t.Fatalf("第 %d 次 Decide() error: %v", i+1, err)
		}
	}
	if _, err := selector.Decide(ctx); !errors.Is(err, ErrNoSpinsAvailable) {
		t.Errorf("次数用完后 Decide() error = %v, want ErrNoSpinsAvailable", err)
	}

	selector.AddSpins(1)
	if selector.RemainingSpins() != 1 {
		t.Errorf("AddSpins 后剩余次数 = %d, want 1", selector.RemainingSpins())
	}
	if _, err := selector.Decide(ctx); err != nil {
		t.Errorf("AddSpins 后 Decide() error: %v", err)
	}

	selector.SetSpins(UnlimitedSpins)
	selector.AddSpins(5)
	if selector.RemainingSpins() != UnlimitedSpins {
		t.Errorf("不限次数时 AddSpins 不应改变剩余次数，got %d", selector.RemainingSpins())
	}
}

// TestWeightedSelector_CanceledContext 测试上下文取消
func TestWeightedSelector_CanceledContext(t *testing.T) {
	selector := NewWeightedSelector(testSlices(1), 1)
	selector.SetSpins(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := selector.Decide(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Decide() error = %v, want context.Canceled", err)
	}
	if selector.RemainingSpins() != 1 {
		t.Errorf("取消的请求不应消耗次数，剩余 %d", selector.RemainingSpins())
	}
}

// TestWeightedSelector_Concurrent 测试并发抽取不超发次数
func TestWeightedSelector_Concurrent(t *testing.T) {
	selector := NewWeightedSelector(testSlices(1, 2, 3), 1)
	selector.SetSpins(100)

	var mu sync.Mutex
	granted := 0
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := selector.Decide(context.Background()); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 100 {
		t.Errorf("成功次数 = %d, want 100", granted)
	}
	if selector.RemainingSpins() != 0 {
		t.Errorf("剩余次数 = %d, want 0", selector.RemainingSpins())
	}
}
