package decision

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/decker502/prizewheel/pkg/config"
)

// UnlimitedSpins 转动次数不限
const UnlimitedSpins = -1

// WeightedSelector 按扇区权重抽取目标扇区
//
// 转盘本身不做抽奖，这是调用方的选择逻辑：
// 本地演示直接把 Decide 绑定为决策回调，抽奖服务端用 Pick 生成结果。
// 方法可以在多个 goroutine 中并发调用。
type WeightedSelector struct {
	mu        sync.Mutex
	weights   []float64
	total     float64
	rng       *rand.Rand
	remaining int
}

// NewWeightedSelector 创建权重选择器
//
// 参数：
//   - slices: 扇区列表（顺序与转盘一致）
//   - seed: 随机种子，相同种子产生相同序列
//
// 返回：
//   - *WeightedSelector: 转动次数不限的选择器
func NewWeightedSelector(slices []config.RewardSlice, seed uint64) *WeightedSelector {
	weights := make([]float64, len(slices))
	total := 0.0
	for i, s := range slices {
		weights[i] = s.Probability
		total += s.Probability
	}

	return &WeightedSelector{
		weights:   weights,
		total:     total,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		remaining: UnlimitedSpins,
	}
}

// SetSpins 设置剩余转动次数，UnlimitedSpins 表示不限
func (s *WeightedSelector) SetSpins(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = n
}

// AddSpins 增加转动次数（例如购买完成后），不限次数时无效果
func (s *WeightedSelector) AddSpins(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remaining != UnlimitedSpins {
		s.remaining += n
	}
}

// RemainingSpins 返回剩余转动次数
func (s *WeightedSelector) RemainingSpins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Pick 按权重抽取一个扇区（1-based），不消耗转动次数
// 所有权重为 0 时等概率抽取；没有扇区时返回 0
func (s *WeightedSelector) Pick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickLocked()
}

func (s *WeightedSelector) pickLocked() int {
	n := len(s.weights)
	if n == 0 {
		return 0
	}
	if s.total <= 0 {
		return s.rng.IntN(n) + 1
	}

	r := s.rng.Float64() * s.total
	cumulative := 0.0
	for i, w := range s.weights {
		cumulative += w
		if r < cumulative {
			return i + 1
		}
	}

	// 浮点累加误差导致未命中时落到最后一个非零权重扇区
	for i := n - 1; i >= 0; i-- {
		if s.weights[i] > 0 {
			return i + 1
		}
	}
	return n
}

// Decide 实现 SpinDecider：消耗一次转动次数并抽取扇区
// 次数用完时返回 ErrNoSpinsAvailable
func (s *WeightedSelector) Decide(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remaining == 0 || len(s.weights) == 0 {
		return 0, ErrNoSpinsAvailable
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return s.pickLocked(), nil
}
