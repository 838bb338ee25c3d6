// Package decision 提供转盘的决策与权益契约
//
// 包含决策回调、权益来源、异步执行方式和本地权重选择器。
// 本包不依赖 ebiten，抽奖服务端可以单独引用。
package decision

import (
	"context"
	"errors"
)

// ErrNoSpinsAvailable 决策回调的哨兵返回值：当前没有可用的转动次数
// 收到该值时不启动动画，也不触发结果回调
var ErrNoSpinsAvailable = errors.New("no spins available")

// SpinDecider 决策回调：返回目标扇区索引（1-based）
//
// 实现可以同步返回，也可以阻塞等待外部结果（例如一次网络往返）。
// 没有可用次数时返回 ErrNoSpinsAvailable。
type SpinDecider func(ctx context.Context) (int, error)

// AsyncRunner 执行可能阻塞的任务
//
// 决策回调和权益查询通过它离开更新线程执行，结果经通道交回更新线程。
// 测试中使用 RunInline 让任务同步完成，保证结果确定。
type AsyncRunner func(task func())

// RunInGoroutine 默认执行方式：每个任务一个 goroutine
func RunInGoroutine(task func()) {
	go task()
}

// RunInline 在调用方 goroutine 中直接执行任务
func RunInline(task func()) {
	task()
}
