package game

import (
	"log"

	"github.com/decker502/prizewheel/pkg/ecs"
)

// SpinEventType 转盘生命周期事件类型
type SpinEventType int

const (
	// SpinEventStarted 动画会话开始（Finished=false）
	SpinEventStarted SpinEventType = iota
	// SpinEventSliceCrossed 指针跨过一个扇区边界
	SpinEventSliceCrossed
	// SpinEventFinished 动画会话结束（Finished=true）
	SpinEventFinished
)

// String 返回事件类型名称（用于日志）
func (t SpinEventType) String() string {
	switch t {
	case SpinEventStarted:
		return "started"
	case SpinEventSliceCrossed:
		return "slice_crossed"
	case SpinEventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// SpinEvent 转盘事件
type SpinEvent struct {
	Type SpinEventType

	// Wheel 发出事件的转盘实体
	Wheel ecs.EntityID

	// Finished 生命周期信号：开始为 false，结束为 true
	Finished bool

	// SliceIndex 跨越后指针所指扇区（SliceCrossed）或落点扇区（Finished）
	SliceIndex int
}

// SpinEventListener 事件监听函数
type SpinEventListener func(ev SpinEvent)

// SpinEventBus 转盘事件广播
//
// 事件在更新线程上同步分发，监听者按订阅顺序收到事件。
// 通道订阅者使用非阻塞发送，缓冲区满时丢弃事件并记录日志。
type SpinEventBus struct {
	nextID    int
	listeners []listenerEntry
}

type listenerEntry struct {
	id int
	fn SpinEventListener
}

// NewSpinEventBus 创建事件广播
func NewSpinEventBus() *SpinEventBus {
	return &SpinEventBus{}
}

// Subscribe 订阅事件，返回取消订阅函数（可重复调用）
func (b *SpinEventBus) Subscribe(fn SpinEventListener) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		for i, l := range b.listeners {
			if l.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// SubscribeChan 以通道形式订阅事件
//
// 参数：
//   - buffer: 通道缓冲大小
//
// 返回：
//   - <-chan SpinEvent: 事件通道（取消订阅后不会关闭，避免与发送竞争）
//   - func(): 取消订阅函数
func (b *SpinEventBus) SubscribeChan(buffer int) (<-chan SpinEvent, func()) {
	ch := make(chan SpinEvent, buffer)
	unsubscribe := b.Subscribe(func(ev SpinEvent) {
		select {
		case ch <- ev:
		default:
			log.Printf("[SpinEventBus] Warning: channel subscriber full, dropping %s event", ev.Type)
		}
	})
	return ch, unsubscribe
}

// Publish 分发事件
func (b *SpinEventBus) Publish(ev SpinEvent) {
	// 复制一份，监听者在回调中取消订阅不影响本轮分发
	listeners := make([]listenerEntry, len(b.listeners))
	copy(listeners, b.listeners)

	for _, l := range listeners {
		l.fn(ev)
	}
}
