package systems

import (
	"context"
	"log"
	"sync"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/ecs"
)

// entitlementOutcome 权益查询结果，由异步任务投递回更新线程
type entitlementOutcome struct {
	policy *decision.PurchasePolicy
	err    error
}

// EntitlementSystem 购买入口的权益闸门
//
// 转盘创建时发出一次异步查询：
//   - 成功且用户被限制购买：隐藏购买入口，CanPurchase 置为 false
//   - 查询失败：记录日志后放行（CanPurchase 保持 true，入口保持可见）
//
// 查询失败放行是沿用的既定策略，不在此处修改。没有重试。
type EntitlementSystem struct {
	entityManager *ecs.EntityManager
	wheelEntity   ecs.EntityID
	source        decision.EntitlementSource
	actorID       string
	runAsync      decision.AsyncRunner

	startOnce sync.Once
	results   chan entitlementOutcome
	resolved  bool
}

// NewEntitlementSystem 创建权益闸门
//
// 参数：
//   - em: 实体管理器
//   - wheel: 转盘实体
//   - source: 外部权益来源（nil 时不查询，保持放行）
//   - actorID: 当前用户标识
//   - runner: 查询的执行方式（nil 时使用 decision.RunInGoroutine）
func NewEntitlementSystem(
	em *ecs.EntityManager,
	wheel ecs.EntityID,
	source decision.EntitlementSource,
	actorID string,
	runner decision.AsyncRunner,
) *EntitlementSystem {
	if runner == nil {
		runner = decision.RunInGoroutine
	}

	return &EntitlementSystem{
		entityManager: em,
		wheelEntity:   wheel,
		source:        source,
		actorID:       actorID,
		runAsync:      runner,
		results:       make(chan entitlementOutcome, 1),
	}
}

// Start 发出权益查询（整个生命周期只生效一次）
// 查询不阻塞转盘使用，只影响购买入口可见性
func (es *EntitlementSystem) Start(ctx context.Context) {
	es.startOnce.Do(func() {
		if es.source == nil {
			log.Printf("[EntitlementSystem] No entitlement source, purchases stay enabled")
			es.resolved = true
			return
		}

		source, actor, results := es.source, es.actorID, es.results
		es.runAsync(func() {
			policy, err := source.QueryPurchasePolicy(ctx, actor)
			results <- entitlementOutcome{policy: policy, err: err}
		})
	})
}

// Resolved 查询结果是否已应用
func (es *EntitlementSystem) Resolved() bool {
	return es.resolved
}

// Update 应用已返回的查询结果
func (es *EntitlementSystem) Update(dt float64) {
	select {
	case outcome := <-es.results:
		es.apply(outcome)
	default:
	}
}

func (es *EntitlementSystem) apply(outcome entitlementOutcome) {
	es.resolved = true

	if outcome.err != nil {
		log.Printf("[EntitlementSystem] Warning: entitlement query for %q failed: %v (purchases stay enabled)",
			es.actorID, outcome.err)
		return
	}
	if outcome.policy == nil || !outcome.policy.PurchasesRestricted {
		return
	}

	spinner, ok := ecs.GetComponent[*components.SpinnerComponent](es.entityManager, es.wheelEntity)
	if ok {
		spinner.CanPurchase = false
	}

	if visuals, ok := ecs.GetComponent[*components.SpinnerVisualsComponent](es.entityManager, es.wheelEntity); ok {
		for _, affordance := range visuals.PurchaseAffordances {
			if affordance != nil {
				affordance.SetVisible(false)
			}
		}
	}

	log.Printf("[EntitlementSystem] Purchases restricted for %q, hiding purchase affordances", es.actorID)
}
