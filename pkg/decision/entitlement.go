package decision

import "context"

// PurchasePolicy 权益查询结果
type PurchasePolicy struct {
	// PurchasesRestricted 当前用户是否被限制购买
	PurchasesRestricted bool
}

// EntitlementSource 外部权益来源
//
// 每个转盘生命周期内只查询一次；传输失败时返回错误，由调用方决定降级策略。
type EntitlementSource interface {
	QueryPurchasePolicy(ctx context.Context, actorID string) (*PurchasePolicy, error)
}

// EntitlementFunc 函数形式的 EntitlementSource
type EntitlementFunc func(ctx context.Context, actorID string) (*PurchasePolicy, error)

// QueryPurchasePolicy 实现 EntitlementSource
func (f EntitlementFunc) QueryPurchasePolicy(ctx context.Context, actorID string) (*PurchasePolicy, error) {
	return f(ctx, actorID)
}
