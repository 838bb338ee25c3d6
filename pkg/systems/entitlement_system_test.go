package systems

import (
	"context"
	"errors"
	"testing"

	"github.com/decker502/prizewheel/pkg/decision"
)

// TestEntitlementSystem 测试购买入口的权益闸门
func TestEntitlementSystem(t *testing.T) {
	tests := []struct {
		name            string
		policy          *decision.PurchasePolicy
		err             error
		wantCanPurchase bool
	}{
		{"被限制购买", &decision.PurchasePolicy{PurchasesRestricted: true}, nil, false},
		{"未被限制", &decision.PurchasePolicy{PurchasesRestricted: false}, nil, true},
		{"查询失败放行", nil, errors.New("timeout"), true},
		{"无结果放行", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSpinnerHarness(t, newTestWheelConfig(8, 720, 1, 1))

			queries := 0
			var gotActor string
			source := decision.EntitlementFunc(func(ctx context.Context, actorID string) (*decision.PurchasePolicy, error) {
				queries++
				gotActor = actorID
				return tt.policy, tt.err
			})

			es := NewEntitlementSystem(h.em, h.wheel, source, "player-42", decision.RunInline)
			es.Start(context.Background())
			es.Start(context.Background())

			if queries != 1 {
				t.Errorf("查询次数 = %d, want 1", queries)
			}
			if gotActor != "player-42" {
				t.Errorf("actorID = %q, want player-42", gotActor)
			}
			if es.Resolved() {
				t.Error("Update 之前结果不应被应用")
			}

			es.Update(testFrameDT)

			if !es.Resolved() {
				t.Error("Update 之后结果应已应用")
			}
			if got := h.state(t).CanPurchase; got != tt.wantCanPurchase {
				t.Errorf("CanPurchase = %v, want %v", got, tt.wantCanPurchase)
			}
			if h.affordance.visible != tt.wantCanPurchase {
				t.Errorf("购买入口可见 = %v, want %v", h.affordance.visible, tt.wantCanPurchase)
			}
		})
	}
}

// TestEntitlementSystem_NilSource 测试没有权益来源时保持放行
func TestEntitlementSystem_NilSource(t *testing.T) {
	h := newSpinnerHarness(t, newTestWheelConfig(8, 720, 1, 1))

	es := NewEntitlementSystem(h.em, h.wheel, nil, "player-42", decision.RunInline)
	es.Start(context.Background())
	es.Update(testFrameDT)

	if !es.Resolved() {
		t.Error("没有权益来源时应立即视为已解决")
	}
	if !h.state(t).CanPurchase || !h.affordance.visible {
		t.Error("没有权益来源时购买入口应保持可用")
	}
}

// TestEntitlementSystem_DoesNotBlockSpinning 测试权益查询未返回时转盘仍可使用
func TestEntitlementSystem_DoesNotBlockSpinning(t *testing.T) {
	h := newSpinnerHarness(t, newTestWheelConfig(8, 720, 1, 1))

	release := make(chan struct{})
	defer close(release)
	source := decision.EntitlementFunc(func(ctx context.Context, actorID string) (*decision.PurchasePolicy, error) {
		<-release
		return &decision.PurchasePolicy{PurchasesRestricted: true}, nil
	})

	es := NewEntitlementSystem(h.em, h.wheel, source, "player-42", decision.RunInGoroutine)
	es.Start(context.Background())

	if err := h.spinner.ForceSpin(2); err != nil {
		t.Fatalf("ForceSpin() error: %v", err)
	}
	for h.spinner.IsSpinning() {
		es.Update(testFrameDT)
		h.step(testFrameDT)
	}

	if es.Resolved() {
		t.Error("查询未返回时不应被视为已解决")
	}
	if !h.state(t).CanPurchase {
		t.Error("查询未返回时购买入口应保持可用")
	}
}
