package core

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func purchaseRequestClient(productData map[string]any) *fakeRequestClient {
	return &fakeRequestClient{
		respond: func(req BackendRequest) (NormalizedResponse, error) {
			switch req.Path {
			case PathLogin:
				return NormalizedResponse{Success: true, Code: 1, Data: map[string]any{"token": "tk", "userId": "u_1"}}, nil
			case PathProductInfo:
				return NormalizedResponse{Success: true, Code: 0, Data: productData}, nil
			default:
				return NormalizedResponse{Success: true, Code: 1, Data: map[string]any{}}, nil
			}
		},
	}
}

func authenticatedService(t *testing.T, provider CapabilityProvider, requestClient RequestClient) *Service {
	t.Helper()
	service := newTestService(t, allowedDomainEnv(), provider, requestClient)
	ctx := context.Background()
	if err := service.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := service.Authenticate(ctx); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return service
}

func TestGetProductInfo_DefaultsAndParsing(t *testing.T) {
	requestClient := purchaseRequestClient(map[string]any{
		"sku":    "sku_9",
		"amount": float64(5),
	})
	service := authenticatedService(t, fullProvider(), requestClient)

	product, err := service.GetProductInfo(context.Background(), PurchaseRequest{})
	if err != nil {
		t.Fatalf("get product info: %v", err)
	}
	if product.SKU != "sku_9" {
		t.Fatalf("expected backend sku, got %q", product.SKU)
	}
	if product.Amount != 5 {
		t.Fatalf("expected amount 5, got %v", product.Amount)
	}

	calls := requestClient.callsTo(PathProductInfo)
	if len(calls) != 1 {
		t.Fatalf("expected one product info call, got %d", len(calls))
	}
	params := calls[0].Params
	if params["sku"] != "1" {
		t.Fatalf("expected default sku param, got %v", params["sku"])
	}
	if params["serverId"] != "server_1" {
		t.Fatalf("expected default server id param, got %v", params["serverId"])
	}
	if calls[0].SessionToken != "tk" {
		t.Fatalf("expected session token on request, got %q", calls[0].SessionToken)
	}
}

func TestProductFromData_NumberTypes(t *testing.T) {
	cases := []struct {
		name   string
		amount any
	}{
		{"float", float64(5)},
		{"json number", json.Number("5")},
		{"string", "5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := productFromData(map[string]any{"sku": "sku_9", "amount": tc.amount})
			if product.Amount != 5 {
				t.Fatalf("expected amount 5, got %v", product.Amount)
			}
		})
	}
}

func TestGetProductInfo_BusinessFailure(t *testing.T) {
	requestClient := &fakeRequestClient{
		respond: func(req BackendRequest) (NormalizedResponse, error) {
			if req.Path == PathLogin {
				return NormalizedResponse{Success: true, Code: 1, Data: map[string]any{"token": "tk", "userId": "u_1"}}, nil
			}
			return NormalizedResponse{Success: false, Code: 4004, Message: "no such product"}, nil
		},
	}
	service := authenticatedService(t, fullProvider(), requestClient)

	_, err := service.GetProductInfo(context.Background(), PurchaseRequest{SKU: "missing"})
	if !IsPurchaseFailed(err) {
		t.Fatalf("expected purchase failure, got %v", err)
	}
}

func TestPurchaseProduct_BuildsScaledRechargeOrder(t *testing.T) {
	provider := fullProvider()
	var recharge map[string]any
	baseInvoke := provider.invoke
	provider.invoke = func(ctx context.Context, capability Capability, payload map[string]any) (map[string]any, error) {
		if capability == CapabilityRecharge {
			recharge = payload
			return map[string]any{"success": true}, nil
		}
		return baseInvoke(ctx, capability, payload)
	}
	requestClient := purchaseRequestClient(map[string]any{
		"sku":    "sku_9",
		"amount": float64(5),
	})
	service := authenticatedService(t, provider, requestClient)

	hookCalled := false
	events := []LifecycleEvent{}
	service.Subscribe(LifecycleEventHandlerFunc(func(_ context.Context, event LifecycleEvent) error {
		events = append(events, event)
		return nil
	}))

	result, err := service.PurchaseProduct(context.Background(), PurchaseRequest{SKU: "sku_9"}, func() {
		hookCalled = true
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result["success"] != true {
		t.Fatalf("expected provider result passthrough, got %#v", result)
	}
	if !hookCalled {
		t.Fatalf("expected completion hook to run")
	}
	if phase := service.Phase(); phase != PhaseAuthenticated {
		t.Fatalf("expected phase restored after purchase, got %q", phase)
	}

	if recharge == nil {
		t.Fatalf("expected recharge payload")
	}
	if amount := recharge["amount"]; amount != float64(50) {
		t.Fatalf("expected amount 50 after unit conversion, got %v", amount)
	}
	extInfo, ok := recharge["extInfo"].(map[string]any)
	if !ok {
		t.Fatalf("expected extInfo map, got %#v", recharge["extInfo"])
	}
	orderID, _ := extInfo["orderId"].(string)
	if !strings.HasPrefix(orderID, "sdk_") {
		t.Fatalf("expected generated sdk_ order id, got %q", orderID)
	}
	if nonce, _ := extInfo["other"].(string); nonce == "" {
		t.Fatalf("expected client nonce in extInfo.other")
	}
	self, ok := extInfo["self"].(map[string]any)
	if !ok {
		t.Fatalf("expected extInfo.self map, got %#v", extInfo["self"])
	}
	if self["game_id"] != "gid_1" {
		t.Fatalf("expected configured game id, got %v", self["game_id"])
	}
	if self["cp_order"] != orderID {
		t.Fatalf("expected cp_order to match order id, got %v", self["cp_order"])
	}
	if self["sku"] != "sku_9" {
		t.Fatalf("expected sku sku_9, got %v", self["sku"])
	}
	if self["server_id"] != "1" {
		t.Fatalf("expected server_id fallback, got %v", self["server_id"])
	}

	completed := false
	for _, event := range events {
		if event.Type == EventPurchaseCompleted {
			completed = true
		}
	}
	if !completed {
		t.Fatalf("expected purchase completed event, got %#v", events)
	}
}

func TestPurchaseProduct_CallerOrderIDWins(t *testing.T) {
	provider := fullProvider()
	var recharge map[string]any
	baseInvoke := provider.invoke
	provider.invoke = func(ctx context.Context, capability Capability, payload map[string]any) (map[string]any, error) {
		if capability == CapabilityRecharge {
			recharge = payload
		}
		return baseInvoke(ctx, capability, payload)
	}
	requestClient := purchaseRequestClient(map[string]any{"sku": "sku_9", "amount": float64(2)})
	service := authenticatedService(t, provider, requestClient)

	if _, err := service.PurchaseProduct(context.Background(), PurchaseRequest{
		SKU:     "sku_9",
		OrderID: "cp_order_77",
	}, nil); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	extInfo := recharge["extInfo"].(map[string]any)
	if extInfo["orderId"] != "cp_order_77" {
		t.Fatalf("expected caller order id, got %v", extInfo["orderId"])
	}
	self := extInfo["self"].(map[string]any)
	if self["cp_order"] != "cp_order_77" {
		t.Fatalf("expected caller cp_order, got %v", self["cp_order"])
	}
}

func TestPurchaseProduct_MissingRechargeCapability(t *testing.T) {
	provider := fullProvider()
	provider.capabilities = []Capability{CapabilityAccessToken, CapabilityUserDetail}
	requestClient := purchaseRequestClient(map[string]any{"sku": "sku_9", "amount": float64(5)})
	service := authenticatedService(t, provider, requestClient)

	hookCalled := false
	_, err := service.PurchaseProduct(context.Background(), PurchaseRequest{SKU: "sku_9"}, func() {
		hookCalled = true
	})
	if !IsPurchaseFailed(err) {
		t.Fatalf("expected purchase failure, got %v", err)
	}
	if hookCalled {
		t.Fatalf("completion hook must not run on failure")
	}
	if phase := service.Phase(); phase != PhaseAuthenticated {
		t.Fatalf("expected phase restored after failed purchase, got %q", phase)
	}
}

func TestPurchaseProduct_RequiresAuthenticatedSession(t *testing.T) {
	service := newTestService(t, allowedDomainEnv(), fullProvider(), purchaseRequestClient(nil))
	if err := service.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	_, err := service.PurchaseProduct(context.Background(), PurchaseRequest{}, nil)
	if ErrorTextCode(err) != SDKErrorNotAuthenticated {
		t.Fatalf("expected not-authenticated error, got %v", err)
	}
}

func TestPurchaseProduct_CompletionHookPanicIsContained(t *testing.T) {
	requestClient := purchaseRequestClient(map[string]any{"sku": "sku_9", "amount": float64(1)})
	service := authenticatedService(t, fullProvider(), requestClient)

	if _, err := service.PurchaseProduct(context.Background(), PurchaseRequest{SKU: "sku_9"}, func() {
		panic("hook blew up")
	}); err != nil {
		t.Fatalf("expected purchase to survive hook panic, got %v", err)
	}
	if phase := service.Phase(); phase != PhaseAuthenticated {
		t.Fatalf("expected phase restored, got %q", phase)
	}
}
