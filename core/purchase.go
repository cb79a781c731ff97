package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// rechargeAmountScale converts the backend product amount into the charge
// units the provider's reCharge capability expects.
const rechargeAmountScale = 10

// GetProductInfo fetches the purchasable item description from the backend.
// Zero-value request fields fall back to the catalog defaults.
func (s *Service) GetProductInfo(ctx context.Context, request PurchaseRequest) (Product, error) {
	startedAt := s.now()

	params := map[string]any{
		"sku":      defaultString(request.SKU, "1"),
		"roleId":   defaultString(request.RoleID, s.config.DefaultRole.RoleID),
		"serverId": defaultString(request.ServerID, s.config.DefaultRole.ServerID),
	}
	response, err := s.requestClient.Do(ctx, BackendRequest{
		Path:         PathProductInfo,
		Params:       params,
		SessionToken: s.Session().Token,
		Timeout:      s.config.RequestTimeout,
	})
	if err != nil {
		err = wrapSDKError(err, goerrors.CategoryExternal, "product info request failed", SDKErrorTransportFailure, map[string]any{
			"path": PathProductInfo,
			"sku":  params["sku"],
		})
		s.observeOperation(ctx, startedAt, "get_product_info", err, nil)
		return Product{}, err
	}
	if !response.Success {
		message := response.Message
		if strings.TrimSpace(message) == "" {
			message = fmt.Sprintf("product info rejected with code %d", response.Code)
		}
		err = newSDKError(message, goerrors.CategoryOperation, SDKErrorPurchaseFailed).
			WithMetadata(map[string]any{
				"step": "product_info",
				"code": response.Code,
				"sku":  params["sku"],
			})
		s.observeOperation(ctx, startedAt, "get_product_info", err, nil)
		return Product{}, err
	}

	product := productFromData(response.Data)
	if product.SKU == "" {
		product.SKU = defaultString(request.SKU, "1")
	}
	s.observeOperation(ctx, startedAt, "get_product_info", nil, map[string]any{
		"sku": product.SKU,
	})
	return product, nil
}

// PurchaseProduct runs the full purchase saga: product info, recharge order
// construction, provider reCharge, completion hook. The session moves
// through the transient Purchasing phase and returns to where it was
// whatever the outcome. onSuccess is optional and fire-and-forget; its
// failure never unwinds the purchase result.
func (s *Service) PurchaseProduct(ctx context.Context, request PurchaseRequest, onSuccess func()) (map[string]any, error) {
	startedAt := s.now()

	s.mu.Lock()
	priorPhase := s.session.Phase
	switch priorPhase {
	case PhaseAuthenticated, PhaseRoleConfirmed:
	case PhasePurchasing:
		s.mu.Unlock()
		return nil, newSDKError("a purchase is already in flight", goerrors.CategoryConflict, SDKErrorPurchaseFailed).
			WithMetadata(map[string]any{"step": "begin"})
	default:
		s.mu.Unlock()
		return nil, newSDKError("purchase requires an authenticated session", goerrors.CategoryAuth, SDKErrorNotAuthenticated).
			WithMetadata(map[string]any{"phase": string(priorPhase)})
	}
	if err := s.session.transitionTo(PhasePurchasing, s.now()); err != nil {
		s.mu.Unlock()
		return nil, wrapSDKError(err, goerrors.CategoryConflict, "purchase transition failed", SDKErrorInternal, nil)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		_ = s.session.transitionTo(priorPhase, s.now())
		s.mu.Unlock()
	}()

	product, err := s.GetProductInfo(ctx, request)
	if err != nil {
		s.observeOperation(ctx, startedAt, "purchase", err, map[string]any{"step": "product_info"})
		return nil, err
	}

	order := s.buildRechargeOrder(product, request)

	result, ok := s.currentInvoker().Invoke(ctx, CapabilityRecharge, order.Payload())
	if !ok {
		err = newSDKError("recharge capability unavailable", goerrors.CategoryOperation, SDKErrorPurchaseFailed).
			WithMetadata(map[string]any{
				"step":     "recharge",
				"sku":      order.ExtInfo.SKU,
				"order_id": order.ExtInfo.OrderID,
			})
		s.observeOperation(ctx, startedAt, "purchase", err, map[string]any{"step": "recharge"})
		return nil, err
	}

	s.runCompletionHook(ctx, onSuccess, order)
	s.publish(ctx, EventPurchaseCompleted, map[string]any{
		"sku":      order.ExtInfo.SKU,
		"order_id": order.ExtInfo.OrderID,
		"amount":   order.Amount,
	})
	s.observeOperation(ctx, startedAt, "purchase", nil, map[string]any{
		"sku":      order.ExtInfo.SKU,
		"order_id": order.ExtInfo.OrderID,
	})
	return result, nil
}

// buildRechargeOrder converts the product into the provider charge. A fresh
// order id is generated when the caller did not supply one.
func (s *Service) buildRechargeOrder(product Product, request PurchaseRequest) RechargeOrder {
	orderID := strings.TrimSpace(request.OrderID)
	if orderID == "" {
		orderID = "sdk_" + uuid.NewString()
	}
	return RechargeOrder{
		Amount: product.Amount * rechargeAmountScale,
		ExtInfo: RechargeExtInfo{
			ClientNonce: strconv.FormatInt(s.now().UnixMilli(), 10),
			OrderID:     orderID,
			GameID:      s.config.GameID,
			CPOrder:     orderID,
			SKU:         defaultString(request.SKU, product.SKU),
			ServerID:    defaultString(request.ServerID, "1"),
		},
	}
}

func (s *Service) runCompletionHook(ctx context.Context, onSuccess func(), order RechargeOrder) {
	if onSuccess == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logWarn(ctx, "purchase completion hook panicked", map[string]any{
				"panic":    recovered,
				"order_id": order.ExtInfo.OrderID,
			})
		}
	}()
	onSuccess()
}

func productFromData(data map[string]any) Product {
	product := Product{Raw: copyAnyMap(data)}
	if data == nil {
		return product
	}
	product.SKU = stringField(data, "sku")
	product.RoleID = stringField(data, "roleId")
	product.ServerID = stringField(data, "serverId")
	if amount, ok := float64Field(data, "amount"); ok {
		product.Amount = amount
	}
	return product
}

func float64Field(values map[string]any, key string) (float64, bool) {
	if values == nil {
		return 0, false
	}
	switch value := values[key].(type) {
	case float64:
		return value, true
	case int64:
		return float64(value), true
	case int:
		return float64(value), true
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
