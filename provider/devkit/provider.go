// Package devkit ships a deterministic capability provider for development
// environments and tests: predictable tokens, a fixed balance, and a
// recharge that always succeeds.
package devkit

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

const ProviderID = "devkit"

const defaultBalance int64 = 1000

type Provider struct {
	mu           sync.Mutex
	tokenCounter int64
	balance      int64
	reports      []map[string]any
	recharges    []map[string]any
	rechargeErr  error
}

type Option func(*Provider)

// WithBalance overrides the fixed balance the provider reports.
func WithBalance(balance int64) Option {
	return func(p *Provider) {
		p.balance = balance
	}
}

// WithRechargeError makes every reCharge call fail with err. Useful for
// exercising the purchase failure path.
func WithRechargeError(err error) Option {
	return func(p *Provider) {
		p.rechargeErr = err
	}
}

func New(options ...Option) *Provider {
	p := &Provider{balance: defaultBalance}
	for _, option := range options {
		if option != nil {
			option(p)
		}
	}
	return p
}

func (*Provider) ID() string {
	return ProviderID
}

func (*Provider) Capabilities() []core.Capability {
	return []core.Capability{
		core.CapabilityAccessToken,
		core.CapabilityUserDetail,
		core.CapabilityBalance,
		core.CapabilityReport,
		core.CapabilityRecharge,
	}
}

func (p *Provider) Invoke(_ context.Context, capability core.Capability, payload map[string]any) (map[string]any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch capability {
	case core.CapabilityAccessToken:
		p.tokenCounter++
		return map[string]any{
			"code":    "SUCCESS",
			"message": "ok",
			"data": map[string]any{
				"access_token": "mock_token_" + strconv.FormatInt(p.tokenCounter, 10),
			},
		}, nil
	case core.CapabilityUserDetail:
		return map[string]any{
			"userId":   "dev_user_001",
			"nickname": "开发测试用户",
			"avatar":   "",
			"level":    1,
		}, nil
	case core.CapabilityBalance:
		return map[string]any{
			"code": "SUCCESS",
			"data": map[string]any{
				"balance": p.balance,
			},
		}, nil
	case core.CapabilityReport:
		p.reports = append(p.reports, cloneMap(payload))
		return map[string]any{}, nil
	case core.CapabilityRecharge:
		if p.rechargeErr != nil {
			return nil, p.rechargeErr
		}
		p.recharges = append(p.recharges, cloneMap(payload))
		return map[string]any{"success": true}, nil
	default:
		return nil, fmt.Errorf("devkit: capability %q is not supported", capability)
	}
}

// Reports returns the role log payloads received so far.
func (p *Provider) Reports() []map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]map[string]any, len(p.reports))
	copy(out, p.reports)
	return out
}

// Recharges returns the recharge payloads received so far.
func (p *Provider) Recharges() []map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]map[string]any, len(p.recharges))
	copy(out, p.recharges)
	return out
}

// TokenCount returns how many access tokens were issued.
func (p *Provider) TokenCount() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokenCounter
}

func cloneMap(values map[string]any) map[string]any {
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return copied
}

var _ core.CapabilityProvider = (*Provider)(nil)
