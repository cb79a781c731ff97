package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPhaseTransition = errors.New("core: invalid session phase transition")
	ErrProviderNotResolved    = errors.New("core: capability provider not resolved")
)

// SessionPhase is the lifecycle position of the adapter's single session.
// Transitions move forward only, except for the explicit reset on logout
// and the fallback to Ready/Unavailable when authentication fails.
type SessionPhase string

const (
	PhaseUninitialized  SessionPhase = "uninitialized"
	PhaseInitializing   SessionPhase = "initializing"
	PhaseReady          SessionPhase = "ready"
	PhaseUnavailable    SessionPhase = "unavailable"
	PhaseAuthenticating SessionPhase = "authenticating"
	PhaseAuthenticated  SessionPhase = "authenticated"
	PhaseRoleConfirmed  SessionPhase = "role_confirmed"
	PhasePurchasing     SessionPhase = "purchasing"
)

// Session is the adapter's record of the current user. There is at most one
// per Service instance; only the Service mutates it.
type Session struct {
	Phase         SessionPhase
	Token         string
	Identity      Identity
	HasIdentity   bool
	RoleConfirmed bool
	UpdatedAt     time.Time
}

func (s *Session) transitionTo(phase SessionPhase, now time.Time) error {
	if s == nil {
		return nil
	}
	if s.Phase == phase {
		s.UpdatedAt = now
		return nil
	}
	if !phaseTransitionAllowed(s.Phase, phase) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidPhaseTransition, s.Phase, phase)
	}
	s.Phase = phase
	s.UpdatedAt = now
	return nil
}

func phaseTransitionAllowed(current, next SessionPhase) bool {
	allowed := map[SessionPhase]map[SessionPhase]struct{}{
		PhaseUninitialized: {
			PhaseInitializing: {},
		},
		PhaseInitializing: {
			PhaseReady:       {},
			PhaseUnavailable: {},
		},
		PhaseReady: {
			PhaseAuthenticating: {},
		},
		PhaseUnavailable: {
			PhaseAuthenticating: {},
			PhaseReady:          {},
		},
		PhaseAuthenticating: {
			PhaseAuthenticated: {},
			PhaseReady:         {},
			PhaseUnavailable:   {},
		},
		PhaseAuthenticated: {
			PhaseRoleConfirmed: {},
			PhasePurchasing:    {},
			PhaseReady:         {},
			PhaseUnavailable:   {},
		},
		PhaseRoleConfirmed: {
			PhasePurchasing:  {},
			PhaseReady:       {},
			PhaseUnavailable: {},
		},
		PhasePurchasing: {
			PhaseAuthenticated: {},
			PhaseRoleConfirmed: {},
		},
	}
	_, ok := allowed[current][next]
	return ok
}

// Identity is the display identity returned by the backend login or the
// provider profile call. Immutable once set; replaced wholesale on re-login.
type Identity struct {
	UserID   string
	Nickname string
	Avatar   string
	Level    int64
	Raw      map[string]any
}

func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.UserID) == "" &&
		strings.TrimSpace(i.Nickname) == "" &&
		len(i.Raw) == 0
}

// RoleInfo carries the caller's in-game role. Zero-value fields are filled
// from the configured defaults before the backend call; caller values win.
type RoleInfo struct {
	ServerID       string
	RoleID         string
	RoleName       string
	Level          string
	VIP            string
	CreateRoleTime int64
}

func (r RoleInfo) mergedOver(defaults RoleInfo) RoleInfo {
	out := defaults
	if strings.TrimSpace(r.ServerID) != "" {
		out.ServerID = r.ServerID
	}
	if strings.TrimSpace(r.RoleID) != "" {
		out.RoleID = r.RoleID
	}
	if strings.TrimSpace(r.RoleName) != "" {
		out.RoleName = r.RoleName
	}
	if strings.TrimSpace(r.Level) != "" {
		out.Level = r.Level
	}
	if strings.TrimSpace(r.VIP) != "" {
		out.VIP = r.VIP
	}
	if r.CreateRoleTime != 0 {
		out.CreateRoleTime = r.CreateRoleTime
	}
	return out
}

// PurchaseRequest identifies the product and role for one purchase attempt.
type PurchaseRequest struct {
	SKU      string
	RoleID   string
	ServerID string
	// OrderID is the caller-supplied order identifier (cp_order). A fresh
	// one is generated when empty.
	OrderID string
}

// Product is the backend's description of a purchasable item.
type Product struct {
	SKU      string
	Amount   float64
	RoleID   string
	ServerID string
	Raw      map[string]any
}

// RechargeOrder is the charge handed to the provider's reCharge capability.
// Orders are transient; one is built per purchase attempt.
type RechargeOrder struct {
	// Amount is the product amount already converted into provider charge
	// units (see rechargeAmountScale).
	Amount  float64
	ExtInfo RechargeExtInfo
}

type RechargeExtInfo struct {
	ClientNonce string
	OrderID     string
	GameID      string
	CPOrder     string
	SKU         string
	ServerID    string
}

func (o RechargeOrder) Payload() map[string]any {
	return map[string]any{
		"amount": o.Amount,
		"extInfo": map[string]any{
			"other":   o.ExtInfo.ClientNonce,
			"orderId": o.ExtInfo.OrderID,
			"self": map[string]any{
				"game_id":   o.ExtInfo.GameID,
				"cp_order":  o.ExtInfo.CPOrder,
				"sku":       o.ExtInfo.SKU,
				"server_id": o.ExtInfo.ServerID,
			},
		},
	}
}

// NormalizedResponse is the single shape every backend call collapses into.
// Success is true iff the raw code belongs to the accepted-success set.
type NormalizedResponse struct {
	Success bool
	Data    map[string]any
	Message string
	Code    int64
}

// EnvironmentKind classifies where the host application is executing. The
// provider is resolved once per initialization based on this.
type EnvironmentKind string

const (
	EnvironmentTrustedApp    EnvironmentKind = "trusted_app"
	EnvironmentAllowedDomain EnvironmentKind = "allowed_domain"
	EnvironmentDevelopment   EnvironmentKind = "development"
	EnvironmentUnknown       EnvironmentKind = "unknown"
)

type Environment struct {
	Kind      EnvironmentKind
	Hostname  string
	UserAgent string
}

// Trusted reports whether the execution context is the recognized host app,
// the only context in which opportunistic auto login runs.
func (e Environment) Trusted() bool {
	return e.Kind == EnvironmentTrustedApp
}

// ProviderEligible reports whether a capability provider should be resolved
// at all for this environment.
func (e Environment) ProviderEligible() bool {
	switch e.Kind {
	case EnvironmentTrustedApp, EnvironmentAllowedDomain, EnvironmentDevelopment:
		return true
	default:
		return false
	}
}

// ResolveEnvironment classifies a host context from its hostname and user
// agent. Trusted-app detection wins over domain allow-listing, which wins
// over local development.
func ResolveEnvironment(hostname, userAgent string, cfg Config) Environment {
	env := Environment{
		Kind:      EnvironmentUnknown,
		Hostname:  strings.TrimSpace(hostname),
		UserAgent: strings.TrimSpace(userAgent),
	}
	agent := strings.ToLower(env.UserAgent)
	if strings.Contains(agent, "hupu") || strings.Contains(agent, "hoopchina") {
		env.Kind = EnvironmentTrustedApp
		return env
	}
	host := strings.ToLower(env.Hostname)
	for _, domain := range cfg.TrustedHosts {
		trimmed := strings.ToLower(strings.TrimSpace(domain))
		if trimmed == "" {
			continue
		}
		if host == trimmed || strings.HasSuffix(host, "."+trimmed) {
			env.Kind = EnvironmentAllowedDomain
			return env
		}
	}
	if host == "localhost" || host == "127.0.0.1" {
		env.Kind = EnvironmentDevelopment
	}
	return env
}
