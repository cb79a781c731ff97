// Package hupuh5 is the client adapter for the Hupu H5 game platform: it
// drives the authenticate, confirm-role, and purchase flow against the
// platform backend and the in-app capability provider.
package hupuh5

import (
	"strings"

	"github.com/myp007/mz-hupu-h5-sdk/client"
	"github.com/myp007/mz-hupu-h5-sdk/core"
	"github.com/myp007/mz-hupu-h5-sdk/identity"
	"github.com/myp007/mz-hupu-h5-sdk/provider/devkit"
	"github.com/myp007/mz-hupu-h5-sdk/transport"
)

type Config = core.Config

type RoleDefaults = core.RoleDefaults

type Option = core.Option

type Service = core.Service

type Session = core.Session
type SessionPhase = core.SessionPhase
type Identity = core.Identity
type RoleInfo = core.RoleInfo
type PurchaseRequest = core.PurchaseRequest
type Product = core.Product
type NormalizedResponse = core.NormalizedResponse
type Environment = core.Environment
type EnvironmentKind = core.EnvironmentKind

type Capability = core.Capability
type CapabilityProvider = core.CapabilityProvider
type CapabilitySet = core.CapabilitySet
type StateStore = core.StateStore
type LifecycleEvent = core.LifecycleEvent
type LifecycleEventHandler = core.LifecycleEventHandler
type LifecycleEventHandlerFunc = core.LifecycleEventHandlerFunc

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithErrorFactory     = core.WithErrorFactory
	WithErrorMapper      = core.WithErrorMapper
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
	WithRegistry         = core.WithRegistry
	WithProvider         = core.WithProvider
	WithRequestClient    = core.WithRequestClient
	WithStateStore       = core.WithStateStore
	WithEventBus         = core.WithEventBus
	WithIdentityResolver = core.WithIdentityResolver
	WithEnvironment      = core.WithEnvironment
	WithClock            = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// DetectEnvironment classifies the host context from its hostname and user
// agent string.
func DetectEnvironment(hostname string, userAgent string, cfg Config) Environment {
	return core.ResolveEnvironment(hostname, userAgent, cfg)
}

// NewService builds a session service without any implicit wiring; the
// caller supplies the request client and providers through options.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

// Setup is the batteries-included constructor: REST transport against the
// configured backend, the identity resolver, and the devkit provider for
// development environments. Options passed by the caller are applied after
// the defaults and win on conflict.
func Setup(cfg Config, opts ...Option) (*Service, error) {
	requestClient, err := client.New(withClientDefaults(cfg), transport.NewRESTAdapter(nil))
	if err != nil {
		return nil, err
	}
	merged := append([]Option{
		WithRequestClient(requestClient),
		WithIdentityResolver(identity.NewResolver()),
		WithProvider(devkit.New()),
	}, opts...)
	return core.NewService(cfg, merged...)
}

// withClientDefaults fills the transport-facing config fields the request
// client needs before the full layered resolution runs inside NewService.
func withClientDefaults(cfg Config) Config {
	defaults := core.DefaultConfig()
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = defaults.APIBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if len(cfg.AcceptedCodes) == 0 {
		cfg.AcceptedCodes = defaults.AcceptedCodes
	}
	if strings.TrimSpace(cfg.GameVersion) == "" {
		cfg.GameVersion = defaults.GameVersion
	}
	if strings.TrimSpace(cfg.SDKVersion) == "" {
		cfg.SDKVersion = defaults.SDKVersion
	}
	if strings.TrimSpace(cfg.DeviceName) == "" {
		cfg.DeviceName = defaults.DeviceName
	}
	return cfg
}
