package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type serviceBuilder struct {
	runtimeConfig    Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	errorFactory     ErrorFactory
	errorMapper      ErrorMapper
	configProvider   ConfigProvider
	optionsResolver  OptionsResolver
	registry         Registry
	providers        []CapabilityProvider
	requestClient    RequestClient
	stateStore       StateStore
	eventBus         LifecycleEventBus
	identityResolver IdentityResolver
	environment      Environment
	now              func() time.Time
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *serviceBuilder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

func WithRegistry(registry Registry) Option {
	return func(b *serviceBuilder) {
		b.registry = registry
	}
}

// WithProvider registers a capability provider with the service registry
// during construction.
func WithProvider(provider CapabilityProvider) Option {
	return func(b *serviceBuilder) {
		if provider != nil {
			b.providers = append(b.providers, provider)
		}
	}
}

func WithRequestClient(client RequestClient) Option {
	return func(b *serviceBuilder) {
		b.requestClient = client
	}
}

func WithStateStore(store StateStore) Option {
	return func(b *serviceBuilder) {
		b.stateStore = store
	}
}

func WithEventBus(bus LifecycleEventBus) Option {
	return func(b *serviceBuilder) {
		b.eventBus = bus
	}
}

// WithIdentityResolver overrides how raw identity payloads are normalized
// into the cached Identity.
func WithIdentityResolver(resolver IdentityResolver) Option {
	return func(b *serviceBuilder) {
		b.identityResolver = resolver
	}
}

func WithEnvironment(environment Environment) Option {
	return func(b *serviceBuilder) {
		b.environment = environment
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *serviceBuilder) {
		b.now = now
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("hupuh5", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorFactory:    goerrors.New,
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		registry:        NewProviderRegistry(),
		environment:     Environment{Kind: EnvironmentUnknown},
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	return sdkErrorMapper(err)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.GameID) != "" {
		layer["game_id"] = cfg.GameID
	}
	if includeZero || strings.TrimSpace(cfg.GameKey) != "" {
		layer["game_key"] = cfg.GameKey
	}
	if includeZero || strings.TrimSpace(cfg.GameVersion) != "" {
		layer["game_version"] = cfg.GameVersion
	}
	if includeZero || strings.TrimSpace(cfg.SDKVersion) != "" {
		layer["sdk_version"] = cfg.SDKVersion
	}
	if includeZero || strings.TrimSpace(cfg.DeviceName) != "" {
		layer["device_name"] = cfg.DeviceName
	}
	if includeZero || strings.TrimSpace(cfg.APIBaseURL) != "" {
		layer["api_base_url"] = cfg.APIBaseURL
	}
	if includeZero || cfg.RequestTimeout > 0 {
		layer["request_timeout"] = cfg.RequestTimeout
	}
	if includeZero || len(cfg.AcceptedCodes) > 0 {
		layer["accepted_codes"] = append([]int64(nil), cfg.AcceptedCodes...)
	}
	if includeZero || strings.TrimSpace(cfg.ProviderID) != "" {
		layer["provider_id"] = cfg.ProviderID
	}
	if includeZero || strings.TrimSpace(cfg.DevProviderID) != "" {
		layer["dev_provider_id"] = cfg.DevProviderID
	}
	if includeZero || cfg.AutoLogin != nil {
		layer["auto_login"] = cfg.AutoLoginEnabled()
	}
	if includeZero || len(cfg.TrustedHosts) > 0 {
		layer["trusted_hosts"] = append([]string(nil), cfg.TrustedHosts...)
	}
	role := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.DefaultRole.ServerID) != "" {
		role["server_id"] = cfg.DefaultRole.ServerID
	}
	if includeZero || strings.TrimSpace(cfg.DefaultRole.RoleID) != "" {
		role["role_id"] = cfg.DefaultRole.RoleID
	}
	if includeZero || strings.TrimSpace(cfg.DefaultRole.RoleName) != "" {
		role["role_name"] = cfg.DefaultRole.RoleName
	}
	if includeZero || strings.TrimSpace(cfg.DefaultRole.Level) != "" {
		role["level"] = cfg.DefaultRole.Level
	}
	if includeZero || strings.TrimSpace(cfg.DefaultRole.VIP) != "" {
		role["vip"] = cfg.DefaultRole.VIP
	}
	if len(role) > 0 {
		layer["default_role"] = role
	}
	return layer
}
