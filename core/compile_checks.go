package core

// Compile-time contract checks.
var (
	_ StateStore            = (*MemoryStateStore)(nil)
	_ LifecycleEventBus     = (*MemoryEventBus)(nil)
	_ LifecycleEventHandler = (LifecycleEventHandlerFunc)(nil)
	_ MetricsRecorder       = NopMetricsRecorder{}
	_ Registry              = (*ProviderRegistry)(nil)
	_ ConfigProvider        = (*CfgxConfigProvider)(nil)
	_ OptionsResolver       = GoOptionsResolver{}
	_ RawConfigLoader       = staticRawConfigLoader{}
	_ IdentityResolver      = DefaultIdentityResolver{}
)
