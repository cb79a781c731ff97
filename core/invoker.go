package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// SafeInvoker gates every call into the capability provider. It converts
// "provider missing", "capability missing", and "provider call failed" into
// the same absent outcome; errors never escape this layer. Callers that need
// a hard failure inspect the ok flag and synthesize their own typed error.
type SafeInvoker struct {
	provider     CapabilityProvider
	capabilities CapabilitySet
	logger       Logger
}

// NewSafeInvoker snapshots the provider's capability set once. Provider may
// be nil, which yields a permanently not-ready invoker.
func NewSafeInvoker(provider CapabilityProvider, logger Logger) *SafeInvoker {
	invoker := &SafeInvoker{
		provider: provider,
		logger:   glog.Ensure(logger),
	}
	if provider != nil {
		invoker.capabilities = NewCapabilitySet(provider.Capabilities())
	}
	return invoker
}

// Ready reports whether a provider was resolved at all.
func (i *SafeInvoker) Ready() bool {
	return i != nil && i.provider != nil
}

// Supports reports whether the resolved provider implements the capability.
func (i *SafeInvoker) Supports(capability Capability) bool {
	if !i.Ready() {
		return false
	}
	return i.capabilities.Has(capability)
}

// Capabilities returns the snapshot taken at construction.
func (i *SafeInvoker) Capabilities() CapabilitySet {
	if i == nil {
		return CapabilitySet{}
	}
	return i.capabilities
}

// Invoke runs the named capability. The second return is false when the
// provider is absent, the capability is missing, or the call failed; the
// cause is logged, never returned.
func (i *SafeInvoker) Invoke(ctx context.Context, capability Capability, payload map[string]any) (result map[string]any, ok bool) {
	if !i.Ready() {
		i.logWarn("capability call skipped, provider not ready", capability, nil)
		return nil, false
	}
	if !i.capabilities.Has(capability) {
		i.logWarn("capability not implemented by provider", capability, nil)
		return nil, false
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			i.logWarn("capability call panicked", capability, map[string]any{"panic": recovered})
			result = nil
			ok = false
		}
	}()

	out, err := i.provider.Invoke(ctx, capability, payload)
	if err != nil {
		i.logWarn("capability call failed", capability, map[string]any{"error": err.Error()})
		return nil, false
	}
	return out, true
}

func (i *SafeInvoker) logWarn(message string, capability Capability, extra map[string]any) {
	if i == nil || i.logger == nil {
		return
	}
	logger := i.logger
	fields := map[string]any{"capability": string(capability)}
	for key, value := range extra {
		fields[key] = value
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	logger.Warn(message, flattenFields(fields)...)
}
