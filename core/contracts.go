package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Capability names an optional asynchronous operation on the platform
// provider. The set a provider actually implements is enumerated once at
// initialization; callers never probe per call.
type Capability string

const (
	CapabilityAccessToken Capability = "getAccessToken"
	CapabilityUserDetail  Capability = "getUserDetail"
	CapabilityBalance     Capability = "getBalance"
	CapabilityReport      Capability = "report"
	CapabilityRecharge    Capability = "reCharge"
)

// CapabilityProvider is the external platform handle. Implementations may
// support any subset of the known capabilities; Invoke on an unsupported
// capability is never reached because the invoker filters on Capabilities().
type CapabilityProvider interface {
	ID() string
	Capabilities() []Capability
	Invoke(ctx context.Context, capability Capability, payload map[string]any) (map[string]any, error)
}

// CapabilitySet is the per-session snapshot of which operations the resolved
// provider supports.
type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(capabilities []Capability) CapabilitySet {
	set := make(CapabilitySet, len(capabilities))
	for _, capability := range capabilities {
		set[capability] = struct{}{}
	}
	return set
}

func (s CapabilitySet) Has(capability Capability) bool {
	_, ok := s[capability]
	return ok
}

// Registry holds the capability providers a deployment knows about, keyed by
// provider id. Initialization picks one based on the environment.
type Registry interface {
	Register(provider CapabilityProvider) error
	Get(providerID string) (CapabilityProvider, bool)
	List() []CapabilityProvider
}

// BackendRequest is one logical call against the platform backend. Params
// are the call-specific fields; the client adds the fixed set and the
// session token.
type BackendRequest struct {
	Path         string
	Params       map[string]any
	SessionToken string
	Timeout      time.Duration
}

// RequestClient executes backend calls and collapses every response into
// the normalized contract. Transport failures return an error; business
// failures return Success=false with data preserved.
type RequestClient interface {
	Do(ctx context.Context, req BackendRequest) (NormalizedResponse, error)
}

// TransportRequest and TransportResponse mirror the wire exchange beneath
// the request client.
type TransportRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	Query       map[string]string
	Body        []byte
	Metadata    map[string]any
	Timeout     time.Duration
	Idempotency string

	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// StateStore persists the small amount of client state that survives the
// adapter instance: session token, confirmed-role flag, cached identity.
// Every reader tolerates absence on cold start.
type StateStore interface {
	SaveSessionToken(ctx context.Context, token string) error
	LoadSessionToken(ctx context.Context) (string, bool, error)
	ClearSessionToken(ctx context.Context) error

	SaveRoleConfirmed(ctx context.Context, confirmed bool) error
	LoadRoleConfirmed(ctx context.Context) (bool, error)

	SaveIdentity(ctx context.Context, identity Identity) error
	LoadIdentity(ctx context.Context) (Identity, bool, error)

	Reset(ctx context.Context) error
}

// LifecycleEvent is published on session transitions so hosts can observe
// (refresh balance, rerender) without coupling to operation results.
type LifecycleEvent struct {
	Type       string
	OccurredAt time.Time
	Fields     map[string]any
}

const (
	EventSessionInitialized   = "session.initialized"
	EventSessionAuthenticated = "session.authenticated"
	EventIdentityUpdated      = "session.identity_updated"
	EventRoleConfirmed        = "session.role_confirmed"
	EventPurchaseCompleted    = "session.purchase_completed"
	EventSessionLoggedOut     = "session.logged_out"
)

type LifecycleEventHandler interface {
	Handle(ctx context.Context, event LifecycleEvent) error
}

type LifecycleEventBus interface {
	Publish(ctx context.Context, event LifecycleEvent) error
	Subscribe(handler LifecycleEventHandler)
}

// IdentityResolver normalizes a raw identity payload (backend login data
// or provider profile) into the Identity value the session caches.
type IdentityResolver interface {
	Resolve(payload map[string]any) (Identity, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
