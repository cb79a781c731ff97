package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Backend endpoints, relative to Config.APIBaseURL.
const (
	PathLogin       = "/login/otherHupuH5Login"
	PathChooseRole  = "/user/chooseRole"
	PathProductInfo = "/order/getProductInfo"
)

// Service is the session adapter. It owns the single Session record, the
// resolved capability provider, and every operation the host drives:
// Initialize, Authenticate, ConfirmRole, PurchaseProduct, and the
// supporting provider calls.
type Service struct {
	config           Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	errorFactory     ErrorFactory
	errorMapper      ErrorMapper
	registry         Registry
	requestClient    RequestClient
	stateStore       StateStore
	eventBus         LifecycleEventBus
	identityResolver IdentityResolver
	environment      Environment
	now              func() time.Time

	mu          sync.Mutex
	session     Session
	invoker     *SafeInvoker
	pendingAuth *authAttempt
}

// authAttempt is the shared result of one in-flight authentication. All
// callers that arrive while it is open wait on done and read the same
// outcome; only one backend login runs.
type authAttempt struct {
	done     chan struct{}
	identity Identity
	err      error
}

// NewService resolves configuration through the provider/resolver chain,
// applies the functional options, and wires defaults for anything left
// unset. The request client is the only hard requirement.
func NewService(runtime Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(runtime)
	for _, option := range options {
		if option != nil {
			option(&builder)
		}
	}

	if builder.logger == nil {
		builder.loggerProvider, builder.logger = glog.Resolve("hupuh5", builder.loggerProvider, nil)
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, wrapSDKError(err, goerrors.CategoryBadInput, "configuration load failed", SDKErrorBadInput, nil)
	}
	resolved, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, wrapSDKError(err, goerrors.CategoryBadInput, "configuration resolution failed", SDKErrorBadInput, nil)
	}

	if builder.requestClient == nil {
		return nil, newSDKError("request client is required", goerrors.CategoryBadInput, SDKErrorBadInput)
	}
	if builder.stateStore == nil {
		builder.stateStore = NewMemoryStateStore()
	}
	if builder.eventBus == nil {
		builder.eventBus = NewMemoryEventBus()
	}
	if builder.identityResolver == nil {
		builder.identityResolver = DefaultIdentityResolver{}
	}

	service := &Service{
		config:           resolved,
		logger:           builder.logger,
		loggerProvider:   builder.loggerProvider,
		metricsRecorder:  builder.metricsRecorder,
		errorFactory:     builder.errorFactory,
		errorMapper:      builder.errorMapper,
		registry:         builder.registry,
		requestClient:    builder.requestClient,
		stateStore:       builder.stateStore,
		eventBus:         builder.eventBus,
		identityResolver: builder.identityResolver,
		environment:      builder.environment,
		now:              builder.now,
		session:          Session{Phase: PhaseUninitialized},
	}
	for _, provider := range builder.providers {
		if err := service.registry.Register(provider); err != nil {
			return nil, wrapSDKError(err, goerrors.CategoryConflict, "provider registration failed", SDKErrorBadInput, map[string]any{
				"provider_id": provider.ID(),
			})
		}
	}
	return service, nil
}

// Config returns the resolved configuration.
func (s *Service) Config() Config {
	return s.config
}

// Environment returns the execution context the service was built with.
func (s *Service) Environment() Environment {
	return s.environment
}

// Session returns a snapshot of the current session record.
func (s *Service) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Phase returns the current session phase.
func (s *Service) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Phase
}

// Capabilities returns the capability snapshot taken at Initialize. Empty
// until initialized or when no provider was resolved.
func (s *Service) Capabilities() CapabilitySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invoker == nil {
		return CapabilitySet{}
	}
	return s.invoker.Capabilities()
}

// Subscribe attaches a lifecycle event handler.
func (s *Service) Subscribe(handler LifecycleEventHandler) {
	s.eventBus.Subscribe(handler)
}

// Initialize resolves the capability provider for the current environment,
// snapshots its capability set, restores persisted state, and settles the
// session in Ready or Unavailable. Calling it again is a no-op.
func (s *Service) Initialize(ctx context.Context) error {
	startedAt := s.now()

	s.mu.Lock()
	if s.session.Phase != PhaseUninitialized {
		s.mu.Unlock()
		return nil
	}
	if err := s.session.transitionTo(PhaseInitializing, s.now()); err != nil {
		s.mu.Unlock()
		return wrapSDKError(err, goerrors.CategoryConflict, "initialize transition failed", SDKErrorInternal, nil)
	}

	provider := s.resolveProvider()
	s.invoker = NewSafeInvoker(provider, s.logger)

	if token, ok, err := s.stateStore.LoadSessionToken(ctx); err == nil && ok {
		s.session.Token = token
	}
	if confirmed, err := s.stateStore.LoadRoleConfirmed(ctx); err == nil {
		s.session.RoleConfirmed = confirmed
	}
	if identity, ok, err := s.stateStore.LoadIdentity(ctx); err == nil && ok {
		s.session.Identity = identity
		s.session.HasIdentity = true
	}

	nextPhase := PhaseReady
	if provider == nil {
		nextPhase = PhaseUnavailable
	}
	if err := s.session.transitionTo(nextPhase, s.now()); err != nil {
		s.mu.Unlock()
		return wrapSDKError(err, goerrors.CategoryConflict, "initialize transition failed", SDKErrorInternal, nil)
	}
	providerID := ""
	if provider != nil {
		providerID = provider.ID()
	}
	capabilityCount := len(s.invoker.Capabilities())
	s.mu.Unlock()

	s.publish(ctx, EventSessionInitialized, map[string]any{
		"phase":       string(nextPhase),
		"provider_id": providerID,
		"environment": string(s.environment.Kind),
	})
	s.observeOperation(ctx, startedAt, "initialize", nil, map[string]any{
		"phase":        string(nextPhase),
		"provider_id":  providerID,
		"capabilities": capabilityCount,
	})

	if nextPhase == PhaseReady && s.environment.Trusted() && s.config.AutoLoginEnabled() {
		s.AutoAuthenticate(ctx)
	}
	return nil
}

// resolveProvider picks the provider id for the environment and looks it up
// in the registry. Called with s.mu held.
func (s *Service) resolveProvider() CapabilityProvider {
	if !s.environment.ProviderEligible() {
		return nil
	}
	providerID := s.config.ProviderID
	if s.environment.Kind == EnvironmentDevelopment {
		providerID = s.config.DevProviderID
	}
	provider, ok := s.registry.Get(providerID)
	if !ok {
		s.logWarn(context.Background(), "capability provider not registered", map[string]any{
			"provider_id": providerID,
			"environment": string(s.environment.Kind),
		})
		return nil
	}
	return provider
}

// AutoAuthenticate runs the opportunistic login: trusted environment, auto
// login enabled, no user already present. Failures are logged, never
// returned; a host that needs the error calls Authenticate directly.
func (s *Service) AutoAuthenticate(ctx context.Context) {
	if !s.environment.Trusted() || !s.config.AutoLoginEnabled() {
		return
	}
	s.mu.Lock()
	phase := s.session.Phase
	hasIdentity := s.session.HasIdentity
	s.mu.Unlock()
	if phase == PhaseAuthenticated || phase == PhaseRoleConfirmed || hasIdentity {
		return
	}

	if _, err := s.Authenticate(ctx); err != nil {
		s.logWarn(ctx, "auto login failed, waiting for explicit login", map[string]any{
			"error": err.Error(),
		})
		return
	}
	s.FetchIdentityDetail(ctx)
}

// Authenticate acquires a provider access token, exchanges it with the
// backend login endpoint, and settles the session in Authenticated.
// Concurrent callers collapse into the single in-flight attempt and share
// its outcome. On failure the session falls back to its prior phase.
func (s *Service) Authenticate(ctx context.Context) (Identity, error) {
	startedAt := s.now()

	s.mu.Lock()
	switch s.session.Phase {
	case PhaseUninitialized, PhaseInitializing:
		s.mu.Unlock()
		return Identity{}, newSDKError("authenticate requires an initialized session", goerrors.CategoryBadInput, SDKErrorBadInput)
	case PhasePurchasing:
		s.mu.Unlock()
		return Identity{}, newSDKError("authenticate blocked while a purchase is in flight", goerrors.CategoryConflict, SDKErrorBadInput)
	}

	if pending := s.pendingAuth; pending != nil {
		s.mu.Unlock()
		select {
		case <-pending.done:
			return pending.identity, pending.err
		case <-ctx.Done():
			return Identity{}, wrapSDKError(ctx.Err(), goerrors.CategoryOperation, "authenticate cancelled while waiting on in-flight login", SDKErrorAuthenticationFailed, nil)
		}
	}

	// Re-login replaces the session wholesale; rewind to Ready first.
	if s.session.Phase == PhaseAuthenticated || s.session.Phase == PhaseRoleConfirmed {
		if err := s.session.transitionTo(PhaseReady, s.now()); err != nil {
			s.mu.Unlock()
			return Identity{}, wrapSDKError(err, goerrors.CategoryConflict, "authenticate transition failed", SDKErrorInternal, nil)
		}
	}
	priorPhase := s.session.Phase
	if err := s.session.transitionTo(PhaseAuthenticating, s.now()); err != nil {
		s.mu.Unlock()
		return Identity{}, wrapSDKError(err, goerrors.CategoryConflict, "authenticate transition failed", SDKErrorInternal, nil)
	}
	attempt := &authAttempt{done: make(chan struct{})}
	s.pendingAuth = attempt
	s.mu.Unlock()

	identity, token, err := s.performAuthentication(ctx)

	s.mu.Lock()
	s.pendingAuth = nil
	resetMidFlight := false
	if err != nil {
		_ = s.session.transitionTo(priorPhase, s.now())
	} else if terr := s.session.transitionTo(PhaseAuthenticated, s.now()); terr != nil {
		// Logout replaced the session while the login was in flight;
		// drop the result instead of attaching a token to the fresh
		// session.
		resetMidFlight = true
	} else {
		s.session.Token = token
		s.session.Identity = identity
		s.session.HasIdentity = !identity.IsZero()
		s.session.RoleConfirmed = false
	}
	s.mu.Unlock()

	if resetMidFlight {
		s.logWarn(ctx, "session reset during login, discarding result", nil)
		if clearErr := s.stateStore.ClearSessionToken(ctx); clearErr != nil {
			s.logWarn(ctx, "discarded session token clear failed", map[string]any{"error": clearErr.Error()})
		}
		err = newSDKError("session reset while login was in flight", goerrors.CategoryConflict, SDKErrorAuthenticationFailed)
		identity = Identity{}
	}

	attempt.identity = identity
	attempt.err = err
	close(attempt.done)

	if err == nil {
		s.publish(ctx, EventSessionAuthenticated, map[string]any{
			"user_id": identity.UserID,
		})
	}
	s.observeOperation(ctx, startedAt, "authenticate", err, map[string]any{
		"phase": string(s.Phase()),
	})
	return identity, err
}

// performAuthentication runs the two-step login outside the session lock:
// provider access token, then backend exchange.
func (s *Service) performAuthentication(ctx context.Context) (Identity, string, error) {
	tokenResult, ok := s.currentInvoker().Invoke(ctx, CapabilityAccessToken, nil)
	if !ok {
		return Identity{}, "", newSDKError("access token unavailable from provider", goerrors.CategoryAuth, SDKErrorAuthenticationFailed).
			WithMetadata(map[string]any{"step": "access_token"})
	}
	accessToken, err := extractAccessToken(tokenResult)
	if err != nil {
		return Identity{}, "", wrapSDKError(err, goerrors.CategoryAuth, "access token missing from provider response", SDKErrorAuthenticationFailed, map[string]any{
			"step": "access_token",
		})
	}

	response, err := s.requestClient.Do(ctx, BackendRequest{
		Path:    PathLogin,
		Params:  map[string]any{"accessToken": accessToken},
		Timeout: s.config.RequestTimeout,
	})
	if err != nil {
		return Identity{}, "", wrapSDKError(err, goerrors.CategoryExternal, "login request failed", SDKErrorTransportFailure, map[string]any{
			"step": "login",
			"path": PathLogin,
		})
	}
	if !response.Success {
		// A rejected login invalidates whatever token was persisted.
		if clearErr := s.stateStore.ClearSessionToken(ctx); clearErr != nil {
			s.logWarn(ctx, "stale session token clear failed", map[string]any{"error": clearErr.Error()})
		}
		return Identity{}, "", newSDKError(loginFailureMessage(response), goerrors.CategoryAuth, SDKErrorAuthenticationFailed).
			WithMetadata(map[string]any{
				"step": "login",
				"code": response.Code,
			})
	}

	token := stringField(response.Data, "token")
	if token != "" {
		if saveErr := s.stateStore.SaveSessionToken(ctx, token); saveErr != nil {
			s.logWarn(ctx, "session token persist failed", map[string]any{"error": saveErr.Error()})
		}
	}

	identity, resolveErr := s.identityResolver.Resolve(response.Data)
	if resolveErr != nil {
		identity = Identity{Raw: copyAnyMap(response.Data)}
	}
	if identitySaveErr := s.stateStore.SaveIdentity(ctx, identity); identitySaveErr != nil {
		s.logWarn(ctx, "identity persist failed", map[string]any{"error": identitySaveErr.Error()})
	}
	return identity, token, nil
}

func loginFailureMessage(response NormalizedResponse) string {
	if strings.TrimSpace(response.Message) != "" {
		return response.Message
	}
	return fmt.Sprintf("login rejected with code %d", response.Code)
}

// extractAccessToken handles both provider response shapes: the documented
// {code:"SUCCESS", data:{access_token}} envelope and the flat
// {access_token} map.
func extractAccessToken(result map[string]any) (string, error) {
	if code := stringField(result, "code"); code == "SUCCESS" {
		if data := mapSection(result, "data"); data != nil {
			if token := stringField(data, "access_token"); token != "" {
				return token, nil
			}
		}
	}
	if token := stringField(result, "access_token"); token != "" {
		return token, nil
	}
	message := stringField(result, "message")
	if message == "" {
		message = "provider returned no access token"
	}
	return "", fmt.Errorf("%s", message)
}

// ConfirmRole merges the caller's role over the configured defaults and
// confirms it with the backend. Requires an authenticated session.
func (s *Service) ConfirmRole(ctx context.Context, role RoleInfo) (map[string]any, error) {
	startedAt := s.now()

	s.mu.Lock()
	if s.session.Phase != PhaseAuthenticated && s.session.Phase != PhaseRoleConfirmed {
		phase := s.session.Phase
		s.mu.Unlock()
		return nil, newSDKError("confirm role requires an authenticated session", goerrors.CategoryAuth, SDKErrorNotAuthenticated).
			WithMetadata(map[string]any{"phase": string(phase)})
	}
	s.mu.Unlock()

	merged := role.mergedOver(s.config.defaultRoleInfo())
	params := map[string]any{
		"serverId": merged.ServerID,
		"roleId":   merged.RoleID,
		"roleName": merged.RoleName,
		"level":    merged.Level,
		"vip":      merged.VIP,
	}
	if merged.CreateRoleTime != 0 {
		params["createRoleTime"] = merged.CreateRoleTime
	}

	response, err := s.requestClient.Do(ctx, BackendRequest{
		Path:         PathChooseRole,
		Params:       params,
		SessionToken: s.Session().Token,
		Timeout:      s.config.RequestTimeout,
	})
	if err != nil {
		err = wrapSDKError(err, goerrors.CategoryExternal, "choose role request failed", SDKErrorTransportFailure, map[string]any{
			"path": PathChooseRole,
		})
		s.observeOperation(ctx, startedAt, "confirm_role", err, nil)
		return nil, err
	}
	if !response.Success {
		err = newSDKError(roleFailureMessage(response), goerrors.CategoryOperation, SDKErrorRoleConfirmationFailed).
			WithMetadata(map[string]any{
				"code":      response.Code,
				"server_id": merged.ServerID,
				"role_id":   merged.RoleID,
			})
		s.observeOperation(ctx, startedAt, "confirm_role", err, nil)
		return nil, err
	}

	if saveErr := s.stateStore.SaveRoleConfirmed(ctx, true); saveErr != nil {
		s.logWarn(ctx, "role confirmation persist failed", map[string]any{"error": saveErr.Error()})
	}

	s.mu.Lock()
	s.session.RoleConfirmed = true
	_ = s.session.transitionTo(PhaseRoleConfirmed, s.now())
	s.mu.Unlock()

	s.publish(ctx, EventRoleConfirmed, map[string]any{
		"server_id": merged.ServerID,
		"role_id":   merged.RoleID,
	})
	s.observeOperation(ctx, startedAt, "confirm_role", nil, map[string]any{
		"server_id": merged.ServerID,
		"role_id":   merged.RoleID,
	})
	return response.Data, nil
}

func roleFailureMessage(response NormalizedResponse) string {
	if strings.TrimSpace(response.Message) != "" {
		return response.Message
	}
	return fmt.Sprintf("role confirmation rejected with code %d", response.Code)
}

// FetchIdentityDetail asks the provider for the user profile and caches it
// on the session. Best effort throughout: a missing getUserDetail
// capability or an unreadable payload yields a zero Identity and false,
// never an error.
func (s *Service) FetchIdentityDetail(ctx context.Context) (Identity, bool) {
	startedAt := s.now()

	result, ok := s.currentInvoker().Invoke(ctx, CapabilityUserDetail, nil)
	if !ok {
		s.logWarn(ctx, "user detail unavailable from provider", map[string]any{
			"capability": string(CapabilityUserDetail),
		})
		s.observeOperation(ctx, startedAt, "fetch_identity_detail", nil, map[string]any{
			"resolved": false,
		})
		return Identity{}, false
	}

	payload := result
	if data := mapSection(result, "data"); data != nil {
		payload = data
	}
	identity, err := s.identityResolver.Resolve(payload)
	if err != nil {
		s.logWarn(ctx, "identity payload normalization failed", map[string]any{
			"error": err.Error(),
		})
		s.observeOperation(ctx, startedAt, "fetch_identity_detail", err, nil)
		return Identity{}, false
	}

	if saveErr := s.stateStore.SaveIdentity(ctx, identity); saveErr != nil {
		s.logWarn(ctx, "identity persist failed", map[string]any{"error": saveErr.Error()})
	}

	s.mu.Lock()
	s.session.Identity = identity
	s.session.HasIdentity = !identity.IsZero()
	s.mu.Unlock()

	s.publish(ctx, EventIdentityUpdated, map[string]any{
		"user_id": identity.UserID,
	})
	s.observeOperation(ctx, startedAt, "fetch_identity_detail", nil, map[string]any{
		"user_id": identity.UserID,
	})
	return identity, true
}

// ReportRole pushes a role log through the provider's report capability.
// Field validation is strict; the provider call itself is absent-tolerant
// and never fails the operation.
func (s *Service) ReportRole(ctx context.Context, role RoleInfo) error {
	startedAt := s.now()

	if err := validateReportRole(role); err != nil {
		s.observeOperation(ctx, startedAt, "report_role", err, nil)
		return err
	}

	payload := map[string]any{
		"serverId":       role.ServerID,
		"roleId":         role.RoleID,
		"roleName":       role.RoleName,
		"createRoleTime": role.CreateRoleTime,
	}
	if strings.TrimSpace(role.Level) != "" {
		payload["level"] = role.Level
	}
	if strings.TrimSpace(role.VIP) != "" {
		payload["vip"] = role.VIP
	}

	if _, ok := s.currentInvoker().Invoke(ctx, CapabilityReport, payload); !ok {
		s.logWarn(ctx, "role report skipped, capability unavailable", map[string]any{
			"role_id": role.RoleID,
		})
	}
	s.observeOperation(ctx, startedAt, "report_role", nil, map[string]any{
		"role_id":   role.RoleID,
		"server_id": role.ServerID,
	})
	return nil
}

func validateReportRole(role RoleInfo) error {
	missing := []string{}
	if strings.TrimSpace(role.ServerID) == "" {
		missing = append(missing, "serverId")
	}
	if strings.TrimSpace(role.RoleID) == "" {
		missing = append(missing, "roleId")
	}
	if strings.TrimSpace(role.RoleName) == "" {
		missing = append(missing, "roleName")
	}
	if role.CreateRoleTime == 0 {
		missing = append(missing, "createRoleTime")
	}
	if len(missing) == 0 {
		return nil
	}
	return newSDKError("role report missing required fields", goerrors.CategoryBadInput, SDKErrorBadInput).
		WithMetadata(map[string]any{"missing": missing})
}

// GetBalance reads the user balance from the provider. Both response
// shapes are handled: the {code:"SUCCESS", data:{balance}} envelope and a
// flat {balance} map.
func (s *Service) GetBalance(ctx context.Context) (int64, error) {
	startedAt := s.now()

	result, ok := s.currentInvoker().Invoke(ctx, CapabilityBalance, nil)
	if !ok {
		err := newSDKError("balance unavailable from provider", goerrors.CategoryOperation, SDKErrorCapabilityUnavailable).
			WithMetadata(map[string]any{"capability": string(CapabilityBalance)})
		s.observeOperation(ctx, startedAt, "get_balance", err, nil)
		return 0, err
	}

	balance, err := extractBalance(result)
	if err != nil {
		err = wrapSDKError(err, goerrors.CategoryOperation, "balance response unreadable", SDKErrorInternal, nil)
		s.observeOperation(ctx, startedAt, "get_balance", err, nil)
		return 0, err
	}
	s.observeOperation(ctx, startedAt, "get_balance", nil, map[string]any{
		"balance": balance,
	})
	return balance, nil
}

func extractBalance(result map[string]any) (int64, error) {
	if code := stringField(result, "code"); code == "SUCCESS" {
		if data := mapSection(result, "data"); data != nil {
			if balance, ok := int64Field(data, "balance"); ok {
				return balance, nil
			}
		}
	}
	if balance, ok := int64Field(result, "balance"); ok {
		return balance, nil
	}
	message := stringField(result, "message")
	if message == "" {
		message = "provider returned no balance"
	}
	return 0, fmt.Errorf("%s", message)
}

// Logout resets the session and the persisted state. The session settles
// back in Ready (or Unavailable when no provider was resolved) so a new
// login can start immediately.
func (s *Service) Logout(ctx context.Context) error {
	startedAt := s.now()

	if err := s.stateStore.Reset(ctx); err != nil {
		s.logWarn(ctx, "state store reset failed", map[string]any{"error": err.Error()})
	}

	s.mu.Lock()
	nextPhase := PhaseReady
	if s.invoker == nil || !s.invoker.Ready() {
		nextPhase = PhaseUnavailable
	}
	switch s.session.Phase {
	case PhaseUninitialized, PhaseInitializing:
		// nothing to reset yet
		s.mu.Unlock()
		s.observeOperation(ctx, startedAt, "logout", nil, nil)
		return nil
	}
	s.session = Session{Phase: nextPhase, UpdatedAt: s.now()}
	s.mu.Unlock()

	s.publish(ctx, EventSessionLoggedOut, map[string]any{
		"phase": string(nextPhase),
	})
	s.observeOperation(ctx, startedAt, "logout", nil, nil)
	return nil
}

// currentInvoker returns the invoker snapshot, never nil.
func (s *Service) currentInvoker() *SafeInvoker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invoker == nil {
		return NewSafeInvoker(nil, s.logger)
	}
	return s.invoker
}

func (s *Service) publish(ctx context.Context, eventType string, fields map[string]any) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, LifecycleEvent{
		Type:       eventType,
		OccurredAt: s.now(),
		Fields:     cloneFields(fields),
	})
}

func stringField(values map[string]any, key string) string {
	if values == nil {
		return ""
	}
	if value, ok := values[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func mapSection(values map[string]any, key string) map[string]any {
	if values == nil {
		return nil
	}
	if section, ok := values[key].(map[string]any); ok {
		return section
	}
	return nil
}

func int64Field(values map[string]any, key string) (int64, bool) {
	if values == nil {
		return 0, false
	}
	switch value := values[key].(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		return int64(value), true
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			float, floatErr := value.Float64()
			if floatErr != nil {
				return 0, false
			}
			return int64(float), true
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
