// Package command exposes the session operations as go-command messages so
// hosts can drive the SDK through a dispatcher instead of holding the
// service directly.
package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

// SessionService is the slice of the session adapter the commands need.
type SessionService interface {
	Initialize(ctx context.Context) error
	Authenticate(ctx context.Context) (core.Identity, error)
	ConfirmRole(ctx context.Context, role core.RoleInfo) (map[string]any, error)
	ReportRole(ctx context.Context, role core.RoleInfo) error
	PurchaseProduct(ctx context.Context, request core.PurchaseRequest, onSuccess func()) (map[string]any, error)
	Logout(ctx context.Context) error
}

type InitializeCommand struct {
	service SessionService
}

func NewInitializeCommand(service SessionService) *InitializeCommand {
	return &InitializeCommand{service: service}
}

func (c *InitializeCommand) Execute(ctx context.Context, _ InitializeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	return c.service.Initialize(ctx)
}

type AuthenticateCommand struct {
	service SessionService
}

func NewAuthenticateCommand(service SessionService) *AuthenticateCommand {
	return &AuthenticateCommand{service: service}
}

func (c *AuthenticateCommand) Execute(ctx context.Context, _ AuthenticateMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	identity, err := c.service.Authenticate(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, identity)
	return nil
}

type ConfirmRoleCommand struct {
	service SessionService
}

func NewConfirmRoleCommand(service SessionService) *ConfirmRoleCommand {
	return &ConfirmRoleCommand{service: service}
}

func (c *ConfirmRoleCommand) Execute(ctx context.Context, msg ConfirmRoleMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	out, err := c.service.ConfirmRole(ctx, msg.Role)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ReportRoleCommand struct {
	service SessionService
}

func NewReportRoleCommand(service SessionService) *ReportRoleCommand {
	return &ReportRoleCommand{service: service}
}

func (c *ReportRoleCommand) Execute(ctx context.Context, msg ReportRoleMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	return c.service.ReportRole(ctx, msg.Role)
}

type PurchaseCommand struct {
	service SessionService

	// OnSuccess is the optional completion hook handed through to the
	// purchase saga.
	OnSuccess func()
}

func NewPurchaseCommand(service SessionService) *PurchaseCommand {
	return &PurchaseCommand{service: service}
}

func (c *PurchaseCommand) Execute(ctx context.Context, msg PurchaseMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	out, err := c.service.PurchaseProduct(ctx, msg.Request, c.OnSuccess)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type LogoutCommand struct {
	service SessionService
}

func NewLogoutCommand(service SessionService) *LogoutCommand {
	return &LogoutCommand{service: service}
}

func (c *LogoutCommand) Execute(ctx context.Context, _ LogoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	return c.service.Logout(ctx)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
