package command

import (
	"strings"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

const (
	TypeInitialize   = "hupuh5.command.session.initialize"
	TypeAuthenticate = "hupuh5.command.session.authenticate"
	TypeConfirmRole  = "hupuh5.command.role.confirm"
	TypeReportRole   = "hupuh5.command.role.report"
	TypePurchase     = "hupuh5.command.purchase.run"
	TypeLogout       = "hupuh5.command.session.logout"
)

type InitializeMessage struct{}

func (InitializeMessage) Type() string { return TypeInitialize }

func (InitializeMessage) Validate() error { return nil }

type AuthenticateMessage struct{}

func (AuthenticateMessage) Type() string { return TypeAuthenticate }

func (AuthenticateMessage) Validate() error { return nil }

// ConfirmRoleMessage carries the caller's role; zero-value fields fall back
// to the configured defaults inside the service.
type ConfirmRoleMessage struct {
	Role core.RoleInfo
}

func (ConfirmRoleMessage) Type() string { return TypeConfirmRole }

func (ConfirmRoleMessage) Validate() error { return nil }

type ReportRoleMessage struct {
	Role core.RoleInfo
}

func (ReportRoleMessage) Type() string { return TypeReportRole }

func (m ReportRoleMessage) Validate() error {
	if strings.TrimSpace(m.Role.ServerID) == "" {
		return commandValidationError("serverId", "server id is required")
	}
	if strings.TrimSpace(m.Role.RoleID) == "" {
		return commandValidationError("roleId", "role id is required")
	}
	if strings.TrimSpace(m.Role.RoleName) == "" {
		return commandValidationError("roleName", "role name is required")
	}
	if m.Role.CreateRoleTime == 0 {
		return commandValidationError("createRoleTime", "create role time is required")
	}
	return nil
}

type PurchaseMessage struct {
	Request core.PurchaseRequest
}

func (PurchaseMessage) Type() string { return TypePurchase }

func (PurchaseMessage) Validate() error { return nil }

type LogoutMessage struct{}

func (LogoutMessage) Type() string { return TypeLogout }

func (LogoutMessage) Validate() error { return nil }
