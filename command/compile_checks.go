package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[InitializeMessage]   = (*InitializeCommand)(nil)
	_ gocmd.Commander[AuthenticateMessage] = (*AuthenticateCommand)(nil)
	_ gocmd.Commander[ConfirmRoleMessage]  = (*ConfirmRoleCommand)(nil)
	_ gocmd.Commander[ReportRoleMessage]   = (*ReportRoleCommand)(nil)
	_ gocmd.Commander[PurchaseMessage]     = (*PurchaseCommand)(nil)
	_ gocmd.Commander[LogoutMessage]       = (*LogoutCommand)(nil)
)
