package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

// sessionStateRecord is the single persisted row per client installation:
// session token, confirmed-role flag, cached identity.
type sessionStateRecord struct {
	bun.BaseModel `bun:"table:client_session_states,alias:css"`

	ID            string         `bun:"id,pk"`
	InstallID     string         `bun:"install_id,notnull,unique"`
	SessionToken  string         `bun:"session_token"`
	RoleConfirmed bool           `bun:"role_confirmed,notnull"`
	HasIdentity   bool           `bun:"has_identity,notnull"`
	Identity      map[string]any `bun:"identity,type:jsonb"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func identityToMap(identity core.Identity) map[string]any {
	return map[string]any{
		"user_id":  identity.UserID,
		"nickname": identity.Nickname,
		"avatar":   identity.Avatar,
		"level":    identity.Level,
		"raw":      identity.Raw,
	}
}

func identityFromMap(values map[string]any) core.Identity {
	if values == nil {
		return core.Identity{}
	}
	identity := core.Identity{}
	if v, ok := values["user_id"].(string); ok {
		identity.UserID = v
	}
	if v, ok := values["nickname"].(string); ok {
		identity.Nickname = v
	}
	if v, ok := values["avatar"].(string); ok {
		identity.Avatar = v
	}
	switch v := values["level"].(type) {
	case int64:
		identity.Level = v
	case float64:
		identity.Level = int64(v)
	case int:
		identity.Level = int64(v)
	}
	if v, ok := values["raw"].(map[string]any); ok {
		identity.Raw = v
	}
	return identity
}
