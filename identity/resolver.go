// Package identity normalizes the identity payloads the platform hands
// back. The backend login and the provider profile call disagree on field
// names and nesting; the resolver flattens both into core.Identity.
package identity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

// Resolver knows the aliased field names observed across the backend login
// response and the provider's getUserDetail payload.
type Resolver struct{}

func NewResolver() Resolver {
	return Resolver{}
}

func (Resolver) Resolve(payload map[string]any) (core.Identity, error) {
	if payload == nil {
		return core.Identity{Raw: map[string]any{}}, nil
	}

	// Provider responses sometimes wrap the profile in a data envelope.
	source := payload
	if data, ok := payload["data"].(map[string]any); ok {
		source = data
	}

	identity := core.Identity{Raw: cloneMap(payload)}
	identity.UserID = firstString(source, "userId", "user_id", "uid", "id")
	identity.Nickname = firstString(source, "nickname", "nickName", "userName", "name")
	identity.Avatar = firstString(source, "avatar", "avatarUrl", "avatar_url", "headImg")
	identity.Level = firstInt(source, "level", "userLevel")
	return identity, nil
}

func firstString(values map[string]any, keys ...string) string {
	for _, key := range keys {
		switch value := values[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		case float64:
			// Numeric ids come back as JSON numbers.
			return strconv.FormatInt(int64(value), 10)
		case json.Number:
			return value.String()
		case int64:
			return strconv.FormatInt(value, 10)
		case int:
			return strconv.Itoa(value)
		}
	}
	return ""
}

func firstInt(values map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch value := values[key].(type) {
		case float64:
			return int64(value)
		case int64:
			return value
		case int:
			return int64(value)
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err == nil {
				return parsed
			}
		case fmt.Stringer:
			parsed, err := strconv.ParseInt(strings.TrimSpace(value.String()), 10, 64)
			if err == nil {
				return parsed
			}
		}
	}
	return 0
}

func cloneMap(values map[string]any) map[string]any {
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return copied
}

var _ core.IdentityResolver = Resolver{}
