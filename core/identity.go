package core

import "strings"

// DefaultIdentityResolver extracts the common identity fields from a raw
// payload. The identity package ships a richer resolver that also knows the
// provider's aliased field names; this one covers the backend login shape.
type DefaultIdentityResolver struct{}

func (DefaultIdentityResolver) Resolve(payload map[string]any) (Identity, error) {
	identity := Identity{Raw: copyAnyMap(payload)}
	if payload == nil {
		return identity, nil
	}
	identity.UserID = firstStringField(payload, "userId", "user_id", "uid")
	identity.Nickname = firstStringField(payload, "nickname", "nickName")
	identity.Avatar = firstStringField(payload, "avatar", "avatarUrl")
	if level, ok := int64Field(payload, "level"); ok {
		identity.Level = level
	}
	return identity, nil
}

func firstStringField(values map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := stringField(values, key); strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

