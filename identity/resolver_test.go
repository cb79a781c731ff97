package identity

import "testing"

func TestResolve_BackendLoginShape(t *testing.T) {
	identity, err := NewResolver().Resolve(map[string]any{
		"userId":   "u_1",
		"nickname": "nick",
		"avatar":   "https://cdn.example.com/a.png",
		"level":    float64(7),
		"token":    "session_tk",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != "u_1" || identity.Nickname != "nick" {
		t.Fatalf("unexpected identity %#v", identity)
	}
	if identity.Avatar != "https://cdn.example.com/a.png" {
		t.Fatalf("unexpected avatar %q", identity.Avatar)
	}
	if identity.Level != 7 {
		t.Fatalf("unexpected level %d", identity.Level)
	}
	if identity.Raw["token"] != "session_tk" {
		t.Fatalf("expected raw payload preserved, got %#v", identity.Raw)
	}
}

func TestResolve_ProviderProfileEnvelope(t *testing.T) {
	identity, err := NewResolver().Resolve(map[string]any{
		"code": "SUCCESS",
		"data": map[string]any{
			"user_id":  "u_2",
			"nickName": "别名",
			"headImg":  "https://cdn.example.com/b.png",
			"level":    "12",
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != "u_2" {
		t.Fatalf("expected enveloped user id, got %q", identity.UserID)
	}
	if identity.Nickname != "别名" {
		t.Fatalf("unexpected nickname %q", identity.Nickname)
	}
	if identity.Avatar != "https://cdn.example.com/b.png" {
		t.Fatalf("unexpected avatar %q", identity.Avatar)
	}
	if identity.Level != 12 {
		t.Fatalf("expected string level parsed, got %d", identity.Level)
	}
}

func TestResolve_NumericUserID(t *testing.T) {
	identity, err := NewResolver().Resolve(map[string]any{"uid": float64(12345)})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != "12345" {
		t.Fatalf("expected numeric id coerced to string, got %q", identity.UserID)
	}
}

func TestResolve_NilAndEmptyPayloads(t *testing.T) {
	identity, err := NewResolver().Resolve(nil)
	if err != nil {
		t.Fatalf("resolve nil: %v", err)
	}
	if !identity.IsZero() {
		t.Fatalf("nil payload must resolve to zero identity, got %#v", identity)
	}

	identity, err = NewResolver().Resolve(map[string]any{"unrelated": true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != "" || identity.Nickname != "" {
		t.Fatalf("unexpected identity from unrelated payload: %#v", identity)
	}
}
