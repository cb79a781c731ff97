package core

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.ProviderID != "hupu" || cfg.DevProviderID != "devkit" {
		t.Fatalf("unexpected provider ids %q / %q", cfg.ProviderID, cfg.DevProviderID)
	}
	if !cfg.AutoLoginEnabled() {
		t.Fatalf("auto login must default on")
	}
	if cfg.DefaultRole.ServerID != "server_1" || cfg.DefaultRole.RoleID != "test_role_123" {
		t.Fatalf("unexpected role defaults %#v", cfg.DefaultRole)
	}

	set := cfg.AcceptedCodeSet()
	for _, code := range []int64{0, 1, 1000} {
		if _, ok := set[code]; !ok {
			t.Fatalf("expected code %d accepted", code)
		}
	}
	if _, ok := set[500]; ok {
		t.Fatalf("code 500 must not be accepted")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameID = "gid_1"
	cfg.GameKey = "gk_1"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	missingGame := cfg
	missingGame.GameID = ""
	if err := missingGame.Validate(); err == nil {
		t.Fatalf("expected game_id validation failure")
	}

	missingKey := cfg
	missingKey.GameKey = "  "
	if err := missingKey.Validate(); err == nil {
		t.Fatalf("expected game_key validation failure")
	}

	noCodes := cfg
	noCodes.AcceptedCodes = nil
	if err := noCodes.Validate(); err == nil {
		t.Fatalf("expected accepted_codes validation failure")
	}
}

func TestConfigFixedParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameID = "gid_1"
	cfg.GameKey = "gk_1"

	params := cfg.FixedParams()
	if params["gameId"] != "gid_1" || params["gameKey"] != "gk_1" {
		t.Fatalf("unexpected identity params: %#v", params)
	}
	if params["gameVersion"] != "1.0.0" || params["sdkVersion"] != "6.1.0" || params["deviceName"] != "H5" {
		t.Fatalf("unexpected fixed params: %#v", params)
	}
}
