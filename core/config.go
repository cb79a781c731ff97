package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL = "https://mzsdkapi.higame.cn/api/v2"

	DefaultProviderID    = "hupu"
	DefaultDevProviderID = "devkit"

	defaultRequestTimeout = 10 * time.Second
)

type RoleDefaults struct {
	ServerID string `koanf:"server_id" mapstructure:"server_id"`
	RoleID   string `koanf:"role_id" mapstructure:"role_id"`
	RoleName string `koanf:"role_name" mapstructure:"role_name"`
	Level    string `koanf:"level" mapstructure:"level"`
	VIP      string `koanf:"vip" mapstructure:"vip"`
}

type Config struct {
	GameID      string `koanf:"game_id" mapstructure:"game_id"`
	GameKey     string `koanf:"game_key" mapstructure:"game_key"`
	GameVersion string `koanf:"game_version" mapstructure:"game_version"`
	SDKVersion  string `koanf:"sdk_version" mapstructure:"sdk_version"`
	DeviceName  string `koanf:"device_name" mapstructure:"device_name"`

	APIBaseURL     string        `koanf:"api_base_url" mapstructure:"api_base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`

	// AcceptedCodes is the set of backend business codes treated as
	// success. Observed backends answer with more than one.
	AcceptedCodes []int64 `koanf:"accepted_codes" mapstructure:"accepted_codes"`

	ProviderID    string `koanf:"provider_id" mapstructure:"provider_id"`
	DevProviderID string `koanf:"dev_provider_id" mapstructure:"dev_provider_id"`

	// AutoLogin is a pointer so an explicit false survives the layered
	// merge against the enabled default.
	AutoLogin    *bool    `koanf:"auto_login" mapstructure:"auto_login"`
	TrustedHosts []string `koanf:"trusted_hosts" mapstructure:"trusted_hosts"`

	DefaultRole RoleDefaults `koanf:"default_role" mapstructure:"default_role"`
}

func DefaultConfig() Config {
	return Config{
		GameVersion:    "1.0.0",
		SDKVersion:     "6.1.0",
		DeviceName:     "H5",
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: defaultRequestTimeout,
		AcceptedCodes:  []int64{0, 1, 1000},
		ProviderID:     DefaultProviderID,
		DevProviderID:  DefaultDevProviderID,
		AutoLogin:      boolPtr(true),
		TrustedHosts:   []string{"mzsdkapi.higame.cn"},
		DefaultRole: RoleDefaults{
			ServerID: "server_1",
			RoleID:   "test_role_123",
			RoleName: "测试角色",
			Level:    "1",
			VIP:      "0",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.GameID) == "" {
		return fmt.Errorf("core: game_id is required")
	}
	if strings.TrimSpace(c.GameKey) == "" {
		return fmt.Errorf("core: game_key is required")
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("core: api_base_url is required")
	}
	if len(c.AcceptedCodes) == 0 {
		return fmt.Errorf("core: accepted_codes must not be empty")
	}
	return nil
}

// AutoLoginEnabled reports whether opportunistic login is on. Unset
// resolves to the default, enabled.
func (c Config) AutoLoginEnabled() bool {
	return c.AutoLogin == nil || *c.AutoLogin
}

func boolPtr(v bool) *bool { return &v }

// AcceptedCodeSet returns the accepted-success codes as a membership set.
func (c Config) AcceptedCodeSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(c.AcceptedCodes))
	for _, code := range c.AcceptedCodes {
		set[code] = struct{}{}
	}
	return set
}

// FixedParams is the parameter block every backend request carries.
// Call-specific parameters override these on key collision.
func (c Config) FixedParams() map[string]any {
	return map[string]any{
		"gameId":      c.GameID,
		"gameKey":     c.GameKey,
		"gameVersion": c.GameVersion,
		"sdkVersion":  c.SDKVersion,
		"deviceName":  c.DeviceName,
	}
}

func (c Config) defaultRoleInfo() RoleInfo {
	return RoleInfo{
		ServerID: c.DefaultRole.ServerID,
		RoleID:   c.DefaultRole.RoleID,
		RoleName: c.DefaultRole.RoleName,
		Level:    c.DefaultRole.Level,
		VIP:      c.DefaultRole.VIP,
	}
}
