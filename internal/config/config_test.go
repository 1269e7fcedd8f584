package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.NetworkPassphrase == "" {
		t.Error("Expected a default network passphrase")
	}
	if cfg.APIPort != 8080 {
		t.Errorf("Expected default port 8080, got: %d", cfg.APIPort)
	}
	if cfg.AuthMode != AuthModeSignature {
		t.Errorf("Expected default auth mode %q, got: %q", AuthModeSignature, cfg.AuthMode)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("AUTH_MODE", "allow-all")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.APIPort != 9090 {
		t.Errorf("Expected port 9090, got: %d", cfg.APIPort)
	}
	if cfg.AuthMode != AuthModeAllowAll {
		t.Errorf("Expected allow-all auth mode, got: %q", cfg.AuthMode)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got: %q", cfg.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty passphrase", func(c *Config) { c.NetworkPassphrase = "" }},
		{"zero port", func(c *Config) { c.APIPort = 0 }},
		{"port out of range", func(c *Config) { c.APIPort = 70000 }},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "trust-me" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}
